// Package entity 定义领域实体
package entity

// PartKind 消息部分类型枚举
type PartKind string

const (
	PartKindText   PartKind = "text"
	PartKindBundle PartKind = "bundle"
)

// Part 回合内的单个内容单元
// 同一时刻只有与 Kind 对应的字段被填充
type Part struct {
	Kind   PartKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Bundle *Bundle  `json:"bundle,omitempty"`
}

// NewTextPart 创建文本部分
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewBundlePart 创建方案部分
func NewBundlePart(bundle Bundle) Part {
	b := bundle
	return Part{Kind: PartKindBundle, Bundle: &b}
}

// IsText 判断是否为文本部分
func (p Part) IsText() bool {
	return p.Kind == PartKindText
}

// IsBundle 判断是否为方案部分
func (p Part) IsBundle() bool {
	return p.Kind == PartKindBundle && p.Bundle != nil
}
