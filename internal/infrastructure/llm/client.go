// Package llm 封装多模态生成后端客户端
package llm

import (
	"context"

	"blueprint-ai-api/internal/domain/entity"
)

// Part 出站消息的单个内容单元，文本与图像句柄二选一
type Part struct {
	Text        string
	ImageHandle string
}

// TextPart 创建文本部分
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart 创建图像部分
func ImagePart(handle string) Part {
	return Part{ImageHandle: handle}
}

// Message 按角色标记的部分列表
type Message struct {
	Role  entity.Role
	Parts []Part
}

// Request 一次生成调用的完整入参
type Request struct {
	// Messages 完整的先前回合序列加本次新输入
	Messages []Message
	// SystemInstruction 模式对应的系统指令
	SystemInstruction string
	// WantImages / WantText 请求的响应模态
	WantImages bool
	WantText   bool
}

// Output 解析后的生成结果
// Text 为全部文本部分按接收顺序拼接；Images 为全部内联图像
// 按接收顺序重编码的句柄序列
type Output struct {
	Text   string
	Images []string
}

// Client 生成后端能力接口
type Client interface {
	Generate(ctx context.Context, req Request) (*Output, error)
}
