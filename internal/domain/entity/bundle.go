// Package entity 定义领域实体
package entity

// Bundle 单个设计回合产出的方案图集
// Plans2D 按楼层升序排列，索引 0 为首层；Plan3D 为唯一的外观渲染图
type Bundle struct {
	Plans2D []string `json:"plans_2d"`
	Plan3D  string   `json:"plan_3d,omitempty"`
}

// AssembleBundle 将后端返回的有序图像列表组装为方案图集
// 约定：单图时仅有一张 2D 平面图；多图时末尾为 3D 渲染图，其余按原序为 2D 楼层图
func AssembleBundle(images []string) Bundle {
	switch len(images) {
	case 0:
		return Bundle{}
	case 1:
		return Bundle{Plans2D: []string{images[0]}}
	default:
		plans := make([]string, len(images)-1)
		copy(plans, images[:len(images)-1])
		return Bundle{Plans2D: plans, Plan3D: images[len(images)-1]}
	}
}

// HasPlan3D 判断是否包含 3D 渲染图
func (b Bundle) HasPlan3D() bool {
	return b.Plan3D != ""
}

// IsEmpty 判断图集是否为空
func (b Bundle) IsEmpty() bool {
	return len(b.Plans2D) == 0 && b.Plan3D == ""
}

// Images 按存储顺序展开全部图像（2D 楼层图在前，3D 渲染图在后）
func (b Bundle) Images() []string {
	images := make([]string, 0, len(b.Plans2D)+1)
	images = append(images, b.Plans2D...)
	if b.Plan3D != "" {
		images = append(images, b.Plan3D)
	}
	return images
}

// Clone 深拷贝图集
func (b Bundle) Clone() Bundle {
	clone := Bundle{Plan3D: b.Plan3D}
	if len(b.Plans2D) > 0 {
		clone.Plans2D = make([]string, len(b.Plans2D))
		copy(clone.Plans2D, b.Plans2D)
	}
	return clone
}
