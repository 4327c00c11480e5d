// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"blueprint-ai-api/internal/domain/entity"
)

// BundleResponse 方案图集视图
type BundleResponse struct {
	Plans2D []string `json:"plans_2d"`
	Plan3D  string   `json:"plan_3d,omitempty"`
}

// PartResponse 回合内单个部分的视图
type PartResponse struct {
	Kind   string          `json:"kind"`
	Text   string          `json:"text,omitempty"`
	Bundle *BundleResponse `json:"bundle,omitempty"`
}

// TurnResponse 对话回合视图
type TurnResponse struct {
	Index     int             `json:"index"`
	Role      string          `json:"role"`
	Parts     []*PartResponse `json:"parts"`
	CreatedAt string          `json:"created_at"`
}

// IntentResponse 待处理意图视图
type IntentResponse struct {
	Kind      string `json:"kind"`
	TurnIndex int    `json:"turn_index,omitempty"`
}

// SessionResponse 设计会话视图
type SessionResponse struct {
	ID            string          `json:"id"`
	Mode          string          `json:"mode"`
	Turns         []*TurnResponse `json:"turns"`
	Intent        *IntentResponse `json:"intent"`
	UploadedImage string          `json:"uploaded_image,omitempty"`
	Generating    bool            `json:"generating"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func toBundleResponse(b *entity.Bundle) *BundleResponse {
	if b == nil {
		return nil
	}
	plans := make([]string, len(b.Plans2D))
	copy(plans, b.Plans2D)
	return &BundleResponse{Plans2D: plans, Plan3D: b.Plan3D}
}

func toPartResponse(p entity.Part) *PartResponse {
	return &PartResponse{
		Kind:   string(p.Kind),
		Text:   p.Text,
		Bundle: toBundleResponse(p.Bundle),
	}
}

// ToTurnResponse 将回合实体转换为视图
func ToTurnResponse(index int, t *entity.Turn) *TurnResponse {
	if t == nil {
		return nil
	}
	parts := make([]*PartResponse, len(t.Parts))
	for i, p := range t.Parts {
		parts[i] = toPartResponse(p)
	}
	return &TurnResponse{
		Index:     index,
		Role:      string(t.Role),
		Parts:     parts,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToSessionResponse 将会话快照转换为视图
func ToSessionResponse(snap entity.SessionSnapshot) *SessionResponse {
	turns := make([]*TurnResponse, len(snap.Turns))
	for i, t := range snap.Turns {
		turns[i] = ToTurnResponse(i, t)
	}
	return &SessionResponse{
		ID:            snap.ID,
		Mode:          string(snap.Mode),
		Turns:         turns,
		Intent:        &IntentResponse{Kind: string(snap.Intent.Kind), TurnIndex: snap.Intent.TurnIndex},
		UploadedImage: snap.UploadedImage,
		Generating:    snap.Generating,
		CreatedAt:     snap.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     snap.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// SetModeRequest 切换生成模式请求
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse 发送消息响应
type SendMessageResponse struct {
	Turn    *TurnResponse    `json:"turn"`
	Session *SessionResponse `json:"session"`
}

// EditSeedResponse 编辑意图响应，seed 为输入框预填文本
type EditSeedResponse struct {
	TurnIndex int    `json:"turn_index"`
	Seed      string `json:"seed"`
}

// UploadRequest 暂存上传图像请求
type UploadRequest struct {
	Image string `json:"image" binding:"required"`
}

// InteriorRequest 室内视角请求，坐标以展示分辨率为基准
type InteriorRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DisplayW int     `json:"display_w" binding:"required,gt=0"`
	DisplayH int     `json:"display_h" binding:"required,gt=0"`
}

// InteriorResponse 室内视角响应
type InteriorResponse struct {
	Image string `json:"image"`
}

// RevisionResponse 修订工作台视图
type RevisionResponse struct {
	TurnIndex   int    `json:"turn_index"`
	Current     string `json:"current"`
	StrokeCount int    `json:"stroke_count"`
	CanSubmit   bool   `json:"can_submit"`
}

// ToRevisionResponse 将修订工作台转换为视图
func ToRevisionResponse(w *entity.RevisionWorkspace) *RevisionResponse {
	if w == nil {
		return nil
	}
	return &RevisionResponse{
		TurnIndex:   w.TurnIndex,
		Current:     w.Current(),
		StrokeCount: w.StrokeCount(),
		CanSubmit:   w.CanSubmit(),
	}
}

// StrokeRequest 提交笔迹快照请求
type StrokeRequest struct {
	Snapshot string `json:"snapshot" binding:"required"`
}

// SubmitRevisionRequest 提交修订请求
type SubmitRevisionRequest struct {
	Prompt string `json:"prompt"`
}

// MetaResponse 客户端引导信息
type MetaResponse struct {
	Modes          []string `json:"modes"`
	Model          string   `json:"model"`
	MaxUploadBytes int      `json:"max_upload_bytes"`
	LoadingPhases  []string `json:"loading_phases"`
	Welcome        string   `json:"welcome"`
}
