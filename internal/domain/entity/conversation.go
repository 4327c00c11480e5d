// Package entity 定义领域实体
package entity

import (
	"sync"
	"time"

	apperrors "blueprint-ai-api/pkg/errors"
)

// GenerationMode 生成模式枚举
type GenerationMode string

const (
	// ModeArchitect 建筑师模式：设计请求必须产出完整方案图集
	ModeArchitect GenerationMode = "architect"
	// ModeChat 对话模式：仅在用户明确要求时产出方案
	ModeChat GenerationMode = "chat"
)

// ParseGenerationMode 解析生成模式字符串
func ParseGenerationMode(s string) (GenerationMode, error) {
	switch GenerationMode(s) {
	case ModeArchitect, ModeChat:
		return GenerationMode(s), nil
	default:
		return "", apperrors.New(apperrors.CodeInvalidMode, "unknown generation mode").WithDetail(s)
	}
}

// WelcomeText 会话初始问候语
const WelcomeText = "Hi! I'm your AI architect. Describe the building you have in mind " +
	"and I'll draw up floor plans and a 3D exterior rendering for you."

// IntentKind 待处理意图类型枚举
type IntentKind string

const (
	IntentIdle     IntentKind = "idle"
	IntentEditing  IntentKind = "editing"
	IntentReplying IntentKind = "replying"
)

// PendingIntent 当前会话的跨回合操作意图
// 三种意图互斥，进入任意一种即清除其他
type PendingIntent struct {
	Kind      IntentKind `json:"kind"`
	TurnIndex int        `json:"turn_index,omitempty"`
}

// Turn 对话中的单条消息
type Turn struct {
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn 创建对话回合
func NewTurn(role Role, parts ...Part) *Turn {
	return &Turn{
		Role:      role,
		Parts:     parts,
		CreatedAt: time.Now(),
	}
}

// FirstText 返回回合的第一个文本部分
func (t *Turn) FirstText() (string, bool) {
	for _, p := range t.Parts {
		if p.IsText() {
			return p.Text, true
		}
	}
	return "", false
}

// FirstBundle 返回回合的第一个方案部分
func (t *Turn) FirstBundle() (Bundle, bool) {
	for _, p := range t.Parts {
		if p.IsBundle() {
			return *p.Bundle, true
		}
	}
	return Bundle{}, false
}

// BundleImages 按存储顺序展开回合内全部方案图像
func (t *Turn) BundleImages() []string {
	var images []string
	for _, p := range t.Parts {
		if p.IsBundle() {
			images = append(images, p.Bundle.Images()...)
		}
	}
	return images
}

// Clone 深拷贝回合
func (t *Turn) Clone() *Turn {
	parts := make([]Part, len(t.Parts))
	for i, p := range t.Parts {
		if p.IsBundle() {
			parts[i] = NewBundlePart(p.Bundle.Clone())
			continue
		}
		parts[i] = p
	}
	return &Turn{Role: t.Role, Parts: parts, CreatedAt: t.CreatedAt}
}

// DesignSession 设计会话聚合根
// 持有对话日志与全部跨回合状态，方法内部自行加锁
type DesignSession struct {
	ID            string
	Mode          GenerationMode
	Turns         []*Turn
	Intent        PendingIntent
	UploadedImage string
	Revision      *RevisionWorkspace
	CreatedAt     time.Time
	UpdatedAt     time.Time

	mu         sync.Mutex
	generating bool
	exploring  bool
	revising   bool
}

// NewDesignSession 创建设计会话，日志以固定问候回合开场
func NewDesignSession(id string) *DesignSession {
	now := time.Now()
	return &DesignSession{
		ID:        id,
		Mode:      ModeChat,
		Turns:     []*Turn{NewTurn(RoleModel, NewTextPart(WelcomeText))},
		Intent:    PendingIntent{Kind: IntentIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// touch 更新活跃时间，调用方须持有锁
func (s *DesignSession) touch() {
	s.UpdatedAt = time.Now()
}

// TryBeginGeneration 尝试占用生成位
// 已有生成在途时返回 false，同一会话至多一个在途生成
func (s *DesignSession) TryBeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

// EndGeneration 释放生成位
func (s *DesignSession) EndGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

// TryBeginExploration 尝试占用室内探索位
// 室内探索与主生成各持独立的占用位，互不阻塞
func (s *DesignSession) TryBeginExploration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exploring {
		return false
	}
	s.exploring = true
	return true
}

// EndExploration 释放室内探索位
func (s *DesignSession) EndExploration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exploring = false
}

// TryBeginRevisionSubmit 尝试占用修订提交位
func (s *DesignSession) TryBeginRevisionSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revising {
		return false
	}
	s.revising = true
	return true
}

// EndRevisionSubmit 释放修订提交位
func (s *DesignSession) EndRevisionSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revising = false
}

// Generating 返回是否有生成在途
func (s *DesignSession) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Append 将回合追加到日志末尾
func (s *DesignSession) Append(turn *Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = append(s.Turns, turn)
	s.touch()
}

// Reset 清空对话：日志替换为问候回合，意图与上传图像一并清除
func (s *DesignSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = []*Turn{NewTurn(RoleModel, NewTextPart(WelcomeText))}
	s.Intent = PendingIntent{Kind: IntentIdle}
	s.UploadedImage = ""
	s.Revision = nil
	s.touch()
}

// SetMode 切换生成模式
func (s *DesignSession) SetMode(mode GenerationMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mode = mode
	s.touch()
}

// BeginEdit 进入编辑意图，目标必须是用户回合
// 返回该回合现有文本作为输入框种子，无文本部分时种子为空串
func (s *DesignSession) BeginEdit(turnIndex int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turnIndex < 0 || turnIndex >= len(s.Turns) {
		return "", apperrors.ErrTurnNotFound
	}
	if s.Turns[turnIndex].Role != RoleUser {
		return "", apperrors.ErrTurnNotEditable
	}
	s.Intent = PendingIntent{Kind: IntentEditing, TurnIndex: turnIndex}
	s.touch()
	seed, _ := s.Turns[turnIndex].FirstText()
	return seed, nil
}

// BeginReply 进入回复意图，目标回合的方案图像将随下一次发送一并送出
func (s *DesignSession) BeginReply(turnIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turnIndex < 0 || turnIndex >= len(s.Turns) {
		return apperrors.ErrTurnNotFound
	}
	s.Intent = PendingIntent{Kind: IntentReplying, TurnIndex: turnIndex}
	s.touch()
	return nil
}

// CancelIntent 将意图复位为空闲
func (s *DesignSession) CancelIntent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Intent = PendingIntent{Kind: IntentIdle}
	s.touch()
}

// ApplyEdit 以新文本替换目标回合的首个文本部分（缺失时插入为首部分），
// 随后把日志截断到该回合（含）为止，后续回合全部丢弃
// 返回截断后日志的深拷贝作为生成上下文
func (s *DesignSession) ApplyEdit(turnIndex int, newText string) ([]*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turnIndex < 0 || turnIndex >= len(s.Turns) {
		return nil, apperrors.ErrTurnNotFound
	}
	turn := s.Turns[turnIndex]
	replaced := false
	for i, p := range turn.Parts {
		if p.IsText() {
			turn.Parts[i] = NewTextPart(newText)
			replaced = true
			break
		}
	}
	if !replaced {
		turn.Parts = append([]Part{NewTextPart(newText)}, turn.Parts...)
	}
	s.Turns = s.Turns[:turnIndex+1]
	s.touch()
	return cloneTurns(s.Turns), nil
}

// SetUploadedImage 暂存待发送的上传图像句柄
func (s *DesignSession) SetUploadedImage(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadedImage = handle
	s.touch()
}

// ClearUploadedImage 移除暂存的上传图像
func (s *DesignSession) ClearUploadedImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadedImage = ""
	s.touch()
}

// FinishSend 发送完成后的统一收尾：无论成败，
// 上传图像与待处理意图一律复位
func (s *DesignSession) FinishSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadedImage = ""
	s.Intent = PendingIntent{Kind: IntentIdle}
	s.touch()
}

// TurnAt 返回指定索引回合的深拷贝
func (s *DesignSession) TurnAt(turnIndex int) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turnIndex < 0 || turnIndex >= len(s.Turns) {
		return nil, apperrors.ErrTurnNotFound
	}
	return s.Turns[turnIndex].Clone(), nil
}

// Snapshot 返回会话状态的深拷贝视图，供渲染层使用
func (s *DesignSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ID:            s.ID,
		Mode:          s.Mode,
		Turns:         cloneTurns(s.Turns),
		Intent:        s.Intent,
		UploadedImage: s.UploadedImage,
		Generating:    s.generating,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// LastActive 返回最近活跃时间
func (s *DesignSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// TurnCount 返回日志长度
func (s *DesignSession) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Turns)
}

// ContextTurns 返回当前日志的深拷贝作为生成上下文
func (s *DesignSession) ContextTurns() []*Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTurns(s.Turns)
}

// SessionSnapshot 会话状态的只读视图
type SessionSnapshot struct {
	ID            string         `json:"id"`
	Mode          GenerationMode `json:"mode"`
	Turns         []*Turn        `json:"turns"`
	Intent        PendingIntent  `json:"intent"`
	UploadedImage string         `json:"uploaded_image,omitempty"`
	Generating    bool           `json:"generating"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func cloneTurns(turns []*Turn) []*Turn {
	cloned := make([]*Turn, len(turns))
	for i, t := range turns {
		cloned[i] = t.Clone()
	}
	return cloned
}
