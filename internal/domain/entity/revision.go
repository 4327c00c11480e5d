// Package entity 定义领域实体
package entity

import (
	apperrors "blueprint-ai-api/pkg/errors"
)

// RevisionWorkspace 标注修订工作台
// 维护画布快照的线性历史，元素 0 恒为未修改的原始平面图
type RevisionWorkspace struct {
	TurnIndex int      `json:"turn_index"`
	History   []string `json:"history"`
}

// NewRevisionWorkspace 以原始平面图为种子创建工作台
func NewRevisionWorkspace(turnIndex int, seed string) *RevisionWorkspace {
	return &RevisionWorkspace{
		TurnIndex: turnIndex,
		History:   []string{seed},
	}
}

// Current 返回最新画布快照
func (w *RevisionWorkspace) Current() string {
	return w.History[len(w.History)-1]
}

// StrokeCount 返回种子之外的笔画数
func (w *RevisionWorkspace) StrokeCount() int {
	return len(w.History) - 1
}

// CanSubmit 判断是否具备提交条件（至少一笔标注）
func (w *RevisionWorkspace) CanSubmit() bool {
	return len(w.History) > 1
}

// OpenRevision 为指定回合打开修订工作台，替换已有工作台
// 目标回合必须含有非空 2D 平面序列，以其首张平面图为种子
func (s *DesignSession) OpenRevision(turnIndex int) (*RevisionWorkspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turnIndex < 0 || turnIndex >= len(s.Turns) {
		return nil, apperrors.ErrTurnNotFound
	}
	bundle, ok := s.Turns[turnIndex].FirstBundle()
	if !ok || len(bundle.Plans2D) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "turn has no 2D plan to revise")
	}
	s.Revision = NewRevisionWorkspace(turnIndex, bundle.Plans2D[0])
	s.touch()
	return s.revisionView(), nil
}

// PushStroke 追加一笔完成后的画布快照
func (s *DesignSession) PushStroke(snapshot string) (*RevisionWorkspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Revision == nil {
		return nil, apperrors.ErrRevisionNotOpen
	}
	s.Revision.History = append(s.Revision.History, snapshot)
	s.touch()
	return s.revisionView(), nil
}

// UndoStroke 弹出最近一个快照，永不低于种子
func (s *DesignSession) UndoStroke() (*RevisionWorkspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Revision == nil {
		return nil, apperrors.ErrRevisionNotOpen
	}
	if len(s.Revision.History) > 1 {
		s.Revision.History = s.Revision.History[:len(s.Revision.History)-1]
	}
	s.touch()
	return s.revisionView(), nil
}

// ClearStrokes 将历史重置为仅含种子
func (s *DesignSession) ClearStrokes() (*RevisionWorkspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Revision == nil {
		return nil, apperrors.ErrRevisionNotOpen
	}
	s.Revision.History = s.Revision.History[:1]
	s.touch()
	return s.revisionView(), nil
}

// CloseRevision 关闭修订工作台
func (s *DesignSession) CloseRevision() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Revision = nil
	s.touch()
}

// RevisionState 返回当前工作台的拷贝
func (s *DesignSession) RevisionState() (*RevisionWorkspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Revision == nil {
		return nil, apperrors.ErrRevisionNotOpen
	}
	return s.revisionView(), nil
}

// revisionView 返回工作台拷贝，调用方须持有锁
func (s *DesignSession) revisionView() *RevisionWorkspace {
	history := make([]string, len(s.Revision.History))
	copy(history, s.Revision.History)
	return &RevisionWorkspace{TurnIndex: s.Revision.TurnIndex, History: history}
}
