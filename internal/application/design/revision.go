// Package design 实现对话式建筑设计的编排逻辑
package design

import (
	"context"
	"strings"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/pkg/datauri"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/logger"
	"blueprint-ai-api/pkg/metrics"
	"blueprint-ai-api/pkg/tracer"
)

// OpenRevision 为目标回合打开标注修订工作台
func (s *Service) OpenRevision(ctx context.Context, sessionID string, turnIndex int) (*entity.RevisionWorkspace, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.OpenRevision(turnIndex)
}

// PushStroke 记录一笔完成后的画布快照
func (s *Service) PushStroke(ctx context.Context, sessionID string, snapshot string) (*entity.RevisionWorkspace, error) {
	if _, _, err := datauri.Decode(snapshot); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedHandle, "malformed image handle")
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.PushStroke(snapshot)
}

// UndoStroke 撤销最近一笔
func (s *Service) UndoStroke(ctx context.Context, sessionID string) (*entity.RevisionWorkspace, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.UndoStroke()
}

// ClearStrokes 清除全部笔迹
func (s *Service) ClearStrokes(ctx context.Context, sessionID string) (*entity.RevisionWorkspace, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.ClearStrokes()
}

// CloseRevision 关闭工作台
func (s *Service) CloseRevision(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	session.CloseRevision()
	return nil
}

// SubmitRevision 提交修订：标注图加修订指令一并送往后端，
// 成功时以全新模型回合追加结果，原始回合永不被改写
// 要求非空指令且至少一笔标注，返回图像不足两张视为 IncompleteRevision
// 同一会话至多一个在途提交，占位失败返回 RevisionInFlight
func (s *Service) SubmitRevision(ctx context.Context, sessionID string, prompt string) (*entity.Turn, error) {
	ctx, span := tracer.Start(ctx, "design.submit_revision")
	defer span.End()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, session.ID)

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.ErrEmptySubmission
	}
	workspace, err := session.RevisionState()
	if err != nil {
		return nil, err
	}
	if !workspace.CanSubmit() {
		return nil, errors.New(errors.CodeEmptySubmission, "revision needs at least one stroke")
	}

	if !session.TryBeginRevisionSubmit() {
		return nil, errors.ErrRevisionInFlight
	}
	defer session.EndRevisionSubmit()

	start := time.Now()
	out, err := s.client.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: entity.RoleUser, Parts: []llm.Part{
				llm.TextPart(prompt),
				llm.ImagePart(workspace.Current()),
			}},
		},
		SystemInstruction: revisionInstruction,
		WantImages:        true,
		WantText:          true,
	})
	metrics.DesignGenerationDuration.WithLabelValues("revision").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DesignGenerationTotal.WithLabelValues("revision", "error").Inc()
		return nil, err
	}
	if len(out.Images) < 2 {
		metrics.DesignGenerationTotal.WithLabelValues("revision", "incomplete").Inc()
		return nil, errors.ErrIncompleteRevision
	}
	metrics.DesignGenerationTotal.WithLabelValues("revision", "success").Inc()
	metrics.DesignImagesReturned.WithLabelValues("revision").Observe(float64(len(out.Images)))

	turn := buildModelTurn(out)
	session.Append(turn)
	session.CloseRevision()
	logger.Info(ctx, "revision applied", "images", len(out.Images))
	return turn, nil
}
