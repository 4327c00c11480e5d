// Package design 实现对话式建筑设计的编排逻辑
package design

import (
	"context"
	"strings"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/logger"
	"blueprint-ai-api/pkg/metrics"
	"blueprint-ai-api/pkg/tracer"
)

// SendResult 一次发送的结果
type SendResult struct {
	// Turn 追加到日志的模型回合（成功为生成结果，失败为致歉回合）
	Turn *entity.Turn
	// Err 失败原因，成功时为空；致歉回合已入日志
	Err error
}

// Send 处理一次发送：按待处理意图分派为编辑再生、带上下文回复或新消息
// 同一会话至多一个在途生成，占位失败返回 GenerationInFlight
func (s *Service) Send(ctx context.Context, sessionID string, text string) (*SendResult, error) {
	ctx, span := tracer.Start(ctx, "design.send")
	defer span.End()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, session.ID)

	text = strings.TrimSpace(text)
	snap := session.Snapshot()

	// 空提交拦截：无文本、无上传图像且不在编辑态时不触发任何状态变化
	if text == "" && snap.UploadedImage == "" && snap.Intent.Kind != entity.IntentEditing {
		return nil, errors.ErrEmptySubmission
	}

	if !session.TryBeginGeneration() {
		return nil, errors.ErrGenerationInFlight
	}
	defer session.EndGeneration()
	defer session.FinishSend()

	var (
		prior    []*entity.Turn
		newParts []llm.Part
	)

	switch snap.Intent.Kind {
	case entity.IntentEditing:
		truncated, err := session.ApplyEdit(snap.Intent.TurnIndex, text)
		if err != nil {
			return nil, err
		}
		// 截断后回合索引失效，丢弃该会话的缓存结果
		s.invalidateCache(ctx, sessionID)
		prior = truncated[:len(truncated)-1]
		newParts = []llm.Part{llm.TextPart(text)}

	case entity.IntentReplying:
		target, err := session.TurnAt(snap.Intent.TurnIndex)
		if err != nil {
			return nil, err
		}
		if text != "" {
			newParts = append(newParts, llm.TextPart(text))
		}
		for _, handle := range target.BundleImages() {
			newParts = append(newParts, llm.ImagePart(handle))
		}
		prior = session.ContextTurns()
		session.Append(buildUserTurn(text, snap.UploadedImage))

	default:
		if text != "" {
			newParts = append(newParts, llm.TextPart(text))
		}
		if snap.UploadedImage != "" {
			newParts = append(newParts, llm.ImagePart(snap.UploadedImage))
		}
		prior = session.ContextTurns()
		session.Append(buildUserTurn(text, snap.UploadedImage))
	}

	mode := snap.Mode
	start := time.Now()
	out, err := s.client.Generate(ctx, llm.Request{
		Messages:          append(turnsToMessages(prior), llm.Message{Role: entity.RoleUser, Parts: newParts}),
		SystemInstruction: instructionFor(mode),
		WantImages:        true,
		WantText:          true,
	})
	metrics.DesignGenerationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DesignGenerationTotal.WithLabelValues(string(mode), "error").Inc()
		logger.Error(ctx, "generation failed", err)
		apology := entity.NewTurn(entity.RoleModel, entity.NewTextPart(apologyText))
		session.Append(apology)
		return &SendResult{Turn: apology, Err: err}, nil
	}
	metrics.DesignGenerationTotal.WithLabelValues(string(mode), "success").Inc()
	metrics.DesignImagesReturned.WithLabelValues(string(mode)).Observe(float64(len(out.Images)))

	turn := buildModelTurn(out)
	session.Append(turn)
	logger.Info(ctx, "generation completed", "images", len(out.Images), "mode", mode)
	return &SendResult{Turn: turn}, nil
}

// buildUserTurn 构造入日志的用户回合：文本加上传图像预览
func buildUserTurn(text, uploadedImage string) *entity.Turn {
	var parts []entity.Part
	if text != "" {
		parts = append(parts, entity.NewTextPart(text))
	}
	if uploadedImage != "" {
		parts = append(parts, entity.NewBundlePart(entity.AssembleBundle([]string{uploadedImage})))
	}
	return entity.NewTurn(entity.RoleUser, parts...)
}

// buildModelTurn 由解析后的生成结果构造模型回合
// 既无文本也无图像时写入兜底文案而非报错
func buildModelTurn(out *llm.Output) *entity.Turn {
	var parts []entity.Part
	if out.Text != "" {
		parts = append(parts, entity.NewTextPart(out.Text))
	}
	if len(out.Images) > 0 {
		parts = append(parts, entity.NewBundlePart(entity.AssembleBundle(out.Images)))
	}
	if len(parts) == 0 {
		parts = append(parts, entity.NewTextPart(fallbackText))
	}
	return entity.NewTurn(entity.RoleModel, parts...)
}
