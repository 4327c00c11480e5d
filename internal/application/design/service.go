// Package design 实现对话式建筑设计的编排逻辑
package design

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/domain/repository"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/pkg/datauri"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/logger"
)

// ResultCache 跨请求复用生成结果的缓存
type ResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

// Service 设计会话应用服务
type Service struct {
	sessions repository.SessionRepository
	client   llm.Client
	limits   config.LimitsConfig

	// cache 可选的室内视角结果缓存，nil 时直连后端
	cache    ResultCache
	cacheTTL time.Duration

	// interiorGroup 合并同一坐标的在途室内探索请求
	interiorGroup singleflight.Group
}

// NewService 创建设计会话应用服务
func NewService(sessions repository.SessionRepository, client llm.Client, limits config.LimitsConfig) *Service {
	return &Service{
		sessions: sessions,
		client:   client,
		limits:   limits,
	}
}

// WithResultCache 启用室内视角结果缓存
func (s *Service) WithResultCache(cache ResultCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// invalidateCache 使会话的缓存结果失效，缓存故障只记日志
func (s *Service) invalidateCache(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
		logger.Warn(ctx, "failed to invalidate result cache", "session_id", sessionID, "error", err)
	}
}

// CreateSession 创建新会话并登记
func (s *Service) CreateSession(ctx context.Context) (*entity.DesignSession, error) {
	session := entity.NewDesignSession(uuid.NewString())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	logger.Info(ctx, "session created", "session_id", session.ID)
	return session, nil
}

// GetSession 按 ID 获取会话
func (s *Service) GetSession(ctx context.Context, id string) (*entity.DesignSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// DeleteSession 删除会话
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

// ResetSession 清空会话对话
func (s *Service) ResetSession(ctx context.Context, id string) (*entity.DesignSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Reset()
	s.invalidateCache(ctx, id)
	return session, nil
}

// SetMode 切换会话的生成模式
func (s *Service) SetMode(ctx context.Context, id string, mode string) (*entity.DesignSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parsed, err := entity.ParseGenerationMode(mode)
	if err != nil {
		return nil, err
	}
	session.SetMode(parsed)
	return session, nil
}

// SetUpload 暂存上传图像，超过解码后字节上限时拒绝
func (s *Service) SetUpload(ctx context.Context, id string, handle string) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := datauri.Decode(handle); err != nil {
		return errors.Wrap(err, errors.CodeMalformedHandle, "malformed image handle")
	}
	if datauri.PayloadSize(handle) > s.limits.MaxUploadBytes {
		return errors.ErrUploadTooLarge
	}
	session.SetUploadedImage(handle)
	return nil
}

// ClearUpload 移除暂存的上传图像
func (s *Service) ClearUpload(ctx context.Context, id string) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	session.ClearUploadedImage()
	return nil
}

// BeginEdit 进入编辑意图并返回输入框种子文本
func (s *Service) BeginEdit(ctx context.Context, id string, turnIndex int) (string, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return session.BeginEdit(turnIndex)
}

// BeginReply 进入回复意图
func (s *Service) BeginReply(ctx context.Context, id string, turnIndex int) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return session.BeginReply(turnIndex)
}

// CancelIntent 取消编辑/回复意图
func (s *Service) CancelIntent(ctx context.Context, id string) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	session.CancelIntent()
	return nil
}

// turnsToMessages 将领域回合转换为后端消息
func turnsToMessages(turns []*entity.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		msg := llm.Message{Role: turn.Role}
		for _, p := range turn.Parts {
			if p.IsText() {
				msg.Parts = append(msg.Parts, llm.TextPart(p.Text))
				continue
			}
			if p.IsBundle() {
				for _, handle := range p.Bundle.Images() {
					msg.Parts = append(msg.Parts, llm.ImagePart(handle))
				}
			}
		}
		messages = append(messages, msg)
	}
	return messages
}
