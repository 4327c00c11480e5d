// Package design 实现对话式建筑设计的编排逻辑
package design

import (
	"context"
	"fmt"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/logger"
	"blueprint-ai-api/pkg/metrics"
	"blueprint-ai-api/pkg/tracer"
)

// InteriorRequest 室内探索入参：目标回合首张 2D 平面图上的展示坐标
type InteriorRequest struct {
	TurnIndex int
	X         float64
	Y         float64
	DisplayW  int
	DisplayH  int
}

// ExploreInterior 在平面图的标记点推断房间功能并渲染第一人称室内视图
// 只读取历史回合快照，从不修改对话日志
// 同一会话至多一个在途探索，占位失败返回 ExplorationInFlight
func (s *Service) ExploreInterior(ctx context.Context, sessionID string, req InteriorRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "design.explore_interior")
	defer span.End()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, session.ID)

	turn, err := session.TurnAt(req.TurnIndex)
	if err != nil {
		return "", err
	}
	bundle, ok := turn.FirstBundle()
	if !ok || len(bundle.Plans2D) == 0 {
		return "", errors.New(errors.CodeInvalidParam, "turn has no 2D plan to explore")
	}

	if !session.TryBeginExploration() {
		return "", errors.ErrExplorationInFlight
	}
	defer session.EndExploration()

	// 同一展示坐标在不同画布尺寸下落在平面图的不同位置，缓存键必须带上尺寸
	key := fmt.Sprintf("interior:%s:%d:%dx%d:%.0f:%.0f",
		sessionID, req.TurnIndex, req.DisplayW, req.DisplayH, req.X, req.Y)
	if s.cache != nil {
		if cached, cacheErr := s.cache.Get(ctx, key); cacheErr == nil && cached != "" {
			logger.Debug(ctx, "interior view served from cache", "key", key)
			return cached, nil
		}
	}

	result, err, _ := s.interiorGroup.Do(key, func() (any, error) {
		return s.generateInterior(ctx, bundle.Plans2D[0], req)
	})
	if err != nil {
		return "", err
	}

	image := result.(string)
	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, image, s.cacheTTL); cacheErr != nil {
			logger.Warn(ctx, "failed to cache interior view", "key", key, "error", cacheErr)
		}
	}
	return image, nil
}

func (s *Service) generateInterior(ctx context.Context, plan string, req InteriorRequest) (string, error) {
	annotated, err := annotatePlan(plan, req.X, req.Y, req.DisplayW, req.DisplayH, s.limits.MaxMarkerEdge)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := s.client.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: entity.RoleUser, Parts: []llm.Part{llm.ImagePart(annotated)}},
		},
		SystemInstruction: interiorInstruction,
		WantImages:        true,
	})
	metrics.DesignGenerationDuration.WithLabelValues("interior").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DesignGenerationTotal.WithLabelValues("interior", "error").Inc()
		return "", err
	}
	if len(out.Images) == 0 {
		metrics.DesignGenerationTotal.WithLabelValues("interior", "empty").Inc()
		return "", errors.ErrNoInteriorProduced
	}
	metrics.DesignGenerationTotal.WithLabelValues("interior", "success").Inc()
	logger.Info(ctx, "interior view generated")
	return out.Images[0], nil
}
