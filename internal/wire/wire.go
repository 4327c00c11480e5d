//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/interfaces/http/handler"
	"blueprint-ai-api/internal/interfaces/http/router"
)

// InitializeApp 组装完整应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		provideSessionRepository,
		provideLLMClient,
		provideRedisClient,
		provideRateLimiter,
		provideDesignService,
		handler.NewSessionHandler,
		handler.NewConversationHandler,
		handler.NewInteriorHandler,
		handler.NewRevisionHandler,
		handler.NewMetaHandler,
		handler.NewHealthHandler,
		provideHandlers,
		router.New,
		provideApp,
	)
	return nil, nil, nil
}
