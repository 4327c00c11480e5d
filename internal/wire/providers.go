// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/gin-gonic/gin"

	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/domain/repository"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/internal/infrastructure/persistence/memory"
	rediscache "blueprint-ai-api/internal/infrastructure/persistence/redis"
	"blueprint-ai-api/internal/interfaces/http/handler"
	"blueprint-ai-api/internal/interfaces/http/middleware"
	"blueprint-ai-api/internal/interfaces/http/router"
	"blueprint-ai-api/pkg/logger"
)

// App 应用依赖容器
type App struct {
	Router   *router.Router
	Sessions repository.SessionRepository
	Redis    *rediscache.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.Router.Engine()
}

// provideSessionRepository 提供进程内会话存储
func provideSessionRepository() repository.SessionRepository {
	return memory.NewSessionRepository()
}

// provideLLMClient 提供生成后端客户端
func provideLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewGeminiClient(ctx, cfg.Backend)
}

// provideRedisClient 提供 Redis 客户端
// Redis 仅服务于限流和结果缓存，不可用时降级运行
func provideRedisClient(cfg *config.Config) (*rediscache.Client, func()) {
	client, err := rediscache.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Default().Warn("redis unavailable, rate limiting and result cache disabled", "error", err)
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// provideRateLimiter 提供滑动窗口限流器
func provideRateLimiter(client *rediscache.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return rediscache.NewRateLimiter(client)
}

// provideDesignService 提供设计会话应用服务
func provideDesignService(cfg *config.Config, sessions repository.SessionRepository, llmClient llm.Client, redisClient *rediscache.Client) *design.Service {
	svc := design.NewService(sessions, llmClient, cfg.Limits)
	if redisClient != nil {
		svc.WithResultCache(rediscache.NewCache(redisClient), cfg.Cache.InteriorTTL)
	}
	return svc
}

// provideHandlers 组装路由处理器集合
func provideHandlers(
	sessionHandler *handler.SessionHandler,
	conversationHandler *handler.ConversationHandler,
	interiorHandler *handler.InteriorHandler,
	revisionHandler *handler.RevisionHandler,
	metaHandler *handler.MetaHandler,
	healthHandler *handler.HealthHandler,
) router.Handlers {
	return router.Handlers{
		Session:      sessionHandler,
		Conversation: conversationHandler,
		Interior:     interiorHandler,
		Revision:     revisionHandler,
		Meta:         metaHandler,
		Health:       healthHandler,
	}
}

// provideApp 组装应用容器
func provideApp(r *router.Router, sessions repository.SessionRepository, redisClient *rediscache.Client) *App {
	return &App{
		Router:   r,
		Sessions: sessions,
		Redis:    redisClient,
	}
}
