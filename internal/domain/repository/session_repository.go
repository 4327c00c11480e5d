// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"blueprint-ai-api/internal/domain/entity"
)

// SessionRepository 设计会话存取接口
type SessionRepository interface {
	Create(ctx context.Context, session *entity.DesignSession) error
	GetByID(ctx context.Context, id string) (*entity.DesignSession, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// PurgeIdle 删除最近活跃时间早于 cutoff 的会话，返回删除数量
	PurgeIdle(ctx context.Context, cutoff time.Time) (int, error)
}
