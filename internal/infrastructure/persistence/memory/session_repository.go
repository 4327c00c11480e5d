// Package memory 提供基于进程内存的会话存储实现
package memory

import (
	"context"
	"sync"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/domain/repository"
	"blueprint-ai-api/pkg/errors"
	"blueprint-ai-api/pkg/metrics"
)

// SessionRepository 进程内会话存储
// 会话不跨进程持久化，随服务重启清空
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.DesignSession
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository 创建进程内会话存储
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entity.DesignSession),
	}
}

// Create 登记新会话
func (r *SessionRepository) Create(_ context.Context, session *entity.DesignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[session.ID]; exists {
		return errors.ErrConflict
	}
	r.sessions[session.ID] = session
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return nil
}

// GetByID 按 ID 获取会话
func (r *SessionRepository) GetByID(_ context.Context, id string) (*entity.DesignSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// Delete 删除会话
func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return errors.ErrSessionNotFound
	}
	metrics.SessionTurns.WithLabelValues("deleted").Observe(float64(session.TurnCount()))
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return nil
}

// Count 返回存活会话数
func (r *SessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}

// PurgeIdle 删除最近活跃时间早于 cutoff 的会话
// 生成在途的会话不回收
func (r *SessionRepository) PurgeIdle(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for id, session := range r.sessions {
		if session.Generating() {
			continue
		}
		if session.LastActive().Before(cutoff) {
			metrics.SessionTurns.WithLabelValues("expired").Observe(float64(session.TurnCount()))
			delete(r.sessions, id)
			purged++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return purged, nil
}
