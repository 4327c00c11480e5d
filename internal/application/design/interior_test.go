package design

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/internal/infrastructure/persistence/memory"
	apperrors "blueprint-ai-api/pkg/errors"
)

// recordingCache 进程内缓存替身，记录写入的键值
type recordingCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]string)}
}

func (c *recordingCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *recordingCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *recordingCache) InvalidateSession(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	return nil
}

func sessionWithPlan(t *testing.T, svc *Service) *entity.DesignSession {
	t.Helper()
	session, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	plan := makePlanHandle(t, 200, 200)
	session.Append(entity.NewTurn(entity.RoleModel,
		entity.NewBundlePart(entity.AssembleBundle([]string{plan, makePlanHandle(t, 100, 100)})),
	))
	return session
}

func TestExploreInterior(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, req llm.Request) (*llm.Output, error) {
			if req.SystemInstruction != interiorInstruction {
				return nil, apperrors.ErrInvalidParam
			}
			if req.WantText {
				return nil, apperrors.ErrInvalidParam
			}
			return &llm.Output{Images: []string{"data:image/png;base64,aW50ZXJpb3I="}}, nil
		},
	}
	svc := NewService(memory.NewSessionRepository(), mock, testLimits())
	session := sessionWithPlan(t, svc)
	before := session.TurnCount()

	view, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 50, Y: 50, DisplayW: 200, DisplayH: 200,
	})
	if err != nil {
		t.Fatalf("ExploreInterior: %v", err)
	}
	if view == "" {
		t.Fatalf("no interior image returned")
	}
	if session.TurnCount() != before {
		t.Fatalf("explore mutated the conversation log")
	}

	req, _ := mock.LastRequest()
	if len(req.Messages) != 1 || len(req.Messages[0].Parts) != 1 || req.Messages[0].Parts[0].ImageHandle == "" {
		t.Fatalf("request = %+v, want single annotated image", req.Messages)
	}
}

func TestExploreInteriorNoImageProduced(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return &llm.Output{}, nil
		},
	}
	svc := NewService(memory.NewSessionRepository(), mock, testLimits())
	session := sessionWithPlan(t, svc)

	_, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 10, Y: 10, DisplayW: 200, DisplayH: 200,
	})
	if !errors.Is(err, apperrors.ErrNoInteriorProduced) {
		t.Fatalf("err = %v, want ErrNoInteriorProduced", err)
	}
}

func TestExploreInteriorCacheKeyVariesWithDisplaySize(t *testing.T) {
	calls := 0
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			calls++
			return &llm.Output{Images: []string{fmt.Sprintf("data:image/png;base64,dmlldy%d", calls)}}, nil
		},
	}
	cache := newRecordingCache()
	svc := NewService(memory.NewSessionRepository(), mock, testLimits()).
		WithResultCache(cache, time.Minute)
	session := sessionWithPlan(t, svc)

	// 同一展示坐标在 200x200 与 100x100 画布下落在平面图的不同位置
	first, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 50, Y: 50, DisplayW: 200, DisplayH: 200,
	})
	if err != nil {
		t.Fatalf("ExploreInterior: %v", err)
	}
	second, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 50, Y: 50, DisplayW: 100, DisplayH: 100,
	})
	if err != nil {
		t.Fatalf("ExploreInterior: %v", err)
	}
	if second == first {
		t.Fatalf("different display size reused another location's cached view")
	}
	if len(mock.Requests()) != 2 {
		t.Fatalf("backend calls = %d, want 2", len(mock.Requests()))
	}
	if len(cache.entries) != 2 {
		t.Fatalf("cache entries = %d, want distinct keys per display size", len(cache.entries))
	}

	// 完全相同的请求命中缓存，不再触达后端
	third, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 50, Y: 50, DisplayW: 200, DisplayH: 200,
	})
	if err != nil {
		t.Fatalf("ExploreInterior: %v", err)
	}
	if third != first {
		t.Fatalf("identical request missed the cache")
	}
	if len(mock.Requests()) != 2 {
		t.Fatalf("cache hit still reached the backend")
	}
}

func TestExploreInteriorRejectsConcurrent(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			enteredOnce.Do(func() { close(entered) })
			<-release
			return &llm.Output{Images: []string{"data:image/png;base64,dmlldw=="}}, nil
		},
	}
	svc := NewService(memory.NewSessionRepository(), mock, testLimits())
	session := sessionWithPlan(t, svc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
			TurnIndex: 1, X: 50, Y: 50, DisplayW: 200, DisplayH: 200,
		})
		done <- err
	}()
	<-entered

	// 在途期间对另一坐标的点击被拒绝
	_, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 120, Y: 80, DisplayW: 200, DisplayH: 200,
	})
	if !errors.Is(err, apperrors.ErrExplorationInFlight) {
		t.Fatalf("err = %v, want ErrExplorationInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first exploration: %v", err)
	}

	// 占位释放后可再次探索
	if _, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 1, X: 120, Y: 80, DisplayW: 200, DisplayH: 200,
	}); err != nil {
		t.Fatalf("exploration after release: %v", err)
	}
}

func TestExploreInteriorRequiresPlan(t *testing.T) {
	svc := NewService(memory.NewSessionRepository(), &llm.MockClient{}, testLimits())
	session, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// 问候回合没有方案图
	if _, err := svc.ExploreInterior(context.Background(), session.ID, InteriorRequest{
		TurnIndex: 0, X: 1, Y: 1, DisplayW: 10, DisplayH: 10,
	}); err == nil {
		t.Fatalf("explore on plain text turn was accepted")
	}
}
