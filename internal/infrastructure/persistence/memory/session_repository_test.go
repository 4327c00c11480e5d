package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"blueprint-ai-api/internal/domain/entity"
	apperrors "blueprint-ai-api/pkg/errors"
)

func TestSessionRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	session := entity.NewDesignSession("sess-1")
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, session); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate Create err = %v, want ErrConflict", err)
	}

	got, err := repo.GetByID(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != "sess-1" {
		t.Fatalf("GetByID returned %q", got.ID)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("GetByID missing err = %v, want ErrSessionNotFound", err)
	}

	if err := repo.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "sess-1"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("second Delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepositoryPurgeIdle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	stale := entity.NewDesignSession("stale")
	fresh := entity.NewDesignSession("fresh")
	busy := entity.NewDesignSession("busy")
	for _, s := range []*entity.DesignSession{stale, fresh, busy} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s): %v", s.ID, err)
		}
	}

	if !busy.TryBeginGeneration() {
		t.Fatalf("TryBeginGeneration failed")
	}
	// fresh 在截止时间之后仍有活动
	time.Sleep(10 * time.Millisecond)
	cutoff := time.Now()
	fresh.Append(entity.NewTurn(entity.RoleUser, entity.NewTextPart("hello")))

	purged, err := repo.PurgeIdle(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeIdle: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged = %d, want 1", purged)
	}
	if _, err := repo.GetByID(ctx, "stale"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("stale session survived purge")
	}
	if _, err := repo.GetByID(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session was purged: %v", err)
	}
	if _, err := repo.GetByID(ctx, "busy"); err != nil {
		t.Fatalf("generating session was purged: %v", err)
	}
}
