package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/repository/firestore"
	"github.com/pitchside-lab/pitchside/pkg/repository/memory"
)

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.ChatSession{
			UserID: "user-1",
			Type:   types.SessionTypeBetting,
		})
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty session ID")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("Create preserves provided ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sessionID := model.NewSessionID()
		created, err := repo.Session().Create(ctx, &model.ChatSession{
			ID:     sessionID,
			UserID: "user-1",
			Type:   types.SessionTypeBetting,
		})
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if created.ID != sessionID {
			t.Errorf("expected ID=%s, got %s", sessionID, created.ID)
		}
	})

	t.Run("Get retrieves existing session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.ChatSession{
			UserID: "user-2",
			Type:   types.SessionTypeBetting,
		})
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		retrieved, err := repo.Session().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if retrieved.UserID != "user-2" {
			t.Errorf("expected user_id=user-2, got %s", retrieved.UserID)
		}
	})

	t.Run("Get returns error for unknown session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Session().Get(ctx, "no-such-session")
		if err == nil {
			t.Fatal("expected error for unknown session")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("ListByUser filters by user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, userID := range []types.UserID{"user-a", "user-a", "user-b"} {
			if _, err := repo.Session().Create(ctx, &model.ChatSession{
				UserID: userID,
				Type:   types.SessionTypeBetting,
			}); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		sessions, err := repo.Session().ListByUser(ctx, "user-a")
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(sessions))
		}
		for _, s := range sessions {
			if s.UserID != "user-a" {
				t.Errorf("expected user_id=user-a, got %s", s.UserID)
			}
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemorySessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreSessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepository)
}
