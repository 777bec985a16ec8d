package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/repository/memory"
)

func runMessageRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Add assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		added, err := repo.Message().Add(ctx, &model.ChatMessage{
			SessionID: "session-1",
			Sender:    types.SenderUser,
			Message:   "Who wins tonight?",
			Type:      types.MessageTypeBettingQuery,
		})
		if err != nil {
			t.Fatalf("failed to add message: %v", err)
		}

		if added.ID == "" {
			t.Error("expected non-empty message ID")
		}
		if added.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("History returns messages in insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sessionID := model.NewSessionID()
		for i := 0; i < 5; i++ {
			sender := types.SenderUser
			if i%2 == 1 {
				sender = types.SenderBot
			}
			if _, err := repo.Message().Add(ctx, &model.ChatMessage{
				SessionID: sessionID,
				Sender:    sender,
				Message:   fmt.Sprintf("message %d", i),
				Type:      types.MessageTypeBettingQuery,
			}); err != nil {
				t.Fatalf("failed to add message %d: %v", i, err)
			}
		}

		history, err := repo.Message().History(ctx, sessionID)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 5 {
			t.Fatalf("expected 5 messages, got %d", len(history))
		}
		for i, msg := range history {
			if msg.Message != fmt.Sprintf("message %d", i) {
				t.Errorf("expected message %d at position %d, got %s", i, i, msg.Message)
			}
		}
	})

	t.Run("History is empty for unknown session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		history, err := repo.Message().History(ctx, "no-such-session")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d messages", len(history))
		}
	})

	t.Run("History isolates sessions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sessionA := model.NewSessionID()
		sessionB := model.NewSessionID()

		for _, sid := range []types.SessionID{sessionA, sessionA, sessionB} {
			if _, err := repo.Message().Add(ctx, &model.ChatMessage{
				SessionID: sid,
				Sender:    types.SenderUser,
				Message:   "hello",
				Type:      types.MessageTypeBettingQuery,
			}); err != nil {
				t.Fatalf("failed to add message: %v", err)
			}
		}

		history, err := repo.Message().History(ctx, sessionA)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("expected 2 messages for session A, got %d", len(history))
		}
	})

	t.Run("Add preserves metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sessionID := model.NewSessionID()
		if _, err := repo.Message().Add(ctx, &model.ChatMessage{
			SessionID: sessionID,
			Sender:    types.SenderBot,
			Message:   "Arsenal look strong at home.",
			Type:      types.MessageTypeBettingResponse,
			Metadata: map[string]any{
				"query_category": "team_analysis",
			},
		}); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}

		history, err := repo.Message().History(ctx, sessionID)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 message, got %d", len(history))
		}
		if history[0].Metadata["query_category"] != "team_analysis" {
			t.Errorf("expected metadata preserved, got %v", history[0].Metadata)
		}
	})
}

func TestMemoryMessageRepository(t *testing.T) {
	runMessageRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreMessageRepository(t *testing.T) {
	runMessageRepositoryTest(t, newFirestoreRepository)
}
