package interfaces

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// MessageRepository persists chat messages. History returns messages in
// strict insertion order per session; the orchestrator depends on this to
// reconstruct the most recent turns.
type MessageRepository interface {
	Add(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error)
	History(ctx context.Context, sessionID types.SessionID) ([]*model.ChatMessage, error)
}
