package interfaces

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// SessionRepository persists chat sessions
type SessionRepository interface {
	Create(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error)
	Get(ctx context.Context, id types.SessionID) (*model.ChatSession, error)
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.ChatSession, error)
}
