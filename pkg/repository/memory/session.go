package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*model.ChatSession
}

var _ interfaces.SessionRepository = &sessionRepository{}

func newSessionRepository() *sessionRepository {
	return &sessionRepository{
		sessions: make(map[types.SessionID]*model.ChatSession),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *session
	if created.ID == "" {
		created.ID = model.NewSessionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.sessions[created.ID] = &created

	copied := created
	return &copied, nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
	}

	copied := *session
	return &copied, nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*model.ChatSession
	for _, session := range r.sessions {
		if session.UserID != userID {
			continue
		}
		copied := *session
		sessions = append(sessions, &copied)
	}

	return sessions, nil
}
