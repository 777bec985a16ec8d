package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[types.SessionID][]*model.ChatMessage
}

var _ interfaces.MessageRepository = &messageRepository{}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[types.SessionID][]*model.ChatMessage),
	}
}

func (r *messageRepository) Add(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *msg
	if created.ID == "" {
		created.ID = uuid.Must(uuid.NewV7()).String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.messages[created.SessionID] = append(r.messages[created.SessionID], &created)

	copied := created
	return &copied, nil
}

func (r *messageRepository) History(ctx context.Context, sessionID types.SessionID) ([]*model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[sessionID]
	history := make([]*model.ChatMessage, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		history = append(history, &copied)
	}

	return history, nil
}
