package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const messagesCollection = "chat_messages"

type messageDoc struct {
	ID        string         `firestore:"ID"`
	SessionID string         `firestore:"SessionID"`
	Sender    string         `firestore:"Sender"`
	Message   string         `firestore:"Message"`
	Type      string         `firestore:"Type"`
	Metadata  map[string]any `firestore:"Metadata,omitempty"`
	CreatedAt time.Time      `firestore:"CreatedAt"`
}

func toMessageDoc(m *model.ChatMessage) *messageDoc {
	return &messageDoc{
		ID:        m.ID,
		SessionID: string(m.SessionID),
		Sender:    string(m.Sender),
		Message:   m.Message,
		Type:      string(m.Type),
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

func fromMessageDoc(d *messageDoc) *model.ChatMessage {
	return &model.ChatMessage{
		ID:        d.ID,
		SessionID: types.SessionID(d.SessionID),
		Sender:    types.Sender(d.Sender),
		Message:   d.Message,
		Type:      types.MessageType(d.Type),
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}
}

type messageRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.MessageRepository = &messageRepository{}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

func (r *messageRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + messagesCollection)
}

func (r *messageRepository) Add(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	created := *msg
	if created.ID == "" {
		created.ID = uuid.Must(uuid.NewV7()).String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	ref := r.collection().Doc(created.ID)
	if _, err := ref.Set(ctx, toMessageDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to add message",
			goerr.V("session_id", created.SessionID),
			goerr.V("message_id", created.ID))
	}

	return &created, nil
}

// History requires the composite index on (SessionID ASC, CreatedAt ASC);
// see the migrate command.
func (r *messageRepository) History(ctx context.Context, sessionID types.SessionID) ([]*model.ChatMessage, error) {
	iter := r.collection().
		Where("SessionID", "==", string(sessionID)).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.ChatMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("session_id", sessionID))
		}

		var d messageDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("doc_id", doc.Ref.ID))
		}
		messages = append(messages, fromMessageDoc(&d))
	}

	return messages, nil
}
