package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionsCollection = "chat_sessions"

type sessionDoc struct {
	ID        string    `firestore:"ID"`
	UserID    string    `firestore:"UserID"`
	Type      string    `firestore:"Type"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

func toSessionDoc(s *model.ChatSession) *sessionDoc {
	return &sessionDoc{
		ID:        string(s.ID),
		UserID:    string(s.UserID),
		Type:      string(s.Type),
		CreatedAt: s.CreatedAt,
	}
}

func fromSessionDoc(d *sessionDoc) *model.ChatSession {
	return &model.ChatSession{
		ID:        types.SessionID(d.ID),
		UserID:    types.UserID(d.UserID),
		Type:      types.SessionType(d.Type),
		CreatedAt: d.CreatedAt,
	}
}

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.SessionRepository = &sessionRepository{}

func newSessionRepository(client *firestore.Client) *sessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + sessionsCollection)
}

func (r *sessionRepository) Create(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error) {
	created := *session
	if created.ID == "" {
		created.ID = model.NewSessionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	ref := r.collection().Doc(string(created.ID))
	if _, err := ref.Set(ctx, toSessionDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create session", goerr.V("session_id", created.ID))
	}

	return &created, nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.ChatSession, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}

	var d sessionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("session_id", id))
	}
	return fromSessionDoc(&d), nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.ChatSession, error) {
	iter := r.collection().
		Where("UserID", "==", string(userID)).
		Documents(ctx)
	defer iter.Stop()

	var sessions []*model.ChatSession
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions", goerr.V("user_id", userID))
		}

		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("doc_id", doc.Ref.ID))
		}
		sessions = append(sessions, fromSessionDoc(&d))
	}

	return sessions, nil
}
