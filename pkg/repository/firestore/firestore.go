package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
)

type Firestore struct {
	client  *firestore.Client
	profile *profileRepository
	session *sessionRepository
	message *messageRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.profile.collectionPrefix = prefix
		f.session.collectionPrefix = prefix
		f.message.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		profile: newProfileRepository(client),
		session: newSessionRepository(client),
		message: newMessageRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profile
}

func (f *Firestore) Session() interfaces.SessionRepository {
	return f.session
}

func (f *Firestore) Message() interfaces.MessageRepository {
	return f.message
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
