package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const profilesCollection = "user_profiles"

// profileDoc is the Firestore document representation of model.UserProfile
type profileDoc struct {
	UserID           string    `firestore:"UserID"`
	FavoriteTeams    []string  `firestore:"FavoriteTeams"`
	FavoriteLeagues  []string  `firestore:"FavoriteLeagues"`
	BettingStyle     string    `firestore:"BettingStyle,omitempty"`
	RiskTolerance    string    `firestore:"RiskTolerance,omitempty"`
	PreferredMarkets []string  `firestore:"PreferredMarkets"`
	FavoriteBetTypes []string  `firestore:"FavoriteBetTypes"`
	BlacklistedTeams []string  `firestore:"BlacklistedTeams"`
	MaxStakePerBet   float64   `firestore:"MaxStakePerBet,omitempty"`
	BankrollSize     float64   `firestore:"BankrollSize,omitempty"`
	Language         string    `firestore:"Language,omitempty"`
	UpdatedAt        time.Time `firestore:"UpdatedAt"`
}

func toProfileDoc(p *model.UserProfile) *profileDoc {
	betTypes := make([]string, 0, len(p.FavoriteBetTypes))
	for _, bt := range p.FavoriteBetTypes {
		betTypes = append(betTypes, string(bt))
	}
	return &profileDoc{
		UserID:           string(p.UserID),
		FavoriteTeams:    p.FavoriteTeams,
		FavoriteLeagues:  p.FavoriteLeagues,
		BettingStyle:     string(p.BettingStyle),
		RiskTolerance:    string(p.RiskTolerance),
		PreferredMarkets: p.PreferredMarkets,
		FavoriteBetTypes: betTypes,
		BlacklistedTeams: p.BlacklistedTeams,
		MaxStakePerBet:   p.MaxStakePerBet,
		BankrollSize:     p.BankrollSize,
		Language:         p.Language,
		UpdatedAt:        p.UpdatedAt,
	}
}

func fromProfileDoc(d *profileDoc) *model.UserProfile {
	betTypes := make([]types.BetType, 0, len(d.FavoriteBetTypes))
	for _, bt := range d.FavoriteBetTypes {
		betTypes = append(betTypes, types.BetType(bt))
	}
	return &model.UserProfile{
		UserID:           types.UserID(d.UserID),
		FavoriteTeams:    d.FavoriteTeams,
		FavoriteLeagues:  d.FavoriteLeagues,
		BettingStyle:     types.BettingStyle(d.BettingStyle),
		RiskTolerance:    types.RiskTolerance(d.RiskTolerance),
		PreferredMarkets: d.PreferredMarkets,
		FavoriteBetTypes: betTypes,
		BlacklistedTeams: d.BlacklistedTeams,
		MaxStakePerBet:   d.MaxStakePerBet,
		BankrollSize:     d.BankrollSize,
		Language:         d.Language,
		UpdatedAt:        d.UpdatedAt,
	}
}

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ProfileRepository = &profileRepository{}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + profilesCollection)
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	doc, err := r.collection().Doc(string(userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("user_id", userID))
	}

	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("user_id", userID))
	}
	return fromProfileDoc(&d), nil
}

// UpsertPreferences runs the read-merge-write cycle in a transaction so that
// concurrent updates to the same user never lose additions.
func (r *profileRepository) UpsertPreferences(ctx context.Context, userID types.UserID, delta model.ExtractedPreferences) (*model.UserProfile, error) {
	return r.updateInTx(ctx, userID, func(profile *model.UserProfile) {
		profile.Merge(delta)
	})
}

func (r *profileRepository) UpdateBettingPreferences(ctx context.Context, userID types.UserID, prefs model.BettingPreferences) (*model.UserProfile, error) {
	return r.updateInTx(ctx, userID, func(profile *model.UserProfile) {
		profile.ApplyBetting(prefs)
	})
}

func (r *profileRepository) updateInTx(ctx context.Context, userID types.UserID, apply func(*model.UserProfile)) (*model.UserProfile, error) {
	ref := r.collection().Doc(string(userID))

	var updated *model.UserProfile
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		profile := model.NewUserProfile(userID)

		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get profile", goerr.V("user_id", userID))
			}
		} else {
			var d profileDoc
			if err := doc.DataTo(&d); err != nil {
				return goerr.Wrap(err, "failed to unmarshal profile", goerr.V("user_id", userID))
			}
			profile = fromProfileDoc(&d)
		}

		apply(profile)
		profile.UpdatedAt = time.Now().UTC()

		if err := tx.Set(ref, toProfileDoc(profile)); err != nil {
			return goerr.Wrap(err, "failed to set profile", goerr.V("user_id", userID))
		}

		updated = profile
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert profile", goerr.V("user_id", userID))
	}

	return updated, nil
}
