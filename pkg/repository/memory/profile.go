package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.UserProfile
}

var _ interfaces.ProfileRepository = &profileRepository{}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.UserProfile),
	}
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[userID]
	if !exists {
		return nil, nil
	}

	// Return a copy to prevent external modification
	return profile.Clone(), nil
}

func (r *profileRepository) UpsertPreferences(ctx context.Context, userID types.UserID, delta model.ExtractedPreferences) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists {
		profile = model.NewUserProfile(userID)
	}

	updated := profile.Clone()
	updated.Merge(delta)
	updated.UpdatedAt = time.Now().UTC()

	r.profiles[userID] = updated
	return updated.Clone(), nil
}

func (r *profileRepository) UpdateBettingPreferences(ctx context.Context, userID types.UserID, prefs model.BettingPreferences) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists {
		profile = model.NewUserProfile(userID)
	}

	updated := profile.Clone()
	updated.ApplyBetting(prefs)
	updated.UpdatedAt = time.Now().UTC()

	r.profiles[userID] = updated
	return updated.Clone(), nil
}
