package interfaces

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// ProfileRepository persists user betting profiles. List-valued preference
// fields use merge-by-union semantics: updates add to the stored sets and
// applying the same delta twice leaves the profile unchanged. Merges are
// atomic per user.
type ProfileRepository interface {
	// Get returns the stored profile, or nil when the user has none yet
	Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error)

	// UpsertPreferences merges an extracted preference delta into the
	// stored profile, creating it if absent
	UpsertPreferences(ctx context.Context, userID types.UserID, delta model.ExtractedPreferences) (*model.UserProfile, error)

	// UpdateBettingPreferences merges market-level betting preferences
	UpdateBettingPreferences(ctx context.Context, userID types.UserID, prefs model.BettingPreferences) (*model.UserProfile, error)
}
