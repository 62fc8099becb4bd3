// Package ports defines the profile store interface.
package ports

import (
	"context"

	"ascent/internal/profile/models"
	"ascent/pkg/domain"
)

// Store persists user profiles. Upsert semantics: a profile save replaces
// the previous row for the user.
type Store interface {
	// Save inserts or replaces a profile.
	Save(ctx context.Context, profile models.Profile) error

	// Get fetches a profile, or sentinel.ErrNotFound.
	Get(ctx context.Context, userID domain.UserID) (*models.Profile, error)

	// All returns every profile. Aggregation input for the leaderboard.
	All(ctx context.Context) ([]models.Profile, error)

	// Delete removes a profile. Account deletion cascade.
	Delete(ctx context.Context, userID domain.UserID) error
}
