package models

import (
	"time"

	"ascent/pkg/domain"
)

// Profile is the leaderboard-facing slice of a user: display identity
// plus the facets rankings can be filtered by. Authentication and the
// rest of the account live with the identity collaborator.
type Profile struct {
	UserID      domain.UserID
	DisplayName string
	Country     string
	Sector      string
	Level       domain.PhaseID
	CreatedAt   time.Time
}
