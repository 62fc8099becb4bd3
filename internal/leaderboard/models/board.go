package models

import (
	"time"

	ledgermodels "ascent/internal/ledger/models"
	"ascent/pkg/domain"
)

// Trend compares a user's position against the previous snapshot.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"

	// TrendSame also covers users absent from the previous snapshot.
	TrendSame Trend = "same"
)

// Row is one ranked leaderboard position. Rank is 1-based within the
// global snapshot; filtered views re-rank on read.
type Row struct {
	Rank         int                        `json:"rank"`
	UserID       domain.UserID              `json:"user_id"`
	DisplayName  string                     `json:"display_name"`
	Country      string                     `json:"country"`
	Sector       string                     `json:"sector"`
	Level        domain.PhaseID             `json:"level"`
	LevelName    string                     `json:"level_name"`
	TotalGleams  int64                      `json:"total_gleams"`
	Display      ledgermodels.DisplayAmount `json:"display"`
	Trend        Trend                      `json:"trend"`
	LastEarnedAt time.Time                  `json:"last_earned_at"`
}

// Snapshot is one full rebuild of the global ranking.
type Snapshot struct {
	BuiltAt time.Time `json:"built_at"`
	Rows    []Row     `json:"rows"`
}

// Filter narrows a read of the snapshot. Zero values mean "no filter";
// trend always reflects the global ranking, not the filtered view.
type Filter struct {
	Country string
	Sector  string
	Level   *domain.PhaseID
	Limit   int
}

// Matches reports whether a row passes the filter facets.
func (f Filter) Matches(row Row) bool {
	if f.Country != "" && row.Country != f.Country {
		return false
	}
	if f.Sector != "" && row.Sector != f.Sector {
		return false
	}
	if f.Level != nil && row.Level != *f.Level {
		return false
	}
	return true
}
