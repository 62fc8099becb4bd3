package models

import (
	"math"
	"time"

	"ascent/pkg/domain"
)

// GleamsPerAlicorn is the conversion rate between the two currency tiers.
// A product rule, not an accounting convenience: change it here and the
// derived Alicorn view changes everywhere at once.
const GleamsPerAlicorn int64 = 100

// EntryKind records what earned the Gleams.
type EntryKind string

const (
	// KindAssessment credits a completed questionnaire session.
	KindAssessment EntryKind = "assessment"

	// KindReferral credits either side of a referral grant.
	KindReferral EntryKind = "referral"
)

// Entry is one append-only ledger row. The ledger is unique on SessionID;
// that uniqueness is the at-most-once crediting guarantee.
type Entry struct {
	SessionID domain.SessionID
	UserID    domain.UserID
	PhaseID   domain.PhaseID
	Gleams    int64
	Kind      EntryKind
	CreatedAt time.Time
}

// UserTotal is the aggregation input for the leaderboard: a user's running
// balance and when they last earned into it.
type UserTotal struct {
	UserID       domain.UserID
	TotalGleams  int64
	LastEarnedAt time.Time
}

// CurrencySymbol names the unit a balance is displayed in.
type CurrencySymbol string

const (
	SymbolGleam   CurrencySymbol = "gleam"
	SymbolAlicorn CurrencySymbol = "alicorn"
)

// DisplayAmount is a balance plus the unit it should be rendered in.
type DisplayAmount struct {
	Symbol CurrencySymbol `json:"symbol"`
	Amount float64        `json:"amount"`
}

// AlicornsFromGleams converts a Gleam balance to the coarser unit,
// rounded to two decimal places.
func AlicornsFromGleams(gleams int64) float64 {
	return math.Round(float64(gleams)/float64(GleamsPerAlicorn)*100) / 100
}

// DisplayFor is the single home of the "past the entry level" display
// predicate: raw Gleams at the entry level, Alicorns beyond it. Summary
// cards, the floating bar, and leaderboard rows all go through here.
func DisplayFor(gleams int64, level domain.PhaseID) DisplayAmount {
	if level.IsEntry() {
		return DisplayAmount{Symbol: SymbolGleam, Amount: float64(gleams)}
	}
	return DisplayAmount{Symbol: SymbolAlicorn, Amount: AlicornsFromGleams(gleams)}
}
