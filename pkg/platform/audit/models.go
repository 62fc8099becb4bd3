// Package audit captures the engine's currency-relevant actions as
// transport-agnostic events. Keep Event free of HTTP and storage types so
// stores and sinks can fan out.
package audit

import (
	"context"
	"time"

	"ascent/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose, which
// drives retention and routing.
type EventCategory string

const (
	// CategoryCurrency covers events that change a balance. These are the
	// record of every Gleam ever issued or destroyed.
	CategoryCurrency EventCategory = "currency"

	// CategoryIntegrity covers rejected operations and data-quality
	// warnings: duplicate sessions, duplicate referrals, catalog gaps.
	CategoryIntegrity EventCategory = "integrity"

	// CategoryOperations covers routine operational events such as
	// leaderboard rebuilds.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    domain.UserID
	SessionID domain.SessionID
	Action    string
	Phase     domain.PhaseID
	Gleams    int64
	Reason    string
	RequestID string
}

// Actions emitted by the engine.
const (
	EventSessionRecorded    = "session_recorded"
	EventDuplicateSession   = "duplicate_session_rejected"
	EventReferralGranted    = "referral_granted"
	EventReferralRejected   = "referral_rejected"
	EventAccountDeleted     = "account_deleted"
	EventCatalogGap         = "catalog_category_empty"
	EventLeaderboardRebuilt = "leaderboard_rebuilt"
)

// eventCategories is the single source of truth for routing.
var eventCategories = map[string]EventCategory{
	EventSessionRecorded:    CategoryCurrency,
	EventReferralGranted:    CategoryCurrency,
	EventAccountDeleted:     CategoryCurrency,
	EventDuplicateSession:   CategoryIntegrity,
	EventReferralRejected:   CategoryIntegrity,
	EventCatalogGap:         CategoryIntegrity,
	EventLeaderboardRebuilt: CategoryOperations,
}

// CategoryOf returns the category for an action, defaulting to operations.
func CategoryOf(action string) EventCategory {
	if c, ok := eventCategories[action]; ok {
		return c
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher pushes audit events toward the worker or an external sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
