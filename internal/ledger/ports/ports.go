// Package ports defines the ledger module's store and collaborator
// interfaces. They live here because both the scoring and referral
// services write through them.
package ports

import (
	"context"

	"ascent/internal/ledger/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/audit"
)

// Store is the append-only Gleam ledger. It is the engine's only shared
// mutable resource; all mutation goes through Append, Remove (compensating
// rollback only), and DeleteUser (account deletion cascade).
type Store interface {
	// Append inserts an entry. Returns sentinel.ErrConflict when the
	// session already has a recorded entry.
	Append(ctx context.Context, entry models.Entry) error

	// BySession fetches the entry recorded for a session, or
	// sentinel.ErrNotFound.
	BySession(ctx context.Context, sessionID domain.SessionID) (*models.Entry, error)

	// TotalGleams sums a user's entries. Zero for unknown users.
	TotalGleams(ctx context.Context, userID domain.UserID) (int64, error)

	// Totals returns every user's balance with the timestamp of their
	// latest credit. Aggregation input for the leaderboard.
	Totals(ctx context.Context) ([]models.UserTotal, error)

	// Remove deletes a single entry. Only the referral module's
	// compensating rollback calls this.
	Remove(ctx context.Context, sessionID domain.SessionID) error

	// DeleteUser removes every entry for a user and reports how many
	// were dropped. Irreversible.
	DeleteUser(ctx context.Context, userID domain.UserID) (int, error)
}

// AuditPublisher emits audit events for currency-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
