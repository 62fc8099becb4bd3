// Package ports defines the leaderboard module's collaborator interfaces.
package ports

import (
	"context"

	"ascent/internal/leaderboard/models"
	ledgermodels "ascent/internal/ledger/models"
	profilemodels "ascent/internal/profile/models"
	"ascent/pkg/platform/audit"
)

// Ledger supplies the aggregated balances the ranking is built from.
type Ledger interface {
	Totals(ctx context.Context) ([]ledgermodels.UserTotal, error)
}

// Profiles supplies display identity and filter facets.
type Profiles interface {
	All(ctx context.Context) ([]profilemodels.Profile, error)
}

// SnapshotStore holds the current snapshot. The rebuild reads the
// outgoing snapshot before replacing it to compute trends.
type SnapshotStore interface {
	// Current returns the latest snapshot, or sentinel.ErrNotFound before
	// the first rebuild.
	Current(ctx context.Context) (*models.Snapshot, error)

	// Replace installs a new snapshot as current.
	Replace(ctx context.Context, snapshot models.Snapshot) error
}

// AuditPublisher emits rebuild events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
