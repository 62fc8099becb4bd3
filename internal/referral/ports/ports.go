// Package ports defines the referral module's collaborator interfaces.
package ports

import (
	"context"

	ledgermodels "ascent/internal/ledger/models"
	"ascent/internal/referral/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/audit"
)

// Store persists referral grants, unique per referee.
type Store interface {
	// Record inserts a grant. Returns sentinel.ErrConflict when the
	// referee was already referred.
	Record(ctx context.Context, grant models.Grant) error

	// ByReferee fetches the grant that referred a user, or
	// sentinel.ErrNotFound.
	ByReferee(ctx context.Context, refereeID domain.UserID) (*models.Grant, error)

	// Delete removes a grant. Only the compensating rollback calls this.
	Delete(ctx context.Context, refereeID domain.UserID) error

	// DeleteUser removes grants where the user appears on either side and
	// reports how many were dropped.
	DeleteUser(ctx context.Context, userID domain.UserID) (int, error)
}

// Ledger is the slice of the currency ledger the referral service writes
// through.
type Ledger interface {
	Credit(ctx context.Context, entry ledgermodels.Entry) error
	Remove(ctx context.Context, sessionID domain.SessionID) error
}

// TxRunner wraps a multi-write operation in a transaction where the
// backing stores support one. The memory implementation just runs fn.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher emits referral grant and rejection events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
