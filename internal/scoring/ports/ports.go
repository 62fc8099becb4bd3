// Package ports defines the scoring module's collaborator interfaces.
package ports

import (
	"context"

	catalogmodels "ascent/internal/catalog/models"
	"ascent/internal/scoring/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/audit"
)

// Catalog supplies the static question set.
type Catalog interface {
	QuestionsByPhase(phase domain.PhaseID) []catalogmodels.Question
}

// Ledger is the narrow slice of the currency ledger the scoring service
// needs: crediting a session at most once.
type Ledger interface {
	RecordSession(ctx context.Context, sessionID domain.SessionID, userID domain.UserID, phase domain.PhaseID, gleams int64) error
}

// ResultStore persists computed results so a resubmitted session returns
// its original result unchanged instead of being recomputed.
type ResultStore interface {
	// Save stores a result. Saving the same session twice keeps the
	// first; results are immutable.
	Save(ctx context.Context, result *models.AssessmentResult) error

	// BySession returns the stored result or sentinel.ErrNotFound.
	BySession(ctx context.Context, sessionID domain.SessionID) (*models.AssessmentResult, error)
}

// AuditPublisher emits data-quality and submission events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
