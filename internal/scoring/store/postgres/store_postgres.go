// Package postgres persists assessment results. ON CONFLICT DO NOTHING
// keeps the first result for a session; results are immutable.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ascent/internal/scoring/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	txcontext "ascent/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Save(ctx context.Context, result *models.AssessmentResult) error {
	query := `
		INSERT INTO assessment_results (
			session_id, user_id, phase_id,
			dimension_ratio, eir_ratio,
			dimension_score, thrive_score, total_score, phase_max,
			overall_percentage, summary, gleam_yield, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(result.SessionID),
		uuid.UUID(result.UserID),
		int(result.PhaseID),
		result.DimensionRatio,
		result.EiRRatio,
		result.DimensionScore,
		result.ThriveScore,
		result.TotalScore,
		result.PhaseMax,
		result.OverallPercentage,
		string(result.Summary),
		result.GleamYield,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save assessment result: %w", err)
	}
	return nil
}

func (s *Store) BySession(ctx context.Context, sessionID domain.SessionID) (*models.AssessmentResult, error) {
	query := `
		SELECT session_id, user_id, phase_id,
			dimension_ratio, eir_ratio,
			dimension_score, thrive_score, total_score, phase_max,
			overall_percentage, summary, gleam_yield, created_at
		FROM assessment_results
		WHERE session_id = $1
	`
	var (
		sid    uuid.UUID
		uid    uuid.UUID
		phase  int
		result models.AssessmentResult
		band   string
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(sessionID)).Scan(
		&sid, &uid, &phase,
		&result.DimensionRatio, &result.EiRRatio,
		&result.DimensionScore, &result.ThriveScore, &result.TotalScore, &result.PhaseMax,
		&result.OverallPercentage, &band, &result.GleamYield, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get assessment result: %w", err)
	}
	result.SessionID = domain.SessionID(sid)
	result.UserID = domain.UserID(uid)
	result.PhaseID = domain.PhaseID(phase)
	result.Summary = models.Summary(band)
	// Display strings are derived, not stored.
	result.DimensionDisplay = models.FormatMagnitude(result.DimensionScore)
	result.ThriveDisplay = models.FormatMagnitude(result.ThriveScore)
	result.TotalDisplay = models.FormatMagnitude(result.TotalScore)
	return &result, nil
}
