// Package service turns raw questionnaire answers into scored, credited
// assessment results.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	catalogmodels "ascent/internal/catalog/models"
	"ascent/internal/platform/metrics"
	"ascent/internal/scoring/models"
	"ascent/internal/scoring/ports"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
	"ascent/pkg/platform/sentinel"
)

type (
	Catalog        = ports.Catalog
	Ledger         = ports.Ledger
	ResultStore    = ports.ResultStore
	AuditPublisher = ports.AuditPublisher
)

type Service struct {
	catalog Catalog
	ledger  Ledger
	results ResultStore
	audit   AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(catalog Catalog, ledger Ledger, results ResultStore, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if results == nil {
		return nil, fmt.Errorf("result store is required")
	}
	svc := &Service{
		catalog: catalog,
		ledger:  ledger,
		results: results,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Questions returns the questionnaire for a phase.
//
// Errors: CodeValidation when the phase is unknown or has no catalog
// questions.
func (s *Service) Questions(_ context.Context, phase domain.PhaseID) ([]catalogmodels.Question, error) {
	if !phase.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown phase")
	}
	questions := s.catalog.QuestionsByPhase(phase)
	if len(questions) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "phase has no catalog questions")
	}
	return questions, nil
}

// Submit scores an answer set and credits the session's Gleam yield.
// Idempotent on session ID: a resubmission returns the original result
// unchanged and credits nothing.
func (s *Service) Submit(
	ctx context.Context,
	sessionID domain.SessionID,
	userID domain.UserID,
	phase domain.PhaseID,
	answers domain.AnswerSet,
) (*models.AssessmentResult, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "session_id is required")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	if !phase.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown phase")
	}

	questions := s.catalog.QuestionsByPhase(phase)
	result, gaps, err := Calculate(questions, answers, phase)
	if err != nil {
		return nil, err
	}
	result.SessionID = sessionID
	result.UserID = userID

	for _, gap := range gaps {
		// Silent zero-scoring beats blocking the user, but it must be
		// observable.
		s.logger.WarnContext(ctx, "catalog category empty for phase",
			"phase", phase, "category", gap)
		s.emit(ctx, audit.Event{
			Action: audit.EventCatalogGap,
			Phase:  phase,
			Reason: gap.String(),
		})
	}

	if err := s.ledger.RecordSession(ctx, sessionID, userID, phase, result.GleamYield); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return s.originalResult(ctx, sessionID, result)
		}
		return nil, err
	}

	if err := s.results.Save(ctx, result); err != nil {
		// The credit stands; the next resubmission repairs the missing
		// result row via the recompute path below.
		s.logger.ErrorContext(ctx, "failed to persist assessment result",
			"session_id", sessionID, "error", err.Error())
	}

	if s.metrics != nil {
		s.metrics.SubmissionsTotal.Inc()
		s.metrics.GleamsIssuedTotal.Add(float64(result.GleamYield))
	}
	return result, nil
}

// originalResult serves a duplicate submission from storage, falling back
// to the freshly computed result when the stored row is missing.
func (s *Service) originalResult(ctx context.Context, sessionID domain.SessionID, computed *models.AssessmentResult) (*models.AssessmentResult, error) {
	if s.metrics != nil {
		s.metrics.DuplicateSubmissionsTotal.Inc()
	}
	original, err := s.results.BySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if saveErr := s.results.Save(ctx, computed); saveErr != nil {
				s.logger.ErrorContext(ctx, "failed to repair assessment result",
					"session_id", sessionID, "error", saveErr.Error())
			}
			return computed, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load original result")
	}
	return original, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action, "error", err)
	}
}
