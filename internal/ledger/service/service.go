// Package service implements the currency ledger: the only component that
// mutates balances, and the single home of the "past the entry level"
// display predicate every UI surface must share.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ascent/internal/ledger/models"
	"ascent/internal/ledger/ports"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
	"ascent/pkg/platform/sentinel"
)

type (
	Store          = ports.Store
	AuditPublisher = ports.AuditPublisher
)

type Service struct {
	store  Store
	audit  AuditPublisher
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithClock injects time for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RecordSession appends a credit for a completed assessment session.
//
// Errors: CodeConflict when the session was already credited (the caller
// treats that as "return the original result", keeping submission
// idempotent); CodeValidation for nil IDs or negative amounts.
func (s *Service) RecordSession(ctx context.Context, sessionID domain.SessionID, userID domain.UserID, phase domain.PhaseID, gleams int64) error {
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "session_id is required")
	}
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	if gleams < 0 {
		return dErrors.New(dErrors.CodeValidation, "gleams cannot be negative")
	}

	entry := models.Entry{
		SessionID: sessionID,
		UserID:    userID,
		PhaseID:   phase,
		Gleams:    gleams,
		Kind:      models.KindAssessment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Append(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.emit(ctx, audit.Event{
				Action:    audit.EventDuplicateSession,
				UserID:    userID,
				SessionID: sessionID,
				Phase:     phase,
			})
			return dErrors.Wrap(err, dErrors.CodeConflict, "session already credited")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record session")
	}

	s.emit(ctx, audit.Event{
		Action:    audit.EventSessionRecorded,
		UserID:    userID,
		SessionID: sessionID,
		Phase:     phase,
		Gleams:    gleams,
	})
	return nil
}

// Credit appends a non-assessment entry (referral side). The referral
// module is the only caller; it supplies a fresh session ID per credit.
func (s *Service) Credit(ctx context.Context, entry models.Entry) error {
	if entry.SessionID.IsNil() || entry.UserID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "credit requires session and user IDs")
	}
	if entry.Gleams <= 0 {
		return dErrors.New(dErrors.CodeValidation, "credit must be positive")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.store.Append(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "credit already applied")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply credit")
	}
	return nil
}

// Remove deletes a single entry. Compensating rollback for the referral
// double credit; nothing else may un-earn Gleams.
func (s *Service) Remove(ctx context.Context, sessionID domain.SessionID) error {
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "session_id is required")
	}
	if err := s.store.Remove(ctx, sessionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "entry not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove entry")
	}
	s.logger.WarnContext(ctx, "ledger entry removed", "session_id", sessionID)
	return nil
}

// Entry returns the recorded entry for a session.
func (s *Service) Entry(ctx context.Context, sessionID domain.SessionID) (*models.Entry, error) {
	entry, err := s.store.BySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "session not recorded")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session entry")
	}
	return entry, nil
}

// TotalGleams sums a user's lifetime earnings.
func (s *Service) TotalGleams(ctx context.Context, userID domain.UserID) (int64, error) {
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	total, err := s.store.TotalGleams(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum gleams")
	}
	return total, nil
}

// Alicorns is the derived coarse-currency view of a balance.
func (s *Service) Alicorns(ctx context.Context, userID domain.UserID) (float64, error) {
	total, err := s.TotalGleams(ctx, userID)
	if err != nil {
		return 0, err
	}
	return models.AlicornsFromGleams(total), nil
}

// DisplayCurrency decides which unit a user's balance is shown in. The
// predicate itself lives in models.DisplayFor so every surface shares
// one implementation.
func (s *Service) DisplayCurrency(ctx context.Context, userID domain.UserID, currentLevel domain.PhaseID) (models.DisplayAmount, error) {
	total, err := s.TotalGleams(ctx, userID)
	if err != nil {
		return models.DisplayAmount{}, err
	}
	return models.DisplayFor(total, currentLevel), nil
}

// DeleteUser is the account-deletion cascade: every ledger entry for the
// user is removed and their aggregated totals drop to zero on the next
// leaderboard pass. Irreversible.
func (s *Service) DeleteUser(ctx context.Context, userID domain.UserID) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	removed, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user ledger")
	}
	s.logger.InfoContext(ctx, "user ledger deleted", "user_id", userID, "entries_removed", removed)
	s.emit(ctx, audit.Event{
		Action: audit.EventAccountDeleted,
		UserID: userID,
	})
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action, "error", err)
	}
}
