// Package service implements referral grants: one grant per referee,
// crediting both sides of the referral atomically.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ledgermodels "ascent/internal/ledger/models"
	"ascent/internal/platform/metrics"
	"ascent/internal/referral/models"
	"ascent/internal/referral/ports"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
	"ascent/pkg/platform/sentinel"
)

type (
	Store          = ports.Store
	Ledger         = ports.Ledger
	TxRunner       = ports.TxRunner
	AuditPublisher = ports.AuditPublisher
)

type Service struct {
	store      Store
	ledger     Ledger
	tx         TxRunner
	audit      AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseGleams int64
	now        func() time.Time
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

// WithBaseGleams overrides the referee's base reward.
func WithBaseGleams(gleams int64) Option {
	return func(s *Service) {
		if gleams > 0 {
			s.baseGleams = gleams
		}
	}
}

// WithClock injects time for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// DefaultBaseGleams is the referee's reward when no override is
// configured; the referrer always receives the multiplied amount.
const DefaultBaseGleams int64 = 100

func New(store Store, ledger Ledger, txRunner TxRunner, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("referral store is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	svc := &Service{
		store:      store,
		ledger:     ledger,
		tx:         txRunner,
		logger:     slog.Default(),
		baseGleams: DefaultBaseGleams,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Grant credits a referral: the referee receives the base reward and the
// referrer receives double. All three writes (grant row plus both ledger
// credits) land together or not at all.
//
// Errors: CodeBadRequest for self-referral, CodeConflict when the referee
// was already referred, CodeValidation for nil IDs.
func (s *Service) Grant(ctx context.Context, refereeID, referrerID domain.UserID) (*models.Grant, error) {
	if refereeID.IsNil() || referrerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "referee and referrer IDs are required")
	}
	if refereeID == referrerID {
		s.reject(ctx, refereeID, referrerID, "self_referral")
		return nil, dErrors.New(dErrors.CodeBadRequest, "self-referral is not allowed")
	}

	grant := models.Grant{
		RefereeID:      refereeID,
		ReferrerID:     referrerID,
		RefereeGleams:  s.baseGleams,
		ReferrerGleams: s.baseGleams * models.ReferrerMultiplier,
		CreatedAt:      s.now().UTC(),
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Record(ctx, grant); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "user already referred")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record referral")
		}

		refereeCredit := ledgermodels.Entry{
			SessionID: models.RefereeCreditID(refereeID),
			UserID:    refereeID,
			Gleams:    grant.RefereeGleams,
			Kind:      ledgermodels.KindReferral,
			CreatedAt: grant.CreatedAt,
		}
		if err := s.ledger.Credit(ctx, refereeCredit); err != nil {
			s.compensate(ctx, grant, false)
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit referee")
		}

		referrerCredit := ledgermodels.Entry{
			SessionID: models.ReferrerCreditID(refereeID),
			UserID:    referrerID,
			Gleams:    grant.ReferrerGleams,
			Kind:      ledgermodels.KindReferral,
			CreatedAt: grant.CreatedAt,
		}
		if err := s.ledger.Credit(ctx, referrerCredit); err != nil {
			s.compensate(ctx, grant, true)
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit referrer")
		}
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.reject(ctx, refereeID, referrerID, "already_referred")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ReferralGrantsTotal.Inc()
	}
	s.emit(ctx, audit.Event{
		Action: audit.EventReferralGranted,
		UserID: refereeID,
		Gleams: grant.RefereeGleams + grant.ReferrerGleams,
	})
	return &grant, nil
}

// ByReferee returns the grant that referred a user.
func (s *Service) ByReferee(ctx context.Context, refereeID domain.UserID) (*models.Grant, error) {
	if refereeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	grant, err := s.store.ByReferee(ctx, refereeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "user was not referred")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referral")
	}
	return grant, nil
}

// DeleteUser removes grants touching the user. Part of the account
// deletion cascade; the corresponding ledger entries fall with the
// ledger's own cascade.
func (s *Service) DeleteUser(ctx context.Context, userID domain.UserID) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	removed, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete referral grants")
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "referral grants deleted", "user_id", userID, "grants_removed", removed)
	}
	return nil
}

// compensate unwinds partial writes. Inside a real SQL transaction the
// rollback makes these no-ops; under the passthrough runner they are the
// only thing keeping the grant atomic.
func (s *Service) compensate(ctx context.Context, grant models.Grant, refereeCredited bool) {
	if refereeCredited {
		if err := s.ledger.Remove(ctx, models.RefereeCreditID(grant.RefereeID)); err != nil &&
			!dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.logger.ErrorContext(ctx, "failed to unwind referee credit",
				"referee_id", grant.RefereeID, "error", err.Error())
		}
	}
	if err := s.store.Delete(ctx, grant.RefereeID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to unwind referral grant",
			"referee_id", grant.RefereeID, "error", err.Error())
	}
}

func (s *Service) reject(ctx context.Context, refereeID, referrerID domain.UserID, reason string) {
	if s.metrics != nil {
		s.metrics.ReferralRejectedTotal.Inc()
	}
	s.logger.WarnContext(ctx, "referral rejected",
		"referee_id", refereeID, "referrer_id", referrerID, "reason", reason)
	s.emit(ctx, audit.Event{
		Action: audit.EventReferralRejected,
		UserID: refereeID,
		Reason: reason,
	})
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
