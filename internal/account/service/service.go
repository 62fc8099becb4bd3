// Package service implements account deletion: the cascade that removes
// a user from the ledger, the referral graph, and the profile set. The
// leaderboard drops them on its next rebuild.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/sentinel"
)

// Ledger deletes a user's currency history.
type Ledger interface {
	DeleteUser(ctx context.Context, userID domain.UserID) error
}

// Referrals deletes grants touching the user.
type Referrals interface {
	DeleteUser(ctx context.Context, userID domain.UserID) error
}

// Profiles deletes the user's profile.
type Profiles interface {
	Delete(ctx context.Context, userID domain.UserID) error
}

type Service struct {
	ledger    Ledger
	referrals Referrals
	profiles  Profiles
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(ledger Ledger, referrals Referrals, profiles Profiles, opts ...Option) (*Service, error) {
	if ledger == nil || referrals == nil || profiles == nil {
		return nil, fmt.Errorf("ledger, referrals, and profiles are required")
	}
	svc := &Service{
		ledger:    ledger,
		referrals: referrals,
		profiles:  profiles,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Delete removes every trace of the user this engine owns. Irreversible;
// retried safely because each step tolerates already-deleted state.
func (s *Service) Delete(ctx context.Context, userID domain.UserID) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}

	if err := s.referrals.DeleteUser(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete referral grants")
	}
	if err := s.ledger.DeleteUser(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete ledger entries")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}
