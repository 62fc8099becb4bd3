// Package refresher rebuilds the leaderboard on a fixed interval.
package refresher

import (
	"context"
	"log/slog"
	"time"

	"ascent/internal/leaderboard/models"
)

// Rebuilder is the slice of the leaderboard service the worker drives.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*models.Snapshot, error)
}

type Refresher struct {
	rebuilder Rebuilder
	interval  time.Duration
	logger    *slog.Logger
}

func New(rebuilder Rebuilder, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{rebuilder: rebuilder, interval: interval, logger: logger}
}

// Run rebuilds once immediately, then on every tick until the context is
// cancelled. Rebuild failures are logged and retried on the next tick;
// readers keep serving the last good snapshot in between.
func (r *Refresher) Run(ctx context.Context) error {
	if _, err := r.rebuilder.Rebuild(ctx); err != nil {
		r.logger.ErrorContext(ctx, "initial leaderboard rebuild failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.rebuilder.Rebuild(ctx); err != nil {
				r.logger.ErrorContext(ctx, "leaderboard rebuild failed", "error", err.Error())
			}
		}
	}
}
