// Package service builds and serves the ranked leaderboard. Rankings are
// rebuilt from ledger totals on a schedule; reads never touch the ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ascent/internal/leaderboard/models"
	"ascent/internal/leaderboard/ports"
	ledgermodels "ascent/internal/ledger/models"
	"ascent/internal/platform/metrics"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
	"ascent/pkg/platform/sentinel"
)

type (
	Ledger         = ports.Ledger
	Profiles       = ports.Profiles
	SnapshotStore  = ports.SnapshotStore
	AuditPublisher = ports.AuditPublisher
	Filter         = models.Filter
)

type Service struct {
	ledger    Ledger
	profiles  Profiles
	snapshots SnapshotStore
	audit     AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
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

// WithClock injects time for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(ledger Ledger, profiles Profiles, snapshots SnapshotStore, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile source is required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	svc := &Service{
		ledger:    ledger,
		profiles:  profiles,
		snapshots: snapshots,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Rebuild recomputes the global ranking from ledger totals and installs
// it as the current snapshot. Ordering: total Gleams descending, earlier
// attainment (last earning timestamp) breaking ties. Trends compare each
// user's new rank against the outgoing snapshot; newcomers show "same".
func (s *Service) Rebuild(ctx context.Context) (*models.Snapshot, error) {
	started := s.now()

	totals, err := s.ledger.Totals(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger totals")
	}
	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profiles")
	}
	byUser := make(map[domain.UserID]int, len(profiles))
	for i, p := range profiles {
		byUser[p.UserID] = i
	}

	previousRanks := s.previousRanks(ctx)

	rows := make([]models.Row, 0, len(totals))
	for _, total := range totals {
		row := models.Row{
			UserID:       total.UserID,
			TotalGleams:  total.TotalGleams,
			LastEarnedAt: total.LastEarnedAt,
		}
		if i, ok := byUser[total.UserID]; ok {
			p := profiles[i]
			row.DisplayName = p.DisplayName
			row.Country = p.Country
			row.Sector = p.Sector
			row.Level = p.Level
		}
		row.LevelName = row.Level.Name()
		row.Display = ledgermodels.DisplayFor(row.TotalGleams, row.Level)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalGleams != rows[j].TotalGleams {
			return rows[i].TotalGleams > rows[j].TotalGleams
		}
		return rows[i].LastEarnedAt.Before(rows[j].LastEarnedAt)
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Trend = trendFor(previousRanks, rows[i].UserID, rows[i].Rank)
	}

	snapshot := models.Snapshot{BuiltAt: s.now().UTC(), Rows: rows}
	if err := s.snapshots.Replace(ctx, snapshot); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store snapshot")
	}

	elapsed := s.now().Sub(started)
	if s.metrics != nil {
		s.metrics.LeaderboardRebuildSeconds.Observe(elapsed.Seconds())
		s.metrics.LeaderboardEntities.Set(float64(len(rows)))
	}
	s.logger.InfoContext(ctx, "leaderboard rebuilt",
		"entities", len(rows), "elapsed", elapsed)
	s.emit(ctx, audit.Event{Action: audit.EventLeaderboardRebuilt})
	return &snapshot, nil
}

// Rank reads the current snapshot through a filter. Filtered views are
// re-ranked 1..n but keep each row's global trend.
func (s *Service) Rank(ctx context.Context, filter models.Filter) ([]models.Row, error) {
	snapshot, err := s.snapshots.Current(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return []models.Row{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}

	rows := make([]models.Row, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		if !filter.Matches(row) {
			continue
		}
		row.Rank = len(rows) + 1
		rows = append(rows, row)
		if filter.Limit > 0 && len(rows) >= filter.Limit {
			break
		}
	}
	return rows, nil
}

// Position finds a single user's row in the current snapshot.
func (s *Service) Position(ctx context.Context, userID domain.UserID) (*models.Row, error) {
	snapshot, err := s.snapshots.Current(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "leaderboard not built yet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load snapshot")
	}
	for _, row := range snapshot.Rows {
		if row.UserID == userID {
			out := row
			return &out, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "user not ranked")
}

func (s *Service) previousRanks(ctx context.Context) map[domain.UserID]int {
	previous, err := s.snapshots.Current(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load previous snapshot, trends reset",
				"error", err.Error())
		}
		return nil
	}
	ranks := make(map[domain.UserID]int, len(previous.Rows))
	for _, row := range previous.Rows {
		ranks[row.UserID] = row.Rank
	}
	return ranks
}

func trendFor(previous map[domain.UserID]int, userID domain.UserID, rank int) models.Trend {
	before, ok := previous[userID]
	switch {
	case !ok || before == rank:
		return models.TrendSame
	case rank < before:
		return models.TrendUp
	default:
		return models.TrendDown
	}
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
