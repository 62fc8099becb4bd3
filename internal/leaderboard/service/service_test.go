package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snapmem "ascent/internal/leaderboard/store/memory"
	ledgermodels "ascent/internal/ledger/models"
	profilemodels "ascent/internal/profile/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
)

type fakeLedger struct {
	totals []ledgermodels.UserTotal
}

func (f *fakeLedger) Totals(context.Context) ([]ledgermodels.UserTotal, error) {
	return f.totals, nil
}

type fakeProfiles struct {
	profiles []profilemodels.Profile
}

func (f *fakeProfiles) All(context.Context) ([]profilemodels.Profile, error) {
	return f.profiles, nil
}

func user() domain.UserID { return domain.UserID(uuid.New()) }

func TestRebuildOrdering(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alice, bob, carol := user(), user(), user()
	ledger := &fakeLedger{totals: []ledgermodels.UserTotal{
		{UserID: alice, TotalGleams: 500, LastEarnedAt: base.Add(2 * time.Hour)},
		{UserID: bob, TotalGleams: 900, LastEarnedAt: base},
		// Same balance as alice, attained earlier: ranks above her.
		{UserID: carol, TotalGleams: 500, LastEarnedAt: base.Add(time.Hour)},
	}}
	profiles := &fakeProfiles{profiles: []profilemodels.Profile{
		{UserID: alice, DisplayName: "Alice", Country: "DE", Sector: "fintech", Level: 2},
		{UserID: bob, DisplayName: "Bob", Country: "US", Sector: "health", Level: 3},
		{UserID: carol, DisplayName: "Carol", Country: "DE", Sector: "health", Level: 0},
	}}

	svc, err := New(ledger, profiles, snapmem.New())
	require.NoError(t, err)

	snapshot, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Rows, 3)

	assert.Equal(t, bob, snapshot.Rows[0].UserID)
	assert.Equal(t, carol, snapshot.Rows[1].UserID)
	assert.Equal(t, alice, snapshot.Rows[2].UserID)
	for i, row := range snapshot.Rows {
		assert.Equal(t, i+1, row.Rank)
	}

	// Past the entry level: alicorns. At entry: raw gleams.
	assert.Equal(t, ledgermodels.SymbolAlicorn, snapshot.Rows[0].Display.Symbol)
	assert.InDelta(t, 9.0, snapshot.Rows[0].Display.Amount, 1e-9)
	assert.Equal(t, ledgermodels.SymbolGleam, snapshot.Rows[1].Display.Symbol)
	assert.InDelta(t, 500.0, snapshot.Rows[1].Display.Amount, 1e-9)
}

func TestRebuildTrends(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alice, bob := user(), user()
	ledger := &fakeLedger{totals: []ledgermodels.UserTotal{
		{UserID: alice, TotalGleams: 300, LastEarnedAt: base},
		{UserID: bob, TotalGleams: 200, LastEarnedAt: base},
	}}
	svc, err := New(ledger, &fakeProfiles{}, snapmem.New())
	require.NoError(t, err)

	first, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	// Newcomers have no history to compare against.
	for _, row := range first.Rows {
		assert.Equal(t, "same", string(row.Trend))
	}

	// Bob overtakes alice before the next rebuild.
	ledger.totals = []ledgermodels.UserTotal{
		{UserID: alice, TotalGleams: 300, LastEarnedAt: base},
		{UserID: bob, TotalGleams: 400, LastEarnedAt: base.Add(time.Hour)},
	}
	second, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	require.Len(t, second.Rows, 2)
	assert.Equal(t, bob, second.Rows[0].UserID)
	assert.Equal(t, "up", string(second.Rows[0].Trend))
	assert.Equal(t, "down", string(second.Rows[1].Trend))

	// Stable positions report "same" again.
	third, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	for _, row := range third.Rows {
		assert.Equal(t, "same", string(row.Trend))
	}
}

func TestRankFilters(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alice, bob, carol := user(), user(), user()
	ledger := &fakeLedger{totals: []ledgermodels.UserTotal{
		{UserID: alice, TotalGleams: 900, LastEarnedAt: base},
		{UserID: bob, TotalGleams: 600, LastEarnedAt: base},
		{UserID: carol, TotalGleams: 300, LastEarnedAt: base},
	}}
	profiles := &fakeProfiles{profiles: []profilemodels.Profile{
		{UserID: alice, Country: "US", Sector: "fintech", Level: 2},
		{UserID: bob, Country: "DE", Sector: "fintech", Level: 1},
		{UserID: carol, Country: "DE", Sector: "health", Level: 1},
	}}
	svc, err := New(ledger, profiles, snapmem.New())
	require.NoError(t, err)
	_, err = svc.Rebuild(ctx)
	require.NoError(t, err)

	t.Run("country filter re-ranks from one", func(t *testing.T) {
		rows, err := svc.Rank(ctx, Filter{Country: "DE"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, bob, rows[0].UserID)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, carol, rows[1].UserID)
		assert.Equal(t, 2, rows[1].Rank)
	})

	t.Run("level filter", func(t *testing.T) {
		level := domain.PhaseID(1)
		rows, err := svc.Rank(ctx, Filter{Level: &level})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, bob, rows[0].UserID)
	})

	t.Run("limit caps the page", func(t *testing.T) {
		rows, err := svc.Rank(ctx, Filter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, alice, rows[0].UserID)
	})

	t.Run("empty board before the first rebuild", func(t *testing.T) {
		fresh, err := New(ledger, profiles, snapmem.New())
		require.NoError(t, err)
		rows, err := fresh.Rank(ctx, Filter{})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestPosition(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alice := user()
	ledger := &fakeLedger{totals: []ledgermodels.UserTotal{
		{UserID: alice, TotalGleams: 100, LastEarnedAt: base},
	}}
	svc, err := New(ledger, &fakeProfiles{}, snapmem.New())
	require.NoError(t, err)
	_, err = svc.Rebuild(ctx)
	require.NoError(t, err)

	row, err := svc.Position(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Rank)

	_, err = svc.Position(ctx, user())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
