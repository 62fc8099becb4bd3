package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascent/internal/ledger/models"
	"ascent/internal/ledger/store/memory"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
	auditmem "ascent/pkg/platform/audit/store/memory"
)

type capturingPublisher struct {
	store *auditmem.Store
}

func (p *capturingPublisher) Emit(ctx context.Context, event audit.Event) error {
	return p.store.Append(ctx, event)
}

func newService(t *testing.T) (*Service, *auditmem.Store) {
	t.Helper()
	sink := auditmem.New()
	svc, err := New(memory.New(), WithAuditPublisher(&capturingPublisher{store: sink}))
	require.NoError(t, err)
	return svc, sink
}

func TestRecordSession_Idempotency(t *testing.T) {
	svc, sink := newService(t)
	ctx := context.Background()
	user := domain.UserID(uuid.New())
	session := domain.SessionID(uuid.New())

	require.NoError(t, svc.RecordSession(ctx, session, user, 1, 180))

	err := svc.RecordSession(ctx, session, user, 1, 180)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	total, err := svc.TotalGleams(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(180), total, "resubmission credits exactly once")

	actions := []string{}
	for _, e := range sink.Events() {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, audit.EventSessionRecorded)
	assert.Contains(t, actions, audit.EventDuplicateSession)
}

func TestDisplayCurrency_SymbolSwitch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user := domain.UserID(uuid.New())

	t.Run("entry level shows gleams even at zero balance", func(t *testing.T) {
		got, err := svc.DisplayCurrency(ctx, user, domain.EntryPhase)
		require.NoError(t, err)
		assert.Equal(t, models.SymbolGleam, got.Symbol)
		assert.Zero(t, got.Amount)
	})

	require.NoError(t, svc.RecordSession(ctx, domain.SessionID(uuid.New()), user, 1, 250))

	t.Run("entry level shows raw gleams", func(t *testing.T) {
		got, err := svc.DisplayCurrency(ctx, user, domain.EntryPhase)
		require.NoError(t, err)
		assert.Equal(t, models.SymbolGleam, got.Symbol)
		assert.Equal(t, float64(250), got.Amount)
	})

	t.Run("every level past entry shows alicorns", func(t *testing.T) {
		for level := domain.PhaseID(1); level <= domain.ApexPhase; level++ {
			got, err := svc.DisplayCurrency(ctx, user, level)
			require.NoError(t, err)
			assert.Equal(t, models.SymbolAlicorn, got.Symbol)
			assert.Equal(t, 2.5, got.Amount)
		}
	})
}

func TestAlicornConversion(t *testing.T) {
	tests := []struct {
		gleams int64
		want   float64
	}{
		{0, 0},
		{100, 1},
		{250, 2.5},
		{1234, 12.34},
		{99, 0.99},
		{1, 0.01},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, models.AlicornsFromGleams(tc.gleams), "gleams=%d", tc.gleams)
	}
}

func TestRecordSession_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("nil session", func(t *testing.T) {
		err := svc.RecordSession(ctx, domain.SessionID(uuid.Nil), domain.UserID(uuid.New()), 1, 10)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("nil user", func(t *testing.T) {
		err := svc.RecordSession(ctx, domain.SessionID(uuid.New()), domain.UserID(uuid.Nil), 1, 10)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("negative gleams", func(t *testing.T) {
		err := svc.RecordSession(ctx, domain.SessionID(uuid.New()), domain.UserID(uuid.New()), 1, -1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDeleteUser_ZeroesTotals(t *testing.T) {
	sink := auditmem.New()
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, err := New(memory.New(),
		WithAuditPublisher(&capturingPublisher{store: sink}),
		WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	user := domain.UserID(uuid.New())
	require.NoError(t, svc.RecordSession(ctx, domain.SessionID(uuid.New()), user, 2, 400))

	require.NoError(t, svc.DeleteUser(ctx, user))

	total, err := svc.TotalGleams(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, total)

	events := sink.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, audit.EventAccountDeleted, last.Action)
	assert.Equal(t, fixed, last.Timestamp)
}
