package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogstore "ascent/internal/catalog/store"
	memstore "ascent/internal/scoring/store/memory"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
	"ascent/pkg/platform/audit"
)

// fakeLedger records credits and enforces at-most-once per session, the
// same contract the real ledger store honours.
type fakeLedger struct {
	credits  map[domain.SessionID]int64
	failWith error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{credits: make(map[domain.SessionID]int64)}
}

func (f *fakeLedger) RecordSession(_ context.Context, sessionID domain.SessionID, _ domain.UserID, _ domain.PhaseID, gleams int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, exists := f.credits[sessionID]; exists {
		return dErrors.New(dErrors.CodeConflict, "session already recorded")
	}
	f.credits[sessionID] = gleams
	return nil
}

type capturingPublisher struct {
	events []audit.Event
}

func (p *capturingPublisher) Emit(_ context.Context, event audit.Event) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService(t *testing.T, ledger Ledger, opts ...Option) (*Service, *memstore.Store) {
	t.Helper()
	results := memstore.New()
	svc, err := New(catalogstore.NewSeeded(), ledger, results, opts...)
	require.NoError(t, err)
	return svc, results
}

func seededAnswers(t *testing.T, svc *Service, phase domain.PhaseID, rating domain.Rating) domain.AnswerSet {
	t.Helper()
	questions, err := svc.Questions(context.Background(), phase)
	require.NoError(t, err)
	answers := make(domain.AnswerSet, len(questions))
	for _, q := range questions {
		answers[q.ID] = rating
	}
	return answers
}

func TestServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the gleam yield once", func(t *testing.T) {
		ledger := newFakeLedger()
		svc, _ := newTestService(t, ledger)
		sessionID := domain.SessionID(uuid.New())
		userID := domain.UserID(uuid.New())

		result, err := svc.Submit(ctx, sessionID, userID, 2, seededAnswers(t, svc, 2, 5))
		require.NoError(t, err)
		assert.Equal(t, sessionID, result.SessionID)
		assert.Equal(t, userID, result.UserID)
		assert.Equal(t, result.GleamYield, ledger.credits[sessionID])
		assert.Equal(t, int64(2000), result.GleamYield)
	})

	t.Run("resubmission returns the original result unchanged", func(t *testing.T) {
		ledger := newFakeLedger()
		svc, _ := newTestService(t, ledger)
		sessionID := domain.SessionID(uuid.New())
		userID := domain.UserID(uuid.New())
		answers := seededAnswers(t, svc, 1, 5)

		first, err := svc.Submit(ctx, sessionID, userID, 1, answers)
		require.NoError(t, err)

		// Different answers on the same session must not change anything.
		second, err := svc.Submit(ctx, sessionID, userID, 1, seededAnswers(t, svc, 1, 2))
		require.NoError(t, err)

		assert.Equal(t, first.GleamYield, second.GleamYield)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		assert.Equal(t, first.TotalScore, second.TotalScore)
		assert.Len(t, ledger.credits, 1)
		assert.Equal(t, first.GleamYield, ledger.credits[sessionID])
	})

	t.Run("repairs a missing result row on resubmission", func(t *testing.T) {
		ledger := newFakeLedger()
		svc, results := newTestService(t, ledger)
		sessionID := domain.SessionID(uuid.New())
		userID := domain.UserID(uuid.New())

		// Simulate a crash between ledger credit and result save: the
		// session is credited but no result exists.
		require.NoError(t, ledger.RecordSession(ctx, sessionID, userID, 1, 180))

		answers := seededAnswers(t, svc, 1, 4)
		result, err := svc.Submit(ctx, sessionID, userID, 1, answers)
		require.NoError(t, err)

		stored, err := results.BySession(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, result.GleamYield, stored.GleamYield)
		// The earlier credit stands untouched.
		assert.Equal(t, int64(180), ledger.credits[sessionID])
	})

	t.Run("rejects invalid input before touching the ledger", func(t *testing.T) {
		ledger := newFakeLedger()
		svc, _ := newTestService(t, ledger)
		sessionID := domain.SessionID(uuid.New())
		userID := domain.UserID(uuid.New())

		cases := []struct {
			name    string
			session domain.SessionID
			user    domain.UserID
			phase   domain.PhaseID
			answers domain.AnswerSet
		}{
			{"nil session", domain.SessionID{}, userID, 1, seededAnswers(t, svc, 1, 3)},
			{"nil user", sessionID, domain.UserID{}, 1, seededAnswers(t, svc, 1, 3)},
			{"unknown phase", sessionID, userID, 9, seededAnswers(t, svc, 1, 3)},
			{"empty answers", sessionID, userID, 1, domain.AnswerSet{}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Submit(ctx, tc.session, tc.user, tc.phase, tc.answers)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				assert.Empty(t, ledger.credits)
			})
		}
	})

	t.Run("propagates ledger failures", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.failWith = dErrors.New(dErrors.CodeInternal, "ledger down")
		svc, results := newTestService(t, ledger)
		sessionID := domain.SessionID(uuid.New())

		_, err := svc.Submit(ctx, sessionID, domain.UserID(uuid.New()), 1, seededAnswers(t, svc, 1, 3))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

		_, err = results.BySession(ctx, sessionID)
		require.Error(t, err)
	})
}

func TestServiceQuestions(t *testing.T) {
	svc, _ := newTestService(t, newFakeLedger())

	questions, err := svc.Questions(context.Background(), domain.EntryPhase)
	require.NoError(t, err)
	assert.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Equal(t, domain.EntryPhase, q.PhaseID)
	}

	_, err = svc.Questions(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestServiceAuditsCatalogGaps(t *testing.T) {
	// A catalog built with only dimension questions for its phase.
	ledger := newFakeLedger()
	publisher := &capturingPublisher{}
	questions := makeQuestions(4, 3, 0)
	store := catalogstore.New(questions)
	svc, err := New(store, ledger, memstore.New(), WithAuditPublisher(publisher))
	require.NoError(t, err)

	answers := make(domain.AnswerSet, len(questions))
	for _, q := range questions {
		answers[q.ID] = 5
	}
	_, err = svc.Submit(context.Background(), domain.SessionID(uuid.New()), domain.UserID(uuid.New()), 4, answers)
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, audit.EventCatalogGap, publisher.events[0].Action)
	assert.Equal(t, domain.CategoryEiR.String(), publisher.events[0].Reason)
}
