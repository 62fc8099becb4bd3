//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ascent/internal/ledger/models"
	"ascent/internal/ledger/store/postgres"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	"ascent/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "ledger_entries"))
}

func (s *PostgresStoreSuite) entry(userID domain.UserID, gleams int64) models.Entry {
	return models.Entry{
		SessionID: domain.SessionID(uuid.New()),
		UserID:    userID,
		PhaseID:   1,
		Gleams:    gleams,
		Kind:      models.KindAssessment,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestAppendAndReadBack() {
	ctx := context.Background()
	userID := domain.UserID(uuid.New())
	entry := s.entry(userID, 180)

	s.Require().NoError(s.store.Append(ctx, entry))

	got, err := s.store.BySession(ctx, entry.SessionID)
	s.Require().NoError(err)
	s.Equal(entry.UserID, got.UserID)
	s.Equal(entry.Gleams, got.Gleams)
	s.Equal(models.KindAssessment, got.Kind)

	total, err := s.store.TotalGleams(ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(180), total)
}

// TestConcurrentSameSession verifies the at-most-once crediting guarantee
// under contention: exactly one of many concurrent appends for the same
// session wins.
func (s *PostgresStoreSuite) TestConcurrentSameSession() {
	ctx := context.Background()
	entry := s.entry(domain.UserID(uuid.New()), 500)
	const goroutines = 50

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := s.store.Append(ctx, entry); err {
			case nil:
				successes.Add(1)
			case sentinel.ErrConflict:
				conflicts.Add(1)
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())

	total, err := s.store.TotalGleams(ctx, entry.UserID)
	s.Require().NoError(err)
	s.Equal(int64(500), total)
}

func (s *PostgresStoreSuite) TestTotalsAggregation() {
	ctx := context.Background()
	alice := domain.UserID(uuid.New())
	bob := domain.UserID(uuid.New())

	first := s.entry(alice, 100)
	second := s.entry(alice, 200)
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	third := s.entry(bob, 50)

	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))
	s.Require().NoError(s.store.Append(ctx, third))

	totals, err := s.store.Totals(ctx)
	s.Require().NoError(err)
	s.Require().Len(totals, 2)

	byUser := map[domain.UserID]models.UserTotal{}
	for _, t := range totals {
		byUser[t.UserID] = t
	}
	s.Equal(int64(300), byUser[alice].TotalGleams)
	s.WithinDuration(second.CreatedAt, byUser[alice].LastEarnedAt, time.Second)
	s.Equal(int64(50), byUser[bob].TotalGleams)
}

func (s *PostgresStoreSuite) TestDeleteUserCascade() {
	ctx := context.Background()
	alice := domain.UserID(uuid.New())
	bob := domain.UserID(uuid.New())

	s.Require().NoError(s.store.Append(ctx, s.entry(alice, 100)))
	s.Require().NoError(s.store.Append(ctx, s.entry(alice, 200)))
	s.Require().NoError(s.store.Append(ctx, s.entry(bob, 50)))

	removed, err := s.store.DeleteUser(ctx, alice)
	s.Require().NoError(err)
	s.Equal(2, removed)

	total, err := s.store.TotalGleams(ctx, alice)
	s.Require().NoError(err)
	s.Zero(total)

	// Other users are untouched.
	total, err = s.store.TotalGleams(ctx, bob)
	s.Require().NoError(err)
	s.Equal(int64(50), total)
}

func (s *PostgresStoreSuite) TestRemoveUnknownSession() {
	err := s.store.Remove(context.Background(), domain.SessionID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
