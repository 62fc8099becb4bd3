//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ascent/internal/leaderboard/models"
	lbredis "ascent/internal/leaderboard/store/redis"
	ledgermodels "ascent/internal/ledger/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	"ascent/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *lbredis.Store
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = lbredis.New(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestEmptyBeforeFirstRebuild() {
	_, err := s.store.Current(context.Background())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestReplaceAndReadBack() {
	ctx := context.Background()
	userID := domain.UserID(uuid.New())

	snapshot := models.Snapshot{
		BuiltAt: time.Now().UTC().Truncate(time.Second),
		Rows: []models.Row{
			{
				Rank:        1,
				UserID:      userID,
				DisplayName: "Orbit Labs",
				Country:     "DE",
				Level:       2,
				LevelName:   "Forge",
				TotalGleams: 1250,
				Display: ledgermodels.DisplayAmount{
					Symbol: ledgermodels.SymbolAlicorn,
					Amount: 12.5,
				},
				Trend: models.TrendUp,
			},
		},
	}
	s.Require().NoError(s.store.Replace(ctx, snapshot))

	got, err := s.store.Current(ctx)
	s.Require().NoError(err)
	s.Require().Len(got.Rows, 1)
	s.Equal(snapshot.BuiltAt, got.BuiltAt)
	s.Equal(userID, got.Rows[0].UserID)
	s.Equal(models.TrendUp, got.Rows[0].Trend)
	s.Equal(ledgermodels.SymbolAlicorn, got.Rows[0].Display.Symbol)
}

func (s *RedisStoreSuite) TestReplaceOverwrites() {
	ctx := context.Background()

	first := models.Snapshot{BuiltAt: time.Now().UTC(), Rows: []models.Row{{Rank: 1, UserID: domain.UserID(uuid.New())}}}
	s.Require().NoError(s.store.Replace(ctx, first))

	second := models.Snapshot{BuiltAt: first.BuiltAt.Add(time.Minute)}
	s.Require().NoError(s.store.Replace(ctx, second))

	got, err := s.store.Current(ctx)
	s.Require().NoError(err)
	s.Empty(got.Rows)
}
