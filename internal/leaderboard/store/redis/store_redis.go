// Package redis stores the current leaderboard snapshot as one JSON
// value, shared by every serving instance.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"ascent/internal/leaderboard/models"
	"ascent/pkg/platform/sentinel"
)

const snapshotKey = "leaderboard:snapshot"

type Store struct {
	client *goredis.Client
}

func New(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Current(ctx context.Context) (*models.Snapshot, error) {
	payload, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get leaderboard snapshot: %w", err)
	}
	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode leaderboard snapshot: %w", err)
	}
	return &snapshot, nil
}

// Replace stores without a TTL: a stale board beats an empty one when the
// refresher is down.
func (s *Store) Replace(ctx context.Context, snapshot models.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode leaderboard snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("set leaderboard snapshot: %w", err)
	}
	return nil
}
