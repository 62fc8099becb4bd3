// Package memory keeps the current leaderboard snapshot in process
// memory.
package memory

import (
	"context"
	"sync"

	"ascent/internal/leaderboard/models"
	"ascent/pkg/platform/sentinel"
)

type Store struct {
	mu      sync.RWMutex
	current *models.Snapshot
}

func New() *Store {
	return &Store{}
}

func (s *Store) Current(_ context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, sentinel.ErrNotFound
	}
	out := *s.current
	out.Rows = append([]models.Row(nil), s.current.Rows...)
	return &out, nil
}

func (s *Store) Replace(_ context.Context, snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.Rows = append([]models.Row(nil), snapshot.Rows...)
	s.current = &snapshot
	return nil
}
