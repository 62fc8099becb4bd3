// Package memory keeps profiles in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"ascent/internal/profile/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
)

type Store struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]models.Profile
}

func New() *Store {
	return &Store{profiles: make(map[domain.UserID]models.Profile)}
}

func (s *Store) Save(_ context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *Store) Get(_ context.Context, userID domain.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := profile
	return &out, nil
}

// All returns profiles sorted by user ID so callers see a deterministic
// order.
func (s *Store) All(_ context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out, nil
}

func (s *Store) Delete(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, userID)
	return nil
}
