// Package memory keeps referral grants in process memory.
package memory

import (
	"context"
	"sync"

	"ascent/internal/referral/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
)

type Store struct {
	mu     sync.RWMutex
	grants map[domain.UserID]models.Grant
}

func New() *Store {
	return &Store{grants: make(map[domain.UserID]models.Grant)}
}

func (s *Store) Record(_ context.Context, grant models.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.grants[grant.RefereeID]; exists {
		return sentinel.ErrConflict
	}
	s.grants[grant.RefereeID] = grant
	return nil
}

func (s *Store) ByReferee(_ context.Context, refereeID domain.UserID) (*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[refereeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := grant
	return &out, nil
}

func (s *Store) Delete(_ context.Context, refereeID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grants[refereeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.grants, refereeID)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID domain.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for referee, grant := range s.grants {
		if grant.RefereeID == userID || grant.ReferrerID == userID {
			delete(s.grants, referee)
			removed++
		}
	}
	return removed, nil
}

// PassthroughTx satisfies the transaction runner for stores with no
// transactional backend; compensation in the service covers rollback.
type PassthroughTx struct{}

func (PassthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
