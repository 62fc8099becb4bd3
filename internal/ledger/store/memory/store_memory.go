// Package memory holds the in-memory ledger store. Suitable for single
// instance deployments and tests; production uses the postgres store.
package memory

import (
	"context"
	"sort"
	"sync"

	"ascent/internal/ledger/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
)

// Store keeps ledger entries in process memory. The session index gives
// the same at-most-once guarantee the postgres unique constraint does.
type Store struct {
	mu        sync.RWMutex
	bySession map[domain.SessionID]models.Entry
	byUser    map[domain.UserID][]domain.SessionID
}

func New() *Store {
	return &Store{
		bySession: make(map[domain.SessionID]models.Entry),
		byUser:    make(map[domain.UserID][]domain.SessionID),
	}
}

func (s *Store) Append(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySession[entry.SessionID]; exists {
		return sentinel.ErrConflict
	}
	s.bySession[entry.SessionID] = entry
	s.byUser[entry.UserID] = append(s.byUser[entry.UserID], entry.SessionID)
	return nil
}

func (s *Store) BySession(_ context.Context, sessionID domain.SessionID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.bySession[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := entry
	return &out, nil
}

func (s *Store) TotalGleams(_ context.Context, userID domain.UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, sid := range s.byUser[userID] {
		total += s.bySession[sid].Gleams
	}
	return total, nil
}

func (s *Store) Totals(_ context.Context) ([]models.UserTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make([]models.UserTotal, 0, len(s.byUser))
	for userID, sessions := range s.byUser {
		if len(sessions) == 0 {
			continue
		}
		t := models.UserTotal{UserID: userID}
		for _, sid := range sessions {
			entry := s.bySession[sid]
			t.TotalGleams += entry.Gleams
			if entry.CreatedAt.After(t.LastEarnedAt) {
				t.LastEarnedAt = entry.CreatedAt
			}
		}
		totals = append(totals, t)
	}
	// Stable output order keeps aggregation deterministic.
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].UserID.String() < totals[j].UserID.String()
	})
	return totals, nil
}

func (s *Store) Remove(_ context.Context, sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.bySession[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.bySession, sessionID)
	sessions := s.byUser[entry.UserID]
	for i, sid := range sessions {
		if sid == sessionID {
			s.byUser[entry.UserID] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID domain.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.byUser[userID]
	for _, sid := range sessions {
		delete(s.bySession, sid)
	}
	delete(s.byUser, userID)
	return len(sessions), nil
}
