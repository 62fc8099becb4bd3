// Package memory keeps assessment results in process memory.
package memory

import (
	"context"
	"sync"

	"ascent/internal/scoring/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
)

type Store struct {
	mu      sync.RWMutex
	results map[domain.SessionID]models.AssessmentResult
}

func New() *Store {
	return &Store{results: make(map[domain.SessionID]models.AssessmentResult)}
}

// Save keeps the first result for a session; results are immutable, so a
// second save for the same session is a quiet no-op.
func (s *Store) Save(_ context.Context, result *models.AssessmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.SessionID]; exists {
		return nil
	}
	s.results[result.SessionID] = *result
	return nil
}

func (s *Store) BySession(_ context.Context, sessionID domain.SessionID) (*models.AssessmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := result
	return &out, nil
}
