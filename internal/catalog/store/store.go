// Package store holds the in-process question catalog. The catalog is
// immutable after construction, so lookups need no locking.
package store

import (
	"ascent/internal/catalog/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
)

// Store indexes the question catalog by phase and by ID.
type Store struct {
	byPhase map[domain.PhaseID][]models.Question
	byID    map[domain.QuestionID]models.Question
}

// New builds a catalog store over an explicit question set. Production
// wiring uses NewSeeded; tests pass their own questions.
func New(questions []models.Question) *Store {
	s := &Store{
		byPhase: make(map[domain.PhaseID][]models.Question),
		byID:    make(map[domain.QuestionID]models.Question, len(questions)),
	}
	for _, q := range questions {
		s.byPhase[q.PhaseID] = append(s.byPhase[q.PhaseID], q)
		s.byID[q.ID] = q
	}
	return s
}

// NewSeeded builds the store over the built-in product catalog.
func NewSeeded() *Store {
	return New(seedQuestions())
}

// QuestionsByPhase returns all questions for a phase in seed order. An
// unknown phase returns an empty slice, not an error; the scoring service
// decides whether that is a validation failure.
func (s *Store) QuestionsByPhase(phase domain.PhaseID) []models.Question {
	return s.byPhase[phase]
}

// Partition splits a phase's questions into the two scored categories.
func (s *Store) Partition(phase domain.PhaseID) (dimension, eir []models.Question) {
	for _, q := range s.byPhase[phase] {
		switch q.Category {
		case domain.CategoryDimension:
			dimension = append(dimension, q)
		case domain.CategoryEiR:
			eir = append(eir, q)
		}
	}
	return dimension, eir
}

// Get returns a single question by ID.
func (s *Store) Get(id domain.QuestionID) (models.Question, error) {
	q, ok := s.byID[id]
	if !ok {
		return models.Question{}, sentinel.ErrNotFound
	}
	return q, nil
}

// Len returns the total catalog size.
func (s *Store) Len() int { return len(s.byID) }
