// Package domain holds the engine's shared value types: typed identifiers
// and the small enumerations (phase, rating, question category) every
// module speaks in.
package domain

import (
	"github.com/google/uuid"

	dErrors "ascent/pkg/domain-errors"
)

// Typed IDs prevent cross-entity mix-ups at compile time: a SessionID can
// never be passed where a UserID is expected.
type (
	// UserID identifies a participant (founder account).
	UserID uuid.UUID

	// SessionID identifies a single assessment submission. The ledger is
	// unique on it, which is what makes crediting at-most-once.
	SessionID uuid.UUID

	// QuestionID identifies a catalog item.
	QuestionID uuid.UUID
)

// ParseUserID constructs a UserID from external input.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID. Call at trust boundaries; direct casting bypasses validation.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParseSessionID constructs a SessionID from external input.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session_id")
	return SessionID(u), err
}

// ParseQuestionID constructs a QuestionID from external input.
func ParseQuestionID(s string) (QuestionID, error) {
	u, err := parseUUID(s, "question_id")
	return QuestionID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id QuestionID) String() string { return uuid.UUID(id).String() }
