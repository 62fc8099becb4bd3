package domain

import dErrors "ascent/pkg/domain-errors"

// QuestionCategory splits the catalog into the two scored subsets.
//
// Usage: construct via ParseQuestionCategory at trust boundaries to enforce
// the allowlist; direct casting bypasses validation.
type QuestionCategory string

const (
	// CategoryDimension covers growth/value-oriented questions.
	CategoryDimension QuestionCategory = "dimension"

	// CategoryEiR ("elephant in the room") covers risk/friction-oriented
	// questions; its scaled score is reported as the thrive score.
	CategoryEiR QuestionCategory = "eir"
)

var validCategories = map[QuestionCategory]bool{
	CategoryDimension: true,
	CategoryEiR:       true,
}

// ParseQuestionCategory constructs a QuestionCategory from external input.
//
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseQuestionCategory(s string) (QuestionCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := QuestionCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid category")
	}
	return c, nil
}

// IsValid checks the category against the supported enum values.
func (c QuestionCategory) IsValid() bool { return validCategories[c] }

func (c QuestionCategory) String() string { return string(c) }
