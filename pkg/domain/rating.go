package domain

import dErrors "ascent/pkg/domain-errors"

// Rating is a single answer on the 1..5 agreement scale. Zero means the
// question was left unanswered: it is excluded from ratio denominators, it
// is never a legitimate lowest score.
type Rating int

const (
	// RatingUnanswered marks an absent answer.
	RatingUnanswered Rating = 0

	// RatingMin and RatingMax bound the real answer scale
	// (1 = "Not at all", 5 = "Absolutely").
	RatingMin Rating = 1
	RatingMax Rating = 5
)

// ParseRating constructs a Rating from external input.
//
// Errors: CodeValidation when outside [0, RatingMax]; zero is accepted and
// means unanswered.
func ParseRating(v int) (Rating, error) {
	r := Rating(v)
	if r < RatingUnanswered || r > RatingMax {
		return 0, dErrors.New(dErrors.CodeValidation, "rating must be between 0 and 5")
	}
	return r, nil
}

// Answered reports whether the rating is a real answer.
func (r Rating) Answered() bool { return r >= RatingMin }

// AnswerSet maps question IDs to ratings for one submission.
type AnswerSet map[QuestionID]Rating
