package service

import (
	"math"
	"time"

	"ascent/internal/catalog"
	catalogmodels "ascent/internal/catalog/models"
	"ascent/internal/scoring/models"
	"ascent/pkg/domain"
	dErrors "ascent/pkg/domain-errors"
)

// Calculate is the scoring function: pure over its inputs and the static
// phase scale. It never touches storage; persistence of the result is the
// caller's concern.
//
// Unanswered questions (rating zero or no entry at all) are excluded from
// ratio denominators rather than dragging the score down. An empty scored
// category yields ratio zero instead of failing; the returned gaps slice
// names such categories so the caller can log the data-quality warning.
func Calculate(
	questions []catalogmodels.Question,
	answers domain.AnswerSet,
	phase domain.PhaseID,
) (*models.AssessmentResult, []domain.QuestionCategory, error) {
	if len(questions) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "phase has no catalog questions")
	}
	if len(answers) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "answer set is empty")
	}

	known := make(map[domain.QuestionID]domain.QuestionCategory, len(questions))
	for _, q := range questions {
		known[q.ID] = q.Category
	}
	for id, rating := range answers {
		if rating < domain.RatingUnanswered || rating > domain.RatingMax {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "rating out of range for question "+id.String())
		}
		if _, ok := known[id]; !ok {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "answer references question outside the phase")
		}
	}

	var dimension, eir tally
	for _, q := range questions {
		rating, ok := answers[q.ID]
		if !ok || !rating.Answered() {
			continue
		}
		switch q.Category {
		case domain.CategoryDimension:
			dimension.add(rating)
		case domain.CategoryEiR:
			eir.add(rating)
		}
	}

	var gaps []domain.QuestionCategory
	if !hasCategory(questions, domain.CategoryDimension) {
		gaps = append(gaps, domain.CategoryDimension)
	}
	if !hasCategory(questions, domain.CategoryEiR) {
		gaps = append(gaps, domain.CategoryEiR)
	}

	phaseMax := catalog.MaxScore(phase)
	dimensionRatio := dimension.ratio()
	eirRatio := eir.ratio()

	dimensionScore := dimensionRatio * float64(phaseMax)
	thriveScore := eirRatio * float64(phaseMax)
	totalScore := dimensionScore + thriveScore
	overall := (dimensionRatio + eirRatio) / 2 * 100

	result := &models.AssessmentResult{
		PhaseID:           phase,
		DimensionRatio:    dimensionRatio,
		EiRRatio:          eirRatio,
		DimensionScore:    dimensionScore,
		ThriveScore:       thriveScore,
		TotalScore:        totalScore,
		PhaseMax:          phaseMax,
		OverallPercentage: overall,
		Summary:           models.SummaryFor(overall),
		DimensionDisplay:  models.FormatMagnitude(dimensionScore),
		ThriveDisplay:     models.FormatMagnitude(thriveScore),
		TotalDisplay:      models.FormatMagnitude(totalScore),
		GleamYield:        int64(math.Round(totalScore)),
		CreatedAt:         time.Now().UTC(),
	}
	return result, gaps, nil
}

// tally accumulates one category's answered ratings.
type tally struct {
	sum      int
	answered int
}

func (t *tally) add(r domain.Rating) {
	t.sum += int(r)
	t.answered++
}

// ratio is sum / (answered * max rating); zero when nothing was answered,
// never a division by zero.
func (t *tally) ratio() float64 {
	if t.answered == 0 {
		return 0
	}
	return float64(t.sum) / float64(t.answered*int(domain.RatingMax))
}

func hasCategory(questions []catalogmodels.Question, cat domain.QuestionCategory) bool {
	for _, q := range questions {
		if q.Category == cat {
			return true
		}
	}
	return false
}
