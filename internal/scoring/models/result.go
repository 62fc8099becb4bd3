package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"ascent/pkg/domain"
)

// Summary is the qualitative band a submission lands in.
type Summary string

const (
	SummaryUnicornPotential  Summary = "Unicorn Potential"
	SummarySolidFoundation   Summary = "Solid Foundation"
	SummaryGrowthOpportunity Summary = "Growth Opportunity"
)

// Band thresholds. Strict: exactly 80 is Solid Foundation, exactly 50 is
// Growth Opportunity.
const (
	UnicornThreshold float64 = 80
	SolidThreshold   float64 = 50
)

// SummaryFor selects the band for an overall percentage, highest first.
func SummaryFor(overallPercentage float64) Summary {
	switch {
	case overallPercentage > UnicornThreshold:
		return SummaryUnicornPotential
	case overallPercentage > SolidThreshold:
		return SummarySolidFoundation
	default:
		return SummaryGrowthOpportunity
	}
}

// AssessmentResult is the immutable outcome of one submission. A corrected
// submission produces a new session, never a mutation of this one.
type AssessmentResult struct {
	SessionID domain.SessionID `json:"session_id"`
	UserID    domain.UserID    `json:"user_id"`
	PhaseID   domain.PhaseID   `json:"phase_id"`

	DimensionRatio float64 `json:"dimension_ratio"`
	EiRRatio       float64 `json:"eir_ratio"`

	DimensionScore float64 `json:"dimension_score"`
	ThriveScore    float64 `json:"thrive_score"`
	TotalScore     float64 `json:"total_score"`
	PhaseMax       int64   `json:"phase_max"`

	OverallPercentage float64 `json:"overall_percentage"`
	Summary           Summary `json:"summary"`

	DimensionDisplay string `json:"dimension_display"`
	ThriveDisplay    string `json:"thrive_display"`
	TotalDisplay     string `json:"total_display"`

	// GleamYield is the currency the session earns: the rounded total
	// score. Phase-relative on purpose; the same relative performance one
	// phase later yields ten times the Gleams.
	GleamYield int64 `json:"gleam_yield"`

	CreatedAt time.Time `json:"created_at"`
}

// FormatMagnitude compacts a score for display: billions, millions and
// thousands get one decimal and a suffix, anything smaller is a plain
// rounded integer.
func FormatMagnitude(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
}
