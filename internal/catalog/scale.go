// Package catalog owns the static assessment data: the question set and
// the phase scale table. Both are loaded once at process start and are
// read-only afterwards.
package catalog

import "ascent/pkg/domain"

// Scale constants. These are product rules, named so tests can assert on
// them directly and tuning never touches the scoring algorithm.
const (
	// BaseMaxScore is the raw score ceiling of the first scaled phase and
	// the fallback for any phase missing from the scale table (including
	// the entry phase, which deliberately has no row).
	BaseMaxScore int64 = 100

	// PhaseScaleFactor is the growth multiple between consecutive phases
	// up to phase six.
	PhaseScaleFactor int64 = 10

	// ApexMaxScore is the phase-seven ceiling. It is an explicit jump past
	// the geometric series (1e9, not 10x phase six's 1e7); the apex level
	// is meant to feel unreachable.
	ApexMaxScore int64 = 1_000_000_000
)

// phaseMaxScores maps each scaled phase to its raw score ceiling.
var phaseMaxScores = map[domain.PhaseID]int64{
	1: 100,
	2: 1_000,
	3: 10_000,
	4: 100_000,
	5: 1_000_000,
	6: 10_000_000,
	7: ApexMaxScore,
}

// MaxScore returns the raw score ceiling for a phase. Phases absent from
// the table fall back to BaseMaxScore rather than failing: the entry phase
// is scored Gleams-only at the base scale.
func MaxScore(p domain.PhaseID) int64 {
	if max, ok := phaseMaxScores[p]; ok {
		return max
	}
	return BaseMaxScore
}
