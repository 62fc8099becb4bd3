package domain

import (
	"strconv"

	dErrors "ascent/pkg/domain-errors"
)

// PhaseID is an ordered stage of startup maturity. Phase 0 is the entry
// phase: it has no row in the scale table and its participants see raw
// Gleams rather than Alicorns.
type PhaseID int

const (
	// EntryPhase is the starting level. The currency display predicate
	// (ledger service) is the only place allowed to branch on it.
	EntryPhase PhaseID = 0

	// ApexPhase is the highest phase with its own (non-geometric) scale.
	ApexPhase PhaseID = 7
)

// phaseNames are the product-facing level names, entry first.
var phaseNames = map[PhaseID]string{
	0: "Spark",
	1: "Kindle",
	2: "Forge",
	3: "Traction",
	4: "Ascent",
	5: "Soar",
	6: "Titan",
	7: "Unicorn",
}

// ParsePhaseID constructs a PhaseID from external input.
//
// Errors: CodeInvalidInput when outside [0, ApexPhase].
func ParsePhaseID(v int) (PhaseID, error) {
	p := PhaseID(v)
	if !p.IsValid() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "phase must be between 0 and "+strconv.Itoa(int(ApexPhase)))
	}
	return p, nil
}

// IsValid reports whether the phase is a known stage.
func (p PhaseID) IsValid() bool { return p >= EntryPhase && p <= ApexPhase }

// IsEntry reports whether the phase is the starting level.
func (p PhaseID) IsEntry() bool { return p == EntryPhase }

// Name returns the product-facing level name.
func (p PhaseID) Name() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

func (p PhaseID) String() string { return strconv.Itoa(int(p)) }
