// Package evaluation holds the idea stage-gate rules: rating aggregation,
// financial figures, per-stage thresholds and the L1-L5 transition table.
// Nothing in this package touches the database or the network.
package evaluation

import "fmt"

// Stage is a position in the idea pipeline.
type Stage string

const (
	StageL1 Stage = "L1" // submission / intake
	StageL2 Stage = "L2" // screening
	StageL3 Stage = "L3" // business case
	StageL4 Stage = "L4" // feasibility
	StageL5 Stage = "L5" // executive decision
)

// Stages lists the pipeline in order.
var Stages = []Stage{StageL1, StageL2, StageL3, StageL4, StageL5}

// Valid reports whether s is one of L1..L5.
func (s Stage) Valid() bool {
	return s.index() >= 0
}

func (s Stage) index() int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the following stage. L5 has no successor and returns itself
// with ok=false.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i == len(Stages)-1 {
		return s, false
	}
	return Stages[i+1], true
}

// Label is the human readable name used in history reasons and exports.
func (s Stage) Label() string {
	switch s {
	case StageL1:
		return "L1 Submission"
	case StageL2:
		return "L2 Screening"
	case StageL3:
		return "L3 Business Case"
	case StageL4:
		return "L4 Feasibility"
	case StageL5:
		return "L5 Executive Decision"
	}
	return string(s)
}

// ParseStage accepts "L3", "l3" or "3".
func ParseStage(raw string) (Stage, error) {
	switch raw {
	case "L1", "l1", "1":
		return StageL1, nil
	case "L2", "l2", "2":
		return StageL2, nil
	case "L3", "l3", "3":
		return StageL3, nil
	case "L4", "l4", "4":
		return StageL4, nil
	case "L5", "l5", "5":
		return StageL5, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, raw)
}

// Status is the state of an idea within its current stage.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusOnHold     Status = "on_hold"
)

// Valid reports whether s is a canonical status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusApproved, StatusRejected, StatusOnHold:
		return true
	}
	return false
}

// Open reports whether an idea in this status still accepts a gate
// decision for its current stage.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

// Decision is the outcome of a stage gate.
type Decision string

const (
	DecisionAdvance Decision = "advance"
	DecisionReject  Decision = "reject"
	DecisionHold    Decision = "hold"
)

// Valid reports whether d is one of advance, reject or hold.
func (d Decision) Valid() bool {
	return d == DecisionAdvance || d == DecisionReject || d == DecisionHold
}
