package evaluation

import (
	"fmt"
	"math"
)

// GateKind says how a stage reaches its decision.
type GateKind string

const (
	GateIntake    GateKind = "intake"    // explicit accept / reject
	GateRating    GateKind = "rating"    // mean rating against a threshold
	GateROI       GateKind = "roi"       // ROI percentage against a threshold
	GateExecutive GateKind = "executive" // explicit approve / reject / on-hold
)

// Default gate thresholds.
const (
	L2ScreeningThreshold       = 3.0
	L3BusinessCaseROIThreshold = 20.0
	L4FeasibilityThreshold     = 3.0
)

// MaxThreshold is the largest override the stage_policies column stores.
const MaxThreshold = 99999999.99

// GateRule is the policy for one stage.
type GateRule struct {
	Kind      GateKind `json:"kind" yaml:"kind"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
}

// Numeric reports whether the gate compares a score against Threshold.
func (r GateRule) Numeric() bool {
	return r.Kind == GateRating || r.Kind == GateROI
}

// PolicyTable holds the gate rule of every stage.
type PolicyTable map[Stage]GateRule

// DefaultPolicyTable returns the canonical rule set.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		StageL1: {Kind: GateIntake},
		StageL2: {Kind: GateRating, Threshold: L2ScreeningThreshold},
		StageL3: {Kind: GateROI, Threshold: L3BusinessCaseROIThreshold},
		StageL4: {Kind: GateRating, Threshold: L4FeasibilityThreshold},
		StageL5: {Kind: GateExecutive},
	}
}

// Rule looks up the gate for a stage.
func (t PolicyTable) Rule(stage Stage) (GateRule, error) {
	rule, ok := t[stage]
	if !ok {
		return GateRule{}, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
	return rule, nil
}

// Decide applies the stage threshold: score >= threshold advances, anything
// lower rejects. Numeric gates never produce hold.
func (t PolicyTable) Decide(stage Stage, score float64) (Decision, error) {
	rule, err := t.Rule(stage)
	if err != nil {
		return "", err
	}
	if !rule.Numeric() {
		return "", fmt.Errorf("%w: %s is %s", ErrNoNumericGate, stage, rule.Kind)
	}
	return Decide(rule.Threshold, score), nil
}

// Decide compares a score against an inclusive threshold.
func Decide(threshold, score float64) Decision {
	if score >= threshold {
		return DecisionAdvance
	}
	return DecisionReject
}

// WithThreshold returns a copy of t with the threshold of a numeric stage
// replaced.
func (t PolicyTable) WithThreshold(stage Stage, threshold float64) (PolicyTable, error) {
	rule, err := t.Rule(stage)
	if err != nil {
		return nil, err
	}
	if !rule.Numeric() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNoNumericGate, stage, rule.Kind)
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return nil, invalid("threshold", "must be a non-negative number")
	}
	if rule.Kind == GateRating && threshold > MaxRating {
		return nil, invalid("threshold", "rating threshold must not exceed %.1f", MaxRating)
	}
	if threshold > MaxThreshold {
		return nil, invalid("threshold", "must not exceed %.2f", MaxThreshold)
	}

	out := make(PolicyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	rule.Threshold = threshold
	out[stage] = rule
	return out, nil
}
