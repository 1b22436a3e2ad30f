package evaluation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StageInput carries whatever a stage gate needs: ratings, money, or an
// explicit human verdict.
type StageInput struct {
	Ratings         RatingSet
	EstimatedCost   decimal.Decimal
	ExpectedSavings decimal.Decimal
	Verdict         Decision
	StrategicScore  float64
}

// Evaluation is the scored result of a stage gate.
type Evaluation struct {
	Stage      Stage       `json:"stage"`
	Kind       GateKind    `json:"kind"`
	Score      float64     `json:"score"`
	Threshold  float64     `json:"threshold"`
	Decision   Decision    `json:"decision"`
	Financials *Financials `json:"financials,omitempty"`
}

// EvaluateStage scores the input for a stage and decides the gate.
func EvaluateStage(stage Stage, in StageInput, table PolicyTable) (Evaluation, error) {
	rule, err := table.Rule(stage)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{Stage: stage, Kind: rule.Kind, Threshold: rule.Threshold}
	switch rule.Kind {
	case GateIntake:
		if in.Verdict != DecisionAdvance && in.Verdict != DecisionReject {
			return Evaluation{}, invalid("decision", "intake accepts advance or reject")
		}
		ev.Decision = in.Verdict

	case GateRating:
		if len(in.Ratings) == 0 {
			return Evaluation{}, invalid("ratings", "at least one rating is required")
		}
		mean := Aggregate(in.Ratings.Values())
		ev.Score = RoundScore(mean)
		ev.Decision = Decide(rule.Threshold, mean)

	case GateROI:
		f := ComputeFinancials(in.EstimatedCost, in.ExpectedSavings)
		ev.Financials = &f
		ev.Score = f.ROIPercent.InexactFloat64()
		// the gate compares the unrounded ROI
		roi := decimal.Zero
		if in.EstimatedCost.IsPositive() {
			roi = rawROI(in.EstimatedCost, in.ExpectedSavings)
		}
		ev.Decision = Decide(rule.Threshold, roi.InexactFloat64())

	case GateExecutive:
		if !in.Verdict.Valid() {
			return Evaluation{}, invalid("decision", "executive decision must be approve, reject or on_hold")
		}
		ev.Decision = in.Verdict
		ev.Score = RoundScore(in.StrategicScore)

	default:
		return Evaluation{}, fmt.Errorf("stage %s: unsupported gate kind %q", stage, rule.Kind)
	}
	return ev, nil
}

// Outcome is everything a gate writes onto the idea besides its position.
type Outcome struct {
	Evaluation      Evaluation
	Reviewer        string
	Comments        string
	Ratings         RatingSet
	OverallScore    *float64
	Capex           decimal.NullDecimal
	Opex            decimal.NullDecimal
	HeadcountImpact *int
	CompletedAt     time.Time
}

// Command is one stage form submission.
type Command interface {
	Stage() Stage
	Actor() string
	Validate() error
	Input() StageInput
	ReasonTemplate() string
	Outcome(ev Evaluation, now time.Time) Outcome
}

// Run validates cmd against the subject's position, evaluates the gate,
// records the outcome and moves the subject.
func Run(subject Subject, cmd Command, table PolicyTable, now time.Time) (Outcome, HistoryEntry, error) {
	stage, status := subject.Position()
	if cmd.Stage() != stage {
		return Outcome{}, HistoryEntry{}, fmt.Errorf("%w: idea is at %s, form is for %s", ErrStageMismatch, stage, cmd.Stage())
	}
	if !status.Open() {
		return Outcome{}, HistoryEntry{}, fmt.Errorf("%w: %s is %s", ErrStageClosed, stage, status)
	}
	if err := cmd.Validate(); err != nil {
		return Outcome{}, HistoryEntry{}, err
	}

	ev, err := EvaluateStage(stage, cmd.Input(), table)
	if err != nil {
		return Outcome{}, HistoryEntry{}, err
	}

	out := cmd.Outcome(ev, now)
	subject.Record(out)

	entry, err := ApplyTransition(subject, ev, cmd.Actor(), cmd.ReasonTemplate(), now)
	if err != nil {
		return Outcome{}, HistoryEntry{}, err
	}
	return out, entry, nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func ratedOutcome(ev Evaluation, reviewer, comments string, ratings RatingSet, now time.Time) Outcome {
	overall := RoundScore(Aggregate(ratings.Values()))
	return Outcome{
		Evaluation:   ev,
		Reviewer:     strings.TrimSpace(reviewer),
		Comments:     strings.TrimSpace(comments),
		Ratings:      ratings,
		OverallScore: &overall,
		CompletedAt:  now,
	}
}

// SubmitL1Intake accepts or rejects a new submission.
type SubmitL1Intake struct {
	Reviewer string
	Verdict  Decision
	Comments string
	Reason   string
}

func (c SubmitL1Intake) Stage() Stage           { return StageL1 }
func (c SubmitL1Intake) Actor() string          { return strings.TrimSpace(c.Reviewer) }
func (c SubmitL1Intake) ReasonTemplate() string { return c.Reason }
func (c SubmitL1Intake) Input() StageInput      { return StageInput{Verdict: c.Verdict} }

func (c SubmitL1Intake) Validate() error {
	if err := requireName("reviewer", c.Reviewer); err != nil {
		return err
	}
	if c.Verdict != DecisionAdvance && c.Verdict != DecisionReject {
		return invalid("decision", "must be accept or reject")
	}
	return nil
}

func (c SubmitL1Intake) Outcome(ev Evaluation, now time.Time) Outcome {
	return Outcome{
		Evaluation:  ev,
		Reviewer:    c.Actor(),
		Comments:    strings.TrimSpace(c.Comments),
		CompletedAt: now,
	}
}

// SubmitL2Screening rates an idea against the screening criteria.
type SubmitL2Screening struct {
	Reviewer string
	Ratings  RatingSet
	Comments string
	Reason   string
}

func (c SubmitL2Screening) Stage() Stage           { return StageL2 }
func (c SubmitL2Screening) Actor() string          { return strings.TrimSpace(c.Reviewer) }
func (c SubmitL2Screening) ReasonTemplate() string { return c.Reason }
func (c SubmitL2Screening) Input() StageInput      { return StageInput{Ratings: c.Ratings} }

func (c SubmitL2Screening) Validate() error {
	if err := requireName("reviewer", c.Reviewer); err != nil {
		return err
	}
	return ValidateRatings(StageL2, c.Ratings)
}

func (c SubmitL2Screening) Outcome(ev Evaluation, now time.Time) Outcome {
	return ratedOutcome(ev, c.Reviewer, c.Comments, c.Ratings, now)
}

// SubmitL3BusinessCase rates the business case and gates on ROI.
type SubmitL3BusinessCase struct {
	Reviewer        string
	Ratings         RatingSet
	EstimatedCost   decimal.Decimal
	ExpectedSavings decimal.Decimal
	Capex           decimal.NullDecimal
	Opex            decimal.NullDecimal
	HeadcountImpact *int
	Comments        string
	Reason          string
}

func (c SubmitL3BusinessCase) Stage() Stage           { return StageL3 }
func (c SubmitL3BusinessCase) Actor() string          { return strings.TrimSpace(c.Reviewer) }
func (c SubmitL3BusinessCase) ReasonTemplate() string { return c.Reason }

func (c SubmitL3BusinessCase) Input() StageInput {
	return StageInput{
		Ratings:         c.Ratings,
		EstimatedCost:   c.EstimatedCost,
		ExpectedSavings: c.ExpectedSavings,
	}
}

func (c SubmitL3BusinessCase) Validate() error {
	if err := requireName("reviewer", c.Reviewer); err != nil {
		return err
	}
	if err := ValidateRatings(StageL3, c.Ratings); err != nil {
		return err
	}
	if err := ValidateAmount("estimated_cost", c.EstimatedCost); err != nil {
		return err
	}
	if err := ValidateAmount("expected_savings", c.ExpectedSavings); err != nil {
		return err
	}
	if c.Capex.Valid {
		if err := ValidateAmount("capex", c.Capex.Decimal); err != nil {
			return err
		}
	}
	if c.Opex.Valid {
		if err := ValidateAmount("opex", c.Opex.Decimal); err != nil {
			return err
		}
	}
	return nil
}

func (c SubmitL3BusinessCase) Outcome(ev Evaluation, now time.Time) Outcome {
	out := ratedOutcome(ev, c.Reviewer, c.Comments, c.Ratings, now)
	out.Capex = c.Capex
	out.Opex = c.Opex
	out.HeadcountImpact = c.HeadcountImpact
	return out
}

// SubmitL4Feasibility rates technical and operational feasibility.
type SubmitL4Feasibility struct {
	Reviewer string
	Ratings  RatingSet
	Comments string
	Reason   string
}

func (c SubmitL4Feasibility) Stage() Stage           { return StageL4 }
func (c SubmitL4Feasibility) Actor() string          { return strings.TrimSpace(c.Reviewer) }
func (c SubmitL4Feasibility) ReasonTemplate() string { return c.Reason }
func (c SubmitL4Feasibility) Input() StageInput      { return StageInput{Ratings: c.Ratings} }

func (c SubmitL4Feasibility) Validate() error {
	if err := requireName("reviewer", c.Reviewer); err != nil {
		return err
	}
	return ValidateRatings(StageL4, c.Ratings)
}

func (c SubmitL4Feasibility) Outcome(ev Evaluation, now time.Time) Outcome {
	return ratedOutcome(ev, c.Reviewer, c.Comments, c.Ratings, now)
}

// SubmitL5ExecutiveDecision records the executive's approve / reject /
// on-hold choice. The strategic score is kept for audit and never compared
// to a threshold.
type SubmitL5ExecutiveDecision struct {
	Approver       string
	Verdict        Decision
	StrategicScore float64
	Comments       string
	Reason         string
}

func (c SubmitL5ExecutiveDecision) Stage() Stage           { return StageL5 }
func (c SubmitL5ExecutiveDecision) Actor() string          { return strings.TrimSpace(c.Approver) }
func (c SubmitL5ExecutiveDecision) ReasonTemplate() string { return c.Reason }

func (c SubmitL5ExecutiveDecision) Input() StageInput {
	return StageInput{Verdict: c.Verdict, StrategicScore: c.StrategicScore}
}

func (c SubmitL5ExecutiveDecision) Validate() error {
	if err := requireName("approver", c.Approver); err != nil {
		return err
	}
	if !c.Verdict.Valid() {
		return invalid("decision", "must be approve, reject or on_hold")
	}
	return ValidateRatingValue("strategic_score", c.StrategicScore)
}

func (c SubmitL5ExecutiveDecision) Outcome(ev Evaluation, now time.Time) Outcome {
	score := ev.Score
	return Outcome{
		Evaluation:   ev,
		Reviewer:     c.Actor(),
		Comments:     strings.TrimSpace(c.Comments),
		OverallScore: &score,
		CompletedAt:  now,
	}
}
