package evaluation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HistoryEntry is the audit record of one gate decision. Entries are only
// ever appended.
type HistoryEntry struct {
	FromStage  Stage
	ToStage    Stage
	FromStatus Status
	ToStatus   Status
	Decision   Decision
	Score      float64
	ChangedBy  string
	Reason     string
	CreatedAt  time.Time
}

// Transition is the resolved effect of a decision.
type Transition struct {
	NewStage  Stage
	NewStatus Status
	Entry     HistoryEntry
}

// Resolve computes the next (stage, status) for a decision and the history
// entry describing it.
//
//	advance: next stage, in_progress (L5 stays L5 and becomes approved)
//	reject:  same stage, rejected
//	hold:    same stage, on_hold
func Resolve(stage Stage, status Status, decision Decision, actor, reason string, score float64, now time.Time) (Transition, error) {
	if !stage.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	t := Transition{NewStage: stage}
	switch decision {
	case DecisionAdvance:
		if next, ok := stage.Next(); ok {
			t.NewStage = next
			t.NewStatus = StatusInProgress
		} else {
			t.NewStatus = StatusApproved
		}
	case DecisionReject:
		t.NewStatus = StatusRejected
	case DecisionHold:
		t.NewStatus = StatusOnHold
	default:
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownDecision, decision)
	}

	t.Entry = HistoryEntry{
		FromStage:  stage,
		ToStage:    t.NewStage,
		FromStatus: status,
		ToStatus:   t.NewStatus,
		Decision:   decision,
		Score:      score,
		ChangedBy:  actor,
		Reason:     reason,
		CreatedAt:  now,
	}
	return t, nil
}

// Subject is anything carrying a workflow position that gate outcomes can
// be written to. models.Idea implements it.
type Subject interface {
	Position() (Stage, Status)
	SetPosition(Stage, Status)
	Record(Outcome)
}

// ApplyTransition resolves decision against the subject's current position,
// moves the subject and returns the history entry. It does not check that
// the subject is open; each call appends exactly one entry.
func ApplyTransition(subject Subject, ev Evaluation, actor, reasonTemplate string, now time.Time) (HistoryEntry, error) {
	stage, status := subject.Position()
	reason := RenderReason(reasonTemplate, ev)
	t, err := Resolve(stage, status, ev.Decision, actor, reason, ev.Score, now)
	if err != nil {
		return HistoryEntry{}, err
	}
	subject.SetPosition(t.NewStage, t.NewStatus)
	return t.Entry, nil
}

// RenderReason fills {stage}, {score}, {decision} and {threshold}.
func RenderReason(template string, ev Evaluation) string {
	if template == "" {
		template = DefaultReasonTemplate(ev.Kind)
	}
	r := strings.NewReplacer(
		"{stage}", ev.Stage.Label(),
		"{score}", formatNumber(ev.Score),
		"{decision}", string(ev.Decision),
		"{threshold}", formatNumber(ev.Threshold),
	)
	return r.Replace(template)
}

// DefaultReasonTemplate is the reason used when a command supplies none.
func DefaultReasonTemplate(kind GateKind) string {
	switch kind {
	case GateRating:
		return "{stage}: overall score {score} against threshold {threshold}, {decision}"
	case GateROI:
		return "{stage}: ROI {score}% against threshold {threshold}%, {decision}"
	case GateExecutive:
		return "{stage}: executive decision {decision}, strategic score {score}"
	}
	return "{stage}: intake decision {decision}"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(RoundScore(v), 'f', 2, 64)
}
