package evaluation

import (
	"errors"
	"testing"
)

func fullRatings(t *testing.T, stage Stage, v float64) RatingSet {
	t.Helper()
	values := map[string]float64{}
	for _, name := range Criteria[stage] {
		values[name] = v
	}
	set, err := RatingsFromMap(stage, values)
	if err != nil {
		t.Fatalf("RatingsFromMap: %v", err)
	}
	return set
}

func TestEvaluateStageROIBoundary(t *testing.T) {
	table := DefaultPolicyTable()
	cases := []struct {
		name      string
		cost      string
		savings   string
		wantScore float64
		want      Decision
	}{
		{"exactly 20%", "100000", "120000", 20, DecisionAdvance},
		{"just under 20%", "100000", "119999", 20, DecisionReject},
		{"just over 20%", "100000", "120001", 20, DecisionAdvance},
		{"well below", "100000", "110000", 10, DecisionReject},
		{"zero cost", "0", "5000", 0, DecisionReject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := EvaluateStage(StageL3, StageInput{
				EstimatedCost:   dec(tc.cost),
				ExpectedSavings: dec(tc.savings),
			}, table)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Decision != tc.want {
				t.Fatalf("decision: got %s want %s", ev.Decision, tc.want)
			}
			if ev.Score != tc.wantScore {
				t.Fatalf("stored score: got %v want %v", ev.Score, tc.wantScore)
			}
		})
	}
}

func TestBusinessCaseRejectsUnstorableAmounts(t *testing.T) {
	base := SubmitL3BusinessCase{
		Reviewer:        "Dana",
		Ratings:         fullRatings(t, StageL3, 4),
		EstimatedCost:   dec("1"),
		ExpectedSavings: dec("10000000"),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("large but storable amounts should pass: %v", err)
	}

	tooBig := base
	tooBig.ExpectedSavings = dec("1000000000000")
	var vErr *ValidationError
	if err := tooBig.Validate(); !errors.As(err, &vErr) || vErr.Field != "expected_savings" {
		t.Fatalf("expected validation error on expected_savings, got %v", err)
	}

	fractional := base
	fractional.EstimatedCost = dec("0.001")
	if err := fractional.Validate(); !errors.As(err, &vErr) || vErr.Field != "estimated_cost" {
		t.Fatalf("expected validation error on estimated_cost, got %v", err)
	}
}

func TestLargestROIFitsStorage(t *testing.T) {
	// smallest positive cost against the largest benefit
	f := ComputeFinancials(dec("0.01"), MaxAmount)
	if digits := len(f.ROIPercent.Truncate(0).Abs().String()); digits > 18 {
		t.Fatalf("roi %s has %d integer digits, column holds 18", f.ROIPercent, digits)
	}

	// largest cost against the smallest benefit
	f = ComputeFinancials(MaxAmount, dec("0.01"))
	if digits := len(f.PaybackMonths.Decimal.Truncate(0).String()); digits > 19 {
		t.Fatalf("payback %s has %d integer digits, column holds 19", f.PaybackMonths.Decimal, digits)
	}
}
