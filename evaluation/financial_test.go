package evaluation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestComputeFinancials(t *testing.T) {
	f := ComputeFinancials(dec("1000"), dec("1500"))

	if !f.NetSavings.Equal(dec("500")) {
		t.Fatalf("net savings: got %s want 500", f.NetSavings)
	}
	if !f.ROIPercent.Equal(dec("50")) {
		t.Fatalf("roi: got %s want 50", f.ROIPercent)
	}
	if !f.PaybackMonths.Valid || !f.PaybackMonths.Decimal.Equal(dec("8")) {
		t.Fatalf("payback: got %+v want 8", f.PaybackMonths)
	}
}

func TestComputeFinancialsZeroCostYieldsZeroROI(t *testing.T) {
	f := ComputeFinancials(decimal.Zero, dec("500"))

	if !f.ROIPercent.IsZero() {
		t.Fatalf("expected 0%% ROI for zero cost, got %s", f.ROIPercent)
	}
	if !f.NetSavings.Equal(dec("500")) {
		t.Fatalf("net savings: got %s want 500", f.NetSavings)
	}
	if !f.PaybackMonths.Valid || !f.PaybackMonths.Decimal.IsZero() {
		t.Fatalf("zero cost pays back immediately, got %+v", f.PaybackMonths)
	}
}

func TestComputeFinancialsZeroBenefitHasNoPayback(t *testing.T) {
	f := ComputeFinancials(dec("1200"), decimal.Zero)

	if f.PaybackMonths.Valid {
		t.Fatalf("expected undefined payback, got %s", f.PaybackMonths.Decimal)
	}
	if !f.ROIPercent.Equal(dec("-100")) {
		t.Fatalf("roi: got %s want -100", f.ROIPercent)
	}
}

func TestComputeFinancialsRounding(t *testing.T) {
	f := ComputeFinancials(dec("3000"), dec("3500"))

	if !f.ROIPercent.Equal(dec("16.67")) {
		t.Fatalf("roi: got %s want 16.67", f.ROIPercent)
	}
	if !f.PaybackMonths.Decimal.Equal(dec("10.3")) {
		t.Fatalf("payback: got %s want 10.3", f.PaybackMonths.Decimal)
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount("estimated_cost", dec("-1")); !IsValidation(err) {
		t.Fatalf("expected negative amount to be rejected, got %v", err)
	}
	if err := ValidateAmount("estimated_cost", decimal.Zero); err != nil {
		t.Fatalf("zero should be accepted: %v", err)
	}
	if err := ValidateAmount("estimated_cost", MaxAmount); err != nil {
		t.Fatalf("column maximum should be accepted: %v", err)
	}
	if err := ValidateAmount("estimated_cost", MaxAmount.Add(dec("0.01"))); !IsValidation(err) {
		t.Fatalf("expected amount above the column maximum to be rejected, got %v", err)
	}
	if err := ValidateAmount("estimated_cost", dec("10.005")); !IsValidation(err) {
		t.Fatalf("expected sub-cent amount to be rejected, got %v", err)
	}
	if err := ValidateAmount("estimated_cost", dec("10.50")); err != nil {
		t.Fatalf("two decimal places should be accepted: %v", err)
	}
}
