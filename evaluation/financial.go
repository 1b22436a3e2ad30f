package evaluation

import "github.com/shopspring/decimal"

var (
	hundred        = decimal.NewFromInt(100)
	monthsPerYear  = decimal.NewFromInt(12)
	roiPlaces      = int32(2)
	paybackPlaces  = int32(1)
	currencyPlaces = int32(2)

	// MaxAmount is the largest value a decimal(14,2) money column holds.
	MaxAmount = decimal.RequireFromString("999999999999.99")
)

// Financials are the derived business-case figures. ExpectedSavings is an
// annual amount.
type Financials struct {
	EstimatedCost   decimal.Decimal     `json:"estimated_cost"`
	ExpectedSavings decimal.Decimal     `json:"expected_savings"`
	NetSavings      decimal.Decimal     `json:"net_savings"`
	ROIPercent      decimal.Decimal     `json:"roi_percentage"`
	PaybackMonths   decimal.NullDecimal `json:"payback_period_months"`
}

// ComputeFinancials derives net savings, ROI and payback from a cost and an
// annual benefit.
//
// A zero cost yields 0% ROI. A zero benefit leaves PaybackMonths invalid
// (no payback). Payback uses the annual basis: cost / benefit * 12.
func ComputeFinancials(estimatedCost, expectedBenefit decimal.Decimal) Financials {
	f := Financials{
		EstimatedCost:   estimatedCost.Round(currencyPlaces),
		ExpectedSavings: expectedBenefit.Round(currencyPlaces),
		NetSavings:      expectedBenefit.Sub(estimatedCost).Round(currencyPlaces),
		ROIPercent:      decimal.Zero,
	}

	if estimatedCost.IsPositive() {
		f.ROIPercent = rawROI(estimatedCost, expectedBenefit).Round(roiPlaces)
	}

	if expectedBenefit.IsPositive() {
		f.PaybackMonths = decimal.NewNullDecimal(
			estimatedCost.Div(expectedBenefit).Mul(monthsPerYear).Round(paybackPlaces),
		)
	}

	return f
}

// rawROI is the unrounded ROI percentage. cost must be positive.
func rawROI(estimatedCost, expectedBenefit decimal.Decimal) decimal.Decimal {
	return expectedBenefit.Sub(estimatedCost).Div(estimatedCost).Mul(hundred)
}

// ValidateAmount rejects currency input that cannot be stored: negative
// values, more than two decimal places, or values above MaxAmount.
func ValidateAmount(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if !v.Equal(v.Round(currencyPlaces)) {
		return invalid(field, "must have at most 2 decimal places")
	}
	if v.GreaterThan(MaxAmount) {
		return invalid(field, "must not exceed %s", MaxAmount.StringFixed(currencyPlaces))
	}
	return nil
}
