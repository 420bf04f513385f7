package quote

import (
	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// ROIResult is the financial outlook for a quoted investment
type ROIResult struct {
	TotalCost     decimal.Decimal `json:"total_cost"`
	AnnualSavings decimal.Decimal `json:"annual_savings"`
	LifespanYears decimal.Decimal `json:"lifespan_years"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"` // annual savings over the full lifespan
	NetReturn     decimal.Decimal `json:"net_return"`     // lifetime value minus cost
	ROIPercent    decimal.Decimal `json:"roi_percent"`
	PaybackYears  decimal.Decimal `json:"payback_years"`
}

// CalculateROI computes the simple return profile for a quoted amount:
// lifetime value, net return, ROI as a percentage of cost, and the payback
// period in years. All figures are rounded to 2 decimal places.
func CalculateROI(totalCost, annualSavings, lifespanYears decimal.Decimal) (ROIResult, error) {
	if totalCost.LessThanOrEqual(decimal.Zero) {
		return ROIResult{}, shared.NewValidationError("total_cost", "total cost must be positive")
	}
	if annualSavings.LessThanOrEqual(decimal.Zero) {
		return ROIResult{}, shared.NewValidationError("annual_savings", "annual savings must be positive")
	}
	if lifespanYears.LessThanOrEqual(decimal.Zero) {
		return ROIResult{}, shared.NewValidationError("lifespan_years", "lifespan years must be positive")
	}

	lifetimeValue := annualSavings.Mul(lifespanYears)
	netReturn := lifetimeValue.Sub(totalCost)
	roiPercent := netReturn.Div(totalCost).Mul(decimal.NewFromInt(100))
	paybackYears := totalCost.Div(annualSavings)

	return ROIResult{
		TotalCost:     totalCost,
		AnnualSavings: annualSavings,
		LifespanYears: lifespanYears,
		LifetimeValue: lifetimeValue.Round(2),
		NetReturn:     netReturn.Round(2),
		ROIPercent:    roiPercent.Round(2),
		PaybackYears:  paybackYears.Round(2),
	}, nil
}
