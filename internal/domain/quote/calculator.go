package quote

import (
	"github.com/shopspring/decimal"
)

// Totals is the monetary breakdown computed from a quote's line items.
// Every field is derived; none is ever hand-edited.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Options     decimal.Decimal `json:"options"`
	Allowances  decimal.Decimal `json:"allowances"`
	Adjustments decimal.Decimal `json:"adjustments"`
	Total       decimal.Decimal `json:"total"`
}

// ZeroTotals returns an all-zero breakdown (the result for an empty quote)
func ZeroTotals() Totals {
	return Totals{
		Subtotal:    decimal.Zero,
		Tax:         decimal.Zero,
		Discount:    decimal.Zero,
		Options:     decimal.Zero,
		Allowances:  decimal.Zero,
		Adjustments: decimal.Zero,
		Total:       decimal.Zero,
	}
}

// LineTotal computes a single item's calculated total:
// quantity * unit_cost * (multiplier when the item is region-sensitive),
// rounded half-up to 2 decimal places.
func LineTotal(item *LineItem, regionalMultiplier decimal.Decimal) decimal.Decimal {
	total := item.Quantity.Mul(item.UnitCost)
	if item.ApplyRegionMultiplier {
		total = total.Mul(regionalMultiplier)
	}
	return total.Round(2)
}

// CalculateTotals aggregates line items into the quote-level breakdown.
// The result is insensitive to item order, and an empty item list yields
// all zeros rather than an error. Each item's CalculatedTotal is refreshed
// as a side effect so it can be persisted for fast reads.
//
// total = subtotal + tax - discount + options + allowances + adjustments
func CalculateTotals(items []LineItem, regionalMultiplier decimal.Decimal) Totals {
	t := ZeroTotals()

	for idx := range items {
		item := &items[idx]
		lineTotal := LineTotal(item, regionalMultiplier)
		item.CalculatedTotal = lineTotal

		switch item.Kind {
		case LineItemKindBase:
			t.Subtotal = t.Subtotal.Add(lineTotal)
		case LineItemKindOption:
			t.Options = t.Options.Add(lineTotal)
		case LineItemKindAllowance:
			t.Allowances = t.Allowances.Add(lineTotal)
		case LineItemKindAdjustment:
			t.Adjustments = t.Adjustments.Add(lineTotal)
		}

		t.Tax = t.Tax.Add(item.Metadata.TaxAmount())
		t.Discount = t.Discount.Add(item.Metadata.DiscountAmount())
	}

	t.Total = t.Subtotal.
		Add(t.Tax).
		Sub(t.Discount).
		Add(t.Options).
		Add(t.Allowances).
		Add(t.Adjustments)

	return t
}
