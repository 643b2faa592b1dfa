// Package pricing holds the pure money math for the ledger. All values are
// shopspring decimals; binary floats never touch a monetary amount.
// Intermediate results keep full precision, rounding to two places happens
// only at the display/persistence boundary via Round2.
package pricing

import "github.com/shopspring/decimal"

// Tolerance is the rounding tolerance for monetary consistency checks
// (received + pending == sale price, within one paisa).
var Tolerance = decimal.New(1, -2)

// Round2 rounds a monetary amount to two decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CostPerUnit is (total purchase price + variable expenses) / quantity.
// Defined as 0 when quantity <= 0 so a bad lot never divides by zero.
func CostPerUnit(totalPrice, variableExpenses decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return totalPrice.Add(variableExpenses).Div(decimal.NewFromInt(int64(quantity)))
}

// PricePerUnit is the total sale price divided by quantity sold,
// 0 when quantity <= 0.
func PricePerUnit(salePrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return salePrice.Div(decimal.NewFromInt(int64(quantity)))
}

// ProfitPerUnit is the per-unit margin between sale price and lot cost.
func ProfitPerUnit(pricePerUnit, costPerUnit decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Sub(costPerUnit)
}

// ProfitMarginPct is profit_per_unit / cost_per_unit * 100. The second
// return is false when cost_per_unit is zero: the margin is undefined
// ("N/A"), which is not an error condition.
func ProfitMarginPct(profitPerUnit, costPerUnit decimal.Decimal) (decimal.Decimal, bool) {
	if costPerUnit.IsZero() {
		return decimal.Zero, false
	}
	return profitPerUnit.Div(costPerUnit).Mul(decimal.NewFromInt(100)), true
}

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
