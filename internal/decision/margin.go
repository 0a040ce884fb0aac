package decision

import (
	"fmt"
	"math"
)

// LineItem is a single quoted line. Only cost and price matter here.
type LineItem struct {
	Cost  float64 `json:"cost"`
	Price float64 `json:"price"`
}

// MarginResult is the aggregate of a set of line items.
type MarginResult struct {
	TotalCost  float64 `json:"total_cost"`
	TotalPrice float64 `json:"total_price"`
	Margin     float64 `json:"margin"`
}

// CalculateMargin sums cost and price across items. Margin is 0 when the
// total price is not positive; for items accepted by ValidateItems it is
// always finite and never above 1.
func CalculateMargin(items []LineItem) MarginResult {
	var r MarginResult
	for _, it := range items {
		r.TotalCost += it.Cost
		r.TotalPrice += it.Price
	}
	if r.TotalPrice > 0 {
		r.Margin = (r.TotalPrice - r.TotalCost) / r.TotalPrice
	}
	return r
}

// ValidateItems rejects negative amounts and totals that are not finite.
func ValidateItems(items []LineItem) error {
	var totalCost, totalPrice float64
	for i, it := range items {
		if it.Cost < 0 {
			return fmt.Errorf("%w: items[%d].cost = %v", ErrNegativeAmount, i, it.Cost)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: items[%d].price = %v", ErrNegativeAmount, i, it.Price)
		}
		totalCost += it.Cost
		totalPrice += it.Price
	}
	if !finite(totalCost) {
		return fmt.Errorf("%w: total cost = %v", ErrNonFiniteAmount, totalCost)
	}
	if !finite(totalPrice) {
		return fmt.Errorf("%w: total price = %v", ErrNonFiniteAmount, totalPrice)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CheckMargin returns ErrMarginBelowMinimum unless m reaches the policy
// minimum. An undefined (NaN) margin fails. There is no override.
func (p Policy) CheckMargin(m MarginResult) error {
	if !(m.Margin >= p.MinMargin) {
		return ErrMarginBelowMinimum
	}
	return nil
}

// MarginRejectionReason is the caller-visible reason for a margin rejection,
// e.g. "Margin below minimum (15%)".
func (p Policy) MarginRejectionReason() string {
	pct := math.Round(p.MinMargin*10000) / 100
	return fmt.Sprintf("Margin below minimum (%g%%)", pct)
}
