package decision

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func zipItems(costs, prices []float64) []LineItem {
	n := len(costs)
	if len(prices) < n {
		n = len(prices)
	}
	items := make([]LineItem, n)
	for i := 0; i < n; i++ {
		items[i] = LineItem{Cost: costs[i], Price: prices[i]}
	}
	return items
}

// Property-based test: margin bounds
func TestCalculateMargin_PropertyBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("margin never exceeds 1", prop.ForAll(
		func(costs, prices []float64) bool {
			m := CalculateMargin(zipItems(costs, prices))
			return m.Margin <= 1
		},
		gen.SliceOf(gen.Float64Range(0, 1e6)),
		gen.SliceOf(gen.Float64Range(0, 1e6)),
	))

	properties.Property("zero total price yields zero margin", prop.ForAll(
		func(costs []float64) bool {
			items := make([]LineItem, len(costs))
			for i, c := range costs {
				items[i] = LineItem{Cost: c}
			}
			return CalculateMargin(items).Margin == 0
		},
		gen.SliceOf(gen.Float64Range(0, 1e6)),
	))

	properties.Property("positive total price uses (price-cost)/price", prop.ForAll(
		func(costs, prices []float64) bool {
			m := CalculateMargin(zipItems(costs, prices))
			if m.TotalPrice <= 0 {
				return m.Margin == 0
			}
			return m.Margin == (m.TotalPrice-m.TotalCost)/m.TotalPrice
		},
		gen.SliceOf(gen.Float64Range(0, 1e6)),
		gen.SliceOf(gen.Float64Range(0, 1e6)),
	))

	properties.TestingRun(t)
}

// Property-based test: repeated calculation is stable
func TestCalculateMargin_PropertyDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same items give same result", prop.ForAll(
		func(costs, prices []float64) bool {
			items := zipItems(costs, prices)
			return CalculateMargin(items) == CalculateMargin(items)
		},
		gen.SliceOf(gen.Float64Range(0, 1e6)),
		gen.SliceOf(gen.Float64Range(0, 1e6)),
	))

	properties.TestingRun(t)
}

// Property-based test: approval tiers
func TestApproval_PropertyTiers(t *testing.T) {
	p := DefaultPolicy()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("at or below 25000 needs no approval", prop.ForAll(
		func(price float64) bool {
			d := p.Approval(price)
			return !d.Needed && d.Tier == TierNone
		},
		gen.Float64Range(-1e6, 25000),
	))

	properties.Property("above 25000 up to 100000 escalates to T3", prop.ForAll(
		func(price float64) bool {
			if price <= 25000 {
				return true
			}
			d := p.Approval(price)
			return d.Needed && d.Tier == TierT3Manager
		},
		gen.Float64Range(25000, 100000),
	))

	properties.Property("above 100000 escalates to T2", prop.ForAll(
		func(price float64) bool {
			if price <= 100000 {
				return true
			}
			d := p.Approval(price)
			return d.Needed && d.Tier == TierT2Senior
		},
		gen.Float64Range(100000, 1e9),
	))

	properties.TestingRun(t)
}

// Property-based test: credit bands
func TestCredit_PropertyBands(t *testing.T) {
	p := DefaultPolicy()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("score 700+ always approved", prop.ForAll(
		func(score int, value float64) bool {
			d := p.Credit(score, value)
			return d.Approved && d.Limit == 50000
		},
		gen.IntRange(700, 1000),
		gen.Float64Range(0, 1e9),
	))

	properties.Property("score 600-699 approved iff value <= 25000", prop.ForAll(
		func(score int, value float64) bool {
			d := p.Credit(score, value)
			return d.Limit == 25000 && d.Approved == (value <= 25000)
		},
		gen.IntRange(600, 699),
		gen.Float64Range(0, 1e5),
	))

	properties.Property("score below 600 approved iff value <= 10000", prop.ForAll(
		func(score int, value float64) bool {
			d := p.Credit(score, value)
			return d.Limit == 10000 && d.Approved == (value <= 10000)
		},
		gen.IntRange(0, 599),
		gen.Float64Range(0, 1e5),
	))

	properties.TestingRun(t)
}
