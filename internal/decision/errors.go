package decision

import "errors"

var (
	// ErrMarginBelowMinimum indicates a quote's margin is under Policy.MinMargin.
	ErrMarginBelowMinimum = errors.New("margin below minimum")

	// ErrNegativeAmount indicates a line item with a negative cost or price.
	ErrNegativeAmount = errors.New("amount must be non-negative")

	// ErrNonFiniteAmount indicates line item totals that overflow float64.
	ErrNonFiniteAmount = errors.New("amount totals must be finite")

	// ErrNoCreditBands indicates a policy without a credit table.
	ErrNoCreditBands = errors.New("credit bands must not be empty")

	// ErrCreditBandOrder indicates credit bands not sorted by descending score.
	ErrCreditBandOrder = errors.New("credit bands must have strictly descending min_score")
)
