// internal/decision/policy.go
package decision

import (
	"fmt"
	"math"
)

/*
 * Business policy for quote and credit decisions.
 *
 * Policy is loaded once at startup (see internal/core/config) and is read-only
 * for the lifetime of the process. All decision functions are methods on a
 * Policy value so the same inputs always produce the same outcome.
 *
 * Threshold semantics:
 *   - Approval thresholds are exclusive: exactly 25000 needs no approval.
 *   - Credit bands are evaluated top-down, first match wins.
 *   - The top credit band approves regardless of order value. Lower bands gate
 *     approval on their limit. This asymmetry is business policy.
 */

// Default policy values.
const (
	DefaultMinMargin            = 0.15
	DefaultManagerApprovalAbove = 25000
	DefaultSeniorApprovalAbove  = 100000
	DefaultCreditCheckAbove     = 10000
)

// CreditBand is one row of the credit decision table.
type CreditBand struct {
	MinScore      int     // inclusive lower bound on the score
	Limit         float64 // credit limit granted by the band
	Unconditional bool    // approve regardless of order value
}

// Policy holds the decision thresholds.
type Policy struct {
	MinMargin            float64
	ManagerApprovalAbove float64
	SeniorApprovalAbove  float64
	CreditCheckAbove     float64
	CreditBands          []CreditBand // descending MinScore; last band is the floor
}

// DefaultCreditBands returns the standard credit table.
func DefaultCreditBands() []CreditBand {
	return []CreditBand{
		{MinScore: 700, Limit: 50000, Unconditional: true},
		{MinScore: 600, Limit: 25000},
		{MinScore: math.MinInt, Limit: 10000},
	}
}

// DefaultPolicy returns the standard business policy.
func DefaultPolicy() Policy {
	return Policy{
		MinMargin:            DefaultMinMargin,
		ManagerApprovalAbove: DefaultManagerApprovalAbove,
		SeniorApprovalAbove:  DefaultSeniorApprovalAbove,
		CreditCheckAbove:     DefaultCreditCheckAbove,
		CreditBands:          DefaultCreditBands(),
	}
}

// Validate checks thresholds are coherent.
func (p Policy) Validate() error {
	if p.MinMargin < 0 || p.MinMargin >= 1 || math.IsNaN(p.MinMargin) {
		return fmt.Errorf("min_margin must be in [0, 1), got %v", p.MinMargin)
	}
	if p.ManagerApprovalAbove < 0 {
		return fmt.Errorf("manager_approval_above must be non-negative, got %v", p.ManagerApprovalAbove)
	}
	if p.SeniorApprovalAbove <= p.ManagerApprovalAbove {
		return fmt.Errorf("senior_approval_above (%v) must exceed manager_approval_above (%v)",
			p.SeniorApprovalAbove, p.ManagerApprovalAbove)
	}
	if p.CreditCheckAbove < 0 {
		return fmt.Errorf("credit_check_above must be non-negative, got %v", p.CreditCheckAbove)
	}
	if len(p.CreditBands) == 0 {
		return ErrNoCreditBands
	}
	for i := 1; i < len(p.CreditBands); i++ {
		if p.CreditBands[i].MinScore >= p.CreditBands[i-1].MinScore {
			return fmt.Errorf("%w: band %d min_score %d not below %d",
				ErrCreditBandOrder, i, p.CreditBands[i].MinScore, p.CreditBands[i-1].MinScore)
		}
	}
	return nil
}

// NeedsCreditCheck reports whether an enquiry's estimated value warrants a
// credit check before quoting.
func (p Policy) NeedsCreditCheck(estimatedValue float64) bool {
	return estimatedValue > p.CreditCheckAbove
}
