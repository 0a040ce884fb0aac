package decision

import "encoding/json"

// ApprovalTier is the organisational escalation level a quote needs.
type ApprovalTier string

const (
	TierNone      ApprovalTier = ""
	TierT3Manager ApprovalTier = "T3"
	TierT2Senior  ApprovalTier = "T2"
)

// MarshalJSON encodes TierNone as null.
func (t ApprovalTier) MarshalJSON() ([]byte, error) {
	if t == TierNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// ApprovalDecision says whether a quote must be escalated and to whom.
type ApprovalDecision struct {
	Needed bool         `json:"approval_needed"`
	Tier   ApprovalTier `json:"approval_tier"`
}

// Approval applies the thresholds highest first with strict > comparison.
func (p Policy) Approval(totalPrice float64) ApprovalDecision {
	switch {
	case totalPrice > p.SeniorApprovalAbove:
		return ApprovalDecision{Needed: true, Tier: TierT2Senior}
	case totalPrice > p.ManagerApprovalAbove:
		return ApprovalDecision{Needed: true, Tier: TierT3Manager}
	default:
		return ApprovalDecision{}
	}
}
