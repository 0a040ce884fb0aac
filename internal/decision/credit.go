package decision

// CreditDecision is the outcome of a credit check.
type CreditDecision struct {
	Score    int     `json:"credit_score"`
	Limit    float64 `json:"credit_limit"`
	Approved bool    `json:"approved"`
}

// Credit evaluates the bands top-down; the first band whose MinScore the
// score reaches wins. If no band matches the last band is used as the floor.
func (p Policy) Credit(score int, orderValue float64) CreditDecision {
	band := p.bandFor(score)
	return CreditDecision{
		Score:    score,
		Limit:    band.Limit,
		Approved: band.Unconditional || orderValue <= band.Limit,
	}
}

func (p Policy) bandFor(score int) CreditBand {
	bands := p.CreditBands
	if len(bands) == 0 {
		bands = DefaultCreditBands()
	}
	for _, b := range bands {
		if score >= b.MinScore {
			return b
		}
	}
	return bands[len(bands)-1]
}
