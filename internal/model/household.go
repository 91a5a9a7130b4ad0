package model

// RiskProfile classifies a household's appetite for the coin rail.
type RiskProfile string

const (
	RiskLow  RiskProfile = "LOW"
	RiskHigh RiskProfile = "HIGH"
)

// AdoptionCutoff is the coin fraction above which a household counts as a
// coin adopter to its peers.
const AdoptionCutoff = 0.3

// Household is a consumer agent holding funds on two payment rails.
type Household struct {
	ID          int
	BankBalance float64 // may go negative after a fee overdraft, never clamped
	CoinBalance float64
	CoinUtility float64 // learned valuation of the coin rail, unbounded
	Propensity  float64 // fixed at creation, in [0, 1]
	Risk        RiskProfile
	Bank        *Bank // nil only when the run is configured with zero banks
	Peers       []*Household
}

// CoinFraction reports the share of the household's liquid funds held on the
// coin rail. Households with nothing on either rail count as zero.
func (h *Household) CoinFraction() float64 {
	total := h.CoinBalance + h.BankBalance
	if total <= 0 {
		return 0
	}
	return h.CoinBalance / total
}
