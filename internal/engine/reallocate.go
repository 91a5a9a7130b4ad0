package engine

import "stablesim/internal/model"

// reallocate re-evaluates the rail split for a small sample of households,
// drawn without replacement each tick.
func (e *Engine) reallocate() {
	n := len(e.pop.Households)
	if n == 0 {
		return
	}
	k := reallocSample
	if k > n {
		k = n
	}
	for _, i := range e.rnd.Sample(k, n) {
		e.rebalance(e.pop.Households[i])
	}
}

// rebalance scores the two rails for one household and, on a winning draw,
// shifts a tenth of the losing rail's balance across. Moves on the bank side
// are mirrored into the home bank's reserves.
func (e *Engine) rebalance(h *model.Household) {
	panicMod := 1.0
	if h.Bank.HealthRatio() < e.params.ConfidenceThreshold {
		panicMod = e.params.FearFactor
	}

	peerPressure := 0.0
	if len(h.Peers) > 0 {
		adopted := 0
		for _, peer := range h.Peers {
			if peer.CoinFraction() > model.AdoptionCutoff {
				adopted++
			}
		}
		peerPressure = float64(adopted) / float64(len(h.Peers))
	}

	coinScore := (h.CoinUtility*h.Propensity + peerPressure*e.params.SocialInfluence) * panicMod
	bankScore := e.params.BankAttractiveness
	if coinScore+bankScore <= 0 {
		return
	}

	if e.rnd.Float64() < coinScore/(coinScore+bankScore) {
		if h.BankBalance > 0 {
			moved := h.BankBalance * reallocFraction
			h.BankBalance -= moved
			h.CoinBalance += moved
			if h.Bank != nil {
				h.Bank.Reserves -= moved
			}
		}
	} else if h.CoinBalance > 0 {
		moved := h.CoinBalance * reallocFraction
		h.CoinBalance -= moved
		h.BankBalance += moved
		if h.Bank != nil {
			h.Bank.Reserves += moved
		}
	}
}
