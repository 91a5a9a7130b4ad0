package engine

import "stablesim/internal/model"

// learn nudges the sender's perceived coin utility after a completed
// transfer: slight multiplicative growth plus zero-mean noise. The update
// fires on bank-rail transfers too; the experience being reinforced is
// transacting at all, not which rail carried it.
func (e *Engine) learn(h *model.Household) {
	h.CoinUtility = h.CoinUtility*utilityGrowth + e.rnd.Norm(0, utilityNoiseSD)
}
