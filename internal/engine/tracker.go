package engine

import "stablesim/internal/model"

// trackBanks recomputes the two aggregates as exact sums and rescales each
// bank's display size from them. The deposit total can go negative after
// heavy overdrafts; ratios use a zero floor while the emitted total keeps
// the raw sum.
func (e *Engine) trackBanks() model.TickStats {
	deposits := e.pop.TotalDeposits()
	coin := e.pop.TotalCoin()

	floored := deposits
	if floored < 0 {
		floored = 0
	}
	// Every bank scales by the system-wide deposit total over its own
	// baseline, not by its own current reserves.
	for _, b := range e.pop.Banks {
		if b.InitialReserves == 0 {
			continue
		}
		b.DisplaySize = model.BankBaseSize * floored / b.InitialReserves
	}

	return model.TickStats{Tick: e.tick, TotalDeposits: deposits, TotalCoin: coin}
}
