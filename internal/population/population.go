package population

import (
	"stablesim/internal/model"
	"stablesim/internal/rng"
)

// peerDegree is how many distinct peers each household links to at setup,
// capped when the population is too small to provide them.
const peerDegree = 3

// Population is the agent registry: every household and bank in a run, plus
// the peer graph among households. All entities are created once by Setup
// and live for the whole run.
type Population struct {
	Households []*model.Household
	Banks      []*model.Bank
}

// Setup creates banks, households and the peer network from the given
// parameters. Initial bank balances are normal draws centered on the
// configured deposit with half of it as spread; the draw is kept as-is even
// when it lands negative. Coin balances start at zero.
func Setup(p model.Params, rnd *rng.Sampler) *Population {
	banks := make([]*model.Bank, p.Banks)
	for i := range banks {
		banks[i] = &model.Bank{ID: i, DisplaySize: model.BankBaseSize}
	}

	households := make([]*model.Household, p.Households)
	for i := range households {
		h := &model.Household{
			ID:          i,
			BankBalance: rnd.Norm(p.InitialDeposit, 0.5*p.InitialDeposit),
			CoinUtility: p.InitialCoinUtility,
		}
		if len(banks) > 0 {
			h.Bank = banks[rnd.Intn(len(banks))]
		}
		households[i] = h
	}

	assignRisk(households, rnd)

	// Reserve baseline: the sum of member balances, frozen once.
	for _, h := range households {
		if h.Bank != nil {
			h.Bank.Reserves += h.BankBalance
		}
	}
	for _, b := range banks {
		b.InitialReserves = b.Reserves
	}

	linkPeers(households, rnd)

	return &Population{Households: households, Banks: banks}
}

// assignRisk splits the population half and half: floor(N/2) households drawn
// without replacement become high risk with propensity in [0.5, 1), the rest
// low risk with propensity in [0, 0.5).
func assignRisk(households []*model.Household, rnd *rng.Sampler) {
	high := make([]bool, len(households))
	for _, i := range rnd.Sample(len(households)/2, len(households)) {
		high[i] = true
	}
	for i, h := range households {
		if high[i] {
			h.Risk = model.RiskHigh
			h.Propensity = 0.5 + 0.5*rnd.Float64()
		} else {
			h.Risk = model.RiskLow
			h.Propensity = 0.5 * rnd.Float64()
		}
	}
}

// linkPeers gives each household up to peerDegree distinct peers chosen
// uniformly among the others. Self-links are impossible by construction.
func linkPeers(households []*model.Household, rnd *rng.Sampler) {
	n := len(households)
	for i, h := range households {
		k := peerDegree
		if k > n-1 {
			k = n - 1
		}
		if k <= 0 {
			continue
		}
		for _, j := range rnd.Sample(k, n-1) {
			// Indices are drawn from [0, n-1); shifting past the
			// household's own slot maps them onto everyone else.
			if j >= i {
				j++
			}
			h.Peers = append(h.Peers, households[j])
		}
	}
}

// TotalDeposits sums bank balances over all households. It is recomputed
// from scratch on every call so the value can never drift from agent state.
func (p *Population) TotalDeposits() float64 {
	sum := 0.0
	for _, h := range p.Households {
		sum += h.BankBalance
	}
	return sum
}

// TotalCoin sums coin balances over all households.
func (p *Population) TotalCoin() float64 {
	sum := 0.0
	for _, h := range p.Households {
		sum += h.CoinBalance
	}
	return sum
}

// Snapshot copies the current agent state for observers.
func (p *Population) Snapshot(tick int) model.Snapshot {
	snap := model.Snapshot{
		Tick:       tick,
		Households: make([]model.HouseholdSnapshot, 0, len(p.Households)),
		Banks:      make([]model.BankSnapshot, 0, len(p.Banks)),
	}
	for _, h := range p.Households {
		bankID := -1
		if h.Bank != nil {
			bankID = h.Bank.ID
		}
		snap.Households = append(snap.Households, model.HouseholdSnapshot{
			ID:          h.ID,
			BankID:      bankID,
			BankBalance: h.BankBalance,
			CoinBalance: h.CoinBalance,
			CoinUtility: h.CoinUtility,
			Propensity:  h.Propensity,
			Risk:        h.Risk,
		})
	}
	for _, b := range p.Banks {
		snap.Banks = append(snap.Banks, model.BankSnapshot{
			ID:              b.ID,
			Reserves:        b.Reserves,
			InitialReserves: b.InitialReserves,
			HealthRatio:     b.HealthRatio(),
			DisplaySize:     b.DisplaySize,
		})
	}
	return snap
}
