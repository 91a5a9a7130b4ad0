package engine

import (
	"math"
	"testing"

	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/rng"
)

func singleBankPop(h *model.Household, bank *model.Bank) *population.Population {
	pop := &population.Population{Households: []*model.Household{h}}
	if bank != nil {
		pop.Banks = []*model.Bank{bank}
	}
	return pop
}

func TestRebalance_ShiftsTenthToCoin(t *testing.T) {
	bank := &model.Bank{ID: 0, Reserves: 200, InitialReserves: 200}
	h := &model.Household{ID: 0, BankBalance: 80, CoinBalance: 5, CoinUtility: 1, Propensity: 1, Bank: bank}
	p := model.DefaultParams()
	p.BankAttractiveness = 0 // the coin side wins every draw
	e := New(p, singleBankPop(h, bank), rng.NewSampler(1))
	e.rebalance(h)
	if math.Abs(h.BankBalance-72) > tol {
		t.Errorf("expected 72 on the bank rail after a 10%% shift, got %g", h.BankBalance)
	}
	if math.Abs(h.CoinBalance-13) > tol {
		t.Errorf("expected 13 on the coin rail, got %g", h.CoinBalance)
	}
	if math.Abs(bank.Reserves-192) > tol {
		t.Errorf("reserves must mirror the move exactly: expected 192, got %g", bank.Reserves)
	}
}

func TestRebalance_ShiftsTenthToBank(t *testing.T) {
	bank := &model.Bank{ID: 0, Reserves: 100, InitialReserves: 100}
	h := &model.Household{ID: 0, BankBalance: 40, CoinBalance: 30, Bank: bank}
	e := New(model.DefaultParams(), singleBankPop(h, bank), rng.NewSampler(1))
	e.rebalance(h)
	if math.Abs(h.CoinBalance-27) > tol {
		t.Errorf("expected 27 on the coin rail after a 10%% shift, got %g", h.CoinBalance)
	}
	if math.Abs(h.BankBalance-43) > tol {
		t.Errorf("expected 43 on the bank rail, got %g", h.BankBalance)
	}
	if math.Abs(bank.Reserves-103) > tol {
		t.Errorf("reserves must mirror the move exactly: expected 103, got %g", bank.Reserves)
	}
}

func TestRebalance_SkipsWhenScoresSumToNothing(t *testing.T) {
	bank := &model.Bank{ID: 0, Reserves: 100, InitialReserves: 100}
	h := &model.Household{ID: 0, BankBalance: 40, CoinBalance: 30, Bank: bank}
	p := model.DefaultParams()
	p.BankAttractiveness = 0
	e := New(p, singleBankPop(h, bank), rng.NewSampler(1))
	e.rebalance(h)
	if h.BankBalance != 40 || h.CoinBalance != 30 || bank.Reserves != 100 {
		t.Errorf("nothing may move on a non-positive score sum, got %g / %g / %g",
			h.BankBalance, h.CoinBalance, bank.Reserves)
	}
}

func TestRebalance_EmptySourceRailDoesNothing(t *testing.T) {
	bank := &model.Bank{ID: 0, Reserves: 50, InitialReserves: 50}
	h := &model.Household{ID: 0, BankBalance: 0, CoinBalance: 20, CoinUtility: 1, Propensity: 1, Bank: bank}
	p := model.DefaultParams()
	p.BankAttractiveness = 0 // coin side wins, but there is nothing to move
	e := New(p, singleBankPop(h, bank), rng.NewSampler(1))
	e.rebalance(h)
	if h.BankBalance != 0 || h.CoinBalance != 20 || bank.Reserves != 50 {
		t.Errorf("an empty source rail must leave state alone, got %g / %g / %g",
			h.BankBalance, h.CoinBalance, bank.Reserves)
	}
}

func TestRebalance_PanicFactorSelectsOnHealth(t *testing.T) {
	p := model.DefaultParams()
	p.BankAttractiveness = 0
	p.ConfidenceThreshold = 0.5
	p.FearFactor = 0 // a zero fear factor mutes the coin score entirely

	// Healthy bank: full reserves, the coin score stands and the move runs.
	healthyBank := &model.Bank{ID: 0, Reserves: 100, InitialReserves: 100}
	healthy := &model.Household{ID: 0, BankBalance: 50, CoinUtility: 1, Propensity: 1, Bank: healthyBank}
	e := New(p, singleBankPop(healthy, healthyBank), rng.NewSampler(1))
	e.rebalance(healthy)
	if math.Abs(healthy.BankBalance-45) > tol {
		t.Errorf("healthy-bank household should have moved 5, balance %g", healthy.BankBalance)
	}

	// Drained bank: the ratio sits below the threshold, so the fear factor
	// multiplies the score, and zero fear means no move at all.
	drainedBank := &model.Bank{ID: 1, Reserves: 40, InitialReserves: 100}
	panicked := &model.Household{ID: 1, BankBalance: 50, CoinUtility: 1, Propensity: 1, Bank: drainedBank}
	e2 := New(p, singleBankPop(panicked, drainedBank), rng.NewSampler(1))
	e2.rebalance(panicked)
	if panicked.BankBalance != 50 || panicked.CoinBalance != 0 {
		t.Errorf("muted score must not move funds, got %g / %g", panicked.BankBalance, panicked.CoinBalance)
	}
}

func TestRebalance_PeerPressureCountsAdopters(t *testing.T) {
	bank := &model.Bank{ID: 0, Reserves: 100, InitialReserves: 100}
	h := &model.Household{ID: 0, BankBalance: 60, Propensity: 1, Bank: bank}
	h.Peers = []*model.Household{
		{ID: 1, CoinBalance: 40, BankBalance: 60}, // fraction 0.4, adopter
		{ID: 2, CoinBalance: 20, BankBalance: 80}, // fraction 0.2, not yet
		{ID: 3},                                   // penniless, counts as non-adopter
		{ID: 4, CoinBalance: 10},                  // fraction 1, adopter
	}
	p := model.DefaultParams()
	p.BankAttractiveness = 0
	p.SocialInfluence = 1
	e := New(p, singleBankPop(h, bank), rng.NewSampler(1))
	e.rebalance(h)
	// Peer pressure 2/4 with zero own utility still carries the draw.
	if math.Abs(h.BankBalance-54) > tol {
		t.Errorf("expected a 10%% shift driven by peers alone, balance %g", h.BankBalance)
	}
	if math.Abs(h.CoinBalance-6) > tol {
		t.Errorf("expected 6 on the coin rail, got %g", h.CoinBalance)
	}

	// The same household without peers has nothing pushing it.
	alone := &model.Household{ID: 5, BankBalance: 60, Propensity: 1, Bank: bank}
	e.rebalance(alone)
	if alone.BankBalance != 60 || alone.CoinBalance != 0 {
		t.Errorf("no peers means no pressure, got %g / %g", alone.BankBalance, alone.CoinBalance)
	}
}

func TestRebalance_NoBankReadsHealthy(t *testing.T) {
	h := &model.Household{ID: 0, BankBalance: 50, CoinUtility: 1, Propensity: 1}
	p := model.DefaultParams()
	p.BankAttractiveness = 0
	e := New(p, singleBankPop(h, nil), rng.NewSampler(1))
	e.rebalance(h)
	if math.Abs(h.BankBalance-45) > tol || math.Abs(h.CoinBalance-5) > tol {
		t.Errorf("bankless household should still reallocate, got %g / %g", h.BankBalance, h.CoinBalance)
	}
}

func TestReallocate_SampleCappedAtPopulation(t *testing.T) {
	bank := &model.Bank{ID: 0}
	households := make([]*model.Household, 4)
	for i := range households {
		households[i] = &model.Household{ID: i, BankBalance: 100, CoinUtility: 1, Propensity: 1, Bank: bank}
		bank.Reserves += 100
	}
	bank.InitialReserves = bank.Reserves
	pop := &population.Population{Households: households, Banks: []*model.Bank{bank}}
	p := model.DefaultParams()
	p.BankAttractiveness = 0 // every sampled household moves to coin
	e := New(p, pop, rng.NewSampler(17))
	e.reallocate()
	// Sampling without replacement over 4 households touches each exactly once.
	for _, h := range pop.Households {
		if math.Abs(h.BankBalance-90) > tol {
			t.Errorf("household %d should have moved exactly once, balance %g", h.ID, h.BankBalance)
		}
	}
	if math.Abs(bank.Reserves-360) > tol {
		t.Errorf("reserves should mirror four moves of 10, got %g", bank.Reserves)
	}
}
