package engine

import (
	"math"
	"testing"

	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/rng"
)

func pair(bankA, coinA, bankB, coinB float64) (*population.Population, *model.Household, *model.Household) {
	a := &model.Household{ID: 0, BankBalance: bankA, CoinBalance: coinA}
	b := &model.Household{ID: 1, BankBalance: bankB, CoinBalance: coinB}
	return &population.Population{Households: []*model.Household{a, b}}, a, b
}

func TestTransferBank_FeeBurned(t *testing.T) {
	pop, a, b := pair(100, 0, 50, 0)
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transferBank(a, b)
	if math.Abs(a.BankBalance-89.7) > tol {
		t.Errorf("sender should pay amount plus fee: expected 89.7, got %g", a.BankBalance)
	}
	if math.Abs(b.BankBalance-60) > tol {
		t.Errorf("recipient should receive the bare amount: expected 60, got %g", b.BankBalance)
	}
	if burned := 150 - (a.BankBalance + b.BankBalance); math.Abs(burned-0.3) > tol {
		t.Errorf("a bank transfer should burn 0.3, burned %g", burned)
	}
}

func TestTransferCoin_FeeBurned(t *testing.T) {
	pop, a, b := pair(0, 100, 0, 50)
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transferCoin(a, b)
	if math.Abs(a.CoinBalance-89.95) > tol {
		t.Errorf("sender should pay amount plus fee: expected 89.95, got %g", a.CoinBalance)
	}
	if math.Abs(b.CoinBalance-60) > tol {
		t.Errorf("recipient should receive the bare amount: expected 60, got %g", b.CoinBalance)
	}
	if burned := 150 - (a.CoinBalance + b.CoinBalance); math.Abs(burned-0.05) > tol {
		t.Errorf("a coin transfer should burn 0.05, burned %g", burned)
	}
}

func TestTransact_CoinOnlyBranch(t *testing.T) {
	// Bank balance below the amount forces the coin rail regardless of how
	// unattractive the coin looks.
	pop, a, b := pair(5, 50, 0, 0)
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transact(a, b)
	if math.Abs(a.CoinBalance-39.95) > tol {
		t.Errorf("expected coin balance 39.95 after the transfer, got %g", a.CoinBalance)
	}
	if a.BankBalance != 5 {
		t.Errorf("bank balance must stay untouched, got %g", a.BankBalance)
	}
	if b.CoinBalance != 10 {
		t.Errorf("recipient should hold 10 coin, got %g", b.CoinBalance)
	}
}

func TestTransact_BankOnlyBranch(t *testing.T) {
	pop, a, b := pair(100, 2, 0, 0)
	a.CoinUtility = 1000 // even enormous utility cannot pick an unfunded rail
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transact(a, b)
	if math.Abs(a.BankBalance-89.7) > tol {
		t.Errorf("expected bank balance 89.7 after the transfer, got %g", a.BankBalance)
	}
	if a.CoinBalance != 2 {
		t.Errorf("coin balance must stay untouched, got %g", a.CoinBalance)
	}
	if b.BankBalance != 10 {
		t.Errorf("recipient should hold 10 on the bank rail, got %g", b.BankBalance)
	}
}

func TestTransact_InsufficientBothRails(t *testing.T) {
	// Holding exactly the amount does not qualify; the threshold is strict.
	pop, a, b := pair(10, 10, 0, 0)
	a.CoinUtility = 0.4
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transact(a, b)
	if a.BankBalance != 10 || a.CoinBalance != 10 {
		t.Errorf("no transfer should occur, balances %g / %g", a.BankBalance, a.CoinBalance)
	}
	if b.BankBalance != 0 || b.CoinBalance != 0 {
		t.Errorf("recipient must receive nothing, got %g / %g", b.BankBalance, b.CoinBalance)
	}
	if a.CoinUtility != 0.4 {
		t.Errorf("learning must not fire without a transfer, utility %g", a.CoinUtility)
	}
}

func TestTransact_BothFundedZeroUtilityUsesBank(t *testing.T) {
	pop, a, b := pair(100, 100, 0, 0)
	e := New(model.DefaultParams(), pop, rng.NewSampler(3))
	e.transact(a, b)
	if math.Abs(a.BankBalance-89.7) > tol {
		t.Errorf("zero utility should always pick the bank rail, balance %g", a.BankBalance)
	}
	if a.CoinBalance != 100 {
		t.Errorf("coin balance must stay untouched, got %g", a.CoinBalance)
	}
}

func TestTransact_NonPositiveUtilitySumFallsToBank(t *testing.T) {
	p := model.DefaultParams()
	p.BankAttractiveness = 0
	pop, a, b := pair(100, 100, 0, 0)
	a.CoinUtility = -1
	e := New(p, pop, rng.NewSampler(3))
	e.transact(a, b)
	if math.Abs(a.BankBalance-89.7) > tol {
		t.Errorf("a degenerate utility sum should fall back to the bank rail, balance %g", a.BankBalance)
	}
	if b.BankBalance != 10 {
		t.Errorf("recipient should hold 10 on the bank rail, got %g", b.BankBalance)
	}
}

func TestTransact_FeeOverdraftGoesNegative(t *testing.T) {
	// 10.2 funds the amount but not the fee; the debit is taken anyway.
	pop, a, b := pair(10.2, 0, 0, 0)
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.transact(a, b)
	if math.Abs(a.BankBalance-(-0.1)) > tol {
		t.Errorf("expected balance -0.1 after fee overdraft, got %g", a.BankBalance)
	}
	if b.BankBalance != 10 {
		t.Errorf("recipient should still receive the full amount, got %g", b.BankBalance)
	}
}

func TestTransact_LearningFiresOnBankRail(t *testing.T) {
	pop, a, b := pair(100, 0, 0, 0)
	a.CoinUtility = 0.2
	e := New(model.DefaultParams(), pop, rng.NewSampler(5))
	e.transact(a, b)
	if a.CoinUtility == 0.2 {
		t.Error("sender utility should move even on a bank-rail transfer")
	}
	if b.CoinUtility != 0 {
		t.Errorf("recipient utility must never move, got %g", b.CoinUtility)
	}
}

func TestRunTransactions_SenderCountCappedAtPopulation(t *testing.T) {
	// Three households with coin-free balances: every transfer burns the
	// bank fee, so the aggregate pins down how many transfers happened.
	bank := &model.Bank{ID: 0}
	households := make([]*model.Household, 3)
	for i := range households {
		households[i] = &model.Household{ID: i, BankBalance: 100, Bank: bank}
	}
	pop := &population.Population{Households: households, Banks: []*model.Bank{bank}}
	p := model.DefaultParams()
	p.TransactionsPerTick = 50
	e := New(p, pop, rng.NewSampler(9))
	e.runTransactions()
	if got := pop.TotalDeposits(); math.Abs(got-299.1) > tol {
		t.Errorf("expected exactly 3 transfers (total 299.1), got total %g", got)
	}
}

func TestRunTransactions_NeedsTwoHouseholds(t *testing.T) {
	h := &model.Household{ID: 0, BankBalance: 100}
	pop := &population.Population{Households: []*model.Household{h}}
	e := New(model.DefaultParams(), pop, rng.NewSampler(1))
	e.runTransactions()
	if h.BankBalance != 100 {
		t.Errorf("a lone household cannot transact, balance %g", h.BankBalance)
	}
}
