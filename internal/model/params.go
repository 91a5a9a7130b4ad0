package model

import "fmt"

// Params holds the simulation parameters, read once at setup.
type Params struct {
	Households          int     `yaml:"households" json:"households"`
	Banks               int     `yaml:"banks" json:"banks"`
	InitialDeposit      float64 `yaml:"initial_deposit" json:"initial_deposit"`
	InitialCoinUtility  float64 `yaml:"initial_coin_utility" json:"initial_coin_utility"`
	BankAttractiveness  float64 `yaml:"bank_attractiveness" json:"bank_attractiveness"`
	TransactionsPerTick int     `yaml:"transactions_per_tick" json:"transactions_per_tick"`
	SocialInfluence     float64 `yaml:"social_influence" json:"social_influence"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidence_threshold"`
	FearFactor          float64 `yaml:"fear_factor" json:"fear_factor"`
	UnemploymentRate    float64 `yaml:"unemployment_rate" json:"unemployment_rate"`
	YearlySalary        float64 `yaml:"yearly_salary" json:"yearly_salary"`
}

// DefaultParams returns a mid-range parameterization suitable for
// exploratory runs.
func DefaultParams() Params {
	return Params{
		Households:          100,
		Banks:               1,
		InitialDeposit:      100,
		InitialCoinUtility:  0.2,
		BankAttractiveness:  0.5,
		TransactionsPerTick: 10,
		SocialInfluence:     0.5,
		ConfidenceThreshold: 0.5,
		FearFactor:          2,
		UnemploymentRate:    0.05,
		YearlySalary:        1.02,
	}
}

// Validate checks every parameter against its documented range. The engine
// itself does not defend against out-of-range values; hosts are expected to
// reject them here before setup.
func (p Params) Validate() error {
	if p.Households < 1 || p.Households > 500 {
		return fmt.Errorf("households must be in [1, 500], got %d", p.Households)
	}
	if p.Banks < 0 || p.Banks > 10 {
		return fmt.Errorf("banks must be in [0, 10], got %d", p.Banks)
	}
	if p.InitialDeposit < 1 || p.InitialDeposit > 1000 {
		return fmt.Errorf("initial_deposit must be in [1, 1000], got %g", p.InitialDeposit)
	}
	if p.InitialCoinUtility < 0 || p.InitialCoinUtility > 1 {
		return fmt.Errorf("initial_coin_utility must be in [0, 1], got %g", p.InitialCoinUtility)
	}
	if p.BankAttractiveness < 0 || p.BankAttractiveness > 1 {
		return fmt.Errorf("bank_attractiveness must be in [0, 1], got %g", p.BankAttractiveness)
	}
	if p.TransactionsPerTick < 1 || p.TransactionsPerTick > 50 {
		return fmt.Errorf("transactions_per_tick must be in [1, 50], got %d", p.TransactionsPerTick)
	}
	if p.SocialInfluence < 0 || p.SocialInfluence > 1 {
		return fmt.Errorf("social_influence must be in [0, 1], got %g", p.SocialInfluence)
	}
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0, 1], got %g", p.ConfidenceThreshold)
	}
	if p.FearFactor < 0 || p.FearFactor > 10 {
		return fmt.Errorf("fear_factor must be in [0, 10], got %g", p.FearFactor)
	}
	if p.UnemploymentRate < 0 || p.UnemploymentRate > 0.1 {
		return fmt.Errorf("unemployment_rate must be in [0, 0.1], got %g", p.UnemploymentRate)
	}
	if p.YearlySalary < 1 || p.YearlySalary > 1.05 {
		return fmt.Errorf("yearly_salary must be in [1, 1.05], got %g", p.YearlySalary)
	}
	return nil
}
