package model

import "time"

// TickStats is the per-tick telemetry pair: aggregate deposits and coin,
// keyed by the tick index they were observed at.
type TickStats struct {
	Tick          int     `json:"tick"`
	TotalDeposits float64 `json:"total_deposits"`
	TotalCoin     float64 `json:"total_coin"`
}

// HouseholdSnapshot is a scalar copy of one household for observers.
type HouseholdSnapshot struct {
	ID          int         `json:"id"`
	BankID      int         `json:"bank_id"` // -1 when the household has no bank
	BankBalance float64     `json:"bank_balance"`
	CoinBalance float64     `json:"coin_balance"`
	CoinUtility float64     `json:"coin_utility"`
	Propensity  float64     `json:"propensity"`
	Risk        RiskProfile `json:"risk"`
}

// BankSnapshot is a scalar copy of one bank for observers.
type BankSnapshot struct {
	ID              int     `json:"id"`
	Reserves        float64 `json:"reserves"`
	InitialReserves float64 `json:"initial_reserves"`
	HealthRatio     float64 `json:"health_ratio"`
	DisplaySize     float64 `json:"display_size"`
}

// Snapshot copies the full agent state at one tick. No live pointers escape
// the simulation through it.
type Snapshot struct {
	Tick       int                 `json:"tick"`
	Households []HouseholdSnapshot `json:"households"`
	Banks      []BankSnapshot      `json:"banks"`
}

// StopReason says why a run ended.
type StopReason string

const (
	StopCeiling   StopReason = "CEILING"
	StopMaxTicks  StopReason = "MAX_TICKS"
	StopCancelled StopReason = "CANCELLED"
)

// Result summarizes a completed run.
type Result struct {
	Ticks         int        `json:"ticks"`
	TotalDeposits float64    `json:"total_deposits"`
	TotalCoin     float64    `json:"total_coin"`
	Stop          StopReason `json:"stop"`
	Started       time.Time  `json:"started"`
	Finished      time.Time  `json:"finished"`
	Final         Snapshot   `json:"final"`
}
