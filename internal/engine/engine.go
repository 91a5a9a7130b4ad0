package engine

import (
	"context"
	"time"

	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/rng"
)

// Fixed model constants. These belong to the model itself rather than to
// configuration: transfers always move ten units, fees are burned at the
// per-rail rates, and a run ends once the economy outgrows the ceiling.
const (
	txAmount        = 10.0
	bankFeeRate     = 0.03
	coinFeeRate     = 0.005
	utilityGrowth   = 1.01
	utilityNoiseSD  = 0.1
	reallocSample   = 10
	reallocFraction = 0.10
	ticksPerYear    = 365
	wealthCeiling   = 1000000.0
)

// State is the driver's lifecycle phase.
type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
	StateStopped State = "STOPPED"
)

// Sink receives telemetry as the run produces it. Calls arrive on the single
// simulation goroutine, in tick order.
type Sink interface {
	OnTick(stats model.TickStats)
	OnSnapshot(snap model.Snapshot)
}

// Engine drives one simulation run over an already set-up population. It is
// strictly sequential: Run executes on the caller's goroutine and nothing in
// the core takes a lock.
type Engine struct {
	// MaxTicks bounds the run when positive; zero or negative means run
	// until the ceiling or the context stops it.
	MaxTicks int
	// SnapshotEvery emits a full agent snapshot every that many ticks;
	// zero disables periodic snapshots.
	SnapshotEvery int

	params model.Params
	pop    *population.Population
	rnd    *rng.Sampler
	sinks  []Sink
	tick   int
	state  State
}

// New creates an engine for the given population and parameters.
func New(params model.Params, pop *population.Population, rnd *rng.Sampler) *Engine {
	return &Engine{
		params: params,
		pop:    pop,
		rnd:    rnd,
		state:  StateIdle,
	}
}

// AddSink attaches a telemetry sink. Attach before Run; the engine never
// synchronizes sink access.
func (e *Engine) AddSink(s Sink) {
	e.sinks = append(e.sinks, s)
}

// State reports the driver's lifecycle phase.
func (e *Engine) State() State {
	return e.state
}

// Tick reports how many ticks have completed.
func (e *Engine) Tick() int {
	return e.tick
}

// Run executes ticks until the aggregate ceiling is crossed, the optional
// tick bound is reached, or the context is cancelled. Stop conditions are
// evaluated only at tick boundaries, never mid-tick.
func (e *Engine) Run(ctx context.Context) model.Result {
	started := time.Now()
	e.state = StateRunning
	var stop model.StopReason
loop:
	for {
		select {
		case <-ctx.Done():
			stop = model.StopCancelled
			break loop
		default:
		}
		if e.pop.TotalDeposits()+e.pop.TotalCoin() > wealthCeiling {
			stop = model.StopCeiling
			break loop
		}
		if e.MaxTicks > 0 && e.tick >= e.MaxTicks {
			stop = model.StopMaxTicks
			break loop
		}
		e.step()
	}
	e.state = StateStopped
	return model.Result{
		Ticks:         e.tick,
		TotalDeposits: e.pop.TotalDeposits(),
		TotalCoin:     e.pop.TotalCoin(),
		Stop:          stop,
		Started:       started,
		Finished:      time.Now(),
		Final:         e.pop.Snapshot(e.tick),
	}
}

// step runs one tick. The phase order is fixed: reallocation must see
// post-transaction balances, and the tracker must run before telemetry.
func (e *Engine) step() {
	e.accrueWages()
	e.runTransactions()
	e.reallocate()
	stats := e.trackBanks()
	e.emit(stats)
	e.tick++
}

func (e *Engine) emit(stats model.TickStats) {
	for _, s := range e.sinks {
		s.OnTick(stats)
	}
	if e.SnapshotEvery > 0 && e.tick%e.SnapshotEvery == 0 {
		snap := e.pop.Snapshot(e.tick)
		for _, s := range e.sinks {
			s.OnSnapshot(snap)
		}
	}
}
