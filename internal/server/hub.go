package server

import (
	"context"
	"errors"
	"sync"

	"stablesim/internal/config"
	"stablesim/internal/engine"
	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/rng"
)

// Phase is the lifecycle state of the interactive simulation.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseReady   Phase = "READY"
	PhaseRunning Phase = "RUNNING"
	PhaseDone    Phase = "DONE"
)

var (
	ErrNoSimulation  = errors.New("no simulation configured, call setup first")
	ErrRunInProgress = errors.New("a run is already in progress")
	ErrNotRunning    = errors.New("no run in progress")
)

// SetupRequest re-initializes the simulation. Omitted fields fall back
// to the loaded config.
type SetupRequest struct {
	Simulation    *model.Params `json:"simulation"`
	Seed          *int64        `json:"seed"`
	MaxTicks      *int          `json:"max_ticks"`
	SnapshotEvery *int          `json:"snapshot_every"`
}

// StatusResponse is the scalar view of the current simulation.
type StatusResponse struct {
	Phase         Phase   `json:"phase"`
	Tick          int     `json:"tick"`
	Households    int     `json:"households"`
	Banks         int     `json:"banks"`
	Seed          int64   `json:"seed"`
	MaxTicks      int     `json:"max_ticks"`
	TotalDeposits float64 `json:"total_deposits"`
	TotalCoin     float64 `json:"total_coin"`
	Stop          string  `json:"stop_reason,omitempty"`
}

// TotalsResponse is the cheap polling target for live charts.
type TotalsResponse struct {
	Phase         Phase   `json:"phase"`
	Tick          int     `json:"tick"`
	TotalDeposits float64 `json:"total_deposits"`
	TotalCoin     float64 `json:"total_coin"`
}

// Hub owns one interactive simulation and the goroutine driving it. All
// reads are served from copies updated through the telemetry sink, so
// the engine itself is only ever touched by the driver goroutine.
type Hub struct {
	cfg *config.Config
	ws  *wsHub

	mu       sync.Mutex
	phase    Phase
	params   model.Params
	seed     int64
	maxTicks int

	eng    *engine.Engine
	cancel context.CancelFunc
	done   chan struct{}

	series        []model.TickStats
	snapshot      *model.Snapshot
	result        *model.Result
	ticksDone     int
	totalDeposits float64
	totalCoin     float64
}

// NewHub creates a Hub with nothing configured yet.
func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		cfg:   cfg,
		ws:    newWSHub(),
		phase: PhaseIdle,
	}
}

// Setup builds a fresh population and engine. It refuses while a run is
// in progress; any earlier series, snapshot, and result are discarded.
func (h *Hub) Setup(req SetupRequest) (StatusResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase == PhaseRunning {
		return StatusResponse{}, ErrRunInProgress
	}

	params := h.cfg.Simulation
	if req.Simulation != nil {
		params = *req.Simulation
	}
	if err := params.Validate(); err != nil {
		return StatusResponse{}, err
	}

	seed := h.cfg.Run.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	maxTicks := h.cfg.Run.MaxTicks
	if req.MaxTicks != nil {
		maxTicks = *req.MaxTicks
	}
	snapEvery := h.cfg.Run.SnapshotInterval
	if req.SnapshotEvery != nil {
		snapEvery = *req.SnapshotEvery
	}
	// The snapshot endpoint serves the latest sink-delivered copy, so
	// the interactive engine always snapshots.
	if snapEvery <= 0 {
		snapEvery = 1
	}

	rnd := rng.NewSampler(seed)
	pop := population.Setup(params, rnd)
	eng := engine.New(params, pop, rnd)
	eng.MaxTicks = maxTicks
	eng.SnapshotEvery = snapEvery
	eng.AddSink(h)

	h.params = params
	h.seed = seed
	h.maxTicks = maxTicks
	h.eng = eng
	h.series = nil
	h.result = nil
	h.ticksDone = 0
	h.totalDeposits = pop.TotalDeposits()
	h.totalCoin = pop.TotalCoin()
	snap := pop.Snapshot(0)
	h.snapshot = &snap
	h.phase = PhaseReady

	return h.statusLocked(), nil
}

// Go starts (or, after a halt, resumes) the driver goroutine.
func (h *Hub) Go() (StatusResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eng == nil {
		return StatusResponse{}, ErrNoSimulation
	}
	if h.phase == PhaseRunning {
		return StatusResponse{}, ErrRunInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done

	eng := h.eng
	go func() {
		res := eng.Run(ctx)
		h.mu.Lock()
		h.result = &res
		h.snapshot = &res.Final
		h.ticksDone = res.Ticks
		h.totalDeposits = res.TotalDeposits
		h.totalCoin = res.TotalCoin
		h.phase = PhaseDone
		h.mu.Unlock()
		h.ws.broadcastFinished(&res)
		close(done)
	}()

	h.phase = PhaseRunning
	return h.statusLocked(), nil
}

// Halt cancels the driver goroutine and waits for it to settle.
func (h *Hub) Halt() (StatusResponse, error) {
	h.mu.Lock()
	if h.phase != PhaseRunning {
		h.mu.Unlock()
		return StatusResponse{}, ErrNotRunning
	}
	cancel, done := h.cancel, h.done
	h.mu.Unlock()

	cancel()
	<-done

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statusLocked(), nil
}

// Close halts any running simulation. Used on server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.phase != PhaseRunning {
		h.mu.Unlock()
		return
	}
	cancel, done := h.cancel, h.done
	h.mu.Unlock()

	cancel()
	<-done
}

// Status returns the scalar view of the simulation.
func (h *Hub) Status() StatusResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statusLocked()
}

// Totals returns the latest aggregate readout.
func (h *Hub) Totals() TotalsResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return TotalsResponse{
		Phase:         h.phase,
		Tick:          h.ticksDone,
		TotalDeposits: h.totalDeposits,
		TotalCoin:     h.totalCoin,
	}
}

// Series returns a copy of the per-tick totals recorded so far.
func (h *Hub) Series() []model.TickStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.TickStats, len(h.series))
	copy(out, h.series)
	return out
}

// Snapshot returns the latest agent-level snapshot.
func (h *Hub) Snapshot() (*model.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snapshot == nil {
		return nil, ErrNoSimulation
	}
	cp := *h.snapshot
	return &cp, nil
}

// Result returns the finished run, or nil while none has completed.
func (h *Hub) Result() *model.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *Hub) statusLocked() StatusResponse {
	st := StatusResponse{
		Phase:         h.phase,
		Tick:          h.ticksDone,
		Households:    h.params.Households,
		Banks:         h.params.Banks,
		Seed:          h.seed,
		MaxTicks:      h.maxTicks,
		TotalDeposits: h.totalDeposits,
		TotalCoin:     h.totalCoin,
	}
	if h.result != nil {
		st.Stop = string(h.result.Stop)
	}
	return st
}

// OnTick implements the engine sink. It runs on the driver goroutine.
func (h *Hub) OnTick(st model.TickStats) {
	h.mu.Lock()
	h.series = append(h.series, st)
	h.ticksDone = st.Tick + 1
	h.totalDeposits = st.TotalDeposits
	h.totalCoin = st.TotalCoin
	h.mu.Unlock()

	h.ws.broadcastTick(st)
}

// OnSnapshot implements the engine sink.
func (h *Hub) OnSnapshot(snap model.Snapshot) {
	h.mu.Lock()
	h.snapshot = &snap
	h.mu.Unlock()
}
