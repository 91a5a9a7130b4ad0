package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"stablesim/internal/config"
	"stablesim/internal/engine"
	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/recorder"
	"stablesim/internal/report"
	"stablesim/internal/rng"
)

// Sender delivers run reports to an operator channel.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs batch simulations on a cron schedule and on demand.
// Runs are serialized: a trigger that arrives while a run is active is
// skipped, not queued.
type Scheduler struct {
	Cron     *cron.Cron
	Cfg      *config.Config
	Notifier Sender
	Recorder recorder.Recorder
	Ctx      context.Context

	mu      sync.Mutex
	running bool
	lastID  string
	last    *model.Result
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, sender Sender, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Cfg:      cfg,
		Notifier: sender,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the batch simulation task.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.Cfg.Schedule.BatchCron, s.batchTask); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a simulation run immediately (manual trigger or
// RUN_ON_START).
func (s *Scheduler) RunNow(trigger string) {
	s.runOnce(trigger)
}

func (s *Scheduler) batchTask() {
	s.runOnce("cron")
}

func (s *Scheduler) runOnce(trigger string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Printf("[WARN] run skipped (trigger=%s): another run is in progress", trigger)
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runID := uuid.NewString()
	log.Printf("[INFO] starting run %s (trigger=%s)", runID, trigger)

	rnd := rng.NewSampler(s.Cfg.Run.Seed)
	pop := population.Setup(s.Cfg.Simulation, rnd)
	eng := engine.New(s.Cfg.Simulation, pop, rnd)
	eng.MaxTicks = s.Cfg.Run.MaxTicks
	eng.SnapshotEvery = s.Cfg.Run.SnapshotInterval
	eng.AddSink(&recorder.TickSink{RunID: runID, Rec: s.Recorder})
	if s.Cfg.Run.LogInterval > 0 {
		eng.AddSink(&progressSink{runID: runID, every: s.Cfg.Run.LogInterval})
	}

	if err := s.Recorder.RecordRun(&recorder.RunMeta{
		RunID:   runID,
		Trigger: trigger,
		Seed:    s.Cfg.Run.Seed,
		Params:  s.Cfg.Simulation,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	res := eng.Run(s.Ctx)

	if err := s.Recorder.FinishRun(runID, &res); err != nil {
		log.Printf("[ERROR] finish run: %v", err)
	}

	s.mu.Lock()
	s.lastID = runID
	s.last = &res
	s.mu.Unlock()

	log.Printf("[INFO] run %s finished: %d ticks, stop=%s, deposits=%.2f, coin=%.2f",
		runID, res.Ticks, res.Stop, res.TotalDeposits, res.TotalCoin)
	s.trySend(report.Format(&res))
}

// LastResult returns the most recent finished run, or nil when none
// has completed yet.
func (s *Scheduler) LastResult() (string, *model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastID, s.last
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		s.runOnce("telegram")
		return ""
	case "/status":
		_, last := s.LastResult()
		if last == nil {
			return "No runs recorded yet. Send /run to start one."
		}
		return report.Format(last)
	default:
		return "Available commands:\n• /run - start a simulation run\n• /status - report on the latest run"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

// progressSink logs aggregate totals at a fixed tick interval.
type progressSink struct {
	runID string
	every int
}

func (p *progressSink) OnTick(st model.TickStats) {
	if st.Tick%p.every == 0 {
		log.Printf("[INFO] run %s tick %d: deposits=%.2f coin=%.2f", p.runID, st.Tick, st.TotalDeposits, st.TotalCoin)
	}
}

func (p *progressSink) OnSnapshot(model.Snapshot) {}
