package recorder

import (
	"log"

	"stablesim/internal/model"
)

// RunMeta describes one simulation run at start time.
type RunMeta struct {
	RunID   string
	Trigger string // "cli", "cron", "startup" or "telegram"
	Seed    int64
	Params  model.Params
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(meta *RunMeta) error
	RecordTick(runID string, stats model.TickStats) error
	FinishRun(runID string, res *model.Result) error
	Close() error
}

// TickSink adapts a Recorder into a telemetry sink for one run. Recording
// failures are logged and swallowed so a broken disk never stops a run.
type TickSink struct {
	RunID string
	Rec   Recorder
}

func (s *TickSink) OnTick(stats model.TickStats) {
	if err := s.Rec.RecordTick(s.RunID, stats); err != nil {
		log.Printf("[ERROR] record tick %d: %v", stats.Tick, err)
	}
}

func (s *TickSink) OnSnapshot(model.Snapshot) {}
