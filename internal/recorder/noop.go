package recorder

import "stablesim/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunMeta) error                   { return nil }
func (n *NoopRecorder) RecordTick(_ string, _ model.TickStats) error { return nil }
func (n *NoopRecorder) FinishRun(_ string, _ *model.Result) error    { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
