package metrics

import "time"

// ResultLabel enumerates chapter result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// RunOutcomeLabel is the final status of a preprocessing run.
type RunOutcomeLabel string

const (
	RunOutcomeSuccess  RunOutcomeLabel = "success"
	RunOutcomeFailed   RunOutcomeLabel = "failed"
	RunOutcomeCanceled RunOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for preprocessing runs. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe to
// call concurrently from worker goroutines.
type Recorder interface {
	ObserveChapterDuration(d time.Duration, success bool)
	IncChapterResult(result ResultLabel)
	AddReplacements(n int)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcomeLabel)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveChapterDuration(time.Duration, bool) {}
func (NoopRecorder) IncChapterResult(ResultLabel)               {}
func (NoopRecorder) AddReplacements(int)                        {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) SetWorkers(int)                             {}
