package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveChapterDuration(time.Millisecond, true)
	r.IncChapterResult(ResultSuccess)
	r.AddReplacements(3)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(RunOutcomeSuccess)
	r.SetWorkers(2)
}
