package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveChapterDuration(3*time.Millisecond, true)
	pr.IncChapterResult(ResultSuccess)
	pr.IncChapterResult(ResultSuccess)
	pr.IncChapterResult(ResultSkipped)
	pr.AddReplacements(4)
	pr.AddReplacements(0)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(RunOutcomeSuccess)
	pr.SetWorkers(8)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.chapterResults.WithLabelValues(string(ResultSuccess))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.chapterResults.WithLabelValues(string(ResultSkipped))), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.replacements), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(pr.workers), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.runOutcome.WithLabelValues(string(RunOutcomeSuccess))), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveChapterDuration(time.Second, false)
		pr.IncChapterResult(ResultFailed)
		pr.AddReplacements(1)
		pr.ObserveRunDuration(time.Second)
		pr.IncRunOutcome(RunOutcomeFailed)
		pr.SetWorkers(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(RunOutcomeFailed)

	path := filepath.Join(t.TempDir(), "bookproc.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `bookproc_run_outcomes_total{outcome="failed"} 1`), string(data))
}
