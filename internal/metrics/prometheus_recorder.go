package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

const namespace = "bookproc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	chapterDuration *prom.HistogramVec
	chapterResults  *prom.CounterVec
	replacements    prom.Counter
	runDuration     prom.Histogram
	runOutcome      *prom.CounterVec
	workers         prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.chapterDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "chapter_duration_seconds",
			Help:      "Duration of processing a single chapter",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"result"})
		pr.chapterResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "chapter_results_total",
			Help:      "Chapter result counts by outcome",
		}, []string{"result"})
		pr.replacements = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "replacements_applied_total",
			Help:      "Replacements spliced into chapter content",
		})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total preprocessing run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Preprocessing runs by final status",
		}, []string{"outcome"})
		pr.workers = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker goroutines used by the last run",
		})
		reg.MustRegister(pr.chapterDuration, pr.chapterResults, pr.replacements, pr.runDuration, pr.runOutcome, pr.workers)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveChapterDuration(d time.Duration, success bool) {
	if p == nil || p.chapterDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.chapterDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncChapterResult(result ResultLabel) {
	if p == nil || p.chapterResults == nil {
		return
	}
	p.chapterResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddReplacements(n int) {
	if p == nil || p.replacements == nil || n <= 0 {
		return
	}
	p.replacements.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil || p.workers == nil {
		return
	}
	p.workers.Set(float64(n))
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format read by node_exporter's textfile collector.
func WriteTextfile(g prom.Gatherer, path string) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}
