// Package metrics records preprocessing run metrics.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default, so callers never need nil checks:
//
//	driver := preprocess.NewDriver(factory) // records nothing
//
// When a metrics textfile is configured the CLI swaps in a PrometheusRecorder
// bound to a private registry and writes that registry in node_exporter
// textfile format once the run completes:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	driver := preprocess.NewDriver(factory, preprocess.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(reg, "/var/lib/node_exporter/bookproc.prom")
//
// A preprocessor runs as a short-lived child process of mdBook, so there is
// no scrape endpoint; the textfile collector picks the file up instead.
package metrics
