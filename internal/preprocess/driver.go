package preprocess

import (
	"context"
	"runtime"
	"sync"
	"time"

	"git.home.luguber.info/inful/bookproc/internal/assets"
	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
	"git.home.luguber.info/inful/bookproc/internal/logfields"
	"git.home.luguber.info/inful/bookproc/internal/markdown"
	"git.home.luguber.info/inful/bookproc/internal/metrics"
	"git.home.luguber.info/inful/bookproc/internal/observability"
)

// Stage names used in log context.
const (
	StageBuild       = "build"
	StageMaterialize = "materialize"
	StageChapters    = "chapters"
	StageFinalize    = "finalize"
)

// Driver runs one Factory's preprocessor over a book.
type Driver struct {
	factory  Factory
	recorder metrics.Recorder
	workers  int
}

// Option configures a Driver.
type Option func(*Driver)

// WithRecorder sets the metrics recorder. A nil recorder is ignored.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Driver) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithWorkers bounds the worker pool. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Driver) { d.workers = n }
}

// NewDriver creates a driver for f.
func NewDriver(f Factory, opts ...Option) *Driver {
	d := &Driver{factory: f, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the preprocessor name.
func (d *Driver) Name() string { return d.factory.Name() }

// SupportsRenderer answers the host's renderer query without running anything.
func (d *Driver) SupportsRenderer(renderer string) bool {
	return SupportsRenderer(d.factory, renderer)
}

// run holds the state shared by the workers of one Run.
type run struct {
	name   string
	srcDir string
	pre    Preprocessor
	linked []assets.Asset
	rec    metrics.Recorder
}

// Run processes every chapter of b and returns it with chapter content
// rewritten. The book is mutated in place.
//
// Chapters are processed concurrently. The first failure stops dispatching
// further chapters and is returned; chapters already finished keep their new
// content. Cancelling ctx also stops dispatch, but calls already inside the
// preprocessor run to completion. On success the preprocessor's Finalize runs
// exactly once, after every worker has exited.
func (d *Driver) Run(ctx context.Context, bookCtx *book.Context, b *book.Book) (*book.Book, error) {
	name := d.factory.Name()
	if !observability.HasContextValue(ctx, "run.id") {
		ctx = observability.WithRun(ctx, name)
	}
	start := time.Now()

	out, err := d.run(ctx, bookCtx, b)

	d.recorder.ObserveRunDuration(time.Since(start))
	switch {
	case err == nil:
		d.recorder.IncRunOutcome(metrics.RunOutcomeSuccess)
		observability.InfoContext(ctx, "Preprocessing complete",
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	case ctx.Err() != nil:
		d.recorder.IncRunOutcome(metrics.RunOutcomeCanceled)
	default:
		d.recorder.IncRunOutcome(metrics.RunOutcomeFailed)
	}
	return out, err
}

func (d *Driver) run(ctx context.Context, bookCtx *book.Context, b *book.Book) (*book.Book, error) {
	name := d.factory.Name()
	if bookCtx == nil || b == nil {
		return nil, errors.InternalError("preprocessor run without context or book").
			WithContext("preprocessor", name).
			Build()
	}
	srcDir := bookCtx.SourceDir()

	pre, err := d.factory.Build(bookCtx)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "build preprocessor").
			WithContext("preprocessor", name).
			Fatal().
			Build()
	}

	observability.DebugContext(observability.WithStage(ctx, StageMaterialize), "Writing assets",
		logfields.Path(srcDir))
	if err := assets.Materialize(name, pre.AllAssets(), srcDir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "materialize assets").
			WithContext("preprocessor", name).
			Fatal().
			Build()
	}

	chapters := CollectChapters(srcDir, b.Sections)
	r := &run{name: name, srcDir: srcDir, pre: pre, linked: pre.LinkedAssets(), rec: d.recorder}
	if err := d.process(observability.WithStage(ctx, StageChapters), r, chapters); err != nil {
		return nil, err
	}

	if f, ok := pre.(Finalizer); ok {
		observability.DebugContext(observability.WithStage(ctx, StageFinalize), "Finalizing")
		if err := f.Finalize(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryTransform, "finalize preprocessor").
				WithContext("preprocessor", name).
				Fatal().
				Build()
		}
	}
	return b, nil
}

// process runs chapters on a fixed pool of workers fed by an unbuffered channel.
// Chapters skipped after a failure or cancellation count as canceled.
func (d *Driver) process(ctx context.Context, r *run, chapters []ChapterHandle) error {
	if len(chapters) == 0 {
		return nil
	}
	workers := d.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(chapters))
	r.rec.SetWorkers(workers)
	observability.DebugContext(ctx, "Processing chapters",
		logfields.Chapters(len(chapters)), logfields.Workers(workers))

	tasks := make(chan ChapterHandle)
	failed := make(chan struct{})
	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			close(failed)
		})
	}

	worker := func() {
		defer wg.Done()
		for h := range tasks {
			select {
			case <-failed:
				r.rec.IncChapterResult(metrics.ResultCanceled)
				continue
			default:
			}
			if err := r.chapter(ctx, h); err != nil {
				fail(err)
			}
		}
	}
	wg.Add(workers)
	for range workers {
		go worker()
	}

	canceled := func() {
		fail(errors.WrapError(ctx.Err(), errors.CategoryRuntime, "preprocessing canceled").
			WithContext("preprocessor", r.name).
			Build())
	}

	sent := 0
dispatch:
	for _, h := range chapters {
		if ctx.Err() != nil {
			canceled()
			break
		}
		select {
		case <-failed:
			break dispatch
		case <-ctx.Done():
			canceled()
			break dispatch
		case tasks <- h:
			sent++
		}
	}
	close(tasks)
	wg.Wait()
	for range chapters[sent:] {
		r.rec.IncChapterResult(metrics.ResultCanceled)
	}
	return firstErr
}

// chapter runs the full pipeline for one chapter: compute replacements,
// splice them, then link assets. Chapters without replacements are untouched.
func (r *run) chapter(ctx context.Context, h ChapterHandle) error {
	start := time.Now()
	n, err := r.rewrite(h)
	r.rec.ObserveChapterDuration(time.Since(start), err == nil)

	switch {
	case err != nil:
		r.rec.IncChapterResult(metrics.ResultFailed)
		observability.ErrorContext(observability.WithChapter(ctx, h.Path), "Chapter failed", logfields.Error(err))
	case n == 0:
		r.rec.IncChapterResult(metrics.ResultSkipped)
	default:
		r.rec.IncChapterResult(metrics.ResultSuccess)
		r.rec.AddReplacements(n)
		observability.DebugContext(observability.WithChapter(ctx, h.Path), "Chapter rewritten",
			logfields.Replacements(n))
	}
	return err
}

func (r *run) rewrite(h ChapterHandle) (int, error) {
	reps, err := r.pre.Replacements(h.Dir, *h.Content)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryTransform, "compute replacements").
			WithContext("preprocessor", r.name).
			WithContext("chapter", h.Path).
			Fatal().
			Build()
	}
	if len(reps) == 0 {
		return 0, nil
	}

	out, err := markdown.ApplyReplacements(*h.Content, reps)
	if err != nil {
		return 0, chapterContext(err, r.name, h.Path)
	}
	depth, err := ChapterDepth(r.srcDir, h.Dir)
	if err != nil {
		return 0, chapterContext(err, r.name, h.Path)
	}

	*h.Content = AppendLinks(out, depth, r.name, r.linked)
	return len(reps), nil
}

// chapterContext attaches chapter context to an already classified error.
func chapterContext(err error, name, chapter string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("preprocessor", name).WithContext("chapter", chapter)
	}
	return errors.WrapError(err, errors.CategoryInternal, "process chapter").
		WithContext("preprocessor", name).
		WithContext("chapter", chapter).
		Build()
}
