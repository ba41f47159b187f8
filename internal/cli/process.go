package cli

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/config"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
	"git.home.luguber.info/inful/bookproc/internal/logfields"
	"git.home.luguber.info/inful/bookproc/internal/metrics"
	"git.home.luguber.info/inful/bookproc/internal/observability"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
	"git.home.luguber.info/inful/bookproc/internal/version"
)

// ProcessCmd implements the default command: one preprocessing run over stdin.
type ProcessCmd struct{}

// Run executes the process command.
func (p *ProcessCmd) Run(g *Global, root *CLI) error {
	f, err := g.Registry.Get(root.Preprocessor)
	if err != nil {
		return err
	}

	bookCtx, b, err := book.ParseInput(g.Stdin)
	if err != nil {
		return err
	}
	ctx := observability.WithRun(g.Ctx, f.Name())

	compatible, ok := version.CompatibleWith(bookCtx.MdbookVersion)
	if !ok {
		return errors.ProtocolError("unparseable mdBook version").
			WithContext("version", bookCtx.MdbookVersion).
			Build()
	}
	if !compatible {
		observability.WarnContext(ctx, "Preprocessor built against a different mdBook version",
			slog.String("built_against", version.MdbookVersion),
			logfields.Version(bookCtx.MdbookVersion))
	}

	opts, err := config.Load(bookCtx, f.Name())
	if err != nil {
		return err
	}
	root.applyOptions(g, opts)

	if !opts.SupportsRenderer(bookCtx.Renderer) {
		observability.InfoContext(ctx, "Renderer not enabled for preprocessor, passing book through",
			logfields.Renderer(bookCtx.Renderer))
		return book.WriteBook(g.Stdout, b)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if opts.MetricsTextfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	driver := preprocess.NewDriver(f,
		preprocess.WithRecorder(recorder),
		preprocess.WithWorkers(opts.EffectiveWorkers()))
	out, runErr := driver.Run(ctx, bookCtx, b)

	if registry != nil {
		if err := metrics.WriteTextfile(registry, opts.MetricsTextfile); err != nil {
			observability.WarnContext(ctx, "Failed to write metrics", logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	return book.WriteBook(g.Stdout, out)
}
