// Package cli is the command-line host for preprocessors: it speaks mdBook's
// stdin/stdout protocol and answers the `supports` handshake.
package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookproc/internal/config"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
	"git.home.luguber.info/inful/bookproc/internal/version"
)

// DefaultPreprocessor runs when --preprocessor is not given.
const DefaultPreprocessor = "fence"

// Global carries the process surroundings into commands.
type Global struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Registry *preprocess.Registry
}

// CLI definition & global flags.
type CLI struct {
	Preprocessor string           `short:"p" env:"BOOKPROC_PREPROCESSOR" default:"${default_preprocessor}" help:"Preprocessor to run (${preprocessors})"`
	Verbose      bool             `short:"v" help:"Enable verbose logging"`
	Version      kong.VersionFlag `name:"version" help:"Show version and exit"`

	Process  ProcessCmd  `cmd:"" default:"1" help:"Read [context, book] JSON from stdin and write the processed book to stdout"`
	Supports SupportsCmd `cmd:"" help:"Exit 0 if the preprocessor supports the renderer, 1 otherwise"`
	List     ListCmd     `cmd:"" help:"List the preprocessors compiled into this binary"`
}

// AfterApply runs after flag parsing; setup logging once.
// Logs go to stderr because stdout carries the processed book.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(g.Stderr, level, config.LogFormatText))
	return nil
}

// applyOptions re-levels the logger once book.toml options are known.
// --verbose always wins.
func (c *CLI) applyOptions(g *Global, opts config.Options) {
	level := opts.LogLevel.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(g.Stderr, level, opts.LogFormat))
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// errUnsupported signals a negative `supports` answer: exit 1, print nothing.
var errUnsupported = stdErrors.New("renderer not supported")

// kongExit carries an exit code requested by kong (help, version) out of the parser.
type kongExit int

// Main parses args, runs the selected command and returns the process exit code.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, reg *preprocess.Registry) (code int) {
	if reg == nil {
		reg = preprocess.DefaultRegistry()
	}
	g := &Global{Ctx: ctx, Stdin: stdin, Stdout: stdout, Stderr: stderr, Registry: reg}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("bookproc"),
		kong.Description("mdBook preprocessor host"),
		kong.Vars{
			"version":              fmt.Sprintf("%s (commit %s, built %s, mdBook %s)", version.Version, version.GitCommit, version.BuildTime, version.MdbookVersion),
			"default_preprocessor": DefaultPreprocessor,
			"preprocessors":        fmt.Sprint(reg.Names()),
		},
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(kongExit(c)) }),
		kong.Bind(g),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "bookproc: %v\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(kongExit)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	err = kctx.Run(g, &cli)
	if err == nil {
		return 0
	}
	if stdErrors.Is(err, errUnsupported) {
		return 1
	}

	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).
		WithOutput(stderr, func(c int) { code = c }).
		HandleError(err)
	return code
}
