// Package fence turns fenced code blocks of a configured language into HTML
// placeholders that a bundled script renders in the browser.
//
// A block such as
//
//	```fence
//	payload
//	```
//
// becomes
//
//	<div class="fence" data-source="&#34;payload\n&#34;" data-fingerprint="..."></div>
//
// and every rewritten chapter links fence.js, fence.mjs and fence.css.
package fence

import (
	"embed"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/bookproc/internal/assets"
	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/config"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
	"git.home.luguber.info/inful/bookproc/internal/logfields"
	"git.home.luguber.info/inful/bookproc/internal/markdown"
	"git.home.luguber.info/inful/bookproc/internal/markup"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
)

// Name is the preprocessor name used in book.toml and as the asset directory.
const Name = "fence"

//go:embed assets/*
var embedded embed.FS

var (
	linkedAssets = assets.MustFromFS(embedded, "assets", "fence.js", "fence.mjs", "fence.css")
	allAssets    = append(append([]assets.Asset{}, linkedAssets...),
		assets.MustFromFS(embedded, "assets", "fence.png")...)
)

func init() {
	preprocess.Register(Factory{})
}

// Options are read from `[preprocessor.fence]`.
type Options struct {
	// Language is the info-string word that selects blocks.
	Language string `yaml:"language"`
	// Class is the class attribute of the emitted element.
	Class string `yaml:"class"`
}

// DefaultOptions returns the options used for keys missing from book.toml.
func DefaultOptions() Options {
	return Options{Language: Name, Class: Name}
}

// Factory builds fence preprocessors.
type Factory struct{}

func (Factory) Name() string { return Name }

// SupportsRenderer limits the preprocessor to the HTML renderer; the output
// is HTML and scripts other renderers cannot use.
func (Factory) SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

func (Factory) Build(ctx *book.Context) (preprocess.Preprocessor, error) {
	opts := DefaultOptions()
	if err := config.DecodeTable(ctx.PreprocessorTable(Name), &opts); err != nil {
		return nil, err
	}
	opts.Language = strings.TrimSpace(opts.Language)
	if opts.Language == "" || strings.ContainsAny(opts.Language, " \t") {
		return nil, errors.ConfigError("fence language must be a single word").
			WithContext("language", opts.Language).
			Build()
	}
	return New(opts), nil
}

// Preprocessor rewrites matching fenced blocks. Safe for concurrent use.
type Preprocessor struct {
	opts     Options
	blocks   atomic.Int64
	chapters atomic.Int64
}

// New returns a preprocessor using opts as given.
func New(opts Options) *Preprocessor {
	return &Preprocessor{opts: opts}
}

func (p *Preprocessor) Replacements(_, content string) ([]markdown.Replacement, error) {
	var reps []markdown.Replacement
	for _, b := range markdown.FencedBlocks([]byte(content)) {
		if b.Language != p.opts.Language {
			continue
		}
		html, err := markup.Div().
			Class(p.opts.Class).
			DataJSON("source", b.Body).
			Data("fingerprint", mdfp.CalculateFingerprintFromParts(b.Info, b.Body)).
			Build()
		if err != nil {
			return nil, err
		}
		reps = append(reps, markdown.Replacement{Span: b.Span, Text: html})
	}
	if len(reps) > 0 {
		p.blocks.Add(int64(len(reps)))
		p.chapters.Add(1)
	}
	return reps, nil
}

func (p *Preprocessor) LinkedAssets() []assets.Asset { return linkedAssets }

func (p *Preprocessor) AllAssets() []assets.Asset { return allAssets }

// Finalize logs how many blocks were rendered.
func (p *Preprocessor) Finalize() error {
	slog.Info("Fenced blocks rendered",
		logfields.Preprocessor(Name),
		slog.Int64("blocks", p.blocks.Load()),
		logfields.Chapters(int(p.chapters.Load())))
	return nil
}

// Rendered returns the number of blocks replaced so far.
func (p *Preprocessor) Rendered() int64 { return p.blocks.Load() }
