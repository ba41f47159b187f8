// Package preprocess drives a chapter-transforming preprocessor over an mdBook
// book: it materializes the preprocessor's assets, collects chapters, computes
// and applies replacements on a bounded worker pool, and links assets into
// every changed chapter with paths relative to the chapter's depth.
package preprocess

import (
	"git.home.luguber.info/inful/bookproc/internal/assets"
	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/markdown"
)

// Factory identifies a preprocessor and builds an instance for one run.
type Factory interface {
	// Name is the preprocessor's identifier. It names the book.toml table
	// (`[preprocessor.<name>]`) and the asset directory under the book source.
	Name() string

	// Build constructs a preprocessor from the host context. A failure aborts
	// the run before any chapter is touched.
	Build(ctx *book.Context) (Preprocessor, error)
}

// Preprocessor computes chapter replacements.
//
// Replacements is called concurrently from several workers, once per
// chapter, so implementations must be safe for concurrent use.
type Preprocessor interface {
	// Replacements returns the spans of content to replace. chapterDir is the
	// absolute directory containing the chapter file. Spans are byte offsets
	// into content and must not overlap.
	Replacements(chapterDir, content string) ([]markdown.Replacement, error)

	// LinkedAssets are referenced from every changed chapter, in order.
	LinkedAssets() []assets.Asset

	// AllAssets are written to the asset directory once per run.
	AllAssets() []assets.Asset
}

// Finalizer is implemented by preprocessors that need a hook after every
// chapter has been processed successfully. It runs exactly once.
type Finalizer interface {
	Finalize() error
}

// RendererFilter is implemented by factories that only support some renderers.
// Factories without it support every renderer.
type RendererFilter interface {
	SupportsRenderer(renderer string) bool
}

// SupportsRenderer answers the host's `supports <renderer>` query for f.
func SupportsRenderer(f Factory, renderer string) bool {
	if rf, ok := f.(RendererFilter); ok {
		return rf.SupportsRenderer(renderer)
	}
	return true
}

// FactoryFunc adapts a name and a build function to Factory.
type FactoryFunc struct {
	ID      string
	BuildFn func(ctx *book.Context) (Preprocessor, error)
}

func (f FactoryFunc) Name() string { return f.ID }

func (f FactoryFunc) Build(ctx *book.Context) (Preprocessor, error) { return f.BuildFn(ctx) }
