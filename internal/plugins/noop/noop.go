// Package noop is the smallest possible preprocessor: it changes nothing and
// ships no assets. It is useful to check a book.toml wiring end to end.
package noop

import (
	"git.home.luguber.info/inful/bookproc/internal/assets"
	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/markdown"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
)

// Name is the preprocessor name used in book.toml.
const Name = "noop"

func init() {
	preprocess.Register(Factory{})
}

// Factory builds the noop preprocessor.
type Factory struct{}

func (Factory) Name() string { return Name }

func (Factory) Build(*book.Context) (preprocess.Preprocessor, error) {
	return Preprocessor{}, nil
}

// Preprocessor returns no replacements.
type Preprocessor struct{}

func (Preprocessor) Replacements(string, string) ([]markdown.Replacement, error) { return nil, nil }
func (Preprocessor) LinkedAssets() []assets.Asset                             { return nil }
func (Preprocessor) AllAssets() []assets.Asset                                { return nil }
