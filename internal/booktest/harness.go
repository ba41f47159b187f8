// Package booktest runs preprocessors against a real book on disk, through
// the same JSON exchange mdBook uses.
package booktest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
	"git.home.luguber.info/inful/bookproc/internal/version"
)

// DefaultSummary and DefaultChapter mirror what `mdbook init` writes.
const (
	DefaultSummary = "# Summary\n\n- [Chapter 1](./chapter_1.md)\n"
	DefaultChapter = "# Chapter 1\n"
)

// Harness is a temporary book with the default mdbook init layout:
// book.toml plus src/SUMMARY.md and src/chapter_1.md.
type Harness struct {
	t   testing.TB
	Dir string
}

// New creates the book in a fresh temporary directory.
func New(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{t: t, Dir: t.TempDir()}
	h.WriteFile("book.toml", "[book]\ntitle = \"Test Book\"\nsrc = \"src\"\n")
	h.WriteSource(book.SummaryFile, DefaultSummary)
	h.WriteSource("chapter_1.md", DefaultChapter)
	return h
}

// SrcDir returns the absolute source directory.
func (h *Harness) SrcDir() string {
	return filepath.Join(h.Dir, book.DefaultSourceDir)
}

// WriteFile writes a file relative to the book root.
func (h *Harness) WriteFile(rel, content string) {
	h.t.Helper()
	path := filepath.Join(h.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		h.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSource writes a file relative to the source directory.
func (h *Harness) WriteSource(rel, content string) {
	h.t.Helper()
	h.WriteFile(filepath.ToSlash(filepath.Join(book.DefaultSourceDir, rel)), content)
}

// Context returns the context mdBook would send for the html renderer with
// cfg as the preprocessor's table.
func (h *Harness) Context(name string, cfg map[string]any) *book.Context {
	if cfg == nil {
		cfg = map[string]any{}
	}
	return &book.Context{
		Root: h.Dir,
		Config: map[string]any{
			"book": map[string]any{
				"authors":  []any{},
				"language": "en",
				"src":      book.DefaultSourceDir,
				"title":    "Test Book",
			},
			"preprocessor": map[string]any{name: cfg},
		},
		Renderer:      "html",
		MdbookVersion: version.MdbookVersion,
	}
}

// Input renders the stdin payload mdBook would send.
func (h *Harness) Input(name string, cfg map[string]any) ([]byte, error) {
	b, err := book.LoadBook(h.SrcDir())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := book.EncodeInput(&buf, h.Context(name, cfg), b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compile loads the book, serializes it as mdBook would, parses it back and
// runs f over it. The returned book has also survived a WriteBook round trip.
func (h *Harness) Compile(f preprocess.Factory, cfg map[string]any, opts ...preprocess.Option) (*book.Book, error) {
	input, err := h.Input(f.Name(), cfg)
	if err != nil {
		return nil, err
	}
	ctx, b, err := book.ParseInput(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	out, err := preprocess.NewDriver(f, opts...).Run(context.Background(), ctx, b)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := book.WriteBook(&buf, out); err != nil {
		return nil, err
	}
	var processed book.Book
	if err := processed.UnmarshalJSON(buf.Bytes()); err != nil {
		return nil, err
	}
	return &processed, nil
}

// MustCompile is Compile failing the test on error.
func (h *Harness) MustCompile(f preprocess.Factory, cfg map[string]any, opts ...preprocess.Option) *book.Book {
	h.t.Helper()
	b, err := h.Compile(f, cfg, opts...)
	if err != nil {
		h.t.Fatalf("compile with %s: %v", f.Name(), err)
	}
	return b
}

// Chapter returns the content of the chapter at path, failing the test when
// the book has no such chapter.
func Chapter(t testing.TB, b *book.Book, path string) string {
	t.Helper()
	var content string
	found := false
	b.Walk(func(c *book.Chapter) bool {
		if c.Path != nil && *c.Path == path {
			content, found = c.Content, true
			return false
		}
		return true
	})
	if !found {
		t.Fatalf("chapter %s not found", path)
	}
	return content
}
