package book

import (
	"path/filepath"
)

// DefaultSourceDir is mdBook's default for book.src.
const DefaultSourceDir = "src"

// Context is the preprocessor context mdBook sends alongside the book.
type Context struct {
	// Root is the directory containing book.toml.
	Root string `json:"root"`

	// Config is book.toml as a generic tree.
	Config map[string]any `json:"config"`

	// Renderer names the backend this run feeds (e.g. "html").
	Renderer string `json:"renderer"`

	// MdbookVersion is the version of the calling mdBook.
	MdbookVersion string `json:"mdbook_version"`
}

// SourceDir returns the absolute-or-root-relative book source directory,
// i.e. Root joined with book.src.
func (c *Context) SourceDir() string {
	src := DefaultSourceDir
	if s, ok := lookupString(c.Config, "book", "src"); ok && s != "" {
		src = s
	}
	if filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(c.Root, src)
}

// Title returns book.title, or an empty string.
func (c *Context) Title() string {
	s, _ := lookupString(c.Config, "book", "title")
	return s
}

// PreprocessorTable returns the [preprocessor.<name>] table, or nil when the
// book does not configure the preprocessor.
func (c *Context) PreprocessorTable(name string) map[string]any {
	pre, ok := c.Config["preprocessor"].(map[string]any)
	if !ok {
		return nil
	}
	table, _ := pre[name].(map[string]any)
	return table
}

func lookupString(tree map[string]any, keys ...string) (string, bool) {
	var cur any = tree
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur = m[k]
	}
	s, ok := cur.(string)
	return s, ok
}
