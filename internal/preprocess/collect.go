package preprocess

import (
	"path/filepath"

	"git.home.luguber.info/inful/bookproc/internal/book"
)

// ChapterHandle is one chapter scheduled for processing.
//
// Content points at the chapter's own Content field, so a worker holding the
// handle mutates the book in place and no two handles share a buffer.
type ChapterHandle struct {
	Path    string  // chapter path relative to the source directory
	Dir     string  // absolute directory containing the chapter file
	Content *string // the chapter's text
}

// CollectChapters walks items depth-first in document order and returns a
// handle for every chapter with a path. Chapters without a path (drafts) are
// grouping nodes: their children are visited but they are not collected.
func CollectChapters(srcDir string, items []book.BookItem) []ChapterHandle {
	var out []ChapterHandle
	collect(srcDir, items, &out)
	return out
}

func collect(srcDir string, items []book.BookItem, out *[]ChapterHandle) {
	for i := range items {
		c := items[i].Chapter
		if c == nil {
			continue
		}
		if c.Path != nil && *c.Path != "" {
			abs := filepath.Join(srcDir, filepath.FromSlash(*c.Path))
			*out = append(*out, ChapterHandle{
				Path:    *c.Path,
				Dir:     filepath.Dir(abs),
				Content: &c.Content,
			})
		}
		collect(srcDir, c.SubItems, out)
	}
}
