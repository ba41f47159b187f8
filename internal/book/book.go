// Package book models the document tree exchanged with mdBook.
//
// The JSON encoding matches what mdBook hands a preprocessor on stdin and
// expects back on stdout: a book is a list of sections, and each section is a
// chapter, a separator, or a part title.
package book

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Book is the root of the document tree.
type Book struct {
	Sections []BookItem
}

type bookJSON struct {
	Sections      []BookItem      `json:"sections"`
	NonExhaustive json.RawMessage `json:"__non_exhaustive"`
}

// MarshalJSON always emits the non-exhaustive marker mdBook's decoder expects.
func (b Book) MarshalJSON() ([]byte, error) {
	sections := b.Sections
	if sections == nil {
		sections = []BookItem{}
	}
	return json.Marshal(bookJSON{Sections: sections, NonExhaustive: json.RawMessage("null")})
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var raw bookJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Sections = raw.Sections
	return nil
}

// Walk visits every chapter depth-first in document order, parents before
// their sub-items. Returning false from fn stops descent into that chapter's
// sub-items.
func (b *Book) Walk(fn func(c *Chapter) bool) {
	walkItems(b.Sections, fn)
}

func walkItems(items []BookItem, fn func(c *Chapter) bool) {
	for i := range items {
		c := items[i].Chapter
		if c == nil {
			continue
		}
		if fn(c) {
			walkItems(c.SubItems, fn)
		}
	}
}

// ItemKind discriminates the variants of BookItem.
type ItemKind int

const (
	KindChapter ItemKind = iota
	KindSeparator
	KindPartTitle
)

// BookItem is one entry of a book or of a chapter's sub-items.
//
// Exactly one variant is populated: Chapter is non-nil for chapters, Separator
// is true for separators, otherwise the item is a part title.
type BookItem struct {
	Chapter   *Chapter
	Separator bool
	PartTitle string
}

// ChapterItem wraps a chapter as a book item.
func ChapterItem(c *Chapter) BookItem { return BookItem{Chapter: c} }

// SeparatorItem returns a separator item.
func SeparatorItem() BookItem { return BookItem{Separator: true} }

// PartTitleItem returns a part title item.
func PartTitleItem(title string) BookItem { return BookItem{PartTitle: title} }

// Kind reports which variant the item holds.
func (it BookItem) Kind() ItemKind {
	switch {
	case it.Chapter != nil:
		return KindChapter
	case it.Separator:
		return KindSeparator
	default:
		return KindPartTitle
	}
}

func (it BookItem) MarshalJSON() ([]byte, error) {
	switch it.Kind() {
	case KindChapter:
		return json.Marshal(struct {
			Chapter *Chapter `json:"Chapter"`
		}{it.Chapter})
	case KindSeparator:
		return []byte(`"Separator"`), nil
	default:
		return json.Marshal(struct {
			PartTitle string `json:"PartTitle"`
		}{it.PartTitle})
	}
}

func (it *BookItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return err
		}
		if tag != "Separator" {
			return fmt.Errorf("unknown book item %q", tag)
		}
		*it = SeparatorItem()
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("book item must have exactly one variant, got %d", len(raw))
	}
	if v, ok := raw["Chapter"]; ok {
		var c Chapter
		if err := json.Unmarshal(v, &c); err != nil {
			return fmt.Errorf("chapter: %w", err)
		}
		*it = ChapterItem(&c)
		return nil
	}
	if v, ok := raw["PartTitle"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return fmt.Errorf("part title: %w", err)
		}
		*it = PartTitleItem(title)
		return nil
	}
	for k := range raw {
		return fmt.Errorf("unknown book item %q", k)
	}
	return nil
}

// SectionNumber is a chapter's position in the numbered outline, e.g. 1.2.3.
// A nil SectionNumber marks an unnumbered (prefix or suffix) chapter.
type SectionNumber []uint32

func (n SectionNumber) String() string {
	var b bytes.Buffer
	for _, part := range n {
		fmt.Fprintf(&b, "%d.", part)
	}
	return b.String()
}

// Chapter is a node of the document tree.
//
// Path is relative to the book's source directory. Draft chapters have no
// path and act as grouping nodes only.
type Chapter struct {
	Name        string        `json:"name"`
	Content     string        `json:"content"`
	Number      SectionNumber `json:"number"`
	SubItems    []BookItem    `json:"sub_items"`
	Path        *string       `json:"path"`
	SourcePath  *string       `json:"source_path"`
	ParentNames []string      `json:"parent_names"`
}

// NewChapter returns a chapter with its path and source path set to path.
func NewChapter(name, content, path string) *Chapter {
	return &Chapter{
		Name:       name,
		Content:    content,
		Path:       &path,
		SourcePath: &path,
	}
}

// IsDraft reports whether the chapter lacks a source path.
func (c *Chapter) IsDraft() bool {
	return c.Path == nil || *c.Path == ""
}

func (c Chapter) MarshalJSON() ([]byte, error) {
	type plain Chapter
	if c.SubItems == nil {
		c.SubItems = []BookItem{}
	}
	if c.ParentNames == nil {
		c.ParentNames = []string{}
	}
	return json.Marshal(plain(c))
}
