package book

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// SummaryFile is the outline file mdBook reads from the source directory.
const SummaryFile = "SUMMARY.md"

// LoadBook builds a Book from srcDir/SUMMARY.md and the chapter files it links.
//
// The outline follows mdBook's summary format: an optional title heading,
// unnumbered prefix chapters, numbered chapters as (nested) list items,
// `---` separators, further level-1 headings as part titles, and unnumbered
// suffix chapters. A link with an empty destination is a draft chapter.
func LoadBook(srcDir string) (*Book, error) {
	summaryPath := filepath.Join(srcDir, SummaryFile)
	source, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read summary").
			WithContext("path", summaryPath).
			Fatal().
			Build()
	}

	l := &summaryLoader{srcDir: srcDir, source: source}
	sections, err := l.load()
	if err != nil {
		return nil, err
	}
	return &Book{Sections: sections}, nil
}

type summaryLoader struct {
	srcDir   string
	source   []byte
	sawTitle bool
	top      uint32 // last top-level section number
}

func (l *summaryLoader) load() ([]BookItem, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(l.source))

	var items []BookItem
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Heading:
			title := nodeText(node, l.source)
			if node.Level == 1 && !l.sawTitle && len(items) == 0 {
				l.sawTitle = true
				continue
			}
			items = append(items, PartTitleItem(title))
		case *gmast.ThematicBreak:
			items = append(items, SeparatorItem())
		case *gmast.Paragraph:
			for _, link := range links(node) {
				c, err := l.chapter(link, nil, nil)
				if err != nil {
					return nil, err
				}
				items = append(items, ChapterItem(c))
			}
		case *gmast.List:
			numbered, err := l.list(node, nil, nil)
			if err != nil {
				return nil, err
			}
			items = append(items, numbered...)
		}
	}
	return items, nil
}

func (l *summaryLoader) list(list *gmast.List, parent SectionNumber, parentNames []string) ([]BookItem, error) {
	var items []BookItem
	var local uint32
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		var link *gmast.Link
		var nested *gmast.List
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *gmast.TextBlock, *gmast.Paragraph:
				if ls := links(node); len(ls) > 0 && link == nil {
					link = ls[0]
				}
			case *gmast.List:
				nested = node
			}
		}
		if link == nil {
			continue
		}

		var number SectionNumber
		if parent == nil {
			l.top++
			number = SectionNumber{l.top}
		} else {
			local++
			number = append(append(SectionNumber{}, parent...), local)
		}

		c, err := l.chapter(link, number, parentNames)
		if err != nil {
			return nil, err
		}
		if nested != nil {
			names := append(append([]string{}, parentNames...), c.Name)
			sub, err := l.list(nested, number, names)
			if err != nil {
				return nil, err
			}
			c.SubItems = sub
		}
		items = append(items, ChapterItem(c))
	}
	return items, nil
}

func (l *summaryLoader) chapter(link *gmast.Link, number SectionNumber, parentNames []string) (*Chapter, error) {
	name := nodeText(link, l.source)
	dest := strings.TrimSpace(string(link.Destination))

	c := &Chapter{
		Name:        name,
		Number:      number,
		ParentNames: append([]string{}, parentNames...),
	}
	if dest == "" {
		return c, nil
	}

	rel := path.Clean(dest)
	content, err := os.ReadFile(filepath.Join(l.srcDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read chapter").
			WithContext("chapter", rel).
			Fatal().
			Build()
	}
	c.Path = &rel
	c.SourcePath = &rel
	c.Content = string(content)
	return c, nil
}

// links returns the links directly inside an inline container.
func links(n gmast.Node) []*gmast.Link {
	var out []*gmast.Link
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if link, ok := c.(*gmast.Link); ok {
			out = append(out, link)
		}
	}
	return out
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
