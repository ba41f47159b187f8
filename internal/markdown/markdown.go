package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FencedBlock is a fenced code block located in a chapter body.
type FencedBlock struct {
	// Span covers the opening fence run through the closing fence run. Container
	// markers before the opening fence and anything after the closing run are
	// outside it.
	Span Span

	// Info is the full info string after the opening fence.
	Info string

	// Language is the first word of Info.
	Language string

	// Body is the raw block content without the fences.
	Body string
}

// FencedBlocks parses a Markdown body and returns every fenced code block that
// carries an info string, in document order.
//
// This is an analysis API; it does not re-render Markdown. Blocks without an
// info string are ignored because nothing can address them by language.
func FencedBlocks(source []byte) []FencedBlock {
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	blocks := make([]FencedBlock, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fcb, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if fcb.Info == nil {
			return gmast.WalkSkipChildren, nil
		}
		blocks = append(blocks, fencedBlock(source, fcb))
		return gmast.WalkSkipChildren, nil
	})
	return blocks
}

func fencedBlock(source []byte, fcb *gmast.FencedCodeBlock) FencedBlock {
	infoSeg := fcb.Info.Segment
	info := strings.TrimSpace(string(infoSeg.Value(source)))

	start := openingFence(source, infoSeg.Start)
	next := lineEnd(source, infoSeg.Start) + 1

	var body strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		body.Write(seg.Value(source))
		next = seg.Stop
	}

	end := min(next, len(source))
	if next < len(source) {
		if closeEnd, ok := closingFence(source[next:lineEnd(source, next)]); ok {
			end = next + closeEnd
		}
	}
	// An unterminated block stops at its last content line, newline excluded.
	if end > start && source[end-1] == '\n' && end <= next {
		end--
	}

	return FencedBlock{
		Span:     Span{Start: start, End: end},
		Info:     info,
		Language: firstWord(info),
		Body:     body.String(),
	}
}

// openingFence walks back from the info string over its padding and the fence
// run, so list and blockquote markers before the fence stay outside the span.
func openingFence(src []byte, info int) int {
	i := info
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i == 0 || (src[i-1] != '`' && src[i-1] != '~') {
		return i
	}
	c := src[i-1]
	for i > 0 && src[i-1] == c {
		i--
	}
	return i
}

// closingFence reports the offset just past the fence run on line, when line
// is a closing fence behind optional indentation or blockquote markers.
func closingFence(line []byte) (int, bool) {
	i := len(line) - len(bytes.TrimLeft(line, " >\t"))
	if i == len(line) || (line[i] != '`' && line[i] != '~') {
		return 0, false
	}
	c := line[i]
	j := i
	for j < len(line) && line[j] == c {
		j++
	}
	if j-i < 3 {
		return 0, false
	}
	return j, true
}

func lineEnd(src []byte, i int) int {
	if i >= len(src) {
		return len(src)
	}
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(src)
}

func firstWord(info string) string {
	if i := strings.IndexAny(info, " \t{,"); i >= 0 {
		return info[:i]
	}
	return info
}
