package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFencedBlocks_LocatesWholeBlock(t *testing.T) {
	src := "# Title\n\nIntro.\n\n```mermaid\ngraph TD\n  A-->B\n```\n\nOutro.\n"

	blocks := FencedBlocks([]byte(src))
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "mermaid", b.Language)
	assert.Equal(t, "mermaid", b.Info)
	assert.Equal(t, "graph TD\n  A-->B\n", b.Body)
	assert.Equal(t, "```mermaid\ngraph TD\n  A-->B\n```", src[b.Span.Start:b.Span.End])
}

func TestFencedBlocks_InfoAttributes(t *testing.T) {
	src := "~~~rust ignore\nfn main() {}\n~~~\n"

	blocks := FencedBlocks([]byte(src))
	require.Len(t, blocks, 1)
	assert.Equal(t, "rust", blocks[0].Language)
	assert.Equal(t, "rust ignore", blocks[0].Info)
	assert.Equal(t, src[:len(src)-1], src[blocks[0].Span.Start:blocks[0].Span.End])
}

func TestFencedBlocks_EmptyAndUnterminated(t *testing.T) {
	src := "```a\n```\n\ntext\n\n```b\nstill open\n"

	blocks := FencedBlocks([]byte(src))
	require.Len(t, blocks, 2)

	assert.Equal(t, "```a\n```", src[blocks[0].Span.Start:blocks[0].Span.End])
	assert.Empty(t, blocks[0].Body)

	assert.Equal(t, "b", blocks[1].Language)
	assert.Equal(t, "```b\nstill open", src[blocks[1].Span.Start:blocks[1].Span.End])
}

func TestFencedBlocks_SkipsBlocksWithoutInfo(t *testing.T) {
	src := "```\nplain\n```\n\n    indented code\n"
	assert.Empty(t, FencedBlocks([]byte(src)))
}

func TestFencedBlocks_SpansFeedApplyReplacements(t *testing.T) {
	src := "```x\n1\n```\n\nmiddle\n\n```y\n2\n```\n"

	var reps []Replacement
	for _, b := range FencedBlocks([]byte(src)) {
		reps = append(reps, Replacement{Span: b.Span, Text: "<" + b.Language + ">"})
	}

	out, err := ApplyReplacements(src, reps)
	require.NoError(t, err)
	assert.Equal(t, "<x>\n\nmiddle\n\n<y>\n", out)
}

func TestFencedBlocks_ContainerMarkersStayOutsideSpan(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "bullet list item",
			src:  "- item\n- ```fence\n  x\n  ```\n- next\n",
			want: "- item\n- <DIV>\n- next\n",
		},
		{
			name: "ordered list item",
			src:  "1. ```fence\n   y\n   ```\n",
			want: "1. <DIV>\n",
		},
		{
			name: "blockquote",
			src:  "> ```fence\n> x\n> ```\n\nafter\n",
			want: "> <DIV>\n\nafter\n",
		},
		{
			name: "indented top level fence",
			src:  "  ~~~~fence\n  z\n  ~~~~  \n",
			want: "  <DIV>  \n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := FencedBlocks([]byte(tt.src))
			require.Len(t, blocks, 1)
			assert.Equal(t, "fence", blocks[0].Language)

			out, err := ApplyReplacements(tt.src, []Replacement{{Span: blocks[0].Span, Text: "<DIV>"}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
