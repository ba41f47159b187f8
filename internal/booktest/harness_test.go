package booktest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookproc/internal/booktest"
	"git.home.luguber.info/inful/bookproc/internal/plugins/noop"
)

func TestHarness_DefaultBook(t *testing.T) {
	h := booktest.New(t)
	h.Files().
		AssertFileExists("SUMMARY.md").
		AssertFileContains("chapter_1.md", "# Chapter 1")

	b := h.MustCompile(noop.Factory{}, nil)
	require.Len(t, b.Sections, 1)
	assert.Equal(t, "Chapter 1", b.Sections[0].Chapter.Name)
	assert.Equal(t, booktest.DefaultChapter, booktest.Chapter(t, b, "chapter_1.md"))
}

func TestHarness_NoopIsIdempotent(t *testing.T) {
	h := booktest.New(t)
	h.WriteSource("SUMMARY.md", "# Summary\n\n- [One](one.md)\n    - [Two](nested/two.md)\n")
	h.WriteSource("one.md", "one\n")
	h.WriteSource("nested/two.md", "```fence\nx\n```\n")

	first := h.MustCompile(noop.Factory{}, nil)
	second := h.MustCompile(noop.Factory{}, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, "```fence\nx\n```\n", booktest.Chapter(t, second, "nested/two.md"))
	// noop ships no assets, but its namespace directory still exists.
	assert.Empty(t, h.Files().ListFiles("noop"))
}

func TestHarness_InputCarriesConfig(t *testing.T) {
	h := booktest.New(t)
	input, err := h.Input("noop", map[string]any{"workers": 2})
	require.NoError(t, err)
	assert.Contains(t, string(input), `"noop":{"workers":2}`)
	assert.Contains(t, string(input), `"__non_exhaustive":null`)
}
