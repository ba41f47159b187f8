package markdown

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// Span is a half-open byte range [Start, End) into a chapter's original text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Replacement pairs a span of the original text with the text that replaces it.
//
// A zero-width span (Start == End) is an insertion.
type Replacement struct {
	Span Span
	Text string
}

// Replace is shorthand for building a Replacement.
func Replace(start, end int, text string) Replacement {
	return Replacement{Span: Span{Start: start, End: end}, Text: text}
}

// SortReplacements returns a copy of reps ordered by ascending start offset,
// with an insertion placed before a span that starts at the same offset.
// The sort is stable, so insertions sharing an offset keep their supplied order.
func SortReplacements(reps []Replacement) []Replacement {
	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a.Start == b.Start {
			return a.End < b.End
		}
		return a.Start < b.Start
	})
	return sorted
}

// ValidateReplacements checks that every span lies within source, does not cut a
// UTF-8 sequence in half, and does not overlap any other span.
//
// sorted must be ordered by ascending start offset.
func ValidateReplacements(source string, sorted []Replacement) error {
	for i, r := range sorted {
		s := r.Span
		if s.Start < 0 || s.End < 0 {
			return malformed(i, s, "negative range")
		}
		if s.End < s.Start {
			return malformed(i, s, "end before start")
		}
		if s.End > len(source) {
			return malformed(i, s, "range out of bounds")
		}
		if !onRuneBoundary(source, s.Start) || !onRuneBoundary(source, s.End) {
			return malformed(i, s, "range splits a UTF-8 sequence")
		}
		if i > 0 {
			prev := sorted[i-1].Span
			// Touching spans are fine; only real overlap corrupts offsets.
			if s.Start < prev.End {
				return malformed(i, s, fmt.Sprintf("overlaps %d..%d", prev.Start, prev.End))
			}
		}
	}
	return nil
}

// ApplyReplacements rewrites original with the given replacements and returns
// the new text.
//
// Spans refer to offsets in the original text. They are sorted by start offset
// and spliced from the end of the text toward the beginning, so a splice never
// moves the offsets of the spans still waiting to be applied.
//
// An empty replacement set returns original unchanged.
func ApplyReplacements(original string, reps []Replacement) (string, error) {
	if len(reps) == 0 {
		return original, nil
	}

	sorted := SortReplacements(reps)
	if err := ValidateReplacements(original, sorted); err != nil {
		return "", err
	}

	out := original
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		var b strings.Builder
		b.Grow(len(out) - r.Span.Len() + len(r.Text))
		b.WriteString(out[:r.Span.Start])
		b.WriteString(r.Text)
		b.WriteString(out[r.Span.End:])
		out = b.String()
	}
	return out, nil
}

func onRuneBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

func malformed(i int, s Span, reason string) error {
	return errors.ValidationError(fmt.Sprintf("malformed replacement[%d]: %s", i, reason)).
		WithContext("start", s.Start).
		WithContext("end", s.End).
		Build()
}
