// ==============================================================================================
// FILE: sourcemap/sourcemap_unit_test.go
// ==============================================================================================
// PURPOSE: Validates source registration and range-to-position resolution, including multi-line
//          offsets and the synthetic-range fallbacks diagnostics rely on.
// ==============================================================================================

package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndText(t *testing.T) {
	m := New()
	id := m.Register("prog.scm", "(+ 1 2)")

	text, ok := m.Text(id)
	assert.True(t, ok)
	assert.Equal(t, "(+ 1 2)", text)
	assert.Equal(t, "prog.scm", m.Name(id))
}

func TestDescribeResolvesMultipleLines(t *testing.T) {
	m := New()
	src := "(define x 1)\n(define y 2)\n(+ x y)"
	id := m.Register("prog.scm", src)

	// "y" in the second define: line 2.
	yOffset := strings.LastIndex(src, "y ")
	r := Range{Start: yOffset, End: yOffset + 1, Source: id}
	assert.Equal(t, "prog.scm:2:9", m.Describe(r))
}

func TestSliceReturnsExactSubstring(t *testing.T) {
	m := New()
	src := "(+ 1 2)"
	id := m.Register("prog.scm", src)
	r := Range{Start: 3, End: 4, Source: id}
	assert.Equal(t, "1", m.Slice(r))
}

func TestLineTextReturnsWholeLineWithoutNewline(t *testing.T) {
	m := New()
	src := "(define x 1)\n(bad-call)\n(ok)"
	id := m.Register("prog.scm", src)
	offset := len("(define x 1)\n(bad-")
	r := Range{Start: offset, End: offset + 4, Source: id}
	assert.Equal(t, "(bad-call)", m.LineText(r))
}

func TestSyntheticRangeIsRecognized(t *testing.T) {
	assert.True(t, Range{}.Synthetic())
	assert.False(t, (Range{Source: 1}).Synthetic())
}

func TestSpanPrefersRealRangeOverSynthetic(t *testing.T) {
	real := Range{Start: 2, End: 5, Source: 1}
	synthetic := Range{}
	assert.Equal(t, real, Span(real, synthetic))
	assert.Equal(t, real, Span(synthetic, real))
}

func TestSpanCoversBothRanges(t *testing.T) {
	a := Range{Start: 2, End: 5, Source: 1}
	b := Range{Start: 4, End: 9, Source: 1}
	assert.Equal(t, Range{Start: 2, End: 9, Source: 1}, Span(a, b))
}

func TestInvalidSourceIDFallsBackGracefully(t *testing.T) {
	m := New()
	bogus := SourceID(77)
	_, ok := m.Text(bogus)
	assert.False(t, ok)
	assert.Equal(t, "<unknown>", m.Name(bogus))
	assert.Equal(t, "", m.Slice(Range{Source: bogus, Start: 0, End: 1}))
}
