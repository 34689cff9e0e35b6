// ==============================================================================================
// FILE: sourcemap/sourcemap.go
// ==============================================================================================
// PACKAGE: sourcemap
// PURPOSE: Owns every source text registered with the interpreter and maps byte ranges back to
//          a file name, line, and column so the evaluator and parser can render diagnostics.
// ==============================================================================================

package sourcemap

import "fmt"

// SourceID names a registered source text. Zero is reserved for internally
// synthesized values that carry no real location.
type SourceID uint32

// Range is a half-open byte span [Start, End) within a registered source.
type Range struct {
	Start, End int
	Source     SourceID
}

// Synthetic reports whether r was never registered against real source text.
func (r Range) Synthetic() bool { return r.Source == 0 }

// Span returns the smallest range covering both r and other. Both must share
// a source; if either is synthetic the other wins.
func Span(r, other Range) Range {
	if r.Synthetic() {
		return other
	}
	if other.Synthetic() {
		return r
	}
	start, end := r.Start, r.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end, Source: r.Source}
}

type source struct {
	name       string
	text       string
	lineStarts []int // byte offset at which each (0-based) line begins
}

// Mapper registers source texts and resolves ranges to human-readable positions.
type Mapper struct {
	sources []*source // index 0 is the reserved "no source" placeholder
}

// New returns a mapper with no sources registered yet.
func New() *Mapper {
	return &Mapper{sources: []*source{{name: "<unknown>"}}}
}

// Register adds a named source text and returns its id. IDs are assigned
// sequentially starting at 1.
func (m *Mapper) Register(name, text string) SourceID {
	m.sources = append(m.sources, &source{name: name, text: text, lineStarts: lineStarts(text)})
	return SourceID(len(m.sources) - 1)
}

func lineStarts(text string) []int {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Text returns the registered source text for id.
func (m *Mapper) Text(id SourceID) (string, bool) {
	if !m.valid(id) {
		return "", false
	}
	return m.sources[id].text, true
}

// Name returns the registered display name for id.
func (m *Mapper) Name(id SourceID) string {
	if !m.valid(id) {
		return "<unknown>"
	}
	return m.sources[id].name
}

func (m *Mapper) valid(id SourceID) bool {
	return int(id) > 0 && int(id) < len(m.sources)
}

// Position is a resolved, 1-based line/column pair.
type Position struct {
	Line, Column int
}

func (m *Mapper) resolve(id SourceID, offset int) Position {
	if !m.valid(id) {
		return Position{Line: 1, Column: 1}
	}
	src := m.sources[id]
	if offset < 0 {
		offset = 0
	}
	if offset > len(src.text) {
		offset = len(src.text)
	}
	lo, hi := 0, len(src.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if src.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Column: offset - src.lineStarts[lo] + 1}
}

// Describe renders a range's start position as "name:line:col".
func (m *Mapper) Describe(r Range) string {
	pos := m.resolve(r.Source, r.Start)
	return fmt.Sprintf("%s:%d:%d", m.Name(r.Source), pos.Line, pos.Column)
}

// Slice returns the exact source substring spanned by r, for rendering a
// diagnostic's offending expression verbatim. Empty for synthetic ranges.
func (m *Mapper) Slice(r Range) string {
	if !m.valid(r.Source) {
		return ""
	}
	src := m.sources[r.Source]
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(src.text) {
		end = len(src.text)
	}
	if end < start {
		return ""
	}
	return src.text[start:end]
}

// LineText returns the full source line containing r's start, without its
// trailing newline, for traceback rendering. Empty for synthetic ranges.
func (m *Mapper) LineText(r Range) string {
	if !m.valid(r.Source) {
		return ""
	}
	src := m.sources[r.Source]
	pos := m.resolve(r.Source, r.Start)
	lineIdx := pos.Line - 1
	start := src.lineStarts[lineIdx]
	end := len(src.text)
	if lineIdx+1 < len(src.lineStarts) {
		end = src.lineStarts[lineIdx+1] - 1
	}
	if end < start {
		end = start
	}
	return src.text[start:end]
}
