// ==============================================================================================
// FILE: interner/interner_unit_test.go
// ==============================================================================================
// PURPOSE: Validates the core interning contract: repeated interning of the same text returns
//          the same handle, and distinct text never collides.
// ==============================================================================================

package interner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternReturnsStableHandles(t *testing.T) {
	in := New()

	a := in.Intern("lambda")
	b := in.Intern("lambda")
	assert.Equal(t, a, b, "interning the same text twice must return the same handle")

	c := in.Intern("define")
	assert.NotEqual(t, a, c, "interning distinct text must return distinct handles")
}

func TestLookupRoundTrips(t *testing.T) {
	in := New()
	sym := in.Intern("factorial")

	text, ok := in.Lookup(sym)
	require.True(t, ok)
	assert.Equal(t, "factorial", text)
}

func TestLookupUnknownSymbolFails(t *testing.T) {
	in := New()
	_, ok := in.Lookup(Symbol(99))
	assert.False(t, ok)
}

func TestMustLookupPanicsOnUnknownSymbol(t *testing.T) {
	in := New()
	assert.Panics(t, func() {
		in.MustLookup(Symbol(42))
	})
}

func TestLenCountsDistinctStrings(t *testing.T) {
	in := New()
	in.Intern("a")
	in.Intern("b")
	in.Intern("a")
	assert.Equal(t, 2, in.Len())
}
