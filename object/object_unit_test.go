// ==============================================================================================
// FILE: object/object_unit_test.go
// ==============================================================================================
// PURPOSE: Validates surface-syntax rendering, including symbol resolution and cyclic-list
//          detection, and the IsTruthy rule that only #f is false.
// ==============================================================================================

package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

func TestIsTruthyOnlyFalseForBooleanFalse(t *testing.T) {
	assert.False(t, Bool(false, sourcemap.Range{}).Value.IsTruthy())
	assert.True(t, Bool(true, sourcemap.Range{}).Value.IsTruthy())
	assert.True(t, Number(0, sourcemap.Range{}).Value.IsTruthy())
	assert.True(t, String("", sourcemap.Range{}).Value.IsTruthy())
	assert.True(t, EmptyList(sourcemap.Range{}).Value.IsTruthy())
}

func TestRenderPrimitives(t *testing.T) {
	assert.Equal(t, "()", Render(EmptyList(sourcemap.Range{})))
	assert.Equal(t, "3.5", Render(Number(3.5, sourcemap.Range{})))
	assert.Equal(t, "#t", Render(Bool(true, sourcemap.Range{})))
	assert.Equal(t, "#f", Render(Bool(false, sourcemap.Range{})))
	assert.Equal(t, "hi", Render(String("hi", sourcemap.Range{})))
	assert.Equal(t, "", Render(Undefined(sourcemap.Range{})))
}

func TestRenderNamedResolvesSymbols(t *testing.T) {
	in := interner.New()
	sym := in.Intern("foo")
	assert.Equal(t, "foo", RenderNamed(Symbol(sym, sourcemap.Range{}), in))
}

func TestRenderPairList(t *testing.T) {
	pairs := NewPairManager()
	tail := pairs.Allocate(Number(2, sourcemap.Range{}), EmptyList(sourcemap.Range{}))
	head := pairs.Allocate(Number(1, sourcemap.Range{}), Node{Value: Value{Kind: KindPair, Pair: tail}})
	n := Node{Value: Value{Kind: KindPair, Pair: head}}
	assert.Equal(t, "(1 2)", Render(n))
}

func TestRenderDottedPair(t *testing.T) {
	pairs := NewPairManager()
	p := pairs.Allocate(Number(1, sourcemap.Range{}), Number(2, sourcemap.Range{}))
	n := Node{Value: Value{Kind: KindPair, Pair: p}}
	assert.Equal(t, "(1 . 2)", Render(n))
}

func TestRenderDetectsCyclicList(t *testing.T) {
	pairs := NewPairManager()
	p := pairs.Allocate(Number(1, sourcemap.Range{}), EmptyList(sourcemap.Range{}))
	pairs.SetCdr(p, Node{Value: Value{Kind: KindPair, Pair: p}})
	n := Node{Value: Value{Kind: KindPair, Pair: p}}
	assert.Contains(t, Render(n), "<CYCLIC LIST>")
}

func TestArityAccepts(t *testing.T) {
	assert.True(t, Nullary.Accepts(0))
	assert.False(t, Nullary.Accepts(1))
	assert.True(t, Binary.Accepts(2))
	assert.False(t, Binary.Accepts(1))
	assert.True(t, NullaryVariadic.Accepts(0))
	assert.True(t, NullaryVariadic.Accepts(5))
	assert.True(t, UnaryVariadic.Accepts(1))
	assert.False(t, UnaryVariadic.Accepts(0))
}
