// ==============================================================================================
// FILE: evaluator/evaluator_unit_test.go
// ==============================================================================================
// PURPOSE: Validates three of spec.md's named testable properties directly against Evaluator.Eval,
//          one layer below interp.Interpreter: and/or short-circuiting, quote's round-trip of an
//          unevaluated expression, and WrongNumberOfArguments for misused primitives (as distinct
//          from a user-defined compound procedure's signature, covered in interp's own tests).
// ==============================================================================================

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/lexer"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/parser"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

func newTestEvaluator() (*Evaluator, *interner.Interner, *sourcemap.Mapper) {
	names := interner.New()
	maps := sourcemap.New()
	return New(names, maps), names, maps
}

// evalSource registers src, parses it against ev's own pair manager, and
// evaluates every top-level expression in sequence, returning the last
// result. Unlike interp.Interpreter.Evaluate, it never loads the prelude —
// these tests exercise the evaluator in isolation.
func evalSource(t *testing.T, ev *Evaluator, names *interner.Interner, maps *sourcemap.Mapper, src string) (object.Node, *evalerror.Error) {
	t.Helper()
	id := maps.Register("<unit-test>", src)
	l := lexer.New(id, src)
	p := parser.New(l, names, ev.Pairs(), id)
	exprs, perr := p.ParseProgram()
	require.Nil(t, perr, "unexpected parse error: %v", perr)

	var result object.Node
	for _, expr := range exprs {
		v, err := ev.Eval(expr)
		if err != nil {
			return object.Node{}, err
		}
		result = v
	}
	return result, nil
}

func TestAndShortCircuitsOnFirstFalse(t *testing.T) {
	ev, names, maps := newTestEvaluator()
	// never-bound would raise UnboundVariable if and evaluated past the
	// #f operand; reaching #f without error proves the short circuit.
	v, err := evalSource(t, ev, names, maps, "(and 1 #f never-bound)")
	require.Nil(t, err)
	assert.Equal(t, object.KindBoolean, v.Value.Kind)
	assert.False(t, v.Value.Bool)
}

func TestOrShortCircuitsOnFirstTruthy(t *testing.T) {
	ev, names, maps := newTestEvaluator()
	v, err := evalSource(t, ev, names, maps, "(or #f 5 never-bound)")
	require.Nil(t, err)
	assert.Equal(t, object.KindNumber, v.Value.Kind)
	assert.Equal(t, 5.0, v.Value.Num)
}

func TestAndWithNoFalseOperandsStillEvaluatesEveryOperand(t *testing.T) {
	ev, names, maps := newTestEvaluator()
	// Every operand is truthy, so the short circuit never fires and the
	// last operand's value is returned, per and's ordinary semantics.
	v, err := evalSource(t, ev, names, maps, "(and 1 2 3)")
	require.Nil(t, err)
	assert.Equal(t, 3.0, v.Value.Num)
}

func TestQuoteRoundTripsAnUnevaluatedCombination(t *testing.T) {
	ev, names, maps := newTestEvaluator()
	// (+ 1 2) inside quote must not be evaluated: if it were, the result
	// would be the number 3, not the three-element list below.
	v, err := evalSource(t, ev, names, maps, "(quote (+ 1 2))")
	require.Nil(t, err)
	assert.Equal(t, "(+ 1 2)", object.RenderNamed(v, names))
}

func TestQuoteRoundTripsASymbol(t *testing.T) {
	ev, names, maps := newTestEvaluator()
	v, err := evalSource(t, ev, names, maps, "(quote unbound-name)")
	require.Nil(t, err)
	assert.Equal(t, object.KindSymbol, v.Value.Kind)
	assert.Equal(t, "unbound-name", object.RenderNamed(v, names))
}

func TestPrimitiveArityEnforcement(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"eq? (Binary) given one argument", "(eq? 1)"},
		{"eq? (Binary) given three arguments", "(eq? 1 2 3)"},
		{"not (Unary) given zero arguments", "(not)"},
		{"not (Unary) given two arguments", "(not #t #f)"},
		{"remainder (Binary) given one argument", "(remainder 13)"},
		{"- (UnaryVariadic) given zero arguments", "(-)"},
		{"/ (UnaryVariadic) given zero arguments", "(/)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev, names, maps := newTestEvaluator()
			_, err := evalSource(t, ev, names, maps, c.src)
			require.NotNil(t, err, "expected an arity error")
			assert.Equal(t, evalerror.WrongNumberOfArguments, err.Kind)
		})
	}
}
