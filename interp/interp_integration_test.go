// ==============================================================================================
// FILE: interp/interp_integration_test.go
// ==============================================================================================
// PURPOSE: Exercises the interpreter end-to-end through RegisterSource/Evaluate, covering the
//          language's core constructs: let, recursion, tail-call constant stack depth, closures,
//          cond, mutation, eq? identity, and the runtime error paths a program can hit.
// ==============================================================================================

package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoghasbhardwaj/lumen/evalerror"
)

func evalString(t *testing.T, it *Interpreter, src string) string {
	t.Helper()
	id := it.RegisterSource("<test>", src)
	v, err := it.Evaluate(id)
	require.Nil(t, err, "unexpected evaluation error: %v", err)
	return it.Render(v)
}

func TestLetBindsNamesForItsBody(t *testing.T) {
	it := New()
	assert.Equal(t, "3", evalString(t, it, "(let ((a 1) (b 2)) (+ a b))"))
}

func TestFactorialRecursion(t *testing.T) {
	it := New()
	evalString(t, it, `
		(define (fact n)
		  (if (<= n 1) 1 (* n (fact (- n 1)))))
	`)
	assert.Equal(t, "120", evalString(t, it, "(fact 5)"))
}

func TestTailRecursiveLoopRunsInConstantStack(t *testing.T) {
	it := New()
	it.SetMaxStackSize(16)
	evalString(t, it, `
		(define (loop n acc)
		  (if (= n 0) acc (loop (- n 1) (+ acc 1))))
	`)
	// Were tail calls not reused, 10000 recursive calls would overflow a
	// max-stack-size of 16 immediately.
	assert.Equal(t, "10000", evalString(t, it, "(loop 10000 0)"))
}

func TestClosureCounterKeepsPrivateState(t *testing.T) {
	it := New()
	evalString(t, it, `
		(define (make-counter)
		  (let ((n 0))
		    (lambda () (set! n (+ n 1)) n)))
		(define counter (make-counter))
	`)
	assert.Equal(t, "1", evalString(t, it, "(counter)"))
	assert.Equal(t, "2", evalString(t, it, "(counter)"))
	assert.Equal(t, "3", evalString(t, it, "(counter)"))
}

func TestCondElseFallthrough(t *testing.T) {
	it := New()
	evalString(t, it, `
		(define (classify n)
		  (cond ((< n 0) "negative")
		        ((= n 0) "zero")
		        (else "positive")))
	`)
	assert.Equal(t, "negative", evalString(t, it, `(classify -5)`))
	assert.Equal(t, "zero", evalString(t, it, "(classify 0)"))
	assert.Equal(t, "positive", evalString(t, it, "(classify 7)"))
}

func TestSetCarMutatesPairInPlace(t *testing.T) {
	it := New()
	evalString(t, it, `(define p (quote (1 . 2)))`)
	evalString(t, it, `(set-car! p 9)`)
	assert.Equal(t, "(9 . 2)", evalString(t, it, "p"))
}

func TestEqIdentityOnStrings(t *testing.T) {
	it := New()
	evalString(t, it, `(define a "hi")`)
	evalString(t, it, `(define b "hi")`)
	assert.Equal(t, "#f", evalString(t, it, "(eq? a b)"), "distinct string cells are not eq?")
	assert.Equal(t, "#t", evalString(t, it, "(eq? a a)"))
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	it := New()
	id := it.RegisterSource("<test>", "(/ 1 0)")
	_, err := it.Evaluate(id)
	require.NotNil(t, err)
	assert.Equal(t, evalerror.DivisionByZero, err.Kind)
}

func TestUnboundVariableReportsName(t *testing.T) {
	it := New()
	id := it.RegisterSource("<test>", "(+ x 1)")
	_, err := it.Evaluate(id)
	require.NotNil(t, err)
	assert.Equal(t, evalerror.UnboundVariable, err.Kind)
	assert.Equal(t, "x", err.Name)
}

func TestStackOverflowOnNonTailRecursion(t *testing.T) {
	it := New()
	it.SetMaxStackSize(8)
	evalString(t, it, `
		(define (sum-to n)
		  (if (= n 0) 0 (+ n (sum-to (- n 1)))))
	`)
	id := it.RegisterSource("<test>", "(sum-to 1000)")
	_, err := it.Evaluate(id)
	require.NotNil(t, err)
	assert.Equal(t, evalerror.StackOverflow, err.Kind)
}

func TestPreludeDefinesAbsZeroAndNull(t *testing.T) {
	it := New()
	assert.Equal(t, "3", evalString(t, it, "(abs -3)"))
	assert.Equal(t, "#t", evalString(t, it, "(zero? 0)"))
	assert.Equal(t, "#t", evalString(t, it, "(null? (quote ()))"))
}

func TestGCReclaimsAnUnreachableCycle(t *testing.T) {
	it := New()
	evalString(t, it, `(define p (quote (1)))`)
	evalString(t, it, `(set-cdr! p p)`)        // p's tail now points back to itself
	evalString(t, it, `(define p (quote ()))`) // drop the only remaining root reference
	reclaimed := it.GC(false)
	assert.Greater(t, reclaimed, 0)
}
