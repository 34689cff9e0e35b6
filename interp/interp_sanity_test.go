// ==============================================================================================
// FILE: interp/interp_sanity_test.go
// ==============================================================================================
// PURPOSE: Smoke-tests the primitive arithmetic/comparison/display surface and the diagnostic
//          special forms (test-eq, print-and-eval) an author would lean on while writing lumen.
// ==============================================================================================

package interp

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticPrimitives(t *testing.T) {
	it := New()
	assert.Equal(t, "10", evalString(t, it, "(+ 1 2 3 4)"))
	assert.Equal(t, "24", evalString(t, it, "(* 1 2 3 4)"))
	assert.Equal(t, "-5", evalString(t, it, "(- 5)"))
	assert.Equal(t, "1", evalString(t, it, "(- 10 4 5)"))
	assert.Equal(t, "0.25", evalString(t, it, "(/ 4 16)"))
	assert.Equal(t, "1", evalString(t, it, "(remainder 10 3)"))
}

func TestOrderingPrimitivesChain(t *testing.T) {
	it := New()
	assert.Equal(t, "#t", evalString(t, it, "(< 1 2 3)"))
	assert.Equal(t, "#f", evalString(t, it, "(< 1 3 2)"))
	assert.Equal(t, "#t", evalString(t, it, "(<= 1 1 2)"))
	assert.Equal(t, "#t", evalString(t, it, "(= 2 2 2)"))
}

func TestNotInvertsTruthiness(t *testing.T) {
	it := New()
	assert.Equal(t, "#f", evalString(t, it, "(not 0)"))
	assert.Equal(t, "#t", evalString(t, it, "(not #f)"))
}

func TestDisplayWritesUnbufferedToStdout(t *testing.T) {
	it := New()
	id := it.RegisterSource("<test>", `(display "hello")`)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w
	_, evalErr := it.Evaluate(id)
	w.Close()
	os.Stdout = origStdout
	require.Nil(t, evalErr)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestTestEqRecordsFailureWithoutRaising(t *testing.T) {
	it := New()
	id := it.RegisterSource("<test>", `(test-eq (+ 1 1) 3)`)
	_, err := it.Evaluate(id)
	require.Nil(t, err, "test-eq must report rather than raise on mismatch")
	assert.Equal(t, 1, it.FailedTests())
}

func TestTestEqDoesNotCountSuccesses(t *testing.T) {
	it := New()
	id := it.RegisterSource("<test>", `(test-eq (+ 1 1) 2)`)
	_, err := it.Evaluate(id)
	require.Nil(t, err)
	assert.Equal(t, 0, it.FailedTests())
}
