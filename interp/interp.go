// ==============================================================================================
// FILE: interp/interp.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: The single entry point a REPL, file-loading CLI, or WASM front door consumes. Owns
//          the string interner, source mapper, and evaluator, and formalizes the "register a
//          named source, then evaluate it" lifecycle each front end needs.
// ==============================================================================================

package interp

import (
	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/evaluator"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/lexer"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/parser"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// Interpreter is the evaluation engine's front door. One Interpreter holds
// one string interner, one source mapper, and one Evaluator, all of which
// must be shared for identifiers and ranges to remain comparable across
// every source registered against it.
type Interpreter struct {
	names *interner.Interner
	maps  *sourcemap.Mapper
	eval  *evaluator.Evaluator

	preludeEvaluated bool
}

// New constructs an interpreter with primitives and special forms installed
// and `else` pre-bound. The bundled prelude is not evaluated yet; that
// happens lazily on the first call to Evaluate.
func New() *Interpreter {
	names := interner.New()
	maps := sourcemap.New()
	return &Interpreter{
		names: names,
		maps:  maps,
		eval:  evaluator.New(names, maps),
	}
}

// RegisterSource adds a named source text and returns its id.
func (i *Interpreter) RegisterSource(name, text string) sourcemap.SourceID {
	return i.maps.Register(name, text)
}

// Evaluate parses and evaluates every top-level expression registered under
// id in sequence, returning the value of the last one. On the interpreter's
// first call to Evaluate, the bundled prelude is registered and evaluated
// first, exactly once, ahead of the requested source.
func (i *Interpreter) Evaluate(id sourcemap.SourceID) (object.Node, *evalerror.Error) {
	if !i.preludeEvaluated {
		i.preludeEvaluated = true
		preludeID := i.RegisterSource(evaluator.PreludeName, evaluator.PreludeSource())
		if _, err := i.evaluateSourceID(preludeID); err != nil {
			return object.Node{}, err
		}
	}
	return i.evaluateSourceID(id)
}

// evaluateSourceID is evaluate_source_id: it resets the lexical frame chain
// and explicit call stack left over from any prior error before parsing and
// evaluating id's expressions, so a failed evaluation never corrupts the
// next one.
func (i *Interpreter) evaluateSourceID(id sourcemap.SourceID) (object.Node, *evalerror.Error) {
	i.eval.ClearLexicalScopes()

	text, ok := i.maps.Text(id)
	if !ok {
		return object.Node{}, evalerror.New(evalerror.MalformedExpression, sourcemap.Range{Source: id})
	}

	exprs, perr := i.parse(id, text)
	if perr != nil {
		return object.Node{}, perr
	}

	result := object.Undefined(sourcemap.Range{Source: id})
	for _, expr := range exprs {
		v, err := i.eval.Eval(expr)
		if err != nil {
			return object.Node{}, err
		}
		result = v
	}
	return result, nil
}

func (i *Interpreter) parse(id sourcemap.SourceID, text string) ([]object.Node, *evalerror.Error) {
	l := lexer.New(id, text)
	p := parser.New(l, i.names, i.eval.Pairs(), id)
	return p.ParseProgram()
}

// SetKeyboardInterruptChannel installs the channel Evaluate polls between
// trampoline bounces.
func (i *Interpreter) SetKeyboardInterruptChannel(ch <-chan struct{}) {
	i.eval.SetKeyboardInterruptChannel(ch)
}

// SetMaxStackSize overrides the call-stack depth ceiling (default 128).
func (i *Interpreter) SetMaxStackSize(n int) { i.eval.SetMaxStackSize(n) }

// SetTracing toggles combination-entry and tail-call-bounce tracing.
func (i *Interpreter) SetTracing(on bool) { i.eval.SetTracing(on) }

// StartTrackingStats resets and begins accumulating per-name call counters.
func (i *Interpreter) StartTrackingStats() { i.eval.StartTrackingStats() }

// TakeTrackedStats stops tracking and returns the accumulated counters.
func (i *Interpreter) TakeTrackedStats() evaluator.Stats { return i.eval.TakeTrackedStats() }

// GC runs the on-demand cycle collector and returns the number of objects
// reclaimed.
func (i *Interpreter) GC(debug bool) int { return i.eval.GC(debug) }

// Traceback renders the post-error call stack.
func (i *Interpreter) Traceback() string { return i.eval.Traceback() }

// FailedTests reports how many `test-eq` assertions have failed since the
// interpreter was created, backing the prelude's self-test harness.
func (i *Interpreter) FailedTests() int { return i.eval.FailedTests() }

// StringInterner exposes the string interner used for diagnostics.
func (i *Interpreter) StringInterner() *interner.Interner { return i.names }

// SourceMapper exposes the source mapper used for diagnostics.
func (i *Interpreter) SourceMapper() *sourcemap.Mapper { return i.maps }

// Render renders a value using this interpreter's interner to resolve
// symbol text.
func (i *Interpreter) Render(n object.Node) string { return object.RenderNamed(n, i.names) }

// DescribeError renders an error as "Error: <kind> in <source-mapped line>".
func (i *Interpreter) DescribeError(err *evalerror.Error) string {
	line := i.maps.LineText(err.Range)
	return "Error: " + err.Error() + " in " + line
}
