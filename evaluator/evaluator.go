// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: The runtime execution engine. Dispatches expressions to values and drives the explicit
//          call stack and tail-call trampoline. Special forms live in special_forms.go, primitive
//          procedures in primitives.go, and their installation into a fresh environment in
//          environment_setup.go.
// ==============================================================================================

package evaluator

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/gc"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// DefaultMaxStackSize is the call-stack depth ceiling a new Evaluator starts
// with.
const DefaultMaxStackSize = 128

// callFrame is one entry on the explicit call stack, kept only for
// traceback rendering.
type callFrame struct {
	call sourcemap.Range
	name string
}

// Stats is the per-name call/tail-call counters and stack high-water mark
// produced by TakeTrackedStats.
type Stats struct {
	Calls     map[string]int
	TailCalls map[string]int
	MaxDepth  int
}

// Evaluator is the core interpreter: expression dispatch, the environment,
// the pair and scope managers, the explicit call stack, and the tracing/
// stats/interrupt knobs that hang off it.
type Evaluator struct {
	env    *object.Environment
	pairs  *object.PairManager
	scopes *object.ScopeManager
	names  *interner.Interner
	maps   *sourcemap.Mapper
	coll   *gc.Collector

	stack []callFrame

	maxStackSize int
	tracing      bool
	log          *logrus.Logger

	interrupt <-chan struct{}

	trackingStats bool
	stats         Stats

	// pinned holds expressions currently under evaluation, exposed to the
	// cycle collector as extra GC roots.
	pinned []object.Node

	failedTests    int
	nextCompoundID uint64
}

// New constructs an evaluator with an empty global frame, primitives and
// special forms installed, and `else` pre-bound to `#t`.
func New(names *interner.Interner, maps *sourcemap.Mapper) *Evaluator {
	pairs := object.NewPairManager()
	scopes := object.NewScopeManager()
	env := object.NewEnvironment(scopes, pairs, names)
	ev := &Evaluator{
		env:          env,
		pairs:        pairs,
		scopes:       scopes,
		names:        names,
		maps:         maps,
		coll:         gc.New(pairs, scopes),
		maxStackSize: DefaultMaxStackSize,
		log:          logrus.New(),
	}
	ev.log.SetLevel(logrus.WarnLevel)
	ev.populateEnvironment()
	return ev
}

// Eval, EvalInTail, Env, Pairs, Scopes, GC, Traceback, PrintStats,
// RecordTestFailure, SourceText, and RenderValue together satisfy
// object.Evaluator, the narrow surface special
// forms and builtins see (so package object need not import evaluator).
func (e *Evaluator) Env() *object.Environment      { return e.env }
func (e *Evaluator) Pairs() *object.PairManager    { return e.pairs }
func (e *Evaluator) Scopes() *object.ScopeManager  { return e.scopes }
func (e *Evaluator) RecordTestFailure()              { e.failedTests++ }
func (e *Evaluator) SourceText(n object.Node) string { return e.maps.Slice(n.Range) }
func (e *Evaluator) RenderValue(n object.Node) string { return object.RenderNamed(n, e.names) }

// SetMaxStackSize overrides the call-stack depth ceiling.
func (e *Evaluator) SetMaxStackSize(n int) { e.maxStackSize = n }

// SetTracing toggles combination-entry and tail-call-bounce tracing via logrus.
func (e *Evaluator) SetTracing(on bool) {
	e.tracing = on
	if on {
		e.log.SetLevel(logrus.TraceLevel)
	} else {
		e.log.SetLevel(logrus.WarnLevel)
	}
}

// SetKeyboardInterruptChannel installs the channel Eval polls between
// trampoline bounces. A nil channel (the default) disables polling.
func (e *Evaluator) SetKeyboardInterruptChannel(ch <-chan struct{}) { e.interrupt = ch }

// StartTrackingStats resets and begins accumulating per-name call counters.
func (e *Evaluator) StartTrackingStats() {
	e.trackingStats = true
	e.stats = Stats{Calls: map[string]int{}, TailCalls: map[string]int{}}
}

// TakeTrackedStats stops tracking and returns the accumulated counters.
func (e *Evaluator) TakeTrackedStats() Stats {
	e.trackingStats = false
	s := e.stats
	e.stats = Stats{}
	return s
}

// FailedTests reports how many test-eq self-test assertions have failed
// since the evaluator was created.
func (e *Evaluator) FailedTests() int { return e.failedTests }

// ClearLexicalScopes drops every active lexical frame and resets the
// explicit call stack and pin set; called before each top-level evaluation.
func (e *Evaluator) ClearLexicalScopes() {
	e.env.ClearLexicalScopes()
	e.stack = nil
	e.pinned = nil
}

// Traceback renders the post-error call stack.
func (e *Evaluator) Traceback() string {
	out := "Traceback (excluding tail calls, most recent call last):"
	for _, f := range e.stack {
		out += fmt.Sprintf("\n  %s: %s", e.maps.Describe(f.call), e.maps.LineText(f.call))
	}
	return out
}

// GC runs the cycle collector and returns the number of objects reclaimed.
// It refuses (returns 0) while the evaluator's own call stack holds more
// than the frame for this call itself, since collecting while deeper
// frames may still hold pinned references risks reclaiming live pairs.
// Invoking gc() as a procedure always pushes exactly one frame for that
// call itself, so the refusal condition is len(stack) > 1.
func (e *Evaluator) GC(debug bool) int {
	if len(e.stack) > 1 {
		return 0
	}
	roots := gc.Roots{Pinned: append([]object.Node(nil), e.pinned...)}
	for _, v := range e.env.GlobalBindings() {
		roots.Global = append(roots.Global, v)
	}
	if f := e.env.CurrentFrame(); f != nil {
		roots.Frames = append(roots.Frames, f)
	}
	n := e.coll.Collect(roots)
	if debug {
		e.log.Debugf("gc: reclaimed %d objects", n)
	}
	return n
}

// PrintStats renders pair-manager/scope-manager/interner liveness counts,
// the `(stats)` diagnostic's backing implementation.
func (e *Evaluator) PrintStats() string {
	ps := e.pairs.Stats()
	ss := e.scopes.Stats()
	return fmt.Sprintf("pairs: live=%d next=%d  scopes: live=%d next=%d  symbols: %d",
		ps.Live, ps.NextID, ss.Live, ss.NextID, e.names.Len())
}

// Eval fully reduces n to a value, driving the tail-call trampoline to
// completion. Any combination n itself denotes is, by construction, in
// non-tail position here (there is nothing above it to bounce into), so a
// stack frame is pushed for it and held for every tail bounce that follows,
// popped only once a concrete value emerges.
func (e *Evaluator) Eval(n object.Node) (object.Node, *evalerror.Error) {
	v, tc, err := e.EvalInTail(n)
	if err != nil {
		return object.Node{}, err
	}
	if tc == nil {
		return v, nil
	}
	if err := e.pushCall(tc); err != nil {
		return object.Node{}, err
	}
	for {
		if perr := e.pollInterrupt(tc.Call); perr != nil {
			return object.Node{}, perr
		}
		v, tc, err = e.applyTail(tc)
		if err != nil {
			return object.Node{}, err
		}
		if tc == nil {
			break
		}
		if e.tracing {
			e.log.Tracef("tail-call -> %s", tc.Proc.ProcedureName())
		}
		if e.trackingStats {
			e.stats.TailCalls[tc.Proc.ProcedureName()]++
		}
	}
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

func (e *Evaluator) pushCall(tc *object.TailCall) *evalerror.Error {
	if len(e.stack) >= e.maxStackSize {
		return evalerror.New(evalerror.StackOverflow, tc.Call)
	}
	e.stack = append(e.stack, callFrame{call: tc.Call, name: tc.Proc.ProcedureName()})
	if e.tracing {
		e.log.Tracef("call %s at %s", tc.Proc.ProcedureName(), e.maps.Describe(tc.Call))
	}
	if e.trackingStats {
		e.stats.Calls[tc.Proc.ProcedureName()]++
		if len(e.stack) > e.stats.MaxDepth {
			e.stats.MaxDepth = len(e.stack)
		}
	}
	return nil
}

func (e *Evaluator) pollInterrupt(r sourcemap.Range) *evalerror.Error {
	if e.interrupt == nil {
		return nil
	}
	select {
	case <-e.interrupt:
		return evalerror.New(evalerror.KeyboardInterrupt, r)
	default:
		return nil
	}
}

// EvalInTail is eval_in_tail: it may return a tail-call token instead of a
// fully reduced value, letting a caller in tail position bounce the
// trampoline without growing the stack.
func (e *Evaluator) EvalInTail(n object.Node) (object.Node, *object.TailCall, *evalerror.Error) {
	switch n.Value.Kind {
	case object.KindUndefined, object.KindNumber, object.KindBoolean, object.KindString:
		return n, nil, nil
	case object.KindSymbol:
		v, ok := e.env.Get(n.Value.Sym)
		if !ok {
			name, _ := e.names.Lookup(n.Value.Sym)
			return object.Node{}, nil, evalerror.NewUnboundVariable(name, n.Range)
		}
		return v, nil, nil
	case object.KindEmptyList, object.KindCallable:
		return object.Node{}, nil, evalerror.New(evalerror.MalformedExpression, n.Range)
	case object.KindPair:
		return e.evalCombination(n)
	default:
		return object.Node{}, nil, evalerror.New(evalerror.MalformedExpression, n.Range)
	}
}

// evalCombination resolves a combination's operator and, if it names a
// special form, invokes it directly; otherwise the operator and operands
// are reduced to values and bundled into a TailCall for the caller (Eval,
// or an enclosing tail position) to invoke.
func (e *Evaluator) evalCombination(n object.Node) (object.Node, *object.TailCall, *evalerror.Error) {
	items, ok := object.TryAsSequence(n.Value.Pair)
	if !ok || len(items) == 0 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedExpression, n.Range)
	}
	opExpr := items[0]
	operands := items[1:]

	if opExpr.Value.Kind == object.KindSymbol {
		if v, ok := e.env.Get(opExpr.Value.Sym); ok && v.Value.Kind == object.KindCallable {
			return v.Value.Special(e, operands, n.Range)
		}
	}

	e.pin(n)
	opVal, err := e.Eval(opExpr)
	e.unpin()
	if err != nil {
		return object.Node{}, nil, err
	}
	if opVal.Value.Kind != object.KindProcedure {
		return object.Node{}, nil, evalerror.New(evalerror.ExpectedCallable, opExpr.Range)
	}

	args := make([]object.Node, 0, len(operands))
	for _, o := range operands {
		e.pin(n)
		v, err := e.Eval(o)
		e.unpin()
		if err != nil {
			return object.Node{}, nil, err
		}
		args = append(args, v)
	}

	return object.Node{}, &object.TailCall{Proc: opVal.Value.Proc, Args: args, Call: n.Range}, nil
}

func (e *Evaluator) pin(n object.Node)   { e.pinned = append(e.pinned, n) }
func (e *Evaluator) unpin()              { e.pinned = e.pinned[:len(e.pinned)-1] }

// applyTail invokes a bound tail-call token. For a Builtin this always
// produces a final value. For a Compound, its captured-scope frame is
// pushed, parameters bound, all but the last body expression are fully
// evaluated, and the last is tail-evaluated — which may itself bounce to a
// further TailCall without growing the explicit call stack, exactly the
// trampoline step that gives tail recursion constant stack depth.
func (e *Evaluator) applyTail(tc *object.TailCall) (object.Node, *object.TailCall, *evalerror.Error) {
	switch proc := tc.Proc.(type) {
	case *object.Builtin:
		if !proc.Arity.Accepts(len(tc.Args)) {
			return object.Node{}, nil, evalerror.New(evalerror.WrongNumberOfArguments, tc.Call)
		}
		v, err := proc.Fn(e, tc.Args, tc.Call)
		return v, nil, err
	case *object.Compound:
		return e.applyCompound(proc, tc.Args, tc.Call)
	default:
		return object.Node{}, nil, evalerror.New(evalerror.ExpectedProcedure, tc.Call)
	}
}

func (e *Evaluator) applyCompound(c *object.Compound, args []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	e.env.Push(c.Captured)
	if err := bindParams(e, c.Sig, args, call); err != nil {
		// Left pushed: on error paths lexical frames remain for traceback
		// inspection; the next top-level evaluate resets them.
		return object.Node{}, nil, err
	}
	for i := 0; i < len(c.Body)-1; i++ {
		if _, err := e.Eval(c.Body[i]); err != nil {
			return object.Node{}, nil, err
		}
	}
	v, tc, err := e.EvalInTail(c.Body[len(c.Body)-1])
	if err != nil {
		return object.Node{}, nil, err
	}
	e.env.Pop()
	return v, tc, nil
}

// bindParams defines each parameter sig describes in the environment's
// current (just-pushed) frame, handling all three signature kinds
// (FixedArgs, MinArgs, AnyArgs). A rest name, when present, collects the
// remaining arguments into a proper list terminated by EmptyList.
func bindParams(e *Evaluator, sig object.Signature, args []object.Node, call sourcemap.Range) *evalerror.Error {
	switch sig.Kind {
	case object.FixedArgs:
		if len(args) != len(sig.Fixed) {
			return evalerror.New(evalerror.WrongNumberOfArguments, call)
		}
		for i, name := range sig.Fixed {
			e.env.Define(name, args[i])
		}
	case object.MinArgs:
		if len(args) < len(sig.Fixed) {
			return evalerror.New(evalerror.WrongNumberOfArguments, call)
		}
		for i, name := range sig.Fixed {
			e.env.Define(name, args[i])
		}
		e.env.Define(sig.Rest, buildRestList(e, args[len(sig.Fixed):], call))
	case object.AnyArgs:
		e.env.Define(sig.Rest, buildRestList(e, args, call))
	}
	return nil
}

func buildRestList(e *Evaluator, items []object.Node, call sourcemap.Range) object.Node {
	tail := object.EmptyList(call)
	for i := len(items) - 1; i >= 0; i-- {
		p := e.pairs.Allocate(items[i], tail)
		tail = object.Node{Value: object.Value{Kind: object.KindPair, Pair: p}, Range: call}
	}
	return tail
}

func (e *Evaluator) newCompoundID() uint64 {
	e.nextCompoundID++
	return e.nextCompoundID
}
