// ==============================================================================================
// FILE: object/object.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Defines the value model every lumen expression and runtime result is made of: the
//          tagged Value union, source-mapped Nodes, mutable cons Pairs, mutable strings, and
//          compound/builtin procedures. Code and data share this one representation, the way
//          quote's "return e unevaluated" requires.
// ==============================================================================================

package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// Kind tags which variant of the Value union is populated.
type Kind int

const (
	KindUndefined Kind = iota
	KindEmptyList
	KindNumber
	KindBoolean
	KindSymbol
	KindString
	KindPair
	KindProcedure
	KindCallable // a special form; only ever appears as the operator of a combination
)

// Value is the universal runtime datum. Exactly one field is meaningful,
// selected by Kind; the rest are zero. Passing Value by value is cheap and
// intentional — Pair, String, and Procedure are themselves pointers, so
// copying a Value never deep-copies the structure it denotes.
type Value struct {
	Kind    Kind
	Num     float64
	Bool    bool
	Sym     interner.Symbol
	Str     *MutableString
	Pair    *Pair
	Proc    Procedure
	Special SpecialForm
}

// Node pairs a Value with the source range it was parsed from, so every
// evaluated expression can be traced back to where it came from.
// Internally synthesized values (e.g. the primitives and special forms a
// fresh environment is populated with) use a synthetic, sourceless range.
type Node struct {
	Value Value
	Range sourcemap.Range
}

// Undefined is the result of expressions with no useful value: an `if` with
// no alternate taken, `set!`, `define`, etc.
func Undefined(r sourcemap.Range) Node { return Node{Value: Value{Kind: KindUndefined}, Range: r} }

// EmptyList is the canonical nil / '() value.
func EmptyList(r sourcemap.Range) Node { return Node{Value: Value{Kind: KindEmptyList}, Range: r} }

// Number wraps a float64 literal.
func Number(n float64, r sourcemap.Range) Node {
	return Node{Value: Value{Kind: KindNumber, Num: n}, Range: r}
}

// Bool wraps a boolean literal.
func Bool(b bool, r sourcemap.Range) Node {
	return Node{Value: Value{Kind: KindBoolean, Bool: b}, Range: r}
}

// Symbol wraps an interned identifier.
func Symbol(sym interner.Symbol, r sourcemap.Range) Node {
	return Node{Value: Value{Kind: KindSymbol, Sym: sym}, Range: r}
}

// String wraps a freshly allocated mutable string cell.
func String(s string, r sourcemap.Range) Node {
	return Node{Value: Value{Kind: KindString, Str: NewMutableString(s)}, Range: r}
}

// IsTruthy implements the language's truthiness rule: only the literal #f is
// false, everything else (including 0, "", '(), and procedures) is true.
func (v Value) IsTruthy() bool {
	return !(v.Kind == KindBoolean && !v.Bool)
}

// MutableString is a shared-reference text cell. Two strings are eq? iff
// they share identity, which is exactly Go pointer identity here.
type MutableString struct {
	Chars []rune
}

// NewMutableString allocates a fresh, independently-identified string cell.
func NewMutableString(s string) *MutableString {
	return &MutableString{Chars: []rune(s)}
}

func (s *MutableString) String() string { return string(s.Chars) }

// Signature describes a compound procedure's parameter list.
type SignatureKind int

const (
	FixedArgs SignatureKind = iota
	MinArgs
	AnyArgs
)

// Signature is one of FixedArgs(names), MinArgs(fixedNames, restName), or
// AnyArgs(restName). Parameter names must be pairwise unique (checked by the
// lambda special form at construction time, not here).
type Signature struct {
	Kind   SignatureKind
	Fixed  []interner.Symbol
	Rest   interner.Symbol
	HasRest bool
}

// Arity describes how many operands a primitive accepts.
type Arity int

const (
	Nullary Arity = iota
	Unary
	Binary
	NullaryVariadic
	UnaryVariadic
)

// Accepts reports whether n operands satisfy this arity class.
func (a Arity) Accepts(n int) bool {
	switch a {
	case Nullary:
		return n == 0
	case Unary:
		return n == 1
	case Binary:
		return n == 2
	case NullaryVariadic:
		return n >= 0
	case UnaryVariadic:
		return n >= 1
	default:
		return false
	}
}

// Procedure is implemented by *Builtin and *Compound. It exists only to let
// Value.Proc hold either without an interface{} escape hatch.
type Procedure interface {
	ProcedureName() string
	procedureMarker()
}

// Builtin is a primitive procedure implemented in Go. Two builtins are eq?
// iff they are the same Go function value, which in practice means the same
// *Builtin pointer (builtins are allocated once, at environment setup).
type Builtin struct {
	Name  string
	Arity Arity
	Fn    BuiltinFunc
}

// BuiltinFunc is the shape every primitive procedure implements. call is the
// combination's full range, used to anchor arity-mismatch errors.
type BuiltinFunc func(ev Evaluator, args []Node, call sourcemap.Range) (Node, *evalerror.Error)

func (b *Builtin) ProcedureName() string { return b.Name }
func (b *Builtin) procedureMarker()      {}

// Compound is a user-defined procedure: immutable apart from Name, which
// `define` back-fills once if the procedure was anonymous at construction.
// Equality is by ID.
type Compound struct {
	ID       uint64
	Name     string
	Sig      Signature
	Body     []Node
	Captured *Frame
}

func (c *Compound) ProcedureName() string { return c.Name }
func (c *Compound) procedureMarker()      {}

// SpecialForm implements a special form's evaluation rule: it receives the
// unevaluated operand slice and the enclosing combination's range, and may
// itself return a TailCall to keep a trampoline running.
type SpecialForm func(ev Evaluator, operands []Node, call sourcemap.Range) (Node, *TailCall, *evalerror.Error)

// Evaluator is the subset of evaluator.Evaluator that object-level code
// (builtins, special forms) needs. Defined here, implemented there, to keep
// object free of an import on evaluator (which imports object).
type Evaluator interface {
	Eval(n Node) (Node, *evalerror.Error)
	EvalInTail(n Node) (Node, *TailCall, *evalerror.Error)
	Env() *Environment
	Pairs() *PairManager
	Scopes() *ScopeManager

	// GC runs the on-demand cycle collector.
	GC(debug bool) int
	// Traceback renders the post-error call stack.
	Traceback() string
	// PrintStats renders pair/scope/interner liveness counters, for the
	// `(stats)` diagnostic primitive.
	PrintStats() string
	// RecordTestFailure increments the self-test failure counter `test-eq`
	// reports through, surfaced externally as FailedTests().
	RecordTestFailure()
	// SourceText returns the verbatim source substring n was parsed from,
	// for `print-and-eval`'s "<source-text> = <value>" rendering.
	SourceText(n Node) string
	// RenderValue renders n's value with symbols resolved to their textual
	// names, for diagnostic and REPL output.
	RenderValue(n Node) string
}

// TailCall is a bound, not-yet-invoked procedure application produced by
// eval_in_tail for a call in tail position. The trampoline in the evaluator
// loops on these without growing the native or explicit call stack.
type TailCall struct {
	Proc Procedure
	Args []Node
	Call sourcemap.Range
}

// Render produces the surface-syntax text for a value.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n.Value, nil)
	return b.String()
}

// RenderNamed is Render, but resolves Symbol values through in for readable
// output; without it symbols render as their raw numeric handle.
func RenderNamed(n Node, in *interner.Interner) string {
	var b strings.Builder
	render(&b, n.Value, in)
	return b.String()
}

func render(b *strings.Builder, v Value, in *interner.Interner) {
	switch v.Kind {
	case KindUndefined:
		// renders as nothing
	case KindEmptyList:
		b.WriteString("()")
	case KindNumber:
		b.WriteString(formatNumber(v.Num))
	case KindBoolean:
		if v.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindSymbol:
		if in != nil {
			b.WriteString(in.MustLookup(v.Sym))
		} else {
			fmt.Fprintf(b, "sym#%d", v.Sym)
		}
	case KindString:
		b.WriteString(v.Str.String())
	case KindPair:
		renderPair(b, v.Pair, in)
	case KindProcedure:
		renderProc(b, v.Proc)
	case KindCallable:
		b.WriteString("#<special form>")
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func renderProc(b *strings.Builder, p Procedure) {
	switch proc := p.(type) {
	case *Builtin:
		fmt.Fprintf(b, "#<builtin procedure %s>", proc.Name)
	case *Compound:
		if proc.Name == "" {
			fmt.Fprintf(b, "#<procedure #%d>", proc.ID)
		} else {
			fmt.Fprintf(b, "#<procedure %s #%d>", proc.Name, proc.ID)
		}
	}
}

// renderPair walks car/cdr, detecting self-revisitation (a pair reachable
// from itself via cdr) and rendering that case as the literal <CYCLIC LIST>.
func renderPair(b *strings.Builder, p *Pair, in *interner.Interner) {
	seen := map[*Pair]bool{}
	b.WriteString("(")
	cur := p
	first := true
	for {
		if seen[cur] {
			b.WriteString("<CYCLIC LIST>")
			break
		}
		seen[cur] = true
		if !first {
			b.WriteString(" ")
		}
		first = false
		render(b, cur.Car.Value, in)
		if cur.Cdr.Value.Kind == KindPair {
			cur = cur.Cdr.Value.Pair
			continue
		}
		if cur.Cdr.Value.Kind != KindEmptyList {
			b.WriteString(" . ")
			render(b, cur.Cdr.Value, in)
		}
		break
	}
	b.WriteString(")")
}
