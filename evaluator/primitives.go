// ==============================================================================================
// FILE: evaluator/primitives.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Primitive procedures: arithmetic, ordering, equality, `not`, `display`, and the
//          gc/stats diagnostics. No pair primitives (cons, car, cdr) are defined here; pairs are
//          mutated only by the set-car!/set-cdr! special forms. Each is an ordinary Builtin — its operands are evaluated
//          left-to-right by the caller before the Go function ever runs.
// ==============================================================================================

package evaluator

import (
	"fmt"
	"math"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

func requireNumbers(args []object.Node) *evalerror.Error {
	for _, a := range args {
		if a.Value.Kind != object.KindNumber {
			return evalerror.New(evalerror.ExpectedNumber, a.Range)
		}
	}
	return nil
}

func addFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	if err := requireNumbers(args); err != nil {
		return object.Node{}, err
	}
	sum := 0.0
	for _, a := range args {
		sum += a.Value.Num
	}
	return object.Number(sum, call), nil
}

func mulFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	if err := requireNumbers(args); err != nil {
		return object.Node{}, err
	}
	product := 1.0
	for _, a := range args {
		product *= a.Value.Num
	}
	return object.Number(product, call), nil
}

func subFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	if err := requireNumbers(args); err != nil {
		return object.Node{}, err
	}
	if len(args) == 1 {
		return object.Number(-args[0].Value.Num, call), nil
	}
	acc := args[0].Value.Num
	for _, a := range args[1:] {
		acc -= a.Value.Num
	}
	return object.Number(acc, call), nil
}

func divFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	if err := requireNumbers(args); err != nil {
		return object.Node{}, err
	}
	if len(args) == 1 {
		if args[0].Value.Num == 0 {
			return object.Node{}, evalerror.New(evalerror.DivisionByZero, args[0].Range)
		}
		return object.Number(1/args[0].Value.Num, call), nil
	}
	acc := args[0].Value.Num
	for _, a := range args[1:] {
		if a.Value.Num == 0 {
			return object.Node{}, evalerror.New(evalerror.DivisionByZero, a.Range)
		}
		acc /= a.Value.Num
	}
	return object.Number(acc, call), nil
}

// remainderFn is the IEEE remainder of two integer-typed doubles; math.Mod
// already follows the sign of the dividend, which is the behavior wanted here.
func remainderFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	if err := requireNumbers(args); err != nil {
		return object.Node{}, err
	}
	if args[1].Value.Num == 0 {
		return object.Node{}, evalerror.New(evalerror.DivisionByZero, args[1].Range)
	}
	return object.Number(math.Mod(args[0].Value.Num, args[1].Value.Num), call), nil
}

func orderingFn(cmp func(a, b float64) bool) object.BuiltinFunc {
	return func(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
		if err := requireNumbers(args); err != nil {
			return object.Node{}, err
		}
		for i := 0; i+1 < len(args); i++ {
			if !cmp(args[i].Value.Num, args[i+1].Value.Num) {
				return object.Bool(false, call), nil
			}
		}
		return object.Bool(true, call), nil
	}
}

func notFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	return object.Bool(!args[0].Value.IsTruthy(), call), nil
}

func eqFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	return object.Bool(valuesEq(args[0].Value, args[1].Value), call), nil
}

// valuesEq implements eq?'s identity rules, one clause per value kind.
func valuesEq(a, b object.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case object.KindUndefined, object.KindEmptyList:
		return true
	case object.KindNumber:
		return a.Num == b.Num
	case object.KindSymbol:
		return a.Sym == b.Sym
	case object.KindBoolean:
		return a.Bool == b.Bool
	case object.KindString:
		return a.Str == b.Str
	case object.KindPair:
		return a.Pair == b.Pair
	case object.KindProcedure:
		switch pa := a.Proc.(type) {
		case *object.Builtin:
			pb, ok := b.Proc.(*object.Builtin)
			return ok && pa == pb
		case *object.Compound:
			pb, ok := b.Proc.(*object.Compound)
			return ok && pa.ID == pb.ID
		default:
			return false
		}
	default:
		return false
	}
}

func gcFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	return object.Number(float64(ev.GC(false)), call), nil
}

func statsFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	fmt.Println(ev.PrintStats())
	return object.Undefined(call), nil
}

// displayFn writes a value's surface-syntax rendering to stdout with no
// trailing newline; the bundled prelude's `newline` is a one-line wrapper
// around it. This is a bare write, not the original's line-buffered
// StdioPrinter — terminal output buffering is an external-collaborator
// concern, not part of the core.
func displayFn(ev object.Evaluator, args []object.Node, call sourcemap.Range) (object.Node, *evalerror.Error) {
	fmt.Print(ev.RenderValue(args[0]))
	return object.Undefined(call), nil
}
