// ==============================================================================================
// FILE: evaluator/diagnostics.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Non-standard diagnostic forms for lumen's self-test harness: (stack-trace),
//          print-and-eval, and test-eq. All three need the unevaluated operand's source text
//          or tail position, so they are special forms rather than ordinary Builtins.
// ==============================================================================================

package evaluator

import (
	"fmt"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// stackTraceForm prints the current traceback, then behaves like an
// implicit `begin` over its operands — tail-evaluating the last one.
func stackTraceForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	fmt.Println(ev.Traceback())
	if len(operands) == 0 {
		return object.Undefined(call), nil, nil
	}
	for i := 0; i < len(operands)-1; i++ {
		if _, err := ev.Eval(operands[i]); err != nil {
			return object.Node{}, nil, err
		}
	}
	return ev.EvalInTail(operands[len(operands)-1])
}

// printAndEvalForm evaluates its one operand and prints "<source> = <value>".
func printAndEvalForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) != 1 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	v, err := ev.Eval(operands[0])
	if err != nil {
		return object.Node{}, nil, err
	}
	fmt.Printf("%s = %s\n", ev.SourceText(operands[0]), ev.RenderValue(v))
	return v, nil, nil
}

// testEqForm evaluates both operands and compares them with eq?'s identity
// rules, printing a pass/fail line and bumping the failed-test counter
// instead of raising — so a prelude's self-tests all run to completion.
func testEqForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) != 2 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	a, err := ev.Eval(operands[0])
	if err != nil {
		return object.Node{}, nil, err
	}
	b, err := ev.Eval(operands[1])
	if err != nil {
		return object.Node{}, nil, err
	}
	lhs, rhs := ev.SourceText(operands[0]), ev.SourceText(operands[1])
	if valuesEq(a.Value, b.Value) {
		fmt.Printf("OK %s = %s\n", lhs, rhs)
	} else {
		fmt.Printf("ERR %s != %s\n", lhs, rhs)
		ev.RecordTestFailure()
	}
	return object.Undefined(call), nil, nil
}
