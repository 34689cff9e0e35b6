// ==============================================================================================
// FILE: evaluator/environment_setup.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Builds the global environment a fresh Evaluator starts with: every special form and
//          primitive procedure, plus `else` pre-bound to `#t`. This is the "richer,
//          populate_environment" organization the design notes call for — one entry point, no
//          partial duplication of an older primitive set.
// ==============================================================================================

package evaluator

import (
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

func (e *Evaluator) populateEnvironment() {
	synthetic := sourcemap.Range{}

	special := map[string]object.SpecialForm{
		"quote":       quoteForm,
		"if":          ifForm,
		"and":         andForm,
		"or":          orForm,
		"cond":        condForm,
		"define":      defineForm,
		"lambda":      lambdaForm,
		"let":         letForm,
		"set!":        setForm,
		"set-car!":    setCarForm,
		"set-cdr!":    setCdrForm,
		"stack-trace": stackTraceForm,
		"print-and-eval": printAndEvalForm,
		"test-eq":     testEqForm,
	}
	for name, fn := range special {
		sym := e.names.Intern(name)
		e.env.Define(sym, object.Node{Value: object.Value{Kind: object.KindCallable, Special: fn}, Range: synthetic})
	}

	builtins := map[string]*object.Builtin{
		"+":         {Name: "+", Arity: object.NullaryVariadic, Fn: addFn},
		"*":         {Name: "*", Arity: object.NullaryVariadic, Fn: mulFn},
		"-":         {Name: "-", Arity: object.UnaryVariadic, Fn: subFn},
		"/":         {Name: "/", Arity: object.UnaryVariadic, Fn: divFn},
		"remainder": {Name: "remainder", Arity: object.Binary, Fn: remainderFn},
		"<":         {Name: "<", Arity: object.NullaryVariadic, Fn: orderingFn(func(a, b float64) bool { return a < b })},
		"<=":        {Name: "<=", Arity: object.NullaryVariadic, Fn: orderingFn(func(a, b float64) bool { return a <= b })},
		">":         {Name: ">", Arity: object.NullaryVariadic, Fn: orderingFn(func(a, b float64) bool { return a > b })},
		">=":        {Name: ">=", Arity: object.NullaryVariadic, Fn: orderingFn(func(a, b float64) bool { return a >= b })},
		"=":         {Name: "=", Arity: object.NullaryVariadic, Fn: orderingFn(func(a, b float64) bool { return a == b })},
		"eq?":       {Name: "eq?", Arity: object.Binary, Fn: eqFn},
		"not":       {Name: "not", Arity: object.Unary, Fn: notFn},
		"gc":        {Name: "gc", Arity: object.Nullary, Fn: gcFn},
		"stats":     {Name: "stats", Arity: object.Nullary, Fn: statsFn},
		"display":   {Name: "display", Arity: object.Unary, Fn: displayFn},
	}
	for name, b := range builtins {
		sym := e.names.Intern(name)
		e.env.Define(sym, object.Node{Value: object.Value{Kind: object.KindProcedure, Proc: b}, Range: synthetic})
	}

	elseSym := e.names.Intern("else")
	e.env.Define(elseSym, object.Bool(true, synthetic))
}
