// ==============================================================================================
// FILE: evaluator/special_forms.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: The fixed set of special forms: syntax whose operands are not evaluated uniformly
//          left-to-right before the call, unlike ordinary procedures. Each is installed into a
//          fresh environment as a KindCallable binding by populateEnvironment.
// ==============================================================================================

package evaluator

import (
	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

func quoteForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) != 1 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	return operands[0], nil, nil
}

func ifForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) < 2 || len(operands) > 3 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	test, err := ev.Eval(operands[0])
	if err != nil {
		return object.Node{}, nil, err
	}
	if test.Value.IsTruthy() {
		return ev.EvalInTail(operands[1])
	}
	if len(operands) == 3 {
		return ev.EvalInTail(operands[2])
	}
	return object.Undefined(call), nil, nil
}

func andForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) == 0 {
		return object.Bool(true, call), nil, nil
	}
	for i := 0; i < len(operands)-1; i++ {
		v, err := ev.Eval(operands[i])
		if err != nil {
			return object.Node{}, nil, err
		}
		if !v.Value.IsTruthy() {
			return v, nil, nil
		}
	}
	return ev.EvalInTail(operands[len(operands)-1])
}

func orForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) == 0 {
		return object.Bool(false, call), nil, nil
	}
	for i := 0; i < len(operands)-1; i++ {
		v, err := ev.Eval(operands[i])
		if err != nil {
			return object.Node{}, nil, err
		}
		if v.Value.IsTruthy() {
			return v, nil, nil
		}
	}
	return ev.EvalInTail(operands[len(operands)-1])
}

// condForm implements the `(test body…) …` clause list; `else` is an
// ordinary symbol pre-bound to `#t` in the global frame, not special syntax.
func condForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	for _, clause := range operands {
		if clause.Value.Kind != object.KindPair {
			return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, clause.Range)
		}
		items, ok := object.TryAsSequence(clause.Value.Pair)
		if !ok || len(items) == 0 {
			return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, clause.Range)
		}
		test, body := items[0], items[1:]
		testVal, err := ev.Eval(test)
		if err != nil {
			return object.Node{}, nil, err
		}
		if !testVal.Value.IsTruthy() {
			continue
		}
		if len(body) == 0 {
			return testVal, nil, nil
		}
		for i := 0; i < len(body)-1; i++ {
			if _, err := ev.Eval(body[i]); err != nil {
				return object.Node{}, nil, err
			}
		}
		return ev.EvalInTail(body[len(body)-1])
	}
	return object.Undefined(call), nil, nil
}

// defineForm implements both `define name value-exprs…` and the function
// shorthand `define (name params…) body…`.
func defineForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) < 1 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	switch operands[0].Value.Kind {
	case object.KindSymbol:
		return defineVariable(ev, operands[0].Value.Sym, operands[1:], call)
	case object.KindPair:
		return defineFunction(ev, operands[0].Value.Pair, operands[1:], call)
	default:
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
}

func defineVariable(ev object.Evaluator, name interner.Symbol, valueExprs []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(valueExprs) == 0 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	var val object.Node
	for _, expr := range valueExprs {
		v, err := ev.Eval(expr)
		if err != nil {
			return object.Node{}, nil, err
		}
		val = v
	}
	backfillName(ev, val, name)
	ev.Env().Define(name, val)
	return object.Undefined(call), nil, nil
}

func defineFunction(ev object.Evaluator, header *object.Pair, body []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	items, tail := object.Iter(header)
	if len(items) == 0 || items[0].Value.Kind != object.KindSymbol {
		return object.Node{}, nil, evalerror.New(evalerror.ExpectedIdentifier, call)
	}
	name := items[0].Value.Sym
	sig, err := formalsFromParts(items[1:], tail, call)
	if err != nil {
		return object.Node{}, nil, err
	}
	if len(body) == 0 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	c := makeCompound(ev, sig, body, call)
	c.Name = resolveSymbol(ev, name)
	ev.Env().Define(name, object.Node{Value: object.Value{Kind: object.KindProcedure, Proc: c}, Range: call})
	return object.Undefined(call), nil, nil
}

// backfillName gives an unnamed compound produced by a bare `define` its
// name, the way `(define square (lambda (x) (* x x)))` ends up with a named
// procedure just as the `(define (square x) (* x x))` shorthand does.
func backfillName(ev object.Evaluator, val object.Node, name interner.Symbol) {
	if val.Value.Kind != object.KindProcedure {
		return
	}
	c, ok := val.Value.Proc.(*object.Compound)
	if !ok || c.Name != "" {
		return
	}
	c.Name = resolveSymbol(ev, name)
}

func lambdaForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) < 2 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	sig, err := parseFormals(operands[0], call)
	if err != nil {
		return object.Node{}, nil, err
	}
	c := makeCompound(ev, sig, operands[1:], call)
	return object.Node{Value: object.Value{Kind: object.KindProcedure, Proc: c}, Range: call}, nil, nil
}

func makeCompound(ev object.Evaluator, sig object.Signature, body []object.Node, call sourcemap.Range) *object.Compound {
	e := ev.(*Evaluator)
	return &object.Compound{
		ID:       e.newCompoundID(),
		Sig:      sig,
		Body:     append([]object.Node(nil), body...),
		Captured: ev.Env().CaptureLexicalScope(),
	}
}

func resolveSymbol(ev object.Evaluator, sym interner.Symbol) string {
	s, _ := ev.(*Evaluator).names.Lookup(sym)
	return s
}

// parseFormals parses a lambda/define formals position: a bare symbol
// (AnyArgs), the empty list (FixedArgs with no names), or a (possibly
// dotted) list of symbols (FixedArgs, or MinArgs if dotted).
func parseFormals(n object.Node, call sourcemap.Range) (object.Signature, *evalerror.Error) {
	switch n.Value.Kind {
	case object.KindSymbol:
		return object.Signature{Kind: object.AnyArgs, Rest: n.Value.Sym, HasRest: true}, nil
	case object.KindEmptyList:
		return object.Signature{Kind: object.FixedArgs}, nil
	case object.KindPair:
		items, tail := object.Iter(n.Value.Pair)
		return formalsFromParts(items, tail, call)
	default:
		return object.Signature{}, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
}

func formalsFromParts(items []object.Node, tail object.Node, call sourcemap.Range) (object.Signature, *evalerror.Error) {
	fixed := make([]interner.Symbol, 0, len(items))
	for _, it := range items {
		if it.Value.Kind != object.KindSymbol {
			return object.Signature{}, evalerror.New(evalerror.ExpectedIdentifier, it.Range)
		}
		fixed = append(fixed, it.Value.Sym)
	}
	switch tail.Value.Kind {
	case object.KindEmptyList:
		if hasDuplicate(fixed) {
			return object.Signature{}, evalerror.New(evalerror.DuplicateParameter, call)
		}
		return object.Signature{Kind: object.FixedArgs, Fixed: fixed}, nil
	case object.KindSymbol:
		all := append(append([]interner.Symbol(nil), fixed...), tail.Value.Sym)
		if hasDuplicate(all) {
			return object.Signature{}, evalerror.New(evalerror.DuplicateParameter, call)
		}
		return object.Signature{Kind: object.MinArgs, Fixed: fixed, Rest: tail.Value.Sym, HasRest: true}, nil
	default:
		return object.Signature{}, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
}

func hasDuplicate(syms []interner.Symbol) bool {
	seen := make(map[interner.Symbol]bool, len(syms))
	for _, s := range syms {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}

// letForm evaluates every binding expression in the outer scope (parallel
// binding), then pushes a single new frame holding all of them at once.
func letForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) < 2 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	bindingsNode, body := operands[0], operands[1:]

	var bindingItems []object.Node
	switch bindingsNode.Value.Kind {
	case object.KindEmptyList:
		// no bindings
	case object.KindPair:
		items, ok := object.TryAsSequence(bindingsNode.Value.Pair)
		if !ok {
			return object.Node{}, nil, evalerror.New(evalerror.MalformedBindingList, bindingsNode.Range)
		}
		bindingItems = items
	default:
		return object.Node{}, nil, evalerror.New(evalerror.MalformedBindingList, bindingsNode.Range)
	}

	names := make([]interner.Symbol, 0, len(bindingItems))
	values := make([]object.Node, 0, len(bindingItems))
	seen := make(map[interner.Symbol]bool, len(bindingItems))
	for _, b := range bindingItems {
		if b.Value.Kind != object.KindPair {
			return object.Node{}, nil, evalerror.New(evalerror.MalformedBindingList, b.Range)
		}
		pair, ok := object.TryAsSequence(b.Value.Pair)
		if !ok || len(pair) != 2 {
			return object.Node{}, nil, evalerror.New(evalerror.MalformedBindingList, b.Range)
		}
		nameExpr, valExpr := pair[0], pair[1]
		if nameExpr.Value.Kind != object.KindSymbol {
			return object.Node{}, nil, evalerror.New(evalerror.ExpectedIdentifier, nameExpr.Range)
		}
		if seen[nameExpr.Value.Sym] {
			return object.Node{}, nil, evalerror.New(evalerror.DuplicateVariableInBindings, b.Range)
		}
		seen[nameExpr.Value.Sym] = true
		v, err := ev.Eval(valExpr)
		if err != nil {
			return object.Node{}, nil, err
		}
		names = append(names, nameExpr.Value.Sym)
		values = append(values, v)
	}

	ev.Env().Push(ev.Env().CaptureLexicalScope())
	for i, name := range names {
		ev.Env().Define(name, values[i])
	}
	for i := 0; i < len(body)-1; i++ {
		if _, err := ev.Eval(body[i]); err != nil {
			return object.Node{}, nil, err
		}
	}
	v, tc, err := ev.EvalInTail(body[len(body)-1])
	if err != nil {
		return object.Node{}, nil, err
	}
	ev.Env().Pop()
	return v, tc, nil
}

func setForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) != 2 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	if operands[0].Value.Kind != object.KindSymbol {
		return object.Node{}, nil, evalerror.New(evalerror.ExpectedIdentifier, operands[0].Range)
	}
	v, err := ev.Eval(operands[1])
	if err != nil {
		return object.Node{}, nil, err
	}
	if cerr := ev.Env().Change(operands[0].Value.Sym, v, call); cerr != nil {
		return object.Node{}, nil, cerr
	}
	return object.Undefined(call), nil, nil
}

func setCarForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	return mutatePair(ev, operands, call, ev.Pairs().SetCar)
}

func setCdrForm(ev object.Evaluator, operands []object.Node, call sourcemap.Range) (object.Node, *object.TailCall, *evalerror.Error) {
	return mutatePair(ev, operands, call, ev.Pairs().SetCdr)
}

func mutatePair(ev object.Evaluator, operands []object.Node, call sourcemap.Range, mutate func(*object.Pair, object.Node)) (object.Node, *object.TailCall, *evalerror.Error) {
	if len(operands) != 2 {
		return object.Node{}, nil, evalerror.New(evalerror.MalformedSpecialForm, call)
	}
	target, err := ev.Eval(operands[0])
	if err != nil {
		return object.Node{}, nil, err
	}
	if target.Value.Kind != object.KindPair {
		return object.Node{}, nil, evalerror.New(evalerror.ExpectedPair, operands[0].Range)
	}
	v, err := ev.Eval(operands[1])
	if err != nil {
		return object.Node{}, nil, err
	}
	mutate(target.Value.Pair, v)
	return object.Undefined(call), nil, nil
}
