// ==============================================================================================
// FILE: object/environment.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The binding environment: one global frame plus a stack of lexical frames realized as
//          a parent-linked chain. define/change/get implement lookup and mutation; push/pop and
//          capture_lexical_scope give closures and let their scope semantics.
// ==============================================================================================

package object

import (
	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interner"
	"github.com/amoghasbhardwaj/lumen/sourcemap"
)

// Environment is the global frame plus the currently active lexical chain.
type Environment struct {
	global map[interner.Symbol]Node
	top    *Frame
	scopes *ScopeManager
	pairs  *PairManager
	names  *interner.Interner
}

// NewEnvironment returns an environment with an empty global frame and no
// active lexical frames. names is used only to resolve identifiers for
// UnboundVariable errors.
func NewEnvironment(scopes *ScopeManager, pairs *PairManager, names *interner.Interner) *Environment {
	scopes.SetReleaseFunc(pairs.Release)
	return &Environment{global: make(map[interner.Symbol]Node), scopes: scopes, pairs: pairs, names: names}
}

// CaptureLexicalScope returns a snapshot of the current lexical chain (nil
// if none is active). The snapshot is cheap: it is a handle shared by
// reference, not a copy.
func (e *Environment) CaptureLexicalScope() *Frame {
	e.scopes.Capture(e.top)
	return e.top
}

// Push installs a new, empty frame whose parent is scope and makes it the
// active frame.
func (e *Environment) Push(scope *Frame) {
	e.top = e.scopes.Push(scope)
}

// Pop removes the topmost frame, restoring its parent as active. Must be
// balanced with Push on all non-error exit paths; on error paths the caller
// of Evaluate resets the chain via ClearLexicalScopes instead.
func (e *Environment) Pop() {
	if e.top == nil {
		return
	}
	dead := e.top
	e.top = dead.Parent
	e.scopes.Pop(dead)
}

// ClearLexicalScopes drops every active lexical frame, as if each had been
// popped in turn. Used before each top-level Evaluate call, since a prior
// error may have left frames in place for traceback inspection.
func (e *Environment) ClearLexicalScopes() {
	for e.top != nil {
		e.Pop()
	}
}

// Define binds name in the innermost frame (the global frame if no lexical
// frame is active).
func (e *Environment) Define(name interner.Symbol, value Node) {
	if e.top != nil {
		e.bindIn(e.top.Bindings, name, value)
		return
	}
	e.bindIn(e.global, name, value)
}

func (e *Environment) bindIn(table map[interner.Symbol]Node, name interner.Symbol, value Node) {
	if old, ok := table[name]; ok {
		e.pairs.Release(old)
	}
	table[name] = value
	e.pairs.Retain(value)
}

// Change locates the nearest binding of name (lexical chain, then global)
// and mutates it in place. Fails with UnboundVariable if absent.
func (e *Environment) Change(name interner.Symbol, value Node, r sourcemap.Range) *evalerror.Error {
	for f := e.top; f != nil; f = f.Parent {
		if _, ok := f.Bindings[name]; ok {
			e.bindIn(f.Bindings, name, value)
			return nil
		}
	}
	if _, ok := e.global[name]; ok {
		e.bindIn(e.global, name, value)
		return nil
	}
	return evalerror.NewUnboundVariable(e.resolveName(name), r)
}

// Get performs the same search as Change, returning the bound value.
func (e *Environment) Get(name interner.Symbol) (Node, bool) {
	for f := e.top; f != nil; f = f.Parent {
		if v, ok := f.Bindings[name]; ok {
			return v, true
		}
	}
	v, ok := e.global[name]
	return v, ok
}

func (e *Environment) resolveName(name interner.Symbol) string {
	if e.names == nil {
		return ""
	}
	s, _ := e.names.Lookup(name)
	return s
}

// CurrentFrame exposes the active frame, used by the mark phase to walk
// roots.
func (e *Environment) CurrentFrame() *Frame { return e.top }

// GlobalBindings exposes the global frame for the mark phase.
func (e *Environment) GlobalBindings() map[interner.Symbol]Node { return e.global }
