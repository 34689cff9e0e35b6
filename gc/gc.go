// ==============================================================================================
// FILE: gc/gc.go
// ==============================================================================================
// PACKAGE: gc
// PURPOSE: The on-demand mark-and-sweep cycle collector. Pairs and captured scopes are
//          reference counted at the edges package object knows how to maintain precisely; a
//          cycle keeps every member's count above zero forever, so this is the only mechanism
//          that can ever reclaim one. Runs only when invoked, never implicitly.
// ==============================================================================================

package gc

import "github.com/amoghasbhardwaj/lumen/object"

// Roots is the GC root set: every place a live value can be reached from
// without going through another managed object's structural edges.
type Roots struct {
	// Global holds every binding in the global frame.
	Global []object.Node
	// Frames holds every lexical frame currently on the evaluator's active
	// call stack (empty at rest, since frames are popped on normal return
	// and cleared before each top-level Evaluate on error paths).
	Frames []*object.Frame
	// Pinned holds any expression currently being walked by eval — the
	// "GC-root set holding evaluation-in-progress expressions." Empty
	// between top-level Evaluate calls.
	Pinned []object.Node
}

// Collector runs mark-and-sweep over a PairManager and a ScopeManager.
type Collector struct {
	Pairs  *object.PairManager
	Scopes *object.ScopeManager
}

// New returns a collector over the given managers.
func New(pairs *object.PairManager, scopes *object.ScopeManager) *Collector {
	return &Collector{Pairs: pairs, Scopes: scopes}
}

// visitor tracks visited object identities so the traversal never descends
// into the same pair or frame twice, which also makes it safe on cycles.
type visitor struct {
	pairs  map[*object.Pair]bool
	frames map[*object.Frame]bool
}

// Collect runs one mark-and-sweep pass from roots and returns the number of
// pairs and frames found unreachable and reclaimed.
func (c *Collector) Collect(roots Roots) int {
	c.beginMark()

	v := &visitor{pairs: map[*object.Pair]bool{}, frames: map[*object.Frame]bool{}}
	for _, n := range roots.Global {
		c.markNode(v, n)
	}
	for _, f := range roots.Frames {
		c.markFrame(v, f)
	}
	for _, n := range roots.Pinned {
		c.markNode(v, n)
	}

	var deadPairs []*object.Pair
	for _, p := range c.Pairs.AllLivePairs() {
		if !p.Marked() {
			deadPairs = append(deadPairs, p)
		}
	}
	var deadFrames []*object.Frame
	for _, f := range c.Scopes.AllLiveFrames() {
		if !f.Marked() {
			deadFrames = append(deadFrames, f)
		}
	}

	n := c.Pairs.Sweep(deadPairs)
	n += c.Scopes.Sweep(deadFrames)
	return n
}

func (c *Collector) beginMark() {
	for _, p := range c.Pairs.AllLivePairs() {
		p.SetMarked(false)
	}
	for _, f := range c.Scopes.AllLiveFrames() {
		f.SetMarked(false)
	}
}

func (c *Collector) markNode(v *visitor, n object.Node) {
	switch n.Value.Kind {
	case object.KindPair:
		c.markPair(v, n.Value.Pair)
	case object.KindProcedure:
		c.markProcedure(v, n.Value.Proc)
	}
}

func (c *Collector) markPair(v *visitor, p *object.Pair) {
	if p == nil || v.pairs[p] {
		return
	}
	v.pairs[p] = true
	p.SetMarked(true)
	c.markNode(v, p.Car)
	c.markNode(v, p.Cdr)
}

func (c *Collector) markProcedure(v *visitor, p object.Procedure) {
	compound, ok := p.(*object.Compound)
	if !ok {
		return
	}
	c.markFrame(v, compound.Captured)
	for _, expr := range compound.Body {
		c.markNode(v, expr)
	}
}

func (c *Collector) markFrame(v *visitor, f *object.Frame) {
	if f == nil || v.frames[f] {
		return
	}
	v.frames[f] = true
	f.SetMarked(true)
	for _, n := range f.Bindings {
		c.markNode(v, n)
	}
	c.markFrame(v, f.Parent)
}
