// ==============================================================================================
// FILE: object/pair.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The mutable cons cell and the manager that owns every live one. Pairs are reference
//          counted at the handful of mutation points that can create or destroy a structural
//          edge (allocation, set-car!/set-cdr!, environment bindings); a cycle keeps its
//          members' counts above zero forever, which is exactly the garbage the cycle
//          collector in package gc exists to find.
// ==============================================================================================

package object

import (
	"weak"
)

// Pair is a mutable cons cell. Pairs are identity-bearing: two syntactically
// identical literals are distinct pairs unless explicitly shared (e.g. via
// quote returning the same parsed sub-expression each time).
type Pair struct {
	ID  uint64
	Car Node
	Cdr Node

	rc     int32
	marked bool
}

// Marked reports the cycle collector's current mark bit for p.
func (p *Pair) Marked() bool { return p.marked }

// SetMarked is used by package gc during the mark phase.
func (p *Pair) SetMarked(m bool) { p.marked = m }

// RefCount exposes the simulated reference count, chiefly for PrintStats.
func (p *Pair) RefCount() int32 { return p.rc }

// PairManager allocates every pair and tracks which ones are still
// structurally reachable (other pairs' car/cdr fields, environment
// bindings). The registry itself holds only a weak.Pointer[Pair] per entry —
// it is a non-owning index, mirroring the original's ObjectTracker<T>, which
// stores Weak<T> while real ownership lives in whichever Rc<T> clones the
// evaluator's structural edges hold. In lumen, "real ownership" is simply
// whatever ordinary Go pointer holds the *Pair (a Node embedded in another
// pair's car/cdr, an environment binding, the evaluator's pinned expression
// stack); Go's own allocator keeps that memory alive for as long as such a
// pointer exists, entirely independent of this registry.
//
// rc and the retain/release pair below simulate the target language's
// reference counting purely as bookkeeping over the registry: when a
// structural edge into a pair is released and its count reaches zero, the
// registry entry is dropped immediately (Sweep/Compact never need to find
// it) — the "unreachable non-cyclic graphs are freed eagerly by reference
// counting" requirement. A pair kept alive only by a cycle never reaches
// rc==0 this way, which is exactly why the on-demand mark-and-sweep
// collector in package gc exists. A pair that is allocated and never
// retained into any structural edge at all (a transient, never-bound
// intermediate result) simply accumulates in the registry until its weak
// pointer goes nil and Compact notices — the "registrations accumulate
// until compaction" resource lifetime spec.md describes.
type PairManager struct {
	nextID uint64
	live   map[uint64]weak.Pointer[Pair]
}

// NewPairManager returns an empty manager.
func NewPairManager() *PairManager {
	return &PairManager{live: make(map[uint64]weak.Pointer[Pair])}
}

// Allocate registers and returns a freshly constructed pair. Its fields
// retain whatever pairs car/cdr themselves reference, since those are now
// real structural edges into the new pair. The returned pair starts at
// rc==0: nothing yet holds a structural edge to it, only the caller's own
// Go-level reference.
func (m *PairManager) Allocate(car, cdr Node) *Pair {
	m.nextID++
	p := &Pair{ID: m.nextID, Car: car, Cdr: cdr}
	m.live[p.ID] = weak.Make(p)
	m.retain(car)
	m.retain(cdr)
	return p
}

func (m *PairManager) retain(n Node) {
	if n.Value.Kind == KindPair && n.Value.Pair != nil {
		n.Value.Pair.rc++
	}
}

func (m *PairManager) release(n Node) {
	if n.Value.Kind == KindPair && n.Value.Pair != nil {
		m.releasePair(n.Value.Pair)
	}
}

// releasePair drops one structural edge into p. Reaching rc==0 means no
// tracked edge points at it any longer, so its registry entry is dropped and
// the release cascades into whatever it pointed to in turn — the eager,
// non-cyclic free reference counting is supposed to give. p's own Car/Cdr
// fields are left untouched: p may still be reachable through an ordinary Go
// reference that outlived the structural edge (a compound procedure's return
// value that was also a local binding, for instance), and this registry's
// bookkeeping must never corrupt a struct a live reference still points to.
// Go's own allocator reclaims p's memory once no such reference remains.
func (m *PairManager) releasePair(p *Pair) {
	p.rc--
	if p.rc > 0 {
		return
	}
	if _, ok := m.live[p.ID]; !ok {
		return
	}
	car, cdr := p.Car, p.Cdr
	delete(m.live, p.ID)
	m.release(car)
	m.release(cdr)
}

// Retain is called by the environment whenever a pair-valued Node is stored
// into a new persistent binding slot (define, a fresh frame binding).
func (m *PairManager) Retain(n Node) { m.retain(n) }

// Release is called by the environment whenever a binding slot's old value
// is about to be overwritten or destroyed (set!/change, an uncaptured
// frame's bindings at pop).
func (m *PairManager) Release(n Node) { m.release(n) }

// SetCar mutates p's car field, adjusting reference counts for the value
// being replaced and the value taking its place. This and SetCdr are the
// only mutators that can introduce a cycle.
func (m *PairManager) SetCar(p *Pair, v Node) {
	old := p.Car
	p.Car = v
	m.retain(v)
	m.release(old)
}

// SetCdr is SetCar's mirror image.
func (m *PairManager) SetCdr(p *Pair, v Node) {
	old := p.Cdr
	p.Cdr = v
	m.retain(v)
	m.release(old)
}

// AllLivePairs returns every pair whose registry entry still resolves to a
// live Go object, for the mark phase and for stats reporting. An entry whose
// weak pointer has gone nil (Go's own allocator already reclaimed it because
// no real reference survived anywhere) is skipped, not counted as live.
func (m *PairManager) AllLivePairs() []*Pair {
	out := make([]*Pair, 0, len(m.live))
	for _, w := range m.live {
		if p := w.Value(); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Sweep drops every registered pair whose id is in unmarked — by
// construction these are unreachable from any root, so no live Go reference
// can observe them again. Its car/cdr edges are released, not merely
// dropped, so reference counting finalizes whatever those edges pointed to
// in turn (the sweep may be breaking only part of a larger cycle, or
// releasing an edge into a pair outside the cycle entirely). Returns the
// number of pairs removed.
func (m *PairManager) Sweep(unmarked []*Pair) int {
	n := 0
	for _, p := range unmarked {
		if _, ok := m.live[p.ID]; !ok {
			continue
		}
		car, cdr := p.Car, p.Cdr
		delete(m.live, p.ID)
		n++
		m.release(car)
		m.release(cdr)
	}
	return n
}

// Compact drops registry entries whose weak pointer has already gone nil —
// a pair built and never retained into any structural edge (its rc never
// left zero), kept registered only until Go's own allocator reclaimed the
// underlying memory. Returns the number of entries dropped.
func (m *PairManager) Compact() int {
	n := 0
	for id, w := range m.live {
		if w.Value() == nil {
			delete(m.live, id)
			n++
		}
	}
	return n
}

// Stats reports simple liveness counters for the `(stats)` diagnostic. Live
// counts registry entries, including any not yet pruned by Compact — the
// same "registrations accumulate until compaction" accounting the registry
// itself follows.
type PairStats struct {
	Live   int
	NextID uint64
}

func (m *PairManager) Stats() PairStats {
	return PairStats{Live: len(m.live), NextID: m.nextID}
}

// IsList reports whether walking cdr from p reaches EmptyList without
// revisiting a pair (cycle-safe).
func IsList(p *Pair) bool {
	seen := map[*Pair]bool{}
	cur := p
	for {
		if seen[cur] {
			return false
		}
		seen[cur] = true
		switch cur.Cdr.Value.Kind {
		case KindEmptyList:
			return true
		case KindPair:
			cur = cur.Cdr.Value.Pair
		default:
			return false
		}
	}
}

// TryAsSequence returns the car values of p's spine if IsList(p) holds.
func TryAsSequence(p *Pair) ([]Node, bool) {
	if !IsList(p) {
		return nil, false
	}
	var out []Node
	cur := p
	for {
		out = append(out, cur.Car)
		if cur.Cdr.Value.Kind != KindPair {
			return out, true
		}
		cur = cur.Cdr.Value.Pair
	}
}

// Iter yields p's car values followed by the final non-pair tail (EmptyList
// for a proper list, or the dotted tail for an improper one). It does not
// guard against cycles; callers that might see a cyclic pair should check
// IsList first.
func Iter(p *Pair) (items []Node, tail Node) {
	cur := p
	for {
		items = append(items, cur.Car)
		if cur.Cdr.Value.Kind != KindPair {
			tail = cur.Cdr
			return
		}
		cur = cur.Cdr.Value.Pair
	}
}
