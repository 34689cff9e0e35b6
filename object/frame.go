// ==============================================================================================
// FILE: object/frame.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Captured lexical scopes. A Frame is one link in the chain a closure snapshots at
//          creation time; frames are reference counted the same way pairs are, so a frame a
//          closure captured outlives the call that pushed it, while an uncaptured frame is
//          dropped the instant its call returns.
// ==============================================================================================

package object

import "github.com/amoghasbhardwaj/lumen/interner"

// Frame is one binding scope in a lexical chain. Parent is nil at the
// bottom of the chain, meaning "fall through to the global frame."
type Frame struct {
	ID       uint64
	Bindings map[interner.Symbol]Node
	Parent   *Frame

	rc     int32
	marked bool
}

func (f *Frame) Marked() bool     { return f.marked }
func (f *Frame) SetMarked(m bool) { f.marked = m }
func (f *Frame) RefCount() int32  { return f.rc }

// ScopeManager allocates every Frame and tracks which are still reachable
// through the structural edges that matter: a child frame's Parent pointer,
// and a Compound procedure's Captured field.
type ScopeManager struct {
	nextID uint64
	live   map[uint64]*Frame

	releaseBinding func(Node)
}

func NewScopeManager() *ScopeManager {
	return &ScopeManager{live: make(map[uint64]*Frame)}
}

// SetReleaseFunc installs the hook Pop/Sweep call on every binding of a
// frame that is actually reclaimed (never on one kept alive by a capture).
// Environment wires this to the pair manager's Release, so a dropped local
// binding's structural edge into a pair is released the instant the frame
// holding it goes away, rather than waiting for an explicit gc() call.
func (m *ScopeManager) SetReleaseFunc(fn func(Node)) { m.releaseBinding = fn }

func (m *ScopeManager) releaseBindings(f *Frame) {
	if m.releaseBinding == nil {
		return
	}
	for _, v := range f.Bindings {
		m.releaseBinding(v)
	}
}

// Push allocates a new, empty frame chained onto parent (which may be nil).
// parent's reference count is incremented, since the new frame's Parent
// field is now a real structural edge into it.
func (m *ScopeManager) Push(parent *Frame) *Frame {
	m.nextID++
	f := &Frame{ID: m.nextID, Bindings: make(map[interner.Symbol]Node), Parent: parent}
	m.live[f.ID] = f
	if parent != nil {
		parent.rc++
	}
	return f
}

// Capture increments f's reference count on behalf of a Compound procedure
// or let-body that is about to hold f as its captured scope. No-op for nil.
func (m *ScopeManager) Capture(f *Frame) {
	if f != nil {
		f.rc++
	}
}

// Pop is called when a call/let scope exits. If nothing captured f while it
// was active (f.rc == 0), it is reclaimed immediately and its parent link
// released in turn; otherwise f persists, kept alive by whatever captured
// it, until an explicit gc() call can prove it unreachable.
func (m *ScopeManager) Pop(f *Frame) {
	if f == nil {
		return
	}
	if f.rc > 0 {
		return
	}
	if _, ok := m.live[f.ID]; !ok {
		return
	}
	parent := f.Parent
	m.releaseBindings(f)
	f.Bindings = nil
	f.Parent = nil
	delete(m.live, f.ID)
	if parent != nil {
		parent.rc--
		m.Pop(parent)
	}
}

// AllLiveFrames returns every frame currently registered, for the mark
// phase and stats reporting.
func (m *ScopeManager) AllLiveFrames() []*Frame {
	out := make([]*Frame, 0, len(m.live))
	for _, f := range m.live {
		out = append(out, f)
	}
	return out
}

// Sweep drops every registered frame whose id is in unmarked. Returns the
// number removed.
func (m *ScopeManager) Sweep(unmarked []*Frame) int {
	n := 0
	for _, f := range unmarked {
		if _, ok := m.live[f.ID]; !ok {
			continue
		}
		m.releaseBindings(f)
		f.Bindings = nil
		f.Parent = nil
		delete(m.live, f.ID)
		n++
	}
	return n
}

// Stats reports simple liveness counters for the `(stats)` diagnostic.
type ScopeStats struct {
	Live   int
	NextID uint64
}

func (m *ScopeManager) Stats() ScopeStats {
	return ScopeStats{Live: len(m.live), NextID: m.nextID}
}
