// ==============================================================================================
// FILE: interner/interner.go
// ==============================================================================================
// PACKAGE: interner
// PURPOSE: Maps textual identifiers to compact integer handles so that symbol
//          equality is a single integer comparison instead of a string compare.
// ==============================================================================================

package interner

import "sync"

// Symbol is the handle produced by interning a string. Two symbols compare
// equal iff the original text was identical.
type Symbol uint32

// Interner owns the bidirectional mapping between text and handles.
type Interner struct {
	mu           sync.Mutex
	stringsToIDs map[string]Symbol
	idsToStrings []string
}

// New returns an empty interner.
func New() *Interner {
	return &Interner{
		stringsToIDs: make(map[string]Symbol),
	}
}

// Intern returns the handle for s, allocating a fresh one if s has not been
// seen before.
func (in *Interner) Intern(s string) Symbol {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.stringsToIDs[s]; ok {
		return id
	}
	id := Symbol(len(in.idsToStrings))
	in.idsToStrings = append(in.idsToStrings, s)
	in.stringsToIDs[s] = id
	return id
}

// Lookup returns the original text for a handle, and whether it was found.
func (in *Interner) Lookup(sym Symbol) (string, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(sym) < 0 || int(sym) >= len(in.idsToStrings) {
		return "", false
	}
	return in.idsToStrings[sym], true
}

// MustLookup panics if sym was never interned by this Interner. Used where
// the caller already guarantees the handle is valid.
func (in *Interner) MustLookup(sym Symbol) string {
	s, ok := in.Lookup(sym)
	if !ok {
		panic("interner: unknown symbol handle")
	}
	return s
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.idsToStrings)
}
