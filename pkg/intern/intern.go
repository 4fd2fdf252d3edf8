// Package intern provides a deduplicating string table that exchanges
// strings for small fixed-size symbols.
//
// Matrix room state repeats the same key strings heavily: every member
// of a room contributes an "m.room.member" entry, and the same user IDs
// recur across thousands of state snapshots. Interning stores one
// canonical copy of each distinct string and hands back a uint32 Symbol
// in its place, so key comparison reduces to integer comparison and the
// string bytes are held exactly once per table.
package intern

import "strings"

// Symbol is a handle to a string held by a Table. Symbols are assigned
// sequentially, are never reused, and stay valid for the lifetime of
// the table that produced them. A Symbol must never be resolved against
// a different table.
type Symbol uint32

// Table deduplicates strings. It keeps a forward index for interning
// and a reverse index for resolution; entries are never removed.
//
// A Table has a single logical owner and is not safe for concurrent
// mutation. Use [Sharded] when multiple goroutines need to intern
// concurrently.
type Table struct {
	lookup  map[string]Symbol
	strings []string
	bytes   int64

	// HibernationThreshold is the minimum number of interned strings
	// required for Hibernate to compress the table. Zero compresses
	// unconditionally.
	HibernationThreshold int

	hibernated hibernatedTable
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		lookup: make(map[string]Symbol),
	}
}

// Intern returns the symbol for s, assigning the next sequential symbol
// if s has not been seen before. The stored copy is detached from the
// caller's backing array.
func (t *Table) Intern(s string) Symbol {
	if t.lookup == nil {
		panic("intern: cannot use a hibernated Table")
	}

	if sym, ok := t.lookup[s]; ok {
		return sym
	}

	canonical := strings.Clone(s)
	sym := Symbol(len(t.strings))

	t.lookup[canonical] = sym
	t.strings = append(t.strings, canonical)
	t.bytes += int64(len(canonical))

	return sym
}

// Lookup returns the symbol for s if s has been interned. It never
// inserts, so probing with arbitrary strings does not grow the table.
func (t *Table) Lookup(s string) (Symbol, bool) {
	if t.lookup == nil {
		panic("intern: cannot use a hibernated Table")
	}

	sym, ok := t.lookup[s]

	return sym, ok
}

// Resolve returns the canonical string for sym.
func (t *Table) Resolve(sym Symbol) (string, bool) {
	if t.strings == nil && t.hibernated.count > 0 {
		panic("intern: cannot use a hibernated Table")
	}

	if int(sym) >= len(t.strings) {
		return "", false
	}

	return t.strings[sym], true
}

// MustResolve returns the canonical string for sym, panicking if sym
// was not produced by this table. Passing foreign or fabricated symbols
// is a programming error, not a recoverable condition.
func (t *Table) MustResolve(sym Symbol) string {
	s, ok := t.Resolve(sym)
	if !ok {
		panic("intern: symbol not produced by this Table")
	}

	return s
}

// Contains reports whether s has been interned.
func (t *Table) Contains(s string) bool {
	_, ok := t.Lookup(s)

	return ok
}

// Len returns the number of distinct strings held by the table.
func (t *Table) Len() int {
	if t.strings == nil && t.hibernated.count > 0 {
		return t.hibernated.count
	}

	return len(t.strings)
}

// Bytes returns the total number of canonical string bytes held.
func (t *Table) Bytes() int64 {
	return t.bytes
}
