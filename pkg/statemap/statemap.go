// Package statemap provides a memory-efficient container for Matrix
// room state: a mapping from (event type, state key) pairs to opaque
// values such as event IDs.
//
// Both key components are deduplicated through a [intern.Table], so an
// event type like "m.room.member" is stored once no matter how many
// members a room has, and many snapshots can share one table to store
// each recurring user ID once. Entries are bucketed by event type,
// which makes the common "all members" access pattern a direct bucket
// walk instead of a full scan.
//
// A Map has a single logical owner and is not safe for concurrent
// mutation; wrap it in caller-level synchronization if sharing across
// goroutines.
package statemap

import (
	"github.com/Sumatoshi-tech/statemap/pkg/intern"
)

// Key is a resolved (event type, state key) pair.
type Key struct {
	Type     string
	StateKey string
}

// Map is a state map from (event type, state key) to V. Values are
// opaque; the map never inspects them.
type Map[V any] struct {
	table   *intern.Table
	buckets map[intern.Symbol]map[intern.Symbol]V
	size    int
}

// Option configures a Map.
type Option[V any] func(*Map[V])

// WithTable binds the map to an existing intern table. Maps that share
// a table share one canonical copy of every key string; the table must
// outlive every map bound to it.
func WithTable[V any](table *intern.Table) Option[V] {
	return func(m *Map[V]) {
		m.table = table
	}
}

// New creates an empty state map. Without WithTable it owns a private
// table preseeded with the well-known Matrix event types.
func New[V any](opts ...Option[V]) *Map[V] {
	m := &Map[V]{
		buckets: make(map[intern.Symbol]map[intern.Symbol]V),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.table == nil {
		m.table = NewTable()
	}

	return m
}

// Insert stores value under (eventType, stateKey), overwriting any
// existing entry. Both strings are interned, which may grow the
// backing table.
func (m *Map[V]) Insert(eventType, stateKey string, value V) {
	typeSym := m.table.Intern(eventType)
	keySym := m.table.Intern(stateKey)

	bucket, ok := m.buckets[typeSym]
	if !ok {
		bucket = make(map[intern.Symbol]V)
		m.buckets[typeSym] = bucket
	}

	if _, exists := bucket[keySym]; !exists {
		m.size++
	}

	bucket[keySym] = value
}

// Get returns the value stored under (eventType, stateKey). If either
// string has never been interned the pair cannot be present, so the
// lookup short-circuits without growing the table.
func (m *Map[V]) Get(eventType, stateKey string) (V, bool) {
	var zero V

	typeSym, ok := m.table.Lookup(eventType)
	if !ok {
		return zero, false
	}

	keySym, ok := m.table.Lookup(stateKey)
	if !ok {
		return zero, false
	}

	value, ok := m.buckets[typeSym][keySym]

	return value, ok
}

// Remove deletes the entry under (eventType, stateKey) and returns the
// prior value. The backing table is left untouched; its symbols may be
// referenced by other entries or other maps.
func (m *Map[V]) Remove(eventType, stateKey string) (V, bool) {
	var zero V

	typeSym, ok := m.table.Lookup(eventType)
	if !ok {
		return zero, false
	}

	keySym, ok := m.table.Lookup(stateKey)
	if !ok {
		return zero, false
	}

	bucket, ok := m.buckets[typeSym]
	if !ok {
		return zero, false
	}

	value, ok := bucket[keySym]
	if !ok {
		return zero, false
	}

	delete(bucket, keySym)
	m.size--

	if len(bucket) == 0 {
		delete(m.buckets, typeSym)
	}

	return value, true
}

// Contains reports whether an entry exists under (eventType, stateKey).
func (m *Map[V]) Contains(eventType, stateKey string) bool {
	_, ok := m.Get(eventType, stateKey)

	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return m.size
}

// IsEmpty reports whether the map has no entries.
func (m *Map[V]) IsEmpty() bool {
	return m.size == 0
}

// Table returns the backing intern table, for sharing with other maps
// or for inspection.
func (m *Map[V]) Table() *intern.Table {
	return m.table
}
