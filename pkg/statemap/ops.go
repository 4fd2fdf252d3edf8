package statemap

import (
	"iter"

	"github.com/Sumatoshi-tech/statemap/pkg/intern"
)

// Clone returns a copy of the map sharing the backing table. Buckets
// are independently allocated; values are copied shallowly.
func (m *Map[V]) Clone() *Map[V] {
	buckets := make(map[intern.Symbol]map[intern.Symbol]V, len(m.buckets))

	for typeSym, bucket := range m.buckets {
		cp := make(map[intern.Symbol]V, len(bucket))

		for keySym, value := range bucket {
			cp[keySym] = value
		}

		buckets[typeSym] = cp
	}

	return &Map[V]{
		table:   m.table,
		buckets: buckets,
		size:    m.size,
	}
}

// Extend inserts every entry of seq, overwriting existing keys.
func (m *Map[V]) Extend(seq iter.Seq2[Key, V]) {
	for key, value := range seq {
		m.Insert(key.Type, key.StateKey, value)
	}
}

// Collect builds a new map from a sequence of entries.
func Collect[V any](seq iter.Seq2[Key, V], opts ...Option[V]) *Map[V] {
	m := New(opts...)
	m.Extend(seq)

	return m
}

// Upsert stores the value produced by fn, which receives the current
// value and whether the key was present. The stored value is returned.
func (m *Map[V]) Upsert(eventType, stateKey string, fn func(old V, ok bool) V) V {
	old, ok := m.Get(eventType, stateKey)
	value := fn(old, ok)
	m.Insert(eventType, stateKey, value)

	return value
}

// AddOrRemove inserts value if the key is vacant or already holds an
// equal value, reporting no conflict. If the key holds a different
// value, the existing entry is removed and returned as the conflict.
// State resolution uses this to strike out contested entries.
func AddOrRemove[V comparable](m *Map[V], eventType, stateKey string, value V) (V, bool) {
	var zero V

	existing, ok := m.Get(eventType, stateKey)
	if !ok {
		m.Insert(eventType, stateKey, value)

		return zero, false
	}

	if existing == value {
		return zero, false
	}

	m.Remove(eventType, stateKey)

	return existing, true
}
