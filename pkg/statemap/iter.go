package statemap

import "iter"

// All returns a lazy sequence over every entry, resolving key symbols
// back to strings at yield time. Entry order is unspecified. The map
// must not be mutated while iterating.
func (m *Map[V]) All() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		for typeSym, bucket := range m.buckets {
			eventType := m.table.MustResolve(typeSym)

			for keySym, value := range bucket {
				key := Key{Type: eventType, StateKey: m.table.MustResolve(keySym)}
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Keys returns a lazy sequence over every key.
func (m *Map[V]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for key := range m.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// Values returns a lazy sequence over every value.
func (m *Map[V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for typeSym := range m.buckets {
			for _, value := range m.buckets[typeSym] {
				if !yield(value) {
					return
				}
			}
		}
	}
}

// ByType returns a lazy sequence over all entries of one event type,
// yielding (state key, value) pairs. This is a direct bucket walk:
// iterating "m.room.member" entries does not scan the rest of the map.
func (m *Map[V]) ByType(eventType string) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		typeSym, ok := m.table.Lookup(eventType)
		if !ok {
			return
		}

		for keySym, value := range m.buckets[typeSym] {
			if !yield(m.table.MustResolve(keySym), value) {
				return
			}
		}
	}
}
