package statemap

// Stats holds a snapshot of map and table footprint counters.
type Stats struct {
	Entries         int
	EventTypes      int   // Distinct event types currently present.
	InternedStrings int   // Distinct strings in the backing table, including preseeds.
	InternedBytes   int64 // Canonical string bytes held by the backing table.
	NaiveKeyBytes   int64 // Key string bytes a per-entry representation would hold.
}

// Dedup returns the fraction of naive key bytes avoided by interning
// (0.0 to 1.0). With a shared table the per-map saving is larger than
// this single-map figure.
func (s Stats) Dedup() float64 {
	if s.NaiveKeyBytes == 0 {
		return 0
	}

	saved := s.NaiveKeyBytes - s.InternedBytes
	if saved < 0 {
		return 0
	}

	return float64(saved) / float64(s.NaiveKeyBytes)
}

// Stats returns current footprint counters. NaiveKeyBytes walks every
// entry, so this is O(n).
func (m *Map[V]) Stats() Stats {
	var naive int64

	for typeSym, bucket := range m.buckets {
		typeLen := int64(len(m.table.MustResolve(typeSym)))
		naive += typeLen * int64(len(bucket))

		for keySym := range bucket {
			naive += int64(len(m.table.MustResolve(keySym)))
		}
	}

	return Stats{
		Entries:         m.size,
		EventTypes:      len(m.buckets),
		InternedStrings: m.table.Len(),
		InternedBytes:   m.table.Bytes(),
		NaiveKeyBytes:   naive,
	}
}
