package statemap_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/statemap/pkg/statemap"
)

// statsMemberCount is the membership population in stats tests.
const statsMemberCount = 100

// TestStats_Counters verifies entry and bucket counters.
func TestStats_Counters(t *testing.T) {
	t.Parallel()

	m := statemap.New[int]()
	m.Insert(statemap.TypeCreate, "", 1)
	m.Insert(statemap.TypeMember, testUserID, 2)
	m.Insert(statemap.TypeMember, testOtherUserID, 3)

	stats := m.Stats()

	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 2, stats.EventTypes)
	assert.Equal(t, m.Table().Len(), stats.InternedStrings)
	assert.Equal(t, m.Table().Bytes(), stats.InternedBytes)
}

// TestStats_NaiveKeyBytes verifies the naive footprint counts every
// repeated type string once per entry.
func TestStats_NaiveKeyBytes(t *testing.T) {
	t.Parallel()

	m := statemap.New[int]()

	var expected int64

	for i := range statsMemberCount {
		user := fmt.Sprintf("@user%04d:example.com", i)
		m.Insert(statemap.TypeMember, user, i)
		expected += int64(len(statemap.TypeMember) + len(user))
	}

	stats := m.Stats()

	assert.Equal(t, expected, stats.NaiveKeyBytes)

	// A heavily repeated event type makes interning a clear win even
	// against the preseeded table baseline.
	assert.Greater(t, stats.NaiveKeyBytes, stats.InternedBytes)
	assert.Positive(t, stats.Dedup())
}

// TestStats_EmptyMap verifies zero-division safety.
func TestStats_EmptyMap(t *testing.T) {
	t.Parallel()

	m := statemap.New[int]()
	stats := m.Stats()

	assert.Zero(t, stats.Entries)
	assert.Zero(t, stats.NaiveKeyBytes)
	assert.Zero(t, stats.Dedup())
}
