package intern_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/statemap/pkg/intern"
)

// Test constants.
const (
	testMemberType = "m.room.member"
	testUserID     = "@erikj:jki.re"

	// testRepeatCount is the number of duplicate interns in dedup tests.
	testRepeatCount = 1000

	// testDistinctCount is the number of distinct strings in growth tests.
	testDistinctCount = 100
)

// TestIntern_Dedup verifies that repeated interns of one string yield
// one entry and one symbol.
func TestIntern_Dedup(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	first := table.Intern(testMemberType)

	for range testRepeatCount {
		assert.Equal(t, first, table.Intern(testMemberType))
	}

	assert.Equal(t, 1, table.Len())
}

// TestIntern_DistinctStrings verifies distinct strings get distinct
// sequential symbols.
func TestIntern_DistinctStrings(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	seen := make(map[intern.Symbol]bool)

	for i := range testDistinctCount {
		sym := table.Intern(fmt.Sprintf("@user%d:example.com", i))

		assert.False(t, seen[sym])
		seen[sym] = true
	}

	assert.Equal(t, testDistinctCount, table.Len())
}

// TestLookup_NeverInserts verifies probing an unseen string leaves the
// table untouched.
func TestLookup_NeverInserts(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	table.Intern(testMemberType)

	_, ok := table.Lookup("m.room.unseen_type")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

// TestResolve_RoundTrip verifies symbols resolve back to their strings.
func TestResolve_RoundTrip(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	typeSym := table.Intern(testMemberType)
	userSym := table.Intern(testUserID)

	resolved, ok := table.Resolve(typeSym)
	require.True(t, ok)
	assert.Equal(t, testMemberType, resolved)

	resolved, ok = table.Resolve(userSym)
	require.True(t, ok)
	assert.Equal(t, testUserID, resolved)
}

// TestResolve_UnknownSymbol verifies resolving a symbol the table never
// produced reports absence.
func TestResolve_UnknownSymbol(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	table.Intern(testMemberType)

	_, ok := table.Resolve(intern.Symbol(testRepeatCount))
	assert.False(t, ok)
}

// TestMustResolve_Panics verifies MustResolve panics on a foreign symbol.
func TestMustResolve_Panics(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()

	assert.Panics(t, func() {
		table.MustResolve(intern.Symbol(testRepeatCount))
	})
}

// TestContains verifies membership probing.
func TestContains(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	table.Intern(testMemberType)

	assert.True(t, table.Contains(testMemberType))
	assert.False(t, table.Contains(testUserID))
}

// TestBytes tracks canonical string bytes.
func TestBytes(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	table.Intern(testMemberType)
	table.Intern(testMemberType)
	table.Intern(testUserID)

	expected := int64(len(testMemberType) + len(testUserID))
	assert.Equal(t, expected, table.Bytes())
}

// TestIntern_DetachesFromCaller verifies the stored copy survives
// mutation of the caller's backing array.
func TestIntern_DetachesFromCaller(t *testing.T) {
	t.Parallel()

	buf := []byte(testMemberType)
	table := intern.NewTable()
	sym := table.Intern(string(buf))

	buf[0] = 'x'

	assert.Equal(t, testMemberType, table.MustResolve(sym))
}

// TestIntern_EmptyString verifies the empty string interns like any other.
func TestIntern_EmptyString(t *testing.T) {
	t.Parallel()

	table := intern.NewTable()
	sym := table.Intern("")

	resolved, ok := table.Resolve(sym)
	require.True(t, ok)
	assert.Empty(t, resolved)
	assert.Equal(t, 1, table.Len())
}
