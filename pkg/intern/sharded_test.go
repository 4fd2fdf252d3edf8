package intern_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/statemap/pkg/intern"
)

const (
	// testShardCount is the shard count for sharded tests.
	testShardCount = 8

	// testConcurrentGoroutines is the number of goroutines in
	// concurrency tests.
	testConcurrentGoroutines = 50

	// testConcurrentStrings is the shared string population interned
	// by every goroutine.
	testConcurrentStrings = 200

	// oversizedShardCount exceeds the shard cap.
	oversizedShardCount = 100000
)

// TestSharded_InternResolve verifies the basic round trip.
func TestSharded_InternResolve(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)
	sym := table.Intern(testMemberType)

	assert.Equal(t, sym, table.Intern(testMemberType))
	assert.Equal(t, testMemberType, table.MustResolve(sym))
	assert.Equal(t, 1, table.Len())
}

// TestSharded_Lookup verifies lookup does not insert.
func TestSharded_Lookup(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)
	sym := table.Intern(testMemberType)

	got, ok := table.Lookup(testMemberType)
	require.True(t, ok)
	assert.Equal(t, sym, got)

	_, ok = table.Lookup(testUserID)
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

// TestSharded_ConcurrentIntern verifies goroutines racing over one
// string population agree on every symbol and dedup holds.
func TestSharded_ConcurrentIntern(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)
	results := make([][]intern.Symbol, testConcurrentGoroutines)

	wg := sync.WaitGroup{}
	wg.Add(testConcurrentGoroutines)

	for g := range testConcurrentGoroutines {
		go func(g int) {
			defer wg.Done()

			syms := make([]intern.Symbol, testConcurrentStrings)
			for i := range testConcurrentStrings {
				syms[i] = table.Intern(fmt.Sprintf("@user%d:example.com", i))
			}

			results[g] = syms
		}(g)
	}

	wg.Wait()

	for g := 1; g < testConcurrentGoroutines; g++ {
		assert.Equal(t, results[0], results[g])
	}

	assert.Equal(t, testConcurrentStrings, table.Len())
}

// TestSharded_MustResolvePanics verifies foreign symbols panic.
func TestSharded_MustResolvePanics(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)

	assert.Panics(t, func() {
		table.MustResolve(intern.Symbol(oversizedShardCount))
	})
}

// TestSharded_Bytes sums canonical bytes across shards.
func TestSharded_Bytes(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)
	table.Intern(testMemberType)
	table.Intern(testUserID)

	assert.Equal(t, int64(len(testMemberType)+len(testUserID)), table.Bytes())
}

// TestSharded_ShardCountBounds verifies defaulting and capping.
func TestSharded_ShardCountBounds(t *testing.T) {
	t.Parallel()

	for _, count := range []int{-1, 0, 1, 3, oversizedShardCount} {
		table := intern.NewSharded(count)
		sym := table.Intern(testMemberType)

		assert.Equal(t, testMemberType, table.MustResolve(sym))
	}
}

// TestSharded_HibernateBoot verifies the parallel hibernation cycle.
func TestSharded_HibernateBoot(t *testing.T) {
	t.Parallel()

	table := intern.NewSharded(testShardCount)
	syms := make(map[string]intern.Symbol, testConcurrentStrings)

	for i := range testConcurrentStrings {
		s := fmt.Sprintf("@user%d:example.com", i)
		syms[s] = table.Intern(s)
	}

	table.Hibernate()
	table.Boot()

	require.Equal(t, testConcurrentStrings, table.Len())

	for s, sym := range syms {
		assert.Equal(t, s, table.MustResolve(sym))

		got, ok := table.Lookup(s)
		require.True(t, ok)
		assert.Equal(t, sym, got)
	}
}
