package intern

import (
	"hash/fnv"
	"sync"
)

// defaultShardCount is used when NewSharded is given a non-positive count.
const defaultShardCount = 16

// maxShardCount bounds the shard-index bits carried inside a Symbol.
const maxShardCount = 256

// Sharded distributes strings over multiple independently locked tables
// so that goroutines can intern concurrently. Each shard is guarded by
// its own RWMutex; resolution of an existing symbol only takes a read
// lock on its shard.
//
// Symbols from a Sharded table carry the shard index in their low bits
// and are only meaningful to the Sharded instance that produced them.
type Sharded struct {
	shards    []shard
	shardBits uint
	shardMask uint32
}

type shard struct {
	mu    sync.RWMutex
	table *Table
}

// NewSharded creates a sharded table. shardCount is rounded up to a
// power of two and capped at 256; non-positive counts use the default.
func NewSharded(shardCount int) *Sharded {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}

	if shardCount > maxShardCount {
		shardCount = maxShardCount
	}

	count := 1
	bits := uint(0)

	for count < shardCount {
		count <<= 1
		bits++
	}

	shards := make([]shard, count)
	for idx := range shards {
		shards[idx].table = NewTable()
	}

	return &Sharded{
		shards:    shards,
		shardBits: bits,
		shardMask: uint32(count - 1),
	}
}

// Intern returns the symbol for s, interning it if unseen. Safe for
// concurrent use.
func (st *Sharded) Intern(s string) Symbol {
	idx := st.shardIndex(s)
	sh := &st.shards[idx]

	// Fast path: the string is usually already interned.
	sh.mu.RLock()
	local, ok := sh.table.Lookup(s)
	sh.mu.RUnlock()

	if ok {
		return st.compose(local, idx)
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Another goroutine may have interned s between the two locks.
	return st.compose(sh.table.Intern(s), idx)
}

// Lookup returns the symbol for s if it has been interned. Safe for
// concurrent use.
func (st *Sharded) Lookup(s string) (Symbol, bool) {
	idx := st.shardIndex(s)
	sh := &st.shards[idx]

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	local, ok := sh.table.Lookup(s)
	if !ok {
		return 0, false
	}

	return st.compose(local, idx), true
}

// Resolve returns the canonical string for sym.
func (st *Sharded) Resolve(sym Symbol) (string, bool) {
	idx := uint32(sym) & st.shardMask
	sh := &st.shards[idx]

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	return sh.table.Resolve(Symbol(uint32(sym) >> st.shardBits))
}

// MustResolve returns the canonical string for sym, panicking on a
// symbol this instance did not produce.
func (st *Sharded) MustResolve(sym Symbol) string {
	s, ok := st.Resolve(sym)
	if !ok {
		panic("intern: symbol not produced by this Sharded table")
	}

	return s
}

// Len returns the total number of distinct strings across all shards.
func (st *Sharded) Len() int {
	total := 0

	for idx := range st.shards {
		sh := &st.shards[idx]

		sh.mu.RLock()
		total += sh.table.Len()
		sh.mu.RUnlock()
	}

	return total
}

// Bytes returns the total canonical string bytes across all shards.
func (st *Sharded) Bytes() int64 {
	var total int64

	for idx := range st.shards {
		sh := &st.shards[idx]

		sh.mu.RLock()
		total += sh.table.Bytes()
		sh.mu.RUnlock()
	}

	return total
}

// Hibernate compresses all shards in parallel. The per-shard
// HibernationThreshold is ignored; hibernation is forced.
func (st *Sharded) Hibernate() {
	wg := sync.WaitGroup{}
	wg.Add(len(st.shards))

	for idx := range st.shards {
		go func(sh *shard) {
			defer wg.Done()

			sh.mu.Lock()
			defer sh.mu.Unlock()

			originalThreshold := sh.table.HibernationThreshold
			sh.table.HibernationThreshold = 0
			sh.table.Hibernate()
			sh.table.HibernationThreshold = originalThreshold
		}(&st.shards[idx])
	}

	wg.Wait()
}

// Boot restores all shards in parallel.
func (st *Sharded) Boot() {
	wg := sync.WaitGroup{}
	wg.Add(len(st.shards))

	for idx := range st.shards {
		go func(sh *shard) {
			defer wg.Done()

			sh.mu.Lock()
			defer sh.mu.Unlock()

			sh.table.Boot()
		}(&st.shards[idx])
	}

	wg.Wait()
}

// shardIndex routes a string to its shard by FNV-1a hash.
func (st *Sharded) shardIndex(s string) uint32 {
	hasher := fnv.New32a()
	hasher.Write([]byte(s))

	return hasher.Sum32() & st.shardMask
}

// compose packs a per-shard symbol and shard index into a global symbol.
func (st *Sharded) compose(local Symbol, shardIdx uint32) Symbol {
	return Symbol(uint32(local)<<st.shardBits | shardIdx)
}
