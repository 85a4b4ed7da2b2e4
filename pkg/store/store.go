// Package store implements the concurrent keyed map of Entries: a lock-striped hash table where mutual
// exclusion is scoped per shard, so operations on keys in different shards never contend with each other.
package store

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/nobletooth/kiwidb/pkg/clock"
)

// shardCount is the number of independently-locked buckets the key space is striped across. It is a power
// of two so hash-mod-N is a cheap mask, following pkg/cache/shard.go's sharding technique in the teacher.
const shardCount = 32

type shard struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// Store is a concurrent map from Key to Entry with per-key atomic operations. It holds no single global
// lock: every operation first resolves the key to one of shardCount shards and only locks that shard.
type Store struct {
	clock  clock.Clock
	shards [shardCount]*shard
}

// New returns an empty Store whose time-based operations read from c.
func New(c clock.Clock) *Store {
	s := &Store{clock: c}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]Entry)}
	}
	return s
}

func (s *Store) shardFor(key []byte) *shard {
	return s.shards[xxhash.Sum64(key)%shardCount]
}

// expireLocked removes key's entry from sh if it is expired at s.clock.Now(). The caller must hold sh.mu.
func (s *Store) expireLocked(sh *shard, key []byte) {
	if e, ok := sh.entries[string(key)]; ok && e.IsExpired(s.clock.Now()) {
		delete(sh.entries, string(key))
		liveKeysMetric.Dec()
	}
}

// ReadFresh eager-expires key, then, if still present, calls project with the entry and returns true.
// Returns false if the key is absent (including just-expired).
func (s *Store) ReadFresh(key []byte, project func(Entry)) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	s.expireLocked(sh, key)
	e, ok := sh.entries[string(key)]
	if !ok {
		return false
	}
	project(e)
	return true
}

// Upsert unconditionally replaces or inserts key's entry.
func (s *Store) Upsert(key []byte, e Entry) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, existed := sh.entries[string(key)]; !existed {
		liveKeysMetric.Inc()
	}
	sh.entries[string(key)] = e
}

// Handle gives exclusive read-modify-write access to one key's entry. It holds its shard's lock for its
// entire lifetime, excluding other writers (and readers) of that key and of every other key in the same
// shard — but not of keys in other shards. Callers
// MUST call Release exactly once.
type Handle struct {
	sh      *shard
	key     []byte
	present bool
	entry   Entry
}

// Entry eager-expires key and returns a Handle positioned on it. Check Present to distinguish Occupied
// from Vacant.
func (s *Store) Entry(key []byte) *Handle {
	sh := s.shardFor(key)
	sh.mu.Lock()
	s.expireLocked(sh, key)
	e, ok := sh.entries[string(key)]
	return &Handle{sh: sh, key: key, present: ok, entry: e}
}

// Release unlocks the handle's shard. It must be called exactly once, and no result from Get remains
// valid for use after it (another goroutine may mutate the key immediately).
func (h *Handle) Release() {
	h.sh.mu.Unlock()
}

// Present reports whether the handle is Occupied (true) or Vacant (false).
func (h *Handle) Present() bool {
	return h.present
}

// Get returns the current entry. Only meaningful when Present is true.
func (h *Handle) Get() Entry {
	return h.entry
}

// Insert writes e as key's entry, turning a Vacant handle Occupied or replacing an Occupied one's value.
func (h *Handle) Insert(e Entry) {
	if !h.present {
		liveKeysMetric.Inc()
	}
	h.sh.entries[string(h.key)] = e
	h.entry = e
	h.present = true
}

// Delete removes key's entry. A no-op on an already-Vacant handle.
func (h *Handle) Delete() {
	if h.present {
		delete(h.sh.entries, string(h.key))
		liveKeysMetric.Dec()
		h.present = false
	}
}
