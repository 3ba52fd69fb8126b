package highlight

import (
	"time"

	"github.com/zeebo/xxh3"
)

// Priority selects which queue a prefetch enters. High is for lines
// currently on screen, Low for overscan prefetch.
type Priority int

const (
	High Priority = iota
	Low
)

// Item identifies one line to tokenize.
type Item struct {
	Language string
	Content  string
}

// key collapses an item to a cache key.
func (it Item) key() uint64 {
	var h xxh3.Hasher
	_, _ = h.WriteString(it.Language)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(it.Content)
	return h.Sum64()
}

type job struct {
	item Item
	gen  uint64
}

// DefaultBudget is how long one Step slice may tokenize before
// yielding back to the caller.
const DefaultBudget = 5 * time.Millisecond

// DefaultCapacity bounds the token cache entry count.
const DefaultCapacity = 2000

// Scheduler keeps a line-to-tokens cache populated without blocking
// the render loop. It is cooperative and single-goroutine: the owner
// calls Step from its own loop, and Step returns after a small time
// budget. Cancellation is a generation counter, not interruption: a
// job stamped with an old generation is dropped when dequeued, and no
// stale result is ever written to the cache.
type Scheduler struct {
	gen      uint64
	high     []job
	low      []job
	inflight map[uint64]struct{}
	store    *tokenStore
	budget   time.Duration

	staleDropped int

	now func() time.Time // test hook
}

// NewScheduler creates a scheduler whose cache holds up to capacity
// entries (DefaultCapacity when <= 0).
func NewScheduler(capacity int) *Scheduler {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Scheduler{
		inflight: make(map[uint64]struct{}),
		store:    newTokenStore(capacity),
		budget:   DefaultBudget,
		now:      time.Now,
	}
}

// Get returns the cached tokens for an item, if present.
func (s *Scheduler) Get(item Item) ([]Token, bool) {
	return s.store.get(item.key())
}

// Prefetch enqueues tokenization jobs for every item not already
// cached or in flight, stamped with the current generation.
func (s *Scheduler) Prefetch(items []Item, pri Priority) {
	for _, item := range items {
		k := item.key()
		if _, ok := s.store.get(k); ok {
			continue
		}
		if _, ok := s.inflight[k]; ok {
			continue
		}
		s.inflight[k] = struct{}{}
		j := job{item: item, gen: s.gen}
		if pri == High {
			s.high = append(s.high, j)
		} else {
			s.low = append(s.low, j)
		}
	}
}

// Step runs one time slice of the processing loop and returns whether
// work remains. High-priority jobs always drain before low-priority
// ones. Returning is the yield point: the owner's loop decides when
// the next slice runs.
func (s *Scheduler) Step() bool {
	deadline := s.now().Add(s.budget)
	for {
		j, ok := s.pop()
		if !ok {
			return false
		}
		if j.gen != s.gen {
			// Stale generation: counted, never processed.
			s.staleDropped++
		} else {
			k := j.item.key()
			delete(s.inflight, k)
			if _, cached := s.store.get(k); !cached {
				s.store.put(k, Tokenize(j.item.Language, j.item.Content))
			}
		}
		if s.now().After(deadline) {
			return s.HasWork()
		}
	}
}

// pop takes the next job, high queue first.
func (s *Scheduler) pop() (job, bool) {
	if len(s.high) > 0 {
		j := s.high[0]
		s.high = s.high[1:]
		return j, true
	}
	if len(s.low) > 0 {
		j := s.low[0]
		s.low = s.low[1:]
		return j, true
	}
	return job{}, false
}

// HasWork reports whether any jobs are queued.
func (s *Scheduler) HasWork() bool {
	return len(s.high) > 0 || len(s.low) > 0
}

// BumpGeneration invalidates all queued and in-flight work. Nothing is
// interrupted; jobs from the old generation are simply void wherever
// they surface next.
func (s *Scheduler) BumpGeneration() {
	s.gen++
	s.high = s.high[:0]
	s.low = s.low[:0]
	s.inflight = make(map[uint64]struct{})
}

// ClearStore bumps the generation and empties the cache. Called when
// navigating to a different revision.
func (s *Scheduler) ClearStore() {
	s.BumpGeneration()
	s.store.clear()
}

// CacheLen returns the number of cached lines.
func (s *Scheduler) CacheLen() int {
	return s.store.len()
}

// StaleDropped returns how many stale jobs have been discarded.
func (s *Scheduler) StaleDropped() int {
	return s.staleDropped
}

// tokenStore is a bounded map with append-order eviction: when full,
// the oldest inserted entry goes first. Deliberately hand-rolled (a
// key list plus a map) instead of a fancier LRU; insertion order is
// all the eviction policy needs.
type tokenStore struct {
	capacity int
	entries  map[uint64][]Token
	order    []uint64
}

func newTokenStore(capacity int) *tokenStore {
	return &tokenStore{
		capacity: capacity,
		entries:  make(map[uint64][]Token),
	}
}

func (ts *tokenStore) get(k uint64) ([]Token, bool) {
	v, ok := ts.entries[k]
	return v, ok
}

func (ts *tokenStore) put(k uint64, v []Token) {
	if _, ok := ts.entries[k]; ok {
		ts.entries[k] = v
		return
	}
	if len(ts.order) >= ts.capacity {
		oldest := ts.order[0]
		ts.order = ts.order[1:]
		delete(ts.entries, oldest)
	}
	ts.entries[k] = v
	ts.order = append(ts.order, k)
}

func (ts *tokenStore) clear() {
	ts.entries = make(map[uint64][]Token)
	ts.order = ts.order[:0]
}

func (ts *tokenStore) len() int {
	return len(ts.entries)
}
