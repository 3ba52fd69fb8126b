package highlight

import (
	"strings"
	"testing"
	"time"
)

func drain(s *Scheduler) {
	for s.Step() {
	}
}

// oneJobClock makes every Step expire its budget after a single job,
// so tests can observe processing order.
func oneJobClock(s *Scheduler) {
	base := time.Now()
	calls := 0
	s.now = func() time.Time {
		calls++
		if calls%2 == 1 {
			return base // deadline computation
		}
		return base.Add(time.Second) // first budget check fires
	}
}

func TestSchedulerProcessesAndCaches(t *testing.T) {
	s := NewScheduler(10)
	item := Item{Language: "Go", Content: "func main() {"}

	if _, ok := s.Get(item); ok {
		t.Fatal("cache should start empty")
	}
	s.Prefetch([]Item{item}, High)
	drain(s)

	tokens, ok := s.Get(item)
	if !ok {
		t.Fatal("item not cached after drain")
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	if b.String() != item.Content {
		t.Errorf("tokens reconstruct to %q, want %q", b.String(), item.Content)
	}
}

func TestPrefetchDeduplicates(t *testing.T) {
	s := NewScheduler(10)
	item := Item{Language: "Go", Content: "x := 1"}
	s.Prefetch([]Item{item, item}, High)
	s.Prefetch([]Item{item}, Low)
	if got := len(s.high) + len(s.low); got != 1 {
		t.Errorf("expected 1 queued job, got %d", got)
	}
}

func TestHighDrainsBeforeLow(t *testing.T) {
	s := NewScheduler(10)
	oneJobClock(s)

	lowItem := Item{Language: "", Content: "background line"}
	highItem := Item{Language: "", Content: "visible line"}
	s.Prefetch([]Item{lowItem}, Low)
	s.Prefetch([]Item{highItem}, High)

	s.Step() // one job only, must be the high one
	if _, ok := s.Get(highItem); !ok {
		t.Error("high-priority item should process first")
	}
	if _, ok := s.Get(lowItem); ok {
		t.Error("low-priority item should still be queued")
	}
	drain(s)
	if _, ok := s.Get(lowItem); !ok {
		t.Error("low-priority item should process eventually")
	}
}

func TestBumpGenerationCancelsQueued(t *testing.T) {
	s := NewScheduler(10)
	item := Item{Language: "Go", Content: "cancelled := true"}
	s.Prefetch([]Item{item}, High)

	s.BumpGeneration()
	drain(s)

	if _, ok := s.Get(item); ok {
		t.Error("job queued before the bump must never reach the cache")
	}
	if s.HasWork() {
		t.Error("queues should be empty after bump")
	}
}

func TestStaleJobDroppedOnDequeue(t *testing.T) {
	s := NewScheduler(10)
	item := Item{Language: "Go", Content: "stale := true"}

	// Simulate a job that was already dequeued into a batch when the
	// generation moved on: stamp it with the old generation by hand.
	old := s.gen
	s.BumpGeneration()
	s.high = append(s.high, job{item: item, gen: old})

	drain(s)
	if _, ok := s.Get(item); ok {
		t.Error("stale-generation job must not be written to the cache")
	}
	if s.StaleDropped() != 1 {
		t.Errorf("expected 1 stale drop, got %d", s.StaleDropped())
	}
}

func TestClearStoreEmptiesCache(t *testing.T) {
	s := NewScheduler(10)
	item := Item{Language: "", Content: "hello"}
	s.Prefetch([]Item{item}, High)
	drain(s)
	if s.CacheLen() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", s.CacheLen())
	}
	s.ClearStore()
	if s.CacheLen() != 0 {
		t.Error("cache should be empty after ClearStore")
	}
	if _, ok := s.Get(item); ok {
		t.Error("entry survived ClearStore")
	}
}

func TestStoreEvictsOldestFirst(t *testing.T) {
	ts := newTokenStore(2)
	ts.put(1, []Token{{Text: "a"}})
	ts.put(2, []Token{{Text: "b"}})
	ts.put(3, []Token{{Text: "c"}})

	if _, ok := ts.get(1); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := ts.get(2); !ok {
		t.Error("second entry should survive")
	}
	if _, ok := ts.get(3); !ok {
		t.Error("newest entry should survive")
	}
	if ts.len() != 2 {
		t.Errorf("expected 2 entries, got %d", ts.len())
	}
}

func TestStorePutExistingDoesNotEvict(t *testing.T) {
	ts := newTokenStore(2)
	ts.put(1, []Token{{Text: "a"}})
	ts.put(2, []Token{{Text: "b"}})
	ts.put(1, []Token{{Text: "a2"}})
	if ts.len() != 2 {
		t.Errorf("re-put grew the store: %d", ts.len())
	}
	v, _ := ts.get(1)
	if v[0].Text != "a2" {
		t.Errorf("re-put did not update value: %q", v[0].Text)
	}
}
