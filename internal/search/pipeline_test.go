package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nomadex/nomadex/internal/geo"
)

const testQuiet = 20 * time.Millisecond

// collector gathers emissions for assertions.
type collector struct {
	mu    sync.Mutex
	lists [][]geo.Candidate
	ch    chan []geo.Candidate
}

func newCollector() *collector {
	return &collector{ch: make(chan []geo.Candidate, 16)}
}

func (c *collector) emit(candidates []geo.Candidate) {
	c.mu.Lock()
	c.lists = append(c.lists, candidates)
	c.mu.Unlock()
	c.ch <- candidates
}

func (c *collector) wait(t *testing.T) []geo.Candidate {
	t.Helper()
	select {
	case got := <-c.ch:
		return got
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for emission")
		return nil
	}
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lists)
}

func candidatesFor(query string) []geo.Candidate {
	return []geo.Candidate{{City: query, Country: "Testland"}}
}

func TestPipeline_RapidKeystrokesFireOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var queries []string
	lookup := func(_ context.Context, q string) []geo.Candidate {
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()
		return candidatesFor(q)
	}

	col := newCollector()
	p := New(testQuiet, lookup, col.emit)
	defer p.Stop()

	for _, q := range []string{"p", "pa", "par", "pari", "paris"} {
		p.Input(q)
		time.Sleep(testQuiet / 4) // well inside the quiet period
	}

	got := col.wait(t)
	if len(got) != 1 || got[0].City != "paris" {
		t.Fatalf("emission = %#v, want candidates for final value", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 1 || queries[0] != "paris" {
		t.Fatalf("lookups = %v, want single lookup with final text", queries)
	}
}

func TestPipeline_DuplicateQuerySuppressed(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls int
	lookup := func(_ context.Context, q string) []geo.Candidate {
		mu.Lock()
		calls++
		mu.Unlock()
		return candidatesFor(q)
	}

	col := newCollector()
	p := New(testQuiet, lookup, col.emit)
	defer p.Stop()

	p.Input("lyon")
	col.wait(t)

	p.Input("lyon")
	time.Sleep(4 * testQuiet)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("lookup calls = %d, want 1 (identical value must not re-emit)", calls)
	}
	if col.count() != 1 {
		t.Fatalf("emissions = %d, want 1", col.count())
	}
}

func TestPipeline_EmptyQueryEmitsEmptyWithoutLookup(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls int
	lookup := func(_ context.Context, q string) []geo.Candidate {
		mu.Lock()
		calls++
		mu.Unlock()
		return candidatesFor(q)
	}

	col := newCollector()
	p := New(testQuiet, lookup, col.emit)
	defer p.Stop()

	p.Input("nice")
	col.wait(t)

	p.Input("   ")
	if got := col.wait(t); len(got) != 0 {
		t.Fatalf("emission = %#v, want empty list for blank query", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("lookup calls = %d, want 1 (blank query bypasses lookup)", calls)
	}
}

func TestPipeline_LastQueryWins(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	lookup := func(_ context.Context, q string) []geo.Candidate {
		if q == "slow" {
			<-release
		}
		return candidatesFor(q)
	}

	col := newCollector()
	p := New(testQuiet, lookup, col.emit)
	defer p.Stop()

	p.Input("slow")
	time.Sleep(3 * testQuiet) // first lookup is now in flight, blocked

	p.Input("fast")
	got := col.wait(t)
	if len(got) != 1 || got[0].City != "fast" {
		t.Fatalf("emission = %#v, want fast result", got)
	}

	// Let the stale lookup complete; its result must be discarded.
	close(release)
	time.Sleep(3 * testQuiet)

	if n := col.count(); n != 1 {
		t.Fatalf("emissions = %d, want 1 (stale in-flight result must be dropped)", n)
	}
}

func TestPipeline_StopDiscardsPendingAndInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	lookup := func(_ context.Context, q string) []geo.Candidate {
		close(started)
		<-release
		return candidatesFor(q)
	}

	col := newCollector()
	p := New(testQuiet, lookup, col.emit)

	p.Input("rome")
	<-started
	p.Stop()
	close(release)
	time.Sleep(3 * testQuiet)

	if col.count() != 0 {
		t.Fatalf("emissions after Stop = %d, want 0", col.count())
	}

	p.Input("milan")
	time.Sleep(3 * testQuiet)
	if col.count() != 0 {
		t.Fatalf("Input after Stop should be ignored")
	}
}
