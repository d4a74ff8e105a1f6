// Package search turns raw location-field keystrokes into a debounced,
// deduplicated stream of geocoding candidate lists.
//
// The reactive operator chain of the original design (debounce, distinct,
// switch-to-latest) is expressed directly: a single resettable timer provides
// the quiet period, the last-fired value provides duplicate suppression, and
// a generation counter guarantees that only the most recently issued lookup
// can reach the consumer. Stale in-flight results are discarded on arrival.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nomadex/nomadex/internal/geo"
)

// DefaultQuietPeriod is how long input must stay unchanged before a lookup
// fires.
const DefaultQuietPeriod = 200 * time.Millisecond

// LookupFunc resolves a query to candidates. Expected to swallow collaborator
// failures and return an empty list (geo.Cache.Lookup does).
type LookupFunc func(ctx context.Context, query string) []geo.Candidate

// EmitFunc delivers a candidate list to the consumer. Called from the
// pipeline's own goroutines; consumers bridge to their event loop.
type EmitFunc func(candidates []geo.Candidate)

// Pipeline debounces a stream of query values into a stream of candidate
// lists with last-query-wins semantics.
type Pipeline struct {
	quiet  time.Duration
	lookup LookupFunc
	emit   EmitFunc

	mu        sync.Mutex
	timer     *time.Timer
	pending   string
	lastFired string
	hasFired  bool
	gen       uint64
	stopped   bool
}

// New builds a pipeline. quiet <= 0 uses DefaultQuietPeriod.
func New(quiet time.Duration, lookup LookupFunc, emit EmitFunc) *Pipeline {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Pipeline{quiet: quiet, lookup: lookup, emit: emit}
}

// Input feeds the current query value. Each call restarts the quiet period;
// only the final value of a rapid sequence triggers a lookup.
func (p *Pipeline) Input(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.pending = query
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.quiet, p.fire)
}

// Stop cancels any pending timer and invalidates in-flight lookups. Further
// Input calls are ignored.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

func (p *Pipeline) fire() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	query := p.pending
	if p.hasFired && query == p.lastFired {
		p.mu.Unlock()
		return
	}
	p.lastFired = query
	p.hasFired = true
	p.gen++
	gen := p.gen

	if strings.TrimSpace(query) == "" {
		p.mu.Unlock()
		p.emit(nil)
		return
	}
	p.mu.Unlock()

	go func() {
		candidates := p.lookup(context.Background(), query)

		p.mu.Lock()
		stale := p.stopped || gen != p.gen
		p.mu.Unlock()
		if stale {
			return
		}
		p.emit(candidates)
	}()
}
