package geo

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cache memoizes forward lookups under a normalized query key. Reverse
// lookups are never cached: they are not subject to repeat-keystroke
// amplification.
//
// Lifetime defaults to the whole session. Query cardinality is bounded by
// what a user actually types, so eviction is opt-in via a TTL for processes
// that outlive a single sitting.
type Cache struct {
	geocoder Geocoder
	entries  *gocache.Cache
}

// NewCache wraps the geocoder with memoization. ttl <= 0 keeps entries for
// the lifetime of the process.
func NewCache(geocoder Geocoder, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{
		geocoder: geocoder,
		entries:  gocache.New(ttl, ttl),
	}
}

// Lookup resolves a raw query to candidates, serving repeats from the cache.
// Collaborator failures degrade to an empty list and are not cached, so a
// later retry of the same query can still succeed.
func (c *Cache) Lookup(ctx context.Context, rawQuery string) []Candidate {
	key := NormalizeQuery(rawQuery)
	if key == "" {
		return nil
	}

	if cached, ok := c.entries.Get(key); ok {
		return cloneCandidates(cached.([]Candidate))
	}

	results, err := c.geocoder.Search(ctx, rawQuery)
	if err != nil {
		log.Printf("location lookup failed: %v", err)
		return nil
	}
	c.entries.Set(key, cloneCandidates(results), gocache.DefaultExpiration)
	return results
}

// ReverseLookup resolves coordinates to a candidate, false when the point is
// unresolvable or the collaborator fails.
func (c *Cache) ReverseLookup(ctx context.Context, lat, lon float64) (Candidate, bool) {
	result, err := c.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		log.Printf("reverse geocode failed: %v", err)
		return Candidate{}, false
	}
	if result == nil {
		return Candidate{}, false
	}
	return *result, true
}

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeQuery derives the cache key: diacritics stripped, case-folded,
// trimmed. "Saïgon " and "saigon" share one entry.
func NormalizeQuery(value string) string {
	stripped, _, err := transform.String(stripDiacritics, value)
	if err != nil {
		stripped = value
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

func cloneCandidates(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	dup := make([]Candidate, len(candidates))
	copy(dup, candidates)
	return dup
}
