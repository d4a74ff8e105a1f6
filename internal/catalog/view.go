package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"

	"github.com/nomadex/nomadex/internal/store"
)

// VisibilityFilter narrows the view to one visibility class.
type VisibilityFilter int

const (
	VisibilityAll VisibilityFilter = iota
	VisibilityPublic
	VisibilityPrivate
)

// Label returns the display label for the filter.
func (f VisibilityFilter) Label() string {
	switch f {
	case VisibilityPublic:
		return "Public"
	case VisibilityPrivate:
		return "Private"
	default:
		return "All"
	}
}

// Next cycles to the following filter mode.
func (f VisibilityFilter) Next() VisibilityFilter {
	switch f {
	case VisibilityAll:
		return VisibilityPublic
	case VisibilityPublic:
		return VisibilityPrivate
	default:
		return VisibilityAll
	}
}

// SortOption orders the visible list.
type SortOption int

const (
	SortRecent SortOption = iota
	SortOldest
	SortTitleAZ
	SortTitleZA
)

// Label returns the display label for the sort option.
func (s SortOption) Label() string {
	switch s {
	case SortOldest:
		return "Oldest"
	case SortTitleAZ:
		return "A→Z"
	case SortTitleZA:
		return "Z→A"
	default:
		return "Recent"
	}
}

// Next cycles to the following sort option.
func (s SortOption) Next() SortOption {
	switch s {
	case SortRecent:
		return SortOldest
	case SortOldest:
		return SortTitleAZ
	case SortTitleAZ:
		return SortTitleZA
	default:
		return SortRecent
	}
}

// Query is the full set of view parameters. The visible list is purely a
// function of the canonical catalog and a Query.
type Query struct {
	Term       string
	Visibility VisibilityFilter
	Sort       SortOption
}

// ApplyView projects the canonical catalog into the visible list: substring
// search first, then the visibility filter, then the sort. Deterministic for
// a given input; the input slice is never mutated.
func ApplyView(voyages []store.Voyage, q Query, collator *collate.Collator) []store.Voyage {
	out := make([]store.Voyage, 0, len(voyages))

	term := strings.ToLower(strings.TrimSpace(q.Term))
	for _, v := range voyages {
		if term != "" && !matchesTerm(v, term) {
			continue
		}
		switch q.Visibility {
		case VisibilityPublic:
			if !v.Public {
				continue
			}
		case VisibilityPrivate:
			if v.Public {
				continue
			}
		}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], q.Sort, collator)
	})
	return out
}

func matchesTerm(v store.Voyage, term string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		v.Title, v.Destination, v.Country, v.Description,
	}, " "))
	return strings.Contains(haystack, term)
}

func less(a, b store.Voyage, option SortOption, collator *collate.Collator) bool {
	switch option {
	case SortOldest:
		return a.ParsedStartDate().Before(b.ParsedStartDate())
	case SortTitleAZ:
		return compareTitles(a.Title, b.Title, collator) < 0
	case SortTitleZA:
		return compareTitles(a.Title, b.Title, collator) > 0
	default: // SortRecent
		return b.ParsedStartDate().Before(a.ParsedStartDate())
	}
}

func compareTitles(a, b string, collator *collate.Collator) int {
	if collator != nil {
		return collator.CompareString(a, b)
	}
	return strings.Compare(a, b)
}
