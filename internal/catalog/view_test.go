package catalog

import (
	"testing"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nomadex/nomadex/internal/store"
)

func fixtureVoyages() []store.Voyage {
	return []store.Voyage{
		{ID: 1, Title: "Week-end à Paris", Destination: "Paris", Country: "France", StartDate: "2024-03-10", Public: true},
		{ID: 2, Title: "Road trip", Destination: "Lisbonne", Country: "Portugal", StartDate: "2024-05-01", Public: true},
		{ID: 3, Title: "Étapes alpines", Destination: "Annecy", Country: "France", StartDate: "2023-08-15", Public: false},
		{ID: 4, Title: "Carnet secret", Destination: "Paris", Country: "France", Description: "notes de quartier", StartDate: "2024-01-02", Public: false},
	}
}

func frenchCollator() *collate.Collator {
	return collate.New(language.French, collate.IgnoreCase)
}

func ids(voyages []store.Voyage) []int64 {
	out := make([]int64, len(voyages))
	for i, v := range voyages {
		out[i] = v.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyView_SubstringSearchSpansFields(t *testing.T) {
	got := ApplyView(fixtureVoyages(), Query{Term: "paris"}, frenchCollator())
	if !equalIDs(ids(got), []int64{1, 4}) {
		t.Fatalf("ids = %v, want [1 4]: title and destination both match", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Term: "quartier"}, frenchCollator())
	if !equalIDs(ids(got), []int64{4}) {
		t.Fatalf("ids = %v, want description match only", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Term: "  PARIS "}, frenchCollator())
	if !equalIDs(ids(got), []int64{1, 4}) {
		t.Fatalf("ids = %v, want case and padding ignored", ids(got))
	}
}

func TestApplyView_VisibilityFilter(t *testing.T) {
	got := ApplyView(fixtureVoyages(), Query{Visibility: VisibilityPublic}, frenchCollator())
	if !equalIDs(ids(got), []int64{2, 1}) {
		t.Fatalf("ids = %v, want public records newest first", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Visibility: VisibilityPrivate}, frenchCollator())
	for _, v := range got {
		if v.Public {
			t.Fatalf("public record %d leaked into private view", v.ID)
		}
	}
}

func TestApplyView_SortOrders(t *testing.T) {
	col := frenchCollator()

	got := ApplyView(fixtureVoyages(), Query{Sort: SortRecent}, col)
	if !equalIDs(ids(got), []int64{2, 1, 4, 3}) {
		t.Fatalf("recent ids = %v", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Sort: SortOldest}, col)
	if !equalIDs(ids(got), []int64{3, 4, 1, 2}) {
		t.Fatalf("oldest ids = %v", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Sort: SortTitleAZ}, col)
	if !equalIDs(ids(got), []int64{4, 3, 2, 1}) {
		t.Fatalf("a-z ids = %v, want accented title collated, not byte-ordered", ids(got))
	}

	got = ApplyView(fixtureVoyages(), Query{Sort: SortTitleZA}, col)
	if !equalIDs(ids(got), []int64{1, 2, 3, 4}) {
		t.Fatalf("z-a ids = %v", ids(got))
	}
}

func TestApplyView_ComposesWithoutMutatingInput(t *testing.T) {
	input := fixtureVoyages()
	got := ApplyView(input, Query{Term: "france", Visibility: VisibilityPrivate, Sort: SortOldest}, frenchCollator())
	if !equalIDs(ids(got), []int64{3, 4}) {
		t.Fatalf("ids = %v, want filtered then sorted", ids(got))
	}
	if !equalIDs(ids(input), []int64{1, 2, 3, 4}) {
		t.Fatalf("input reordered: %v", ids(input))
	}
}

func TestFilterAndSortCycles(t *testing.T) {
	f := VisibilityAll
	seen := map[VisibilityFilter]bool{}
	for i := 0; i < 3; i++ {
		seen[f] = true
		f = f.Next()
	}
	if f != VisibilityAll || len(seen) != 3 {
		t.Fatalf("visibility cycle broken: back at %v after %d states", f, len(seen))
	}

	s := SortRecent
	for i := 0; i < 4; i++ {
		s = s.Next()
	}
	if s != SortRecent {
		t.Fatalf("sort cycle broken: back at %v", s)
	}
}
