package store

import (
	"reflect"
	"testing"
	"time"
)

func TestVoyage_NormalizeSourcePriority(t *testing.T) {
	tests := []struct {
		name        string
		in          Voyage
		wantGallery []string
		wantCover   string
	}{
		{
			name:        "explicit gallery wins over legacy fields",
			in:          Voyage{Gallery: []string{"a", "b"}, ImageData: "legacy", ImageURL: "http://old"},
			wantGallery: []string{"a", "b"},
			wantCover:   "a",
		},
		{
			name:        "blank gallery entries are dropped",
			in:          Voyage{Gallery: []string{"", "b", ""}},
			wantGallery: []string{"b"},
			wantCover:   "b",
		},
		{
			name:        "legacy inline image used when gallery empty",
			in:          Voyage{ImageData: "legacy", ImageURL: "http://old"},
			wantGallery: []string{"legacy"},
			wantCover:   "legacy",
		},
		{
			name:        "legacy url is the last resort",
			in:          Voyage{ImageURL: "http://old"},
			wantGallery: []string{"http://old"},
			wantCover:   "http://old",
		},
		{
			name:        "no image sources",
			in:          Voyage{Title: "bare"},
			wantGallery: []string{},
			wantCover:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if !reflect.DeepEqual(got.Gallery, tc.wantGallery) {
				t.Fatalf("gallery = %#v, want %#v", got.Gallery, tc.wantGallery)
			}
			if got.ImageData != tc.wantCover {
				t.Fatalf("cover = %q, want %q", got.ImageData, tc.wantCover)
			}
			if got.ImageURL != "" {
				t.Fatalf("legacy url survived normalization: %q", got.ImageURL)
			}
		})
	}
}

func TestVoyage_NormalizeDoesNotMutateReceiver(t *testing.T) {
	in := Voyage{ImageData: "legacy"}
	_ = in.Normalize()
	if len(in.Gallery) != 0 {
		t.Fatalf("receiver gallery mutated: %#v", in.Gallery)
	}
}

func TestVoyage_ParsedDates(t *testing.T) {
	v := Voyage{StartDate: "2024-05-01", EndDate: "2024-05-10"}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !v.ParsedStartDate().Equal(want) {
		t.Fatalf("start = %v, want %v", v.ParsedStartDate(), want)
	}
	if !v.ParsedEndDate().After(v.ParsedStartDate()) {
		t.Fatalf("end %v not after start %v", v.ParsedEndDate(), v.ParsedStartDate())
	}

	if !(Voyage{StartDate: "not-a-date"}).ParsedStartDate().IsZero() {
		t.Fatalf("unparsable date should yield zero time")
	}
}

func TestVoyage_HasCoordinates(t *testing.T) {
	lat, lon := 35.0, 135.7
	if (Voyage{Latitude: &lat}).HasCoordinates() {
		t.Fatalf("latitude alone must not count as coordinates")
	}
	if !(Voyage{Latitude: &lat, Longitude: &lon}).HasCoordinates() {
		t.Fatalf("both pointers set should report coordinates")
	}
}
