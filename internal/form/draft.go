// Package form owns the voyage authoring draft: field state, validation,
// edit/create mode distinction and submission-payload assembly.
package form

import "time"

// DateLayout is the wire format for voyage dates.
const DateLayout = "2006-01-02"

// Draft is the mutable authoring state. It mirrors the voyage fields plus
// the transient locationSearch text, which is never persisted.
type Draft struct {
	Title          string `validate:"required,max=80"`
	Description    string `validate:"required,max=500"`
	LocationSearch string `validate:"-"`
	Destination    string `validate:"required"`
	Country        string `validate:"required"`
	StartDate      string `validate:"required,datetime=2006-01-02"`
	EndDate        string `validate:"required,datetime=2006-01-02"`
	Latitude       *float64
	Longitude      *float64
	Gallery        []string
	// CoverStaged holds a single cover image staged outside the gallery.
	// Only consulted when the gallery is empty.
	CoverStaged string
	Public      bool
}

// HasCoordinates reports whether both coordinate fields are set.
func (d *Draft) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

func (d *Draft) parsedStart() (time.Time, bool) {
	t, err := time.Parse(DateLayout, d.StartDate)
	return t, err == nil
}

func (d *Draft) parsedEnd() (time.Time, bool) {
	t, err := time.Parse(DateLayout, d.EndDate)
	return t, err == nil
}

// Fields lists every validated field key, in display order. Used for
// touched-state bookkeeping.
var Fields = []string{
	"title",
	"description",
	"destination",
	"country",
	"startDate",
	"endDate",
}
