package store

import "time"

const dateLayout = "2006-01-02"

// Voyage mirrors a travel record as stored by the remote collection.
// JSON field names follow the remote schema and must not be renamed.
type Voyage struct {
	ID          int64    `json:"id,omitempty"`
	UserID      int64    `json:"userId"`
	Title       string   `json:"titre"`
	Destination string   `json:"destination"`
	Country     string   `json:"pays"`
	StartDate   string   `json:"dateDebut"`
	EndDate     string   `json:"dateFin"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ImageData   string   `json:"imageData,omitempty"`
	Gallery     []string `json:"galleries,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Public      bool     `json:"isPublic"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// Journal is a diary entry attached to a voyage. The journal collection is
// read-only from this client's perspective.
type Journal struct {
	ID        int64  `json:"id"`
	VoyageID  int64  `json:"voyageId"`
	Date      string `json:"date"`
	Title     string `json:"titre"`
	Content   string `json:"contenu"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Mood      string `json:"humeur,omitempty"`
	Weather   string `json:"meteo,omitempty"`
	Place     string `json:"lieu,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// HasCoordinates reports whether both coordinate fields are present.
// The schema invariant is that they appear together or not at all.
func (v Voyage) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// Cover returns the record's representative image: the first gallery entry
// when the gallery is populated, otherwise the legacy single-image field.
func (v Voyage) Cover() string {
	if len(v.Gallery) > 0 {
		return v.Gallery[0]
	}
	return v.ImageData
}

// Normalize rebuilds the gallery from the first non-empty legacy source and
// re-derives the cover. Sources are never merged: an explicit gallery wins,
// then the legacy inline image, then the legacy plain URL. The legacy URL
// field is always dropped afterwards.
func (v Voyage) Normalize() Voyage {
	gallery := make([]string, 0, len(v.Gallery))
	for _, img := range v.Gallery {
		if img != "" {
			gallery = append(gallery, img)
		}
	}
	if len(gallery) == 0 && v.ImageData != "" {
		gallery = append(gallery, v.ImageData)
	}
	if len(gallery) == 0 && v.ImageURL != "" {
		gallery = append(gallery, v.ImageURL)
	}

	v.Gallery = gallery
	if len(gallery) > 0 {
		v.ImageData = gallery[0]
	} else {
		v.ImageData = ""
	}
	v.ImageURL = ""
	return v
}

// ParsedStartDate returns the start date as time.Time, zero when unparsable.
func (v Voyage) ParsedStartDate() time.Time {
	return parseDate(v.StartDate)
}

// ParsedEndDate returns the end date as time.Time, zero when unparsable.
func (v Voyage) ParsedEndDate() time.Time {
	return parseDate(v.EndDate)
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
