package form

import (
	"context"
	"time"

	"github.com/nomadex/nomadex/internal/gallery"
	"github.com/nomadex/nomadex/internal/geo"
	"github.com/nomadex/nomadex/internal/store"
)

// Controller owns the authoring draft and its lifecycle: load an existing
// record or start blank, accumulate edits, validate and assemble the
// submission payload.
type Controller struct {
	userID   int64
	ingestor *gallery.Ingestor
	now      func() time.Time

	draft     Draft
	original  *store.Voyage
	touched   map[string]bool
	fieldErrs map[string]string
}

// NewController builds a controller authoring on behalf of userID.
func NewController(userID int64, ingestor *gallery.Ingestor) *Controller {
	c := &Controller{
		userID:   userID,
		ingestor: ingestor,
		now:      time.Now,
	}
	c.Reset()
	return c
}

// Draft exposes the mutable authoring state. UI field widgets write into it
// directly; controller methods handle the coupled updates.
func (c *Controller) Draft() *Draft {
	return &c.draft
}

// Editing reports whether the controller is editing a persisted record.
func (c *Controller) Editing() bool {
	return c.original != nil
}

// EditingID returns the id under edit, zero in create mode.
func (c *Controller) EditingID() int64 {
	if c.original == nil {
		return 0
	}
	return c.original.ID
}

// Load populates the draft from an existing record, or resets to create mode
// when existing is nil. The working gallery is rebuilt from the first
// non-empty source (explicit gallery, legacy inline image, legacy URL);
// sources are never merged.
func (c *Controller) Load(existing *store.Voyage) {
	if existing == nil {
		c.Reset()
		return
	}
	normalized := existing.Normalize()
	c.original = &normalized
	c.touched = make(map[string]bool)
	c.fieldErrs = nil

	c.draft = Draft{
		Title:          normalized.Title,
		Description:    normalized.Description,
		LocationSearch: normalized.Destination + ", " + normalized.Country,
		Destination:    normalized.Destination,
		Country:        normalized.Country,
		StartDate:      normalized.StartDate,
		EndDate:        normalized.EndDate,
		Gallery:        append([]string(nil), normalized.Gallery...),
		Public:         normalized.Public,
	}
	if normalized.HasCoordinates() {
		lat, lon := *normalized.Latitude, *normalized.Longitude
		c.draft.Latitude, c.draft.Longitude = &lat, &lon
	}
}

// Reset returns the controller to a blank create-mode draft.
func (c *Controller) Reset() {
	c.draft = Draft{Public: true}
	c.original = nil
	c.touched = make(map[string]bool)
	c.fieldErrs = nil
}

// Touch marks a field as visited so its validation message may render.
func (c *Controller) Touch(field string) {
	c.touched[field] = true
}

// TouchAll marks every field; a rejected submission must surface all
// messages at once.
func (c *Controller) TouchAll() {
	for _, f := range Fields {
		c.touched[f] = true
	}
}

// FieldError returns the validation message for a touched field, empty
// otherwise.
func (c *Controller) FieldError(field string) string {
	if !c.touched[field] {
		return ""
	}
	return c.fieldErrs[field]
}

// Revalidate refreshes field messages against the current draft without
// attempting submission.
func (c *Controller) Revalidate() {
	c.fieldErrs = Validate(&c.draft)
}

// SelectLocation applies a chosen search candidate to the location fields.
func (c *Controller) SelectLocation(cand geo.Candidate) {
	c.draft.LocationSearch = cand.City + ", " + cand.Country
	c.draft.Destination = cand.City
	c.draft.Country = cand.Country
	lat, lon := cand.Latitude, cand.Longitude
	c.draft.Latitude, c.draft.Longitude = &lat, &lon
}

// PatchPlace applies a reverse-geocoded place silently: destination, country
// and the search label change, nothing feeds back into the search pipeline.
func (c *Controller) PatchPlace(city, country, label string) {
	c.draft.Destination = city
	c.draft.Country = country
	if label == "" {
		label = city + ", " + country
	}
	c.draft.LocationSearch = label
}

// SetCoordinates stores raw coordinates, always as a pair.
func (c *Controller) SetCoordinates(lat, lon float64) {
	c.draft.Latitude, c.draft.Longitude = &lat, &lon
}

// ClearLocation empties every location field and coordinate.
func (c *Controller) ClearLocation() {
	c.draft.LocationSearch = ""
	c.draft.Destination = ""
	c.draft.Country = ""
	c.draft.Latitude, c.draft.Longitude = nil, nil
}

// AttachImages ingests a file batch into the working gallery. The batch is
// atomic: on error the gallery is unchanged.
func (c *Controller) AttachImages(ctx context.Context, paths []string) error {
	merged, err := c.ingestor.Ingest(ctx, paths, c.draft.Gallery)
	if err != nil {
		return err
	}
	c.draft.Gallery = merged
	return nil
}

// RemoveImage drops the gallery entry at index; the cover is re-derived as
// the new first element.
func (c *Controller) RemoveImage(index int) {
	c.draft.Gallery = gallery.Remove(c.draft.Gallery, index)
}

// ClearGallery removes every staged image, including a staged cover.
func (c *Controller) ClearGallery() {
	c.draft.Gallery = nil
	c.draft.CoverStaged = ""
}

// Submit validates the draft and assembles the payload.
//
// Invalid drafts reject locally: every field is marked touched, no payload
// is produced and no network call may happen. Valid drafts yield a full
// record: create mode stamps the owning user and a fresh creation timestamp
// and carries no id (the store assigns one); edit mode carries the original
// id, owner and creation timestamp unconditionally and overlays everything
// else. The cover is the first gallery entry, else a separately staged
// cover, else absent — absent means the field is omitted from the payload,
// never sent empty. The legacy URL field is never populated.
func (c *Controller) Submit() (store.Voyage, error) {
	if errs := Validate(&c.draft); len(errs) > 0 {
		c.fieldErrs = errs
		c.TouchAll()
		return store.Voyage{}, &ValidationError{Fields: errs}
	}
	c.fieldErrs = nil

	images := make([]string, 0, len(c.draft.Gallery))
	for _, img := range c.draft.Gallery {
		if img != "" {
			images = append(images, img)
		}
	}

	payload := store.Voyage{
		Title:       c.draft.Title,
		Destination: c.draft.Destination,
		Country:     c.draft.Country,
		StartDate:   c.draft.StartDate,
		EndDate:     c.draft.EndDate,
		Description: c.draft.Description,
		Gallery:     images,
		Public:      c.draft.Public,
	}

	if c.original != nil {
		payload.ID = c.original.ID
		payload.UserID = c.original.UserID
		payload.CreatedAt = c.original.CreatedAt
	} else {
		payload.UserID = c.userID
		payload.CreatedAt = c.now().UTC().Format(time.RFC3339)
	}

	cover := gallery.Cover(images)
	if cover == "" {
		cover = c.draft.CoverStaged
	}
	payload.ImageData = cover

	if c.draft.HasCoordinates() {
		lat, lon := *c.draft.Latitude, *c.draft.Longitude
		payload.Latitude, payload.Longitude = &lat, &lon
	}

	return payload, nil
}
