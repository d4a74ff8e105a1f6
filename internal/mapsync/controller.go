// Package mapsync keeps a map widget's marker and viewport consistent with
// the authoring form's coordinate fields, and routes map clicks back through
// reverse geocoding.
package mapsync

import (
	"context"
	"sync"

	"github.com/nomadex/nomadex/internal/geo"
)

// State is the controller lifecycle.
type State int

const (
	Uninitialized State = iota
	Ready
	Disposed
)

// Default viewport: whole-world view when the form holds no coordinates.
const (
	DefaultLatitude  = 20.0
	DefaultLongitude = 0.0
	DefaultZoom      = 2
	FocusZoom        = 9
)

// Widget is the map rendering collaborator. Implementations own the actual
// drawing; the controller only drives marker and viewport state.
type Widget interface {
	SetMarker(lat, lon float64)
	ClearMarker()
	SetView(lat, lon float64, zoom int)
	Close()
}

// Reverser resolves a clicked point to a place, false when unresolvable.
type Reverser interface {
	ReverseLookup(ctx context.Context, lat, lon float64) (geo.Candidate, bool)
}

// PatchFunc applies a resolved place to the form's destination, country and
// search-label fields. The patch must be silent: it updates field values
// without feeding the location search pipeline, otherwise a click would
// re-run search and fight the click-placed marker.
type PatchFunc func(city, country, label string)

// Controller owns the widget's marker/viewport state machine.
type Controller struct {
	mu       sync.Mutex
	state    State
	widget   Widget
	reverser Reverser
	patch    PatchFunc

	hasMarker bool
	lat, lon  float64
}

// New builds a controller in the Uninitialized state.
func New(reverser Reverser, patch PatchFunc) *Controller {
	return &Controller{reverser: reverser, patch: patch}
}

// Attach transitions to Ready against the given widget and reflects the
// form's current coordinates: marker plus focused viewport when present,
// default world view otherwise. Attaching twice or after disposal is a no-op.
func (c *Controller) Attach(w Widget, lat, lon float64, hasCoordinates bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Uninitialized || w == nil {
		return
	}
	c.state = Ready
	c.widget = w
	if hasCoordinates {
		c.placeMarkerLocked(lat, lon)
		return
	}
	c.widget.SetView(DefaultLatitude, DefaultLongitude, DefaultZoom)
}

// SetCoordinates reflects a form-side coordinate change (for example a
// selected search candidate): move or create the marker and recenter.
func (c *Controller) SetCoordinates(lat, lon float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return
	}
	c.placeMarkerLocked(lat, lon)
}

// Clear removes the marker and resets the default world view, mirroring a
// cleared location field.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return
	}
	if c.hasMarker {
		c.widget.ClearMarker()
		c.hasMarker = false
	}
	c.widget.SetView(DefaultLatitude, DefaultLongitude, DefaultZoom)
}

// Click handles a raw map click: the marker moves immediately (optimistic,
// synchronous for the user), then the point is reverse geocoded and, on
// success, the form fields are patched silently. Failures leave the marker
// where the user put it and patch nothing.
func (c *Controller) Click(ctx context.Context, lat, lon float64) {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return
	}
	c.placeMarkerLocked(lat, lon)
	c.mu.Unlock()

	go func() {
		cand, ok := c.reverser.ReverseLookup(ctx, lat, lon)
		if !ok {
			return
		}
		c.mu.Lock()
		disposed := c.state != Ready
		c.mu.Unlock()
		if disposed {
			return
		}
		c.patch(cand.City, cand.Country, cand.Label())
	}()
}

// Dispose releases the widget. All later calls, including in-flight click
// resolutions, become defensive no-ops.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		c.state = Disposed
		return
	}
	c.state = Disposed
	c.widget.Close()
	c.widget = nil
	c.hasMarker = false
}

// State reports the controller lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Marker reports the current marker position, false when no marker is shown.
func (c *Controller) Marker() (lat, lon float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lat, c.lon, c.hasMarker
}

func (c *Controller) placeMarkerLocked(lat, lon float64) {
	c.hasMarker = true
	c.lat, c.lon = lat, lon
	c.widget.SetMarker(lat, lon)
	c.widget.SetView(lat, lon, FocusZoom)
}
