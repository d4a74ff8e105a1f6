package ui

import (
	"math"
	"strings"

	"github.com/nomadex/nomadex/internal/mapsync"
)

// mapPanel is a character-grid map rendering. It satisfies mapsync.Widget:
// the controller drives marker and viewport state, the panel only draws and
// converts between grid cells and coordinates.
//
// Projection is plain equirectangular around the view center. A zoom step
// halves the visible longitude span; terminal cells are roughly twice as
// tall as wide, so the latitude span per row doubles the longitude span per
// column.
type mapPanel struct {
	width  int
	height int

	centerLat float64
	centerLon float64
	zoom      int

	hasMarker bool
	markerLat float64
	markerLon float64

	cursorRow int
	cursorCol int

	closed bool
}

var _ mapsync.Widget = (*mapPanel)(nil)

const (
	mapPanelWidth  = 36
	mapPanelHeight = 12
	baseZoom       = 2 // whole-world longitude span
)

func newMapPanel() *mapPanel {
	p := &mapPanel{width: mapPanelWidth, height: mapPanelHeight, zoom: baseZoom}
	p.cursorRow = p.height / 2
	p.cursorCol = p.width / 2
	return p
}

// SetMarker places the marker and moves the cursor onto it.
func (p *mapPanel) SetMarker(lat, lon float64) {
	p.hasMarker = true
	p.markerLat, p.markerLon = lat, lon
	if row, col, ok := p.cellOf(lat, lon); ok {
		p.cursorRow, p.cursorCol = row, col
	}
}

// ClearMarker removes the marker.
func (p *mapPanel) ClearMarker() {
	p.hasMarker = false
}

// SetView recenters the viewport.
func (p *mapPanel) SetView(lat, lon float64, zoom int) {
	p.centerLat, p.centerLon = lat, lon
	if zoom < baseZoom {
		zoom = baseZoom
	}
	p.zoom = zoom
	p.cursorRow = p.height / 2
	p.cursorCol = p.width / 2
}

// Close releases the panel; a closed panel renders nothing.
func (p *mapPanel) Close() {
	p.closed = true
}

func (p *mapPanel) lonSpan() float64 {
	return 360 / math.Pow(2, float64(p.zoom-baseZoom))
}

func (p *mapPanel) latSpan() float64 {
	span := p.lonSpan() * float64(p.height) / float64(p.width) * 2
	if span > 180 {
		span = 180
	}
	return span
}

// latLonAt converts a grid cell to the coordinates at its center.
func (p *mapPanel) latLonAt(row, col int) (lat, lon float64) {
	latSpan, lonSpan := p.latSpan(), p.lonSpan()
	lat = p.centerLat + latSpan/2 - (float64(row)+0.5)*latSpan/float64(p.height)
	lon = p.centerLon - lonSpan/2 + (float64(col)+0.5)*lonSpan/float64(p.width)
	lat = math.Max(-90, math.Min(90, lat))
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lat, lon
}

// cellOf converts coordinates to a grid cell, false when outside the view.
func (p *mapPanel) cellOf(lat, lon float64) (row, col int, ok bool) {
	latSpan, lonSpan := p.latSpan(), p.lonSpan()

	dLon := lon - p.centerLon
	for dLon > 180 {
		dLon -= 360
	}
	for dLon < -180 {
		dLon += 360
	}

	row = int((p.centerLat + latSpan/2 - lat) / latSpan * float64(p.height))
	col = int((dLon + lonSpan/2) / lonSpan * float64(p.width))
	if row < 0 || row >= p.height || col < 0 || col >= p.width {
		return 0, 0, false
	}
	return row, col, true
}

// moveCursor shifts the cursor by cell deltas, clamped to the grid.
func (p *mapPanel) moveCursor(dRow, dCol int) {
	p.cursorRow = clampInt(p.cursorRow+dRow, 0, p.height-1)
	p.cursorCol = clampInt(p.cursorCol+dCol, 0, p.width-1)
}

// cursorLatLon returns the coordinates under the cursor.
func (p *mapPanel) cursorLatLon() (lat, lon float64) {
	return p.latLonAt(p.cursorRow, p.cursorCol)
}

// render draws the grid. The marker wins over the cursor when they share a
// cell; equator and prime meridian render as graticule lines.
func (p *mapPanel) render(styles Styles, focused bool) string {
	if p.closed {
		return ""
	}

	markerRow, markerCol, markerVisible := 0, 0, false
	if p.hasMarker {
		markerRow, markerCol, markerVisible = p.cellOf(p.markerLat, p.markerLon)
	}
	equatorRow, _, equatorVisible := p.cellOf(0, p.centerLon)
	_, meridianCol, meridianVisible := p.cellOf(p.centerLat, 0)

	var b strings.Builder
	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			switch {
			case markerVisible && row == markerRow && col == markerCol:
				b.WriteString(styles.DangerText.Render("◉"))
			case focused && row == p.cursorRow && col == p.cursorCol:
				b.WriteString(styles.AccentText.Render("┼"))
			case equatorVisible && row == equatorRow && meridianVisible && col == meridianCol:
				b.WriteString(styles.FaintText.Render("+"))
			case equatorVisible && row == equatorRow:
				b.WriteString(styles.FaintText.Render("─"))
			case meridianVisible && col == meridianCol:
				b.WriteString(styles.FaintText.Render("│"))
			default:
				b.WriteString(styles.FaintText.Render("·"))
			}
		}
		if row < p.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
