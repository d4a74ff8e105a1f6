package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/nomadex/nomadex/internal/mapsync"
)

func TestMapPanel_WorldViewCoversTheGlobe(t *testing.T) {
	p := newMapPanel()
	p.SetView(mapsync.DefaultLatitude, mapsync.DefaultLongitude, mapsync.DefaultZoom)

	lat, lon := p.latLonAt(0, 0)
	if lat <= 0 || lon >= 0 {
		t.Fatalf("top-left = %.1f,%.1f, want northern/western quadrant", lat, lon)
	}
	lat, lon = p.latLonAt(p.height-1, p.width-1)
	if lat >= 0 || lon <= 0 {
		t.Fatalf("bottom-right = %.1f,%.1f, want southern/eastern quadrant", lat, lon)
	}
}

func TestMapPanel_CellRoundTripAtFocusZoom(t *testing.T) {
	p := newMapPanel()
	p.SetView(48.86, 2.35, mapsync.FocusZoom)

	row, col, ok := p.cellOf(48.86, 2.35)
	if !ok {
		t.Fatalf("view center fell outside the grid")
	}
	lat, lon := p.latLonAt(row, col)

	latSpan := p.latSpan() / float64(p.height)
	lonSpan := p.lonSpan() / float64(p.width)
	if math.Abs(lat-48.86) > latSpan || math.Abs(lon-2.35) > lonSpan {
		t.Fatalf("round trip drifted: %.4f,%.4f vs 48.86,2.35", lat, lon)
	}
}

func TestMapPanel_MarkerOutsideViewIsNotDrawn(t *testing.T) {
	p := newMapPanel()
	p.SetView(48.86, 2.35, mapsync.FocusZoom)
	p.SetMarker(-33.87, 151.21) // Sydney, far outside a Paris close-up

	if _, _, ok := p.cellOf(-33.87, 151.21); ok {
		t.Fatalf("far marker reported inside the focused view")
	}
	out := p.render(GetTheme("Nightfox").Styles(), false)
	if strings.Contains(out, "◉") {
		t.Fatalf("marker glyph rendered despite being out of view")
	}
}

func TestMapPanel_MarkerMovesCursor(t *testing.T) {
	p := newMapPanel()
	p.SetView(48.86, 2.35, mapsync.FocusZoom)
	p.SetMarker(48.86, 2.35)

	lat, lon := p.cursorLatLon()
	if math.Abs(lat-48.86) > 1 || math.Abs(lon-2.35) > 1 {
		t.Fatalf("cursor = %.2f,%.2f, want near the marker", lat, lon)
	}
}

func TestMapPanel_CursorClampsToGrid(t *testing.T) {
	p := newMapPanel()
	for i := 0; i < 1000; i++ {
		p.moveCursor(-1, -1)
	}
	if p.cursorRow != 0 || p.cursorCol != 0 {
		t.Fatalf("cursor = %d,%d, want clamped to origin", p.cursorRow, p.cursorCol)
	}
	for i := 0; i < 1000; i++ {
		p.moveCursor(1, 1)
	}
	if p.cursorRow != p.height-1 || p.cursorCol != p.width-1 {
		t.Fatalf("cursor = %d,%d, want clamped to far corner", p.cursorRow, p.cursorCol)
	}
}

func TestMapPanel_ClosedRendersNothing(t *testing.T) {
	p := newMapPanel()
	p.Close()
	if out := p.render(GetTheme("Nightfox").Styles(), true); out != "" {
		t.Fatalf("closed panel rendered %q", out)
	}
}
