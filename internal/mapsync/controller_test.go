package mapsync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nomadex/nomadex/internal/geo"
)

type widgetCall struct {
	op       string
	lat, lon float64
	zoom     int
}

type fakeWidget struct {
	mu    sync.Mutex
	calls []widgetCall
}

func (w *fakeWidget) SetMarker(lat, lon float64) {
	w.record(widgetCall{op: "marker", lat: lat, lon: lon})
}
func (w *fakeWidget) ClearMarker() { w.record(widgetCall{op: "clear"}) }
func (w *fakeWidget) SetView(lat, lon float64, zoom int) {
	w.record(widgetCall{op: "view", lat: lat, lon: lon, zoom: zoom})
}
func (w *fakeWidget) Close() { w.record(widgetCall{op: "close"}) }

func (w *fakeWidget) record(c widgetCall) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, c)
}

func (w *fakeWidget) snapshot() []widgetCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]widgetCall(nil), w.calls...)
}

type fakeReverser struct {
	cand    geo.Candidate
	ok      bool
	started chan struct{}
	release chan struct{}
}

func (r *fakeReverser) ReverseLookup(context.Context, float64, float64) (geo.Candidate, bool) {
	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	return r.cand, r.ok
}

func TestController_AttachWithoutCoordinatesShowsWorldView(t *testing.T) {
	w := &fakeWidget{}
	c := New(&fakeReverser{}, func(string, string, string) {})

	if c.State() != Uninitialized {
		t.Fatalf("state = %v, want Uninitialized", c.State())
	}
	c.Attach(w, 0, 0, false)
	if c.State() != Ready {
		t.Fatalf("state = %v, want Ready", c.State())
	}

	calls := w.snapshot()
	if len(calls) != 1 || calls[0].op != "view" || calls[0].zoom != DefaultZoom {
		t.Fatalf("calls = %#v, want single default view", calls)
	}
	if _, _, ok := c.Marker(); ok {
		t.Fatalf("marker present, want none")
	}
}

func TestController_AttachWithCoordinatesPlacesMarker(t *testing.T) {
	w := &fakeWidget{}
	c := New(&fakeReverser{}, func(string, string, string) {})

	c.Attach(w, 35.0, 135.7, true)
	calls := w.snapshot()
	if len(calls) != 2 || calls[0].op != "marker" || calls[1].op != "view" || calls[1].zoom != FocusZoom {
		t.Fatalf("calls = %#v, want marker then focused view", calls)
	}
	lat, lon, ok := c.Marker()
	if !ok || lat != 35.0 || lon != 135.7 {
		t.Fatalf("marker = %v,%v ok=%v, want 35,135.7", lat, lon, ok)
	}
}

func TestController_SetCoordinatesAndClear(t *testing.T) {
	w := &fakeWidget{}
	c := New(&fakeReverser{}, func(string, string, string) {})
	c.Attach(w, 0, 0, false)

	c.SetCoordinates(48.8, 2.3)
	if _, _, ok := c.Marker(); !ok {
		t.Fatalf("marker missing after SetCoordinates")
	}

	c.Clear()
	if _, _, ok := c.Marker(); ok {
		t.Fatalf("marker present after Clear")
	}
	calls := w.snapshot()
	last := calls[len(calls)-1]
	if last.op != "view" || last.zoom != DefaultZoom {
		t.Fatalf("last call = %#v, want default view reset", last)
	}
	if calls[len(calls)-2].op != "clear" {
		t.Fatalf("calls = %#v, want marker cleared before view reset", calls)
	}
}

func TestController_ClickPlacesMarkerImmediatelyThenPatches(t *testing.T) {
	w := &fakeWidget{}
	rev := &fakeReverser{
		cand: geo.Candidate{City: "Kyoto", Country: "Japon", DisplayName: "Kyoto, Kansai, Japon"},
		ok:   true,
	}

	patched := make(chan [3]string, 1)
	c := New(rev, func(city, country, label string) {
		patched <- [3]string{city, country, label}
	})
	c.Attach(w, 0, 0, false)

	c.Click(context.Background(), 35.0, 135.7)

	// Marker must be set synchronously, before the reverse lookup settles.
	if lat, _, ok := c.Marker(); !ok || lat != 35.0 {
		t.Fatalf("marker not placed optimistically")
	}

	select {
	case got := <-patched:
		if got != [3]string{"Kyoto", "Japon", "Kyoto, Kansai, Japon"} {
			t.Fatalf("patch = %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for patch")
	}
}

func TestController_ClickUnresolvablePatchesNothing(t *testing.T) {
	w := &fakeWidget{}
	c := New(&fakeReverser{ok: false}, func(string, string, string) {
		t.Errorf("patch called for unresolvable point")
	})
	c.Attach(w, 0, 0, false)

	c.Click(context.Background(), 0, -140)
	time.Sleep(50 * time.Millisecond)

	if _, _, ok := c.Marker(); !ok {
		t.Fatalf("optimistic marker must survive a failed reverse lookup")
	}
}

func TestController_DisposedIsDefensiveNoOp(t *testing.T) {
	w := &fakeWidget{}
	rev := &fakeReverser{
		cand:    geo.Candidate{City: "Kyoto", Country: "Japon"},
		ok:      true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := New(rev, func(string, string, string) {
		t.Errorf("patch must not run after Dispose")
	})
	c.Attach(w, 0, 0, false)

	// Click with the reverse lookup still in flight, then dispose.
	c.Click(context.Background(), 35.0, 135.7)
	<-rev.started
	c.Dispose()
	close(rev.release)
	time.Sleep(50 * time.Millisecond)

	if c.State() != Disposed {
		t.Fatalf("state = %v, want Disposed", c.State())
	}

	before := len(w.snapshot())
	c.SetCoordinates(1, 2)
	c.Clear()
	c.Click(context.Background(), 3, 4)
	c.Attach(w, 0, 0, false)
	if after := len(w.snapshot()); after != before {
		t.Fatalf("widget touched after Dispose: %d calls, had %d", after, before)
	}

	calls := w.snapshot()
	if calls[len(calls)-1].op != "close" {
		t.Fatalf("calls = %#v, want Close on Dispose", calls)
	}
}
