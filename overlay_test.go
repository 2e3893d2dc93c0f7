package vantage

import "testing"

// --- Layout ---

func TestOverlayLayoutAt800x600(t *testing.T) {
	l := overlayLayoutFor(800, 600)

	want := overlayLayout{
		region:  Rect{X: 8, Y: 560, Width: 212, Height: 32},
		zoomOut: Rect{X: 12, Y: 564, Width: 24, Height: 24},
		slider:  Rect{X: 40, Y: 564, Width: 120, Height: 24},
		zoomIn:  Rect{X: 164, Y: 564, Width: 24, Height: 24},
		export:  Rect{X: 192, Y: 564, Width: 24, Height: 24},
	}
	if l != want {
		t.Errorf("layout = %+v, want %+v", l, want)
	}
}

func TestOverlayLayoutTracksContainerHeight(t *testing.T) {
	l := overlayLayoutFor(1024, 768)

	wantY := 768.0 - overlayMargin - overlayButton
	for _, r := range []Rect{l.zoomOut, l.slider, l.zoomIn, l.export} {
		if r.Y != wantY {
			t.Errorf("control Y = %f, want %f", r.Y, wantY)
		}
	}
	if l.region.Y != wantY-overlayPad {
		t.Errorf("region Y = %f, want %f", l.region.Y, wantY-overlayPad)
	}
	// The strip hugs the left edge regardless of width.
	if l.zoomOut.X != overlayMargin {
		t.Errorf("zoomOut X = %f, want %f", l.zoomOut.X, overlayMargin)
	}
}

func TestOverlayControlsSitInsideRegion(t *testing.T) {
	l := overlayLayoutFor(800, 600)
	for name, r := range map[string]Rect{
		"zoomOut": l.zoomOut,
		"slider":  l.slider,
		"zoomIn":  l.zoomIn,
		"export":  l.export,
	} {
		if !l.region.Contains(r.X, r.Y) || !l.region.Contains(r.Right(), r.Bottom()) {
			t.Errorf("%s %+v escapes region %+v", name, r, l.region)
		}
	}
}

func TestOverlayRegionMatchesLayout(t *testing.T) {
	v := testViewport(Config{})
	pz := v.interactor.(*PanAndZoom)
	if got, want := pz.OverlayRegion(v), overlayLayoutFor(800, 600).region; got != want {
		t.Errorf("OverlayRegion = %+v, want %+v", got, want)
	}
}

// --- Slider mapping ---

func TestSliderScaleMapping(t *testing.T) {
	v := testViewport(Config{})
	track := overlayLayoutFor(800, 600).slider

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"left edge", track.X, v.MinZoom()},
		{"right edge", track.X + track.Width, v.MaxZoom()},
		{"midpoint", track.X + track.Width/2, v.MinZoom() + 0.5*(v.MaxZoom()-v.MinZoom())},
		{"before track", track.X - 50, v.MinZoom()},
		{"past track", track.X + track.Width + 200, v.MaxZoom()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sliderScale(v, track, tt.x); !approxEqual(got, tt.want, epsilon) {
				t.Errorf("sliderScale(%f) = %f, want %f", tt.x, got, tt.want)
			}
		})
	}
}

func TestSliderScaleSpansCustomZoomRange(t *testing.T) {
	v := testViewport(Config{Bounds: Bounds{GraphWidth: 400, GraphHeight: 300, MaxZoom: 2.0}})
	track := overlayLayoutFor(800, 600).slider

	if got := sliderScale(v, track, track.X+track.Width); !approxEqual(got, 2.0, epsilon) {
		t.Errorf("right edge = %f, want 2.0", got)
	}
	mid := v.MinZoom() + 0.5*(2.0-v.MinZoom())
	if got := sliderScale(v, track, track.X+track.Width/2); !approxEqual(got, mid, epsilon) {
		t.Errorf("midpoint = %f, want %f", got, mid)
	}
}
