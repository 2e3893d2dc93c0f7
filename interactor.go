package vantage

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Interactor routes pointer and wheel input into viewport commands. The
// Viewport owns event decoding (edge detection, coordinates, modifiers) and
// hands each interaction to the configured Interactor, which decides what it
// means. Implementations must not retain v beyond the call.
type Interactor interface {
	// PointerDown handles a primary pointer press inside the container.
	PointerDown(v *Viewport, e PointerEvent)
	// Wheel handles a wheel or trackpad scroll inside the container.
	Wheel(v *Viewport, e WheelEvent)
}

// OverlayDrawer is implemented by interactors that contribute on-screen
// controls. The Viewport draws the overlay after the host's content and
// excludes OverlayRegion from click synthesis.
type OverlayDrawer interface {
	DrawOverlay(v *Viewport, screen *ebiten.Image)
	OverlayRegion(v *Viewport) Rect
}

// interactorTicker is implemented by interactors that track time, such as
// hint countdowns. Tick runs once per Update with the tick duration.
type interactorTicker interface {
	Tick(v *Viewport, dt float64)
}

// --- PanAndZoom ---

// PanAndZoom is the full navigation strategy: dragging pans, the wheel pans
// or zooms depending on modifiers, and an overlay contributes zoom buttons,
// a zoom slider, and an export trigger.
//
// Wheel routing:
//   - zoom modifier held (Meta or Ctrl): zoom centered on the cursor
//   - wheel over the overlay region: zoom centered on the container center
//   - Shift held with no horizontal delta: vertical delta pans horizontally
//   - otherwise: two-axis pan
//
// Unmodified wheel pans raise a transient "hold to zoom" hint so users
// discover the modifier; the hint retires for good once a modified zoom
// happens.
type PanAndZoom struct {
	hintLeft   float64
	zoomedOnce bool
}

// NewPanAndZoom returns the default interaction strategy.
func NewPanAndZoom() *PanAndZoom {
	return &PanAndZoom{}
}

func (p *PanAndZoom) PointerDown(v *Viewport, e PointerEvent) {
	if p.handleOverlayPress(v, e) {
		return
	}
	if e.Button != MouseButtonLeft {
		return
	}
	v.beginDrag(e, func(v *Viewport, x, y, dx, dy float64) {
		v.dragShift(dx, dy)
	}, nil)
}

func (p *PanAndZoom) Wheel(v *Viewport, e WheelEvent) {
	switch {
	case e.Modifiers&(ModMeta|ModCtrl) != 0:
		v.ZoomRelativeToScreenPoint(p.wheelZoomTarget(v, e), e.X, e.Y)
		p.zoomedOnce = true
		p.hintLeft = 0

	case p.OverlayRegion(v).Contains(e.X, e.Y):
		cx, cy := v.containerCenter()
		v.ZoomRelativeToScreenPoint(p.wheelZoomTarget(v, e), cx, cy)

	case e.Modifiers&ModShift != 0 && e.DeltaX == 0:
		v.Shift(-e.DeltaY*v.tuning.WheelPanSpeed, 0)
		p.noteWheelPan(v)

	default:
		v.Shift(-e.DeltaX*v.tuning.WheelPanSpeed, -e.DeltaY*v.tuning.WheelPanSpeed)
		p.noteWheelPan(v)
	}
}

// wheelZoomTarget converts a wheel delta into a target scale. Scrolling up
// (negative delta in scroll convention) zooms in.
func (p *PanAndZoom) wheelZoomTarget(v *Viewport, e WheelEvent) float64 {
	sens := v.tuning.zoomSensitivity(e.Granularity)
	return v.state.Scale * (1 - e.DeltaY*sens)
}

func (p *PanAndZoom) noteWheelPan(v *Viewport) {
	if !p.zoomedOnce {
		p.hintLeft = v.tuning.HintSeconds
	}
}

// Tick counts the hint down.
func (p *PanAndZoom) Tick(v *Viewport, dt float64) {
	if p.hintLeft > 0 {
		p.hintLeft -= dt
		if p.hintLeft < 0 {
			p.hintLeft = 0
		}
	}
}

// HintVisible reports whether the hold-to-zoom hint is currently shown.
func (p *PanAndZoom) HintVisible() bool {
	return p.hintLeft > 0
}

// --- Inert ---

// Inert swallows all interaction: presses start no drag, wheel events do
// nothing, and there is no overlay. Use it for read-only embeddings that
// still want the viewport's framing and render contract.
type Inert struct{}

func (Inert) PointerDown(*Viewport, PointerEvent) {}

func (Inert) Wheel(*Viewport, WheelEvent) {}
