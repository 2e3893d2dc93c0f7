package vantage

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Used both for world-space regions
// (content bounds, visible region) and screen-space regions (overlay controls).
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// State is the mutable viewport record: the single source of truth for the
// current view. It is owned exclusively by the Viewport and mutated only
// through its command API; callers read a copy via [Viewport.State].
type State struct {
	// OffsetX and OffsetY are the screen-pixel translation applied on top of
	// the centered framing. (0, 0) means the content is centered in the
	// container.
	OffsetX, OffsetY float64
	// Scale is the uniform world-to-screen zoom factor. Always > 0 and
	// clamped to [MinZoom, MaxZoom] by every command.
	Scale float64
	// MinScale is the "zoomed out to fit" baseline, recomputed on autocenter.
	MinScale float64
	// PointerDown reports whether the primary button is held. It drives
	// cursor affordance only and has no transform effect.
	PointerDown bool
}

// Bounds describes the caller-supplied content extents and zoom policy.
// Immutable per render cycle; swap it with [Viewport.SetBounds] when the
// content changes.
type Bounds struct {
	// GraphWidth and GraphHeight are the world-space size of the content.
	// Both must be positive; fit-scale math divides by them.
	GraphWidth, GraphHeight float64
	// MaxZoom caps interactive zoom. Zero means DefaultMaxZoom.
	MaxZoom float64
	// MaxAutocenterZoom caps the scale autocenter may choose. Zero means
	// DefaultMaxAutocenterZoom.
	MaxAutocenterZoom float64
	// ContentHasNoMinimumZoom lets the minimum zoom drop below
	// DefaultMinZoom when fitting the whole content requires it. Without it
	// the default floor always applies, so small content is never forced to
	// an unreadable scale.
	ContentHasNoMinimumZoom bool
}

// DefaultZoom selects the scale autocenter aims for.
type DefaultZoom uint8

const (
	FitBothAxes DefaultZoom = iota // fit the whole content inside the container
	FitWidth                       // fit the content width, height may overflow
)

// PanDirection identifies an arrow-key pan intent. The Viewport never pans
// on arrow keys itself; it reports the direction and the host decides.
type PanDirection uint8

const (
	PanLeft  PanDirection = iota // left arrow
	PanRight                     // right arrow
	PanUp                        // up arrow
	PanDown                      // down arrow
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// WheelGranularity classifies the unit a wheel event reports its deltas in.
// Mouse wheels tick in lines, trackpads stream pixels, and some drivers page.
// Each class maps to its own zoom sensitivity in [Tuning].
type WheelGranularity uint8

const (
	WheelLine  WheelGranularity = iota // discrete wheel ticks
	WheelPixel                         // continuous trackpad deltas
	WheelPage                          // page-sized jumps
)

// PointerEvent is a pointer press delivered to an [Interactor].
// Coordinates are container-local screen pixels.
type PointerEvent struct {
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// WheelEvent is a wheel or trackpad scroll delivered to an [Interactor].
// Deltas use scroll convention: positive Y scrolls down, positive X scrolls
// right. Coordinates are container-local screen pixels.
type WheelEvent struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Granularity    WheelGranularity
	Modifiers      KeyModifiers
}

// Zoom policy and interaction constants.
const (
	// DefaultMinZoom is the unconditional zoom floor unless
	// Bounds.ContentHasNoMinimumZoom is set.
	DefaultMinZoom = 0.17
	// DefaultMaxZoom caps interactive zoom when Bounds.MaxZoom is zero.
	DefaultMaxZoom = 1.2
	// DefaultMaxAutocenterZoom caps the autocenter target scale when
	// Bounds.MaxAutocenterZoom is zero.
	DefaultMaxAutocenterZoom = 1.0
	// ZoomButtonStep is the scale increment of the overlay zoom buttons.
	// The result is rounded to two decimal places.
	ZoomButtonStep = 0.05
	// ClickSuppressTravel is the cumulative combined-axis drag distance in
	// pixels beyond which the release no longer counts as a click.
	ClickSuppressTravel = 5.0
)
