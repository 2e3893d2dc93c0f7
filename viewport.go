package vantage

import (
	"math"

	"github.com/ajstarks/svgo"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Keyboard repeat pacing for arrow-key pan intents, in seconds.
const (
	keyRepeatDelay    = 0.4
	keyRepeatInterval = 0.05
)

// Double-click synthesis window and radius.
const (
	doubleClickSeconds = 0.4
	doubleClickRadius  = 6.0
)

// Config configures a Viewport. The zero value is usable for tests; real
// hosts set Bounds and wire OnRender.
type Config struct {
	// Bounds declares the content extents and zoom policy.
	Bounds Bounds
	// DefaultZoom selects the autocenter target: fit both axes or fit width.
	DefaultZoom DefaultZoom
	// Interactor is the interaction strategy. Nil means NewPanAndZoom().
	Interactor Interactor
	// Tuning holds input-feel parameters. Zero fields keep their defaults.
	Tuning Tuning
	// Title names the view; exports derive their filename from it.
	Title string
	// ExportDir receives exported files. Empty means the working directory.
	ExportDir string
	// ExportContent produces vector markup for ExportSVG and the overlay
	// export button.
	ExportContent func(*svg.SVG, State, Rect)

	// OnRender runs after every committed mutation with the new state and
	// the recomputed visible region.
	OnRender func(State, Rect)
	// OnClick runs for a synthesized click in container coordinates.
	OnClick func(x, y float64, mods KeyModifiers)
	// OnDoubleClick runs for two clicks within the double-click window and
	// radius, outside the overlay region.
	OnDoubleClick func(x, y float64)
	// OnPanIntent runs for arrow-key presses with key-repeat pacing. The
	// Viewport never pans on arrows itself.
	OnPanIntent func(PanDirection)

	// Logger receives debug logs for commands, animation and export. Nil
	// disables logging.
	Logger *log.Logger
}

// dragSession holds the listeners of one pointer drag. Listeners are scoped
// resources: registered by beginDrag, guaranteed cleared on release even
// when the pointer leaves the container first.
type dragSession struct {
	active         bool
	startX, startY float64
	travel         float64
	onMove         func(v *Viewport, x, y, dx, dy float64)
	onUp           func(v *Viewport, x, y float64)
}

type injectKind uint8

const (
	injectPointer injectKind = iota
	injectWheel
	injectKey
)

type injectedEvent struct {
	kind    injectKind
	x, y    float64
	pressed bool
	mods    KeyModifiers
	wheel   WheelEvent
	dir     PanDirection
}

// Viewport owns the view state of one pan-and-zoom surface and turns input
// into state commits. All mutation happens on the game loop; the Viewport
// spawns no goroutines.
type Viewport struct {
	bounds      Bounds
	defaultZoom DefaultZoom
	interactor  Interactor
	tuning      Tuning
	title       string
	exportDir   string
	logger      *log.Logger

	// Callbacks
	exportContent func(*svg.SVG, State, Rect)
	onRender      func(State, Rect)
	onClick       func(x, y float64, mods KeyModifiers)
	onDoubleClick func(x, y float64)
	onPanIntent   func(PanDirection)

	// Container
	containerW float64
	containerH float64

	// View state
	state State
	anim  *Anim

	// Pointer state
	pointerHeld bool
	pointerX    float64
	pointerY    float64
	drag        dragSession

	// Click synthesis
	lastClickTick int64
	lastClickX    float64
	lastClickY    float64

	// Arrow-key repeat
	arrowHeld [4]bool
	arrowNext [4]float64

	// Synthetic input
	injected     []injectedEvent
	injectedDown bool
	replay       *Replay

	tick int64
}

// New creates a Viewport with the given configuration. The initial scale is
// 1; call Resize with the container size before issuing commands.
func New(cfg Config) *Viewport {
	v := &Viewport{
		bounds:        cfg.Bounds,
		defaultZoom:   cfg.DefaultZoom,
		interactor:    cfg.Interactor,
		tuning:        cfg.Tuning.withDefaults(),
		title:         cfg.Title,
		exportDir:     cfg.ExportDir,
		exportContent: cfg.ExportContent,
		onRender:      cfg.OnRender,
		onClick:       cfg.OnClick,
		onDoubleClick: cfg.OnDoubleClick,
		onPanIntent:   cfg.OnPanIntent,
		logger:        cfg.Logger,
	}
	if v.interactor == nil {
		v.interactor = NewPanAndZoom()
	}
	v.state.Scale = 1
	return v
}

// --- Accessors ---

// State returns a copy of the current view state.
func (v *Viewport) State() State {
	return v.state
}

// Bounds returns the current content bounds.
func (v *Viewport) Bounds() Bounds {
	return v.bounds
}

// MinZoom returns the effective zoom floor for the current container size.
func (v *Viewport) MinZoom() float64 {
	return minZoomFor(v.bounds, v.containerW, v.containerH)
}

// MaxZoom returns the zoom ceiling.
func (v *Viewport) MaxZoom() float64 {
	return maxZoomFor(v.bounds)
}

// VisibleRegion returns the world-space rectangle currently in view.
// Recomputed from the live transform on every call, never cached.
func (v *Viewport) VisibleRegion() Rect {
	return visibleRegionFor(v.viewMatrix(), v.containerW, v.containerH)
}

// WorldToScreen maps a world point to container-local screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	return worldToScreen(v.bounds, v.containerW, v.containerH, v.state, wx, wy)
}

// ScreenToWorld maps a container-local screen point to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	return screenToWorld(v.bounds, v.containerW, v.containerH, v.state, sx, sy)
}

// GeoM returns the world-to-screen transform as an ebiten.GeoM, ready to use
// as the base transform when the host draws content.
func (v *Viewport) GeoM() ebiten.GeoM {
	m := v.viewMatrix()
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// ActiveAnimation returns the in-flight animation handle, or nil.
func (v *Viewport) ActiveAnimation() *Anim {
	return v.anim
}

func (v *Viewport) viewMatrix() [6]float64 {
	return viewTransform(v.bounds, v.containerW, v.containerH, v.state)
}

func (v *Viewport) mounted() bool {
	return v.containerW > 0 && v.containerH > 0
}

func (v *Viewport) containerCenter() (float64, float64) {
	return v.containerW / 2, v.containerH / 2
}

func (v *Viewport) insideContainer(x, y float64) bool {
	return x >= 0 && x <= v.containerW && y >= 0 && y <= v.containerH
}

// --- Commit path ---

// commit is the single write path for the view state. It clamps the scale,
// skips no-op writes, and dispatches the render contract.
func (v *Viewport) commit(ox, oy, scale float64) {
	if !v.mounted() {
		return
	}
	scale = clamp(scale, v.MinZoom(), v.MaxZoom())
	if ox == v.state.OffsetX && oy == v.state.OffsetY && scale == v.state.Scale {
		return
	}
	v.state.OffsetX = ox
	v.state.OffsetY = oy
	v.state.Scale = scale
	v.render()
}

// render recomputes the visible region and notifies the host.
func (v *Viewport) render() {
	if v.onRender != nil {
		v.onRender(v.state, v.VisibleRegion())
	}
}

func (v *Viewport) setPointerDown(held bool) {
	if v.state.PointerDown == held {
		return
	}
	v.state.PointerDown = held
	if held {
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	if v.mounted() {
		v.render()
	}
}

// applyTarget commits a target state directly or glides there.
func (v *Viewport) applyTarget(ox, oy, scale float64, animated bool) {
	if animated {
		v.anim = newAnim(v.state, ox, oy, scale)
		return
	}
	v.commit(ox, oy, scale)
}

// --- Commands ---

// Shift translates the view by (dx, dy) screen pixels.
func (v *Viewport) Shift(dx, dy float64) {
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	v.debugf("shift dx=%.1f dy=%.1f", dx, dy)
	v.commit(v.state.OffsetX+dx, v.state.OffsetY+dy, v.state.Scale)
}

// dragShift is the unlogged pan used by drag sessions.
func (v *Viewport) dragShift(dx, dy float64) {
	v.commit(v.state.OffsetX+dx, v.state.OffsetY+dy, v.state.Scale)
}

// ZoomRelativeToScreenPoint rescales the view so the world point currently
// under the screen point (sx, sy) stays put at the new scale.
func (v *Viewport) ZoomRelativeToScreenPoint(scale, sx, sy float64) {
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	v.debugf("zoom to %.3f about (%.0f, %.0f)", scale, sx, sy)
	v.zoomAbout(scale, sx, sy)
}

// zoomAbout is the anchored-zoom primitive shared by the wheel, the zoom
// buttons, and the slider. The anchor screen point converts to world space
// under the current transform; the new offsets are solved so the same world
// point maps back to the same screen point at the new scale.
func (v *Viewport) zoomAbout(scale, sx, sy float64) {
	scale = clamp(scale, v.MinZoom(), v.MaxZoom())
	wx, wy := v.ScreenToWorld(sx, sy)
	ox, oy := anchorOffsets(v.bounds, v.containerW, v.containerH, sx, sy, wx, wy, scale)
	v.commit(ox, oy, scale)
}

// StepZoom nudges the scale by delta about the container center. The result
// rounds to two decimals so repeated button presses land on stable values.
func (v *Viewport) StepZoom(delta float64) {
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	target := math.Round((v.state.Scale+delta)*100) / 100
	v.debugf("step zoom to %.2f", target)
	cx, cy := v.containerCenter()
	v.zoomAbout(target, cx, cy)
}

// ZoomToWorldPoint places the world point (wx, wy) at the container center
// at the clamped scale.
func (v *Viewport) ZoomToWorldPoint(wx, wy, scale float64, animated bool) {
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	scale = clamp(scale, v.MinZoom(), v.MaxZoom())
	v.debugf("zoom to world point (%.1f, %.1f) at %.3f", wx, wy, scale)
	ox, oy := centerOffsets(v.bounds, v.containerW, v.containerH, wx, wy, scale)
	v.applyTarget(ox, oy, scale, animated)
}

// ZoomToRegion centers the view on a world-space region at the current
// scale. A current scale equal to the minimum zoom substitutes the maximum,
// so repeated double-clicks on the same region toggle overview and detail.
func (v *Viewport) ZoomToRegion(r Rect, animated bool) {
	v.ZoomToRegionAt(r, v.state.Scale, animated)
}

// ZoomToRegionAt is ZoomToRegion with an explicit target scale. A requested
// scale equal to the minimum zoom substitutes the maximum.
func (v *Viewport) ZoomToRegionAt(r Rect, scale float64, animated bool) {
	if !v.mounted() {
		return
	}
	if scale == v.MinZoom() {
		scale = v.MaxZoom()
	}
	cx, cy := r.Center()
	v.ZoomToWorldPoint(cx, cy, scale, animated)
}

// Autocenter recenters the content and applies the default zoom for the
// configured mode, capped by the autocenter ceiling.
func (v *Viewport) Autocenter(animated bool) {
	v.autocenter(v.desiredAutocenterScale(), animated)
}

// AutocenterAt recenters at an explicit scale instead of the computed one.
func (v *Viewport) AutocenterAt(scale float64, animated bool) {
	v.autocenter(scale, animated)
}

func (v *Viewport) desiredAutocenterScale() float64 {
	if v.defaultZoom == FitWidth {
		return widthScaleFor(v.bounds, v.containerW)
	}
	return fitScaleFor(v.bounds, v.containerW, v.containerH)
}

func (v *Viewport) autocenter(scale float64, animated bool) {
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	target := clamp(scale, v.MinZoom(), maxAutocenterZoomFor(v.bounds))
	// A user parked exactly at the zoom floor chose that overview on
	// purpose; recentering must not zoom them back in.
	if v.state.Scale < target && v.state.Scale == v.MinZoom() {
		return
	}
	v.state.MinScale = target
	v.debugf("autocenter to %.3f", target)
	v.applyTarget(0, 0, target, animated)
}

// SetBounds swaps the content bounds, reclamps the scale, and re-renders.
// Use it when the content is rebuilt in place.
func (v *Viewport) SetBounds(b Bounds) {
	v.bounds = b
	if !v.mounted() {
		return
	}
	v.CancelActiveAnimation()
	v.state.Scale = clamp(v.state.Scale, v.MinZoom(), v.MaxZoom())
	v.debugf("bounds %gx%g", b.GraphWidth, b.GraphHeight)
	v.render()
}

// CancelActiveAnimation stops any in-flight animation, leaving the state
// wherever the last tick committed it.
func (v *Viewport) CancelActiveAnimation() {
	if v.anim == nil {
		return
	}
	v.anim.Cancel()
	v.anim = nil
	v.debugf("animation cancelled")
}

// --- Container lifecycle ---

// Resize records the container size; the host's Layout is the usual caller.
// A size change forces a re-render. Commands no-op while the size is zero.
func (v *Viewport) Resize(w, h float64) {
	if w == v.containerW && h == v.containerH {
		return
	}
	v.containerW, v.containerH = w, h
	v.debugf("resize %gx%g", w, h)
	if v.mounted() {
		v.render()
	}
}

// Unmount detaches the viewport from its container: the animation is
// cancelled, interaction state is cleared, and every command becomes a
// no-op until the next Resize.
func (v *Viewport) Unmount() {
	v.CancelActiveAnimation()
	v.drag = dragSession{}
	v.pointerHeld = false
	v.injectedDown = false
	v.state.PointerDown = false
	v.containerW, v.containerH = 0, 0
	v.debugf("unmounted")
}

// --- Game loop ---

// Update advances the viewport by one tick; call it from the host's Update.
// It advances the animation, steps an attached replay script, consumes
// injected synthetic input or polls live input, and expires the wheel hint.
func (v *Viewport) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	v.tick++

	if a := v.anim; a != nil {
		a.update(v, float32(dt))
		if a.Done() && v.anim == a {
			v.anim = nil
		}
	}

	if r := v.replay; r != nil {
		r.step(v)
		if r.Done() && v.replay == r {
			v.replay = nil
		}
	}

	if !v.processInjected() && v.mounted() {
		v.pollInput(dt)
	}

	if t, ok := v.interactor.(interactorTicker); ok {
		t.Tick(v, dt)
	}
	return nil
}

// Draw renders the interactor overlay. Content drawing is the host's job,
// under GeoM(); Draw only layers the controls on top.
func (v *Viewport) Draw(screen *ebiten.Image) {
	if !v.mounted() {
		return
	}
	if od, ok := v.interactor.(OverlayDrawer); ok {
		od.DrawOverlay(v, screen)
	}
}

// --- Input ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// pollInput reads live mouse and keyboard state. Runs only when no synthetic
// input is pending so scripted sessions stay deterministic.
func (v *Viewport) pollInput(dt float64) {
	mods := readModifiers()

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	// Detect which button is pressed. While the pointer is already down the
	// state machine keeps the button captured at press time.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}
	v.processPointer(x, y, pressed, button, mods)

	// ebiten reports wheel-up as positive; events carry scroll convention
	// (positive down/right), so both axes negate.
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		if v.interactor != nil && v.insideContainer(x, y) {
			v.interactor.Wheel(v, WheelEvent{
				X:           x,
				Y:           y,
				DeltaX:      -wx,
				DeltaY:      -wy,
				Granularity: WheelLine,
				Modifiers:   mods,
			})
		}
	}

	v.pollArrows(dt)
}

var arrowKeys = [4]ebiten.Key{
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
}

// pollArrows reports arrow-key pan intents with key-repeat pacing: one
// intent on press, then a delay, then a steady repeat while held.
func (v *Viewport) pollArrows(dt float64) {
	if v.onPanIntent == nil {
		return
	}
	for i, key := range arrowKeys {
		if !ebiten.IsKeyPressed(key) {
			v.arrowHeld[i] = false
			continue
		}
		if !v.arrowHeld[i] {
			v.arrowHeld[i] = true
			v.arrowNext[i] = keyRepeatDelay
			v.onPanIntent(PanDirection(i))
			continue
		}
		v.arrowNext[i] -= dt
		if v.arrowNext[i] <= 0 {
			v.arrowNext[i] = keyRepeatInterval
			v.onPanIntent(PanDirection(i))
		}
	}
}

// processInjected consumes at most one queued synthetic event per tick.
// It reports whether live polling must stay suppressed, which holds while
// events are queued and for the duration of a synthetic pointer session.
func (v *Viewport) processInjected() bool {
	if len(v.injected) == 0 {
		return v.injectedDown
	}
	e := v.injected[0]
	v.injected = v.injected[1:]
	switch e.kind {
	case injectPointer:
		v.injectedDown = e.pressed
		v.processPointer(e.x, e.y, e.pressed, MouseButtonLeft, e.mods)
	case injectWheel:
		if v.mounted() && v.interactor != nil {
			v.interactor.Wheel(v, e.wheel)
		}
	case injectKey:
		if v.onPanIntent != nil {
			v.onPanIntent(e.dir)
		}
	}
	return true
}

// processPointer runs the single-pointer state machine: press and release
// edges, drag moves in between.
func (v *Viewport) processPointer(x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	switch {
	case pressed && !v.pointerHeld:
		v.pointerHeld = true
		v.pointerX, v.pointerY = x, y
		v.setPointerDown(true)
		if v.mounted() && v.insideContainer(x, y) && v.interactor != nil {
			v.interactor.PointerDown(v, PointerEvent{X: x, Y: y, Button: button, Modifiers: mods})
		}

	case !pressed && v.pointerHeld:
		v.pointerHeld = false
		suppress := v.drag.active && v.drag.travel > ClickSuppressTravel
		v.endDrag(x, y)
		v.setPointerDown(false)
		if !suppress && v.mounted() && v.insideContainer(x, y) {
			v.synthesizeClick(x, y, mods)
		}

	case pressed && v.pointerHeld:
		if x == v.pointerX && y == v.pointerY {
			return
		}
		dx := x - v.pointerX
		dy := y - v.pointerY
		v.pointerX, v.pointerY = x, y
		if v.drag.active {
			v.drag.travel += math.Abs(dx) + math.Abs(dy)
			if v.drag.onMove != nil {
				v.drag.onMove(v, x, y, dx, dy)
			}
		}

	default:
		v.pointerX, v.pointerY = x, y
	}
}

// beginDrag opens a drag session for the current press and cancels any
// in-flight animation. onMove receives absolute pointer coordinates plus the
// per-move delta; onUp runs on release.
func (v *Viewport) beginDrag(e PointerEvent, onMove func(v *Viewport, x, y, dx, dy float64), onUp func(v *Viewport, x, y float64)) {
	v.CancelActiveAnimation()
	v.drag = dragSession{
		active: true,
		startX: e.X,
		startY: e.Y,
		onMove: onMove,
		onUp:   onUp,
	}
}

// endDrag clears the session before running onUp, so a listener that starts
// a new drag never sees stale state.
func (v *Viewport) endDrag(x, y float64) {
	if !v.drag.active {
		return
	}
	onUp := v.drag.onUp
	v.drag = dragSession{}
	if onUp != nil {
		onUp(v, x, y)
	}
}

// synthesizeClick turns a press/release pair into OnClick and, when a second
// click lands inside the window and radius, OnDoubleClick. Points inside the
// overlay region belong to the zoom controls and never reach the host.
func (v *Viewport) synthesizeClick(x, y float64, mods KeyModifiers) {
	if r := v.overlayRegion(); r.Width > 0 && r.Contains(x, y) {
		return
	}
	if v.onClick != nil {
		v.onClick(x, y, mods)
	}

	window := int64(math.Round(doubleClickSeconds * float64(ebiten.TPS())))
	if v.lastClickTick > 0 && v.tick-v.lastClickTick <= window &&
		math.Abs(x-v.lastClickX) <= doubleClickRadius &&
		math.Abs(y-v.lastClickY) <= doubleClickRadius {
		v.lastClickTick = 0
		if v.onDoubleClick != nil {
			v.onDoubleClick(x, y)
		}
		return
	}
	v.lastClickTick = v.tick
	v.lastClickX, v.lastClickY = x, y
}

func (v *Viewport) overlayRegion() Rect {
	if od, ok := v.interactor.(OverlayDrawer); ok {
		return od.OverlayRegion(v)
	}
	return Rect{}
}

// --- Logging ---

// debugf logs through the configured logger. Nil logger means silent.
func (v *Viewport) debugf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Debugf(format, args...)
	}
}

// exportFromOverlay runs the export path for the overlay button. Failures
// are logged, never fatal to the loop.
func (v *Viewport) exportFromOverlay() {
	path, err := v.ExportSVG(nil)
	if err != nil {
		if v.logger != nil {
			v.logger.Errorf("export: %v", err)
		}
		return
	}
	v.debugf("exported %s", path)
}
