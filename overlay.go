package vantage

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Overlay metrics in screen pixels. The control strip sits in the
// bottom-left corner: [-][slider][+][export].
const (
	overlayMargin  = 12.0
	overlayButton  = 24.0
	overlaySliderW = 120.0
	overlayGap     = 4.0
	overlayPad     = 4.0
)

const zoomHintText = "hold ctrl or cmd + scroll to zoom"

// Overlay palette.
var (
	overlayBackColor  = color.RGBA{R: 20, G: 20, B: 24, A: 200}
	overlayFaceColor  = color.RGBA{R: 58, G: 58, B: 66, A: 255}
	overlayGlyphColor = color.RGBA{R: 230, G: 230, B: 235, A: 255}
	overlayTrackColor = color.RGBA{R: 96, G: 96, B: 106, A: 255}
)

// --- White pixel singleton (no sync.Once; the package is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// All overlay fills and lines stretch this pixel with a GeoM.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// fillRect draws a solid axis-aligned rectangle in screen space.
func fillRect(dst *ebiten.Image, r Rect, c color.RGBA) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	scaleWithColor(&op, c)
	dst.DrawImage(ensureWhitePixel(), &op)
}

// strokeLine draws a line segment of the given thickness in screen space.
func strokeLine(dst *ebiten.Image, x0, y0, x1, y1, thickness float64, c color.RGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(y1-y0, x1-x0))
	op.GeoM.Translate(x0, y0)
	scaleWithColor(&op, c)
	dst.DrawImage(ensureWhitePixel(), &op)
}

// scaleWithColor applies a premultiplied-alpha tint.
func scaleWithColor(op *ebiten.DrawImageOptions, c color.RGBA) {
	a := float32(c.A) / 255
	op.ColorScale.Scale(
		float32(c.R)/255*a,
		float32(c.G)/255*a,
		float32(c.B)/255*a,
		a,
	)
}

// --- Layout ---

// overlayLayout positions the zoom controls in container space.
type overlayLayout struct {
	region  Rect
	zoomOut Rect
	slider  Rect
	zoomIn  Rect
	export  Rect
}

func overlayLayoutFor(w, h float64) overlayLayout {
	x := overlayMargin
	y := h - overlayMargin - overlayButton

	var l overlayLayout
	l.zoomOut = Rect{X: x, Y: y, Width: overlayButton, Height: overlayButton}
	x += overlayButton + overlayGap
	l.slider = Rect{X: x, Y: y, Width: overlaySliderW, Height: overlayButton}
	x += overlaySliderW + overlayGap
	l.zoomIn = Rect{X: x, Y: y, Width: overlayButton, Height: overlayButton}
	x += overlayButton + overlayGap
	l.export = Rect{X: x, Y: y, Width: overlayButton, Height: overlayButton}

	l.region = Rect{
		X:      l.zoomOut.X - overlayPad,
		Y:      y - overlayPad,
		Width:  l.export.Right() - l.zoomOut.X + 2*overlayPad,
		Height: overlayButton + 2*overlayPad,
	}
	return l
}

// sliderScale maps a track position to a scale over [MinZoom, MaxZoom].
func sliderScale(v *Viewport, track Rect, x float64) float64 {
	t := clamp((x-track.X)/track.Width, 0, 1)
	return v.MinZoom() + t*(v.MaxZoom()-v.MinZoom())
}

// --- PanAndZoom overlay ---

// OverlayRegion returns the screen rectangle the zoom controls occupy.
// Clicks and double-clicks inside it never reach the host, and wheel events
// over it zoom instead of panning.
func (p *PanAndZoom) OverlayRegion(v *Viewport) Rect {
	return overlayLayoutFor(v.containerW, v.containerH).region
}

// handleOverlayPress consumes presses on the zoom controls. Any press inside
// the overlay region is captured, including dead space between controls.
func (p *PanAndZoom) handleOverlayPress(v *Viewport, e PointerEvent) bool {
	l := overlayLayoutFor(v.containerW, v.containerH)
	switch {
	case l.zoomOut.Contains(e.X, e.Y):
		v.StepZoom(-ZoomButtonStep)
	case l.zoomIn.Contains(e.X, e.Y):
		v.StepZoom(ZoomButtonStep)
	case l.export.Contains(e.X, e.Y):
		v.exportFromOverlay()
	case l.slider.Contains(e.X, e.Y):
		p.dragSlider(v, l.slider, e)
	case l.region.Contains(e.X, e.Y):
		// Dead space still captures the press so it cannot start a pan.
	default:
		return false
	}
	return true
}

// dragSlider starts a slider interaction. Pressing the track jumps straight
// to that scale; the session then follows the pointer until release.
func (p *PanAndZoom) dragSlider(v *Viewport, track Rect, e PointerEvent) {
	cx, cy := v.containerCenter()
	v.zoomAbout(sliderScale(v, track, e.X), cx, cy)
	v.beginDrag(e, func(v *Viewport, x, y, dx, dy float64) {
		cx, cy := v.containerCenter()
		v.zoomAbout(sliderScale(v, track, x), cx, cy)
	}, nil)
}

func (p *PanAndZoom) DrawOverlay(v *Viewport, screen *ebiten.Image) {
	l := overlayLayoutFor(v.containerW, v.containerH)

	fillRect(screen, l.region, overlayBackColor)
	fillRect(screen, l.zoomOut, overlayFaceColor)
	fillRect(screen, l.zoomIn, overlayFaceColor)
	fillRect(screen, l.export, overlayFaceColor)

	// Minus glyph.
	midY := l.zoomOut.Y + overlayButton/2
	fillRect(screen, Rect{X: l.zoomOut.X + 6, Y: midY - 1, Width: overlayButton - 12, Height: 2}, overlayGlyphColor)

	// Plus glyph.
	midX := l.zoomIn.X + overlayButton/2
	fillRect(screen, Rect{X: l.zoomIn.X + 6, Y: midY - 1, Width: overlayButton - 12, Height: 2}, overlayGlyphColor)
	fillRect(screen, Rect{X: midX - 1, Y: l.zoomIn.Y + 6, Width: 2, Height: overlayButton - 12}, overlayGlyphColor)

	// Slider track and thumb.
	span := v.MaxZoom() - v.MinZoom()
	t := 0.0
	if span > 0 {
		t = clamp((v.state.Scale-v.MinZoom())/span, 0, 1)
	}
	fillRect(screen, Rect{X: l.slider.X, Y: midY - 1, Width: l.slider.Width, Height: 2}, overlayTrackColor)
	thumbX := l.slider.X + t*l.slider.Width
	fillRect(screen, Rect{X: thumbX - 3, Y: l.slider.Y + 4, Width: 6, Height: overlayButton - 8}, overlayGlyphColor)

	// Export glyph: arrow dropping into a tray.
	ex := l.export.X + overlayButton/2
	fillRect(screen, Rect{X: ex - 1, Y: l.export.Y + 5, Width: 2, Height: 9}, overlayGlyphColor)
	strokeLine(screen, ex-4, l.export.Y+10, ex, l.export.Y+15, 2, overlayGlyphColor)
	strokeLine(screen, ex+4, l.export.Y+10, ex, l.export.Y+15, 2, overlayGlyphColor)
	fillRect(screen, Rect{X: l.export.X + 5, Y: l.export.Bottom() - 7, Width: overlayButton - 10, Height: 2}, overlayGlyphColor)

	if p.HintVisible() {
		ebitenutil.DebugPrintAt(screen, zoomHintText, int(v.containerW/2)-len(zoomHintText)*3, 8)
	}
}
