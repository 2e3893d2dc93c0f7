package main

import (
	"image/color"
	"math"
	"sync/atomic"

	"github.com/ajstarks/svgo"
	charmlog "github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/vantage"
)

// Screen pixels of translation applied per arrow-key pan intent.
const arrowPanStep = 20.0

var (
	backColor  = color.RGBA{R: 245, G: 246, B: 248, A: 255}
	nodeFill   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	nodeStroke = color.RGBA{R: 52, G: 58, B: 64, A: 255}
	edgeColor  = color.RGBA{R: 108, G: 117, B: 125, A: 255}
)

// app hosts a Viewport over a laid-out DAG. It implements ebiten.Game.
type app struct {
	vp     *vantage.Viewport
	logger *charmlog.Logger
	layout *dagLayout
	path   string

	// reload is flipped by the file watcher goroutine and consumed here.
	reload   *atomic.Bool
	centered bool
}

func (a *app) Update() error {
	if a.reload != nil && a.reload.CompareAndSwap(true, false) {
		a.reloadGraph()
	}
	if !a.centered {
		a.vp.Autocenter(false)
		a.centered = true
	}
	return a.vp.Update()
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(backColor)
	view := a.vp.GeoM()

	for _, e := range a.layout.edges {
		for i := 1; i < len(e.xs); i++ {
			drawWorldLine(screen, view, e.xs[i-1], e.ys[i-1], e.xs[i], e.ys[i], 1.5, edgeColor)
		}
	}
	for _, n := range a.layout.nodes {
		drawWorldRect(screen, view, n.x-1, n.y-1, n.w+2, n.h+2, nodeStroke)
		drawWorldRect(screen, view, n.x, n.y, n.w, n.h, nodeFill)
		sx, sy := a.vp.WorldToScreen(n.x+n.w/2, n.y+n.h/2)
		ebitenutil.DebugPrintAt(screen, n.label, int(sx)-len(n.label)*3, int(sy)-8)
	}

	a.vp.Draw(screen)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.vp.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

func (a *app) reloadGraph() {
	l, err := loadLayout(a.path)
	if err != nil {
		a.logger.Errorf("reload: %v", err)
		return
	}
	a.layout = l
	a.vp.SetBounds(vantage.Bounds{GraphWidth: l.width, GraphHeight: l.height})
	a.vp.Autocenter(true)
	a.logger.Infof("reloaded %s: %d nodes, %d edges", a.path, len(l.nodes), len(l.edges))
}

// --- Viewport callbacks ---

func (a *app) handleClick(x, y float64, mods vantage.KeyModifiers) {
	wx, wy := a.vp.ScreenToWorld(x, y)
	for _, n := range a.layout.nodes {
		if n.contains(wx, wy) {
			a.logger.Infof("node %s", n.name)
			return
		}
	}
}

func (a *app) handleDoubleClick(x, y float64) {
	wx, wy := a.vp.ScreenToWorld(x, y)
	a.vp.ZoomToWorldPoint(wx, wy, a.vp.State().Scale*1.5, true)
}

func (a *app) handlePanIntent(dir vantage.PanDirection) {
	switch dir {
	case vantage.PanLeft:
		a.vp.Shift(arrowPanStep, 0)
	case vantage.PanRight:
		a.vp.Shift(-arrowPanStep, 0)
	case vantage.PanUp:
		a.vp.Shift(0, arrowPanStep)
	case vantage.PanDown:
		a.vp.Shift(0, -arrowPanStep)
	}
}

// exportContent redraws the laid-out graph as standalone vector markup.
func (a *app) exportContent(canvas *svg.SVG, _ vantage.State, _ vantage.Rect) {
	for _, e := range a.layout.edges {
		xs := make([]int, len(e.xs))
		ys := make([]int, len(e.ys))
		for i := range e.xs {
			xs[i] = int(math.Round(e.xs[i]))
			ys[i] = int(math.Round(e.ys[i]))
		}
		canvas.Polyline(xs, ys, "fill:none;stroke:#6c757d;stroke-width:1.5")
	}
	for _, n := range a.layout.nodes {
		canvas.Rect(int(math.Round(n.x)), int(math.Round(n.y)), int(math.Round(n.w)), int(math.Round(n.h)),
			"fill:#ffffff;stroke:#343a40")
		canvas.Text(int(math.Round(n.x+n.w/2)), int(math.Round(n.y+n.h/2))+4, n.label,
			"text-anchor:middle;font-size:12px;font-family:sans-serif")
	}
}

// --- World-space drawing under the view transform ---

var unitPixel *ebiten.Image

func ensureUnitPixel() *ebiten.Image {
	if unitPixel == nil {
		unitPixel = ebiten.NewImage(1, 1)
		unitPixel.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return unitPixel
}

func drawWorldRect(dst *ebiten.Image, view ebiten.GeoM, x, y, w, h float64, c color.RGBA) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(view)
	tint(&op, c)
	dst.DrawImage(ensureUnitPixel(), &op)
}

func drawWorldLine(dst *ebiten.Image, view ebiten.GeoM, x0, y0, x1, y1, thickness float64, c color.RGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(y1-y0, x1-x0))
	op.GeoM.Translate(x0, y0)
	op.GeoM.Concat(view)
	tint(&op, c)
	dst.DrawImage(ensureUnitPixel(), &op)
}

func tint(op *ebiten.DrawImageOptions, c color.RGBA) {
	a := float32(c.A) / 255
	op.ColorScale.Scale(
		float32(c.R)/255*a,
		float32(c.G)/255*a,
		float32(c.B)/255*a,
		a,
	)
}
