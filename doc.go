// Package vantage is an interactive 2D viewport controller for [Ebitengine].
//
// Vantage shows an arbitrarily large logical canvas inside a fixed-size
// screen region and lets the user pan, zoom, and navigate it with mouse,
// wheel/trackpad, and keyboard. It is a navigation substrate, not a
// renderer: content drawing stays with the host, which receives the
// committed [State] and visible region after every mutation and draws under
// the viewport's transform.
//
// # Quick start
//
// Create a [Viewport], feed it the container size from Layout, and drive it
// from your [ebiten.Game]:
//
//	vp := vantage.New(vantage.Config{
//		Bounds: vantage.Bounds{GraphWidth: 2000, GraphHeight: 1200},
//		Title:  "city map",
//		OnRender: func(st vantage.State, visible vantage.Rect) {
//			// mark the scene dirty; redraw only what intersects visible
//		},
//	})
//
//	type Game struct{ vp *vantage.Viewport }
//
//	func (g *Game) Update() error { return g.vp.Update() }
//	func (g *Game) Draw(screen *ebiten.Image) {
//		op := &ebiten.DrawImageOptions{}
//		op.GeoM = g.vp.GeoM()
//		screen.DrawImage(world, op)
//		g.vp.Draw(screen) // zoom controls on top
//	}
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.vp.Resize(float64(w), float64(h))
//		return w, h
//	}
//
// # Coordinate model
//
// A [State] of (offsetX, offsetY, scale) maps world space to the container:
//
//	screenX = (worldX - graphW/2)*scale + containerW/2 + offsetX
//
// Offset (0, 0) means the content is centered. [Viewport.GeoM] exposes the
// transform for drawing; [Viewport.ScreenToWorld], [Viewport.WorldToScreen]
// and [Viewport.VisibleRegion] answer geometry questions. Every command
// clamps the scale to [Viewport.MinZoom] .. [Viewport.MaxZoom].
//
// # Interaction
//
// The [Interactor] decides what input means. [PanAndZoom] pans on drag,
// routes the wheel to pan or anchored zoom by modifier, and contributes
// overlay zoom controls with an export button. [Inert] swallows everything
// for read-only embeddings. Implement the interface for custom schemes.
//
// # Commands and animation
//
// [Viewport.Autocenter], [Viewport.ZoomToRegion] and
// [Viewport.ZoomToWorldPoint] optionally glide to their target over 0.3s
// (via [gween] tweens). At most one animation is in flight; issuing any
// command cancels it.
//
// # Export
//
// [Viewport.ExportSVG] renders the full content at 1:1 scale through a
// caller-supplied markup function ([svgo] canvas) regardless of current
// framing, and writes a self-contained .svg named after the view title.
//
// # Testing
//
// Synthetic input ([Viewport.InjectPointerDown], [Viewport.InjectWheel],
// [Viewport.InjectKey]) and JSON [Replay] scripts drive the viewport
// headlessly and deterministically, one event per tick.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [svgo]: https://github.com/ajstarks/svgo
package vantage
