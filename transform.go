package vantage

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// --- Viewport frame geometry ---

// viewTransform builds the world-to-screen matrix for a container of size
// (w, h) showing content of size bounds.GraphWidth x bounds.GraphHeight at
// the given state. Offset (0, 0) centers the content:
//
//	screenX = (worldX - graphW/2)*scale + w/2 + offsetX
//
// The matrix is the product Translate(tx, ty) * Scale(scale), which is the
// same transform hosts apply when drawing content.
func viewTransform(b Bounds, w, h float64, st State) [6]float64 {
	s := st.Scale
	tx := w/2 + st.OffsetX - b.GraphWidth/2*s
	ty := h/2 + st.OffsetY - b.GraphHeight/2*s
	return multiplyAffine(
		[6]float64{1, 0, 0, 1, tx, ty},
		[6]float64{s, 0, 0, s, 0, 0},
	)
}

// worldToScreen maps a world point to container-local screen coordinates.
func worldToScreen(b Bounds, w, h float64, st State, wx, wy float64) (float64, float64) {
	return transformPoint(viewTransform(b, w, h, st), wx, wy)
}

// screenToWorld maps a container-local screen point to world coordinates.
// Exact algebraic inverse of worldToScreen.
func screenToWorld(b Bounds, w, h float64, st State, sx, sy float64) (float64, float64) {
	return transformPoint(invertAffine(viewTransform(b, w, h, st)), sx, sy)
}

// fitScaleFor returns the scale at which the content exactly fits the
// container on its limiting axis. Assumes positive content size.
func fitScaleFor(b Bounds, w, h float64) float64 {
	return math.Min(w/b.GraphWidth, h/b.GraphHeight)
}

// widthScaleFor returns the scale at which the content width exactly fills
// the container width.
func widthScaleFor(b Bounds, w float64) float64 {
	return w / b.GraphWidth
}

// minZoomFor returns the effective zoom floor. With ContentHasNoMinimumZoom
// set, large content may fit below the default floor; otherwise the floor
// applies unconditionally so small content is never forced to an unreadable
// "fit" scale.
func minZoomFor(b Bounds, w, h float64) float64 {
	if b.ContentHasNoMinimumZoom {
		return math.Min(DefaultMinZoom, fitScaleFor(b, w, h))
	}
	return DefaultMinZoom
}

// maxZoomFor returns the zoom ceiling.
func maxZoomFor(b Bounds) float64 {
	if b.MaxZoom > 0 {
		return b.MaxZoom
	}
	return DefaultMaxZoom
}

// maxAutocenterZoomFor returns the ceiling on the scale autocenter may pick.
func maxAutocenterZoomFor(b Bounds) float64 {
	if b.MaxAutocenterZoom > 0 {
		return b.MaxAutocenterZoom
	}
	return DefaultMaxAutocenterZoom
}

// anchorOffsets solves for the state offsets that place the world point
// (wx, wy) under the screen point (sx, sy) at the given scale. This is the
// zoom-anchor primitive: zooming about a screen point converts it to world
// space under the current transform, then re-solves the offsets at the new
// scale so the same world point maps back to the same screen point.
func anchorOffsets(b Bounds, w, h float64, sx, sy, wx, wy, scale float64) (ox, oy float64) {
	ox = sx - w/2 - (wx-b.GraphWidth/2)*scale
	oy = sy - h/2 - (wy-b.GraphHeight/2)*scale
	return ox, oy
}

// centerOffsets solves for the state offsets that place the world point
// (wx, wy) at the container center at the given scale.
func centerOffsets(b Bounds, w, h float64, wx, wy, scale float64) (ox, oy float64) {
	return anchorOffsets(b, w, h, w/2, h/2, wx, wy, scale)
}

// visibleRegionFor returns the axis-aligned world-space rectangle visible
// through a container of size (w, h) under the given view matrix. The four
// container corners are inverse-transformed and wrapped in an AABB.
func visibleRegionFor(view [6]float64, w, h float64) Rect {
	inv := invertAffine(view)

	x0, y0 := transformPoint(inv, 0, 0)
	x1, y1 := transformPoint(inv, w, 0)
	x2, y2 := transformPoint(inv, w, h)
	x3, y3 := transformPoint(inv, 0, h)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
