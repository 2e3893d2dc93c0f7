package vantage

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// animDuration is the length, in seconds, of every programmatic viewport
// glide (autocenter, zoom-to-region, zoom-to-point).
const animDuration = 0.3

// Anim glides the viewport from its state at creation time to a target
// state. At most one Anim is live per viewport; starting a new one cancels
// the previous so two animations never fight over the offsets.
type Anim struct {
	toX, toY, toScale float64

	tweenX     *gween.Tween
	tweenY     *gween.Tween
	tweenScale *gween.Tween

	doneX     bool
	doneY     bool
	doneScale bool

	cancelled bool
	finished  bool
}

func newAnim(from State, toX, toY, toScale float64) *Anim {
	return &Anim{
		toX:        toX,
		toY:        toY,
		toScale:    toScale,
		tweenX:     gween.New(float32(from.OffsetX), float32(toX), animDuration, ease.OutQuad),
		tweenY:     gween.New(float32(from.OffsetY), float32(toY), animDuration, ease.OutQuad),
		tweenScale: gween.New(float32(from.Scale), float32(toScale), animDuration, ease.OutQuad),
	}
}

// update advances the animation by dt seconds and writes the interpolated
// state through the viewport. The final frame writes the exact target values
// so no float32 drift survives the glide.
func (a *Anim) update(v *Viewport, dt float32) {
	if a.cancelled || a.finished {
		return
	}

	x, fx := a.tweenX.Update(dt)
	y, fy := a.tweenY.Update(dt)
	s, fs := a.tweenScale.Update(dt)
	a.doneX = a.doneX || fx
	a.doneY = a.doneY || fy
	a.doneScale = a.doneScale || fs

	if a.doneX && a.doneY && a.doneScale {
		a.finished = true
		v.commit(a.toX, a.toY, a.toScale)
		return
	}
	v.commit(float64(x), float64(y), float64(s))
}

// Cancel stops the animation where it is. The viewport keeps whatever
// intermediate state the last update committed. Calling Cancel twice, or
// after completion, has no further effect.
func (a *Anim) Cancel() {
	a.cancelled = true
}

// Done reports whether the animation has completed or been cancelled.
func (a *Anim) Done() bool {
	return a.finished || a.cancelled
}
