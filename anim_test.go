package vantage

import (
	"testing"
)

const animStep = float32(1.0 / 60.0)

// runAnim advances the active animation by n ticks.
func runAnim(v *Viewport, n int) {
	a := v.ActiveAnimation()
	if a == nil {
		return
	}
	for i := 0; i < n; i++ {
		a.update(v, animStep)
	}
}

func TestAnimatedCommandDefersCommit(t *testing.T) {
	v := testViewport(Config{})
	v.ZoomToWorldPoint(120, 80, 0.9, true)

	if v.ActiveAnimation() == nil {
		t.Fatal("no animation after animated command")
	}
	if v.State().Scale != 1 {
		t.Errorf("Scale = %f, want 1.0 before the first tick", v.State().Scale)
	}
}

func TestAnimLandsExactlyOnTarget(t *testing.T) {
	// The glide interpolates in float32; the final frame must write the
	// exact float64 target so no drift survives.
	v := testViewport(Config{})
	v.ZoomToWorldPoint(120, 80, 0.9, true)
	runAnim(v, 30)

	a := v.ActiveAnimation()
	if !a.Done() {
		t.Fatal("animation not done after 30 ticks of a 0.3s glide")
	}

	wantX, wantY := centerOffsets(v.Bounds(), 800, 600, 120, 80, 0.9)
	st := v.State()
	if st.OffsetX != wantX || st.OffsetY != wantY || st.Scale != 0.9 {
		t.Errorf("landed at (%v, %v, %v), want exactly (%v, %v, 0.9)",
			st.OffsetX, st.OffsetY, st.Scale, wantX, wantY)
	}
}

func TestAnimProgressesThroughIntermediateStates(t *testing.T) {
	v := testViewport(Config{})
	v.ZoomToWorldPoint(120, 80, 0.5, true)
	runAnim(v, 9) // halfway through the glide

	s := v.State().Scale
	if s >= 1 || s <= 0.5 {
		t.Errorf("Scale = %f mid-glide, want strictly between 0.5 and 1.0", s)
	}
}

func TestAnimCancelFreezesState(t *testing.T) {
	v := testViewport(Config{})
	v.ZoomToWorldPoint(120, 80, 0.5, true)
	a := v.ActiveAnimation()
	runAnim(v, 9)

	mid := v.State()
	v.CancelActiveAnimation()
	if v.ActiveAnimation() != nil {
		t.Error("animation handle survived cancellation")
	}
	if !a.Done() {
		t.Error("cancelled animation does not report Done")
	}

	// Further updates through the stale handle change nothing, and a second
	// Cancel is harmless.
	a.update(v, animStep)
	a.Cancel()
	a.update(v, animStep)
	if v.State() != mid {
		t.Errorf("state drifted after cancel: %+v, want %+v", v.State(), mid)
	}
}

func TestAnimUpdateAfterCompletionIsInert(t *testing.T) {
	v := testViewport(Config{})
	v.ZoomToWorldPoint(120, 80, 0.9, true)
	runAnim(v, 30)

	a := v.ActiveAnimation()
	final := v.State()
	a.update(v, animStep)
	a.update(v, animStep)
	if v.State() != final {
		t.Errorf("state drifted after completion: %+v, want %+v", v.State(), final)
	}
}

func TestNewCommandReplacesActiveAnimation(t *testing.T) {
	// Two glides never fight: starting the second cancels the first, and
	// the second starts from wherever the view currently is.
	v := testViewport(Config{})
	v.ZoomToWorldPoint(50, 50, 0.5, true)
	first := v.ActiveAnimation()
	runAnim(v, 5)
	mid := v.State()

	v.ZoomToWorldPoint(300, 250, 1.1, true)
	if !first.Done() {
		t.Error("first animation not cancelled by the second command")
	}
	if v.ActiveAnimation() == first {
		t.Fatal("second command did not install a new animation")
	}
	if v.State() != mid {
		t.Errorf("starting a glide jumped the state: %+v, want %+v", v.State(), mid)
	}

	runAnim(v, 30)
	wantX, wantY := centerOffsets(v.Bounds(), 800, 600, 300, 250, 1.1)
	st := v.State()
	if st.OffsetX != wantX || st.OffsetY != wantY || st.Scale != 1.1 {
		t.Errorf("landed at (%v, %v, %v), want (%v, %v, 1.1)",
			st.OffsetX, st.OffsetY, st.Scale, wantX, wantY)
	}
}

func TestImmediateCommandCancelsAnimation(t *testing.T) {
	v := testViewport(Config{})
	v.Autocenter(true)
	runAnim(v, 5)

	v.Shift(10, 0)
	if v.ActiveAnimation() != nil {
		t.Error("Shift left the animation running")
	}
}

func TestAutocenterAnimatedGlidesHome(t *testing.T) {
	v := testViewport(Config{})
	v.Shift(80, -40)
	v.Autocenter(true)

	// MinScale records the target immediately, before the glide lands.
	if !approxEqual(v.State().MinScale, 1.0, epsilon) {
		t.Errorf("MinScale = %f, want 1.0 at command time", v.State().MinScale)
	}

	runAnim(v, 30)
	st := v.State()
	if st.OffsetX != 0 || st.OffsetY != 0 || st.Scale != 1.0 {
		t.Errorf("landed at (%v, %v, %v), want (0, 0, 1.0)", st.OffsetX, st.OffsetY, st.Scale)
	}
}

func BenchmarkAnimUpdate(b *testing.B) {
	v := testViewport(Config{})
	a := newAnim(v.state, 100, 50, 0.5)
	b.ReportAllocs()
	for b.Loop() {
		a.update(v, animStep)
		if a.Done() {
			a = newAnim(v.state, -100, -50, 1.1)
		}
	}
}
