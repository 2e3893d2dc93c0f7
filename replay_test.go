package vantage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajstarks/svgo"
)

// tickReplay advances one tick of the replay pipeline the way Update does:
// script step first, then at most one injected event.
func tickReplay(v *Viewport) {
	v.tick++
	if r := v.replay; r != nil {
		r.step(v)
		if r.Done() && v.replay == r {
			v.replay = nil
		}
	}
	v.processInjected()
}

func mustParseReplay(t *testing.T, script string) *Replay {
	t.Helper()
	r, err := ParseReplay([]byte(script))
	if err != nil {
		t.Fatalf("ParseReplay: %v", err)
	}
	return r
}

// --- Injection queue ---

func TestInjectQueueOrder(t *testing.T) {
	v := testViewport(Config{})
	v.InjectPointerDown(10, 20, ModShift)
	v.InjectPointerMove(30, 40, 0)
	v.InjectPointerUp(50, 60, 0)

	if len(v.injected) != 3 {
		t.Fatalf("queued = %d, want 3", len(v.injected))
	}
	if !v.injected[0].pressed || v.injected[0].x != 10 || v.injected[0].mods != ModShift {
		t.Error("first event should be a press at (10,20) with shift")
	}
	if !v.injected[1].pressed || v.injected[1].x != 30 {
		t.Error("second event should be a move at (30,40)")
	}
	if v.injected[2].pressed || v.injected[2].x != 50 {
		t.Error("third event should be a release at (50,60)")
	}
}

func TestInjectedEventsConsumeOnePerTick(t *testing.T) {
	v := testViewport(Config{})
	v.InjectPointerDown(400, 300, 0)
	v.InjectPointerUp(400, 300, 0)

	if !v.processInjected() {
		t.Fatal("tick 1: injected input should suppress polling")
	}
	if len(v.injected) != 1 {
		t.Fatalf("tick 1: queued = %d, want 1", len(v.injected))
	}
	if !v.State().PointerDown {
		t.Error("tick 1: press not applied")
	}

	v.processInjected()
	if len(v.injected) != 0 {
		t.Fatalf("tick 2: queued = %d, want 0", len(v.injected))
	}
	if v.State().PointerDown {
		t.Error("tick 2: release not applied")
	}
}

func TestSyntheticSessionSuppressesPolling(t *testing.T) {
	// Between the scripted press and release the queue may run dry; live
	// polling must stay off or the real mouse would instantly release the
	// synthetic button.
	v := testViewport(Config{})
	v.InjectPointerDown(400, 300, 0)
	v.processInjected()

	if !v.processInjected() {
		t.Error("suppression dropped while the synthetic pointer is held")
	}

	v.InjectPointerUp(400, 300, 0)
	v.processInjected()
	if v.processInjected() {
		t.Error("suppression stuck after the synthetic session ended")
	}
}

func TestInjectedWheelIgnoredWhileUnmounted(t *testing.T) {
	v := New(Config{Bounds: Bounds{GraphWidth: 400, GraphHeight: 300}})
	v.InjectWheel(WheelEvent{X: 10, Y: 10, DeltaY: 5})
	drainInjected(v)
	if v.State() != (State{Scale: 1}) {
		t.Errorf("state mutated while unmounted: %+v", v.State())
	}
}

// --- Script parsing ---

func TestParseReplayRejectsBadScripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		errHas string
	}{
		{"unknown action", `{"steps":[{"action":"teleport"}]}`, "unknown action"},
		{"unknown direction", `{"steps":[{"action":"key","key":"diagonal"}]}`, "unknown direction"},
		{"unknown modifier", `{"steps":[{"action":"press","mods":["hyper"]}]}`, "unknown modifier"},
		{"unknown granularity", `{"steps":[{"action":"wheel","granularity":"chunk"}]}`, "unknown granularity"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"malformed json", `{"steps":`, "parse replay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReplay([]byte(tt.script))
			if err == nil {
				t.Fatal("bad script accepted")
			}
			if !strings.Contains(err.Error(), tt.errHas) {
				t.Errorf("error = %q, want it to mention %q", err, tt.errHas)
			}
		})
	}
}

func TestParseReplayAcceptsFullVocabulary(t *testing.T) {
	r := mustParseReplay(t, `{"steps":[
		{"action":"press","x":1,"y":2,"mods":["shift","ctrl","alt","meta"]},
		{"action":"move","x":3,"y":4},
		{"action":"release","x":3,"y":4},
		{"action":"wheel","x":5,"y":6,"deltaX":1,"deltaY":-2,"granularity":"pixel","mods":["ctrl"]},
		{"action":"wheel","deltaY":1,"granularity":"page"},
		{"action":"key","key":"left"},
		{"action":"key","key":"right"},
		{"action":"key","key":"up"},
		{"action":"key","key":"down"},
		{"action":"wait","frames":10},
		{"action":"autocenter","animated":true},
		{"action":"export"}
	]}`)
	if len(r.steps) != 12 {
		t.Errorf("steps = %d, want 12", len(r.steps))
	}
}

func TestLoadReplayMissingFile(t *testing.T) {
	if _, err := LoadReplay(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}

// --- Scripted sessions ---

const dragZoomScript = `{"steps":[
	{"action":"press","x":400,"y":300},
	{"action":"move","x":420,"y":310},
	{"action":"move","x":440,"y":330},
	{"action":"release","x":440,"y":330},
	{"action":"wait","frames":2},
	{"action":"wheel","x":400,"y":300,"deltaY":-2,"mods":["ctrl"]}
]}`

func TestReplayRunsDeterministically(t *testing.T) {
	run := func() State {
		v := testViewport(Config{})
		r := mustParseReplay(t, dragZoomScript)
		r.Attach(v)
		for i := 0; i < 100 && !r.Done(); i++ {
			tickReplay(v)
		}
		if !r.Done() {
			t.Fatal("replay did not finish within 100 ticks")
		}
		return v.State()
	}

	first := run()
	second := run()
	if first != second {
		t.Errorf("replay diverged: %+v vs %+v", first, second)
	}

	// Drag of (40, 30), then a ctrl wheel zoom to 1.1 anchored at the
	// container center.
	if !approxEqual(first.OffsetX, 44, epsilon) || !approxEqual(first.OffsetY, 33, epsilon) {
		t.Errorf("offsets = (%f, %f), want (44, 33)", first.OffsetX, first.OffsetY)
	}
	if !approxEqual(first.Scale, 1.1, epsilon) {
		t.Errorf("Scale = %f, want 1.1", first.Scale)
	}
}

func TestReplayWaitHoldsTiming(t *testing.T) {
	v := testViewport(Config{})
	r := mustParseReplay(t, `{"steps":[
		{"action":"press","x":400,"y":300},
		{"action":"wait","frames":5},
		{"action":"release","x":400,"y":300}
	]}`)
	r.Attach(v)

	tickReplay(v)
	if !v.State().PointerDown {
		t.Fatal("tick 1: press not applied")
	}
	for i := 0; i < 5; i++ {
		tickReplay(v)
	}
	if !v.State().PointerDown {
		t.Error("wait released the pointer early")
	}
	tickReplay(v)
	if v.State().PointerDown {
		t.Error("release overdue after the wait elapsed")
	}
	tickReplay(v)
	if !r.Done() {
		t.Error("replay not done after its last step drained")
	}
}

func TestReplayAutocenterAndExport(t *testing.T) {
	dir := t.TempDir()
	v := testViewport(Config{
		Title:     "scripted",
		ExportDir: dir,
		ExportContent: func(canvas *svg.SVG, st State, full Rect) {
			canvas.Rect(0, 0, int(full.Width), int(full.Height))
		},
	})
	r := mustParseReplay(t, `{"steps":[
		{"action":"press","x":400,"y":300},
		{"action":"move","x":440,"y":330},
		{"action":"release","x":440,"y":330},
		{"action":"autocenter"},
		{"action":"export"}
	]}`)
	r.Attach(v)
	for i := 0; i < 100 && !r.Done(); i++ {
		tickReplay(v)
	}

	st := v.State()
	if st.OffsetX != 0 || st.OffsetY != 0 {
		t.Errorf("offsets = (%f, %f), want (0, 0) after autocenter", st.OffsetX, st.OffsetY)
	}
	if !approxEqual(st.MinScale, 1.0, epsilon) {
		t.Errorf("MinScale = %f, want 1.0", st.MinScale)
	}
	if _, err := os.Stat(filepath.Join(dir, "scripted.svg")); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestReplayDetachesWhenDone(t *testing.T) {
	v := testViewport(Config{})
	r := mustParseReplay(t, `{"steps":[{"action":"wait","frames":1}]}`)
	r.Attach(v)
	for i := 0; i < 10 && v.replay != nil; i++ {
		tickReplay(v)
	}
	if v.replay != nil {
		t.Error("finished replay still attached")
	}
	if !r.Done() {
		t.Error("replay not marked done")
	}
}
