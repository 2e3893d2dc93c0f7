package vantage

import (
	"encoding/json"
	"fmt"
	"os"
)

// --- Synthetic input injection ---

// InjectPointerDown queues a synthetic pointer press at container
// coordinates. Queued events are consumed one per Update tick and take
// priority over live polling; polling stays suppressed until the synthetic
// pointer session releases, so scripted sessions are deterministic.
func (v *Viewport) InjectPointerDown(x, y float64, mods KeyModifiers) {
	v.injected = append(v.injected, injectedEvent{kind: injectPointer, x: x, y: y, pressed: true, mods: mods})
}

// InjectPointerMove queues a synthetic pointer move with the button held.
// Use it between InjectPointerDown and InjectPointerUp to simulate a drag.
func (v *Viewport) InjectPointerMove(x, y float64, mods KeyModifiers) {
	v.injected = append(v.injected, injectedEvent{kind: injectPointer, x: x, y: y, pressed: true, mods: mods})
}

// InjectPointerUp queues a synthetic pointer release.
func (v *Viewport) InjectPointerUp(x, y float64, mods KeyModifiers) {
	v.injected = append(v.injected, injectedEvent{kind: injectPointer, x: x, y: y, pressed: false, mods: mods})
}

// InjectWheel queues a synthetic wheel event.
func (v *Viewport) InjectWheel(e WheelEvent) {
	v.injected = append(v.injected, injectedEvent{kind: injectWheel, wheel: e})
}

// InjectKey queues a synthetic arrow-key pan intent.
func (v *Viewport) InjectKey(dir PanDirection) {
	v.injected = append(v.injected, injectedEvent{kind: injectKey, dir: dir})
}

// --- Scripted replay ---

// replayStep is a single action in a replay script.
type replayStep struct {
	Action      string   `json:"action"`
	X           float64  `json:"x,omitempty"`
	Y           float64  `json:"y,omitempty"`
	DeltaX      float64  `json:"deltaX,omitempty"`
	DeltaY      float64  `json:"deltaY,omitempty"`
	Granularity string   `json:"granularity,omitempty"`
	Key         string   `json:"key,omitempty"`
	Mods        []string `json:"mods,omitempty"`
	Frames      int      `json:"frames,omitempty"`
	Animated    bool     `json:"animated,omitempty"`
}

// replayScript is the top-level JSON structure for a replay script.
type replayScript struct {
	Steps []replayStep `json:"steps"`
}

// Replay drives a Viewport through a scripted input sequence, one step per
// tick. Demos and headless interaction tests share this path.
type Replay struct {
	steps     []replayStep
	cursor    int
	waitCount int
	done      bool
}

// ParseReplay parses a JSON replay script. Unknown actions, directions,
// modifiers, and granularities are rejected here, not at execution time.
func ParseReplay(data []byte) (*Replay, error) {
	var script replayScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse replay: step %d: %w", i, err)
		}
	}
	return &Replay{steps: script.Steps}, nil
}

// LoadReplay reads and parses a replay script file.
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	return ParseReplay(data)
}

// Attach hooks the replay into the viewport's Update loop. The first step
// runs on the next tick.
func (r *Replay) Attach(v *Viewport) {
	v.replay = r
	v.debugf("replay attached (%d steps)", len(r.steps))
}

// Done reports whether every step has executed and its input drained.
func (r *Replay) Done() bool {
	return r.done
}

// step advances the replay by one tick. Called from Viewport.Update before
// injected input is consumed; pending injections drain before the next step.
func (r *Replay) step(v *Viewport) {
	if r.done {
		return
	}
	if len(v.injected) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	v.debugf("replay step %d: %s", r.cursor, st.Action)

	switch st.Action {
	case "press":
		v.InjectPointerDown(st.X, st.Y, st.modifiers())
	case "move":
		v.InjectPointerMove(st.X, st.Y, st.modifiers())
	case "release":
		v.InjectPointerUp(st.X, st.Y, st.modifiers())
	case "wheel":
		g, _ := parseGranularity(st.Granularity)
		v.InjectWheel(WheelEvent{
			X:           st.X,
			Y:           st.Y,
			DeltaX:      st.DeltaX,
			DeltaY:      st.DeltaY,
			Granularity: g,
			Modifiers:   st.modifiers(),
		})
	case "key":
		dir, _ := parseDirection(st.Key)
		v.InjectKey(dir)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "autocenter":
		v.Autocenter(st.Animated)
	case "export":
		v.exportFromOverlay()
	}

	// The script may end on an action with nothing left to drain.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(v.injected) == 0 {
		r.done = true
	}
}

func (st replayStep) validate() error {
	switch st.Action {
	case "press", "move", "release", "wheel", "wait", "autocenter", "export":
	case "key":
		if _, err := parseDirection(st.Key); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	for _, m := range st.Mods {
		if _, err := parseModifier(m); err != nil {
			return err
		}
	}
	if _, err := parseGranularity(st.Granularity); err != nil {
		return err
	}
	return nil
}

func (st replayStep) modifiers() KeyModifiers {
	var mods KeyModifiers
	for _, m := range st.Mods {
		mod, _ := parseModifier(m)
		mods |= mod
	}
	return mods
}

func parseDirection(s string) (PanDirection, error) {
	switch s {
	case "left":
		return PanLeft, nil
	case "right":
		return PanRight, nil
	case "up":
		return PanUp, nil
	case "down":
		return PanDown, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func parseModifier(s string) (KeyModifiers, error) {
	switch s {
	case "shift":
		return ModShift, nil
	case "ctrl":
		return ModCtrl, nil
	case "alt":
		return ModAlt, nil
	case "meta":
		return ModMeta, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

func parseGranularity(s string) (WheelGranularity, error) {
	switch s {
	case "", "line":
		return WheelLine, nil
	case "pixel":
		return WheelPixel, nil
	case "page":
		return WheelPage, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}
