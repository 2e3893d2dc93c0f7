package vantage

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default input-feel values. Wheel sensitivities convert a raw delta into a
// zoom factor and differ per device class; line deltas are whole ticks,
// pixel deltas stream at display resolution, page deltas jump.
const (
	defaultWheelZoomLine  = 0.05
	defaultWheelZoomPixel = 0.002
	defaultWheelZoomPage  = 0.01
	defaultWheelPanSpeed  = 0.7
	defaultHintSeconds    = 2.0
)

// Tuning holds the input-feel parameters of the wheel and hint paths.
// The zero value is usable: zero fields fall back to their defaults, so
// callers override only what they measured.
type Tuning struct {
	// WheelZoomLine, WheelZoomPixel and WheelZoomPage convert a wheel delta
	// into a relative zoom factor, selected by the event's granularity.
	WheelZoomLine  float64 `toml:"wheel_zoom_line"`
	WheelZoomPixel float64 `toml:"wheel_zoom_pixel"`
	WheelZoomPage  float64 `toml:"wheel_zoom_page"`

	// WheelPanSpeed scales raw wheel deltas when the wheel pans instead of
	// zooming.
	WheelPanSpeed float64 `toml:"wheel_pan_speed"`

	// HintSeconds is how long the "hold to zoom" hint stays visible after
	// the last unmodified wheel event.
	HintSeconds float64 `toml:"hint_seconds"`
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		WheelZoomLine:  defaultWheelZoomLine,
		WheelZoomPixel: defaultWheelZoomPixel,
		WheelZoomPage:  defaultWheelZoomPage,
		WheelPanSpeed:  defaultWheelPanSpeed,
		HintSeconds:    defaultHintSeconds,
	}
}

// withDefaults fills zero fields with their default values.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.WheelZoomLine == 0 {
		t.WheelZoomLine = d.WheelZoomLine
	}
	if t.WheelZoomPixel == 0 {
		t.WheelZoomPixel = d.WheelZoomPixel
	}
	if t.WheelZoomPage == 0 {
		t.WheelZoomPage = d.WheelZoomPage
	}
	if t.WheelPanSpeed == 0 {
		t.WheelPanSpeed = d.WheelPanSpeed
	}
	if t.HintSeconds == 0 {
		t.HintSeconds = d.HintSeconds
	}
	return t
}

// zoomSensitivity returns the delta-to-factor sensitivity for a granularity.
func (t Tuning) zoomSensitivity(g WheelGranularity) float64 {
	switch g {
	case WheelPixel:
		return t.WheelZoomPixel
	case WheelPage:
		return t.WheelZoomPage
	default:
		return t.WheelZoomLine
	}
}

func (t Tuning) validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"wheel_zoom_line", t.WheelZoomLine},
		{"wheel_zoom_pixel", t.WheelZoomPixel},
		{"wheel_zoom_page", t.WheelZoomPage},
		{"wheel_pan_speed", t.WheelPanSpeed},
		{"hint_seconds", t.HintSeconds},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s is negative (%g)", f.name, f.value)
		}
	}
	return nil
}

// ParseTuning decodes TOML tuning data. Omitted or zero fields keep their
// defaults; negative values are rejected.
func ParseTuning(data []byte) (Tuning, error) {
	var t Tuning
	if err := toml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.validate(); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	return t.withDefaults(), nil
}

// LoadTuning reads and decodes a TOML tuning file.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return ParseTuning(data)
}
