package vantage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajstarks/svgo"
)

func TestExportWritesNormalizedFile(t *testing.T) {
	// Exporting needs no container: it renders from the bounds alone.
	dir := t.TempDir()
	v := New(Config{
		Bounds:    Bounds{GraphWidth: 400, GraphHeight: 300},
		Title:     "My Graph!",
		ExportDir: dir,
		ExportContent: func(canvas *svg.SVG, st State, full Rect) {
			canvas.Rect(0, 0, int(full.Width), int(full.Height), "fill:none")
		},
	})

	path, err := v.ExportSVG(nil)
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if want := filepath.Join(dir, "My_Graph_.svg"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `viewBox="0 0 400.00 300.00" width="400" height="300"`) {
		t.Errorf("export missing normalized envelope:\n%s", out)
	}
	if !strings.Contains(out, "<rect") {
		t.Error("export missing content")
	}
}

func TestExportIgnoresCurrentFraming(t *testing.T) {
	// The file captures the whole content at 1:1 no matter how the view is
	// panned or zoomed at export time.
	dir := t.TempDir()
	var seenState State
	var seenFull Rect
	content := func(canvas *svg.SVG, st State, full Rect) {
		seenState = st
		seenFull = full
		canvas.Circle(int(full.Width/2), int(full.Height/2), 10)
	}
	v := testViewport(Config{Title: "view", ExportDir: dir, ExportContent: content})

	path, err := v.ExportSVG(nil)
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	first, _ := os.ReadFile(path)

	v.Shift(123, 45)
	v.ZoomRelativeToScreenPoint(0.5, 200, 200)
	if _, err := v.ExportSVG(nil); err != nil {
		t.Fatalf("ExportSVG after reframing: %v", err)
	}
	second, _ := os.ReadFile(path)

	if !bytes.Equal(first, second) {
		t.Error("export output depends on the current pan/zoom")
	}
	if seenState != (State{Scale: 1}) {
		t.Errorf("content saw state %+v, want neutral scale 1", seenState)
	}
	if seenFull != (Rect{Width: 400, Height: 300}) {
		t.Errorf("content saw region %+v, want full bounds", seenFull)
	}
}

func TestExportExplicitContentWins(t *testing.T) {
	dir := t.TempDir()
	v := New(Config{
		Bounds:    Bounds{GraphWidth: 100, GraphHeight: 100},
		Title:     "pick",
		ExportDir: dir,
		ExportContent: func(canvas *svg.SVG, st State, full Rect) {
			canvas.Circle(50, 50, 10)
		},
	})

	path, err := v.ExportSVG(func(canvas *svg.SVG, st State, full Rect) {
		canvas.Rect(0, 0, 100, 100)
	})
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<rect") || strings.Contains(string(data), "<circle") {
		t.Error("explicit content function did not take precedence")
	}
}

func TestExportWithoutContentFails(t *testing.T) {
	v := New(Config{Bounds: Bounds{GraphWidth: 100, GraphHeight: 100}})
	_, err := v.ExportSVG(nil)
	if err == nil {
		t.Fatal("export succeeded with no content function")
	}
	if !strings.Contains(err.Error(), "no content function") {
		t.Errorf("error = %q, want a missing-content message", err)
	}
}

// --- NormalizeSVG ---

func TestNormalizeSVGRewritesEnvelope(t *testing.T) {
	out := string(NormalizeSVG([]byte(`<svg a="b" c="d">body</svg>`), 400, 300))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400.00 300.00" width="400" height="300">body</svg>`
	if out != want {
		t.Errorf("NormalizeSVG = %q, want %q", out, want)
	}
}

func TestNormalizeSVGStripsScriptsAndExternalRefs(t *testing.T) {
	in := []byte(`<svg width="10" height="10">
<script type="text/ecmascript">
alert(1)
</script>
<a xlink:href="https://tracker.example/x"><circle cx="1" cy="1" r="1"/></a>
<a href="//cdn.example/y">t</a>
<a href="#local">l</a>
</svg>`)
	out := string(NormalizeSVG(in, 400, 300))

	if strings.Contains(out, "script") || strings.Contains(out, "alert") {
		t.Errorf("script survived normalization:\n%s", out)
	}
	if strings.Contains(out, "tracker.example") || strings.Contains(out, "cdn.example") {
		t.Errorf("external reference survived normalization:\n%s", out)
	}
	if !strings.Contains(out, "<circle") {
		t.Error("content stripped along with the script")
	}
	if !strings.Contains(out, `href="#local"`) {
		t.Error("local fragment reference must survive")
	}
}

// --- sanitizeTitle ---

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation", "My Graph!", "My_Graph_"},
		{"parens and dots", "flow (v2).final", "flow_v2_final"},
		{"empty", "", "untitled"},
		{"non-ascii", "héllo", "h_llo"},
		{"all punctuation", "--", "_"},
		{"clean", "abc123", "abc123"},
		{"runs collapse", "A B  C", "A_B_C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.title); got != tt.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
