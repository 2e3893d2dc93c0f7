package vantage

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ajstarks/svgo"
)

// exportFallbackName names exports of untitled views.
const exportFallbackName = "untitled"

var (
	svgTagRe   = regexp.MustCompile(`<svg[^>]*>`)
	scriptRe   = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)
	externalRe = regexp.MustCompile(`\s(?:xlink:)?href="(?:https?:)?//[^"]*"`)
)

// ExportSVG renders the full content at 1:1 world scale, independent of the
// current pan and zoom: the content function receives a neutral state and
// the full content bounds as its visible region. The markup is normalized
// and written to <sanitized-title>.svg in ExportDir. A nil content function
// falls back to the ExportContent registered at construction. Returns the
// written path.
func (v *Viewport) ExportSVG(content func(*svg.SVG, State, Rect)) (string, error) {
	if content == nil {
		content = v.exportContent
	}
	if content == nil {
		return "", fmt.Errorf("export %q: no content function registered", v.title)
	}

	full := Rect{Width: v.bounds.GraphWidth, Height: v.bounds.GraphHeight}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(math.Round(full.Width)), int(math.Round(full.Height)))
	content(canvas, State{Scale: 1}, full)
	canvas.End()

	markup := NormalizeSVG(buf.Bytes(), full.Width, full.Height)

	dir := v.exportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, sanitizeTitle(v.title)+".svg")
	if err := os.WriteFile(path, markup, 0o644); err != nil {
		return "", fmt.Errorf("export write %s: %w", path, err)
	}
	return path, nil
}

// NormalizeSVG makes vector markup self-contained: <script> blocks and
// external hyperlink references are stripped, and the <svg> envelope is
// rewritten to a plain viewBox="0 0 w h" document of the given size.
func NormalizeSVG(markup []byte, w, h float64) []byte {
	markup = scriptRe.ReplaceAll(markup, nil)
	markup = externalRe.ReplaceAll(markup, nil)
	envelope := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(markup, []byte(envelope))
}

// sanitizeTitle converts a view title into a filename stem. Runs of
// characters outside [a-zA-Z0-9] collapse to single underscores; empty
// titles fall back to a default.
func sanitizeTitle(title string) string {
	if title == "" {
		return exportFallbackName
	}
	var b strings.Builder
	b.Grow(len(title))
	inRun := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			inRun = false
		default:
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
		}
	}
	return b.String()
}
