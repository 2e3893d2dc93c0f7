// Command dagview opens a pannable, zoomable window onto a Graphviz DOT
// file. Graphviz computes the layout; vantage drives the camera.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/vantage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOpts holds the command-line flags for the viewer.
type rootOpts struct {
	tuning  string // TOML tuning file path
	out     string // export directory
	replay  string // JSON replay script path
	watch   bool   // reload on DOT file changes
	verbose bool   // debug logging
}

func newRootCmd() *cobra.Command {
	var opts rootOpts

	cmd := &cobra.Command{
		Use:          "dagview [graph.dot]",
		Short:        "dagview pans and zooms Graphviz DAGs in a window",
		Long:         `dagview lays out a Graphviz DOT file and opens an interactive window: drag to pan, ctrl+scroll to zoom, double-click to zoom in, arrow keys to nudge. The overlay button exports the full graph as SVG.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], &opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringVar(&opts.tuning, "tuning", "", "TOML tuning file for input feel")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "directory for exported SVGs (default: beside the input)")
	cmd.Flags().StringVar(&opts.replay, "replay", "", "JSON replay script to drive the session")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload when the DOT file changes")

	cmd.AddCommand(newSnapshotCmd(&opts.verbose))
	return cmd
}

func newLogger(verbose bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	return vantage.NewLogger(os.Stderr, level)
}

func runView(path string, opts *rootOpts) error {
	logger := newLogger(opts.verbose)

	layout, err := loadLayout(path)
	if err != nil {
		return err
	}
	logger.Infof("loaded %s: %d nodes, %d edges", path, len(layout.nodes), len(layout.edges))

	var tuning vantage.Tuning
	if opts.tuning != "" {
		if tuning, err = vantage.LoadTuning(opts.tuning); err != nil {
			return err
		}
	}

	exportDir := opts.out
	if exportDir == "" {
		exportDir = filepath.Dir(path)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	a := &app{logger: logger, layout: layout, path: path}
	a.vp = vantage.New(vantage.Config{
		Bounds:        vantage.Bounds{GraphWidth: layout.width, GraphHeight: layout.height},
		Tuning:        tuning,
		Title:         title,
		ExportDir:     exportDir,
		ExportContent: a.exportContent,
		OnClick:       a.handleClick,
		OnDoubleClick: a.handleDoubleClick,
		OnPanIntent:   a.handlePanIntent,
		Logger:        logger,
	})

	if opts.replay != "" {
		r, err := vantage.LoadReplay(opts.replay)
		if err != nil {
			return err
		}
		r.Attach(a.vp)
	}
	if opts.watch {
		var reload atomic.Bool
		watcher, err := watchFile(path, logger, &reload)
		if err != nil {
			return err
		}
		defer watcher.Close()
		a.reload = &reload
	}

	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle("dagview: " + title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// --- snapshot subcommand ---

var viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)

func newSnapshotCmd(verbose *bool) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:          "snapshot [graph.dot]",
		Short:        "Render a DOT file straight to normalized SVG",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(args[0], output, newLogger(*verbose))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .svg)")
	return cmd
}

func runSnapshot(input, output string, logger *charmlog.Logger) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	w, h, err := parseViewBox(buf.Bytes())
	if err != nil {
		return err
	}
	markup := vantage.NormalizeSVG(buf.Bytes(), w, h)

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := os.WriteFile(output, markup, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Infof("wrote %s", output)
	return nil
}

func parseViewBox(markup []byte) (w, h float64, err error) {
	match := viewBoxRe.FindSubmatch(markup)
	if match == nil {
		return 0, 0, fmt.Errorf("render: no viewBox in output")
	}
	w, _ = strconv.ParseFloat(string(match[3]), 64)
	h, _ = strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("render: degenerate viewBox")
	}
	return w, h, nil
}
