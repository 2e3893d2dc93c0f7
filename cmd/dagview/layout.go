package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Graphviz's plain output format uses inches, y-up from the bottom-left
// corner. World space here is points, y-down from the top-left.
const plainDPI = 72.0

// dagLayout is a laid-out graph in world space.
type dagLayout struct {
	width, height float64
	nodes         []dagNode
	edges         []dagEdge
}

// dagNode is a node box. x, y is the top-left corner.
type dagNode struct {
	name, label string
	x, y, w, h  float64
}

func (n dagNode) contains(wx, wy float64) bool {
	return wx >= n.x && wx <= n.x+n.w && wy >= n.y && wy <= n.y+n.h
}

// dagEdge is a spline flattened to its control polyline.
type dagEdge struct {
	xs, ys []float64
}

func loadLayout(path string) (*dagLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return layoutDOT(data)
}

// layoutDOT runs the Graphviz layout engine over a DOT document and parses
// the plain-format result into world-space geometry.
func layoutDOT(data []byte) (*dagLayout, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return parsePlain(buf.Bytes())
}

// parsePlain walks the plain-format records:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label lx ly] style color
//	stop
func parsePlain(data []byte) (*dagLayout, error) {
	l := &dagLayout{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		fields, err := splitPlainLine(sc.Text())
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}

		var perr error
		f := func(s string) float64 {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}

		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("layout: short graph record")
			}
			l.width = f(fields[2]) * plainDPI
			l.height = f(fields[3]) * plainDPI

		case "node":
			if len(fields) < 7 {
				return nil, fmt.Errorf("layout: short node record")
			}
			n := dagNode{name: fields[1], label: fields[6]}
			cx, cy := f(fields[2])*plainDPI, f(fields[3])*plainDPI
			n.w, n.h = f(fields[4])*plainDPI, f(fields[5])*plainDPI
			n.x = cx - n.w/2
			n.y = l.height - cy - n.h/2
			l.nodes = append(l.nodes, n)

		case "edge":
			if len(fields) < 4 {
				return nil, fmt.Errorf("layout: short edge record")
			}
			count, err := strconv.Atoi(fields[3])
			if err != nil || count < 0 || len(fields) < 4+2*count {
				return nil, fmt.Errorf("layout: bad edge record %q", fields[1])
			}
			e := dagEdge{xs: make([]float64, count), ys: make([]float64, count)}
			for i := 0; i < count; i++ {
				e.xs[i] = f(fields[4+2*i]) * plainDPI
				e.ys[i] = l.height - f(fields[5+2*i])*plainDPI
			}
			l.edges = append(l.edges, e)

		case "stop":
			// trailing records are ignored
		}

		if perr != nil {
			return nil, fmt.Errorf("layout: %w", perr)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if l.width == 0 || l.height == 0 {
		return nil, fmt.Errorf("layout: missing graph record")
	}
	return l, nil
}

// splitPlainLine splits a plain-format record into fields, honoring
// double-quoted fields with backslash escapes.
func splitPlainLine(line string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '"' {
			i++
			var b strings.Builder
			for i < len(line) && line[i] != '"' {
				if line[i] == '\\' && i+1 < len(line) {
					i++
				}
				b.WriteByte(line[i])
				i++
			}
			if i >= len(line) {
				return nil, fmt.Errorf("layout: unterminated quote in %q", line)
			}
			i++
			fields = append(fields, b.String())
		} else {
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			fields = append(fields, line[start:i])
		}
	}
	return fields, nil
}
