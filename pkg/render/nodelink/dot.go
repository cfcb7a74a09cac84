package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

// DefaultSize is the longest side of the drawing in inches.
const DefaultSize = 12.0

// Options configures DOT generation.
type Options struct {
	Source      int     // highlighted source, graph.NoNode for none
	Target      int     // highlighted target and path end, graph.NoNode for none
	ShowWeights bool    // label edges with their rounded weight
	Size        float64 // longest side in inches; 0 means DefaultSize
}

// DefaultOptions returns options with no selection.
func DefaultOptions() Options {
	return Options{Source: graph.NoNode, Target: graph.NoNode, Size: DefaultSize}
}

// ToDOT converts g and st into Graphviz DOT source.
func ToDOT(g *graph.Graph, st *state.State, opts Options) string {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	minX, minY, maxX, maxY := g.Bounds()
	span := max(maxX-minX, maxY-minY)
	k := 1.0
	if span > 0 {
		k = size * 72 / span
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, outputorder=edgesfirst, splines=false, overlap=true];\n", render.Background)
	buf.WriteString("  node [shape=circle, style=filled, label=\"\", width=0.08, fixedsize=true, color=none];\n")
	buf.WriteString("  edge [penwidth=0.6];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		// Graphviz y grows upwards.
		x, y := (n.X-minX)*k, (maxY-n.Y)*k
		role := render.NodeRole(st, opts.Source, opts.Target, n.ID)
		fmt.Fprintf(&buf, "  %d [pos=\"%.2f,%.2f!\", fillcolor=%q];\n", n.ID, x, y, role.Color())
	}

	buf.WriteString("\n")
	path := render.PathPairs(st, opts.Target)
	g.UndirectedEdges(func(e graph.Edge) {
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", e.From, e.To, strings.Join(edgeAttrs(st, path, e, opts.ShowWeights), ", "))
	})

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(st *state.State, path map[state.Pair]struct{}, e graph.Edge, weights bool) []string {
	role := render.EdgeRole(st, e.From, e.To)
	if _, ok := path[state.MakePair(e.From, e.To)]; ok {
		role = render.EdgePath
	}
	attrs := []string{fmt.Sprintf("color=%q", role.Color())}
	if role == render.EdgePath {
		attrs = append(attrs, "penwidth=3")
	}
	if weights {
		attrs = append(attrs,
			fmt.Sprintf("label=\"%.0f\"", e.Weight),
			fmt.Sprintf("fontcolor=%q", render.WeightColor),
			"fontsize=8")
	}
	return attrs
}

// Format is an output format for Render.
type Format string

// Supported formats.
const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg or png)", s)
}

// Render lays out dot with neato and encodes it as format. FormatDOT
// returns the source unchanged.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
