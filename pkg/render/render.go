// Package render holds what every frame renderer shares: the color palette
// and the rules that map search state onto node and edge roles.
//
// Two renderers build on it:
//
//   - [nodelink] writes Graphviz DOT with pinned positions and renders it to
//     SVG or PNG through go-graphviz.
//   - [term] rasterizes the graph into a character grid for the terminal UI.
//
// Renderers read a [state.State] only between playback ticks, typically from
// inside a session View callback.
//
// [nodelink]: github.com/matzehuels/dijkstraviz/pkg/render/nodelink
// [term]: github.com/matzehuels/dijkstraviz/pkg/render/term
package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

// Role is the display category of a node or an edge.
type Role uint8

// Edge and node roles, lowest precedence first within each group.
const (
	EdgeIdle Role = iota
	EdgeRejected
	EdgeAccepted
	EdgeSettled
	EdgePath

	NodeIdle
	NodeSettled
	NodeTarget
	NodeSource
)

// Colors.
const (
	Background  = "#0b1021"
	Foreground  = "#ffffff"
	WeightColor = "#b3b3b3"
)

var palette = map[Role]string{
	EdgeIdle:     "#808080",
	EdgeRejected: "#4d4d4d",
	EdgeAccepted: "#7dd3fc",
	EdgeSettled:  "#94a3b8",
	EdgePath:     "#fbbf24",
	NodeIdle:     "#e2e8f0",
	NodeSettled:  "#a5b4fc",
	NodeTarget:   "#ef4444",
	NodeSource:   "#22c55e",
}

// Color returns the hex color for r.
func (r Role) Color() string { return palette[r] }

// EdgeRole classifies the undirected edge {u, v}. An edge between two
// settled nodes outranks its relaxation outcome.
func EdgeRole(st *state.State, u, v int) Role {
	if st.Visited(u) && st.Visited(v) {
		return EdgeSettled
	}
	switch st.EdgeClass(u, v) {
	case state.Accepted:
		return EdgeAccepted
	case state.Rejected:
		return EdgeRejected
	}
	return EdgeIdle
}

// NodeRole classifies node id. Source and target win over settled.
func NodeRole(st *state.State, source, target, id int) Role {
	switch {
	case id == source && source != graph.NoNode:
		return NodeSource
	case id == target && target != graph.NoNode:
		return NodeTarget
	case st.Visited(id):
		return NodeSettled
	}
	return NodeIdle
}

// PathPairs returns the edges on the current best path to target, or nil
// when target is unset or unreached so far.
func PathPairs(st *state.State, target int) map[state.Pair]struct{} {
	if target == graph.NoNode {
		return nil
	}
	path, ok := st.ReconstructPath(target)
	if !ok || len(path) < 2 {
		return nil
	}
	pairs := make(map[state.Pair]struct{}, len(path)-1)
	for i := 1; i < len(path); i++ {
		pairs[state.MakePair(path[i-1], path[i])] = struct{}{}
	}
	return pairs
}

// FormatDist formats a distance with one decimal.
func FormatDist(d float64) string { return fmt.Sprintf("%.1f", d) }

// Overlay is the one-line summary drawn over a frame.
func Overlay(g *graph.Graph, st *state.State, target int, scale float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nodes: %d  scale=%.2f  settled=%d", g.Len(), scale, st.VisitedCount())
	if target != graph.NoNode {
		if d, ok := st.Distance(target); ok {
			fmt.Fprintf(&b, "  dist[target]=%s", FormatDist(d))
		}
	}
	return b.String()
}
