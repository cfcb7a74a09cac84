// Package nodelink renders a graph and its search state as a Graphviz
// node-link drawing.
//
// [ToDOT] writes an undirected DOT graph in which every node is pinned at its
// generated position (pos="x,y!"), so the neato engine only routes edges and
// never moves nodes. Colors follow the shared palette in the render package:
// settled, accepted and rejected edges, the current best path, and the
// source, target and settled nodes.
//
//	dot := nodelink.ToDOT(g, st, nodelink.Options{Source: 0, Target: 42})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz];
// no external binaries are needed.
package nodelink
