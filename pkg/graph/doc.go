// Package graph provides the in-memory weighted undirected graph explored by
// the search, plus its JSON wire format, a screen viewport and the pick query.
//
// # Model
//
// A [Graph] owns a dense node sequence (IDs 0..n-1) and an adjacency table
// indexed by node ID. Undirected edges are stored as two mirrored [Edge]
// entries with identical weight:
//
//	g := graph.New()
//	a := g.AddNode(0, 0)
//	b := g.AddNode(3, 4)
//	g.AddUndirected(a, b, 5) // adds a→b and b→a
//
// Self-loops are never stored. Parallel edges between the same pair are
// allowed and kept as separate entries.
//
// # Ownership
//
// A Graph is append-only while it is being generated and read-only while a
// search runs over it. It carries no locks: callers serialize generation and
// search (see pkg/session).
//
// # Serialization
//
// Graphs use a compact node-link JSON format where every undirected edge
// appears once:
//
//	{
//	  "nodes": [{"id": 0, "x": 12.5, "y": 40}, {"id": 1, "x": 80, "y": 3.25}],
//	  "edges": [{"from": 0, "to": 1, "weight": 82.1}]
//	}
//
// Use [Marshal]/[Unmarshal] or [WriteFile]/[ReadFile].
//
// # Picking
//
// [NodeAt] maps a screen coordinate through a [Transform] (usually a
// [Viewport]) and returns the nearest node within [PickRadius] screen units.
package graph
