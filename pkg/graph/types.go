package graph

import "math"

// NoNode marks the absence of a node (no selection, no predecessor, no target).
const NoNode = -1

// =============================================================================
// Node
// =============================================================================

// Node is a positioned vertex. Nodes are immutable after creation.
type Node struct {
	ID int
	X  float64
	Y  float64
}

// Dist returns the Euclidean distance between two nodes.
func (n Node) Dist(o Node) float64 {
	return math.Hypot(n.X-o.X, n.Y-o.Y)
}

// =============================================================================
// Edge
// =============================================================================

// Edge is one directed adjacency entry. Every entry From→To has a mirror
// To→From with the same weight.
type Edge struct {
	From   int
	To     int
	Weight float64
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a weighted undirected graph with dense integer node IDs.
type Graph struct {
	nodes []Node
	adj   [][]Edge
	edges int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node at (x, y) and returns its ID.
func (g *Graph) AddNode(x, y float64) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, X: x, Y: y})
	g.adj = append(g.adj, nil)
	return id
}

// AddUndirected stores u→v and v→u with weight w. Self-loops are ignored.
// Existing edges between u and v are not checked, so repeated calls create
// parallel edges.
func (g *Graph) AddUndirected(u, v int, w float64) {
	if u == v {
		return
	}
	g.adj[u] = append(g.adj[u], Edge{From: u, To: v, Weight: w})
	g.adj[v] = append(g.adj[v], Edge{From: v, To: u, Weight: w})
	g.edges++
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of undirected edges (mirrored pairs count once).
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node with the given ID.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// Nodes returns the node sequence. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Neighbors returns the adjacency entries leaving u, in insertion order.
// The slice must not be modified.
func (g *Graph) Neighbors(u int) []Edge { return g.adj[u] }

// Degree returns the number of adjacency entries leaving u.
func (g *Graph) Degree(u int) int { return len(g.adj[u]) }

// Has reports whether id is a valid node ID.
func (g *Graph) Has(id int) bool { return id >= 0 && id < len(g.nodes) }

// Clear removes all nodes and edges so the graph can be regenerated in place.
func (g *Graph) Clear() {
	g.nodes = g.nodes[:0]
	g.adj = g.adj[:0]
	g.edges = 0
}

// Bounds returns the bounding box of all node positions.
// An empty graph reports a zero box.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// UndirectedEdges calls fn once per undirected edge, using the entry whose
// From is the smaller endpoint. Parallel edges are visited individually.
func (g *Graph) UndirectedEdges(fn func(e Edge)) {
	for u := range g.adj {
		for _, e := range g.adj[u] {
			if e.From < e.To {
				fn(e)
			}
		}
	}
}
