package graph

import "math"

// PickRadius is the hit radius in screen units.
const PickRadius = 6.0

// NodeAt returns the node nearest to the screen point (sx, sy) that lies
// within PickRadius screen units, or false if there is none. Ties go to the
// smallest Euclidean distance, then to the lower ID.
func NodeAt(g *Graph, t Transform, sx, sy float64) (int, bool) {
	wx, wy := t.ToWorld(sx, sy)
	r := PickRadius / t.Scale()
	best, bestDist := NoNode, math.Inf(1)
	for _, n := range g.Nodes() {
		d := math.Hypot(n.X-wx, n.Y-wy)
		if d < r && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != NoNode
}
