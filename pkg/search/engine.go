package search

import (
	"container/heap"
	"context"
	"math"
	"slices"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
)

// Result summarizes a finished run.
type Result struct {
	Settled   int   // nodes settled, including the source
	Reached   bool  // the target was settled (always false without a target)
	Cancelled bool  // the context was cancelled before natural termination
	Path      []int // source→target when Reached
}

// Run searches g from source and pushes every step to sink on the calling
// goroutine. target == graph.NoNode searches exhaustively; otherwise the run
// ends right after target settles. Exactly one Done step is pushed last.
func Run(ctx context.Context, g *graph.Graph, source, target int, sink Sink) Result {
	r := newRunner(g, source, sink)
	res := r.loop(ctx, target)
	if res.Reached {
		res.Path = r.path(source, target)
	}
	sink.Push(DoneStep())
	return res
}

// runner holds the mutable state of one search.
type runner struct {
	g       *graph.Graph
	sink    Sink
	dist    []float64
	prev    []int
	settled []bool
	pq      frontier
}

func newRunner(g *graph.Graph, source int, sink Sink) *runner {
	n := g.Len()
	r := &runner{
		g:       g,
		sink:    sink,
		dist:    make([]float64, n),
		prev:    make([]int, n),
		settled: make([]bool, n),
		pq:      make(frontier, 0, n),
	}
	for i := range r.dist {
		r.dist[i] = math.Inf(1)
		r.prev[i] = graph.NoNode
	}
	r.dist[source] = 0
	sink.Push(StartStep(source))
	heap.Push(&r.pq, item{node: source, dist: 0})
	return r
}

func (r *runner) loop(ctx context.Context, target int) Result {
	var res Result
	for r.pq.Len() > 0 {
		if ctx.Err() != nil {
			res.Cancelled = true
			return res
		}
		u := heap.Pop(&r.pq).(item).node
		if r.settled[u] {
			continue
		}
		r.settled[u] = true
		res.Settled++
		r.sink.Push(SettleStep(u))

		if u == target {
			res.Reached = true
			return res
		}
		r.relax(u)
	}
	return res
}

// relax examines every adjacency entry leaving the settled node u.
func (r *runner) relax(u int) {
	for _, e := range r.g.Neighbors(u) {
		v := e.To
		if r.settled[v] {
			r.sink.Push(RelaxSkipStep(u, v))
			continue
		}
		nd := r.dist[u] + e.Weight
		if nd < r.dist[v] {
			r.dist[v] = nd
			r.prev[v] = u
			r.sink.Push(RelaxOkStep(u, v, nd))
			heap.Push(&r.pq, item{node: v, dist: nd})
			continue
		}
		r.sink.Push(RelaxSkipStep(u, v))
	}
}

// path walks prev back from target. Only valid once target has settled.
func (r *runner) path(source, target int) []int {
	var rev []int
	for v := target; v != graph.NoNode; v = r.prev[v] {
		rev = append(rev, v)
		if v == source {
			break
		}
	}
	slices.Reverse(rev)
	return rev
}

// =============================================================================
// Frontier
// =============================================================================

// item is a frontier entry. Entries go stale when a shorter distance to the
// same node is pushed later; stale entries are skipped at dequeue.
type item struct {
	node int
	dist float64
}

// frontier is a min-heap of items ordered by distance, then node ID.
type frontier []item

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x any) { *pq = append(*pq, x.(item)) }

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
