// Package generate builds random geometric graphs for shortest-path
// visualization.
//
// Generation runs in three passes over a graph supplied by the caller:
//
//  1. Placement: n nodes at uniform random positions in a square region.
//  2. Sampling: every unordered pair {i, j} gets an undirected edge with
//     probability p. The weight is the Euclidean distance scaled by a jitter
//     factor in [0.9, 1.1], modelling uneven terrain cost.
//  3. Augmentation: every node is joined to its k = max(2, round(ln n))
//     nearest neighbors at exact Euclidean weight. This guarantees a minimum
//     degree of k and makes the graph connected with near certainty.
//
// The augmentation pass does not look for edges created by sampling, so a pair
// can end up with two parallel edges of different weights. Both are kept.
//
// # Scaling
//
// Sampling is O(n²) Bernoulli trials and augmentation sorts n candidates for
// each node, O(n² log n) overall. That is fine for the few thousand nodes a
// screen can show and is the ceiling of this package; it is not meant for
// production-scale graphs.
//
// # Determinism
//
// The trial order is fixed (i ascending, then j ascending) and the random
// source is seeded, so the same (n, p, seed) always yields the same graph.
package generate

import (
	"cmp"
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/observability"
)

// Defaults for generation.
const (
	DefaultSeed   int64 = 42
	DefaultWidth        = 5000.0
	DefaultHeight       = 5000.0

	jitterMin  = 0.9
	jitterSpan = 0.2
)

// Options configures generation.
type Options struct {
	Seed   int64
	Width  float64
	Height float64
}

// Option is a functional option for Generate.
type Option func(*Options)

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithRegion sets the size of the placement region.
func WithRegion(width, height float64) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, Width: DefaultWidth, Height: DefaultHeight}
}

// MinDegree returns the number of nearest neighbors each node is joined to
// during augmentation: max(2, round(ln n)), capped at n-1.
func MinDegree(n int) int {
	k := max(2, int(math.Round(math.Log(float64(n)))))
	return min(k, max(n-1, 0))
}

// Generate clears g and fills it with n nodes and random edges.
// n must be at least 1 and p must lie in [0, 1].
func Generate(g *graph.Graph, n int, p float64, opts ...Option) error {
	return GenerateContext(context.Background(), g, n, p, opts...)
}

// GenerateContext is Generate with observability hooks bound to ctx.
func GenerateContext(ctx context.Context, g *graph.Graph, n int, p float64, opts ...Option) error {
	if err := errors.ValidateNodeCount(n); err != nil {
		return err
	}
	if err := errors.ValidateProbability(p); err != nil {
		return err
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	observability.Generate().OnGenerateStart(ctx, n, p)
	start := time.Now()

	g.Clear()
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))

	place(g, rng, n, cfg.Width, cfg.Height)
	sample(g, rng, p)
	augment(g, MinDegree(n))

	observability.Generate().OnGenerateComplete(ctx, g.Len(), g.EdgeCount(), time.Since(start))
	return nil
}

func place(g *graph.Graph, rng *rand.Rand, n int, w, h float64) {
	for range n {
		g.AddNode(rng.Float64()*w, rng.Float64()*h)
	}
}

func sample(g *graph.Graph, rng *rand.Rand, p float64) {
	n := g.Len()
	for u := 0; u < n; u++ {
		a := g.Node(u)
		for v := u + 1; v < n; v++ {
			if rng.Float64() >= p {
				continue
			}
			w := a.Dist(g.Node(v)) * (jitterMin + jitterSpan*rng.Float64())
			g.AddUndirected(u, v, w)
		}
	}
}

type candidate struct {
	id   int
	dist float64
}

func augment(g *graph.Graph, k int) {
	n := g.Len()
	if k <= 0 {
		return
	}
	cands := make([]candidate, 0, n-1)
	for u := 0; u < n; u++ {
		a := g.Node(u)
		cands = cands[:0]
		for v := 0; v < n; v++ {
			if v != u {
				cands = append(cands, candidate{id: v, dist: a.Dist(g.Node(v))})
			}
		}
		slices.SortFunc(cands, func(x, y candidate) int {
			if c := cmp.Compare(x.dist, y.dist); c != 0 {
				return c
			}
			return cmp.Compare(x.id, y.id)
		})
		for _, c := range cands[:k] {
			g.AddUndirected(u, c.id, c.dist)
		}
	}
}
