package cache

import (
	"context"
	"time"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/observability"
)

const graphKeyType = "graph"

// Graphs caches generated graphs in their JSON document form.
type Graphs struct {
	backend Cache
	ttl     time.Duration
}

// NewGraphs wraps backend. Entries expire after ttl; ttl <= 0 keeps them
// until deleted.
func NewGraphs(backend Cache, ttl time.Duration) *Graphs {
	return &Graphs{backend: backend, ttl: ttl}
}

// Load returns the cached graph for p. A miss is (nil, false, nil). Entries
// that no longer decode are dropped and reported as misses.
func (s *Graphs) Load(ctx context.Context, p GraphParams) (*graph.Graph, bool, error) {
	hooks := observability.Cache()
	key := GraphKey(p)

	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		hooks.OnCacheMiss(ctx, graphKeyType)
		return nil, false, nil
	}
	g, err := graph.Unmarshal(data)
	if err != nil {
		_ = s.backend.Delete(ctx, key)
		hooks.OnCacheMiss(ctx, graphKeyType)
		return nil, false, nil
	}
	hooks.OnCacheHit(ctx, graphKeyType)
	return g, true, nil
}

// Store writes g under p's key.
func (s *Graphs) Store(ctx context.Context, p GraphParams, g *graph.Graph) error {
	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, GraphKey(p), data, s.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, graphKeyType, len(data))
	return nil
}
