package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/observability"
)

// logHooks reports library events through the CLI logger.
type logHooks struct {
	logger *log.Logger
}

// registerHooks installs logHooks for every hook category.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetGenerateHooks(h)
	observability.SetSearchHooks(h)
	observability.SetPlaybackHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnGenerateStart(_ context.Context, nodes int, p float64) {
	h.logger.Debug("Generating graph", "nodes", nodes, "p", p)
}

func (h logHooks) OnGenerateComplete(_ context.Context, nodes, edges int, d time.Duration) {
	h.logger.Debug("Generated graph", "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnSearchStart(_ context.Context, runID string, source, target int) {
	if target == graph.NoNode {
		h.logger.Debug("Search started", "run", runID, "source", source)
		return
	}
	h.logger.Debug("Search started", "run", runID, "source", source, "target", target)
}

func (h logHooks) OnSearchDone(_ context.Context, runID string, settled int, cancelled bool, d time.Duration) {
	if cancelled {
		h.logger.Debug("Search cancelled", "run", runID, "settled", settled)
		return
	}
	h.logger.Debug("Search finished", "run", runID, "settled", settled, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnTick(applied, backlog int) {
	h.logger.Debug("Tick", "applied", applied, "backlog", backlog)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("Cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("Cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("Cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.GenerateHooks = logHooks{}
	_ observability.SearchHooks   = logHooks{}
	_ observability.PlaybackHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)
