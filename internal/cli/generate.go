package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/cache"
	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/generate"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
)

const defaultGraphFile = "graph.json"

// graphOpts holds the flags shared by every command that needs a graph.
type graphOpts struct {
	nodes       string // parsed leniently, see config.ParseNodeCount
	probability string // parsed leniently, see config.ParseProbability
	seed        int64
	input       string // graph JSON to load instead of generating
}

func (o *graphOpts) register(cmd *cobra.Command, withInput bool) {
	cmd.Flags().StringVarP(&o.nodes, "nodes", "n", "", "number of nodes (default from config)")
	cmd.Flags().StringVarP(&o.probability, "probability", "p", "", "edge probability (default from config)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed (default from config)")
	if withInput {
		cmd.Flags().StringVarP(&o.input, "input", "i", "", "load the graph from a JSON file instead of generating one")
	}
}

// apply merges the flags into cfg. Text that is not a number falls back to
// config.FallbackNodes and config.FallbackProbability.
func (o *graphOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	if o.nodes != "" {
		cfg.Generate.Nodes = config.ParseNodeCount(o.nodes, config.FallbackNodes)
	}
	if o.probability != "" {
		cfg.Generate.Probability = config.ParseProbability(o.probability, config.FallbackProbability)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = o.seed
	}
}

// graphFor loads the graph named by --input or builds one from cfg. It
// reports whether the graph came from the cache.
func (o *graphOpts) graphFor(ctx context.Context, cfg *config.Config, store *cache.Graphs) (*graph.Graph, bool, error) {
	if o.input != "" {
		g, err := graph.ReadFile(o.input)
		if err != nil {
			return nil, false, fmt.Errorf("load graph: %w", err)
		}
		return g, false, nil
	}
	return buildGraph(ctx, store, cfg.Generate)
}

// buildGraph returns the cached graph for gc or generates and stores it.
// Cache failures only cost a regeneration.
func buildGraph(ctx context.Context, store *cache.Graphs, gc config.GenerateConfig) (*graph.Graph, bool, error) {
	logger := loggerFromContext(ctx)
	opts := generate.DefaultOptions()
	params := cache.GraphParams{
		Nodes:       gc.Nodes,
		Probability: gc.Probability,
		Seed:        gc.Seed,
		Width:       opts.Width,
		Height:      opts.Height,
	}

	g, ok, err := store.Load(ctx, params)
	if err != nil {
		logger.Warn("Cache read failed", "err", err)
	}
	if ok {
		return g, true, nil
	}

	g = graph.New()
	if err := generate.GenerateContext(ctx, g, gc.Nodes, gc.Probability, generate.WithSeed(gc.Seed)); err != nil {
		return nil, false, err
	}
	if err := store.Store(ctx, params, g); err != nil {
		logger.Warn("Cache write failed", "err", err)
	}
	return g, false, nil
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		gopts  graphOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random geometric graph and write it as JSON",
		Long: `Generate places nodes uniformly at random, connects each pair with the
given probability, and then links every node to its nearest neighbours until
it reaches the minimum degree. The same seed always yields the same graph.`,
		Example: `  dijkstraviz generate -n 500 -p 0.01 -o small.json
  dijkstraviz generate --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gopts.apply(cmd, cfg)
			return c.runGenerate(ctx, cfg, output)
		},
	}

	gopts.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", defaultGraphFile, "output file")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, cfg *config.Config, output string) error {
	store, release := c.openGraphs(ctx, cfg)
	defer release()

	sp := newSpinner(ctx, fmt.Sprintf("Generating %d nodes...", cfg.Generate.Nodes))
	sp.Start()
	sw := startStopwatch(c.Logger)
	g, cached, err := buildGraph(ctx, store, cfg.Generate)
	if err != nil {
		sp.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	sp.StopWithSuccess(generatedText(g.Len(), cfg.Generate.Probability))
	sw.done("Built graph", "nodes", g.Len(), "edges", g.EdgeCount(), "cached", cached)

	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}

	printStats(g.Len(), g.EdgeCount(), cached)
	printFile(output)
	printNextStep("Replay a search", fmt.Sprintf("%s run -i %s --source 0 --target %d", appName, output, g.Len()-1))
	return nil
}
