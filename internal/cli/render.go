package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render/nodelink"
	"github.com/matzehuels/dijkstraviz/pkg/search"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	graph   graphOpts
	output  string  // output file; defaults to graph.<format>
	format  string  // dot, svg or png
	source  int     // search source, graph.NoNode to draw the bare graph
	target  int     // search target, graph.NoNode for an exhaustive search
	weights bool    // label edges with weights
	size    float64 // longest side in inches
}

// renderCommand creates the render command, which writes a snapshot of a
// graph and optionally of a finished search on it.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: string(nodelink.FormatSVG),
		source: graph.NoNode,
		target: graph.NoNode,
		size:   nodelink.DefaultSize,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a graph snapshot to DOT, SVG or PNG",
		Long: `Render draws the graph with every node pinned at its generated position.
With --source the search is run to completion first and the snapshot shows
settled nodes, accepted and rejected edges, and the shortest path to --target.`,
		Example: `  dijkstraviz render -i graph.json -o graph.svg
  dijkstraviz render --source 0 --target 1999 --weights -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := nodelink.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.graph.apply(cmd, cfg)
			return c.runRender(ctx, cfg, format, &opts)
		},
	}

	opts.graph.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default graph.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")
	cmd.Flags().IntVar(&opts.source, "source", opts.source, "run a search from this node before rendering")
	cmd.Flags().IntVar(&opts.target, "target", opts.target, "search target to highlight")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "label edges with their weights")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "longest side of the drawing in inches")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, format nodelink.Format, opts *renderOpts) error {
	store, release := c.openGraphs(ctx, cfg)
	defer release()

	g, _, err := opts.graph.graphFor(ctx, cfg, store)
	if err != nil {
		return err
	}

	st, err := solve(ctx, g, opts.source, opts.target)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(g, st, nodelink.Options{
		Source:      opts.source,
		Target:      opts.target,
		ShowWeights: opts.weights,
		Size:        opts.size,
	})

	sw := startStopwatch(c.Logger)
	data, err := nodelink.Render(ctx, dot, format)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	sw.done("Rendered snapshot", "format", format, "bytes", len(data))

	output := opts.output
	if output == "" {
		output = "graph." + string(format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %d nodes", g.Len())
	printFile(output)
	return nil
}

// solve runs a search to completion and folds every step into a state.
// With source graph.NoNode it returns an idle state.
func solve(ctx context.Context, g *graph.Graph, source, target int) (*state.State, error) {
	st := state.New(g.Len())
	if source == graph.NoNode {
		return st, nil
	}
	if err := errors.ValidateNode(source, g.Len()); err != nil {
		return nil, err
	}
	if target != graph.NoNode {
		if err := errors.ValidateNode(target, g.Len()); err != nil {
			return nil, err
		}
	}
	res := search.Run(ctx, g, source, target, search.SinkFunc(st.Apply))
	if res.Cancelled {
		return nil, ctx.Err()
	}
	return st, nil
}
