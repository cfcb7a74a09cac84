package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/session"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

// finishTimeout bounds the wait for a search worker in --instant mode.
const finishTimeout = 30 * time.Second

type runOpts struct {
	graph   graphOpts
	source  int
	target  int
	rate    float64
	instant bool
}

// runCommand creates the run command, which replays a search without a UI.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{target: graph.NoNode}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search a graph headlessly and print the shortest path",
		Long: `Run starts a search from --source and replays its steps through the
playback scheduler at --rate steps per second, exactly as the interactive view
would. With --instant all steps are applied as soon as the search finishes.
Without --target every reachable node is settled.`,
		Example: `  dijkstraviz run --source 0 --target 1999 --instant
  dijkstraviz run -i graph.json --source 3 --target 42 --rate 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.graph.apply(cmd, cfg)
			if cmd.Flags().Changed("rate") {
				cfg.Playback.Rate = opts.rate
			}
			return c.runSearch(ctx, cfg, &opts)
		},
	}

	opts.graph.register(cmd, true)
	cmd.Flags().IntVar(&opts.source, "source", 0, "source node")
	cmd.Flags().IntVar(&opts.target, "target", opts.target, "target node (-1 settles every reachable node)")
	cmd.Flags().Float64Var(&opts.rate, "rate", config.DefaultRate, "playback rate in steps per second")
	cmd.Flags().BoolVar(&opts.instant, "instant", false, "skip the animation and apply all steps at once")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, cfg *config.Config, opts *runOpts) error {
	store, release := c.openGraphs(ctx, cfg)
	defer release()

	g, cached, err := opts.graph.graphFor(ctx, cfg, store)
	if err != nil {
		return err
	}
	printInfo("Graph")
	printStats(g.Len(), g.EdgeCount(), cached)

	s := newSession(ctx, cfg, store)
	defer s.Close()
	s.Load(g)
	if err := s.SetSelection(opts.source, opts.target); err != nil {
		return err
	}

	sw := startStopwatch(c.Logger)
	runID, err := s.Start()
	if err != nil {
		return err
	}
	c.Logger.Debug("Run started", "run", runID, "rate", s.Info().Rate)

	if opts.instant {
		if _, done := s.Finish(finishTimeout); !done {
			return errors.New(errors.ErrCodeInternal, "search did not finish within %s", finishTimeout)
		}
	} else if err := play(ctx, s, cfg.Playback.FrameInterval()); err != nil {
		return err
	}
	sw.done("Replay finished", "run", runID, "instant", opts.instant)

	s.View(func(g *graph.Graph, st *state.State, sel session.Selection) {
		printSuccess("%s", doneText(st, sel.Target))
		printKeyValue("Run", runID)
		printKeyValue("Settled", strconv.Itoa(st.VisitedCount()))
		printKeyValue("Steps", strconv.Itoa(st.Status().Applied))
		if sel.Target == graph.NoNode {
			return
		}
		if path, ok := st.ReconstructPath(sel.Target); ok {
			printPath(path)
		} else {
			printWarning("Node %d is not reachable from %d", sel.Target, sel.Source)
		}
	})
	return nil
}

// play ticks s at the frame interval until the replayed run is done.
func play(ctx context.Context, s *session.Session, frame time.Duration) error {
	sp := newSpinner(ctx, "Searching").withStatus(func() string { return replayStatus(s) })
	sp.Start()
	defer sp.Stop()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now)
			if s.Info().Phase == state.PhaseDone {
				return nil
			}
		}
	}
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}

// formatRate renders a playback rate for status lines.
func formatRate(r float64) string {
	return fmt.Sprintf("%s steps/s", strconv.FormatFloat(r, 'f', -1, 64))
}
