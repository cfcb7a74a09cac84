package cli

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render"
	"github.com/matzehuels/dijkstraviz/pkg/session"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

const (
	statusReady  = "Ready"
	statusPaused = "Paused"
)

func generatedText(nodes int, p float64) string {
	return fmt.Sprintf("Generated: %d nodes, p=%s", nodes, strconv.FormatFloat(p, 'g', -1, 64))
}

func runningText(sel session.Selection) string {
	if sel.Target == graph.NoNode {
		return fmt.Sprintf("Running: source=%d", sel.Source)
	}
	return fmt.Sprintf("Running: source=%d target=%d", sel.Source, sel.Target)
}

func doneText(st *state.State, target int) string {
	if target != graph.NoNode {
		if d, ok := st.Distance(target); ok {
			return fmt.Sprintf("Done. dist[%d]=%s", target, render.FormatDist(d))
		}
	}
	return "Done."
}

// statusText derives the status line from the replayed state. last is the
// message of the most recent user action and is shown while no run is in
// progress.
func statusText(st *state.State, sel session.Selection, paused bool, last string) string {
	switch {
	case paused:
		return statusPaused
	case st.Status().Phase == state.PhaseDone:
		return doneText(st, sel.Target)
	case st.Status().Phase == state.PhaseRunning:
		return runningText(sel)
	}
	return last
}
