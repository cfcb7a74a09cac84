// Package pkg provides the core libraries for dijkstraviz, a step-by-step
// shortest-path visualizer.
//
// # Overview
//
// Dijkstraviz generates random geometric graphs, runs Dijkstra's algorithm on
// a background worker, and replays the worker's step events at a
// user-controlled rate. The pkg directory is organized into four areas:
//
//  1. Model: [graph], [generate]
//  2. Search: [search], [stream], [state]
//  3. Playback: [playback], [session]
//  4. Presentation and infrastructure: [render], [cache], [config],
//     [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow for one run:
//
//	[generate] fills a [graph.Graph]
//	         ↓
//	[search] worker emits Steps into a [stream.Channel]
//	         ↓
//	[playback] scheduler pops them at the configured rate
//	         ↓
//	[state] folds each Step into the displayed state
//	         ↓
//	[render] draws graph + state (terminal, DOT, SVG, PNG)
//
// [session] owns one graph, selection, worker and scheduler, and enforces
// that at most one worker feeds the displayed state.
//
// # Quick Start
//
//	g := graph.New()
//	if err := generate.Generate(g, 2000, 0.004); err != nil {
//	    return err
//	}
//
//	st := state.New(g.Len())
//	search.Run(ctx, g, 0, 1999, search.SinkFunc(st.Apply))
//
//	path, ok := st.ReconstructPath(1999)
//
// # Concurrency
//
// The search worker is the only producer on its channel; the playback tick
// is the only consumer and the only writer of state. [session.Session]
// serializes ticks and render reads behind one mutex.
package pkg
