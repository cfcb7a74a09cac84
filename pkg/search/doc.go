// Package search runs an instrumented single-source shortest-path search and
// reports every algorithmic action as a [Step].
//
// The engine is the classic label-setting algorithm for non-negative weights:
// a min-heap frontier keyed by tentative distance, a settled flag per node and
// lazy deletion (stale heap entries are skipped at dequeue instead of being
// decreased in place).
//
// # Event Contract
//
// A run emits, in order:
//
//   - Start(source), exactly once and first.
//   - Settle(u) each time an unsettled node is dequeued. A node settles at
//     most once.
//   - For each adjacency entry u→v of a settled node: RelaxSkip(u, v) if v is
//     already settled; otherwise RelaxOk(u, v, d) if d = dist[u]+w strictly
//     improves dist[v], else RelaxSkip(u, v).
//   - Done, exactly once and last, after the frontier empties, the target
//     settles, or the context is cancelled.
//
// RelaxOk distances for the same target node strictly decrease over a run.
//
// # Running
//
// [Run] executes on the calling goroutine. [Start] runs the same loop on a
// dedicated goroutine and returns a [Task] for cancellation:
//
//	ch := stream.New()
//	task := search.Start(ctx, g, source, target, ch)
//	// ... drain ch ...
//	task.Stop(50 * time.Millisecond) // cancel and join with a bounded wait
//
// Cancellation is cooperative: the context is checked once per frontier
// dequeue, so after cancellation the worker emits at most the relax steps of
// the node it is expanding, then Done.
//
// # Preconditions
//
// Source and target must be valid node IDs (target may be graph.NoNode for an
// exhaustive search) and weights must be non-negative. The engine does not
// check either; callers validate before starting.
package search
