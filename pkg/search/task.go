package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/observability"
)

// Task is a search running on its own goroutine.
type Task struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result Result
}

// Start launches Run on a new goroutine. The task stops when it finishes
// naturally, when ctx is cancelled, or when Cancel is called.
func Start(ctx context.Context, g *graph.Graph, source, target int, sink Sink) *Task {
	runCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()

		hooks := observability.Search()
		hooks.OnSearchStart(runCtx, t.id, source, target)
		start := time.Now()

		res := Run(runCtx, g, source, target, sink)

		t.mu.Lock()
		t.result = res
		t.mu.Unlock()
		hooks.OnSearchDone(runCtx, t.id, res.Settled, res.Cancelled, time.Since(start))
	}()

	return t
}

// ID returns the run identifier used in logs.
func (t *Task) ID() string { return t.id }

// Cancel requests cooperative cancellation. It does not wait, and calling it
// after the run has finished is a no-op.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the worker goroutine has exited.
func (t *Task) Done() <-chan struct{} { return t.done }

// Finished reports whether the worker has exited.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the worker exits or timeout elapses, and reports whether
// it exited.
func (t *Task) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

// Stop cancels the run and waits up to timeout for the worker to exit. A
// worker that is still running afterwards exits on its next dequeue check.
func (t *Task) Stop(timeout time.Duration) bool {
	t.Cancel()
	return t.Wait(timeout)
}

// Result returns the run summary. It is the zero Result until Done is closed.
func (t *Task) Result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}
