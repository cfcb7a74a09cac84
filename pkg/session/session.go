// Package session owns one interactive visualization: the current graph, the
// node selection, the running search and its playback.
//
// A Session enforces the single-engine rule. Starting a run stops playback,
// cancels the previous search with a bounded join, and attaches a fresh step
// channel and state before the new worker starts. Every method takes the
// session mutex, so ticks (which apply steps) and View callbacks (which read
// state for rendering) never overlap.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dijkstraviz/pkg/cache"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/generate"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/playback"
	"github.com/matzehuels/dijkstraviz/pkg/search"
	"github.com/matzehuels/dijkstraviz/pkg/state"
	"github.com/matzehuels/dijkstraviz/pkg/stream"
)

// DefaultCancelTimeout bounds the join on a cancelled worker.
const DefaultCancelTimeout = 50 * time.Millisecond

// Selection is the picked source and target. Unset fields hold graph.NoNode.
type Selection struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

func noSelection() Selection {
	return Selection{Source: graph.NoNode, Target: graph.NoNode}
}

// Info summarizes the session for status lines and the HTTP API.
type Info struct {
	ID        string      `json:"id"`
	RunID     string      `json:"run_id,omitempty"`
	Nodes     int         `json:"nodes"`
	Edges     int         `json:"edges"`
	Selection Selection   `json:"selection"`
	Phase     state.Phase `json:"-"`
	PhaseName string      `json:"phase"`
	Playing   bool        `json:"playing"`
	Paused    bool        `json:"paused"`
	Rate      float64     `json:"rate"`
	Applied   int         `json:"applied"`
	Backlog   int         `json:"backlog"`
}

// Option configures a Session.
type Option func(*Session)

// WithCancelTimeout sets the bounded join used when a run is replaced.
func WithCancelTimeout(d time.Duration) Option {
	return func(s *Session) { s.cancelTimeout = d }
}

// WithRate sets the initial playback rate.
func WithRate(r float64) Option {
	return func(s *Session) { s.sched.SetRate(r) }
}

// WithGenerateOptions passes options through to generate.GenerateContext.
func WithGenerateOptions(opts ...generate.Option) Option {
	return func(s *Session) { s.genOpts = append(s.genOpts, opts...) }
}

// WithGraphCache consults store before generating and fills it afterwards.
func WithGraphCache(store *cache.Graphs) Option {
	return func(s *Session) { s.graphs = store }
}

// WithRedraw registers a callback run, under the session lock, after every
// tick that applied at least one step.
func WithRedraw(fn func()) Option {
	return func(s *Session) { s.redraw = fn }
}

// Session is safe for concurrent use.
type Session struct {
	id            string
	ctx           context.Context
	cancelTimeout time.Duration
	genOpts       []generate.Option
	graphs        *cache.Graphs
	redraw        func()

	mu     sync.Mutex
	g      *graph.Graph
	st     *state.State
	ch     *stream.Channel
	sched  *playback.Scheduler
	task   *search.Task
	sel    Selection
	paused bool
}

// New returns a session with an empty graph. Search workers inherit ctx.
func New(ctx context.Context, opts ...Option) *Session {
	s := &Session{
		id:            uuid.NewString(),
		ctx:           ctx,
		cancelTimeout: DefaultCancelTimeout,
		redraw:        func() {},
		g:             graph.New(),
		st:            state.New(0),
		ch:            stream.New(),
		sel:           noSelection(),
	}
	s.sched = playback.New(s.apply, func() { s.redraw() }, playback.WithSource(s.ch))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// apply runs inside Scheduler.Tick with s.mu held.
func (s *Session) apply(step search.Step) {
	s.st.Apply(step)
	if step.Kind == search.KindDone {
		s.sched.Stop()
		s.paused = false
	}
}

// Generate stops any run, replaces the graph with a fresh random one and
// clears the selection and state. The result is served from the graph cache
// when one is configured.
func (s *Session) Generate(ctx context.Context, n int, p float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateNodeCount(n); err != nil {
		return err
	}
	if err := errors.ValidateProbability(p); err != nil {
		return err
	}
	s.stopLocked()

	g, err := s.build(ctx, n, p)
	if err != nil {
		return err
	}
	s.replaceGraphLocked(g)
	return nil
}

func (s *Session) build(ctx context.Context, n int, p float64) (*graph.Graph, error) {
	opts := generate.DefaultOptions()
	for _, opt := range s.genOpts {
		opt(&opts)
	}
	params := cache.GraphParams{Nodes: n, Probability: p, Seed: opts.Seed, Width: opts.Width, Height: opts.Height}

	if s.graphs != nil {
		// Cache errors degrade to regeneration.
		if g, ok, err := s.graphs.Load(ctx, params); err == nil && ok {
			return g, nil
		}
	}

	g := graph.New()
	if err := generate.GenerateContext(ctx, g, n, p, s.genOpts...); err != nil {
		return nil, err
	}
	if s.graphs != nil {
		_ = s.graphs.Store(ctx, params, g)
	}
	return g, nil
}

// Load stops any run and replaces the graph with g.
func (s *Session) Load(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.replaceGraphLocked(g)
}

func (s *Session) replaceGraphLocked(g *graph.Graph) {
	s.g = g
	s.st = state.New(g.Len())
	s.ch = stream.New()
	s.sched.Attach(s.ch)
	s.sel = noSelection()
}

// Pick maps a screen position to a node through t and feeds it to Select.
// It reports the node hit, if any.
func (s *Session) Pick(t graph.Transform, sx, sy float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := graph.NodeAt(s.g, t, sx, sy)
	if ok {
		s.selectLocked(id)
	}
	return id, ok
}

// Select advances the pick cycle with node id: the first pick sets the
// source, the next sets the target (re-picking the source targets itself),
// and any further pick starts over with a new source.
func (s *Session) Select(id int) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateNode(id, s.g.Len()); err != nil {
		return s.sel, err
	}
	s.selectLocked(id)
	return s.sel, nil
}

func (s *Session) selectLocked(id int) {
	switch {
	case s.sel.Source == graph.NoNode:
		s.sel.Source = id
	case s.sel.Target == graph.NoNode || id == s.sel.Source:
		s.sel.Target = id
	default:
		s.sel = Selection{Source: id, Target: graph.NoNode}
	}
}

// SetSelection sets source and target directly. target may be graph.NoNode
// for an exhaustive run.
func (s *Session) SetSelection(source, target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateNode(source, s.g.Len()); err != nil {
		return err
	}
	if target != graph.NoNode {
		if err := errors.ValidateNode(target, s.g.Len()); err != nil {
			return err
		}
	}
	s.sel = Selection{Source: source, Target: target}
	return nil
}

// Selection returns the current pick.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Start resumes a paused run that has not finished, or launches a new run
// from the current selection. It returns the run id.
func (s *Session) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g.Len() == 0 {
		return "", errors.New(errors.ErrCodeNoGraph, "generate a graph first")
	}
	if s.sel.Source == graph.NoNode {
		return "", errors.New(errors.ErrCodeNoSource, "Pick a source and a target")
	}

	if s.paused && s.task != nil && s.st.Status().Phase != state.PhaseDone {
		s.paused = false
		s.sched.Start()
		return s.task.ID(), nil
	}

	s.stopLocked()
	s.st = state.New(s.g.Len())
	s.ch = stream.New()
	s.sched.Attach(s.ch)
	s.task = search.Start(s.ctx, s.g, s.sel.Source, s.sel.Target, s.ch)
	s.sched.Start()
	return s.task.ID(), nil
}

// Pause halts playback. Queued steps are kept and Start resumes from them.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched.Running() {
		s.sched.Stop()
		s.paused = true
	}
}

// Reset cancels the run and clears the state and the selection. The graph
// is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.st = state.New(s.g.Len())
	s.ch = stream.New()
	s.sched.Attach(s.ch)
	s.sel = noSelection()
}

// stopLocked halts playback and cancels the worker, waiting at most
// cancelTimeout. A worker that outlives the wait exits on its next dequeue
// and only ever writes to the channel it was given.
func (s *Session) stopLocked() {
	s.sched.Stop()
	s.paused = false
	if s.task != nil {
		s.task.Stop(s.cancelTimeout)
		s.task = nil
	}
}

// Close cancels any run.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// SetRate changes the playback rate; it is clamped to the scheduler bounds.
func (s *Session) SetRate(r float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.SetRate(r)
	return s.sched.Rate()
}

// Tick advances playback to now and returns the number of steps applied.
func (s *Session) Tick(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Tick(now)
}

// Finish waits up to timeout for the current worker to exit, then applies
// every queued step at once. It reports the steps applied and whether the
// run reached Done.
func (s *Session) Finish(timeout time.Duration) (int, bool) {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()
	if task != nil {
		task.Wait(timeout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.sched.Drain()
	return n, s.st.Status().Phase == state.PhaseDone
}

// View calls fn with the graph, the state and the selection under the
// session lock. fn must not retain the pointers or call back into s.
func (s *Session) View(fn func(g *graph.Graph, st *state.State, sel Selection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.g, s.st, s.sel)
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.st.Status()
	info := Info{
		ID:        s.id,
		Nodes:     s.g.Len(),
		Edges:     s.g.EdgeCount(),
		Selection: s.sel,
		Phase:     st.Phase,
		PhaseName: st.Phase.String(),
		Playing:   s.sched.Running(),
		Paused:    s.paused,
		Rate:      s.sched.Rate(),
		Applied:   st.Applied,
		Backlog:   s.ch.Len(),
	}
	if s.task != nil {
		info.RunID = s.task.ID()
	}
	return info
}
