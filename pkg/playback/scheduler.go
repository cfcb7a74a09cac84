// Package playback paces the consumption of a search step stream.
//
// A [Scheduler] is driven by an external frame clock: the presentation layer
// calls [Scheduler.Tick] once per frame with the current time, and the
// scheduler applies as many queued steps as the elapsed time allows at the
// configured rate. The first tick after [Scheduler.Start] only records the
// time. Draining stops early when the queue runs dry or right after a Done
// step is applied.
//
// The scheduler never resets anything on its own. Starting a new search is
// the owner's job: stop playback, cancel the old run, attach a fresh source.
package playback

import (
	"time"

	"github.com/matzehuels/dijkstraviz/pkg/observability"
	"github.com/matzehuels/dijkstraviz/pkg/search"
)

// Rate bounds in steps per second.
const (
	MinRate     = 1.0
	MaxRate     = 120.0
	DefaultRate = 30.0
)

// Source is the consumer side of a step queue. Both methods must not block.
type Source interface {
	TryPop() (search.Step, bool)
	Len() int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRate sets the initial rate. Out-of-range values are clamped.
func WithRate(r float64) Option {
	return func(s *Scheduler) { s.SetRate(r) }
}

// WithSource attaches an initial source.
func WithSource(src Source) Option {
	return func(s *Scheduler) { s.src = src }
}

// Scheduler applies steps from a Source at a bounded rate.
type Scheduler struct {
	apply  func(search.Step)
	redraw func()
	src    Source

	rate     float64
	interval time.Duration

	running bool
	last    time.Time
	acc     time.Duration
}

// New creates a stopped scheduler. apply is called once per consumed step;
// redraw is called after any tick that applied at least one step. redraw may
// be nil.
func New(apply func(search.Step), redraw func(), opts ...Option) *Scheduler {
	if redraw == nil {
		redraw = func() {}
	}
	s := &Scheduler{apply: apply, redraw: redraw}
	s.SetRate(DefaultRate)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach points the scheduler at src. It does not change the running flag.
func (s *Scheduler) Attach(src Source) { s.src = src }

// SetRate sets the playback rate in steps per second, clamped to
// [MinRate, MaxRate].
func (s *Scheduler) SetRate(r float64) {
	s.rate = min(max(r, MinRate), MaxRate)
	s.interval = time.Duration(float64(time.Second) / s.rate)
}

// Rate returns the current rate in steps per second.
func (s *Scheduler) Rate() float64 { return s.rate }

// Start begins ticking. The next Tick calibrates the clock and applies
// nothing.
func (s *Scheduler) Start() {
	s.running = true
	s.last = time.Time{}
	s.acc = 0
}

// Stop halts ticking. Queued steps stay queued, so a later Start resumes
// from the same position.
func (s *Scheduler) Stop() { s.running = false }

// Running reports whether ticks are being processed.
func (s *Scheduler) Running() bool { return s.running }

// Tick advances playback to now and returns the number of steps applied.
func (s *Scheduler) Tick(now time.Time) int {
	if !s.running || s.src == nil {
		return 0
	}
	if s.last.IsZero() {
		s.last = now
		return 0
	}
	if dt := now.Sub(s.last); dt > 0 {
		s.acc += dt
	}
	s.last = now

	applied := 0
	for s.acc >= s.interval {
		step, ok := s.src.TryPop()
		if !ok {
			break
		}
		s.apply(step)
		applied++
		s.acc -= s.interval
		if step.Kind == search.KindDone {
			break
		}
	}

	if applied > 0 {
		observability.Playback().OnTick(applied, s.src.Len())
		s.redraw()
	}
	return applied
}

// Drain applies every queued step regardless of time, stopping after a Done
// step. It calls redraw once if anything was applied.
func (s *Scheduler) Drain() int {
	if s.src == nil {
		return 0
	}
	applied := 0
	for {
		step, ok := s.src.TryPop()
		if !ok {
			break
		}
		s.apply(step)
		applied++
		if step.Kind == search.KindDone {
			break
		}
	}
	if applied > 0 {
		s.redraw()
	}
	return applied
}
