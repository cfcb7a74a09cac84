package playback

import (
	"testing"
	"time"

	"github.com/matzehuels/dijkstraviz/pkg/search"
	"github.com/matzehuels/dijkstraviz/pkg/stream"
)

type recorder struct {
	steps   []search.Step
	redraws int
}

func (r *recorder) apply(s search.Step) { r.steps = append(r.steps, s) }
func (r *recorder) redraw()             { r.redraws++ }

func fill(n int, withDone bool) *stream.Channel {
	ch := stream.New()
	ch.Push(search.StartStep(0))
	for i := 1; i < n; i++ {
		ch.Push(search.SettleStep(i))
	}
	if withDone {
		ch.Push(search.DoneStep())
	}
	return ch
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSetRateClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, MinRate},
		{-5, MinRate},
		{1, 1},
		{30, 30},
		{120, 120},
		{500, MaxRate},
	}
	s := New(func(search.Step) {}, nil)
	for _, tt := range tests {
		s.SetRate(tt.in)
		if got := s.Rate(); got != tt.want {
			t.Errorf("SetRate(%v): Rate() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultRate(t *testing.T) {
	if got := New(func(search.Step) {}, nil).Rate(); got != DefaultRate {
		t.Errorf("Rate() = %v, want %v", got, DefaultRate)
	}
}

func TestTickStopped(t *testing.T) {
	var r recorder
	s := New(r.apply, r.redraw, WithSource(fill(5, true)))

	if n := s.Tick(t0); n != 0 {
		t.Errorf("Tick() while stopped = %d, want 0", n)
	}
	if n := s.Tick(t0.Add(time.Second)); n != 0 {
		t.Errorf("Tick() while stopped = %d, want 0", n)
	}
	if r.redraws != 0 {
		t.Errorf("redraws = %d, want 0", r.redraws)
	}
}

func TestTickCalibrates(t *testing.T) {
	var r recorder
	s := New(r.apply, r.redraw, WithSource(fill(5, true)), WithRate(10))
	s.Start()

	if n := s.Tick(t0); n != 0 {
		t.Errorf("calibration Tick() = %d, want 0", n)
	}
	if r.redraws != 0 {
		t.Error("calibration tick redrew")
	}
}

func TestTickPacing(t *testing.T) {
	var r recorder
	s := New(r.apply, r.redraw, WithSource(fill(100, false)), WithRate(10))
	s.Start()
	s.Tick(t0)

	tests := []struct {
		at   time.Duration
		want int
	}{
		{50 * time.Millisecond, 0},  // half an interval
		{100 * time.Millisecond, 1}, // carries the first half
		{350 * time.Millisecond, 2}, // 0.25s accrued
		{1350 * time.Millisecond, 10},
	}
	for _, tt := range tests {
		if got := s.Tick(t0.Add(tt.at)); got != tt.want {
			t.Errorf("Tick(+%v) = %d, want %d", tt.at, got, tt.want)
		}
	}
	if r.redraws != 3 {
		t.Errorf("redraws = %d, want 3", r.redraws)
	}
	if len(r.steps) != 13 {
		t.Errorf("applied = %d, want 13", len(r.steps))
	}
}

func TestTickStopsOnDone(t *testing.T) {
	ch := fill(3, true)
	ch.Push(search.StartStep(9)) // a stale tail that must not be applied

	var r recorder
	s := New(r.apply, r.redraw, WithSource(ch), WithRate(MaxRate))
	s.Start()
	s.Tick(t0)

	if got := s.Tick(t0.Add(10 * time.Second)); got != 4 {
		t.Fatalf("Tick() = %d, want 4", got)
	}
	if last := r.steps[len(r.steps)-1]; last.Kind != search.KindDone {
		t.Errorf("last applied = %v, want done", last)
	}
	if ch.Len() != 1 {
		t.Errorf("queue length = %d, want 1", ch.Len())
	}
}

func TestTickEmptyQueue(t *testing.T) {
	var r recorder
	s := New(r.apply, r.redraw, WithSource(stream.New()))
	s.Start()
	s.Tick(t0)

	if got := s.Tick(t0.Add(time.Second)); got != 0 {
		t.Errorf("Tick() = %d, want 0", got)
	}
	if r.redraws != 0 {
		t.Errorf("redraws = %d, want 0", r.redraws)
	}
}

func TestStopResume(t *testing.T) {
	ch := fill(20, true)
	var r recorder
	s := New(r.apply, r.redraw, WithSource(ch), WithRate(10))
	s.Start()
	s.Tick(t0)
	s.Tick(t0.Add(500 * time.Millisecond))

	s.Stop()
	if s.Running() {
		t.Fatal("Running() = true after Stop")
	}
	if got := s.Tick(t0.Add(5 * time.Second)); got != 0 {
		t.Errorf("Tick() after Stop = %d, want 0", got)
	}
	if ch.Len() != 16 {
		t.Errorf("queue length after stop = %d, want 16", ch.Len())
	}

	// Resuming recalibrates, so the paused wall time is not replayed.
	s.Start()
	later := t0.Add(time.Minute)
	if got := s.Tick(later); got != 0 {
		t.Errorf("calibration Tick() after resume = %d, want 0", got)
	}
	if got := s.Tick(later.Add(200 * time.Millisecond)); got != 2 {
		t.Errorf("Tick() after resume = %d, want 2", got)
	}
	if r.steps[5] != search.SettleStep(5) {
		t.Errorf("resumed at %v, want settle(5)", r.steps[5])
	}
}

func TestAttach(t *testing.T) {
	var r recorder
	s := New(r.apply, r.redraw, WithSource(fill(5, true)), WithRate(MaxRate))
	s.Attach(fill(2, true))
	s.Start()
	s.Tick(t0)
	s.Tick(t0.Add(time.Second))

	if len(r.steps) != 3 {
		t.Errorf("applied = %d, want 3 from the attached source", len(r.steps))
	}
}

func TestDrain(t *testing.T) {
	ch := fill(50, true)
	ch.Push(search.StartStep(1))

	var r recorder
	s := New(r.apply, r.redraw, WithSource(ch))

	if got := s.Drain(); got != 51 {
		t.Errorf("Drain() = %d, want 51", got)
	}
	if r.redraws != 1 {
		t.Errorf("redraws = %d, want 1", r.redraws)
	}
	if ch.Len() != 1 {
		t.Errorf("queue length = %d, want 1", ch.Len())
	}
}
