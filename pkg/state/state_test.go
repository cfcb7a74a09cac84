package state

import (
	"maps"
	"reflect"
	"testing"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/search"
)

func applyAll(s *State, steps ...search.Step) {
	for _, st := range steps {
		s.Apply(st)
	}
}

func TestMakePair(t *testing.T) {
	if MakePair(3, 1) != MakePair(1, 3) {
		t.Error("MakePair is not symmetric")
	}
	if p := MakePair(5, 2); p.Lo != 2 || p.Hi != 5 {
		t.Errorf("MakePair(5, 2) = %+v, want {2 5}", p)
	}
}

func TestNewIsIdle(t *testing.T) {
	s := New(4)
	st := s.Status()
	if st.Phase != PhaseIdle || st.Source != graph.NoNode || st.Applied != 0 {
		t.Errorf("Status() = %+v, want idle", st)
	}
	if _, ok := s.Distance(0); ok {
		t.Error("Distance(0) known before any step")
	}
	if _, ok := s.ReconstructPath(0); ok {
		t.Error("ReconstructPath succeeded before any run")
	}
}

func TestApplyStartAndDone(t *testing.T) {
	s := New(3)
	s.Apply(search.StartStep(1))

	st := s.Status()
	if st.Phase != PhaseRunning || st.Source != 1 {
		t.Errorf("after start Status() = %+v", st)
	}
	if d, ok := s.Distance(1); !ok || d != 0 {
		t.Errorf("Distance(source) = %v,%v, want 0,true", d, ok)
	}
	if got, want := s.Distances(), map[int]float64{1: 0}; !maps.Equal(got, want) {
		t.Errorf("Distances() = %v, want %v", got, want)
	}

	s.Apply(search.DoneStep())
	if s.Status().Phase != PhaseDone {
		t.Errorf("Phase = %v, want done", s.Status().Phase)
	}
	if s.Status().Applied != 2 {
		t.Errorf("Applied = %d, want 2", s.Status().Applied)
	}
}

func TestApplySettle(t *testing.T) {
	s := New(3)
	applyAll(s, search.StartStep(0), search.SettleStep(0), search.SettleStep(2))

	if !s.Visited(0) || !s.Visited(2) || s.Visited(1) {
		t.Errorf("VisitedSet() = %v", s.VisitedSet())
	}
	if s.VisitedCount() != 2 {
		t.Errorf("VisitedCount() = %d, want 2", s.VisitedCount())
	}
}

func TestApplyRelaxOk(t *testing.T) {
	s := New(3)
	applyAll(s,
		search.StartStep(0),
		search.RelaxOkStep(0, 2, 7),
		search.RelaxOkStep(1, 2, 4),
	)

	if d, _ := s.Distance(2); d != 4 {
		t.Errorf("Distance(2) = %v, want 4", d)
	}
	if u, _ := s.Predecessor(2); u != 1 {
		t.Errorf("Predecessor(2) = %d, want 1", u)
	}
	if c := s.EdgeClass(2, 0); c != Accepted {
		t.Errorf("EdgeClass(2, 0) = %v, want accepted", c)
	}
	if c := s.EdgeClass(1, 2); c != Accepted {
		t.Errorf("EdgeClass(1, 2) = %v, want accepted", c)
	}
}

func TestEdgeClassAcceptedDominates(t *testing.T) {
	tests := []struct {
		name  string
		steps []search.Step
		want  Class
	}{
		{"none", nil, Unclassified},
		{"skip only", []search.Step{search.RelaxSkipStep(0, 1)}, Rejected},
		{"ok only", []search.Step{search.RelaxOkStep(0, 1, 1)}, Accepted},
		{"skip then ok", []search.Step{search.RelaxSkipStep(1, 0), search.RelaxOkStep(0, 1, 1)}, Accepted},
		{"ok then skip", []search.Step{search.RelaxOkStep(0, 1, 1), search.RelaxSkipStep(1, 0)}, Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(2)
			s.Apply(search.StartStep(0))
			applyAll(s, tt.steps...)

			if got := s.EdgeClass(0, 1); got != tt.want {
				t.Errorf("EdgeClass = %v, want %v", got, tt.want)
			}
			_, inRejected := s.RejectedEdges()[MakePair(0, 1)]
			_, inAccepted := s.AcceptedEdges()[MakePair(0, 1)]
			if inRejected && inAccepted {
				t.Error("pair is both accepted and rejected")
			}
		})
	}
}

func TestReset(t *testing.T) {
	s := New(3)
	applyAll(s,
		search.StartStep(0),
		search.SettleStep(0),
		search.RelaxOkStep(0, 1, 2),
		search.RelaxSkipStep(1, 0),
		search.DoneStep(),
	)
	s.Reset()

	if st := s.Status(); st.Phase != PhaseIdle || st.Source != graph.NoNode || st.Applied != 0 {
		t.Errorf("Status() after Reset = %+v", st)
	}
	if len(s.Distances())+len(s.Predecessors())+len(s.VisitedSet())+len(s.AcceptedEdges())+len(s.RejectedEdges()) != 0 {
		t.Error("Reset left data behind")
	}
	if s.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", s.NodeCount())
	}
}

func TestCopiesAreIndependent(t *testing.T) {
	s := New(2)
	applyAll(s, search.StartStep(0), search.RelaxOkStep(0, 1, 3))

	d := s.Distances()
	d[1] = 99
	if got, _ := s.Distance(1); got != 3 {
		t.Errorf("Distance(1) = %v after mutating copy, want 3", got)
	}
}

func TestReconstructPath(t *testing.T) {
	s := New(5)
	applyAll(s,
		search.StartStep(0),
		search.RelaxOkStep(0, 1, 1),
		search.RelaxOkStep(0, 2, 4),
		search.RelaxOkStep(1, 2, 3),
		search.RelaxOkStep(2, 3, 4),
	)

	tests := []struct {
		target int
		want   []int
		ok     bool
	}{
		{0, []int{0}, true},
		{1, []int{0, 1}, true},
		{3, []int{0, 1, 2, 3}, true},
		{4, nil, false},
	}
	for _, tt := range tests {
		got, ok := s.ReconstructPath(tt.target)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ReconstructPath(%d) = %v,%v, want %v,%v", tt.target, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReconstructPathCycle(t *testing.T) {
	s := New(3)
	applyAll(s,
		search.StartStep(0),
		search.RelaxOkStep(1, 2, 1),
		search.RelaxOkStep(2, 1, 1),
	)
	if _, ok := s.ReconstructPath(2); ok {
		t.Error("ReconstructPath followed a predecessor cycle")
	}
}
