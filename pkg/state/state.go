// Package state folds a search step stream into a queryable projection:
// settled nodes, tentative distances, predecessors and per-edge outcomes.
//
// A [State] has no meaning apart from the stream that built it. Folding the
// same steps into two fresh states yields identical results, and Reset must
// be called before the first step of a new run is applied.
//
// State is not safe for concurrent use. The playback loop is its only writer;
// renderers read it between ticks.
package state

import (
	"maps"
	"slices"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/search"
)

// Phase is the coarse progress of the run being replayed.
type Phase uint8

// Phases.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Class is the display classification of an edge.
type Class uint8

// Edge classes. Accepted dominates Rejected.
const (
	Unclassified Class = iota
	Rejected
	Accepted
)

func (c Class) String() string {
	switch c {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unclassified"
	}
}

// Pair is an unordered node pair with Lo <= Hi.
type Pair struct {
	Lo int
	Hi int
}

// MakePair normalizes (u, v) so that MakePair(u, v) == MakePair(v, u).
func MakePair(u, v int) Pair {
	if u > v {
		u, v = v, u
	}
	return Pair{Lo: u, Hi: v}
}

// Status is the run metadata maintained by Start and Done steps.
type Status struct {
	Phase   Phase
	Source  int
	Applied int // steps folded since the last Reset
}

// State is the cumulative result of all applied steps.
type State struct {
	nodes    int
	status   Status
	visited  map[int]struct{}
	dist     map[int]float64
	prev     map[int]int
	accepted map[Pair]struct{}
	rejected map[Pair]struct{}
}

// New returns an empty state for a graph with nodeCount nodes. The node count
// bounds path reconstruction.
func New(nodeCount int) *State {
	s := &State{nodes: nodeCount}
	s.Reset()
	return s
}

// Reset clears every map and set and returns the status to idle.
func (s *State) Reset() {
	s.status = Status{Phase: PhaseIdle, Source: graph.NoNode}
	s.visited = make(map[int]struct{})
	s.dist = make(map[int]float64)
	s.prev = make(map[int]int)
	s.accepted = make(map[Pair]struct{})
	s.rejected = make(map[Pair]struct{})
}

// Apply folds one step into the state. It performs no I/O.
func (s *State) Apply(step search.Step) {
	s.status.Applied++
	switch step.Kind {
	case search.KindStart:
		s.status.Phase = PhaseRunning
		s.status.Source = step.From
		s.dist[step.From] = 0
	case search.KindSettle:
		s.visited[step.From] = struct{}{}
	case search.KindRelaxOk:
		s.dist[step.To] = step.Dist
		s.prev[step.To] = step.From
		p := MakePair(step.From, step.To)
		s.accepted[p] = struct{}{}
		delete(s.rejected, p)
	case search.KindRelaxSkip:
		p := MakePair(step.From, step.To)
		if _, ok := s.accepted[p]; !ok {
			s.rejected[p] = struct{}{}
		}
	case search.KindDone:
		s.status.Phase = PhaseDone
	}
}

// Status returns the run metadata.
func (s *State) Status() Status { return s.status }

// NodeCount returns the node count the state was created for.
func (s *State) NodeCount() int { return s.nodes }

// Visited reports whether v has been settled.
func (s *State) Visited(v int) bool {
	_, ok := s.visited[v]
	return ok
}

// VisitedCount returns the number of settled nodes.
func (s *State) VisitedCount() int { return len(s.visited) }

// Distance returns v's best known distance. The source reports 0 once the
// Start step has been applied.
func (s *State) Distance(v int) (float64, bool) {
	d, ok := s.dist[v]
	return d, ok
}

// Predecessor returns the node v was last improved from.
func (s *State) Predecessor(v int) (int, bool) {
	u, ok := s.prev[v]
	return u, ok
}

// EdgeClass returns the classification of the pair {u, v}.
func (s *State) EdgeClass(u, v int) Class {
	p := MakePair(u, v)
	if _, ok := s.accepted[p]; ok {
		return Accepted
	}
	if _, ok := s.rejected[p]; ok {
		return Rejected
	}
	return Unclassified
}

// Distances returns a copy of the distance map. It holds the source (at 0)
// and every node reached by an accepted relaxation.
func (s *State) Distances() map[int]float64 { return maps.Clone(s.dist) }

// Predecessors returns a copy of the predecessor map.
func (s *State) Predecessors() map[int]int { return maps.Clone(s.prev) }

// VisitedSet returns a copy of the settled set.
func (s *State) VisitedSet() map[int]struct{} { return maps.Clone(s.visited) }

// AcceptedEdges returns a copy of the accepted edge set.
func (s *State) AcceptedEdges() map[Pair]struct{} { return maps.Clone(s.accepted) }

// RejectedEdges returns a copy of the rejected edge set.
func (s *State) RejectedEdges() map[Pair]struct{} { return maps.Clone(s.rejected) }

// ReconstructPath follows predecessor links from target back to the source
// and returns the path source→target. It reports false when no run has
// started, when a link is missing, or when the chain is longer than the node
// count (a malformed, cyclic chain).
func (s *State) ReconstructPath(target int) ([]int, bool) {
	src := s.status.Source
	if src == graph.NoNode {
		return nil, false
	}
	path := []int{target}
	cur := target
	for steps := 0; cur != src; steps++ {
		if steps >= s.nodes {
			return nil, false
		}
		u, ok := s.prev[cur]
		if !ok {
			return nil, false
		}
		path = append(path, u)
		cur = u
	}
	slices.Reverse(path)
	return path, true
}
