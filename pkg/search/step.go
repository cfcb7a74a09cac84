package search

import (
	"fmt"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
)

// Kind identifies the algorithmic action a Step records.
type Kind uint8

// Step kinds.
const (
	KindStart Kind = iota
	KindSettle
	KindRelaxOk
	KindRelaxSkip
	KindDone
)

var kindNames = [...]string{
	KindStart:     "start",
	KindSettle:    "settle",
	KindRelaxOk:   "relax-ok",
	KindRelaxSkip: "relax-skip",
	KindDone:      "done",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is one immutable search event.
//
// Field use per kind:
//
//	Start      From = source
//	Settle     From = settled node
//	RelaxOk    From → To, Dist = new tentative distance of To
//	RelaxSkip  From → To
//	Done       (none)
//
// Unused node fields hold graph.NoNode.
type Step struct {
	Kind Kind    `json:"kind"`
	From int     `json:"from"`
	To   int     `json:"to"`
	Dist float64 `json:"dist,omitempty"`
}

// StartStep records the beginning of a run from source.
func StartStep(source int) Step {
	return Step{Kind: KindStart, From: source, To: graph.NoNode}
}

// SettleStep records that u's distance is final.
func SettleStep(u int) Step {
	return Step{Kind: KindSettle, From: u, To: graph.NoNode}
}

// RelaxOkStep records that u→v improved v's distance to d.
func RelaxOkStep(u, v int, d float64) Step {
	return Step{Kind: KindRelaxOk, From: u, To: v, Dist: d}
}

// RelaxSkipStep records that u→v did not improve v.
func RelaxSkipStep(u, v int) Step {
	return Step{Kind: KindRelaxSkip, From: u, To: v}
}

// DoneStep terminates a run's stream.
func DoneStep() Step {
	return Step{Kind: KindDone, From: graph.NoNode, To: graph.NoNode}
}

// String formats the step for logs.
func (s Step) String() string {
	switch s.Kind {
	case KindStart, KindSettle:
		return fmt.Sprintf("%s(%d)", s.Kind, s.From)
	case KindRelaxOk:
		return fmt.Sprintf("%s(%d→%d, %.1f)", s.Kind, s.From, s.To, s.Dist)
	case KindRelaxSkip:
		return fmt.Sprintf("%s(%d→%d)", s.Kind, s.From, s.To)
	default:
		return s.Kind.String()
	}
}

// =============================================================================
// Sinks
// =============================================================================

// Sink accepts steps one at a time. Push must not block the producer and
// gives no backpressure signal.
type Sink interface {
	Push(Step)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Step)

// Push calls f(s).
func (f SinkFunc) Push(s Step) { f(s) }

// Collector is a Sink that appends steps to a slice. It is not safe for
// concurrent use; pair it with Run, not Start.
type Collector struct {
	Steps []Step
}

// Push appends s.
func (c *Collector) Push(s Step) { c.Steps = append(c.Steps, s) }
