package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/session"
)

// fiveNode builds 0-1 (1), 1-2 (2), 0-2 (4), 2-3 (1), 3-4 (1). The shortest
// path 0→4 is 0,1,2,3,4 with length 5.
func fiveNode() *graph.Graph {
	g := graph.New()
	for i := 0; i < 5; i++ {
		g.AddNode(float64(i)*100, float64(i%2)*100)
	}
	g.AddUndirected(0, 1, 1)
	g.AddUndirected(1, 2, 2)
	g.AddUndirected(0, 2, 4)
	g.AddUndirected(2, 3, 1)
	g.AddUndirected(3, 4, 1)
	return g
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(context.Background())
	t.Cleanup(s.Close)
	s.Load(fiveNode())
	return s
}

// captureOutput redirects the print helpers into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := out
	out = &buf
	t.Cleanup(func() { out = old })
	return &buf
}
