package cli

import (
	"strings"
	"testing"
)

func TestPrintStats(t *testing.T) {
	tests := []struct {
		nodes, edges int
		cached       bool
		want         []string
	}{
		{5, 5, false, []string{"5 nodes", "5 edges", "avg degree 2.0", iconFresh}},
		{4, 3, true, []string{"4 nodes", "3 edges", "avg degree 1.5", iconCached}},
		{0, 0, false, []string{"0 nodes", "0 edges", iconFresh}},
	}

	for _, tt := range tests {
		buf := captureOutput(t)
		printStats(tt.nodes, tt.edges, tt.cached)
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("printStats(%d, %d) = %q, want it to contain %q", tt.nodes, tt.edges, buf.String(), want)
			}
		}
	}
}

func TestPrintPath(t *testing.T) {
	tests := []struct {
		path []int
		want string
	}{
		{[]int{0, 1, 2, 3, 4}, "0 → 1 → 2 → 3 → 4"},
		{[]int{3}, "3"},
		{[]int{10, 1}, "10 → 1"},
	}

	for _, tt := range tests {
		buf := captureOutput(t)
		printPath(tt.path)
		got := buf.String()
		if !strings.HasPrefix(got, "Path") || !strings.Contains(got, tt.want) {
			t.Errorf("printPath(%v) = %q, want Path %q", tt.path, got, tt.want)
		}
	}
}
