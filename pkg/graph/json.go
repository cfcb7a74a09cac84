package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the JSON serialization of a Graph. Each undirected edge appears
// once, with From < To.
type Document struct {
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
}

// NodeJSON is the serialized form of a Node.
type NodeJSON struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EdgeJSON is the serialized form of an undirected edge.
type EdgeJSON struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

// ToDocument converts a Graph to its serialization format.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeJSON, 0, g.Len()),
		Edges: make([]EdgeJSON, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeJSON{ID: n.ID, X: n.X, Y: n.Y})
	}
	g.UndirectedEdges(func(e Edge) {
		doc.Edges = append(doc.Edges, EdgeJSON{From: e.From, To: e.To, Weight: e.Weight})
	})
	return doc
}

// FromDocument rebuilds a Graph. Node IDs must be dense and in order, edges
// must reference existing nodes and carry non-negative weights.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for i, n := range doc.Nodes {
		if n.ID != i {
			return nil, fmt.Errorf("node %d: id %d is not dense", i, n.ID)
		}
		g.AddNode(n.X, n.Y)
	}
	for i, e := range doc.Edges {
		if !g.Has(e.From) || !g.Has(e.To) {
			return nil, fmt.Errorf("edge %d: %d→%d references unknown node", i, e.From, e.To)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("edge %d: self-loop on %d", i, e.From)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("edge %d: negative weight %g", i, e.Weight)
		}
		g.AddUndirected(e.From, e.To, e.Weight)
	}
	return g, nil
}

// Marshal serializes a Graph to JSON.
func Marshal(g *Graph) ([]byte, error) {
	return json.Marshal(ToDocument(g))
}

// Unmarshal deserializes JSON bytes to a Graph.
func Unmarshal(data []byte) (*Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// WriteFile writes a Graph to a JSON file.
func WriteFile(g *Graph, path string) error {
	data, err := json.MarshalIndent(ToDocument(g), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Graph from a JSON file.
func ReadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}
