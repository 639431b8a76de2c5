package graph

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrVertexOutOfRange is returned when an edge names a vertex >= NumVertices.
	ErrVertexOutOfRange = errors.New("vertex out of range")
	// ErrInvalidWeight is returned for negative or NaN edge weights.
	ErrInvalidWeight = errors.New("edge weight must be a non-negative number")
	// ErrFrozen is returned by AddEdge after Freeze.
	ErrFrozen = errors.New("graph is frozen")
)

// VertexID identifies a vertex. Vertices are dense in [0, NumVertices).
type VertexID = uint32

// EdgeID identifies an edge. Ids follow insertion order and never change.
type EdgeID = uint32

// Edge is a directed weighted edge.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph is a directed weighted graph with a fixed vertex count. Edges are
// appended with AddEdge; Freeze then builds a CSR (Compressed Sparse Row)
// incidence index over them.
type Graph struct {
	numVertices uint32
	edges       []Edge

	// Populated by Freeze.
	// FirstOut[u]..FirstOut[u+1] index into OutEdges for edges leaving u.
	firstOut []uint32 // len: numVertices + 1
	outEdges []EdgeID // len: len(edges)

	frozen bool
}

// New creates an empty graph with n vertices.
func New(n uint32) *Graph {
	return &Graph{numVertices: n}
}

// AddEdge appends e and returns its id.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if g.frozen {
		return 0, ErrFrozen
	}
	if e.From >= g.numVertices || e.To >= g.numVertices {
		return 0, fmt.Errorf("%w: %d -> %d with %d vertices", ErrVertexOutOfRange, e.From, e.To, g.numVertices)
	}
	if math.IsNaN(e.Weight) || e.Weight < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWeight, e.Weight)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	return id, nil
}

// Freeze builds the outgoing-edge index. Calling it twice is a no-op.
func (g *Graph) Freeze() {
	if g.frozen {
		return
	}
	n := g.numVertices

	// Count edges per vertex.
	firstOut := make([]uint32, n+1)
	for _, e := range g.edges {
		firstOut[e.From+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= n; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Place edge ids; iterating in id order keeps each bucket sorted by id.
	outEdges := make([]EdgeID, len(g.edges))
	pos := make([]uint32, n)
	copy(pos, firstOut[:n])
	for id, e := range g.edges {
		outEdges[pos[e.From]] = EdgeID(id)
		pos[e.From]++
	}

	g.firstOut = firstOut
	g.outEdges = outEdges
	g.frozen = true
}

// Frozen reports whether Freeze has been called.
func (g *Graph) Frozen() bool { return g.frozen }

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() uint32 { return g.numVertices }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() uint32 { return uint32(len(g.edges)) }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Edges returns all edges in id order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// OutEdges returns the ids of edges leaving u, in id order. The graph must be
// frozen.
func (g *Graph) OutEdges(u VertexID) []EdgeID {
	return g.outEdges[g.firstOut[u]:g.firstOut[u+1]]
}
