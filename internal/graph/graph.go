// Package graph defines the core domain types for small undirected graphs.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Edge represents an undirected edge between two nodes.
// Edges are stored normalized with Source < Target.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Validation errors.
var (
	ErrSelfLoop       = errors.New("self loops are not allowed")
	ErrNodeOutOfRange = errors.New("node id out of range")
	ErrDuplicateEdge  = errors.New("duplicate edge")
	ErrNoNodes        = errors.New("graph must have at least one node")
)

// Normalize returns the edge with Source < Target.
func (e Edge) Normalize() Edge {
	if e.Source > e.Target {
		return Edge{Source: e.Target, Target: e.Source}
	}
	return e
}

// Graph is an undirected graph over nodes 0..NumNodes-1.
type Graph struct {
	// Name identifies the dataset (e.g., "karate").
	Name string

	// NumNodes is the node count; node ids are 0..NumNodes-1.
	NumNodes int

	// Edges is the normalized, deduplicated edge list.
	Edges []Edge

	// Labels optionally assigns a group label to each node (len NumNodes).
	// Used for visualization grouping only; empty when unknown.
	Labels []string

	adjacency [][]int
	edgeSet   map[Edge]bool
}

// New constructs a graph from an edge list, normalizing and validating
// every edge. Node ids must be in [0, numNodes).
func New(name string, numNodes int, edges []Edge) (*Graph, error) {
	if numNodes <= 0 {
		return nil, ErrNoNodes
	}

	g := &Graph{
		Name:     name,
		NumNodes: numNodes,
		edgeSet:  make(map[Edge]bool, len(edges)),
	}

	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, fmt.Errorf("edge (%d, %d): %w", e.Source, e.Target, err)
		}
	}

	g.buildAdjacency()
	return g, nil
}

func (g *Graph) addEdge(e Edge) error {
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	if e.Source < 0 || e.Source >= g.NumNodes || e.Target < 0 || e.Target >= g.NumNodes {
		return ErrNodeOutOfRange
	}

	e = e.Normalize()
	if g.edgeSet[e] {
		return ErrDuplicateEdge
	}

	g.edgeSet[e] = true
	g.Edges = append(g.Edges, e)
	return nil
}

func (g *Graph) buildAdjacency() {
	g.adjacency = make([][]int, g.NumNodes)
	for _, e := range g.Edges {
		g.adjacency[e.Source] = append(g.adjacency[e.Source], e.Target)
		g.adjacency[e.Target] = append(g.adjacency[e.Target], e.Source)
	}
	for _, nbrs := range g.adjacency {
		sort.Ints(nbrs)
	}
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// HasEdge reports whether the undirected edge (u, v) exists.
func (g *Graph) HasEdge(u, v int) bool {
	return g.edgeSet[Edge{Source: u, Target: v}.Normalize()]
}

// Neighbors returns the sorted neighbor list of node u.
func (g *Graph) Neighbors(u int) []int {
	return g.adjacency[u]
}

// Degree returns the degree of node u.
func (g *Graph) Degree(u int) int {
	return len(g.adjacency[u])
}

// Complement returns every node pair (u < v) that is not an edge.
// This is the candidate pool for negative sampling.
func (g *Graph) Complement() []Edge {
	var nonEdges []Edge
	for u := 0; u < g.NumNodes; u++ {
		for v := u + 1; v < g.NumNodes; v++ {
			if !g.edgeSet[Edge{Source: u, Target: v}] {
				nonEdges = append(nonEdges, Edge{Source: u, Target: v})
			}
		}
	}
	return nonEdges
}

// Adjacency returns the dense symmetric adjacency matrix.
func (g *Graph) Adjacency() *mat.Dense {
	a := mat.NewDense(g.NumNodes, g.NumNodes, nil)
	for _, e := range g.Edges {
		a.Set(e.Source, e.Target, 1)
		a.Set(e.Target, e.Source, 1)
	}
	return a
}

// MeanAdjacency returns the row-normalized adjacency matrix P = D^-1 A,
// so that P*H averages each node's neighbor features. Rows of isolated
// nodes are left at zero.
func (g *Graph) MeanAdjacency() *mat.Dense {
	p := g.Adjacency()
	for u := 0; u < g.NumNodes; u++ {
		deg := float64(g.Degree(u))
		if deg == 0 {
			continue
		}
		row := p.RawRowView(u)
		for i := range row {
			row[i] /= deg
		}
	}
	return p
}
