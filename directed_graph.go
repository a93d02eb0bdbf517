package cfgparse

import (
	"sort"
)

// Vertex in graph
type Vertex string

// DirectedGraph represents a directed graph
type DirectedGraph struct {
	Arcs     map[Vertex]map[Vertex]bool
	Vertices map[Vertex]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	g := new(DirectedGraph)
	g.Arcs = make(map[Vertex]map[Vertex]bool)
	g.Vertices = make(map[Vertex]bool)
	return g
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Vertex) {
	if g.Arcs[s] == nil {
		g.Arcs[s] = map[Vertex]bool{}
	}
	g.Arcs[s][t] = true
	g.Vertices[s] = true
	g.Vertices[t] = true
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t Vertex) bool {
	return g.Arcs[s][t]
}

// DFS runs depth-first search on graph and returns the vertices visited by
// deep-first order.
// It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s Vertex, visited map[Vertex]bool) []Vertex {
	if visited[s] || !g.Vertices[s] {
		return []Vertex{}
	}
	visited[s] = true

	order := []Vertex{s}
	for _, nextV := range sortedVertices(g.Arcs[s]) {
		order = append(order, g.DFS(nextV, visited)...)
	}
	return order
}

// finishOrder appends the vertices reachable from s to order once all of
// their successors are done
func (g *DirectedGraph) finishOrder(s Vertex, visited map[Vertex]bool, order []Vertex) []Vertex {
	if visited[s] {
		return order
	}
	visited[s] = true
	for _, nextV := range sortedVertices(g.Arcs[s]) {
		order = g.finishOrder(nextV, visited, order)
	}
	return append(order, s)
}

// TopologicalSort sorts the graph by topological order. For graphs with
// cycles it's the order of decreasing finish time, as used by
// StrongComponents
func (g *DirectedGraph) TopologicalSort() []Vertex {
	visited := map[Vertex]bool{}
	finished := []Vertex{}
	for _, v := range sortedVertices(g.Vertices) {
		finished = g.finishOrder(v, visited, finished)
	}

	order := make([]Vertex, len(finished))
	for i, v := range finished {
		order[len(finished)-1-i] = v
	}
	return order
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for v := range g.Vertices {
		reversed.Vertices[v] = true
	}
	for s, targets := range g.Arcs {
		for t := range targets {
			reversed.Add(t, s)
		}
	}
	return reversed
}

// StrongComponents find strong connected components with more than one
// vertex using Kosaraju's algorithm. Vertices of each component are sorted,
// components are sorted by their first vertex
func (g *DirectedGraph) StrongComponents() [][]Vertex {
	visited := map[Vertex]bool{}
	components := [][]Vertex{}
	topologicalOrder := g.TopologicalSort()
	gt := g.Transpose()
	for _, v := range topologicalOrder {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) <= 1 {
			continue
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

func sortedVertices(set map[Vertex]bool) []Vertex {
	vertices := make([]Vertex, 0, len(set))
	for v := range set {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return vertices
}
