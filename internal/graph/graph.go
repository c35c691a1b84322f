// Package graph builds weighted co-occurrence graphs from flat
// entity-relationship records: entities become nodes, and two entities that
// share a linking value (a patient, a principal, a counterparty) gain an
// edge whose weight counts how many links they share.
//
// All listings (nodes, edges, neighbors) are deterministic: first-seen
// insertion order. Rebuilding a graph from the same records always yields
// the same listing order, which downstream clustering relies on.
package graph

import "sort"

// Node is an entity with attributes aggregated from its records.
type Node struct {
	ID     string
	Count  int     // number of records mentioning the entity
	Sum    float64 // aggregated amount over those records
	Labels map[string]string
}

// Edge is an unordered pair of node IDs with a co-occurrence weight.
// A is always lexicographically <= B.
type Edge struct {
	A      string
	B      string
	Weight int
	Type   string
}

// Graph is an undirected weighted graph with deterministic iteration order.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string

	edges     map[[2]string]*Edge
	edgeOrder [][2]string

	adjacency map[string][]string // insertion-ordered neighbor lists
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[[2]string]*Edge),
		adjacency: make(map[string][]string),
	}
}

// EnsureNode returns the node for id, creating it on first sight.
func (g *Graph) EnsureNode(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	return n
}

// AddEdge increments the weight of the undirected edge between a and b by
// delta, creating the edge (and any missing endpoint) on first sight.
// Self-loops are ignored.
func (g *Graph) AddEdge(a, b, edgeType string, delta int) {
	if a == b || a == "" || b == "" {
		return
	}
	g.EnsureNode(a)
	g.EnsureNode(b)

	key := edgeKey(a, b)
	e, ok := g.edges[key]
	if !ok {
		e = &Edge{A: key[0], B: key[1], Type: edgeType}
		g.edges[key] = e
		g.edgeOrder = append(g.edgeOrder, key)
		g.adjacency[a] = append(g.adjacency[a], b)
		g.adjacency[b] = append(g.adjacency[b], a)
	}
	e.Weight += delta
}

// Node returns the node for id, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes lists all nodes in first-seen order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs lists all node IDs in first-seen order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edges lists all edges in first-seen order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, g.edges[key])
	}
	return out
}

// Neighbors lists the neighbors of id in the order their edges were added.
func (g *Graph) Neighbors(id string) []string {
	nbrs := g.adjacency[id]
	out := make([]string, len(nbrs))
	copy(out, nbrs)
	return out
}

// EdgeWeight returns the weight of the edge between a and b, or 0.
func (g *Graph) EdgeWeight(a, b string) int {
	if e, ok := g.edges[edgeKey(a, b)]; ok {
		return e.Weight
	}
	return 0
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// Degrees returns each node's degree, counting each incident edge once per
// endpoint, keyed by node ID.
func (g *Graph) Degrees() map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for _, key := range g.edgeOrder {
		e := g.edges[key]
		degrees[e.A]++
		degrees[e.B]++
	}
	return degrees
}

func edgeKey(a, b string) [2]string {
	pair := []string{a, b}
	sort.Strings(pair)
	return [2]string{pair[0], pair[1]}
}
