// Package cluster detects connected components, hub nodes, and layered
// neighborhoods over a co-occurrence graph. All operations are deterministic:
// the same graph always produces the same clusters in the same order.
package cluster

import (
	"fmt"

	"claimtrace/internal/graph"
)

// Cluster is a connected component surviving the size filter.
type Cluster struct {
	ID          string
	Members     []string
	Size        int
	EdgeCount   int
	TotalWeight int
	Density     float64
}

// FindComponents drops edges lighter than minEdgeWeight, finds connected
// components by breadth-first traversal seeded in node insertion order, and
// returns the components of at least minSize members. Density is edge count
// over the maximum possible edges for the component size. Isolated nodes form
// singleton components and are filtered out whenever minSize > 1.
func FindComponents(g *graph.Graph, minEdgeWeight, minSize int) []Cluster {
	if g == nil || g.NodeCount() == 0 {
		return nil
	}
	if minSize < 1 {
		minSize = 1
	}

	// Adjacency restricted to edges at or above the weight threshold,
	// preserving edge insertion order for deterministic traversal.
	adjacency := make(map[string][]string)
	kept := make([]*graph.Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if e.Weight < minEdgeWeight {
			continue
		}
		kept = append(kept, e)
		adjacency[e.A] = append(adjacency[e.A], e.B)
		adjacency[e.B] = append(adjacency[e.B], e.A)
	}

	visited := make(map[string]bool, g.NodeCount())
	var clusters []Cluster

	for _, start := range g.NodeIDs() {
		if visited[start] {
			continue
		}
		visited[start] = true

		component := []string{}
		queue := []string{start}
		inComponent := map[string]bool{start: true}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for _, nbr := range adjacency[current] {
				if !visited[nbr] {
					visited[nbr] = true
					inComponent[nbr] = true
					queue = append(queue, nbr)
				}
			}
		}

		if len(component) < minSize {
			continue
		}

		edgeCount := 0
		totalWeight := 0
		for _, e := range kept {
			if inComponent[e.A] && inComponent[e.B] {
				edgeCount++
				totalWeight += e.Weight
			}
		}

		n := len(component)
		maxEdges := float64(n*(n-1)) / 2
		density := 0.0
		if maxEdges > 0 {
			density = float64(edgeCount) / maxEdges
		}

		clusters = append(clusters, Cluster{
			ID:          fmt.Sprintf("cluster_%d", len(clusters)+1),
			Members:     component,
			Size:        n,
			EdgeCount:   edgeCount,
			TotalWeight: totalWeight,
			Density:     density,
		})
	}

	return clusters
}
