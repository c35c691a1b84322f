package cluster

import "claimtrace/internal/graph"

// TraceEdge is an edge crossed while expanding a neighborhood layer.
type TraceEdge struct {
	From   string
	To     string
	Depth  int
	Weight int
}

// Neighborhood is a layered breadth-first expansion from an origin node,
// used to trace referral chains.
type Neighborhood struct {
	Origin       string
	DepthReached int
	TotalNodes   int
	Layers       [][]string
	Edges        []TraceEdge
}

// TraceNeighborhood expands from start up to depth hops, returning per-layer
// node lists and the edges crossed to reach each new node. Layer 0 is the
// origin itself. An unknown start yields an empty trace.
func TraceNeighborhood(g *graph.Graph, start string, depth int) Neighborhood {
	trace := Neighborhood{Origin: start}
	if g == nil || !g.HasNode(start) {
		return trace
	}

	visited := map[string]bool{start: true}
	trace.Layers = [][]string{{start}}

	for d := 0; d < depth; d++ {
		currentLayer := trace.Layers[len(trace.Layers)-1]
		var nextLayer []string

		for _, node := range currentLayer {
			for _, nbr := range g.Neighbors(node) {
				if visited[nbr] {
					continue
				}
				visited[nbr] = true
				nextLayer = append(nextLayer, nbr)
				trace.Edges = append(trace.Edges, TraceEdge{
					From:   node,
					To:     nbr,
					Depth:  d + 1,
					Weight: g.EdgeWeight(node, nbr),
				})
			}
		}

		if len(nextLayer) == 0 {
			break
		}
		trace.Layers = append(trace.Layers, nextLayer)
	}

	trace.DepthReached = len(trace.Layers) - 1
	trace.TotalNodes = len(visited)
	return trace
}
