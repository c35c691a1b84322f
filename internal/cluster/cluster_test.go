package cluster_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"claimtrace/internal/cluster"
	"claimtrace/internal/graph"
	"claimtrace/internal/risk"
)

// clique wires every pair among the given node IDs with unit weight.
func clique(g *graph.Graph, ids ...string) {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			g.AddEdge(ids[i], ids[j], "shared_link", 1)
		}
	}
}

// TestFindComponentsSingleClique verifies one complete component comes back
// as one fully dense cluster.
func TestFindComponentsSingleClique(t *testing.T) {
	g := graph.NewGraph()
	clique(g, "PRV-A", "PRV-B", "PRV-C", "PRV-D")

	clusters := cluster.FindComponents(g, 1, 3)
	require.Len(t, clusters, 1)

	c := clusters[0]
	require.Equal(t, "cluster_1", c.ID)
	require.Equal(t, 4, c.Size)
	require.Equal(t, 6, c.EdgeCount)
	require.Equal(t, 6, c.TotalWeight)
	require.InDelta(t, 1.0, c.Density, 1e-9)
	require.ElementsMatch(t, []string{"PRV-A", "PRV-B", "PRV-C", "PRV-D"}, c.Members)
}

// TestFindComponentsSeparatesComponents verifies disjoint cliques become
// separate clusters in node insertion order.
func TestFindComponentsSeparatesComponents(t *testing.T) {
	g := graph.NewGraph()
	clique(g, "PRV-A", "PRV-B", "PRV-C")
	clique(g, "PRV-X", "PRV-Y", "PRV-Z")

	clusters := cluster.FindComponents(g, 1, 3)
	require.Len(t, clusters, 2)
	require.Equal(t, "cluster_1", clusters[0].ID)
	require.Contains(t, clusters[0].Members, "PRV-A")
	require.Equal(t, "cluster_2", clusters[1].ID)
	require.Contains(t, clusters[1].Members, "PRV-X")
}

// TestFindComponentsMinSize verifies that undersized components, including
// isolated nodes, are filtered out.
func TestFindComponentsMinSize(t *testing.T) {
	g := graph.NewGraph()
	clique(g, "PRV-A", "PRV-B", "PRV-C")
	g.AddEdge("PRV-X", "PRV-Y", "shared_link", 1) // pair, below minSize
	g.EnsureNode("PRV-LONER")

	clusters := cluster.FindComponents(g, 1, 3)
	require.Len(t, clusters, 1)
	require.Equal(t, 3, clusters[0].Size)
}

// TestFindComponentsMinEdgeWeight verifies that light edges are dropped
// before traversal, splitting weakly joined components.
func TestFindComponentsMinEdgeWeight(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("PRV-A", "PRV-B", "shared_link", 3)
	g.AddEdge("PRV-A", "PRV-C", "shared_link", 3)
	g.AddEdge("PRV-B", "PRV-C", "shared_link", 3)
	g.AddEdge("PRV-X", "PRV-Y", "shared_link", 3)
	g.AddEdge("PRV-X", "PRV-Z", "shared_link", 3)
	g.AddEdge("PRV-Y", "PRV-Z", "shared_link", 3)
	g.AddEdge("PRV-C", "PRV-X", "shared_link", 1) // weak bridge

	merged := cluster.FindComponents(g, 1, 3)
	require.Len(t, merged, 1)
	require.Equal(t, 6, merged[0].Size)

	split := cluster.FindComponents(g, 2, 3)
	require.Len(t, split, 2)
	require.Equal(t, 3, split[0].Size)
	require.Equal(t, 3, split[1].Size)
}

// TestFindComponentsEmptyGraph verifies nil and empty graphs yield nothing.
func TestFindComponentsEmptyGraph(t *testing.T) {
	require.Nil(t, cluster.FindComponents(nil, 1, 3))
	require.Nil(t, cluster.FindComponents(graph.NewGraph(), 1, 3))
}

// TestFlagHighDegreeNodes verifies that a star center stands out against the
// mean degree.
func TestFlagHighDegreeNodes(t *testing.T) {
	g := graph.NewGraph()
	for i := 0; i < 8; i++ {
		g.AddEdge("hub", fmt.Sprintf("leaf-%d", i), "shared_link", 1)
	}

	// mean degree = 16/9 ≈ 1.78; hub degree 8 > 2 * mean
	hubs := cluster.FlagHighDegreeNodes(g, 2.0)
	require.Len(t, hubs, 1)
	require.Equal(t, "hub", hubs[0].ID)
	require.Equal(t, 8, hubs[0].Degree)
	require.Greater(t, hubs[0].Deviation, 2.0)
}

// TestFlagHighDegreeNodesOrdering verifies degree-descending, ID-ascending
// ordering of flagged hubs.
func TestFlagHighDegreeNodesOrdering(t *testing.T) {
	g := graph.NewGraph()
	for i := 0; i < 6; i++ {
		g.AddEdge("hub-b", fmt.Sprintf("b-%d", i), "shared_link", 1)
		g.AddEdge("hub-a", fmt.Sprintf("a-%d", i), "shared_link", 1)
	}
	for i := 0; i < 4; i++ {
		g.AddEdge("hub-c", fmt.Sprintf("c-%d", i), "shared_link", 1)
	}

	hubs := cluster.FlagHighDegreeNodes(g, 1.5)
	require.Len(t, hubs, 3)
	require.Equal(t, "hub-a", hubs[0].ID)
	require.Equal(t, "hub-b", hubs[1].ID)
	require.Equal(t, "hub-c", hubs[2].ID)
}

// TestFlagHighDegreeNodesNoEdges verifies an edgeless graph flags nothing.
func TestFlagHighDegreeNodesNoEdges(t *testing.T) {
	g := graph.NewGraph()
	g.EnsureNode("PRV-A")
	require.Nil(t, cluster.FlagHighDegreeNodes(g, 2.0))
}

// TestTraceNeighborhood verifies layered expansion along a chain.
func TestTraceNeighborhood(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", "shared_link", 1)
	g.AddEdge("b", "c", "shared_link", 2)
	g.AddEdge("c", "d", "shared_link", 3)

	trace := cluster.TraceNeighborhood(g, "a", 2)
	require.Equal(t, "a", trace.Origin)
	require.Equal(t, 2, trace.DepthReached)
	require.Equal(t, 3, trace.TotalNodes)
	require.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, trace.Layers)
	require.Len(t, trace.Edges, 2)
	require.Equal(t, cluster.TraceEdge{From: "a", To: "b", Depth: 1, Weight: 1}, trace.Edges[0])
	require.Equal(t, cluster.TraceEdge{From: "b", To: "c", Depth: 2, Weight: 2}, trace.Edges[1])
}

// TestTraceNeighborhoodUnknownStart verifies an absent origin yields an
// empty trace.
func TestTraceNeighborhoodUnknownStart(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", "shared_link", 1)

	trace := cluster.TraceNeighborhood(g, "missing", 3)
	require.Equal(t, 0, trace.TotalNodes)
	require.Empty(t, trace.Layers)
	require.Empty(t, trace.Edges)
}

// TestTraceNeighborhoodStopsEarly verifies expansion halts when a layer
// comes up empty before the requested depth.
func TestTraceNeighborhoodStopsEarly(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", "shared_link", 1)

	trace := cluster.TraceNeighborhood(g, "a", 5)
	require.Equal(t, 1, trace.DepthReached)
	require.Equal(t, 2, trace.TotalNodes)
}

// TestShellNetworkScenario runs the end-to-end shell pattern: dozens of
// providers all billing through one patient identity with heavy totals must
// score critical.
func TestShellNetworkScenario(t *testing.T) {
	const providers = 41
	records := make([]map[string]interface{}, 0, providers)
	for i := 0; i < providers; i++ {
		records = append(records, map[string]interface{}{
			"provider_id":   fmt.Sprintf("PRV-%02d", i),
			"patient_id":    "PAT-SHARED",
			"billed_amount": 300_000.0,
		})
	}

	g := graph.NewBuilder("provider_id", "patient_id", "billed_amount").Build(records)
	clusters := cluster.FindComponents(g, 1, 3)
	require.Len(t, clusters, 1)

	c := clusters[0]
	require.Equal(t, providers, c.Size)
	require.InDelta(t, 1.0, c.Density, 1e-9)

	totalAmount := 0.0
	for _, member := range c.Members {
		totalAmount += g.Node(member).Sum
	}
	require.InDelta(t, 12_300_000.0, totalAmount, 1e-6)

	score := risk.ClusterScore(c, totalAmount, 10_000_000)
	require.InDelta(t, 0.9, score, 1e-9)
	require.Equal(t, risk.Critical, risk.Classify(score))
}
