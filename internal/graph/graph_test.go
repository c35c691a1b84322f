package graph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"claimtrace/internal/graph"
)

func claimRecord(provider, patient string, amount float64) map[string]interface{} {
	return map[string]interface{}{
		"provider_id":   provider,
		"patient_id":    patient,
		"billed_amount": amount,
	}
}

func testBuilder() graph.Builder {
	return graph.NewBuilder("provider_id", "patient_id", "billed_amount")
}

// TestBuildEmptyInput verifies that no records yield an empty graph.
func TestBuildEmptyInput(t *testing.T) {
	g := testBuilder().Build(nil)
	require.Equal(t, 0, g.NodeCount())
	require.Equal(t, 0, g.EdgeCount())
}

// TestBuildSharedLinkPairs verifies that k entities sharing one link produce
// a complete graph of k(k-1)/2 unit-weight edges.
func TestBuildSharedLinkPairs(t *testing.T) {
	const k = 5
	records := make([]map[string]interface{}, 0, k)
	for i := 0; i < k; i++ {
		records = append(records, claimRecord(fmt.Sprintf("PRV-%d", i), "PAT-1", 100))
	}

	g := testBuilder().Build(records)
	require.Equal(t, k, g.NodeCount())
	require.Equal(t, k*(k-1)/2, g.EdgeCount())
	for _, e := range g.Edges() {
		require.Equal(t, 1, e.Weight)
		require.Equal(t, "shared_link", e.Type)
		require.LessOrEqual(t, e.A, e.B)
	}
}

// TestBuildEdgeWeightAccumulates verifies that each additional shared link
// between the same pair raises the edge weight by one.
func TestBuildEdgeWeightAccumulates(t *testing.T) {
	records := []map[string]interface{}{
		claimRecord("PRV-A", "PAT-1", 100),
		claimRecord("PRV-B", "PAT-1", 100),
		claimRecord("PRV-A", "PAT-2", 100),
		claimRecord("PRV-B", "PAT-2", 100),
		claimRecord("PRV-A", "PAT-3", 100),
		claimRecord("PRV-B", "PAT-3", 100),
	}

	g := testBuilder().Build(records)
	require.Equal(t, 1, g.EdgeCount())
	require.Equal(t, 3, g.EdgeWeight("PRV-A", "PRV-B"))
	require.Equal(t, 3, g.EdgeWeight("PRV-B", "PRV-A"))
}

// TestBuildDuplicateEntityPerLink verifies that repeat claims by the same
// provider for one patient do not inflate pair weights.
func TestBuildDuplicateEntityPerLink(t *testing.T) {
	records := []map[string]interface{}{
		claimRecord("PRV-A", "PAT-1", 100),
		claimRecord("PRV-A", "PAT-1", 200),
		claimRecord("PRV-B", "PAT-1", 300),
	}

	g := testBuilder().Build(records)
	require.Equal(t, 1, g.EdgeWeight("PRV-A", "PRV-B"))

	a := g.Node("PRV-A")
	require.Equal(t, 2, a.Count)
	require.InDelta(t, 300.0, a.Sum, 1e-9)
}

// TestBuildNodeAggregation verifies record counts and amount sums per node.
func TestBuildNodeAggregation(t *testing.T) {
	records := []map[string]interface{}{
		claimRecord("PRV-A", "PAT-1", 150.5),
		claimRecord("PRV-A", "PAT-2", 49.5),
		claimRecord("PRV-B", "PAT-1", 1000),
	}

	g := testBuilder().Build(records)
	a := g.Node("PRV-A")
	require.Equal(t, 2, a.Count)
	require.InDelta(t, 200.0, a.Sum, 1e-9)

	b := g.Node("PRV-B")
	require.Equal(t, 1, b.Count)
	require.InDelta(t, 1000.0, b.Sum, 1e-9)
}

// TestBuildSkipsRecordsWithoutEntity verifies that records lacking the
// entity key contribute nothing, while a missing link key still yields a
// node without edges.
func TestBuildSkipsRecordsWithoutEntity(t *testing.T) {
	records := []map[string]interface{}{
		{"patient_id": "PAT-1", "billed_amount": 50.0},
		{"provider_id": "PRV-A", "billed_amount": 75.0},
	}

	g := testBuilder().Build(records)
	require.Equal(t, 1, g.NodeCount())
	require.Equal(t, 0, g.EdgeCount())
	require.True(t, g.HasNode("PRV-A"))
}

// TestBuildDeterministicOrder verifies first-seen ordering of nodes and
// edges across rebuilds.
func TestBuildDeterministicOrder(t *testing.T) {
	records := []map[string]interface{}{
		claimRecord("PRV-C", "PAT-1", 10),
		claimRecord("PRV-A", "PAT-1", 10),
		claimRecord("PRV-B", "PAT-1", 10),
	}

	g1 := testBuilder().Build(records)
	g2 := testBuilder().Build(records)

	require.Equal(t, []string{"PRV-C", "PRV-A", "PRV-B"}, g1.NodeIDs())
	require.Equal(t, g1.NodeIDs(), g2.NodeIDs())

	edges1 := g1.Edges()
	edges2 := g2.Edges()
	require.Equal(t, len(edges1), len(edges2))
	for i := range edges1 {
		require.Equal(t, *edges1[i], *edges2[i])
	}
}

// TestAddEdgeIgnoresSelfLoops verifies that self-referential edges are not
// materialized.
func TestAddEdgeIgnoresSelfLoops(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("PRV-A", "PRV-A", "shared_link", 1)
	require.Equal(t, 0, g.EdgeCount())
	require.Equal(t, 0, g.NodeCount())
}

// TestDegrees verifies degree counting on a small star graph.
func TestDegrees(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("hub", "a", "shared_link", 1)
	g.AddEdge("hub", "b", "shared_link", 1)
	g.AddEdge("hub", "c", "shared_link", 1)

	degrees := g.Degrees()
	require.Equal(t, 3, degrees["hub"])
	require.Equal(t, 1, degrees["a"])
	require.Equal(t, 1, degrees["b"])
	require.Equal(t, 1, degrees["c"])
}

// TestNeighbors verifies neighbor listings follow edge insertion order.
func TestNeighbors(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("hub", "b", "shared_link", 1)
	g.AddEdge("hub", "a", "shared_link", 1)
	g.AddEdge("hub", "c", "shared_link", 1)

	require.Equal(t, []string{"b", "a", "c"}, g.Neighbors("hub"))
	require.Equal(t, []string{"hub"}, g.Neighbors("a"))
	require.Empty(t, g.Neighbors("missing"))
}
