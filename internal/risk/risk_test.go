package risk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"claimtrace/internal/cluster"
	"claimtrace/internal/risk"
)

// TestClassify checks the band boundaries.
func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  risk.Level
	}{
		{"Zero", 0.0, risk.Low},
		{"JustBelowMedium", 0.19, risk.Low},
		{"MediumLowerBound", 0.2, risk.Medium},
		{"JustBelowHigh", 0.49, risk.Medium},
		{"HighLowerBound", 0.5, risk.High},
		{"JustBelowCritical", 0.79, risk.High},
		{"CriticalLowerBound", 0.8, risk.Critical},
		{"Max", 1.0, risk.Critical},
		{"BelowRange", -0.5, risk.Low},
		{"AboveRange", 2.0, risk.Critical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, risk.Classify(tc.score))
		})
	}
}

// TestClusterScoreSizeTiers isolates the member-count factor.
func TestClusterScoreSizeTiers(t *testing.T) {
	cases := []struct {
		name string
		size int
		want float64
	}{
		{"Pair", 2, 0.0},
		{"SmallRing", 3, 0.1},
		{"MediumRing", 10, 0.2},
		{"LargeRing", 20, 0.3},
		{"ShellNetwork", 40, 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cluster.Cluster{Size: tc.size}
			require.InDelta(t, tc.want, risk.ClusterScore(c, 0, 10_000_000), 1e-9)
		})
	}
}

// TestClusterScoreAmountTiers isolates the billing-volume factor.
func TestClusterScoreAmountTiers(t *testing.T) {
	const threshold = 10_000_000.0
	cases := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"Negligible", 100, 0.0},
		{"TenthOfThreshold", threshold / 10, 0.1},
		{"HalfThreshold", threshold / 2, 0.2},
		{"AtThreshold", threshold, 0.3},
		{"TenTimesThreshold", threshold * 10, 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cluster.Cluster{Size: 1}
			require.InDelta(t, tc.want, risk.ClusterScore(c, tc.amount, threshold), 1e-9)
		})
	}
}

// TestClusterScoreDensityBonus verifies the concentration factor and the
// score ceiling when every factor maxes out.
func TestClusterScoreDensityBonus(t *testing.T) {
	sparse := cluster.Cluster{Size: 1, Density: 0.5}
	require.InDelta(t, 0.0, risk.ClusterScore(sparse, 0, 10_000_000), 1e-9)

	dense := cluster.Cluster{Size: 1, Density: 0.8}
	require.InDelta(t, 0.2, risk.ClusterScore(dense, 0, 10_000_000), 1e-9)

	maxed := cluster.Cluster{Size: 50, Density: 1.0}
	require.InDelta(t, 1.0, risk.ClusterScore(maxed, 200_000_000, 10_000_000), 1e-9)
}

// TestClusterScoreNoThreshold verifies the amount factor is skipped when no
// threshold is configured.
func TestClusterScoreNoThreshold(t *testing.T) {
	c := cluster.Cluster{Size: 3}
	require.InDelta(t, 0.1, risk.ClusterScore(c, 1_000_000_000, 0), 1e-9)
}
