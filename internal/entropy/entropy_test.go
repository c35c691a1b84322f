package entropy_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"claimtrace/internal/cluster"
	"claimtrace/internal/entropy"
	"claimtrace/internal/graph"
)

// TestShannonUniform verifies that n equal frequencies yield log2(n) bits.
func TestShannonUniform(t *testing.T) {
	require.InDelta(t, 2.0, entropy.Shannon([]float64{1, 1, 1, 1}), 1e-9)
	require.InDelta(t, 3.0, entropy.Shannon([]float64{5, 5, 5, 5, 5, 5, 5, 5}), 1e-9)
}

// TestShannonDegenerate verifies empty, zero, and single-mass distributions
// carry no information.
func TestShannonDegenerate(t *testing.T) {
	require.Zero(t, entropy.Shannon(nil))
	require.Zero(t, entropy.Shannon([]float64{0, 0}))
	require.Zero(t, entropy.Shannon([]float64{7}))
	require.Zero(t, entropy.Shannon([]float64{-1, -2}))
}

// TestShannonSkewedBelowUniform verifies concentration lowers entropy.
func TestShannonSkewedBelowUniform(t *testing.T) {
	uniform := entropy.Shannon([]float64{25, 25, 25, 25})
	skewed := entropy.Shannon([]float64{97, 1, 1, 1})
	require.Less(t, skewed, uniform)
}

// TestDegreeEntropy verifies a regular graph hits the uniform bound and an
// edgeless graph scores zero.
func TestDegreeEntropy(t *testing.T) {
	g := graph.NewGraph()
	ids := []string{"a", "b", "c", "d"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			g.AddEdge(ids[i], ids[j], "shared_link", 1)
		}
	}
	// complete graph: every degree equal, so the distribution is uniform
	require.InDelta(t, 2.0, entropy.DegreeEntropy(g), 1e-9)

	require.Zero(t, entropy.DegreeEntropy(nil))
	require.Zero(t, entropy.DegreeEntropy(graph.NewGraph()))
}

// TestClusterSizeEntropy verifies equal-sized clusters maximize entropy.
func TestClusterSizeEntropy(t *testing.T) {
	clusters := []cluster.Cluster{{Size: 10}, {Size: 10}}
	require.InDelta(t, 1.0, entropy.ClusterSizeEntropy(clusters), 1e-9)
	require.Zero(t, entropy.ClusterSizeEntropy(nil))
}

// TestAnomalousDeviation checks the sigma band in both directions.
func TestAnomalousDeviation(t *testing.T) {
	require.False(t, entropy.AnomalousDeviation(2.5, 2.5, 0.5))
	require.False(t, entropy.AnomalousDeviation(2.9, 2.5, 0.5))
	require.True(t, entropy.AnomalousDeviation(3.1, 2.5, 0.5))
	require.True(t, entropy.AnomalousDeviation(1.9, 2.5, 0.5))
}

func identicalClaims(n int) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, map[string]interface{}{
			"provider_id":   "PRV-0001",
			"patient_id":    "PAT-0001",
			"billed_amount": 199.99,
			"procedure":     "99213",
		})
	}
	return records
}

func variedClaims(n int) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, map[string]interface{}{
			"provider_id":   fmt.Sprintf("PRV-%04d", i*7919%9973),
			"patient_id":    fmt.Sprintf("PAT-%04d", i*104729%9941),
			"billed_amount": float64(i*31%977) + 0.25*float64(i%4),
			"procedure":     fmt.Sprintf("%05d", i*613%99991),
		})
	}
	return records
}

// TestCompressionRatioRepetitionCompresses verifies identical records
// compress far better than varied ones, and an empty input scores 1.
func TestCompressionRatioRepetitionCompresses(t *testing.T) {
	repetitive, err := entropy.CompressionRatio(identicalClaims(100))
	require.NoError(t, err)
	varied, err := entropy.CompressionRatio(variedClaims(100))
	require.NoError(t, err)

	require.Less(t, repetitive, varied)
	require.Less(t, repetitive, 0.2)

	empty, err := entropy.CompressionRatio(nil)
	require.NoError(t, err)
	require.Equal(t, 1.0, empty)
}

// TestFraudScore walks the inverted interpolation between floor and
// baseline.
func TestFraudScore(t *testing.T) {
	const baseline, floor = 0.65, 0.40

	require.Equal(t, 0.0, entropy.FraudScore(0.65, baseline, floor))
	require.Equal(t, 0.0, entropy.FraudScore(0.90, baseline, floor))
	require.Equal(t, 1.0, entropy.FraudScore(0.40, baseline, floor))
	require.Equal(t, 1.0, entropy.FraudScore(0.10, baseline, floor))
	require.Equal(t, 1.0, entropy.FraudScore(0, baseline, floor))
	require.InDelta(t, 0.5, entropy.FraudScore(0.525, baseline, floor), 1e-9)
}

// TestWindowedCompression verifies windowing, the short-window skip, and the
// anomaly flag on highly repetitive data.
func TestWindowedCompression(t *testing.T) {
	// 25 records, window 10: two full windows plus a skipped 5-record tail
	results, err := entropy.WindowedCompression(identicalClaims(25), 10, 0.65, 0.40)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, 0, results[0].Start)
	require.Equal(t, 10, results[0].End)
	require.Equal(t, 10, results[1].Start)
	require.Equal(t, 20, results[1].End)
	for _, w := range results {
		require.True(t, w.Anomaly)
		require.Equal(t, 1.0, w.Score)
	}

	none, err := entropy.WindowedCompression(nil, 10, 0.65, 0.40)
	require.NoError(t, err)
	require.Nil(t, none)
}

// TestGroupedCompression verifies per-group scoring, the small-group skip,
// and the unknown bucket for records missing the key.
func TestGroupedCompression(t *testing.T) {
	records := identicalClaims(6)
	for i := range records {
		records[i]["provider_id"] = "PRV-BIG"
	}
	small := identicalClaims(3)
	for i := range small {
		small[i]["provider_id"] = "PRV-SMALL"
	}
	unknown := identicalClaims(5)
	for i := range unknown {
		delete(unknown[i], "provider_id")
	}
	records = append(records, small...)
	records = append(records, unknown...)

	results, err := entropy.GroupedCompression(records, "provider_id", 0.65, 0.40)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "PRV-BIG", results[0].Key)
	require.Equal(t, 6, results[0].Count)
	require.Equal(t, "unknown", results[1].Key)
	require.Equal(t, 5, results[1].Count)
}

// TestTemporalEntropy verifies binned entropy: a constant or near-empty
// series carries none, a balanced two-mode series carries one bit.
func TestTemporalEntropy(t *testing.T) {
	require.Zero(t, entropy.TemporalEntropy(nil, 10))
	require.Zero(t, entropy.TemporalEntropy([]float64{42}, 10))
	require.Zero(t, entropy.TemporalEntropy([]float64{5, 5, 5, 5}, 10))

	alternating := []float64{0, 100, 0, 100, 0, 100, 0, 100}
	require.InDelta(t, 1.0, entropy.TemporalEntropy(alternating, 2), 1e-9)
}

// TestRegularityScore verifies the mechanical-repetition signal: constant
// series max out, arithmetic progressions get the stepped-increment boost,
// and noise scores near zero.
func TestRegularityScore(t *testing.T) {
	require.Zero(t, entropy.RegularityScore([]float64{1, 2}))

	constant := []float64{100, 100, 100, 100, 100}
	require.InDelta(t, 1.0, entropy.RegularityScore(constant), 1e-9)

	progression := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	score := entropy.RegularityScore(progression)
	require.InDelta(t, 1-math.Sqrt(825)/55+0.2, score, 1e-9)
	require.Greater(t, score, 0.6)

	noise := []float64{1, 100, 2, 99, 3, 98}
	require.Less(t, entropy.RegularityScore(noise), 0.1)
}

// TestChangePoints verifies a regime shift from flat to oscillating values
// is detected, while uniform series and short series yield nothing.
func TestChangePoints(t *testing.T) {
	require.Nil(t, entropy.ChangePoints([]float64{1, 2, 3}, 5, 5))

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 5.0
	}
	require.Empty(t, entropy.ChangePoints(flat, 5, 5))

	series := make([]float64, 0, 40)
	for i := 0; i < 20; i++ {
		series = append(series, 5.0)
	}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			series = append(series, 0.0)
		} else {
			series = append(series, 10.0)
		}
	}

	points := entropy.ChangePoints(series, 5, 5)
	require.NotEmpty(t, points)
	for _, p := range points {
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, len(series))
	}
}

// TestDetectPeriodicity verifies a strict cycle is found at its true period
// and degenerate series return nothing.
func TestDetectPeriodicity(t *testing.T) {
	series := make([]float64, 0, 40)
	cycle := []float64{0, 10, 0, -10}
	for i := 0; i < 10; i++ {
		series = append(series, cycle...)
	}

	p := entropy.DetectPeriodicity(series, 6)
	require.NotNil(t, p)
	require.Equal(t, 4, p.Period)
	require.Greater(t, p.Correlation, 0.9)

	require.Nil(t, entropy.DetectPeriodicity([]float64{1, 2, 3}, 6))

	constant := make([]float64, 40)
	require.Nil(t, entropy.DetectPeriodicity(constant, 6))
}
