// Package risk maps analytic scores onto discrete risk levels and scores
// clusters of linked entities.
package risk

import "claimtrace/internal/cluster"

// Level is a discrete risk classification.
type Level string

const (
	Low      Level = "low"
	Medium   Level = "medium"
	High     Level = "high"
	Critical Level = "critical"
)

// Classify partitions a [0, 1] score into fixed bands. Scores outside the
// range clamp to the nearest band.
func Classify(score float64) Level {
	switch {
	case score < 0.2:
		return Low
	case score < 0.5:
		return Medium
	case score < 0.8:
		return High
	default:
		return Critical
	}
}

// ClusterScore rates a detected cluster on [0, 1] from three additive
// factors: member count, total amount flowing through the cluster relative
// to amountThreshold, and structural density. A large, high-value, tightly
// knit cluster is the shell-network signature and lands in the critical
// band.
func ClusterScore(c cluster.Cluster, totalAmount, amountThreshold float64) float64 {
	score := 0.0

	switch {
	case c.Size >= 40:
		score += 0.4
	case c.Size >= 20:
		score += 0.3
	case c.Size >= 10:
		score += 0.2
	case c.Size >= 3:
		score += 0.1
	}

	if amountThreshold > 0 {
		switch {
		case totalAmount >= amountThreshold*10:
			score += 0.4
		case totalAmount >= amountThreshold:
			score += 0.3
		case totalAmount >= amountThreshold/2:
			score += 0.2
		case totalAmount >= amountThreshold/10:
			score += 0.1
		}
	}

	// A near-complete component means every member is linked to nearly
	// every other, the concentration pattern of a single controlling
	// principal.
	if c.Density >= 0.8 {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}
