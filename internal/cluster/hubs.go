package cluster

import (
	"sort"

	"claimtrace/internal/graph"
)

// HubNode is a node whose degree stands out against the graph mean —
// the signature of a fraud-ring hub.
type HubNode struct {
	ID         string
	Degree     int
	MeanDegree float64
	Deviation  float64 // degree / mean
}

// FlagHighDegreeNodes returns the nodes whose degree exceeds multiplier
// times the mean degree, sorted by degree descending with ID as the
// tiebreak so the listing is stable.
func FlagHighDegreeNodes(g *graph.Graph, multiplier float64) []HubNode {
	if g == nil || g.EdgeCount() == 0 || g.NodeCount() == 0 {
		return nil
	}

	degrees := g.Degrees()
	if len(degrees) == 0 {
		return nil
	}
	total := 0
	for _, d := range degrees {
		total += d
	}
	mean := float64(total) / float64(len(degrees))
	threshold := multiplier * mean

	var flagged []HubNode
	for _, id := range g.NodeIDs() {
		degree := degrees[id]
		if float64(degree) > threshold {
			deviation := 0.0
			if mean > 0 {
				deviation = float64(degree) / mean
			}
			flagged = append(flagged, HubNode{
				ID:         id,
				Degree:     degree,
				MeanDegree: mean,
				Deviation:  deviation,
			})
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		if flagged[i].Degree != flagged[j].Degree {
			return flagged[i].Degree > flagged[j].Degree
		}
		return flagged[i].ID < flagged[j].ID
	})
	return flagged
}
