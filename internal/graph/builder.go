package graph

import "fmt"

// Builder constructs a co-occurrence graph from flat records.
//
// Records are grouped by the value of LinkKey; within each group, every
// unordered pair of distinct EntityKey values increments their shared edge's
// weight by one. Nodes aggregate a record count and a sum over AmountKey.
//
// Cost is quadratic in the per-link fan-out. Realistic fan-outs (patients
// per provider network, principals per filing) are small; callers with
// unbounded link sizes must cap them upstream.
type Builder struct {
	EntityKey string
	LinkKey   string
	AmountKey string
	EdgeType  string
}

// NewBuilder returns a Builder with the given grouping keys and the default
// "shared_link" edge type.
func NewBuilder(entityKey, linkKey, amountKey string) Builder {
	return Builder{
		EntityKey: entityKey,
		LinkKey:   linkKey,
		AmountKey: amountKey,
		EdgeType:  "shared_link",
	}
}

// Build constructs the graph. Records missing the entity key are skipped;
// records missing the link key still contribute a node but no edges. Empty
// input yields an empty graph.
func (b Builder) Build(records []map[string]interface{}) *Graph {
	g := NewGraph()

	// link value -> entity IDs in first-seen order, deduplicated
	linkMembers := make(map[string][]string)
	linkSeen := make(map[string]map[string]bool)
	linkOrder := make([]string, 0)

	for _, rec := range records {
		entity := stringField(rec, b.EntityKey)
		if entity == "" {
			continue
		}

		node := g.EnsureNode(entity)
		node.Count++
		node.Sum += numericField(rec, b.AmountKey)

		link := stringField(rec, b.LinkKey)
		if link == "" {
			continue
		}
		seen, ok := linkSeen[link]
		if !ok {
			seen = make(map[string]bool)
			linkSeen[link] = seen
			linkOrder = append(linkOrder, link)
		}
		if !seen[entity] {
			seen[entity] = true
			linkMembers[link] = append(linkMembers[link], entity)
		}
	}

	for _, link := range linkOrder {
		members := linkMembers[link]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				g.AddEdge(members[i], members[j], b.EdgeType, 1)
			}
		}
	}

	return g
}

func stringField(rec map[string]interface{}, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func numericField(rec map[string]interface{}, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
