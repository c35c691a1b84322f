// Package analysis runs the fraud analytics pipeline: consumed claim
// batches are recorded to the ledger, then the accumulated claim population
// is re-scored with graph, compression, and temporal analytics. Every
// finding leaves the pipeline as a receipt, so analysis output is as
// auditable as the claims it describes.
package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"

	"claimtrace/config"
	"claimtrace/internal/cluster"
	"claimtrace/internal/entropy"
	"claimtrace/internal/graph"
	"claimtrace/internal/ledger"
	"claimtrace/internal/receipt"
	"claimtrace/internal/risk"
)

// Pipeline wires the analytics stages over a shared ledger.
type Pipeline struct {
	cfg    config.AnalyticsConfig
	ledger *ledger.Ledger
	logger *log.Logger
}

// NewPipeline creates a Pipeline with the given thresholds.
func NewPipeline(cfg config.AnalyticsConfig, led *ledger.Ledger, logger *log.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, ledger: led, logger: logger}
}

// Run records a consumed claim batch and refreshes the population-level
// analytics. The returned BatchResult carries the batch Merkle root for
// external anchoring. Recording failures abort the run; analytics failures
// are returned after the batch is already durable.
func (p *Pipeline) Run(ctx context.Context, claims []map[string]interface{}) (*ledger.BatchResult, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	batchRes, err := p.ledger.EmitBatch(ctx, "claim_record", claims)
	if err != nil {
		return nil, fmt.Errorf("failed to record claim batch: %w", err)
	}
	if batchRes.Failed > 0 {
		p.logger.Printf("Pipeline: %d of %d claims failed to record", batchRes.Failed, len(claims))
	}

	records, err := p.loadClaims(ctx)
	if err != nil {
		return &batchRes, fmt.Errorf("failed to load claim population: %w", err)
	}

	if _, err := p.AnalyzeNetwork(ctx, records); err != nil {
		return &batchRes, fmt.Errorf("network analysis failed: %w", err)
	}
	if _, err := p.AnalyzeCompression(ctx, records); err != nil {
		return &batchRes, fmt.Errorf("compression analysis failed: %w", err)
	}
	if _, err := p.AnalyzeTemporal(ctx, records); err != nil {
		return &batchRes, fmt.Errorf("temporal analysis failed: %w", err)
	}

	return &batchRes, nil
}

// loadClaims returns the payloads of every claim_record receipt in ledger
// order.
func (p *Pipeline) loadClaims(ctx context.Context) ([]map[string]interface{}, error) {
	receipts, err := p.ledger.LoadByType(ctx, "claim_record")
	if err != nil {
		return nil, err
	}
	records := make([]map[string]interface{}, 0, len(receipts))
	for _, r := range receipts {
		records = append(records, r.Payload)
	}
	return records, nil
}

// AnalyzeNetwork builds the entity co-occurrence graph, detects clusters and
// hubs, scores each cluster, and emits a network_analysis receipt.
func (p *Pipeline) AnalyzeNetwork(ctx context.Context, records []map[string]interface{}) (receipt.Receipt, error) {
	g := graph.NewBuilder(p.cfg.EntityKey, p.cfg.LinkKey, p.cfg.AmountKey).Build(records)
	clusters := cluster.FindComponents(g, p.cfg.MinEdgeWeight, p.cfg.MinClusterSize)
	hubs := cluster.FlagHighDegreeNodes(g, p.cfg.DegreeMultiplier)
	degreeEntropy := entropy.DegreeEntropy(g)

	flaggedHubs := make([]string, 0, len(hubs))
	for i, h := range hubs {
		if i == 10 {
			break
		}
		flaggedHubs = append(flaggedHubs, h.ID)
	}

	largest := 0
	clusterSummaries := make([]map[string]interface{}, 0, len(clusters))
	for _, c := range clusters {
		if c.Size > largest {
			largest = c.Size
		}
		totalAmount := 0.0
		for _, member := range c.Members {
			if node := g.Node(member); node != nil {
				totalAmount += node.Sum
			}
		}
		score := risk.ClusterScore(c, totalAmount, p.cfg.AmountThreshold)
		clusterSummaries = append(clusterSummaries, map[string]interface{}{
			"cluster_id":   c.ID,
			"size":         c.Size,
			"density":      c.Density,
			"total_amount": totalAmount,
			"risk_score":   score,
			"risk_level":   string(risk.Classify(score)),
		})
	}

	payload := map[string]interface{}{
		"n_entities":           g.NodeCount(),
		"n_edges":              g.EdgeCount(),
		"n_clusters":           len(clusters),
		"network_entropy":      degreeEntropy,
		"entropy_baseline":     p.cfg.EntropyBaseline,
		"entropy_anomaly":      entropy.AnomalousDeviation(degreeEntropy, p.cfg.EntropyBaseline, p.cfg.EntropySigma),
		"flagged_hubs":         flaggedHubs,
		"largest_cluster_size": largest,
		"clusters":             clusterSummaries,
	}

	return p.ledger.Emit(ctx, "network_analysis", payload)
}

// AnalyzeCompression scores the claim population's compressibility overall
// and per entity, then emits an entropy_analysis receipt. Anomalies are
// groups compressing below the configured floor.
func (p *Pipeline) AnalyzeCompression(ctx context.Context, records []map[string]interface{}) (receipt.Receipt, error) {
	ratio, err := entropy.CompressionRatio(records)
	if err != nil {
		return receipt.Receipt{}, err
	}

	groups, err := entropy.GroupedCompression(records, p.cfg.EntityKey, p.cfg.CompressionBaseline, p.cfg.CompressionFloor)
	if err != nil {
		return receipt.Receipt{}, err
	}

	anomalies := make([]map[string]interface{}, 0)
	for _, gr := range groups {
		if !gr.Anomaly {
			continue
		}
		if len(anomalies) == 10 {
			break
		}
		anomalies = append(anomalies, map[string]interface{}{
			"group_key":         gr.Key,
			"record_count":      gr.Count,
			"compression_ratio": gr.Ratio,
			"fraud_score":       gr.Score,
		})
	}

	payload := map[string]interface{}{
		"analysis_type":   "compression",
		"record_count":    len(records),
		"entropy_value":   ratio,
		"baseline_value":  p.cfg.CompressionBaseline,
		"fraud_score":     entropy.FraudScore(ratio, p.cfg.CompressionBaseline, p.cfg.CompressionFloor),
		"anomaly_flag":    len(anomalies) > 0 || ratio < p.cfg.CompressionFloor,
		"groups_analyzed": len(groups),
		"anomaly_count":   len(anomalies),
		"anomalies":       anomalies,
	}

	return p.ledger.Emit(ctx, "entropy_analysis", payload)
}

// AnalyzeTemporal scores the amount series for suspicious regularity and
// entropy regime changes, then emits an entropy_analysis receipt.
func (p *Pipeline) AnalyzeTemporal(ctx context.Context, records []map[string]interface{}) (receipt.Receipt, error) {
	values := amountSeries(records, p.cfg.AmountKey)
	if len(values) == 0 {
		payload := map[string]interface{}{
			"analysis_type": "temporal",
			"error":         "no_values",
		}
		return p.ledger.Emit(ctx, "entropy_analysis", payload)
	}

	seriesEntropy := entropy.TemporalEntropy(values, p.cfg.TemporalBins)
	regularity := entropy.RegularityScore(values)
	changePoints := entropy.ChangePoints(values, p.cfg.ChangeWindow, p.cfg.TemporalBins)

	interpretation, anomaly := interpretTemporal(seriesEntropy, regularity)

	reported := changePoints
	if len(reported) > 10 {
		reported = reported[:10]
	}

	minVal, maxVal, mean := seriesStats(values)
	payload := map[string]interface{}{
		"analysis_type":      "temporal",
		"entropy_value":      seriesEntropy,
		"baseline_value":     p.cfg.EntropyBaseline,
		"regularity_score":   regularity,
		"anomaly_flag":       anomaly,
		"change_points":      reported,
		"change_point_count": len(changePoints),
		"interpretation":     interpretation,
		"stats": map[string]interface{}{
			"n_values": len(values),
			"min":      minVal,
			"max":      maxVal,
			"mean":     mean,
		},
	}

	return p.ledger.Emit(ctx, "entropy_analysis", payload)
}

// interpretTemporal labels the regularity/entropy combination. Mechanical
// regularity and entropy collapse both flag; pure noise does not.
func interpretTemporal(seriesEntropy, regularity float64) (string, bool) {
	switch {
	case regularity > 0.8:
		return "highly_regular_suspicious", true
	case regularity > 0.6:
		return "moderately_regular", false
	case seriesEntropy < 1.0:
		return "low_entropy_concentrated", true
	case seriesEntropy > 3.0:
		return "high_entropy_random", false
	default:
		return "normal_pattern", false
	}
}

// amountSeries extracts the amount values in record order, skipping records
// without a numeric amount.
func amountSeries(records []map[string]interface{}, amountKey string) []float64 {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		switch v := rec[amountKey].(type) {
		case float64:
			values = append(values, v)
		case float32:
			values = append(values, float64(v))
		case int:
			values = append(values, float64(v))
		case int64:
			values = append(values, float64(v))
		}
	}
	return values
}

func seriesStats(values []float64) (minVal, maxVal, mean float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range values {
		total += v
	}
	return sorted[0], sorted[len(sorted)-1], total / float64(len(values))
}
