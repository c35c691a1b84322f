package entropy

import (
	"bytes"
	"compress/gzip"
	"fmt"

	"claimtrace/internal/hashing"
)

// CompressionRatio serializes records to canonical JSON, gzips the bytes at
// maximum compression, and returns compressed/original size. Empty input
// returns 1.0. Repetitive record populations compress well and score low;
// synthetic noise compresses poorly and scores near 1.
func CompressionRatio(records []map[string]interface{}) (float64, error) {
	if len(records) == 0 {
		return 1.0, nil
	}

	original, err := hashing.CanonicalJSON(records)
	if err != nil {
		return 0, fmt.Errorf("serialize records: %w", err)
	}
	if len(original) == 0 {
		return 1.0, nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return 0, fmt.Errorf("init gzip writer: %w", err)
	}
	if _, err := zw.Write(original); err != nil {
		return 0, fmt.Errorf("compress records: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("flush gzip writer: %w", err)
	}

	return float64(buf.Len()) / float64(len(original)), nil
}

// FraudScore maps a compression ratio onto [0, 1], where 1 is the strongest
// fraud signal. Ratios at or above baseline score 0; ratios at or below
// floor score 1; between the two the score interpolates linearly, inverted
// so that a lower ratio yields a higher score.
func FraudScore(ratio, baseline, floor float64) float64 {
	if ratio <= 0 {
		return 1.0
	}
	if ratio >= baseline {
		return 0.0
	}
	if ratio <= floor {
		return 1.0
	}

	span := baseline - floor
	score := 1.0 - (ratio-floor)/span
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// WindowResult is the compression analysis of one slice of records.
type WindowResult struct {
	Start   int
	End     int
	Count   int
	Ratio   float64
	Score   float64
	Anomaly bool
}

// WindowedCompression slices records into consecutive windows of windowSize
// and scores each against the baseline and floor. Windows smaller than ten
// records are skipped: their ratios are dominated by gzip header overhead.
func WindowedCompression(records []map[string]interface{}, windowSize int, baseline, floor float64) ([]WindowResult, error) {
	if len(records) == 0 || windowSize <= 0 {
		return nil, nil
	}

	var results []WindowResult
	for i := 0; i < len(records); i += windowSize {
		end := i + windowSize
		if end > len(records) {
			end = len(records)
		}
		window := records[i:end]
		if len(window) < 10 {
			continue
		}

		ratio, err := CompressionRatio(window)
		if err != nil {
			return nil, fmt.Errorf("window [%d:%d]: %w", i, end, err)
		}
		results = append(results, WindowResult{
			Start:   i,
			End:     end,
			Count:   len(window),
			Ratio:   ratio,
			Score:   FraudScore(ratio, baseline, floor),
			Anomaly: ratio < floor,
		})
	}
	return results, nil
}

// GroupResult is the compression analysis of one record group.
type GroupResult struct {
	Key     string
	Count   int
	Ratio   float64
	Score   float64
	Anomaly bool
}

// GroupedCompression partitions records by the value of groupKey and scores
// each group independently, in first-seen group order. Groups with fewer
// than five records are skipped. Records missing the key fall into the
// "unknown" group.
func GroupedCompression(records []map[string]interface{}, groupKey string, baseline, floor float64) ([]GroupResult, error) {
	if len(records) == 0 || groupKey == "" {
		return nil, nil
	}

	groups := make(map[string][]map[string]interface{})
	var order []string
	for _, rec := range records {
		key := "unknown"
		if v, ok := rec[groupKey]; ok && v != nil {
			key = fmt.Sprintf("%v", v)
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	var results []GroupResult
	for _, key := range order {
		group := groups[key]
		if len(group) < 5 {
			continue
		}
		ratio, err := CompressionRatio(group)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", key, err)
		}
		results = append(results, GroupResult{
			Key:     key,
			Count:   len(group),
			Ratio:   ratio,
			Score:   FraudScore(ratio, baseline, floor),
			Anomaly: ratio < floor,
		})
	}
	return results, nil
}
