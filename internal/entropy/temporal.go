package entropy

import "math"

// TemporalEntropy discretizes a value series into bins over its min-max
// range and returns the Shannon entropy of the bin occupancy. Fewer than two
// values, or a constant series, yields 0.
func TemporalEntropy(values []float64, bins int) float64 {
	if len(values) < 2 || bins < 1 {
		return 0
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		return 0
	}

	span := maxVal - minVal
	counts := make([]float64, bins)
	for _, v := range values {
		idx := int((v - minVal) / span * float64(bins-1))
		if idx > bins-1 {
			idx = bins - 1
		}
		counts[idx]++
	}
	return Shannon(counts)
}

// RegularityScore rates a series for suspicious regularity on [0, 1]:
// 0 is noise, 1 is mechanical repetition. The base score is the inverted
// coefficient of variation, boosted when fewer than half the values are
// distinct and again when consecutive differences are near constant
// (arithmetic progressions such as invoice amounts stepped by a fixed
// increment). Series shorter than three values score 0.
func RegularityScore(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	cv := math.Sqrt(variance) / math.Abs(mean)

	regularity := 1 - cv
	if regularity < 0 {
		regularity = 0
	}

	unique := make(map[float64]struct{}, len(values))
	for _, v := range values {
		unique[v] = struct{}{}
	}
	if float64(len(unique))/float64(len(values)) < 0.5 {
		regularity = math.Min(1.0, regularity+0.3)
	}

	diffs := make([]float64, 0, len(values)-1)
	diffMean := 0.0
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		diffs = append(diffs, d)
		diffMean += d
	}
	diffMean /= float64(len(diffs))
	diffVariance := 0.0
	for _, d := range diffs {
		dd := d - diffMean
		diffVariance += dd * dd
	}
	diffVariance /= float64(len(diffs))
	if diffVariance < 0.01 {
		regularity = math.Min(1.0, regularity+0.2)
	}

	return regularity
}

// ChangePoints finds indices where the entropy regime of the series shifts.
// A rolling window entropy is computed over the series; an interior window
// whose entropy departs from its neighbors' average by more than 30% marks
// a change point at the window's center. Series shorter than two windows
// yield nothing.
func ChangePoints(values []float64, window, bins int) []int {
	if window < 1 || len(values) < window*2 {
		return nil
	}

	entropies := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		entropies = append(entropies, TemporalEntropy(values[i:i+window], bins))
	}
	if len(entropies) < 3 {
		return nil
	}

	var points []int
	for i := 1; i < len(entropies)-1; i++ {
		avgNeighbors := (entropies[i-1] + entropies[i+1]) / 2
		if avgNeighbors <= 0 {
			continue
		}
		if math.Abs(entropies[i]-avgNeighbors)/avgNeighbors > 0.3 {
			points = append(points, i+window/2)
		}
	}
	return points
}

// Periodicity is a detected repeating cycle in a series.
type Periodicity struct {
	Period      int
	Correlation float64
}

// DetectPeriodicity searches lags from 2 up to maxPeriod for the strongest
// autocorrelation above 0.5. A series shorter than twice maxPeriod, or one
// with no qualifying lag, returns nil. Scheduled batch fabrication shows up
// as a strong weekly or monthly period.
func DetectPeriodicity(values []float64, maxPeriod int) *Periodicity {
	if maxPeriod < 2 || len(values) < maxPeriod*2 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	if variance == 0 {
		return nil
	}

	var best *Periodicity
	limit := maxPeriod
	if half := len(values) / 2; half < limit {
		limit = half
	}
	for period := 2; period < limit; period++ {
		n := len(values) - period
		if n < period {
			continue
		}
		correlation := 0.0
		for i := 0; i < n; i++ {
			correlation += (values[i] - mean) * (values[i+period] - mean)
		}
		correlation /= float64(n) * variance

		if correlation > 0.5 && (best == nil || correlation > best.Correlation) {
			best = &Periodicity{Period: period, Correlation: correlation}
		}
	}
	return best
}
