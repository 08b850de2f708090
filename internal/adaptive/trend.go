package adaptive

import (
	"math"
	"sort"
)

const (
	trendMinEntries = 3
	trendWindow     = 14

	baseAlpha  = 0.1
	maxAlphaUp = 0.3
)

// TrendWeights annotates each entry with an exponentially smoothed trend
// weight and returns the series NEWEST FIRST.
//
// The input may be in any order; it is smoothed oldest to newest. The
// smoothing coefficient is 0.1 plus half the population standard deviation of
// the last 14 raw weights, capped at 0.4. Series shorter than three entries
// are returned as copies without trend values.
func TrendWeights(entries []WeightLogEntry) []WeightLogEntry {
	if len(entries) < trendMinEntries {
		out := make([]WeightLogEntry, len(entries))
		copy(out, entries)
		return out
	}

	series := sortedAscending(entries)
	seed := series[0].WeightKg
	series[0].TrendWeightKg = &seed

	for i := 1; i < len(series); i++ {
		start := max(0, i-trendWindow+1)
		_, stdDev := meanStdDev(weightsOf(series[start : i+1]))
		alpha := baseAlpha + math.Min(stdDev/2, maxAlphaUp)

		trend := roundTo(alpha*series[i].WeightKg+(1-alpha)**series[i-1].TrendWeightKg, 2)
		series[i].TrendWeightKg = &trend
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.After(series[j].Date) })
	return series
}

func weightsOf(entries []WeightLogEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.WeightKg
	}
	return out
}

// meanStdDev returns the arithmetic mean and population standard deviation.
func meanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
