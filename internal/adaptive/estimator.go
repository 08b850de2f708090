package adaptive

import (
	"math"
	"sort"
)

// DefaultMinDays is the minimum length of each input series when the caller
// does not configure one.
const DefaultMinDays = 14

// window is one look-back period and its vote in the final blend. Shorter
// windows react faster and carry more weight.
type window struct {
	days   int
	weight float64
}

var analysisWindows = []window{
	{days: 14, weight: 0.5},
	{days: 21, weight: 0.3},
	{days: 28, weight: 0.2},
}

const (
	avgCaloriesDays = 14
	weeklyPoints    = 7
)

// Calculate estimates the user's daily energy expenditure from their weight
// and intake logs. Both series must hold at least minDays entries
// (DefaultMinDays when minDays <= 0); otherwise an *InsufficientDataError is
// returned and no result is produced.
//
// Each window with enough data contributes avg intake minus the calorie
// equivalent of the trend-weight change across it. Windows are blended by
// their weights, renormalized over the windows that were available.
func Calculate(weightLog []WeightLogEntry, macroLog []MacroLogEntry, minDays int) (Result, error) {
	if minDays <= 0 {
		minDays = DefaultMinDays
	}
	if len(weightLog) < minDays || len(macroLog) < minDays {
		return Result{}, &InsufficientDataError{WeightDays: len(weightLog), MacroDays: len(macroLog), MinDays: minDays}
	}

	filled := FillGaps(weightLog)
	trend := TrendWeights(filled)
	macros := macrosNewestFirst(macroLog)

	var windows []AnalysisWindow
	var weightedSum, totalWeight float64
	for _, w := range analysisWindows {
		if len(trend) < w.days || len(macros) < w.days {
			continue
		}
		estimate := windowEstimate(trend[:w.days], macros[:w.days])
		windows = append(windows, AnalysisWindow{Days: w.days, TDEEEstimate: estimate, Weight: w.weight})
		weightedSum += estimate * w.weight
		totalWeight += w.weight
	}
	if totalWeight == 0 {
		// Only reachable when minDays is configured below the shortest window.
		return Result{}, &InsufficientDataError{WeightDays: len(weightLog), MacroDays: len(macroLog), MinDays: analysisWindows[0].days}
	}

	return Result{
		DynamicTDEE:          int(math.Round(weightedSum / totalWeight)),
		WeeklyWeightChangeKg: weeklyChange(trend),
		AvgDailyCalories:     int(math.Round(RobustMean(calories(macros[:min(avgCaloriesDays, len(macros))])))),
		Confidence:           confidenceFor(windows),
		DataQuality:          qualityFor(filled, len(macroLog)),
		AnalysisWindows:      windows,
	}, nil
}

// windowEstimate expects both slices newest first and of equal length.
func windowEstimate(trend []WeightLogEntry, macros []MacroLogEntry) float64 {
	days := float64(len(trend))
	// Positive means weight was gained across the window.
	weightChangeKg := trend[0].Trend() - trend[len(trend)-1].Trend()
	weeklyChangeKg := weightChangeKg / days * 7

	avgCalories := RobustMean(calories(macros))
	return avgCalories - weeklyChangeKg*kcalPerKg/7
}

// weeklyChange is the trend delta across the most recent seven points. The
// /7*7 scaling cancels out, so this is the raw seven-point delta.
func weeklyChange(trend []WeightLogEntry) float64 {
	n := min(weeklyPoints, len(trend))
	if n < 2 {
		return 0
	}
	return (trend[0].Trend() - trend[n-1].Trend()) / 7 * 7
}

// confidenceFor rates agreement between window estimates by their coefficient
// of variation.
func confidenceFor(windows []AnalysisWindow) Level {
	if len(windows) < 2 {
		return LevelLow
	}
	estimates := make([]float64, len(windows))
	for i, w := range windows {
		estimates[i] = w.TDEEEstimate
	}
	mean, stdDev := meanStdDev(estimates)
	if mean == 0 {
		return LevelLow
	}
	cv := stdDev / math.Abs(mean)
	switch {
	case cv < 0.05:
		return LevelHigh
	case cv < 0.10:
		return LevelMedium
	default:
		return LevelLow
	}
}

// qualityFor expects filled sorted oldest first.
func qualityFor(filled []WeightLogEntry, macroDays int) DataQuality {
	total := len(filled)
	if total == 0 {
		return DataQuality{OverallQuality: LevelLow}
	}

	interpolated := 0
	for _, e := range filled {
		if e.IsInterpolated {
			interpolated++
		}
	}
	span := daysBetween(filled[0].Date, filled[total-1].Date) + 1

	q := DataQuality{
		WeightCompleteness: float64(total-interpolated) / float64(total) * 100,
		MacroCompleteness:  float64(macroDays) / float64(total) * 100,
		InterpolatedDays:   interpolated,
		MissingDays:        max(0, span-total),
	}
	switch {
	case q.WeightCompleteness > 80 && q.MacroCompleteness > 80:
		q.OverallQuality = LevelHigh
	case q.WeightCompleteness > 60 && q.MacroCompleteness > 60:
		q.OverallQuality = LevelMedium
	default:
		q.OverallQuality = LevelLow
	}
	return q
}

func macrosNewestFirst(entries []MacroLogEntry) []MacroLogEntry {
	out := make([]MacroLogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func calories(entries []MacroLogEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Calories
	}
	return out
}
