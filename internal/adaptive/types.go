// Package adaptive estimates a user's real energy expenditure from logged
// weight and calorie intake.
//
// The pipeline runs in four stages: FillGaps bridges short logging gaps,
// TrendWeights smooths daily scale noise, RobustMean averages intake while
// ignoring outlier days, and Calculate blends several look-back windows into a
// single TDEE with a confidence rating. ShouldUpdateRecommendations decides
// whether a new estimate is worth surfacing to the user.
//
// Every function is pure: inputs are copied before sorting and nothing is
// cached between calls, so the package is safe for concurrent use.
package adaptive

import (
	"fmt"
	"time"
)

// kcalPerKg is the energy density used to convert body-mass change to calories.
const kcalPerKg = 7700.0

// WeightLogEntry is one weight measurement, either logged by the user or
// synthesized by FillGaps.
type WeightLogEntry struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
	// TrendWeightKg is nil until TrendWeights has run.
	TrendWeightKg  *float64 `json:"trend_weight_kg,omitempty"`
	IsInterpolated bool     `json:"is_interpolated"`
	Notes          string   `json:"notes,omitempty"`
}

// Trend returns the smoothed weight. Entries TrendWeights left unsmoothed
// (series shorter than three) fall back to the raw weight.
func (e WeightLogEntry) Trend() float64 {
	if e.TrendWeightKg == nil {
		return e.WeightKg
	}
	return *e.TrendWeightKg
}

// MacroLogEntry is one day of recorded intake.
type MacroLogEntry struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein_g"`
	Carbs    float64   `json:"carbs_g"`
	Fat      float64   `json:"fat_g"`
}

// Level is a coarse high/medium/low rating.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// DataQuality describes how complete the inputs to a calculation were.
type DataQuality struct {
	WeightCompleteness float64 `json:"weight_completeness"`
	MacroCompleteness  float64 `json:"macro_completeness"`
	OverallQuality     Level   `json:"overall_quality"`
	MissingDays        int     `json:"missing_days"`
	InterpolatedDays   int     `json:"interpolated_days"`
}

// AnalysisWindow is the estimate produced by one look-back window and the
// weight it carried in the blend.
type AnalysisWindow struct {
	Days         int     `json:"days"`
	TDEEEstimate float64 `json:"tdee_estimate"`
	Weight       float64 `json:"weight"`
}

// Result is the output of Calculate.
type Result struct {
	DynamicTDEE          int              `json:"dynamic_tdee"`
	WeeklyWeightChangeKg float64          `json:"weekly_weight_change_kg"`
	AvgDailyCalories     int              `json:"avg_daily_calories"`
	Confidence           Level            `json:"confidence"`
	DataQuality          DataQuality      `json:"data_quality"`
	AnalysisWindows      []AnalysisWindow `json:"analysis_windows"`
}

// InsufficientDataError is returned by Calculate when either series is shorter
// than the configured minimum. No partial result accompanies it.
type InsufficientDataError struct {
	WeightDays int
	MacroDays  int
	MinDays    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d days of weight and calorie logs, have %d weight and %d calorie",
		e.MinDays, e.WeightDays, e.MacroDays)
}
