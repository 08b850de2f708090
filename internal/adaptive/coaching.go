package adaptive

import "math"

// minDaysBetweenUpdates is the hard floor between two recommendations.
const minDaysBetweenUpdates = 7

// changeThresholds is the relative TDEE change each data quality needs before
// a new recommendation is surfaced. Poorer data needs a larger signal.
var changeThresholds = map[Level]float64{
	LevelHigh:   0.03,
	LevelMedium: 0.05,
	LevelLow:    0.08,
}

// ShouldUpdateRecommendations reports whether currentTDEE differs enough from
// previousTDEE to replace the user's recommendation. It never allows an update
// within seven days of the last one. A non-positive previousTDEE means there is
// no baseline, so any update past the weekly floor is allowed. Unknown quality
// levels are treated as low.
func ShouldUpdateRecommendations(currentTDEE, previousTDEE int, quality DataQuality, daysSinceLastUpdate int) bool {
	if daysSinceLastUpdate < minDaysBetweenUpdates {
		return false
	}
	if previousTDEE <= 0 {
		return true
	}

	changePercent := math.Abs(float64(currentTDEE-previousTDEE)) / float64(previousTDEE)

	threshold, ok := changeThresholds[quality.OverallQuality]
	if !ok {
		threshold = changeThresholds[LevelLow]
	}
	return changePercent > threshold
}

// Macro target constants.
const (
	minCalorieTarget   = 1200
	proteinGPerKg      = 2.0
	fatCalorieShare    = 0.25
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// MacroTargets is a daily intake recommendation.
type MacroTargets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// RecommendTargets turns a TDEE into daily targets for a goal pace in kg per
// week (negative to lose weight). Protein scales with trendWeightKg, fat takes
// a quarter of calories and carbs fill what remains.
func RecommendTargets(tdee int, goalKgPerWeek, trendWeightKg float64) MacroTargets {
	cal := float64(tdee) + goalKgPerWeek*kcalPerKg/7
	cal = math.Max(cal, minCalorieTarget)

	protein := math.Round(trendWeightKg * proteinGPerKg)
	fat := math.Round(cal * fatCalorieShare / kcalPerGramFat)
	carbs := math.Round((cal - protein*kcalPerGramProtein - fat*kcalPerGramFat) / kcalPerGramCarbs)

	return MacroTargets{
		Calories: int(math.Round(cal)),
		ProteinG: int(protein),
		CarbsG:   int(math.Max(carbs, 0)),
		FatG:     int(fat),
	}
}
