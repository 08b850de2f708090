package main

import (
	"math"
	"time"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels, also used for
// input validation in patchNutritionSettings.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// baselineTDEE estimates maintenance calories from the body profile with
// Mifflin-St Jeor BMR × activity multiplier. It is the starting point the
// coaching gate compares against before any adaptive recommendation exists.
// Returns ok=false when a profile field is missing, the activity level is
// unknown, the weight is not positive, or the age is implausible.
func baselineTDEE(s *nutritionSettings, weightKG float64, now time.Time) (bmr, tdee int, ok bool) {
	if s.Sex == nil || s.DateOfBirth == nil || s.HeightCM == nil || s.ActivityLevel == nil {
		return 0, 0, false
	}
	if weightKG <= 0 {
		return 0, 0, false
	}

	age := now.Year() - s.DateOfBirth.Year()
	if now.Before(s.DateOfBirth.AddDate(age, 0, 0)) {
		age--
	}
	// Guard against implausible ages (e.g. DOB in the future, or over 130 years ago)
	if age < 0 || age > 130 {
		return 0, 0, false
	}

	bmrF := 10*weightKG + 6.25**s.HeightCM - 5*float64(age)
	if *s.Sex == "male" {
		bmrF += 5
	} else {
		bmrF -= 161
	}

	mult, found := activityMultipliers[*s.ActivityLevel]
	if !found {
		return 0, 0, false
	}
	return int(math.Round(bmrF)), int(math.Round(bmrF * mult)), true
}

// mondayOf returns the Monday of the week containing t at midnight UTC.
// Uses AddDate to safely handle month/year boundaries: direct day subtraction
// can produce day=0 or negative, which time.Date normalizes but is confusing.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	return t.AddDate(0, 0, -(weekday - 1)).Truncate(24 * time.Hour)
}
