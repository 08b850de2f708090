package main

import (
	"math"
	"testing"
	"time"
)

// fixedNow pins "today" so ages are exact.
var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

// makeSettings constructs a fully-populated nutritionSettings pointer for
// baselineTDEE tests. Individual tests nil out fields to exercise the guards.
func makeSettings(sex string, dobYear int, heightCM float64, activityLevel string) *nutritionSettings {
	dob := DateOnly{time.Date(dobYear, 1, 1, 0, 0, 0, 0, time.UTC)}
	return &nutritionSettings{
		Sex:           &sex,
		DateOfBirth:   &dob,
		HeightCM:      &heightCM,
		ActivityLevel: &activityLevel,
		MinDays:       14,
	}
}

/* ─── Missing-field guard tests ──────────────────────────────────────── */

// TestBaselineTDEE_MissingFields verifies that ok=false is returned when any
// required profile field is nil.
func TestBaselineTDEE_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(s *nutritionSettings)
	}{
		{"nil Sex", func(s *nutritionSettings) { s.Sex = nil }},
		{"nil DateOfBirth", func(s *nutritionSettings) { s.DateOfBirth = nil }},
		{"nil HeightCM", func(s *nutritionSettings) { s.HeightCM = nil }},
		{"nil ActivityLevel", func(s *nutritionSettings) { s.ActivityLevel = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := makeSettings("male", 1990, 175, "sedentary")
			tc.mutFn(s)
			if _, _, ok := baselineTDEE(s, 81.6, fixedNow); ok {
				t.Errorf("expected ok=false when %s is nil, got ok=true", tc.name)
			}
		})
	}
}

/* ─── Input validation guard tests ───────────────────────────────────── */

func TestBaselineTDEE_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		s      *nutritionSettings
		weight float64
	}{
		{"unknown activity", makeSettings("male", 1990, 175, "unknown"), 80},
		{"future DOB", makeSettings("male", fixedNow.Year()+1, 175, "sedentary"), 80},
		{"age over 130", makeSettings("male", fixedNow.Year()-200, 175, "sedentary"), 80},
		{"zero weight", makeSettings("male", 1990, 175, "sedentary"), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := baselineTDEE(tc.s, tc.weight, fixedNow); ok {
				t.Error("expected ok=false, got ok=true")
			}
		})
	}
}

/* ─── BMR accuracy tests ─────────────────────────────────────────────── */

// TestBaselineTDEE_Male checks Mifflin-St Jeor for a 36 year old man,
// 175cm, 80kg: 800 + 1093.75 - 180 + 5 = 1718.75; sedentary TDEE 2062.5.
func TestBaselineTDEE_Male(t *testing.T) {
	bmr, tdee, ok := baselineTDEE(makeSettings("male", 1990, 175, "sedentary"), 80, fixedNow)
	if !ok {
		t.Fatal("expected ok=true, got ok=false")
	}
	if bmr != 1719 {
		t.Errorf("male BMR = %d, want 1719", bmr)
	}
	if math.Abs(float64(tdee)-2063) > 1 {
		t.Errorf("male TDEE = %d, want ~2063", tdee)
	}
}

// TestBaselineTDEE_Female uses the same inputs with the -161 constant:
// 1552.75 BMR; moderate TDEE 2406.76.
func TestBaselineTDEE_Female(t *testing.T) {
	bmr, tdee, ok := baselineTDEE(makeSettings("female", 1990, 175, "moderate"), 80, fixedNow)
	if !ok {
		t.Fatal("expected ok=true, got ok=false")
	}
	if bmr != 1553 {
		t.Errorf("female BMR = %d, want 1553", bmr)
	}
	if tdee != 2407 {
		t.Errorf("female TDEE = %d, want 2407", tdee)
	}
}

/* ─── mondayOf tests ─────────────────────────────────────────────────── */

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC), "2026-10-12"}, // Wednesday
		{time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), "2026-10-12"},   // Monday
		{time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC), "2026-10-12"},  // Sunday
		{time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), "2025-12-29"},     // across year boundary
	}
	for _, tc := range cases {
		got := mondayOf(tc.in)
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("mondayOf(%s) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
		if got.Weekday() != time.Monday || got.Hour() != 0 || got.Location() != time.UTC {
			t.Errorf("mondayOf(%s) = %v, want Monday midnight UTC", tc.in, got)
		}
	}
}
