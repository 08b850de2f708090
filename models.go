package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// weightEntry maps to weight_log. One row per user per date.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	Notes     *string    `json:"notes" db:"notes"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// calorieLogItem maps to calorie_log_items. Nullable numeric fields use pointers
// so pgx can scan NULLs and JSON omits them naturally.
type calorieLogItem struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	ItemName  string     `json:"item_name" db:"item_name"`
	Type      string     `json:"type" db:"type"`
	Qty       *float64   `json:"qty" db:"qty"`
	Uom       *string    `json:"uom" db:"uom"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"protein_g" db:"protein_g"`
	CarbsG    *float64   `json:"carbs_g" db:"carbs_g"`
	FatG      *float64   `json:"fat_g" db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// dailyMacros is one day of the macro series fed to the TDEE engine. Source is
// "logged" when summed from calorie_log_items and "override" when a manual
// override replaced the day's totals.
type dailyMacros struct {
	Date     DateOnly `json:"date"      db:"date"`
	Calories float64  `json:"calories"  db:"calories"`
	ProteinG float64  `json:"protein_g" db:"protein_g"`
	CarbsG   float64  `json:"carbs_g"   db:"carbs_g"`
	FatG     float64  `json:"fat_g"     db:"fat_g"`
	Source   string   `json:"source"    db:"source"`
}

// nutritionSettings maps to nutrition_settings. One row per user with the
// body profile, coaching preferences, and the currently recommended targets.
type nutritionSettings struct {
	UserID int `json:"user_id" db:"user_id"`

	// Profile fields: all nullable; only the baseline TDEE needs them.
	Sex           *string   `json:"sex"            db:"sex"`
	DateOfBirth   *DateOnly `json:"date_of_birth"  db:"date_of_birth"`
	HeightCM      *float64  `json:"height_cm"      db:"height_cm"`
	ActivityLevel *string   `json:"activity_level" db:"activity_level"`

	GoalKgPerWeek float64 `json:"goal_kg_per_week" db:"goal_kg_per_week"`
	MinDays       int     `json:"min_days"         db:"min_days"`

	CalorieTarget  int `json:"calorie_target"   db:"calorie_target"`
	ProteinTargetG int `json:"protein_target_g" db:"protein_target_g"`
	CarbsTargetG   int `json:"carbs_target_g"   db:"carbs_target_g"`
	FatTargetG     int `json:"fat_target_g"     db:"fat_target_g"`

	SetupComplete bool `json:"setup_complete" db:"setup_complete"`
}

// coachingRecommendation maps to coaching_recommendations. At most one row per
// user per week (keyed by the Monday the week starts on).
type coachingRecommendation struct {
	ID                   int       `json:"id"                      db:"id"`
	UserID               int       `json:"user_id"                 db:"user_id"`
	WeekStart            DateOnly  `json:"week_start"              db:"week_start"`
	DynamicTDEE          int       `json:"dynamic_tdee"            db:"dynamic_tdee"`
	CalorieTarget        int       `json:"calorie_target"          db:"calorie_target"`
	ProteinTargetG       int       `json:"protein_target_g"        db:"protein_target_g"`
	CarbsTargetG         int       `json:"carbs_target_g"          db:"carbs_target_g"`
	FatTargetG           int       `json:"fat_target_g"            db:"fat_target_g"`
	WeeklyWeightChangeKg float64   `json:"weekly_weight_change_kg" db:"weekly_weight_change_kg"`
	Confidence           string    `json:"confidence"              db:"confidence"`
	DataQuality          string    `json:"data_quality"            db:"data_quality"`
	CreatedAt            time.Time `json:"created_at"              db:"created_at"`
}

// createCalorieLogItemRequest is the request body for POST /api/calorie-log/items.
type createCalorieLogItemRequest struct {
	Date     string   `json:"date"`
	ItemName string   `json:"item_name"`
	Type     string   `json:"type"`
	Qty      *float64 `json:"qty"`
	Uom      *string  `json:"uom"`
	Calories int      `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// macroOverrideRequest is the request body for PUT /api/macro-log/override.
type macroOverrideRequest struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// patchNutritionSettingsRequest is the request body for PATCH /api/nutrition-settings.
// All fields are pointers: only non-nil fields get written to the database.
type patchNutritionSettingsRequest struct {
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD string, stored as date
	HeightCM      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
	GoalKgPerWeek *float64 `json:"goal_kg_per_week"`
	MinDays       *int     `json:"min_days"`
	SetupComplete *bool    `json:"setup_complete"`
}
