package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// Bounds for user-editable coaching settings.
const (
	minMinDays       = 7
	maxMinDays       = 60
	minGoalKgPerWeek = -1.0
	maxGoalKgPerWeek = 0.5
)

const selectSettingsSQL = "SELECT * FROM nutrition_settings WHERE user_id = @userID"

// settingsResponse is the GET/PATCH /api/nutrition-settings payload: the stored
// row plus the profile-derived baseline when the profile is complete.
type settingsResponse struct {
	nutritionSettings
	BaselineBMR  *int `json:"baseline_bmr,omitempty"`
	BaselineTDEE *int `json:"baseline_tdee,omitempty"`
}

// getNutritionSettings returns the authenticated user's settings.
// GET /api/nutrition-settings. The baseline uses the most recent weigh-in.
func (h *Handler) getNutritionSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := queryOne[nutritionSettings](c, h.db, selectSettingsSQL, pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	c.JSON(http.StatusOK, h.withBaseline(c, s))
}

// withBaseline attaches the Mifflin-St Jeor baseline when a weigh-in exists.
func (h *Handler) withBaseline(c *gin.Context, s nutritionSettings) settingsResponse {
	resp := settingsResponse{nutritionSettings: s}
	var weightKG float64
	err := h.db.QueryRow(c,
		"SELECT weight_kg FROM weight_log WHERE user_id = $1 ORDER BY date DESC LIMIT 1",
		s.UserID).Scan(&weightKG)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[withBaseline] latest weight lookup failed for user %d: %v", s.UserID, err)
		}
		return resp
	}
	if bmr, tdee, ok := baselineTDEE(&s, weightKG, time.Now()); ok {
		resp.BaselineBMR = &bmr
		resp.BaselineTDEE = &tdee
	}
	return resp
}

// validateSettingsPatch rejects out-of-range values before they reach the
// database, where they would silently break later check-ins.
func validateSettingsPatch(body *patchNutritionSettingsRequest) error {
	if body.Sex != nil && *body.Sex != "male" && *body.Sex != "female" {
		return errors.New("sex must be one of: male, female")
	}
	if body.DateOfBirth != nil {
		if _, err := time.Parse(dateLayout, *body.DateOfBirth); err != nil {
			return errors.New("invalid date_of_birth, expected YYYY-MM-DD")
		}
	}
	if body.HeightCM != nil && (*body.HeightCM < 50 || *body.HeightCM > 272) {
		return errors.New("height_cm must be between 50 and 272")
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			return errors.New("activity_level must be one of: sedentary, light, moderate, active, very_active")
		}
	}
	if body.GoalKgPerWeek != nil && (*body.GoalKgPerWeek < minGoalKgPerWeek || *body.GoalKgPerWeek > maxGoalKgPerWeek) {
		return fmt.Errorf("goal_kg_per_week must be between %.1f and %.1f", minGoalKgPerWeek, maxGoalKgPerWeek)
	}
	if body.MinDays != nil && (*body.MinDays < minMinDays || *body.MinDays > maxMinDays) {
		return fmt.Errorf("min_days must be between %d and %d", minMinDays, maxMinDays)
	}
	return nil
}

// patchNutritionSettings updates only the provided settings fields.
// PATCH /api/nutrition-settings. Targets are not patchable here; they are
// written by the weekly check-in.
func (h *Handler) patchNutritionSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchNutritionSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateSettingsPatch(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Build SET clause dynamically: only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}

	if body.Sex != nil {
		set("sex", "sex", *body.Sex)
	}
	if body.DateOfBirth != nil {
		set("date_of_birth", "dateOfBirth", *body.DateOfBirth)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.GoalKgPerWeek != nil {
		set("goal_kg_per_week", "goalKgPerWeek", *body.GoalKgPerWeek)
	}
	if body.MinDays != nil {
		set("min_days", "minDays", *body.MinDays)
	}
	if body.SetupComplete != nil {
		set("setup_complete", "setupComplete", *body.SetupComplete)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE nutrition_settings SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	s, err := queryOne[nutritionSettings](c, h.db, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, h.withBaseline(c, s))
}
