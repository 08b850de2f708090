package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/preppy-api/internal/adaptive"
)

// checkinLookbackDays bounds how much history a check-in loads. The longest
// analysis window is 28 days; the rest leaves room for gaps.
const checkinLookbackDays = 90

// checkinInput is everything the weekly check-in needs, already loaded.
type checkinInput struct {
	Weights  []weightEntry
	Macros   []dailyMacros
	Settings nutritionSettings
	Previous *coachingRecommendation
	Now      time.Time
}

// checkinOutcome is the response of GET /checkin/estimate and POST /checkin.
// Recommendation is the newly proposed one when ShouldUpdate is true and the
// previous one (possibly nil) otherwise.
type checkinOutcome struct {
	Result              adaptive.Result           `json:"result"`
	TrendWeights        []adaptive.WeightLogEntry `json:"trend_weights"`
	ShouldUpdate        bool                      `json:"should_update"`
	PreviousTDEE        int                       `json:"previous_tdee"`
	DaysSinceLastUpdate *int                      `json:"days_since_last_update"`
	Recommendation      *coachingRecommendation   `json:"recommendation"`
}

// evaluateCheckin runs the TDEE engine and the coaching gate. It has no side
// effects; persisting the outcome is the caller's job.
//
// Without a stored recommendation the gate is skipped: the first check-in
// always proposes targets, and the profile baseline is reported as the
// previous TDEE for context.
func evaluateCheckin(in checkinInput) (checkinOutcome, error) {
	weights := toWeightLog(in.Weights)
	result, err := adaptive.Calculate(weights, toMacroLog(in.Macros), in.Settings.MinDays)
	if err != nil {
		return checkinOutcome{}, err
	}

	trend := adaptive.TrendWeights(adaptive.FillGaps(weights))
	out := checkinOutcome{Result: result, TrendWeights: trend}

	if in.Previous == nil {
		out.ShouldUpdate = true
		if _, tdee, ok := baselineTDEE(&in.Settings, trend[0].WeightKg, in.Now); ok {
			out.PreviousTDEE = tdee
		}
	} else {
		days := calendarDaysBetween(in.Previous.CreatedAt, in.Now)
		out.DaysSinceLastUpdate = &days
		out.PreviousTDEE = in.Previous.DynamicTDEE
		out.ShouldUpdate = adaptive.ShouldUpdateRecommendations(result.DynamicTDEE, out.PreviousTDEE, result.DataQuality, days)
	}

	if !out.ShouldUpdate {
		out.Recommendation = in.Previous
		return out, nil
	}

	targets := adaptive.RecommendTargets(result.DynamicTDEE, in.Settings.GoalKgPerWeek, trend[0].Trend())
	out.Recommendation = &coachingRecommendation{
		UserID:               in.Settings.UserID,
		WeekStart:            DateOnly{mondayOf(in.Now)},
		DynamicTDEE:          result.DynamicTDEE,
		CalorieTarget:        targets.Calories,
		ProteinTargetG:       targets.ProteinG,
		CarbsTargetG:         targets.CarbsG,
		FatTargetG:           targets.FatG,
		WeeklyWeightChangeKg: result.WeeklyWeightChangeKg,
		Confidence:           string(result.Confidence),
		DataQuality:          string(result.DataQuality.OverallQuality),
		CreatedAt:            in.Now,
	}
	return out, nil
}

// calendarDaysBetween counts UTC calendar days from a to b, so a check-in on
// the same weekday a week later counts as 7 whatever the time of day.
func calendarDaysBetween(a, b time.Time) int {
	da := a.UTC().Truncate(24 * time.Hour)
	db := b.UTC().Truncate(24 * time.Hour)
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func toWeightLog(entries []weightEntry) []adaptive.WeightLogEntry {
	out := make([]adaptive.WeightLogEntry, len(entries))
	for i, e := range entries {
		out[i] = adaptive.WeightLogEntry{Date: e.Date.Time, WeightKg: e.WeightKG}
		if e.Notes != nil {
			out[i].Notes = *e.Notes
		}
	}
	return out
}

func toMacroLog(days []dailyMacros) []adaptive.MacroLogEntry {
	out := make([]adaptive.MacroLogEntry, len(days))
	for i, d := range days {
		out[i] = adaptive.MacroLogEntry{
			Date:     d.Date.Time,
			Calories: d.Calories,
			Protein:  d.ProteinG,
			Carbs:    d.CarbsG,
			Fat:      d.FatG,
		}
	}
	return out
}

/* ─── Loading & persistence ──────────────────────────────────────────── */

// loadCheckinInput fetches settings, the last checkinLookbackDays of weight and
// macro logs, and the latest stored recommendation for userID.
func loadCheckinInput(ctx context.Context, pool *pgxpool.Pool, userID int, now time.Time) (checkinInput, error) {
	in := checkinInput{Now: now}
	start := now.AddDate(0, 0, -checkinLookbackDays).Format(dateLayout)
	end := now.Format(dateLayout)

	var err error
	in.Settings, err = queryOne[nutritionSettings](ctx, pool, selectSettingsSQL, pgx.NamedArgs{"userID": userID})
	if err != nil {
		return in, fmt.Errorf("load settings: %w", err)
	}

	in.Weights, err = queryMany[weightEntry](ctx, pool,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		return in, fmt.Errorf("load weight log: %w", err)
	}

	in.Macros, err = loadDailyMacros(ctx, pool, userID, start, end)
	if err != nil {
		return in, fmt.Errorf("load macro log: %w", err)
	}

	prev, err := queryOne[coachingRecommendation](ctx, pool,
		`SELECT * FROM coaching_recommendations
		 WHERE user_id = @userID ORDER BY created_at DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
	switch {
	case err == nil:
		in.Previous = &prev
	case !errors.Is(err, pgx.ErrNoRows):
		return in, fmt.Errorf("load previous recommendation: %w", err)
	}
	return in, nil
}

// saveRecommendation upserts the week's recommendation and copies its targets
// onto the user's settings in one transaction.
func saveRecommendation(ctx context.Context, pool *pgxpool.Pool, rec coachingRecommendation) (coachingRecommendation, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return rec, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`INSERT INTO coaching_recommendations
			(user_id, week_start, dynamic_tdee, calorie_target, protein_target_g, carbs_target_g, fat_target_g,
			 weekly_weight_change_kg, confidence, data_quality, created_at)
		 VALUES (@userID, @weekStart, @tdee, @calories, @protein, @carbs, @fat, @weeklyChange, @confidence, @quality, @createdAt)
		 ON CONFLICT (user_id, week_start) DO UPDATE SET
			dynamic_tdee = EXCLUDED.dynamic_tdee, calorie_target = EXCLUDED.calorie_target,
			protein_target_g = EXCLUDED.protein_target_g, carbs_target_g = EXCLUDED.carbs_target_g,
			fat_target_g = EXCLUDED.fat_target_g, weekly_weight_change_kg = EXCLUDED.weekly_weight_change_kg,
			confidence = EXCLUDED.confidence, data_quality = EXCLUDED.data_quality, created_at = EXCLUDED.created_at
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": rec.UserID, "weekStart": rec.WeekStart.Format(dateLayout), "tdee": rec.DynamicTDEE,
			"calories": rec.CalorieTarget, "protein": rec.ProteinTargetG, "carbs": rec.CarbsTargetG, "fat": rec.FatTargetG,
			"weeklyChange": rec.WeeklyWeightChangeKg, "confidence": rec.Confidence, "quality": rec.DataQuality,
			"createdAt": rec.CreatedAt,
		})
	if err != nil {
		return rec, fmt.Errorf("insert recommendation: %w", err)
	}
	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[coachingRecommendation])
	if err != nil {
		return rec, fmt.Errorf("scan recommendation: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE nutrition_settings SET
			calorie_target = @calories, protein_target_g = @protein,
			carbs_target_g = @carbs, fat_target_g = @fat
		 WHERE user_id = @userID`,
		pgx.NamedArgs{
			"userID": rec.UserID, "calories": saved.CalorieTarget, "protein": saved.ProteinTargetG,
			"carbs": saved.CarbsTargetG, "fat": saved.FatTargetG,
		}); err != nil {
		return rec, fmt.Errorf("update targets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return rec, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// runCheckin loads and evaluates the caller's check-in, writing the error
// response itself. ok=false means the response has been written.
func (h *Handler) runCheckin(c *gin.Context) (checkinOutcome, bool) {
	userID := c.GetInt("user_id")

	in, err := loadCheckinInput(c, h.db, userID, time.Now().UTC())
	if err != nil {
		log.Printf("[checkin] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load check-in data")
		return checkinOutcome{}, false
	}

	out, err := evaluateCheckin(in)
	if err != nil {
		writeCheckinError(c, err)
		return checkinOutcome{}, false
	}
	return out, true
}

// writeCheckinError maps engine errors to responses. Insufficient data is an
// expected state, reported as 422 with the counts the UI needs.
func writeCheckinError(c *gin.Context, err error) {
	var insufficient *adaptive.InsufficientDataError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "insufficient_data",
			"message":     insufficient.Error(),
			"weight_days": insufficient.WeightDays,
			"macro_days":  insufficient.MacroDays,
			"min_days":    insufficient.MinDays,
		})
		return
	}
	log.Printf("[checkin] evaluate failed: %v", err)
	apiError(c, http.StatusInternalServerError, "check-in failed")
}

// getCheckinEstimate previews the check-in without storing anything.
// GET /api/checkin/estimate.
func (h *Handler) getCheckinEstimate(c *gin.Context) {
	out, ok := h.runCheckin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, out)
}

// postCheckin runs the weekly check-in and, when the coaching gate allows it,
// stores the new recommendation and targets. POST /api/checkin.
func (h *Handler) postCheckin(c *gin.Context) {
	out, ok := h.runCheckin(c)
	if !ok {
		return
	}

	if out.ShouldUpdate {
		saved, err := saveRecommendation(c, h.db, *out.Recommendation)
		if err != nil {
			log.Printf("[checkin] save failed for user %d: %v", c.GetInt("user_id"), err)
			apiError(c, http.StatusInternalServerError, "failed to save recommendation")
			return
		}
		out.Recommendation = &saved
	}

	c.JSON(http.StatusOK, out)
}

// getCheckinHistory returns stored recommendations, newest week first.
// GET /api/checkin/history?limit=N (default 12, max 104).
func (h *Handler) getCheckinHistory(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil || q.Limit < 0 {
		apiError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if q.Limit == 0 {
		q.Limit = 12
	}
	q.Limit = min(q.Limit, 104)

	recs, err := queryMany[coachingRecommendation](c, h.db,
		`SELECT * FROM coaching_recommendations
		 WHERE user_id = @userID ORDER BY week_start DESC LIMIT @limit`,
		pgx.NamedArgs{"userID": c.GetInt("user_id"), "limit": q.Limit})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	if recs == nil {
		recs = []coachingRecommendation{}
	}

	c.JSON(http.StatusOK, recs)
}
