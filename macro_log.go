package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dailyMacrosSQL merges per-day food item totals with manual overrides. An
// override replaces the whole day, including days with no logged items.
const dailyMacrosSQL = `
WITH logged AS (
	SELECT date,
		SUM(calories)::float8               AS calories,
		COALESCE(SUM(protein_g), 0)::float8 AS protein_g,
		COALESCE(SUM(carbs_g),   0)::float8 AS carbs_g,
		COALESCE(SUM(fat_g),     0)::float8 AS fat_g
	FROM calorie_log_items
	WHERE user_id = @userID AND type <> 'exercise' AND date >= @start AND date <= @end
	GROUP BY date
), overrides AS (
	SELECT date, calories::float8, protein_g::float8, carbs_g::float8, fat_g::float8
	FROM macro_overrides
	WHERE user_id = @userID AND date >= @start AND date <= @end
)
SELECT date,
	COALESCE(o.calories,  l.calories)  AS calories,
	COALESCE(o.protein_g, l.protein_g) AS protein_g,
	COALESCE(o.carbs_g,   l.carbs_g)   AS carbs_g,
	COALESCE(o.fat_g,     l.fat_g)     AS fat_g,
	CASE WHEN o.date IS NULL THEN 'logged' ELSE 'override' END AS source
FROM logged l
FULL OUTER JOIN overrides o USING (date)
ORDER BY date ASC`

// loadDailyMacros returns the macro series for [start, end], oldest first.
func loadDailyMacros(ctx context.Context, pool *pgxpool.Pool, userID int, start, end string) ([]dailyMacros, error) {
	return queryMany[dailyMacros](ctx, pool, dailyMacrosSQL,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
}

// getMacroLog returns the per-day intake series the TDEE engine consumes.
// GET /api/macro-log?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getMacroLog(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	days, err := loadDailyMacros(c, h.db, c.GetInt("user_id"), start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch macro log")
		return
	}
	if days == nil {
		days = []dailyMacros{}
	}

	c.JSON(http.StatusOK, days)
}

// putMacroOverride records a manual intake total for one day.
// PUT /api/macro-log/override. Used when the user knows the day's total but
// didn't log individual items.
func (h *Handler) putMacroOverride(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body macroOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := time.Parse(dateLayout, body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.Calories < 0 || body.ProteinG < 0 || body.CarbsG < 0 || body.FatG < 0 {
		apiError(c, http.StatusBadRequest, "calories and macros must not be negative")
		return
	}

	_, err := h.db.Exec(c,
		`INSERT INTO macro_overrides (user_id, date, calories, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @calories, @proteinG, @carbsG, @fatG)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			calories = EXCLUDED.calories, protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g, fat_g = EXCLUDED.fat_g, updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save override")
		return
	}

	c.JSON(http.StatusOK, dailyMacros{
		Date:     mustDate(body.Date),
		Calories: body.Calories,
		ProteinG: body.ProteinG,
		CarbsG:   body.CarbsG,
		FatG:     body.FatG,
		Source:   "override",
	})
}

// deleteMacroOverride removes a manual override so the day falls back to its
// logged items. DELETE /api/macro-log/override/:date.
func (h *Handler) deleteMacroOverride(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM macro_overrides WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": c.GetInt("user_id"), "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete override")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "override not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// mustDate parses an already-validated YYYY-MM-DD string.
func mustDate(s string) DateOnly {
	t, _ := time.Parse(dateLayout, s)
	return DateOnly{t}
}
