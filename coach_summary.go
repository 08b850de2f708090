package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/preppy-api/internal/adaptive"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// summaryRequest is the request body for POST /api/checkin/summary: the
// outcome of a check-in as returned by POST /api/checkin.
type summaryRequest struct {
	Result         adaptive.Result         `json:"result"`
	ShouldUpdate   bool                    `json:"should_update"`
	PreviousTDEE   int                     `json:"previous_tdee"`
	Recommendation *coachingRecommendation `json:"recommendation"`
	GoalKgPerWeek  float64                 `json:"goal_kg_per_week"`
}

// summaryResponse is the coaching note shown on the check-in screen.
type summaryResponse struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
}

const coachSystemPrompt = `You are Preppy, a friendly, evidence-based nutrition coach. You receive the numeric result of a user's weekly check-in as JSON:
- "dynamic_tdee": estimated maintenance calories from their own weight and intake logs
- "previous_tdee": the estimate their current targets are based on
- "weekly_weight_change_kg": smoothed trend change over the last week (negative = losing)
- "avg_daily_calories": typical daily intake over the last two weeks
- "confidence" and "data_quality": how much to trust the estimate (high, medium, low)
- "should_update": whether new targets were issued this week
- "targets": the daily calorie and macro targets now in effect (may be null)
- "goal_kg_per_week": the user's goal pace (negative = loss)

Write a short check-in note. Return a JSON object with:
- "headline" (string, at most 8 words)
- "message" (string, 2-4 sentences, plain language, no medical advice)

If should_update is false, reassure the user their targets stay the same and explain briefly why. If data_quality is low, encourage more consistent weigh-ins and food logging.
Return only valid JSON, no explanation.`

// summaryPromptInput is the JSON the model sees as the user message.
type summaryPromptInput struct {
	DynamicTDEE          int                    `json:"dynamic_tdee"`
	PreviousTDEE         int                    `json:"previous_tdee"`
	WeeklyWeightChangeKg float64                `json:"weekly_weight_change_kg"`
	AvgDailyCalories     int                    `json:"avg_daily_calories"`
	Confidence           adaptive.Level         `json:"confidence"`
	DataQuality          adaptive.Level         `json:"data_quality"`
	ShouldUpdate         bool                   `json:"should_update"`
	Targets              *adaptive.MacroTargets `json:"targets"`
	GoalKgPerWeek        float64                `json:"goal_kg_per_week"`
}

// buildSummaryPrompt renders the check-in as the user message. Numbers are
// rounded so the model doesn't echo spurious precision.
func buildSummaryPrompt(req summaryRequest) (string, error) {
	in := summaryPromptInput{
		DynamicTDEE:          req.Result.DynamicTDEE,
		PreviousTDEE:         req.PreviousTDEE,
		WeeklyWeightChangeKg: math.Round(req.Result.WeeklyWeightChangeKg*100) / 100,
		AvgDailyCalories:     req.Result.AvgDailyCalories,
		Confidence:           req.Result.Confidence,
		DataQuality:          req.Result.DataQuality.OverallQuality,
		ShouldUpdate:         req.ShouldUpdate,
		GoalKgPerWeek:        req.GoalKgPerWeek,
	}
	if r := req.Recommendation; r != nil {
		in.Targets = &adaptive.MacroTargets{
			Calories: r.CalorieTarget,
			ProteinG: r.ProteinTargetG,
			CarbsG:   r.CarbsTargetG,
			FatG:     r.FatTargetG,
		}
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}
	return string(b), nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// postCheckinSummary handles POST /api/checkin/summary. It turns a check-in
// outcome into a short natural-language note via OpenAI. Nothing is stored.
func (h *Handler) postCheckinSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Result.DynamicTDEE <= 0 {
		apiError(c, http.StatusBadRequest, "result.dynamic_tdee is required")
		return
	}

	prompt, err := buildSummaryPrompt(req)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to build prompt")
		return
	}

	content, err := callOpenAI(c.Request.Context(), h.openAIBaseURL, []openAIMessage{
		{Role: "system", Content: coachSystemPrompt},
		{Role: "user", Content: prompt},
	}, 0.4)
	if err != nil {
		log.Printf("[summary] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	var summary summaryResponse
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		log.Printf("[summary] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	summary.Headline = strings.TrimSpace(summary.Headline)
	summary.Message = strings.TrimSpace(summary.Message)
	if summary.Headline == "" || summary.Message == "" {
		log.Printf("[summary] Incomplete OpenAI response: %q", content)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	c.JSON(http.StatusOK, summary)
}
