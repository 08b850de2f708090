package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupSummaryTest creates a Gin engine with a mock OpenAI server. The mock
// records the last request body so tests can inspect the prompt.
func setupSummaryTest() (*gin.Engine, *httptest.Server, func(int, any), *openAIRequest) {
	var mockStatus int
	var mockBody any
	var lastReq openAIRequest

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &lastReq)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	gin.SetMode(gin.TestMode)
	h := Handler{openAIBaseURL: mockOpenAI.URL}
	router := gin.New()
	// Skip auth middleware for tests, set a dummy user_id
	router.POST("/api/checkin/summary", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.postCheckinSummary)

	setMock := func(status int, body any) {
		mockStatus = status
		mockBody = body
	}
	return router, mockOpenAI, setMock, &lastReq
}

func doSummaryRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/checkin/summary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

const checkinBody = `{
	"result": {
		"dynamic_tdee": 2380,
		"weekly_weight_change_kg": -0.41666,
		"avg_daily_calories": 1950,
		"confidence": "high",
		"data_quality": {"overall_quality": "medium"}
	},
	"should_update": true,
	"previous_tdee": 2250,
	"recommendation": {"week_start": "2026-10-12", "dynamic_tdee": 2380, "calorie_target": 1830,
		"protein_target_g": 156, "carbs_target_g": 190, "fat_target_g": 51},
	"goal_kg_per_week": -0.5
}`

func TestSummary_Success(t *testing.T) {
	router, mockServer, setMock, lastReq := setupSummaryTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"headline":"Your metabolism is keeping up","message":" Nice steady progress this week. "}`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSummaryRequest(router, checkinBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Headline != "Your metabolism is keeping up" {
		t.Errorf("unexpected headline %q", resp.Headline)
	}
	if resp.Message != "Nice steady progress this week." {
		t.Errorf("expected trimmed message, got %q", resp.Message)
	}

	// The user message carries the rounded numbers and the targets in effect.
	if len(lastReq.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(lastReq.Messages))
	}
	var prompt summaryPromptInput
	if err := json.Unmarshal([]byte(lastReq.Messages[1].Content), &prompt); err != nil {
		t.Fatalf("user message is not JSON: %v", err)
	}
	if prompt.WeeklyWeightChangeKg != -0.42 || prompt.DataQuality != "medium" || prompt.PreviousTDEE != 2250 {
		t.Errorf("unexpected prompt: %+v", prompt)
	}
	if prompt.Targets == nil || prompt.Targets.Calories != 1830 {
		t.Errorf("expected targets in prompt, got %+v", prompt.Targets)
	}
}

func TestSummary_MissingResult(t *testing.T) {
	router, mockServer, _, _ := setupSummaryTest()
	defer mockServer.Close()

	w := doSummaryRequest(router, `{"should_update": false}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSummary_OpenAIError500(t *testing.T) {
	router, mockServer, setMock, _ := setupSummaryTest()
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]string{"error": "server error"})
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSummaryRequest(router, checkinBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "openai request failed" {
		t.Errorf("expected error 'openai request failed', got '%s'", resp["error"])
	}
}

func TestSummary_MissingAPIKey(t *testing.T) {
	router, mockServer, setMock, _ := setupSummaryTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"headline":"x","message":"y"}`))
	t.Setenv("OPENAI_API_KEY", "")

	w := doSummaryRequest(router, checkinBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSummary_IncompleteOrMalformed(t *testing.T) {
	cases := map[string]string{
		"malformed":     `not valid json at all`,
		"empty message": `{"headline":"Keep going","message":"  "}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			router, mockServer, setMock, _ := setupSummaryTest()
			defer mockServer.Close()

			setMock(http.StatusOK, openAIChatResponse(content))
			t.Setenv("OPENAI_API_KEY", "test-key")

			w := doSummaryRequest(router, checkinBody)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
