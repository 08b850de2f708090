package main

import (
	"os"
	"strings"
)

// config holds server settings read from the environment (and .env in dev).
type config struct {
	Addr          string
	DBURL         string
	OpenAIBaseURL string
	CORSOrigins   []string
}

// loadConfig reads the server configuration. DB_URL has no default; main
// exits when it is empty.
func loadConfig() config {
	return config{
		Addr:          getEnv("ADDR", "localhost:3000"),
		DBURL:         os.Getenv("DB_URL"),
		OpenAIBaseURL: strings.TrimSuffix(getEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated env value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
