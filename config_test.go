package main

import (
	"reflect"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_URL", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := loadConfig()
	if cfg.Addr != "localhost:3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com" {
		t.Errorf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	t.Setenv("DB_URL", "postgres://localhost/preppy")
	t.Setenv("OPENAI_BASE_URL", "http://mock:9000/")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, ,https://admin.example.com")

	cfg := loadConfig()
	if cfg.Addr != ":8080" || cfg.DBURL != "postgres://localhost/preppy" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	// Trailing slash is trimmed so paths can be appended directly.
	if cfg.OpenAIBaseURL != "http://mock:9000" {
		t.Errorf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
	want := []string{"https://app.example.com", "https://admin.example.com"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}
