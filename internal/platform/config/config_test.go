package config

import (
	"os"
	"testing"
	"time"
)

const (
	testEnvPostgresDSN = "POSTGRES_DSN"
	testPostgresDSN    = "postgres://localhost/test"
	testErrLoad        = "Load() error = %v"
)

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv(testEnvPostgresDSN)

	_, err := Load()
	if err == nil {
		t.Error("expected error for missing required env vars")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != "local" {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, "local")
	}

	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}

	if cfg.EmbeddingDimensions != 1536 {
		t.Errorf("EmbeddingDimensions = %d, want 1536", cfg.EmbeddingDimensions)
	}

	if cfg.CacheMaxAge != 720*time.Hour {
		t.Errorf("CacheMaxAge = %v, want 720h", cfg.CacheMaxAge)
	}

	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %q, want gpt-4o-mini", cfg.OpenAIModel)
	}
}

func TestLoad_FeedURLList(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)
	t.Setenv("TREND_FEED_URLS", "https://a.example/feed,https://b.example/rss")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if len(cfg.TrendFeedURLs) != 2 {
		t.Fatalf("TrendFeedURLs length = %d, want 2", len(cfg.TrendFeedURLs))
	}

	if cfg.TrendFeedURLs[1] != "https://b.example/rss" {
		t.Errorf("TrendFeedURLs[1] = %q", cfg.TrendFeedURLs[1])
	}
}
