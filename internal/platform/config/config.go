// Package config loads service configuration from environment variables.
//
// A .env file is honored in local development; real deployments set the
// variables directly. Required values fail Load early.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`

	// HTTP API
	APIPort        int           `env:"API_PORT" envDefault:"8080"`
	HealthPort     int           `env:"HEALTH_PORT" envDefault:"9090"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	DetectionRPS   float64       `env:"DETECTION_RPS" envDefault:"1"`
	DetectionBurst int           `env:"DETECTION_BURST" envDefault:"3"`
	MaxRequestBody int64         `env:"MAX_REQUEST_BODY" envDefault:"1048576"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// LLM providers
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4.5"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMRateLimitRPS int    `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`

	// Embeddings
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	// Search providers
	TavilyAPIKey  string        `env:"TAVILY_API_KEY"`
	TavilyRPM     int           `env:"TAVILY_RPM" envDefault:"10"`
	BraveAPIKey   string        `env:"BRAVE_API_KEY"`
	BraveRPM      int           `env:"BRAVE_RPM" envDefault:"10"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"30s"`

	// Industry-news RSS feeds used as a trend source, comma-separated URLs
	TrendFeedURLs []string `env:"TREND_FEED_URLS" envSeparator:","`

	// Research cache
	CacheSimilarityThreshold float32       `env:"CACHE_SIMILARITY_THRESHOLD" envDefault:"0.92"`
	CacheMaxAge              time.Duration `env:"CACHE_MAX_AGE" envDefault:"720h"`
	CacheAccessGrace         time.Duration `env:"CACHE_ACCESS_GRACE" envDefault:"168h"`

	// Insight enrichment
	WebFetchTimeout  time.Duration `env:"WEB_FETCH_TIMEOUT" envDefault:"30s"`
	WebFetchRPS      float64       `env:"WEB_FETCH_RPS" envDefault:"2"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH" envDefault:"8000"`

	// Worker mode
	TrendRefreshInterval time.Duration `env:"TREND_REFRESH_INTERVAL" envDefault:"6h"`
	CleanupInterval      time.Duration `env:"CLEANUP_INTERVAL" envDefault:"24h"`
}

// Load reads configuration from the environment, honoring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
