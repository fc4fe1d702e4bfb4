package config

import (
	"fmt"
	"time"

	"github.com/jinzhu/configor"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string `default:"8000" env:"PORT"`
	Origin                    string `default:"*" env:"ORIGIN"`
	Environment               string `default:"development" env:"APP_ENV"`
	JWTSecret                 string `default:"default_jwt_secret" env:"JWT_SECRET"`
	JWTRefreshSecret          string `default:"default_refresh_secret" env:"JWT_REFRESH_SECRET"`
	JWTExpirationMinutes      int    `default:"60" env:"JWT_EXPIRATION_MINUTES"`
	JWTRefreshExpirationHours int    `default:"168" env:"JWT_REFRESH_EXPIRATION_HOURS"`
	MaxBodyBytes              int64  `default:"1048576" env:"MAX_BODY_BYTES"`
	SkipSeed                  bool   `env:"SKIP_SEED"`
	Database                  DatabaseConfig
	LLM                       LLMConfig
	Cache                     CacheConfig
	Storage                   StorageConfig
	Documents                 DocumentsConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver string `default:"sqlite" env:"DB_DRIVER"`
	DSN    string `default:"muawin.db" env:"DB_DSN"`
}

// LLMConfig holds the language model vendor settings.
type LLMConfig struct {
	APIKey         string  `env:"OPENAI_API_KEY"`
	BaseURL        string  `env:"OPENAI_BASE_URL"`
	Model          string  `default:"gpt-3.5-turbo" env:"LLM_MODEL"`
	Temperature    float32 `default:"0.7" env:"LLM_TEMPERATURE"`
	TimeoutSeconds int     `default:"60" env:"LLM_TIMEOUT_SECONDS"`
}

// CacheConfig configures the optional Redis cache for LLM responses.
type CacheConfig struct {
	RedisURL   string `env:"REDIS_URL"`
	TTLMinutes int    `default:"60" env:"LLM_CACHE_TTL_MINUTES"`
}

// StorageConfig selects where generated documents are kept.
type StorageConfig struct {
	Backend   string `default:"local" env:"STORAGE_BACKEND"`
	Path      string `default:"data/prescription" env:"STORAGE_PATH"`
	S3Bucket  string `env:"S3_BUCKET"`
	S3Prefix  string `default:"prescriptions" env:"S3_PREFIX"`
	AWSRegion string `default:"us-east-1" env:"AWS_REGION"`
}

// DocumentsConfig holds settings for prescription rendering.
type DocumentsConfig struct {
	WkhtmltopdfPath string `default:"wkhtmltopdf" env:"WKHTMLTOPDF_PATH"`
}

// LoadConfig loads configuration from the given YAML files (missing files are
// skipped) and then from environment variables.
func LoadConfig(files ...string) (*Config, error) {
	cfg := &Config{}
	loader := configor.New(&configor.Config{ENVPrefix: "MUAWIN", Silent: true})
	if err := loader.Load(cfg, files...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want sqlite, mysql or postgres", c.Database.Driver)
	}

	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: want local or s3", c.Storage.Backend)
	}

	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %d", c.JWTExpirationMinutes)
	}
	if c.JWTRefreshExpirationHours <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %d", c.JWTRefreshExpirationHours)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LLMTimeout is the per-call deadline for the language model vendor.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// CacheTTL is how long cached LLM responses are kept.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}
