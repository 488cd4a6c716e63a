// Package config loads the scout configuration.
//
// Sources, later ones winning:
//
//  1. built-in defaults
//  2. a YAML file (-config flag, SCOUT_CONFIG, or ./config.yaml when present)
//  3. legacy variables GITHUB_TOKEN, GEMINI_API_KEY, FEISHU_WEBHOOK, DATABASE_DSN
//  4. SCOUT_<SECTION>_<KEY> variables, e.g. SCOUT_CACHE_RESULTS_TTL=30m
//
// A .env file in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github-skill-scout/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar points at the YAML file.
	ConfigPathEnvVar = "SCOUT_CONFIG"
	envPrefix        = "scout_"
)

// DefaultConfigPaths are tried in order when no path is given.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the full application configuration.
type Config struct {
	GitHub     GitHubConfig     `koanf:"github"`
	Cache      CacheConfig      `koanf:"cache"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Notify     NotifyConfig     `koanf:"notify"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// GitHubConfig configures the search and enrichment client.
type GitHubConfig struct {
	Token             string        `koanf:"token"` // empty = anonymous, 60 requests/hour
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	PerPage           int           `koanf:"per_page" validate:"gte=1,lte=100"`
	MaxQueries        int           `koanf:"max_queries" validate:"gte=1,lte=20"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
}

// CacheConfig selects the memoization backend.
type CacheConfig struct {
	Backend    string        `koanf:"backend" validate:"oneof=memory postgres none"`
	DSN        string        `koanf:"dsn" validate:"required_if=Backend postgres"`
	SkillsTTL  time.Duration `koanf:"skills_ttl" validate:"gte=0"`
	ResultsTTL time.Duration `koanf:"results_ttl" validate:"gte=0"`
	MaxEntries int           `koanf:"max_entries" validate:"gte=0"`
}

// ScoringConfig holds scoring and ranking defaults.
type ScoringConfig struct {
	DefaultMode string `koanf:"default_mode" validate:"oneof=profile-building learning quick-wins"`
	Seed        uint64 `koanf:"seed"` // 0 = random tie-band shuffle
	StaleDays   int    `koanf:"stale_days" validate:"gte=1"`
}

// EnrichmentConfig controls candidate hydration.
type EnrichmentConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Concurrency  int    `koanf:"concurrency" validate:"gte=1,lte=16"`
	CommitSample int    `koanf:"commit_sample" validate:"gte=1,lte=100"`
	IssueSample  int    `koanf:"issue_sample" validate:"gte=1,lte=100"`
	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`
}

// NotifyConfig configures the digest notifier. An empty webhook disables it.
type NotifyConfig struct {
	FeishuWebhook string `koanf:"feishu_webhook" validate:"omitempty,url"`
	TopN          int    `koanf:"top_n" validate:"gte=1,lte=50"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MetricsConfig configures the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			PerPage:           30,
			MaxQueries:        6,
			RequestsPerSecond: 5,
			Timeout:           30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			SkillsTTL:  24 * time.Hour,
			ResultsTTL: time.Hour,
			MaxEntries: 1000,
		},
		Scoring: ScoringConfig{
			DefaultMode: "profile-building",
			StaleDays:   365,
		},
		Enrichment: EnrichmentConfig{
			Enabled:      false,
			Concurrency:  3,
			CommitSample: 100,
			IssueSample:  30,
			GeminiModel:  "gemini-2.5-flash",
		},
		Notify: NotifyConfig{
			TopN: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

var legacyEnv = map[string]string{
	"github_token":   "github.token",
	"gemini_api_key": "enrichment.gemini_api_key",
	"feishu_webhook": "notify.feishu_webhook",
	"database_dsn":   "cache.dsn",
}

// legacyTransform keeps only the unprefixed variables the tool historically read.
func legacyTransform(key string) string {
	return legacyEnv[strings.ToLower(key)]
}

// prefixedTransform maps SCOUT_SECTION_SOME_KEY to section.some_key.
func prefixedTransform(key string) string {
	lower := strings.ToLower(key)
	if !strings.HasPrefix(lower, envPrefix) {
		return ""
	}
	section, field, ok := strings.Cut(strings.TrimPrefix(lower, envPrefix), "_")
	if !ok || section == "" || field == "" {
		return ""
	}
	return section + "." + field
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, common.WrapError(common.ErrCodeConfig, "failed to load .env", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "failed to load defaults", err)
	}

	if path = findConfigFile(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, fmt.Sprintf("failed to load config file %s", path), err)
		}
	}

	if err := k.Load(env.Provider("", ".", legacyTransform), nil); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "failed to load legacy environment", err)
	}
	if err := k.Load(env.Provider("", ".", prefixedTransform), nil); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "failed to load environment", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "failed to unmarshal configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return common.WrapError(common.ErrCodeConfig, "configuration validation failed", err)
	}
	return nil
}
