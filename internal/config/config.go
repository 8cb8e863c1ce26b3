// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Matching MatchingConfig `yaml:"matching"`
	Workers  WorkersConfig  `yaml:"workers"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Dirs     DirsConfig     `yaml:"dirs"`
	NameGen  NameGenConfig  `yaml:"namegen"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings. An empty Host
// disables persistence entirely; the service then runs match-only.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool { return d.Host != "" }

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// CatalogConfig defines the target catalog API settings.
type CatalogConfig struct {
	BaseURL     string          `yaml:"base_url"`
	Token       string          `yaml:"token"`
	Timeout     time.Duration   `yaml:"timeout"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	SearchTerms []string        `yaml:"search_terms"`
}

// RateLimitConfig defines catalog API rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// MatchingConfig defines the matching thresholds. Zero values fall back to
// the matcher defaults.
type MatchingConfig struct {
	FuzzyThreshold    float64 `yaml:"fuzzy_threshold"`
	PartialThreshold  float64 `yaml:"partial_threshold"`
	HighTier          float64 `yaml:"high_tier"`
	MediumTier        float64 `yaml:"medium_tier"`
	LowTier           float64 `yaml:"low_tier"`
	UpdateThreshold   float64 `yaml:"update_threshold"`
	PriceTolerancePct float64 `yaml:"price_tolerance_pct"`
	MinModelTokenLen  int     `yaml:"min_model_token_len"`
	VocabBonusCap     float64 `yaml:"vocab_bonus_cap"`
	MaxDiagnostics    int     `yaml:"max_diagnostics"`
}

// WorkersConfig defines batch matching concurrency.
type WorkersConfig struct {
	Count int `yaml:"count"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	InboxScanInterval    time.Duration `yaml:"inbox_scan_interval"`
	CacheRefreshInterval time.Duration `yaml:"cache_refresh_interval"`
}

// DirsConfig defines the pricelist inbox layout. Processed files move to
// Processed, failed ones to Errored.
type DirsConfig struct {
	Inbox     string `yaml:"inbox"`
	Processed string `yaml:"processed"`
	Errored   string `yaml:"errored"`
}

// NameGenConfig defines display-name generation settings.
type NameGenConfig struct {
	Backend  string        `yaml:"backend"` // template, openai_compat
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NotifyConfig defines run-summary notification targets.
type NotifyConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyCatalogDefaults(&cfg.Catalog)
	applyWorkersDefaults(&cfg.Workers)
	applyScheduleDefaults(&cfg.Schedule)
	applyDirsDefaults(&cfg.Dirs)
	applyNameGenDefaults(&cfg.NameGen)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = 5.0
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if len(c.SearchTerms) == 0 {
		c.SearchTerms = []string{
			"receiver", "amplifier", "speaker", "subwoofer",
			"microphone", "turntable", "soundbar", "headphones",
		}
	}
}

func applyWorkersDefaults(w *WorkersConfig) {
	if w.Count == 0 {
		w.Count = 4
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.InboxScanInterval == 0 {
		s.InboxScanInterval = 5 * time.Minute
	}
	if s.CacheRefreshInterval == 0 {
		s.CacheRefreshInterval = 30 * time.Minute
	}
}

func applyDirsDefaults(d *DirsConfig) {
	if d.Inbox == "" {
		d.Inbox = "pricelists/inbox"
	}
	if d.Processed == "" {
		d.Processed = "pricelists/processed"
	}
	if d.Errored == "" {
		d.Errored = "pricelists/error"
	}
}

func applyNameGenDefaults(n *NameGenConfig) {
	if n.Backend == "" {
		n.Backend = "template"
	}
	if n.Timeout == 0 {
		n.Timeout = 20 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Catalog.BaseURL == "" {
		errs = append(errs, fmt.Errorf("catalog.base_url is required"))
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.host is set"))
		}
	}

	switch cfg.NameGen.Backend {
	case "template":
	case "openai_compat":
		if cfg.NameGen.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("namegen.endpoint is required when backend is openai_compat"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf("namegen.backend must be one of: template, openai_compat (got %q)",
				cfg.NameGen.Backend),
		)
	}

	m := cfg.Matching
	if m.FuzzyThreshold != 0 && m.PartialThreshold != 0 && m.FuzzyThreshold < m.PartialThreshold {
		errs = append(errs, fmt.Errorf("matching.fuzzy_threshold must be >= matching.partial_threshold"))
	}

	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL == "" {
		errs = append(errs, fmt.Errorf("notify.webhook.url is required when webhook is enabled"))
	}

	return errors.Join(errs...)
}
