package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// BackendConfig points at the external Backend Job API. An empty BaseURL is
// tolerated: listing degrades to an empty result set and submissions are
// rejected with a configuration error instead of crashing.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type TrackerConfig struct {
	PollInterval  time.Duration `yaml:"poll_interval"`
	SuccessGrace  time.Duration `yaml:"success_grace"`
	FailureGrace  time.Duration `yaml:"failure_grace"`
	RefreshDelay  time.Duration `yaml:"refresh_delay"`
	LookupWorkers int           `yaml:"lookup_workers"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LimitsConfig struct {
	SubmitPerMinute int `yaml:"submit_per_minute"`
}

type PlanConfig struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	MonthlyCredits int64    `yaml:"monthly_credits"`
	PriceCents     int64    `yaml:"price_cents"`
	Features       []string `yaml:"features"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Backend  BackendConfig  `yaml:"backend"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Limits   LimitsConfig   `yaml:"limits"`
	Plans    []PlanConfig   `yaml:"plans"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = 24 * time.Hour
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 15 * time.Second
	}
	if c.Tracker.PollInterval <= 0 {
		c.Tracker.PollInterval = 2 * time.Second
	}
	if c.Tracker.SuccessGrace <= 0 {
		c.Tracker.SuccessGrace = 5 * time.Second
	}
	if c.Tracker.FailureGrace <= 0 {
		c.Tracker.FailureGrace = 12 * time.Second
	}
	if c.Tracker.RefreshDelay <= 0 {
		c.Tracker.RefreshDelay = 3 * time.Second
	}
	if c.Tracker.LookupWorkers <= 0 {
		c.Tracker.LookupWorkers = 4
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = time.Minute
	}
	if c.Limits.SubmitPerMinute <= 0 {
		c.Limits.SubmitPerMinute = 10
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" && !c.Runtime.Dev {
		return fmt.Errorf("auth.jwt_secret is required outside dev mode")
	}
	// Failure outcomes must stay visible longer than successes.
	if c.Tracker.FailureGrace <= c.Tracker.SuccessGrace {
		return fmt.Errorf("tracker.failure_grace (%s) must exceed tracker.success_grace (%s)",
			c.Tracker.FailureGrace, c.Tracker.SuccessGrace)
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required")
	}
	return nil
}
