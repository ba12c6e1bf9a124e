// Package config handles jobfill configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level jobfill configuration.
type Config struct {
	Browser     BrowserConfig     `yaml:"browser"`
	Engine      EngineConfig      `yaml:"engine"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	HTTP        HTTPConfig        `yaml:"http"`
	Sinks       []SinkConfig      `yaml:"sinks"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"`
	Bin              string   `yaml:"bin"`
	Stealth          string   `yaml:"stealth"` // headless | headful
	XvfbDisplay      string   `yaml:"xvfb_display"`
	ResourceBlocking []string `yaml:"resource_blocking"`
	UserDataDir      string   `yaml:"user_data_dir"`
}

// EngineConfig tunes discovery and filling.
type EngineConfig struct {
	FieldDelay       time.Duration `yaml:"field_delay"`
	SettleTimeout    time.Duration `yaml:"settle_timeout"`
	WatchdogInterval time.Duration `yaml:"watchdog_interval"`
	QuestionMinLen   int           `yaml:"question_min_len"`
	QuestionMaxLen   int           `yaml:"question_max_len"`
	AncestorWalk     int           `yaml:"ancestor_walk"`
}

// EnrichmentConfig points at the optional enrichment service.
type EnrichmentConfig struct {
	Enabled          bool          `yaml:"enabled"`
	URL              string        `yaml:"url"`
	Timeout          time.Duration `yaml:"timeout"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerReset     time.Duration `yaml:"breaker_reset"`
}

// CoordinatorConfig locates the profile store.
type CoordinatorConfig struct {
	DBPath    string            `yaml:"db_path"`
	ProfileID string            `yaml:"profile_id"`
	Timeout   time.Duration     `yaml:"timeout"`
	Platforms map[string]string `yaml:"platforms"` // extra platform -> host glob
}

// HTTPConfig is the local control API.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// SinkConfig defines a report output backend.
type SinkConfig struct {
	Type    string `yaml:"type"` // stdout | webhook
	URL     string `yaml:"url"`
	Retries int    `yaml:"retries"`

	// IncludeValues posts filled values to webhooks; off by default.
	IncludeValues bool `yaml:"include_values"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFile reads a YAML configuration file. An empty path gives Default().
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from JOBFILL_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("JOBFILL_ENRICH_URL"); v != "" {
		c.Enrichment.URL = v
		c.Enrichment.Enabled = true
	}
	if v := getenv("JOBFILL_DB"); v != "" {
		c.Coordinator.DBPath = v
	}
	if v := getenv("JOBFILL_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := getenv("JOBFILL_BROWSER_REMOTE"); v != "" {
		c.Browser.Remote = v
	}
}

func (c *Config) applyDefaults() {
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "headful"
	}
	if c.Browser.XvfbDisplay == "" {
		c.Browser.XvfbDisplay = ":99"
	}
	if c.Engine.FieldDelay <= 0 {
		c.Engine.FieldDelay = 100 * time.Millisecond
	}
	if c.Engine.SettleTimeout <= 0 {
		c.Engine.SettleTimeout = 15 * time.Second
	}
	if c.Engine.WatchdogInterval <= 0 {
		c.Engine.WatchdogInterval = 5 * time.Second
	}
	if c.Engine.QuestionMinLen <= 0 {
		c.Engine.QuestionMinLen = 10
	}
	if c.Engine.QuestionMaxLen <= 0 {
		c.Engine.QuestionMaxLen = 300
	}
	if c.Engine.AncestorWalk <= 0 {
		c.Engine.AncestorWalk = 5
	}
	if c.Enrichment.URL == "" {
		c.Enrichment.URL = "http://localhost:5000"
	}
	if c.Enrichment.Timeout <= 0 {
		c.Enrichment.Timeout = 30 * time.Second
	}
	if c.Enrichment.BreakerThreshold <= 0 {
		c.Enrichment.BreakerThreshold = 3
	}
	if c.Enrichment.BreakerReset <= 0 {
		c.Enrichment.BreakerReset = time.Minute
	}
	if c.Coordinator.DBPath == "" {
		c.Coordinator.DBPath = "jobfill.db"
	}
	if c.Coordinator.ProfileID == "" {
		c.Coordinator.ProfileID = "default"
	}
	if c.Coordinator.Timeout <= 0 {
		c.Coordinator.Timeout = 5 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:8765"
	}
	for i := range c.Sinks {
		if c.Sinks[i].Retries <= 0 {
			c.Sinks[i].Retries = 3
		}
	}
}

func (c *Config) validate() error {
	switch c.Browser.Stealth {
	case "headless", "headful":
	default:
		return fmt.Errorf("config: browser.stealth: unknown mode %q", c.Browser.Stealth)
	}
	if c.Engine.QuestionMinLen > c.Engine.QuestionMaxLen {
		return fmt.Errorf("config: engine: question_min_len %d > question_max_len %d",
			c.Engine.QuestionMinLen, c.Engine.QuestionMaxLen)
	}
	for i, s := range c.Sinks {
		switch s.Type {
		case "stdout":
		case "webhook":
			if s.URL == "" {
				return fmt.Errorf("config: sinks[%d]: webhook needs url", i)
			}
		default:
			return fmt.Errorf("config: sinks[%d]: unknown type %q", i, s.Type)
		}
	}
	return nil
}
