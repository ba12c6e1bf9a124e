package autofill

import "github.com/hazyhaar/jobfill/autofill/internal/config"

// Config is the top-level jobfill configuration. Re-exported from internal.
type Config = config.Config

// SinkConfig defines a report output backend.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file; "" gives the defaults.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// EngineOptions maps the engine section onto controller options.
func EngineOptions(cfg *Config) Options {
	return Options{
		FieldDelay:         cfg.Engine.FieldDelay,
		CoordinatorTimeout: cfg.Coordinator.Timeout,
		EnrichTimeout:      cfg.Enrichment.Timeout,
		QuestionMinLen:     cfg.Engine.QuestionMinLen,
		QuestionMaxLen:     cfg.Engine.QuestionMaxLen,
		AncestorWalk:       cfg.Engine.AncestorWalk,
	}
}
