// Package config loads engine configuration from a TOML file with sensible
// defaults, letting command-line flags override individual values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every tunable of the engine and its HTTP facade.
type Config struct {
	// Moderation
	Threshold float64 `toml:"threshold"`

	// Extraction bounds
	MaxDepth        int   `toml:"max_depth"`
	MaxArchiveBytes int64 `toml:"max_archive_bytes"`

	// Classifier capability
	ArtifactPath         string `toml:"artifact_path"`
	RemoteURL            string `toml:"remote_url"`
	ScorerTimeoutSeconds int    `toml:"scorer_timeout_seconds"`
	TopKeywords          int    `toml:"top_keywords"`

	// HTTP facade
	ListenAddr     string  `toml:"listen_addr"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Threshold:            0.5,
		MaxDepth:             5,
		MaxArchiveBytes:      64 * 1024 * 1024,
		ArtifactPath:         "models/classifier.json",
		ScorerTimeoutSeconds: 5,
		TopKeywords:          5,
		ListenAddr:           ":8080",
		RequestsPerSec:       20,
	}
}

// Load reads path and merges it over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold %v must be in (0, 1)", c.Threshold)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive")
	}
	if c.MaxArchiveBytes <= 0 {
		return fmt.Errorf("max_archive_bytes must be positive")
	}
	if c.ScorerTimeoutSeconds <= 0 {
		return fmt.Errorf("scorer_timeout_seconds must be positive")
	}
	return nil
}

// ScorerTimeout returns the configured classifier call timeout.
func (c Config) ScorerTimeout() time.Duration {
	return time.Duration(c.ScorerTimeoutSeconds) * time.Second
}
