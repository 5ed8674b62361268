package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

const DefaultTuneFile = "folio.tune.yaml"

// BuildConfig contains the tunable pipeline parameters
// These can be overridden via folio.tune.yaml
type BuildConfig struct {
	// Sources
	ExternalTimeout time.Duration `yaml:"externalTimeout"` // Per-call dev.to timeout (default: 8s)
	StaticWorkers   int           `yaml:"staticWorkers"`   // Parallel frontmatter parsers (default: CPU count, 2-12)
	StoreTimeout    time.Duration `yaml:"storeTimeout"`    // BoltDB open timeout (default: 5s)

	// Normalizer
	ReadingSpeed int `yaml:"readingSpeed"` // Words per minute (default: 200)

	// Ranker
	RecencyWindow  time.Duration `yaml:"recencyWindow"`  // Window for the recency boost (default: 7d)
	RecencyBoost   float64       `yaml:"recencyBoost"`   // Flat boost for recent posts (default: 100)
	HighEngagement float64       `yaml:"highEngagement"` // Threshold for the high tier (default: 10)
	MinTimeDecay   float64       `yaml:"minTimeDecay"`   // Floor on the decay factor (default: 0.1)

	// Admin store
	InlineBodyThreshold int `yaml:"inlineBodyThreshold"` // Bodies above this go to the blob store (default: 32KB)

	// Server
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`  // Server shutdown timeout (default: 5s)
	DebounceDuration time.Duration `yaml:"debounceDuration"` // File watcher debounce (default: 300ms)
}

// DefaultBuildConfig returns the default tunables
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		ExternalTimeout: 8 * time.Second,
		StaticWorkers:   utils.GetDefaultWorkerCount(),
		StoreTimeout:    5 * time.Second,

		ReadingSpeed: 200,

		RecencyWindow:  7 * 24 * time.Hour,
		RecencyBoost:   100,
		HighEngagement: 10,
		MinTimeDecay:   0.1,

		InlineBodyThreshold: 32 * 1024,

		ShutdownTimeout:  5 * time.Second,
		DebounceDuration: 300 * time.Millisecond,
	}
}

// LoadBuildConfig loads tunables from folio.tune.yaml
// Returns defaults if file doesn't exist
func LoadBuildConfig() *BuildConfig {
	cfg := DefaultBuildConfig()

	data, err := os.ReadFile(DefaultTuneFile)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultBuildConfig()
	}

	cfg.validate()
	return cfg
}

// validate ensures configuration values are within reasonable bounds
func (c *BuildConfig) validate() {
	if c.ExternalTimeout < 1*time.Second {
		c.ExternalTimeout = 1 * time.Second
	}
	if c.ExternalTimeout > 60*time.Second {
		c.ExternalTimeout = 60 * time.Second
	}
	if c.StaticWorkers < 1 {
		c.StaticWorkers = 1
	}
	if c.StaticWorkers > 64 {
		c.StaticWorkers = 64
	}
	if c.StoreTimeout < 1*time.Second {
		c.StoreTimeout = 1 * time.Second
	}

	if c.ReadingSpeed < 1 {
		c.ReadingSpeed = 200
	}

	if c.RecencyWindow <= 0 {
		c.RecencyWindow = 7 * 24 * time.Hour
	}
	if c.RecencyBoost < 0 {
		c.RecencyBoost = 0
	}
	if c.HighEngagement < 0 {
		c.HighEngagement = 0
	}
	if c.MinTimeDecay <= 0 || c.MinTimeDecay > 1 {
		c.MinTimeDecay = 0.1
	}

	if c.InlineBodyThreshold < 1024 {
		c.InlineBodyThreshold = 1024
	}

	if c.ShutdownTimeout < 1*time.Second {
		c.ShutdownTimeout = 1 * time.Second
	}
	if c.ShutdownTimeout > 60*time.Second {
		c.ShutdownTimeout = 60 * time.Second
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
}
