// handles folio.yaml, command-line flags and secrets from the environment
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "folio.yaml"
	DefaultDevtoURL   = "https://dev.to/api"
)

// Buckets names the two non-default display groups. The values are opaque
// identifiers from the site's category taxonomy.
type Buckets struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

func (b Buckets) validate() error {
	if b.A == "" || b.B == "" || b.A == b.B {
		return fmt.Errorf("buckets must name two distinct non-empty identifiers, got %q and %q", b.A, b.B)
	}
	for _, id := range []string{b.A, b.B} {
		if reserved[strings.ToLower(id)] {
			return fmt.Errorf("bucket identifier %q is reserved", id)
		}
	}
	return nil
}

// reserved category values that can never name a bucket.
var reserved = map[string]bool{"all": true, "home": true}

type Config struct {
	ContentDir string `yaml:"contentDir"`
	AdminDB    string `yaml:"adminDB"`
	BaseURL    string `yaml:"baseURL"`

	DevtoBaseURL  string `yaml:"devtoBaseURL"`
	DevtoUsername string `yaml:"devtoUsername"`
	DevtoAPIKey   string `yaml:"-"`

	Buckets Buckets `yaml:"buckets"`

	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Watch    bool   `yaml:"watch"`
	JSONLogs bool   `yaml:"jsonLogs"`

	Tune *BuildConfig `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		ContentDir:   "content/blog",
		DevtoBaseURL: DefaultDevtoURL,
		Buckets:      Buckets{A: "bucketA", B: "bucketB"},
		Host:         "localhost",
		Port:         "2604",
	}
}

// Load builds the configuration from folio.yaml in the working directory,
// then args, then the environment. A missing config file is not an error.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return LoadFlags(fs, args)
}

// LoadFlags is Load with a caller supplied flag set, so subcommands can
// register their own flags next to the shared ones. Positional arguments
// remain available through fs.Args().
func LoadFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(DefaultConfigFile)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", DefaultConfigFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", DefaultConfigFile, err)
	}

	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "Directory holding static posts")
	fs.StringVar(&cfg.AdminDB, "admin-db", cfg.AdminDB, "Path to the admin post database (empty disables it)")
	fs.StringVar(&cfg.BaseURL, "baseurl", cfg.BaseURL, "Public base URL")
	fs.StringVar(&cfg.DevtoBaseURL, "devto-url", cfg.DevtoBaseURL, "dev.to API base URL")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "The host/IP to bind to")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "The port to listen on")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Push reload events when static content changes")
	fs.BoolVar(&cfg.JSONLogs, "json-logs", cfg.JSONLogs, "Emit JSON logs")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if v := os.Getenv("DEVTO_API_KEY"); v != "" {
		cfg.DevtoAPIKey = v
	}
	if v := os.Getenv("FOLIO_ADMIN_DB"); v != "" && cfg.AdminDB == "" {
		cfg.AdminDB = v
	}

	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.DevtoBaseURL = strings.TrimSuffix(cfg.DevtoBaseURL, "/")
	if err := cfg.Buckets.validate(); err != nil {
		return nil, err
	}

	cfg.Tune = LoadBuildConfig()
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// HasDevto reports whether the external API may be called at all.
func (c *Config) HasDevto() bool {
	return c.DevtoAPIKey != ""
}
