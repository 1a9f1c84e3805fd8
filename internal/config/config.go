// Package config loads jobswipe settings from a JSON file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/storage"
)

// Environment variables read by FromEnv
const (
	EnvStore       = "JOBSWIPE_STORE"
	EnvStoreDSN    = "JOBSWIPE_STORE_DSN"
	EnvCatalog     = "JOBSWIPE_CATALOG"
	EnvCatalogURL  = "JOBSWIPE_CATALOG_URL"
	EnvServerURL   = "JOBSWIPE_SERVER_URL"
	EnvDatabaseURL = "DATABASE_URL"
	EnvRedisURL    = "REDIS_URL"
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvPort        = "PORT"
)

// DefaultStateFile is the SQLite database used when no store location is configured
const DefaultStateFile = "state.db"

// Config is the jobswipe configuration. Every field is optional.
type Config struct {
	// Durable state
	Store    string `json:"store,omitempty"`     // memory, file, sqlite, redis or postgres
	StoreDSN string `json:"store_dsn,omitempty"` // directory, database path or connection URL

	// Job catalog
	Catalog        string `json:"catalog,omitempty"`         // static, http or postgres
	CatalogURL     string `json:"catalog_url,omitempty"`     // base URL of a server exposing GET /jobs
	CatalogRefresh string `json:"catalog_refresh,omitempty"` // refresh interval for serve, e.g. "15m"
	MaxReloads     *int   `json:"max_reloads,omitempty"`     // automatic catalog reloads before giving up

	// Shared connections
	DatabaseURL string `json:"database_url,omitempty"`
	RedisURL    string `json:"redis_url,omitempty"`

	// Resume parsing
	ServerURL string `json:"server_url,omitempty"` // parse backend used by import-resume
	APIKey    string `json:"api_key,omitempty"`    // Gemini API key used by serve
	Port      int    `json:"port,omitempty"`

	Verbose  bool `json:"verbose,omitempty"`
	JSONLogs bool `json:"json_logs,omitempty"`
}

// LoadConfig reads a JSON config file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave fields empty.
func FromEnv() Config {
	cfg := Config{
		Store:       env(EnvStore),
		StoreDSN:    env(EnvStoreDSN),
		Catalog:     env(EnvCatalog),
		CatalogURL:  env(EnvCatalogURL),
		ServerURL:   env(EnvServerURL),
		DatabaseURL: env(EnvDatabaseURL),
		RedisURL:    env(EnvRedisURL),
		APIKey:      env(EnvAPIKey),
	}
	if port, err := strconv.Atoi(env(EnvPort)); err == nil {
		cfg.Port = port
	}
	return cfg
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate checks values that can be judged without connecting to anything
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case "", storage.KindMemory, storage.KindFile, storage.KindSQLite, storage.KindRedis, storage.KindPostgres:
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	switch strings.ToLower(c.Catalog) {
	case "", catalog.SourceStatic:
	case catalog.SourceHTTP:
		if c.CatalogURL == "" && c.ServerURL == "" {
			return fmt.Errorf("config error: 'catalog_url' is required for the http catalog")
		}
	case catalog.SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("config error: unknown catalog %q", c.Catalog)
	}

	if c.MaxReloads != nil && *c.MaxReloads < 0 {
		return fmt.Errorf("config error: 'max_reloads' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.CatalogRefresh != "" {
		if d, err := time.ParseDuration(c.CatalogRefresh); err != nil || d <= 0 {
			return fmt.Errorf("config error: 'catalog_refresh' must be a positive duration")
		}
	}
	return nil
}

// MergeWithDefaults returns c with empty fields filled from defaults.
// Bools are OR-ed: a value set anywhere stays set.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Store, defaults.Store)
	fill(&result.StoreDSN, defaults.StoreDSN)
	fill(&result.Catalog, defaults.Catalog)
	fill(&result.CatalogURL, defaults.CatalogURL)
	fill(&result.CatalogRefresh, defaults.CatalogRefresh)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.ServerURL, defaults.ServerURL)
	fill(&result.APIKey, defaults.APIKey)

	if result.MaxReloads == nil && defaults.MaxReloads != nil {
		n := *defaults.MaxReloads
		result.MaxReloads = &n
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	result.Verbose = result.Verbose || defaults.Verbose
	result.JSONLogs = result.JSONLogs || defaults.JSONLogs

	return result
}

// StoreLocation resolves the DSN for the configured store.
// Redis and Postgres fall back to the shared connection URLs; SQLite and file stores fall back to dataDir.
func (c *Config) StoreLocation(dataDir string) string {
	if c.StoreDSN != "" {
		return c.StoreDSN
	}
	switch strings.ToLower(c.Store) {
	case storage.KindRedis:
		return c.RedisURL
	case storage.KindPostgres:
		return c.DatabaseURL
	case storage.KindFile:
		return dataDir
	case storage.KindMemory:
		return ""
	default:
		return filepath.Join(dataDir, DefaultStateFile)
	}
}

// CatalogLocation resolves the location argument of catalog.Open
func (c *Config) CatalogLocation() string {
	switch strings.ToLower(c.Catalog) {
	case catalog.SourceHTTP:
		if c.CatalogURL != "" {
			return c.CatalogURL
		}
		return c.ServerURL
	case catalog.SourcePostgres:
		return c.DatabaseURL
	default:
		return ""
	}
}

// RefreshInterval parses CatalogRefresh, returning def when it is empty or invalid
func (c *Config) RefreshInterval(def time.Duration) time.Duration {
	if d, err := time.ParseDuration(c.CatalogRefresh); err == nil && d > 0 {
		return d
	}
	return def
}

// DefaultDataDir is where local state lives: $XDG_CONFIG_HOME/jobswipe or its platform equivalent
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jobswipe")
	}
	return ".jobswipe"
}
