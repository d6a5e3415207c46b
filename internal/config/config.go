package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the originality score above which a line counts as new
// content. Kept in sync with similarity.DefaultThreshold.
const DefaultThreshold = 0.51

// Config holds all analysis configuration.
type Config struct {
	DataDir        string         `yaml:"data_dir"`
	RepoPath       string         `yaml:"repo"`
	Threshold      float64        `yaml:"threshold"`
	Since          string         `yaml:"since"`
	TimeZone       string         `yaml:"timezone"`
	Workers        int            `yaml:"workers"`
	Verbose        bool           `yaml:"verbose"`
	IgnoreCommits  []string       `yaml:"ignore_commits"`
	IgnorePatterns []string       `yaml:"ignore_patterns"`
	Authors        []AuthorConfig `yaml:"authors"`
	Cache          CacheConfig    `yaml:"cache"`
}

// AuthorConfig describes one canonical contributor.
type AuthorConfig struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Emails      []string `yaml:"emails"`
	IgnoreGlobs []string `yaml:"ignore_globs"`
}

// CacheConfig controls caching of git query results.
type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	MemoryEntries int    `yaml:"memory_entries"`
}

// DefaultDataDir returns the default data directory (~/.linecredit).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".linecredit")
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir:   dataDir,
		RepoPath:  ".",
		Threshold: DefaultThreshold,
		TimeZone:  "Local",
		Workers:   runtime.NumCPU(),
		IgnorePatterns: []string{
			".git",
			"node_modules",
			"vendor",
		},
		Cache: CacheConfig{
			Enabled:       true,
			DBPath:        filepath.Join(dataDir, "cache.db"),
			MemoryEntries: 4096,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// for any unset fields. JSON files load too, since YAML is a superset.
func Load(path string) (*Config, error) {
	cfg := Default()
	defaultDataDir, defaultDBPath := cfg.DataDir, cfg.Cache.DBPath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file is fine, use defaults.
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Re-derive the cache path if DataDir was overridden but the path was not.
	if cfg.Cache.DBPath == "" || (cfg.Cache.DBPath == defaultDBPath && cfg.DataDir != defaultDataDir) {
		cfg.Cache.DBPath = filepath.Join(cfg.DataDir, "cache.db")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail deep inside an analysis.
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %v", c.Threshold)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.SinceTime(); err != nil {
		return err
	}
	for i, a := range c.Authors {
		if a.Name == "" {
			return fmt.Errorf("author at index %d missing name", i)
		}
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// SinceTime returns the analysis start boundary in the configured time zone.
// An empty Since means no boundary and returns the zero time.
func (c *Config) SinceTime() (time.Time, error) {
	if c.Since == "" {
		return time.Time{}, nil
	}
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return ParseDate(c.Since, loc)
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// ConfigPath returns the default path to the config file.
func ConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}
