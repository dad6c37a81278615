// Package config loads settings from defaults, an optional YAML file and
// UWW_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/scraper"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (UWW_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: UWW_DATA_DIR -> data_dir,
	// UWW_TOGGLE__POLICY -> toggle.policy.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.RegisterURL == "" {
		return fmt.Errorf("register_url is required")
	}
	if c.ProfileURL == "" {
		return fmt.Errorf("profile_url is required")
	}
	if !strings.Contains(c.ProfileURL, "%d") {
		return fmt.Errorf("invalid profile_url %q: must contain %%d for the licence number", c.ProfileURL)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.Notify.MaxPosts < 0 {
		return fmt.Errorf("notify.max_posts must be non-negative")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Toggle.Validate(); err != nil {
		return err
	}
	if c.Age.SourceClass == "" || c.Age.Attr == "" || c.Age.Anchor == "" || c.Age.Tag == "" {
		return fmt.Errorf("age: source_class, attr, anchor and tag are required")
	}
	return nil
}

// TimeoutDuration parses the timeout setting
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}

// ScraperOptions converts the scraping settings
func (c *Config) ScraperOptions() (scraper.Options, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return scraper.Options{}, err
	}
	opts := scraper.DefaultOptions()
	opts.RegisterURL = c.RegisterURL
	opts.ProfileURL = c.ProfileURL
	opts.UserAgent = c.UserAgent
	opts.Timeout = timeout
	opts.MaxRetries = c.MaxRetries
	opts.OlympicOnly = c.OlympicOnly
	opts.ExcludeLists = c.ExcludeLists
	opts.Instructors = c.Instructors
	return opts, nil
}

// HistoryPath returns the history database path, resolved against data_dir
func (c *Config) HistoryPath() (string, error) {
	return c.inDataDir(c.HistoryDB)
}

// SitePath returns the site directory, resolved against data_dir
func (c *Config) SitePath() (string, error) {
	return c.inDataDir(c.SiteDir)
}

func (c *Config) inDataDir(path string) (string, error) {
	path, err := storage.ExpandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := storage.ExpandHome(c.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}
