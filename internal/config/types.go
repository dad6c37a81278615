package config

import (
	"github.com/pfrederiksen/uww-referees/internal/page"
)

// DefaultPath is the config file read when --config is not given
const DefaultPath = "uww-referees.yaml"

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: UWW_NOTIFY__DRY_RUN sets notify.dry_run.
const EnvPrefix = "UWW_"

// Config is the top-level configuration, corresponding to uww-referees.yaml.
type Config struct {
	DataDir   string `yaml:"data_dir" koanf:"data_dir"`
	SiteDir   string `yaml:"site_dir" koanf:"site_dir"` // relative paths sit in data_dir
	SiteURL   string `yaml:"site_url" koanf:"site_url"`
	HistoryDB string `yaml:"history_db" koanf:"history_db"` // relative paths sit in data_dir
	LogLevel  string `yaml:"log_level" koanf:"log_level"`

	RegisterURL  string   `yaml:"register_url" koanf:"register_url"`
	ProfileURL   string   `yaml:"profile_url" koanf:"profile_url"`
	UserAgent    string   `yaml:"user_agent" koanf:"user_agent"`
	Timeout      string   `yaml:"timeout" koanf:"timeout"`
	MaxRetries   int      `yaml:"max_retries" koanf:"max_retries"`
	OlympicOnly  bool     `yaml:"olympic_only" koanf:"olympic_only"`
	ExcludeLists []string `yaml:"exclude_lists" koanf:"exclude_lists"`
	Instructors  []int    `yaml:"instructors" koanf:"instructors"`

	Toggle page.ToggleConfig `yaml:"toggle" koanf:"toggle"`
	Age    page.AgeConfig    `yaml:"age" koanf:"age"`
	Notify NotifyConfig      `yaml:"notify" koanf:"notify"`
	Listen string            `yaml:"listen" koanf:"listen"`
}

// NotifyConfig holds posting settings
type NotifyConfig struct {
	DryRun   bool `yaml:"dry_run" koanf:"dry_run"`
	MaxPosts int  `yaml:"max_posts" koanf:"max_posts"` // 0 means no limit
}
