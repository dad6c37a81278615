package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/uww-referees/internal/page"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("missing file should give defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	yaml := `data_dir: /srv/uww
max_retries: 5
exclude_lists: [Beach]
toggle:
  policy: show
  marker_class: blink_off
  highlight_class: blink
notify:
  max_posts: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("UWW_SITE_DIR", "/var/www/referees")
	t.Setenv("UWW_NOTIFY__DRY_RUN", "false")
	t.Setenv("UWW_TOGGLE__HIDE_LABEL", "Close")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != "/srv/uww" || cfg.MaxRetries != 5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ExcludeLists, []string{"Beach"}) {
		t.Errorf("ExcludeLists = %v", cfg.ExcludeLists)
	}
	if cfg.Toggle.Policy != page.PolicyShow || cfg.Toggle.MarkerClass != "blink_off" {
		t.Errorf("toggle = %+v", cfg.Toggle)
	}
	// Untouched nested keys keep their defaults
	if cfg.Toggle.ButtonID != "toggle" || cfg.Toggle.ShowLabel != "Show History" {
		t.Errorf("toggle defaults lost: %+v", cfg.Toggle)
	}
	if cfg.SiteDir != "/var/www/referees" {
		t.Errorf("SiteDir = %q", cfg.SiteDir)
	}
	if cfg.Notify.DryRun || cfg.Notify.MaxPosts != 3 {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Toggle.HideLabel != "Close" {
		t.Errorf("HideLabel = %q", cfg.Toggle.HideLabel)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := os.WriteFile(path, []byte("data_dir: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty register url", func(c *Config) { c.RegisterURL = "" }, "register_url"},
		{"profile url without verb", func(c *Config) { c.ProfileURL = "https://athena.uww.org/p/" }, "profile_url"},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, "timeout"},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }, "timeout"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "max_retries"},
		{"bad policy", func(c *Config) { c.Toggle.Policy = "flip" }, "policy"},
		{"bad log level", func(c *Config) { c.LogLevel = "LOUD" }, "log level"},
		{"missing age anchor", func(c *Config) { c.Age.Anchor = "" }, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	cfg := DefaultConfig()
	cfg.Listen = ":9000"
	cfg.Toggle = page.LegacyToggleConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestScraperOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = "5s"
	cfg.OlympicOnly = false

	opts, err := cfg.ScraperOptions()
	if err != nil {
		t.Fatalf("ScraperOptions failed: %v", err)
	}
	if opts.Timeout != 5*time.Second || opts.OlympicOnly {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.ProfileURL != cfg.ProfileURL {
		t.Errorf("ProfileURL = %q", opts.ProfileURL)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/uww"
	if got, _ := cfg.HistoryPath(); got != "/srv/uww/history.db" {
		t.Errorf("HistoryPath = %q", got)
	}
	cfg.HistoryDB = "/tmp/h.db"
	if got, _ := cfg.HistoryPath(); got != "/tmp/h.db" {
		t.Errorf("HistoryPath = %q", got)
	}
	if got, _ := cfg.SitePath(); got != "/srv/uww/site" {
		t.Errorf("SitePath = %q", got)
	}
}
