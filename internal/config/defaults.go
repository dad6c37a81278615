package config

import (
	"github.com/pfrederiksen/uww-referees/internal/licence"
	"github.com/pfrederiksen/uww-referees/internal/page"
	"github.com/pfrederiksen/uww-referees/internal/scraper"
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "~/.local/share/uww-referees",
		SiteDir:   "site",
		HistoryDB: "history.db",
		LogLevel:  "INFO",

		RegisterURL:  scraper.RegisterURL,
		ProfileURL:   scraper.ProfileURL,
		UserAgent:    scraper.UserAgent,
		Timeout:      scraper.Timeout.String(),
		MaxRetries:   3,
		OlympicOnly:  true,
		ExcludeLists: append([]string(nil), licence.DefaultExcludes...),
		Instructors:  append([]int(nil), scraper.DefaultInstructors...),

		Toggle: page.DefaultToggleConfig(),
		Age:    page.DefaultAgeConfig(),
		Notify: NotifyConfig{DryRun: true, MaxPosts: 10},
		Listen: "127.0.0.1:8080",
	}
}
