package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/uww-referees/internal/referee"
	"github.com/pfrederiksen/uww-referees/internal/site"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt     time.Time          `json:"checked_at"`
	PreviousCount int                `json:"previous_count"`
	CurrentCount  int                `json:"current_count"`
	Changed       []*referee.Change  `json:"changed"`
	Added         []*referee.Referee `json:"added"`
	Removed       []*referee.Referee `json:"removed"`
	ChangeCount   int                `json:"change_count"`
	Site          *site.Summary      `json:"site,omitempty"`
}

// NewOutputResult summarises a diff
func NewOutputResult(diff *referee.DiffResult, previous, current int) *OutputResult {
	return &OutputResult{
		CheckedAt:     time.Now().UTC(),
		PreviousCount: previous,
		CurrentCount:  current,
		Changed:       nonNil(diff.Changed),
		Added:         nonNil(diff.Added),
		Removed:       nonNil(diff.Removed),
		ChangeCount:   len(diff.Changed) + len(diff.Added) + len(diff.Removed),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func describe(r *referee.Referee) string {
	return fmt.Sprintf("Referee %d (%s - %s)", r.IDNumber, r.Name, r.Country)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.ChangeCount == 0 {
		fmt.Fprintln(w, "No changes found.")
		return nil
	}

	for _, c := range result.Changed {
		fmt.Fprintf(w, "CHANGED: %s\n", describe(c.Current))
		for _, f := range c.Fields {
			fmt.Fprintf(w, "  %s: %s -> %s\n", f.Field, f.Old, f.New)
		}
	}
	for _, r := range result.Added {
		fmt.Fprintf(w, "NEW: %s\n", describe(r))
		if verbose {
			fmt.Fprintf(w, "     Category: %s\n", r.DisplayCategory())
			fmt.Fprintf(w, "     Born: %s\n", r.Birthdate)
			fmt.Fprintf(w, "     Athena: %s\n", r.Athena)
		}
	}
	for _, r := range result.Removed {
		fmt.Fprintf(w, "RETIRED: %s\n", describe(r))
	}

	parts := []string{}
	if n := len(result.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if n := len(result.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d new", n))
	}
	if n := len(result.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d retired", n))
	}
	fmt.Fprintf(w, "\nTotal: %d changes (%s)\n", result.ChangeCount, strings.Join(parts, ", "))

	if result.Site != nil && verbose {
		fmt.Fprintf(w, "Rendered %d pages\n", result.Site.Pages)
	}
	return nil
}
