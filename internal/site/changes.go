package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pfrederiksen/uww-referees/internal/referee"
)

var changesTmpl = template.Must(template.New("changes").Parse(changesTemplate))

type changeEntry struct {
	ID      int
	Slug    string
	Name    string
	Country string
	Lines   []string
}

type changesData struct {
	Date    string
	Changed []changeEntry
	Added   []changeEntry
	Removed []changeEntry
}

// ColumnTitle turns a column name into a heading, e.g. is_active becomes
// "Is Active".
func ColumnTitle(column string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(column, "_", " "))
}

// ChangeLine describes one changed column for the report
func ChangeLine(fc referee.FieldChange) string {
	if fc.Field == "photo" {
		return "The profile picture"
	}
	return fmt.Sprintf("%s from %s to %s", ColumnTitle(fc.Field), fc.Old, fc.New)
}

// RenderChanges renders the change report fragment for diff
func (r *Renderer) RenderChanges(diff *referee.DiffResult) ([]byte, error) {
	data := changesData{Date: r.Today.String()}

	entry := func(ref *referee.Referee) changeEntry {
		return changeEntry{
			ID:      ref.IDNumber,
			Slug:    ref.Slug(),
			Name:    r.clean(ref.Name),
			Country: r.clean(ref.Country),
		}
	}

	for _, c := range diff.Changed {
		e := entry(c.Current)
		for _, fc := range c.Fields {
			fc.Old, fc.New = r.clean(fc.Old), r.clean(fc.New)
			e.Lines = append(e.Lines, ChangeLine(fc))
		}
		data.Changed = append(data.Changed, e)
	}
	for _, ref := range diff.Added {
		data.Added = append(data.Added, entry(ref))
	}
	for _, ref := range diff.Removed {
		data.Removed = append(data.Removed, entry(ref))
	}

	var buf bytes.Buffer
	if err := changesTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering change report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteChanges writes the change report into the output directory
func (r *Renderer) WriteChanges(diff *referee.DiffResult) error {
	out, err := r.RenderChanges(diff)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.OutputDir, ChangesFile), out, 0o644); err != nil {
		return fmt.Errorf("writing change report: %w", err)
	}
	return nil
}
