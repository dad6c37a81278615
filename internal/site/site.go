package site

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pfrederiksen/uww-referees/internal/age"
	"github.com/pfrederiksen/uww-referees/internal/country"
	"github.com/pfrederiksen/uww-referees/internal/history"
	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/page"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

const (
	RefereesDir = "referees"
	ScriptFile  = "custom.js"
	StyleFile   = "style.css"
	ChangesFile = "referee_changes.html"
)

// VersionStore records and lists referee card versions
type VersionStore interface {
	RecordDiff(ctx context.Context, diff *referee.DiffResult, on string) error
	Versions(ctx context.Context, idNumber int) ([]history.Version, error)
}

// Renderer writes the static referee site
type Renderer struct {
	OutputDir string
	Store     VersionStore
	Toggle    page.ToggleConfig
	Age       page.AgeConfig
	Today     age.CalendarDate

	tmpl   *template.Template
	policy *bluemonday.Policy
}

// Summary reports what Apply wrote
type Summary struct {
	Pages     int `json:"pages"`
	Changed   int `json:"changed"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	AgeMissed int `json:"age_missed"`
}

// NewRenderer creates a Renderer with the default age settings
func NewRenderer(outputDir string, store VersionStore, toggle page.ToggleConfig) *Renderer {
	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	template.Must(tmpl.Parse(cardTemplate))

	return &Renderer{
		OutputDir: outputDir,
		Store:     store,
		Toggle:    toggle,
		Age:       page.DefaultAgeConfig(),
		Today:     age.Today(),
		tmpl:      tmpl,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Apply records diff in the version store and rewrites every page it
// touches, the shared assets and the change report.
func (r *Renderer) Apply(ctx context.Context, diff *referee.DiffResult) (Summary, error) {
	sum := Summary{
		Changed: len(diff.Changed),
		Added:   len(diff.Added),
		Removed: len(diff.Removed),
	}

	if err := r.Toggle.Validate(); err != nil {
		return sum, err
	}
	if err := r.Store.RecordDiff(ctx, diff, r.Today.String()); err != nil {
		return sum, fmt.Errorf("recording versions: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(r.OutputDir, RefereesDir), 0o755); err != nil {
		return sum, fmt.Errorf("creating site directory: %w", err)
	}

	for _, id := range touched(diff) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := r.RenderReferee(ctx, id)
		if err != nil {
			return sum, err
		}
		if res.Age == "" {
			sum.AgeMissed++
		}
		sum.Pages++
		logger.IncrCounter("site.pages")
	}

	if err := r.WriteAssets(); err != nil {
		return sum, err
	}
	if err := r.WriteChanges(diff); err != nil {
		return sum, err
	}

	logger.Info("Site updated", logger.Fields{
		"pages":   sum.Pages,
		"changed": sum.Changed,
		"added":   sum.Added,
		"removed": sum.Removed,
	})
	return sum, nil
}

func touched(diff *referee.DiffResult) []int {
	var ids []int
	for _, c := range diff.Changed {
		ids = append(ids, c.Current.IDNumber)
	}
	for _, ref := range diff.Added {
		ids = append(ids, ref.IDNumber)
	}
	for _, ref := range diff.Removed {
		ids = append(ids, ref.IDNumber)
	}
	return ids
}

// PagePath returns the site path of a referee page
func PagePath(idNumber int) string {
	return fmt.Sprintf("/%s/%07d.html", RefereesDir, idNumber)
}

type cardData struct {
	RecordedOn string
	Status     string
	StatusText string
	Name       string
	Category   string
	Photo      string
	Birthdate  string
	Sex        string
	Country    string
	Flag       string

	marker string
	blink  map[string]bool
}

// Class returns the classes of a card field, adding the toggle marker when
// the field changed in this version.
func (c cardData) Class(group string) string {
	class := "field field-" + group
	if c.blink[group] {
		class += " " + c.marker
	}
	return class
}

type pageData struct {
	ID      int
	Athena  string
	Current cardData
	History []cardData
	Toggle  page.ToggleConfig
}

// RenderReferee writes the page of one referee from its recorded versions
// and runs the page pass over it.
func (r *Renderer) RenderReferee(ctx context.Context, idNumber int) (page.Result, error) {
	versions, err := r.Store.Versions(ctx, idNumber)
	if err != nil {
		return page.Result{}, err
	}
	if len(versions) == 0 {
		return page.Result{}, fmt.Errorf("no recorded versions of referee %d", idNumber)
	}

	data := pageData{ID: idNumber, Toggle: r.Toggle}
	for i, v := range versions {
		card := r.card(v)
		if i == 0 {
			data.Current = card
			data.Athena = v.Referee.Athena
		} else {
			data.History = append(data.History, card)
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return page.Result{}, fmt.Errorf("rendering referee %d: %w", idNumber, err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return page.Result{}, fmt.Errorf("parsing referee %d: %w", idNumber, err)
	}

	path := PagePath(idNumber)
	res, err := page.Enhance(doc, page.Options{
		Path:   path,
		Toggle: r.Toggle,
		Age:    r.Age,
		Today:  r.Today,
	})
	if err != nil {
		logger.Warn("Page has no age line", logger.Fields{"id_number": idNumber}, err)
	}

	out, err := doc.Html()
	if err != nil {
		return res, fmt.Errorf("serialising referee %d: %w", idNumber, err)
	}
	if err := os.WriteFile(filepath.Join(r.OutputDir, filepath.FromSlash(path)), []byte(out), 0o644); err != nil {
		return res, fmt.Errorf("writing referee %d: %w", idNumber, err)
	}
	return res, nil
}

func (r *Renderer) card(v history.Version) cardData {
	ref := v.Referee

	status := "Inactive"
	switch {
	case v.Status == history.StatusRetired:
		status = "Retired"
	case ref.IsActive:
		status = "Active"
	}

	card := cardData{
		RecordedOn: v.RecordedOn,
		Status:     v.Status,
		StatusText: status,
		Name:       r.clean(ref.Name),
		Category:   ref.DisplayCategory(),
		Photo:      ref.Photo,
		Birthdate:  r.clean(ref.Birthdate),
		Sex:        ref.SexSymbol(),
		Country:    r.clean(ref.Country),
		Flag:       country.FlagForIOC(ref.CountryCode()),
		marker:     r.Toggle.MarkerClass,
		blink:      map[string]bool{},
	}
	for _, field := range v.ChangedFields {
		if g, ok := referee.BlinkGroup(field); ok {
			card.blink[g] = true
		}
	}
	return card
}

// clean strips markup from scraped text; the templates escape the result.
func (r *Renderer) clean(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}

// WriteAssets writes the shared browser script and stylesheet. The page
// pass already sets titles and age lines, so the script only binds the
// history toggle.
func (r *Renderer) WriteAssets() error {
	var js bytes.Buffer
	if err := page.WriteScript(&js, page.ScriptOptions{Toggle: r.Toggle}); err != nil {
		return fmt.Errorf("rendering script: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.OutputDir, ScriptFile), js.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}

	hl := r.Toggle.HighlightClass
	css := fmt.Sprintf(cssContent, hl, hl, hl)
	if err := os.WriteFile(filepath.Join(r.OutputDir, StyleFile), []byte(css), 0o644); err != nil {
		return fmt.Errorf("writing stylesheet: %w", err)
	}
	return nil
}
