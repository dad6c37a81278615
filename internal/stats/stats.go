// Package stats summarises the register per category and draws the
// birth-year charts published with the site.
package stats

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

// Categories are the Olympic styles grades, highest first
var Categories = []string{"IS", "I", "II", "III"}

// YMax caps the count axis of every chart
const YMax = 40

var palette = map[string][2]color.RGBA{
	"IS":  {{R: 255, G: 215, A: 255}, {R: 255, G: 255, A: 255}},
	"I":   {{R: 255, A: 255}, {R: 255, G: 192, B: 203, A: 255}},
	"II":  {{G: 128, A: 255}, {R: 144, G: 238, B: 144, A: 255}},
	"III": {{B: 255, A: 255}, {R: 173, G: 216, B: 230, A: 255}},
}

// CategoryStats holds the counts of one category. The per-year slices are
// indexed from FirstYear and span the birth years of every graded referee.
type CategoryStats struct {
	Category  string `json:"category"`
	Total     int    `json:"total"`
	Female    int    `json:"female"`
	Male      int    `json:"male"`
	Active    int    `json:"active"`
	Inactive  int    `json:"inactive"`
	FirstYear int    `json:"first_year"`

	FemaleByYear   []int `json:"female_by_year"`
	MaleByYear     []int `json:"male_by_year"`
	InactiveByYear []int `json:"inactive_by_year"`
}

// Compute counts graded referees per category. Referees outside the four
// grades or without a readable birth date are left out.
func Compute(refs []*referee.Referee) []CategoryStats {
	type row struct {
		ref  *referee.Referee
		year int
	}

	graded := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		graded[c] = true
	}

	var rows []row
	first, last := 0, 0
	for _, ref := range refs {
		if !graded[ref.Category] {
			continue
		}
		birth, err := ref.BirthDate()
		if err != nil {
			logger.Debug("Skipping referee without birth date", logger.Fields{"id_number": ref.IDNumber})
			continue
		}
		if len(rows) == 0 || birth.Year < first {
			first = birth.Year
		}
		if len(rows) == 0 || birth.Year > last {
			last = birth.Year
		}
		rows = append(rows, row{ref, birth.Year})
	}

	span := 0
	if len(rows) > 0 {
		span = last - first + 1
	}

	out := make([]CategoryStats, 0, len(Categories))
	for _, cat := range Categories {
		s := CategoryStats{
			Category:       cat,
			FirstYear:      first,
			FemaleByYear:   make([]int, span),
			MaleByYear:     make([]int, span),
			InactiveByYear: make([]int, span),
		}
		for _, r := range rows {
			if r.ref.Category != cat {
				continue
			}
			i := r.year - first
			s.Total++
			switch r.ref.Sex {
			case "F":
				s.Female++
				s.FemaleByYear[i]++
			case "M":
				s.Male++
				s.MaleByYear[i]++
			}
			if r.ref.IsActive {
				s.Active++
			} else {
				s.Inactive++
				s.InactiveByYear[i]++
			}
		}
		out = append(out, s)
	}
	return out
}

// Chart draws the stacked female/male birth-year bars of s
func Chart(s CategoryStats) (*plot.Plot, error) {
	if s.Total == 0 {
		return nil, fmt.Errorf("no referees in category %s", s.Category)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("UWW %s (%d referees)\nsplit by gender", s.Category, s.Total)
	p.X.Label.Text = "Birthyear"
	p.Y.Label.Text = "Number of referees\nby birthyear"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	width := vg.Points(6)
	female, err := plotter.NewBarChart(toValues(s.FemaleByYear), width)
	if err != nil {
		return nil, fmt.Errorf("female bars: %w", err)
	}
	male, err := plotter.NewBarChart(toValues(s.MaleByYear), width)
	if err != nil {
		return nil, fmt.Errorf("male bars: %w", err)
	}

	colors := palette[s.Category]
	female.Color = colors[0]
	female.LineStyle.Width = 0
	male.Color = colors[1]
	male.LineStyle.Width = 0
	male.StackOn(female)

	p.Add(female, male)
	p.Legend.Add(fmt.Sprintf("Female (%d)", s.Female), female)
	p.Legend.Add(fmt.Sprintf("Male (%d)", s.Male), male)
	p.Legend.Top = true

	labels := make([]string, len(s.FemaleByYear))
	for i := range labels {
		if year := s.FirstYear + i; year%5 == 0 {
			labels[i] = strconv.Itoa(year)
		}
	}
	p.NominalX(labels...)

	p.Y.Min = 0
	p.Y.Max = YMax
	return p, nil
}

func toValues(counts []int) plotter.Values {
	v := make(plotter.Values, len(counts))
	for i, c := range counts {
		v[i] = float64(c)
	}
	return v
}

// ChartPath returns where the chart of a category is written under dir
func ChartPath(dir, category string) string {
	return filepath.Join(dir, "img", fmt.Sprintf("stats_%s.png", category))
}

// WriteCharts saves a PNG per non-empty category under dir/img and returns
// the written paths.
func WriteCharts(dir string, stats []CategoryStats) ([]string, error) {
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}

	var written []string
	for _, s := range stats {
		if s.Total == 0 {
			logger.Warn("Skipping empty category", logger.Fields{"category": s.Category}, nil)
			continue
		}
		p, err := Chart(s)
		if err != nil {
			return written, err
		}
		path := ChartPath(dir, s.Category)
		if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
			return written, fmt.Errorf("saving %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
