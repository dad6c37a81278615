package page

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/uww-referees/internal/age"
)

// Options configures Enhance
type Options struct {
	Path   string // site path of the page, e.g. /referees/0000042.html
	Toggle ToggleConfig
	Age    AgeConfig
	Today  age.CalendarDate
}

// Result reports what Enhance wrote into the page
type Result struct {
	Identity Identity
	Title    string
	Age      string
}

// Enhance runs the page-ready behaviour on doc: it sets the title, puts the
// history toggle in its page-load state and inserts the age line. Title and
// toggle are always applied; an age failure is returned after them.
func Enhance(doc *goquery.Document, opts Options) (Result, error) {
	id := ParseIdentity(opts.Path, doc)
	res := Result{Identity: id, Title: id.Title()}
	SetTitle(doc, res.Title)

	NewHistoryToggle(opts.Toggle).Reconcile(doc)

	text, err := AnnotateAge(doc, opts.Age, opts.Today)
	if err != nil {
		return res, fmt.Errorf("annotating age: %w", err)
	}
	res.Age = text

	return res, nil
}
