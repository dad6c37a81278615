package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/uww-referees/internal/country"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

// MaxLength is the post length limit
const MaxLength = 280

// Notifier defines the interface for posting register announcements
type Notifier interface {
	// Notify posts one message per announcement
	Notify(announcements []Announcement) error
}

// Kind is what happened to a referee
type Kind string

const (
	KindAdded    Kind = "added"
	KindPromoted Kind = "category"
	KindRetired  Kind = "retired"
)

// Announcement is one postable register change
type Announcement struct {
	Kind    Kind
	Referee *referee.Referee
	From    string // previous category, for KindPromoted
	PageURL string // link to the referee page, optional
}

// FromDiff builds announcements for new referees, category changes and
// retirements, in that order. siteURL is the public base of the site; an
// empty siteURL leaves links out.
func FromDiff(diff *referee.DiffResult, siteURL string) []Announcement {
	link := func(ref *referee.Referee) string {
		if siteURL == "" {
			return ""
		}
		return fmt.Sprintf("%s/referees/%s.html", strings.TrimRight(siteURL, "/"), ref.Slug())
	}

	var out []Announcement
	for _, ref := range diff.Added {
		out = append(out, Announcement{Kind: KindAdded, Referee: ref, PageURL: link(ref)})
	}
	for _, c := range diff.Changed {
		for _, f := range c.Fields {
			if f.Field == "category" {
				out = append(out, Announcement{Kind: KindPromoted, Referee: c.Current, From: f.Old, PageURL: link(c.Current)})
			}
		}
	}
	for _, ref := range diff.Removed {
		out = append(out, Announcement{Kind: KindRetired, Referee: ref, PageURL: link(ref)})
	}
	return out
}

// Text formats the announcement as a post of at most MaxLength characters
func (a Announcement) Text() string {
	ref := a.Referee

	var b strings.Builder
	switch a.Kind {
	case KindAdded:
		b.WriteString("🆕 New UWW referee\n\n")
	case KindPromoted:
		b.WriteString("📈 UWW referee category change\n\n")
	case KindRetired:
		b.WriteString("👋 UWW referee retired\n\n")
	}

	if flag := country.FlagForIOC(ref.CountryCode()); flag != "" {
		b.WriteString(flag + " ")
	}
	fmt.Fprintf(&b, "%s (%s) %s\n", ref.Name, ref.CountryCode(), ref.SexSymbol())

	if a.Kind == KindPromoted {
		from := a.From
		if from == "" {
			from = "?"
		}
		fmt.Fprintf(&b, "Category %s → %s\n", from, ref.DisplayCategory())
	} else {
		fmt.Fprintf(&b, "Category %s\n", ref.DisplayCategory())
	}

	if a.PageURL != "" {
		fmt.Fprintf(&b, "\n🔗 %s\n", a.PageURL)
	}
	b.WriteString("\n#wrestling #UWW")

	return truncate(b.String(), MaxLength)
}

// truncate cuts s to max runes, ending with an ellipsis when cut
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
