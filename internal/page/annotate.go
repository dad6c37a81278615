package page

import (
	"errors"
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/uww-referees/internal/age"
)

var (
	ErrNoBirthDate     = errors.New("no element carries a birth date")
	ErrNoAnchor        = errors.New("no anchor heading for the age line")
	ErrFutureBirthDate = errors.New("birth date is after the reference day")
)

// AgeConfig locates the birth date and where the age line goes
type AgeConfig struct {
	SourceClass string `koanf:"source_class" yaml:"source_class" json:"sourceClass"` // class of the element holding the date
	Attr        string `koanf:"attr" yaml:"attr" json:"attr"`                         // attribute holding the ISO-8601 date
	Anchor      string `koanf:"anchor" yaml:"anchor" json:"anchor"`                   // heading tag the line is inserted after
	Tag         string `koanf:"tag" yaml:"tag" json:"tag"`                            // tag of the inserted element
	Class       string `koanf:"class" yaml:"class" json:"class"`
}

// DefaultAgeConfig reads .birthdate[data-birthdate] and inserts an h4 after
// the first h3.
func DefaultAgeConfig() AgeConfig {
	return AgeConfig{
		SourceClass: "birthdate",
		Attr:        "data-birthdate",
		Anchor:      "h3",
		Tag:         "h4",
		Class:       "age",
	}
}

// AnnotateAge computes the age from the first birth-date attribute in doc and
// inserts it right after the first anchor heading. It returns the inserted
// text. Every call inserts a new element.
func AnnotateAge(doc *goquery.Document, cfg AgeConfig, today age.CalendarDate) (string, error) {
	src := doc.Find(fmt.Sprintf(".%s[%s]", cfg.SourceClass, cfg.Attr)).First()
	raw, ok := src.Attr(cfg.Attr)
	if !ok {
		return "", ErrNoBirthDate
	}

	birth, err := age.ParseISO(raw)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", cfg.Attr, err)
	}
	if today.Before(birth) {
		return "", fmt.Errorf("%w: %s", ErrFutureBirthDate, birth)
	}

	anchor := doc.Find(cfg.Anchor).First()
	if anchor.Length() == 0 {
		return "", ErrNoAnchor
	}

	text := age.Describe(birth, today)
	class := ""
	if cfg.Class != "" {
		class = fmt.Sprintf(` class="%s"`, html.EscapeString(cfg.Class))
	}
	anchor.AfterHtml(fmt.Sprintf("<%s%s>%s</%s>", cfg.Tag, class, html.EscapeString(text), cfg.Tag))

	return text, nil
}
