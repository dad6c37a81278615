package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Identity identifies a profile page: a numeric id taken from the page path
// and the name shown in the page's second h2.
type Identity struct {
	ID    int
	Valid bool // false when the path carries no leading integer
	Name  string
}

// IDFromPath extracts the leading integer of the path's final segment, up
// to the first underscore. "/referees/42_smith" and "/referees/0000042.html"
// both yield 42.
func IDFromPath(path string) (int, bool) {
	segment := path
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.Index(segment, "_"); i >= 0 {
		segment = segment[:i]
	}
	return leadingInt(segment)
}

// leadingInt parses an optionally signed run of decimal digits at the start
// of s, after leading whitespace. Trailing garbage is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ParseIdentity reads the page identity from path and doc
func ParseIdentity(path string, doc *goquery.Document) Identity {
	id, ok := IDFromPath(path)
	return Identity{
		ID:    id,
		Valid: ok,
		Name:  strings.TrimSpace(doc.Find("h2").Eq(1).Text()),
	}
}

// Title formats the identity as "<id> - <name>". An unparseable id renders
// as NaN and a missing name as an empty string.
func (i Identity) Title() string {
	if !i.Valid {
		return "NaN - " + i.Name
	}
	return fmt.Sprintf("%d - %s", i.ID, i.Name)
}

// SetTitle replaces the document title, creating the element if needed
func SetTitle(doc *goquery.Document, title string) {
	el := doc.Find("head title").First()
	if el.Length() == 0 {
		doc.Find("head").First().AppendHtml("<title></title>")
		el = doc.Find("head title").First()
	}
	el.SetText(title)
}
