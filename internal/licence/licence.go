// Package licence finds the published referees' list and extracts licence
// numbers from its text.
package licence

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListLinkText identifies the register link on the referees page
const ListLinkText = "Referees' list"

// DefaultExcludes skips the beach and grappling registers
var DefaultExcludes = []string{"Beach", "Grappling"}

// FindListLink returns the href of the first link whose text names the
// referees' list and none of the excluded words.
func FindListLink(doc *goquery.Document, excludes []string) (string, bool) {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := a.Text()
		if !strings.Contains(text, ListLinkText) {
			return true
		}
		for _, ex := range excludes {
			if strings.Contains(text, ex) {
				return true
			}
		}
		if h, ok := a.Attr("href"); ok && h != "" {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}

var (
	shortNumber = regexp.MustCompile(`^\d{1,3}$`)
	twoDigits   = regexp.MustCompile(`^\d{2}$`)
	allDigits   = regexp.MustCompile(`^\d*$`)
)

// ParseNumbers extracts licence numbers from the list's text. Each row ends
// with the licence number, which the PDF layout sometimes splits in two
// ("4 236"), so only the last two words of a line are considered:
//   - the last word must be one to three digits;
//   - rows whose last word is two digits after another number are dropped;
//   - a leading numeric word is joined with the last one.
func ParseNumbers(text string) []int {
	var numbers []int
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		first, last := words[len(words)-2], words[len(words)-1]

		if !shortNumber.MatchString(last) {
			continue
		}
		if twoDigits.MatchString(last) && allDigits.MatchString(first) {
			continue
		}

		raw := last
		if allDigits.MatchString(first) {
			raw = first + last
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// WithInstructors prepends instructor licences that the list does not carry
func WithInstructors(instructors, numbers []int) []int {
	out := make([]int, 0, len(instructors)+len(numbers))
	out = append(out, instructors...)
	return append(out, numbers...)
}
