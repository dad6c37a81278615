package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/uww-referees/internal/referee"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByID       SortOrder = "id"
	SortByName     SortOrder = "name"
	SortByCountry  SortOrder = "country"
	SortByCategory SortOrder = "category"
)

// parseSortOrder validates a --sort value
func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortByID, SortByName, SortByCountry, SortByCategory:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be id, name, country or category)", s)
}

// categoryRank orders grades from IS down to III, unknown last
var categoryRank = map[string]int{"IS": 0, "I": 1, "II": 2, "III": 3}

// sortReferees sorts a slice of referees based on the specified sort order
func sortReferees(refs []*referee.Referee, order SortOrder) {
	sort.SliceStable(refs, func(i, j int) bool {
		return less(refs[i], refs[j], order)
	})
}

// sortChanges sorts changes by their current referee
func sortChanges(changes []*referee.Change, order SortOrder) {
	sort.SliceStable(changes, func(i, j int) bool {
		return less(changes[i].Current, changes[j].Current, order)
	})
}

// less reports whether a sorts before b; ties fall back to the id number
func less(a, b *referee.Referee, order SortOrder) bool {
	switch order {
	case SortByName:
		if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
			return na < nb
		}
	case SortByCountry:
		if ca, cb := a.CountryCode(), b.CountryCode(); ca != cb {
			return ca < cb
		}
	case SortByCategory:
		if ra, rb := rank(a.Category), rank(b.Category); ra != rb {
			return ra < rb
		}
	}
	return a.IDNumber < b.IDNumber
}

func rank(category string) int {
	if r, ok := categoryRank[category]; ok {
		return r
	}
	return len(categoryRank)
}
