package referee

import (
	"sort"
)

// FieldChange is a single column that differs between two snapshots
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Change describes a referee present in both snapshots with different values
type Change struct {
	Previous *Referee      `json:"previous"`
	Current  *Referee      `json:"current"`
	Fields   []FieldChange `json:"fields"`
}

// Has reports whether the named column changed
func (c *Change) Has(field string) bool {
	for _, f := range c.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames returns the changed column names in column order
func (c *Change) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		names = append(names, f.Field)
	}
	return names
}

// DiffResult contains the results of comparing two snapshots
type DiffResult struct {
	Changed []*Change  `json:"changed"`
	Added   []*Referee `json:"added"`
	Removed []*Referee `json:"removed"`
}

// Empty reports whether the snapshots are identical
func (d *DiffResult) Empty() bool {
	return len(d.Changed) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// Index maps referees by id number. Later duplicates win.
func Index(refs []*Referee) map[int]*Referee {
	idx := make(map[int]*Referee, len(refs))
	for _, r := range refs {
		idx[r.IDNumber] = r
	}
	return idx
}

// Diff compares the current register against the previous one, keyed on
// the id number. Every list in the result is sorted by id.
func Diff(previous, current []*Referee) *DiffResult {
	result := &DiffResult{
		Changed: make([]*Change, 0),
		Added:   make([]*Referee, 0),
		Removed: make([]*Referee, 0),
	}

	prev := Index(previous)
	cur := Index(current)

	for id, r := range cur {
		old, exists := prev[id]
		if !exists {
			result.Added = append(result.Added, r)
			continue
		}
		if fields := DetectChanges(old, r); len(fields) > 0 {
			result.Changed = append(result.Changed, &Change{Previous: old, Current: r, Fields: fields})
		}
	}

	for id, r := range prev {
		if _, exists := cur[id]; !exists {
			result.Removed = append(result.Removed, r)
		}
	}

	sort.Slice(result.Changed, func(i, j int) bool {
		return result.Changed[i].Current.IDNumber < result.Changed[j].Current.IDNumber
	})
	sortByID(result.Added)
	sortByID(result.Removed)

	return result
}

func sortByID(refs []*Referee) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].IDNumber < refs[j].IDNumber
	})
}

// DetectChanges compares two versions of a referee column by column
func DetectChanges(previous, current *Referee) []FieldChange {
	var changes []FieldChange

	oldFields := previous.Fields()
	for i, f := range current.Fields() {
		if oldFields[i].Value != f.Value {
			changes = append(changes, FieldChange{
				Field: f.Name,
				Old:   oldFields[i].Value,
				New:   f.Value,
			})
		}
	}

	return changes
}

// Blink groups shown on a profile card
const (
	BlinkCategory = "category"
	BlinkPhoto    = "photo"
	BlinkName     = "name"
	BlinkCountry  = "country"
	BlinkOther    = "other" // sex or birth date
)

// BlinkGroup returns the card group a changed column belongs to
func BlinkGroup(field string) (string, bool) {
	switch field {
	case "category", "photo", "name", "country":
		return field, true
	case "sex", "birthdate":
		return BlinkOther, true
	}
	return "", false
}

// BlinkGroups maps changed columns to the card groups that should blink
func BlinkGroups(changes []FieldChange) map[string]bool {
	groups := make(map[string]bool)
	for _, c := range changes {
		if g, ok := BlinkGroup(c.Field); ok {
			groups[g] = true
		}
	}
	return groups
}
