package referee

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/uww-referees/internal/age"
)

// Referee is one row of the referee register
type Referee struct {
	IDNumber  int    `csv:"id_number" json:"id_number"`
	Name      string `csv:"name" json:"name"`
	Sex       string `csv:"sex" json:"sex"`
	Country   string `csv:"country" json:"country"`
	Category  string `csv:"category" json:"category"`
	Birthdate string `csv:"birthdate" json:"birthdate"` // YYYY-MM-DD
	IsActive  bool   `csv:"is_active" json:"is_active"`
	Photo     string `csv:"photo" json:"photo"`
	Athena    string `csv:"athena" json:"athena"`
}

// Columns lists the register columns in file order
var Columns = []string{
	"id_number",
	"name",
	"sex",
	"country",
	"category",
	"birthdate",
	"is_active",
	"photo",
	"athena",
}

// Field is a named column value
type Field struct {
	Name  string
	Value string
}

// Fields returns the referee's values in Columns order
func (r *Referee) Fields() []Field {
	return []Field{
		{"id_number", strconv.Itoa(r.IDNumber)},
		{"name", r.Name},
		{"sex", r.Sex},
		{"country", r.Country},
		{"category", r.Category},
		{"birthdate", r.Birthdate},
		{"is_active", strconv.FormatBool(r.IsActive)},
		{"photo", r.Photo},
		{"athena", r.Athena},
	}
}

// Slug returns the zero-padded id used for page file names
func (r *Referee) Slug() string {
	return fmt.Sprintf("%07d", r.IDNumber)
}

// DisplayCategory returns the category, or "?" when it is not a roman
// numeral grade (IS, I, II, III).
func (r *Referee) DisplayCategory() string {
	if strings.Contains(r.Category, "I") {
		return r.Category
	}
	return "?"
}

// SexSymbol returns ♀, ♂ or ? for the recorded sex
func (r *Referee) SexSymbol() string {
	switch r.Sex {
	case "F":
		return "♀"
	case "M":
		return "♂"
	default:
		return "?"
	}
}

// BirthDate parses the Birthdate column
func (r *Referee) BirthDate() (age.CalendarDate, error) {
	return age.ParseISO(r.Birthdate)
}

// CountryCode returns the three-letter IOC prefix of the country column
func (r *Referee) CountryCode() string {
	code := strings.TrimSpace(r.Country)
	if len(code) > 3 {
		code = code[:3]
	}
	return strings.ToUpper(code)
}
