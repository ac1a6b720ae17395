package locations

import (
	"encoding/json"

	"github.com/UnknownOlympus/florist/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultCity is used when a selected city is not present in the table.
const DefaultCity = "TP. Hồ Chí Minh"

// Table is the read-only city → location mapping. It is loaded once and never
// mutated afterwards, so it is safe for concurrent readers.
type Table struct {
	entries     map[string]models.Location
	names       []string
	defaultCity string
}

// NewTable builds a table from raw entries. defaultCity may be empty, in which
// case DefaultCity is used.
func NewTable(entries map[string]models.Location, defaultCity string) *Table {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}

	copied := make(map[string]models.Location, len(entries))
	names := make([]string, 0, len(entries))
	for name, loc := range entries {
		copied[name] = loc
		names = append(names, name)
	}

	collate.New(language.Vietnamese).SortStrings(names)

	return &Table{entries: copied, names: names, defaultCity: defaultCity}
}

// Names returns the city names in Vietnamese collation order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)

	return out
}

// Len returns the number of cities.
func (t *Table) Len() int {
	return len(t.entries)
}

// Get returns the location of city, if present.
func (t *Table) Get(city string) (models.Location, bool) {
	loc, ok := t.entries[city]

	return loc, ok
}

// DefaultCity returns the name used as the fallback selection.
func (t *Table) DefaultCity() string {
	if _, ok := t.entries[t.defaultCity]; ok || len(t.names) == 0 {
		return t.defaultCity
	}

	return t.names[0]
}

// Lookup resolves city to a location. An absent key falls back to the default
// city; fellBack reports whether that happened. ok is false only for an empty table.
func (t *Table) Lookup(city string) (name string, loc models.Location, fellBack, ok bool) {
	if loc, found := t.entries[city]; found {
		return city, loc, false, true
	}

	name = t.DefaultCity()
	loc, ok = t.entries[name]

	return name, loc, true, ok
}

// MarshalJSON writes the table in the shape it is loaded from.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.entries)
}
