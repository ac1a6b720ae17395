package locations

import (
	"fmt"
	"log/slog"

	"github.com/dhconnelly/rtreego"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	dimensions  = 2
	minChildren = 2
	maxChildren = 8
	tolerance   = 1e-9
)

// cityArea wraps a city bounding box for R-tree indexing.
type cityArea struct {
	name string
	box  BBox
	rect *rtreego.Rect
}

func (ca *cityArea) Bounds() *rtreego.Rect {
	return ca.rect
}

// Index answers "which cities cover this point" over the table's bounding boxes.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex indexes every city of the table whose bounding box parses. Cities with
// malformed or degenerate boxes are skipped and logged.
func NewIndex(table *Table, log *slog.Logger) *Index {
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)

	for _, name := range table.Names() {
		loc, _ := table.Get(name)
		area, err := newCityArea(name, loc.BBox)
		if err != nil {
			log.Warn("City skipped from spatial index", "city", name, "error", err)
			continue
		}
		tree.Insert(area)
	}

	return &Index{tree: tree}
}

func newCityArea(name, raw string) (*cityArea, error) {
	box, err := ParseBBox(raw)
	if err != nil {
		return nil, err
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{box.South, box.West},
		[]float64{box.North - box.South, box.East - box.West},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBBox, err)
	}

	return &cityArea{name: name, box: box, rect: rect}, nil
}

// Size returns the number of indexed cities.
func (i *Index) Size() int {
	return i.tree.Size()
}

// Locate returns the cities whose bounding box contains the point, sorted by name.
// Neighbouring provinces may overlap at the edges, so more than one city can match.
func (i *Index) Locate(lat, lon float64) []string {
	hits := i.tree.SearchIntersect(rtreego.Point{lat, lon}.ToRect(tolerance))

	names := make([]string, 0, len(hits))
	for _, hit := range hits {
		area, ok := hit.(*cityArea)
		if !ok || !area.box.Contains(lat, lon) {
			continue
		}
		names = append(names, area.name)
	}

	collate.New(language.Vietnamese).SortStrings(names)

	return names
}
