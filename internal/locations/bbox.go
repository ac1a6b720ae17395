package locations

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBBox is returned when a bounding box is not four comma-separated numbers.
var ErrInvalidBBox = errors.New("invalid bounding box")

// BBox is a bounding box in Overpass order: south, west, north, east.
type BBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// ParseBBox parses "south,west,north,east".
func ParseBBox(raw string) (BBox, error) {
	const bboxParts = 4

	parts := strings.Split(raw, ",")
	if len(parts) != bboxParts {
		return BBox{}, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidBBox, bboxParts, len(parts))
	}

	values := make([]float64, bboxParts)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return BBox{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBBox, part)
		}
		values[i] = v
	}

	return BBox{South: values[0], West: values[1], North: values[2], East: values[3]}, nil
}

// Contains reports whether the point lies inside the box, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// String formats the box back into the query syntax.
func (b BBox) String() string {
	return strconv.FormatFloat(b.South, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.West, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.North, 'f', -1, 64) + "," +
		strconv.FormatFloat(b.East, 'f', -1, 64)
}
