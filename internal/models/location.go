package models

import (
	"encoding/json"
	"fmt"
)

// Location is a row of the static city table: the Overpass bounding box
// ("south,west,north,east") and the point the map is centered on.
type Location struct {
	BBox   string      `json:"bbox"`
	Center Coordinates `json:"center"`
}

// locationJSON mirrors the on-disk shape, where center is a [lat, lon] pair.
type locationJSON struct {
	BBox   string     `json:"bbox"`
	Center [2]float64 `json:"center"`
}

// MarshalJSON writes the center as a [lat, lon] pair.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{
		BBox:   l.BBox,
		Center: [2]float64{l.Center.Latitude, l.Center.Longitude},
	})
}

// UnmarshalJSON reads the [lat, lon] center pair.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		BBox   string    `json:"bbox"`
		Center []float64 `json:"center"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	const pairLength = 2
	if len(raw.Center) != pairLength {
		return fmt.Errorf("center must be a [lat, lon] pair, got %d values", len(raw.Center))
	}

	l.BBox = raw.BBox
	l.Center = Coordinates{Latitude: raw.Center[0], Longitude: raw.Center[1]}

	return nil
}
