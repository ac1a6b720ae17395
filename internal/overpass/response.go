package overpass

import (
	"github.com/UnknownOlympus/florist/internal/models"
)

// Element is a single feature of an Overpass JSON response. Lat and Lon are
// pointers because ways and relations carry no coordinates of their own.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat,omitempty"`
	Lon  *float64          `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Response is the JSON payload returned by the interpreter.
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// Filter keeps only point features with valid coordinates and converts them to shops.
// Ways, relations and nodes with missing or out-of-range coordinates are dropped.
func Filter(elements []Element) []models.Shop {
	shops := make([]models.Shop, 0, len(elements))

	for _, el := range elements {
		if el.Type != "node" || el.Lat == nil || el.Lon == nil {
			continue
		}

		coords := models.Coordinates{Latitude: *el.Lat, Longitude: *el.Lon}
		if !coords.Valid() {
			continue
		}

		shops = append(shops, models.Shop{
			ID:       el.ID,
			Lat:      coords.Latitude,
			Lon:      coords.Longitude,
			Name:     el.Tags["name"],
			ShopType: el.Tags["shop"],
		})
	}

	return shops
}
