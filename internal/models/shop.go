package models

// Shop is a florist point returned by a geodata query. Shops carry no identity
// across queries; every query produces a fresh list.
type Shop struct {
	ID       int64   `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Name     string  `json:"name,omitempty"`
	ShopType string  `json:"shop,omitempty"`
}

// Coordinates returns the shop position.
func (s Shop) Coordinates() Coordinates {
	return Coordinates{Latitude: s.Lat, Longitude: s.Lon}
}
