package mapview

import (
	"github.com/UnknownOlympus/florist/internal/service"
)

// Map defaults.
const (
	DefaultZoom        = 14
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `© <a href="https://osm.org/copyright">OpenStreetMap</a>`
	// UnnamedShop is the marker title of a shop without a name tag.
	UnnamedShop = "Cửa hàng hoa không tên"
)

// Options controls how a map is drawn. Zero values select the defaults.
type Options struct {
	TileURL       string
	Attribution   string
	Zoom          int
	ReverseLookup bool // Resolve the address of a marker when its popup opens
}

func (o Options) withDefaults() Options {
	if o.TileURL == "" {
		o.TileURL = DefaultTileURL
	}
	if o.Attribution == "" {
		o.Attribution = DefaultAttribution
	}
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}

	return o
}

// Marker is one shop on the map.
type Marker struct {
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Title  string  `json:"title"`
	Coords string  `json:"coords"`
}

// MapView is everything the page needs to draw the shops of a city.
type MapView struct {
	City          string     `json:"city"`
	Center        [2]float64 `json:"center"` // [lat, lon]
	Zoom          int        `json:"zoom"`
	TileURL       string     `json:"tile_url"`
	Attribution   string     `json:"attribution"`
	ReverseLookup bool       `json:"reverse_lookup"`
	FellBack      bool       `json:"fell_back"`
	Markers       []Marker   `json:"markers"`
}

// Build turns a shop query result into a map view centered on the city.
func Build(result *service.Result, opts Options) MapView {
	opts = opts.withDefaults()

	markers := make([]Marker, 0, len(result.Shops))
	for _, shop := range result.Shops {
		title := shop.Name
		if title == "" {
			title = UnnamedShop
		}

		markers = append(markers, Marker{
			ID:     shop.ID,
			Lat:    shop.Lat,
			Lon:    shop.Lon,
			Title:  title,
			Coords: shop.Coordinates().String(),
		})
	}

	return MapView{
		City:          result.City,
		Center:        [2]float64{result.Location.Center.Latitude, result.Location.Center.Longitude},
		Zoom:          opts.Zoom,
		TileURL:       opts.TileURL,
		Attribution:   opts.Attribution,
		ReverseLookup: opts.ReverseLookup,
		FellBack:      result.FellBack,
		Markers:       markers,
	}
}
