package mapview

import (
	"embed"
	"net/http"
	"strings"
)

// Paths of the embedded page assets.
const (
	StaticPrefix   = "/static/"
	MarkerIconPath = StaticPrefix + "florist.svg"
)

// Marker icon size in pixels; the pin tip sits on the shop.
const markerIconSize = 32

// Size announced for the Open Graph preview image.
const (
	OGImageWidth  = 1200
	OGImageHeight = 630
)

//go:embed static
var static embed.FS

// markerIcon is the Leaflet icon of a shop marker.
type markerIcon struct {
	URL         string `json:"url"`
	Size        [2]int `json:"size"`
	Anchor      [2]int `json:"anchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
}

func floristIcon() markerIcon {
	return markerIcon{
		URL:         MarkerIconPath,
		Size:        [2]int{markerIconSize, markerIconSize},
		Anchor:      [2]int{markerIconSize / 2, markerIconSize},
		PopupAnchor: [2]int{0, -markerIconSize},
	}
}

// Static serves the embedded assets under StaticPrefix. Directory listings are not served.
func Static() http.Handler {
	files := http.FileServerFS(static)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// absoluteURL resolves a site-relative path against the public base URL.
func absoluteURL(publicURL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	return strings.TrimRight(publicURL, "/") + "/" + strings.TrimLeft(ref, "/")
}
