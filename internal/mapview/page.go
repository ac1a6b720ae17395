package mapview

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/UnknownOlympus/florist/internal/service"
)

// Page metadata.
const (
	PageTitle       = "Cửa hàng hoa"
	PageDescription = "Danh sách cửa hàng hoa"
	PageHeading     = "🌸 Tìm Cửa Hàng Bán Hoa"
)

//go:embed templates/index.html
var templates embed.FS

// City is one entry of the selector.
type City struct {
	Name   string     `json:"name"`
	Center [2]float64 `json:"center"`
}

// PageData is the input of the locator page.
type PageData struct {
	PublicURL   string // Absolute base URL used in Open Graph tags
	OGImage     string // Preview image, absolute or relative to PublicURL; omitted when empty
	Cities      []City
	DefaultCity string
	LoadError   string // Set when the city table could not be loaded
	Options     Options
}

// pageConfig is handed to the page script as JSON.
type pageConfig struct {
	DefaultCity   string     `json:"defaultCity"`
	Center        [2]float64 `json:"center"`
	Zoom          int        `json:"zoom"`
	TileURL       string     `json:"tileURL"`
	Attribution   string     `json:"attribution"`
	ReverseLookup bool       `json:"reverseLookup"`
	Loading       string     `json:"loading"`
	QueryFailed   string     `json:"queryFailed"`
	UnnamedShop   string     `json:"unnamedShop"`
	MarkerIcon    markerIcon `json:"markerIcon"`
}

type pageView struct {
	Title       string
	Description string
	Heading     string
	PublicURL   string
	OGImage     string
	OGWidth     int
	OGHeight    int
	Cities      []City
	DefaultCity string
	LoadError   string
	Loading     string
	Config      pageConfig
}

// Renderer renders the locator page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the locator page for data to w.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	opts := data.Options.withDefaults()

	var center [2]float64
	for _, city := range data.Cities {
		if city.Name == data.DefaultCity {
			center = city.Center
			break
		}
	}

	view := pageView{
		Title:       PageTitle,
		Description: PageDescription,
		Heading:     PageHeading,
		PublicURL:   data.PublicURL,
		OGImage:     absoluteURL(data.PublicURL, data.OGImage),
		OGWidth:     OGImageWidth,
		OGHeight:    OGImageHeight,
		Cities:      data.Cities,
		DefaultCity: data.DefaultCity,
		LoadError:   data.LoadError,
		Loading:     service.MsgLoading,
		Config: pageConfig{
			DefaultCity:   data.DefaultCity,
			Center:        center,
			Zoom:          opts.Zoom,
			TileURL:       opts.TileURL,
			Attribution:   opts.Attribution,
			ReverseLookup: opts.ReverseLookup,
			Loading:       service.MsgLoading,
			QueryFailed:   service.MsgQueryFailed,
			UnnamedShop:   UnnamedShop,
			MarkerIcon:    floristIcon(),
		},
	}

	if err := r.tmpl.ExecuteTemplate(w, "index.html", view); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return nil
}
