package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the florist locator.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTP: Port and per-request timeout of the public server.
// - HealthPort: The port for the monitoring server (/healthz, /metrics).
// - LocationsSource: Where the city table is read from; empty means the embedded copy.
// - DefaultCity: The city selected initially and used for unknown names.
// - Overpass: Interpreter endpoint and query shape.
// - ProviderType: The reverse geocoding provider (nominatim, google).
// - APIKey: The API key of the provider (required for Google).
// - ReverseLookup: Whether shop addresses are resolved at all.
// - Workers: The number of concurrent address workers.
// - PublicURL: Base URL announced in page metadata.
// - OGImage: Preview image announced in page metadata, absolute or relative to PublicURL.
// - Tiles: Map tile template and attribution.
type Config struct {
	Env             string
	HTTP            HTTPConfig
	HealthPort      int
	LocationsSource string
	DefaultCity     string
	Overpass        OverpassConfig
	ProviderType    string
	APIKey          string
	ReverseLookup   bool
	Workers         int
	PublicURL       string
	OGImage         string
	Tiles           TileConfig
}

// HTTPConfig configures the public server and the upstream HTTP clients.
type HTTPConfig struct {
	Port    int           // Port of the page and API server.
	Timeout time.Duration // Upper bound of a request, upstream calls included.
}

// OverpassConfig configures the geodata interpreter.
type OverpassConfig struct {
	URL         string // Interpreter endpoint; empty selects the public instance.
	RequireName bool   // Only return shops that carry a name tag.
}

// TileConfig configures the map tiles drawn by the page.
type TileConfig struct {
	URL         string // Tile URL template with {s}, {z}, {x}, {y}.
	Attribution string // HTML attribution required by the tile provider.
}

// MustLoad reads the configuration from an optional .env file, an optional
// florist.yaml and FLORIST_* environment variables. It panics on values that
// cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	httpPort, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("workers"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer")
	}

	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil {
		panic("failed to parse http timeout from configuration")
	}

	requireName, err := strconv.ParseBool(v.GetString("overpass.require_name"))
	if err != nil {
		panic("failed to parse overpass name filter from configuration, must be a boolean")
	}

	reverseLookup, err := strconv.ParseBool(v.GetString("reverse_lookup"))
	if err != nil {
		panic("failed to parse reverse lookup flag from configuration, must be a boolean")
	}

	return &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:    httpPort,
			Timeout: timeout,
		},
		HealthPort:      healthPort,
		LocationsSource: v.GetString("locations.source"),
		DefaultCity:     v.GetString("default_city"),
		Overpass: OverpassConfig{
			URL:         v.GetString("overpass.url"),
			RequireName: requireName,
		},
		ProviderType:  v.GetString("provider.type"),
		APIKey:        v.GetString("provider.key"),
		ReverseLookup: reverseLookup,
		Workers:       workers,
		PublicURL:     strings.TrimRight(v.GetString("public_url"), "/"),
		OGImage:       v.GetString("og_image"),
		Tiles: TileConfig{
			URL:         v.GetString("tile.url"),
			Attribution: v.GetString("tile.attribution"),
		},
	}
}

// newViper returns a viper instance with the defaults, the optional config
// file and environment binding in place. FLORIST_HTTP_PORT maps to http.port.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("http.port", "3000")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("health.port", "8080")
	v.SetDefault("locations.source", "")
	v.SetDefault("default_city", "TP. Hồ Chí Minh")
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.require_name", "true")
	v.SetDefault("provider.type", "nominatim")
	v.SetDefault("provider.key", "")
	v.SetDefault("reverse_lookup", "true")
	v.SetDefault("workers", "2")
	v.SetDefault("public_url", "")
	v.SetDefault("og_image", "")
	v.SetDefault("tile.url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("tile.attribution", `© <a href="https://osm.org/copyright">OpenStreetMap</a>`)

	v.SetConfigName("florist")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // OK if missing

	v.SetEnvPrefix("FLORIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}
