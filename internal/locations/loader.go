package locations

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/UnknownOlympus/florist/internal/models"
)

//go:embed vietnam_locations.json
var embeddedTable []byte

// ErrTableUnavailable is returned when the location resource is missing or malformed.
var ErrTableUnavailable = errors.New("location table unavailable")

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader reads the static location table from the embedded copy, a file, or a URL.
type Loader struct {
	client      HTTPClient
	log         *slog.Logger
	defaultCity string
}

// NewLoader creates a loader with a plain HTTP client for URL sources.
func NewLoader(log *slog.Logger, defaultCity string) *Loader {
	const timeout = 10
	return &Loader{
		client:      &http.Client{Timeout: timeout * time.Second},
		log:         log,
		defaultCity: defaultCity,
	}
}

// NewLoaderWithClient creates a loader with a custom HTTP client.
func NewLoaderWithClient(client HTTPClient, log *slog.Logger, defaultCity string) *Loader {
	return &Loader{client: client, log: log, defaultCity: defaultCity}
}

// Embedded returns the raw table shipped with the binary.
func Embedded() []byte {
	return embeddedTable
}

// Load reads the table from source. An empty source means the embedded table,
// an http(s) URL is fetched once, anything else is treated as a file path.
// There is no retry.
func (l *Loader) Load(ctx context.Context, source string) (*Table, error) {
	raw, err := l.read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableUnavailable, err)
	}

	table, err := l.Parse(raw)
	if err != nil {
		return nil, err
	}

	l.log.InfoContext(ctx, "Location table loaded", "source", sourceName(source), "cities", table.Len())

	return table, nil
}

// Parse decodes a raw JSON table.
func (l *Loader) Parse(raw []byte) (*Table, error) {
	var entries map[string]models.Location
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode location table: %w", ErrTableUnavailable, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: table is empty", ErrTableUnavailable)
	}

	for name, loc := range entries {
		if _, err := ParseBBox(loc.BBox); err != nil {
			l.log.Warn("Location has a malformed bounding box", "city", name, "bbox", loc.BBox, "error", err)
		}
	}

	return NewTable(entries, l.defaultCity), nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "":
		return bytes.Clone(embeddedTable), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	default:
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read location file: %w", err)
		}
		return raw, nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.log.ErrorContext(ctx, "Location table request failed", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func sourceName(source string) string {
	if source == "" {
		return "embedded"
	}

	return source
}
