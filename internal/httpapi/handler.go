package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/florist/internal/locations"
	"github.com/UnknownOlympus/florist/internal/mapview"
	"github.com/UnknownOlympus/florist/internal/models"
	"github.com/UnknownOlympus/florist/internal/service"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "florist/httpapi"

// MsgBadCoordinates is returned for missing or out-of-range lat/lon parameters.
const MsgBadCoordinates = "Tọa độ không hợp lệ."

// AddressLookup resolves shop addresses.
type AddressLookup interface {
	Lookup(ctx context.Context, coords models.Coordinates) (string, error)
	Resolve(ctx context.Context, shops []models.Shop) []service.AddressedShop
}

// Deps are the collaborators of the API handlers.
type Deps struct {
	Table      *locations.Table   // nil when the table failed to load
	Index      *locations.Index   // nil when the table failed to load
	Shops      service.ShopFinder // Shop query
	Addresses  AddressLookup      // nil disables reverse lookups
	Renderer   *mapview.Renderer  // Locator page
	MapOptions mapview.Options    // Tile and marker settings
	PublicURL  string             // Base URL for page metadata; derived from the request when empty
	OGImage    string             // Preview image for page metadata; omitted when empty
}

// Handler serves the locator page and the JSON API.
type Handler struct {
	log  *slog.Logger
	deps Deps
}

// NewHandler creates a new Handler.
func NewHandler(log *slog.Logger, deps Deps) *Handler {
	deps.MapOptions.ReverseLookup = deps.MapOptions.ReverseLookup && deps.Addresses != nil

	return &Handler{log: log, deps: deps}
}

// CityEntry is one city of the selector.
type CityEntry struct {
	Name   string     `json:"name"`
	Center [2]float64 `json:"center"`
}

// CitiesResponse is the body of GET /api/v1/cities.
type CitiesResponse struct {
	Default string      `json:"default"`
	Cities  []CityEntry `json:"cities"`
}

// LocateResponse is the body of GET /api/v1/cities/locate.
type LocateResponse struct {
	Cities []string `json:"cities"`
}

// ShopsResponse is the body of GET /api/v1/cities/{city}/shops.
type ShopsResponse struct {
	City     string          `json:"city"`
	FellBack bool            `json:"fell_back"`
	Location models.Location `json:"location"`
	Count    int             `json:"count"`
	Shops    any             `json:"shops"`
}

// ReverseResponse is the body of GET /api/v1/reverse.
type ReverseResponse struct {
	DisplayName string `json:"display_name"`
}

func (h *Handler) cities() []CityEntry {
	names := h.deps.Table.Names()
	entries := make([]CityEntry, 0, len(names))
	for _, name := range names {
		loc, _ := h.deps.Table.Get(name)
		entries = append(entries, CityEntry{
			Name:   name,
			Center: [2]float64{loc.Center.Latitude, loc.Center.Longitude},
		})
	}

	return entries
}

// Page handles GET / and renders the locator page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "Page")
	defer span.End()

	data := mapview.PageData{
		PublicURL: h.publicURL(r),
		OGImage:   h.deps.OGImage,
		Options:   h.deps.MapOptions,
	}

	status := http.StatusOK
	if h.deps.Table == nil {
		status = http.StatusServiceUnavailable
		data.LoadError = service.MsgLocationsUnavailable
		span.SetStatus(codes.Error, "location table unavailable")
	} else {
		data.DefaultCity = h.deps.Table.DefaultCity()
		for _, c := range h.cities() {
			data.Cities = append(data.Cities, mapview.City{Name: c.Name, Center: c.Center})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.deps.Renderer.Page(w, data); err != nil {
		h.log.ErrorContext(ctx, "Failed to render page", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
	}
}

// Locations handles GET /vietnam_locations.json and returns the raw table.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Table == nil {
		ErrorResponse(w, r, http.StatusServiceUnavailable, CodeLocationsUnavailable, service.MsgLocationsUnavailable)
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, h.deps.Table)
}

// Cities handles GET /api/v1/cities.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "Cities")
	defer span.End()

	if h.deps.Table == nil {
		span.SetStatus(codes.Error, "location table unavailable")
		ErrorResponse(w, r, http.StatusServiceUnavailable, CodeLocationsUnavailable, service.MsgLocationsUnavailable)
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, CitiesResponse{
		Default: h.deps.Table.DefaultCity(),
		Cities:  h.cities(),
	})
}

// Locate handles GET /api/v1/cities/locate?lat=&lon=.
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "Locate")
	defer span.End()

	coords, ok := parseCoordinates(r)
	if !ok {
		span.SetStatus(codes.Error, "bad coordinates")
		ErrorResponse(w, r, http.StatusBadRequest, CodeBadRequest, MsgBadCoordinates)
		return
	}

	if h.deps.Index == nil {
		span.SetStatus(codes.Error, "location table unavailable")
		ErrorResponse(w, r, http.StatusServiceUnavailable, CodeLocationsUnavailable, service.MsgLocationsUnavailable)
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, LocateResponse{
		Cities: h.deps.Index.Locate(coords.Latitude, coords.Longitude),
	})
}

// Shops handles GET /api/v1/cities/{city}/shops. With addresses=1 every shop
// carries its resolved address.
func (h *Handler) Shops(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "Shops")
	defer span.End()

	city := cityParam(r)
	span.SetAttributes(attribute.String("city", city))

	result, ok := h.findShops(ctx, w, r, city)
	if !ok {
		span.SetStatus(codes.Error, "shop query failed")
		return
	}

	resp := ShopsResponse{
		City:     result.City,
		FellBack: result.FellBack,
		Location: result.Location,
		Count:    len(result.Shops),
		Shops:    result.Shops,
	}

	if wantAddresses(r) && h.deps.Addresses != nil {
		resp.Shops = h.deps.Addresses.Resolve(ctx, result.Shops)
	}

	WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Map handles GET /api/v1/cities/{city}/map.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "Map")
	defer span.End()

	city := cityParam(r)
	span.SetAttributes(attribute.String("city", city))

	result, ok := h.findShops(ctx, w, r, city)
	if !ok {
		span.SetStatus(codes.Error, "shop query failed")
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, mapview.Build(result, h.deps.MapOptions))
}

// Reverse handles GET /api/v1/reverse?lat=&lon=.
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "Reverse")
	defer span.End()

	coords, ok := parseCoordinates(r)
	if !ok {
		span.SetStatus(codes.Error, "bad coordinates")
		ErrorResponse(w, r, http.StatusBadRequest, CodeBadRequest, MsgBadCoordinates)
		return
	}

	address, err := h.deps.Addresses.Lookup(ctx, coords)
	if err != nil {
		h.log.DebugContext(ctx, "Reverse lookup failed", "lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		ErrorResponse(w, r, http.StatusBadGateway, CodeLookupFailed, service.UserMessage(err, ""))
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, ReverseResponse{DisplayName: address})
}

// findShops runs the shop query and writes the error envelope on failure.
func (h *Handler) findShops(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	city string,
) (*service.Result, bool) {
	result, err := h.deps.Shops.FindShops(ctx, city)
	if err == nil {
		return result, true
	}

	message := service.UserMessage(err, city)
	switch {
	case errors.Is(err, service.ErrNoShops):
		ErrorResponse(w, r, http.StatusNotFound, CodeEmptyResult, message)
	case errors.Is(err, locations.ErrTableUnavailable):
		ErrorResponse(w, r, http.StatusServiceUnavailable, CodeLocationsUnavailable, message)
	default:
		h.log.ErrorContext(ctx, "Shop query failed", "city", city, "error", err)
		ErrorResponse(w, r, http.StatusBadGateway, CodeQueryFailed, message)
	}

	return nil, false
}

// publicURL returns the configured base URL or the one the request came in on.
func (h *Handler) publicURL(r *http.Request) string {
	if h.deps.PublicURL != "" {
		return h.deps.PublicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host
}

// cityParam returns the decoded {city} path segment.
func cityParam(r *http.Request) string {
	city := chi.URLParam(r, "city")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(city); err == nil {
			return unescaped
		}
	}

	return city
}

func wantAddresses(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("addresses"))
	return err == nil && v
}

func parseCoordinates(r *http.Request) (models.Coordinates, bool) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return models.Coordinates{}, false
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lon}

	return coords, coords.Valid()
}
