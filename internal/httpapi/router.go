package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/florist/internal/mapview"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the middleware stack and the routes of h. A zero timeout
// disables the per-request deadline.
func NewRouter(h *Handler, log *slog.Logger, timeout time.Duration) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(StructuredLogger(log))
	router.Use(middleware.Recoverer)
	if timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}
	router.Use(middleware.Compress(5, "application/json", "text/html"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", h.Page)
	router.Get("/vietnam_locations.json", h.Locations)
	router.Handle(mapview.StaticPrefix+"*", mapview.Static())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", h.Cities)
		r.Get("/cities/locate", h.Locate)
		r.Get("/cities/{city}/shops", h.Shops)
		r.Get("/cities/{city}/map", h.Map)
		if h.deps.Addresses != nil {
			r.Get("/reverse", h.Reverse)
		}
	})

	return router
}
