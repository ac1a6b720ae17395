package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/florist/internal/locations"
	"github.com/UnknownOlympus/florist/internal/metrics"
	"github.com/UnknownOlympus/florist/internal/models"
	"github.com/UnknownOlympus/florist/internal/overpass"
)

// ShopQuerier executes an Overpass QL query.
type ShopQuerier interface {
	Interpret(ctx context.Context, query string) (*overpass.Response, error)
}

// ShopFinder returns the florist shops of a city.
type ShopFinder interface {
	FindShops(ctx context.Context, city string) (*Result, error)
}

// Result is the outcome of a successful shop query.
type Result struct {
	City     string          `json:"city"`      // City whose bbox was queried
	Location models.Location `json:"location"`  // Bbox and map center of City
	Shops    []models.Shop   `json:"shops"`     // Never empty
	FellBack bool            `json:"fell_back"` // The requested city was absent and City is the default
}

// ShopService resolves a city to its bounding box and queries florist shops inside it.
type ShopService struct {
	log     *slog.Logger          // Logger for logging service activities
	table   *locations.Table      // City table; nil when it failed to load
	client  ShopQuerier           // Overpass client
	metrics *metrics.Metrics      // Metrics for tracking query outcomes
	opts    overpass.QueryOptions // Query shape
}

// NewShopService creates a new ShopService. table may be nil, in which case
// every query fails with locations.ErrTableUnavailable.
func NewShopService(
	log *slog.Logger,
	table *locations.Table,
	client ShopQuerier,
	metrics *metrics.Metrics,
	opts overpass.QueryOptions,
) *ShopService {
	return &ShopService{
		log:     log,
		table:   table,
		client:  client,
		metrics: metrics,
		opts:    opts,
	}
}

// Table returns the city table the service queries against.
func (s *ShopService) Table() *locations.Table {
	return s.table
}

// FindShops queries the florist shops inside the bounding box of city. An
// unknown city falls back to the default one. On error no shop list is returned.
func (s *ShopService) FindShops(ctx context.Context, city string) (*Result, error) {
	if s.table == nil {
		return nil, locations.ErrTableUnavailable
	}

	name, loc, fellBack, ok := s.table.Lookup(city)
	if !ok {
		return nil, fmt.Errorf("%w: no default city", locations.ErrTableUnavailable)
	}
	if fellBack {
		s.log.InfoContext(ctx, "City not in table, using default", "requested", city, "city", name)
	}

	query := overpass.BuildQuery(loc.BBox, s.opts)

	startTime := time.Now()
	resp, err := s.client.Interpret(ctx, query)
	s.metrics.UpstreamSeconds.WithLabelValues(metrics.APIOverpass).Observe(time.Since(startTime).Seconds())

	if err != nil {
		// The caller gave up; a deadline still counts as a failed query.
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			s.log.DebugContext(ctx, "Shop query canceled", "city", name, "error", err)
			return nil, fmt.Errorf("shop query for %s canceled: %w", name, ctxErr)
		}
		s.log.ErrorContext(ctx, "Failed to query shops", "city", name, "error", err)
		s.metrics.UpstreamErrors.WithLabelValues(metrics.APIOverpass).Inc()
		s.metrics.ShopQueries.WithLabelValues(metrics.StatusFailure).Inc()
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	shops := overpass.Filter(resp.Elements)
	if len(shops) == 0 {
		s.log.InfoContext(ctx, "No shops found", "city", name, "elements", len(resp.Elements))
		s.metrics.ShopQueries.WithLabelValues(metrics.StatusEmpty).Inc()
		return nil, fmt.Errorf("%w in %s", ErrNoShops, name)
	}

	s.log.DebugContext(ctx, "Shops found", "city", name, "shops", len(shops), "elements", len(resp.Elements))
	s.metrics.ShopQueries.WithLabelValues(metrics.StatusSuccess).Inc()

	return &Result{City: name, Location: loc, Shops: shops, FellBack: fellBack}, nil
}
