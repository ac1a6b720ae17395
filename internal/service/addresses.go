package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/florist/internal/geocoding"
	"github.com/UnknownOlympus/florist/internal/metrics"
	"github.com/UnknownOlympus/florist/internal/models"
)

// AddressedShop is a shop with its resolved address. When the lookup failed
// Address holds the coordinate text and Resolved is false.
type AddressedShop struct {
	models.Shop
	Address  string `json:"address"`
	Resolved bool   `json:"address_resolved"`
}

// AddressResolver resolves shop addresses through a reverse geocoding provider
// using a bounded pool of workers.
type AddressResolver struct {
	log          *slog.Logger       // Logger for logging resolver activities
	provider     geocoding.Provider // Reverse geocoding provider
	providerName string             // Name of the provider for logging
	metrics      *metrics.Metrics   // Metrics for tracking lookups
	numWorkers   int                // Number of concurrent workers
}

// NewAddressResolver creates a new AddressResolver. numWorkers below one is treated as one.
func NewAddressResolver(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
) *AddressResolver {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &AddressResolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		numWorkers:   numWorkers,
	}
}

// Lookup resolves a single point.
func (ar *AddressResolver) Lookup(ctx context.Context, coords models.Coordinates) (string, error) {
	startTime := time.Now()
	address, err := ar.provider.ReverseGeocode(ctx, coords)
	ar.metrics.UpstreamSeconds.WithLabelValues(metrics.APIReverse).Observe(time.Since(startTime).Seconds())

	if err != nil {
		ar.metrics.UpstreamErrors.WithLabelValues(metrics.APIReverse).Inc()
		return "", fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	return address, nil
}

// Resolve returns the shops in their original order, each with an address.
// A failed lookup keeps the coordinate text; errors are logged, not returned.
func (ar *AddressResolver) Resolve(ctx context.Context, shops []models.Shop) []AddressedShop {
	out := make([]AddressedShop, len(shops))
	for i, shop := range shops {
		out[i] = AddressedShop{Shop: shop, Address: shop.Coordinates().String()}
	}
	if len(shops) == 0 {
		return out
	}

	workers := min(ar.numWorkers, len(shops))
	ar.log.DebugContext(ctx, "Resolving shop addresses", "shops", len(shops), "num_workers", workers,
		"provider", ar.providerName)

	jobs := make(chan int, len(shops))
	var wgr sync.WaitGroup

	for i := 1; i <= workers; i++ {
		wgr.Add(1)
		go ar.worker(ctx, i, &wgr, jobs, out)
	}

	for idx := range shops {
		jobs <- idx
	}
	close(jobs)

	wgr.Wait()

	return out
}

// worker resolves the shops whose indexes arrive on jobs. Each index is
// written by exactly one worker.
func (ar *AddressResolver) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan int,
	out []AddressedShop,
) {
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}

		ar.metrics.ActiveWorkers.Inc()

		address, err := ar.Lookup(ctx, out[job].Coordinates())
		if err != nil {
			ar.log.DebugContext(ctx, "Failed to resolve address", "worker", idx, "shop", out[job].ID, "error", err)
		} else {
			out[job].Address = address
			out[job].Resolved = true
		}

		ar.metrics.ActiveWorkers.Dec()
	}
}
