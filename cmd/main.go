package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/UnknownOlympus/florist/internal/config"
	"github.com/UnknownOlympus/florist/internal/geocoding"
	"github.com/UnknownOlympus/florist/internal/locations"
	"github.com/UnknownOlympus/florist/internal/metrics"
	"github.com/UnknownOlympus/florist/internal/overpass"
	"github.com/UnknownOlympus/florist/internal/service"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// overpassTimeoutSeconds is the server-side budget put into every query.
const overpassTimeoutSeconds = 25

var rootCmd = &cobra.Command{
	Use:   "florist",
	Short: "Find florist shops in Vietnamese cities",
	Long: `Florist serves a map of florist shops for a selected Vietnamese city or province,
using OpenStreetMap data from the Overpass API. Without a subcommand it starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, citiesCmd, shopsCmd, browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	reg       *prometheus.Registry
	metrics   *metrics.Metrics
	table     *locations.Table         // nil when the table failed to load
	index     *locations.Index         // nil when the table failed to load
	shops     *service.ShopService     // Shop query
	addresses *service.AddressResolver // nil when reverse lookup is disabled
}

// newApp loads the city table and builds the services. A table that cannot be
// loaded is only logged: the app stays usable and answers every shop query
// with the table error.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	a := &app{cfg: cfg, log: logger, reg: reg, metrics: appMetrics}

	loader := locations.NewLoader(logger, cfg.DefaultCity)
	startTime := time.Now()
	table, err := loader.Load(ctx, cfg.LocationsSource)
	appMetrics.UpstreamSeconds.WithLabelValues(metrics.APILocation).Observe(time.Since(startTime).Seconds())
	if err != nil {
		appMetrics.UpstreamErrors.WithLabelValues(metrics.APILocation).Inc()
		logger.ErrorContext(ctx, "Failed to load location table", "source", cfg.LocationsSource, "error", err)
	} else {
		a.table = table
		a.index = locations.NewIndex(table, logger)
	}

	client := overpass.NewClient(cfg.Overpass.URL, cfg.HTTP.Timeout, logger)
	a.shops = service.NewShopService(logger, a.table, client, appMetrics, overpass.QueryOptions{
		RequireName:    cfg.Overpass.RequireName,
		TimeoutSeconds: overpassTimeoutSeconds,
	})

	if cfg.ReverseLookup {
		// Google allows far more than Nominatim; split its budget between the workers.
		rateLimit := 50
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:      geocoding.ProviderType(cfg.ProviderType),
			APIKey:    cfg.APIKey,
			RateLimit: rateLimit / max(cfg.Workers, 1),
			Timeout:   cfg.HTTP.Timeout,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create geocoding provider: %w", err)
		}

		logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)
		a.addresses = service.NewAddressResolver(logger, provider, cfg.ProviderType, appMetrics, cfg.Workers)
	}

	return a, nil
}

// requireTable returns the table or the error the CLI reports when it is missing.
func (a *app) requireTable() (*locations.Table, error) {
	if a.table == nil {
		return nil, fmt.Errorf("%s (%w)", service.MsgLocationsUnavailable, locations.ErrTableUnavailable)
	}

	return a.table, nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			tint.NewHandler(out, &tint.Options{
				Level:      slog.LevelDebug,
				AddSource:  true,
				TimeFormat: time.Kitchen,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
