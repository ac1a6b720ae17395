package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/florist/internal/config"
	"github.com/UnknownOlympus/florist/internal/httpapi"
	"github.com/UnknownOlympus/florist/internal/mapview"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the locator page, the JSON API and the monitoring server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env, os.Stdout)

	application, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	renderer, err := mapview.NewRenderer()
	if err != nil {
		return err
	}

	deps := httpapi.Deps{
		Table:    application.table,
		Index:    application.index,
		Shops:    application.shops,
		Renderer: renderer,
		MapOptions: mapview.Options{
			TileURL:       cfg.Tiles.URL,
			Attribution:   cfg.Tiles.Attribution,
			ReverseLookup: cfg.ReverseLookup,
		},
		PublicURL: cfg.PublicURL,
		OGImage:   cfg.OGImage,
	}
	if application.addresses != nil {
		deps.Addresses = application.addresses
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           httpapi.NewRouter(httpapi.NewHandler(logger, deps), logger, cfg.HTTP.Timeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.Timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	monitoring := newMonitoringServer(ctx, logger, application.reg, application.table != nil, cfg.HealthPort)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.HTTP.Port)
		return listen(server)
	})
	group.Go(func() error {
		logger.InfoContext(ctx, "Starting monitoring server", "port", cfg.HealthPort)
		return listen(monitoring)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(server.Shutdown(shutdownCtx), monitoring.Shutdown(shutdownCtx))
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = group.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", "error", err)
		return err
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

func listen(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s failed: %w", server.Addr, err)
	}

	return nil
}

// newMonitoringServer returns a server that provides health check and metrics endpoints.
// The health check fails while the location table is unavailable.
func newMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	tableLoaded bool,
	port int,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if !tableLoaded {
			status, body = http.StatusServiceUnavailable, "location table unavailable"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readTimeout := 5
	writeTimeout := 10

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}
