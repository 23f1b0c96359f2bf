// Package main provides the live analysis hub: a websocket server where each
// connection drives its own analysis session against the upstream API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/client"
	"github.com/raphaelgruber/commnet/internal/config"
	"github.com/raphaelgruber/commnet/internal/hub"
	"github.com/raphaelgruber/commnet/internal/metrics"
)

func main() {
	configPath := flag.String("config", os.Getenv("COMMNET_CONFIG"), "path to a YAML config file")
	port := flag.Int("port", 0, "listen port (overrides COMMNET_HUB_PORT)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HubPort = *port
	}

	logger, cleanup := config.SetupLogger(cfg, false)
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	apiClient := client.New(cfg.APIURL, cfg.ClientTimeout).WithLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if !apiClient.IsAvailable(ctx) {
		slog.Warn("analysis API not reachable, sessions will fail until it is", "url", apiClient.BaseURL())
	}
	cancel()

	h := hub.New(apiClient, hub.Options{
		Debounce: cfg.DensityDebounce,
		Pattern:  analysis.Resolve(cfg.DefaultPattern),
		Logger:   logger,
		Metrics:  metrics.NewCollector(),
	})
	go h.Run()

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.HubPort),
		Handler:     h.Handler(),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.Info("starting commnet-hub", "port", cfg.HubPort, "api", apiClient.BaseURL())
		slog.Info("websocket endpoint available", "url", fmt.Sprintf("ws://localhost:%d/ws", cfg.HubPort))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down hub...")
	h.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("hub stopped")
}
