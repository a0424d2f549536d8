// gpayconfig serves validated Google Pay payment-method configurations over
// REST and MCP. Designed for Cloud Run deployment with stateless operation.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpay-config/internal/config"
	"gpay-config/internal/handler"
	"gpay-config/internal/middleware"
	"gpay-config/internal/networks"
	"gpay-config/internal/observability"
	"gpay-config/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Environment, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("payment_mode", string(cfg.PaymentMode)),
		slog.Bool("merchant_config", cfg.PaymentMethod != nil),
		slog.String("card_networks_url", cfg.CardNetworks.URL),
		slog.String("card_networks_file", cfg.CardNetworks.File),
	)

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	defer metrics.Shutdown(context.Background())

	registry := networks.NewRegistry()
	if src := cardNetworkSource(cfg); src != nil {
		// Initial load is best effort; the built-in list stays in effect on failure
		if _, err := registry.Refresh(ctx, src); err != nil {
			logger.Warn("initial card network load failed", slog.String("error", err.Error()))
		}
		go registry.Run(ctx, src, cfg.CardNetworks.RefreshInterval, logger)
	}

	httpHandler := newHTTPHandler(cfg, registry, metrics, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		logger.Info("shutdown signal received")

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// newHTTPHandler wires the REST, MCP and metrics routes behind the
// middleware chain.
func newHTTPHandler(cfg *config.Config, registry *networks.Registry, metrics *observability.Metrics, logger *slog.Logger) http.Handler {
	h := handler.New(handler.Config{
		Networks:    registry,
		DefaultMode: cfg.PaymentMode,
		Merchant:    cfg.PaymentMethod,
		Metrics:     metrics,
	}, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metrics)

	// Recovery must be outermost to catch panics from logging middleware
	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)(mux)
}

// cardNetworkSource returns the configured allow-list source, or nil to keep
// the built-in list.
func cardNetworkSource(cfg *config.Config) networks.Source {
	switch {
	case cfg.CardNetworks.URL != "":
		rt := transport.New(transport.Options{ChromeFingerprint: cfg.ChromeTLS})
		return networks.NewHTTPSource(cfg.CardNetworks.URL, rt)
	case cfg.CardNetworks.File != "":
		return networks.FileSource{Path: cfg.CardNetworks.File}
	}
	return nil
}

// newLogger creates a structured logger for the configured environment and
// level. Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability. Unknown levels fall back to info.
func newLogger(environment, level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		// Add source location in debug mode
		AddSource: lvl == slog.LevelDebug,
	}

	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
