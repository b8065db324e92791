package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

// NewMux builds the monitoring routes: /healthz reports the API probe and
// /metrics exposes reg.
func NewMux(log *slog.Logger, reg *prometheus.Registry, source StatusSource, apiURL string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", NewHealthChecker(log, source, apiURL))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// StartMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It blocks until ctx is done or the listener fails.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - source: The health probe whose status /healthz reports.
// - apiURL: The API base URL shown in the health response.
// - port: The port number on which the server will listen.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	source StatusSource,
	apiURL string,
	port int,
) {
	log.InfoContext(ctx, "Starting monitoring server", "port", port)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewMux(log, reg, source, apiURL),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	var err error
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		log.InfoContext(ctx, "Monitoring server shutting down.")
		if err = server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "Monitoring server failed to shutdown", "error", err)
			return
		}
	case err = <-serverErr:
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
