package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const metricsReadHeaderTimeout = 5 * time.Second

// serveMetrics registers the client metrics on a fresh registry and serves them
// at /metrics on addr until ctx is done. It returns the bound address.
func serveMetrics(ctx context.Context, addr string, logger workos.Logger) (*workos.MetricsCollector, net.Addr, error) {
	registry := prometheus.NewRegistry()

	collector, err := workos.NewMetricsCollector(registry)
	if err != nil {
		return nil, nil, err
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listening for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	go func() {
		<-ctx.Done()

		_ = server.Close()
	}()

	logger.Info("Serving metrics", map[string]interface{}{"addr": listener.Addr().String()})

	return collector, listener.Addr(), nil
}
