package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cs-au-dk/gocpa/analysis/algorithm"
)

// metricsRegistry gathers the engine statistics and the Go runtime metrics.
func metricsRegistry(stats *algorithm.Statistics) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		stats.Collector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes the statistics on /metrics at the given address
// while the analysis runs.
func serveMetrics(addr string, stats *algorithm.Statistics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry(stats), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Println("Serving metrics on", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("Metrics server failed:", err)
		}
	}()

	return srv
}

func shutdownMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Metrics server shutdown:", err)
	}
}
