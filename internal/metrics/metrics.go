package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlog_cycles_total",
			Help: "Ingest cycles by outcome",
		},
		[]string{"status"},
	)
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "playlog_cycle_duration_seconds",
			Help:    "Time spent in one ingest cycle",
			Buckets: prometheus.DefBuckets,
		},
	)
	PlaysRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "playlog_plays_recorded_total", Help: "Plays written to the store"},
	)
	SongsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "playlog_songs_created_total", Help: "Songs seen for the first time"},
	)
	ExtractionWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "playlog_extraction_warnings_total", Help: "Cards skipped during extraction"},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Cycles, CycleDuration, PlaysRecorded, SongsCreated, ExtractionWarnings)
}

// Serve exposes the default registry on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics exposed", "addr", addr, "path", "/metrics")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
