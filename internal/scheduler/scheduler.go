package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"playlog/internal/domain"
	"playlog/internal/metrics"
)

// Syncer defines the interface for one ingest cycle.
type Syncer interface {
	Sync(ctx context.Context) (*domain.CycleStats, error)
}

type Scheduler struct {
	syncer       Syncer
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger
}

func NewScheduler(syncer Syncer, interval, cycleTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:       syncer,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
	}
}

// Start runs a cycle immediately and then one cycle per interval, measured
// from the end of the previous cycle, until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	for {
		s.runSync(ctx)

		if err := s.wait(ctx); err != nil {
			s.logger.Info("scheduler stopped")
			return err
		}
	}
}

func (s *Scheduler) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.cycleTimeout)
	defer cancel()

	timer := prometheus.NewTimer(metrics.CycleDuration)
	defer timer.ObserveDuration()

	if err := s.safeSync(syncCtx); err != nil {
		metrics.Cycles.WithLabelValues("error").Inc()
		s.logger.Error("sync failed", "error", err)
		return
	}
	metrics.Cycles.WithLabelValues("ok").Inc()
}

func (s *Scheduler) safeSync(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync panicked: %v", r)
		}
	}()

	_, err = s.syncer.Sync(ctx)
	return err
}
