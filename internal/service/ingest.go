package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"playlog/internal/clock"
	"playlog/internal/config"
	"playlog/internal/domain"
	"playlog/internal/metrics"
)

// ErrNoPlayID is returned when inserting a play did not yield a usable id.
var ErrNoPlayID = errors.New("play insert returned no id")

type IngestService struct {
	source    Source
	songs     SongStore
	plays     PlayStore
	txManager TransactionManager
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
	config    config.SyncConfig
}

func NewIngestService(
	source Source,
	songs SongStore,
	plays PlayStore,
	txManager TransactionManager,
	publisher Publisher,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *IngestService {
	if cfg.DedupWindow == 0 {
		cfg.DedupWindow = domain.DedupWindow
	}
	return &IngestService{
		source:    source,
		songs:     songs,
		plays:     plays,
		txManager: txManager,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("source", source.ID()),
		config:    cfg,
	}
}

// Sync runs one cycle: fetch, extract, normalize, resolve, dedup and persist.
// Only a failure to fetch the page aborts the cycle; per-entry failures are
// logged and counted in the returned stats.
func (s *IngestService) Sync(ctx context.Context) (*domain.CycleStats, error) {
	startTime := time.Now()
	now := s.clock.Now()

	s.logger.Info("starting cycle", "reference_time", now)

	entries, err := s.source.FetchEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	stats := &domain.CycleStats{SourceID: s.source.ID()}
	resolver := NewResolver(s.songs, s.txManager)
	dedup := NewDeduplicator(s.plays, s.config.DedupWindow)

	for entry, err := range entries {
		if err != nil {
			s.logger.Warn("skipping card", "error", err)
			metrics.ExtractionWarnings.Inc()
			stats.Warnings++
			continue
		}
		stats.Extracted++

		play := entry.Normalize(now)

		songID, created, err := resolver.Resolve(ctx, play.Key())
		if err != nil {
			s.logger.Error("failed to resolve song",
				"title", play.Title,
				"artist", play.Artist,
				"error", err,
			)
			stats.Errors++
			continue
		}
		if created {
			metrics.SongsCreated.Inc()
			stats.NewSongs++
		}

		playID, err := s.recordPlay(ctx, dedup, songID, play.PlayedAt)
		if err != nil {
			s.logger.Error("failed to record play",
				"song_id", songID,
				"played_at", play.PlayedAt,
				"error", err,
			)
			stats.Errors++
			continue
		}
		if playID == 0 {
			stats.Duplicates++
			continue
		}
		metrics.PlaysRecorded.Inc()
		stats.Recorded++

		if s.publisher != nil {
			event := &domain.PlayEvent{
				PlayID:   playID,
				SongID:   songID,
				Title:    play.Title,
				Artist:   play.Artist,
				PlayedAt: play.PlayedAt,
			}
			if err := s.publisher.Publish(ctx, event); err != nil {
				s.logger.Error("failed to publish play", "play_id", playID, "error", err)
				stats.Errors++
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("cycle completed",
		"extracted", stats.Extracted,
		"warnings", stats.Warnings,
		"new_songs", stats.NewSongs,
		"recorded", stats.Recorded,
		"duplicates", stats.Duplicates,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// recordPlay inserts the play unless it falls in the dedup window of an
// existing one. It returns 0 for a duplicate.
func (s *IngestService) recordPlay(ctx context.Context, dedup *Deduplicator, songID, playedAt int64) (int64, error) {
	var playID int64

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		recorded, err := dedup.IsRecorded(txCtx, songID, playedAt)
		if err != nil {
			return fmt.Errorf("check window: %w", err)
		}
		if recorded {
			return nil
		}

		playID, err = s.plays.Create(txCtx, songID, playedAt)
		if err != nil {
			return fmt.Errorf("create play: %w", err)
		}
		if playID <= 0 {
			return ErrNoPlayID
		}
		return nil
	})

	if err != nil {
		return 0, err
	}
	return playID, nil
}
