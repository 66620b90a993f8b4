package service

import (
	"context"
	"time"
)

// Deduplicator decides whether a reported play was already recorded. The
// station only reports "minutes ago", which drifts between polls, so any play
// of the same song within window counts as the same play.
type Deduplicator struct {
	plays  PlayStore
	window int64 // milliseconds
}

func NewDeduplicator(plays PlayStore, window time.Duration) *Deduplicator {
	return &Deduplicator{
		plays:  plays,
		window: window.Milliseconds(),
	}
}

// IsRecorded reports whether songID has a play in the open interval
// (playedAt - window, playedAt + window).
func (d *Deduplicator) IsRecorded(ctx context.Context, songID, playedAt int64) (bool, error) {
	return d.plays.ExistsInWindow(ctx, songID, playedAt-d.window, playedAt+d.window)
}
