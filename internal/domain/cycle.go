package domain

import "time"

// CycleStats holds statistics about one ingest cycle.
type CycleStats struct {
	SourceID   string
	Extracted  int
	Warnings   int
	NewSongs   int
	Recorded   int
	Duplicates int
	Errors     int
	Published  int
	Duration   time.Duration
}
