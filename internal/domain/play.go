package domain

import (
	"strings"
	"time"
)

// DedupWindow is how far apart two reported plays of the same song must be
// to count as separate plays.
const DedupWindow = 5 * time.Minute

// RawSongEntry is one card as scraped from the station page.
type RawSongEntry struct {
	Title      string
	Artist     string
	MinutesAgo int // 0 means currently playing
}

// NormalizedPlay is a RawSongEntry with its identity normalized and its
// relative time resolved against the cycle's reference time.
type NormalizedPlay struct {
	Title    string
	Artist   string
	PlayedAt int64 // epoch milliseconds
}

// Normalize resolves the entry against now. All entries of one cycle must be
// normalized with the same now.
func (e RawSongEntry) Normalize(now time.Time) NormalizedPlay {
	return NormalizedPlay{
		Title:    NormalizeText(e.Title),
		Artist:   NormalizeText(e.Artist),
		PlayedAt: now.UnixMilli() - int64(e.MinutesAgo)*time.Minute.Milliseconds(),
	}
}

func (p NormalizedPlay) Key() SongKey {
	return SongKey{Title: p.Title, Artist: p.Artist}
}

func (p NormalizedPlay) Time() time.Time {
	return time.UnixMilli(p.PlayedAt)
}

// NormalizeText lower-cases s and trims surrounding whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
