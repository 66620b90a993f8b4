package station

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"playlog/internal/domain"
)

const (
	cardSelector  = ".card-body"
	titleSelector = "h5"
	textSelector  = "p"

	lastPlayedLabel = "last played"

	// ArtistPrefixLen is the length of the decorative separator the station
	// renders in front of every artist name.
	ArtistPrefixLen = 2
)

var (
	ErrMissingTimeLabel = errors.New("card has no time label")
	ErrInvalidTimeLabel = errors.New("card has an unparseable time label")
)

var minuteUnits = map[string]struct{}{
	"m": {}, "min": {}, "mins": {}, "minute": {}, "minutes": {},
}

// Extract returns the cards of doc as a lazy sequence in document order. A
// card that cannot be turned into an entry yields an error wrapping
// ErrMissingTimeLabel or ErrInvalidTimeLabel; iteration may continue past it.
func Extract(doc *goquery.Document, logger *slog.Logger) iter.Seq2[domain.RawSongEntry, error] {
	return func(yield func(domain.RawSongEntry, error) bool) {
		doc.Find(cardSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			entry, err := cardElement{sel}.Entry(logger)
			if err != nil {
				return yield(domain.RawSongEntry{}, fmt.Errorf("card %d: %w", i, err))
			}
			return yield(entry, nil)
		})
	}
}

// A cardElement is the markup for one recently played song.
type cardElement struct{ *goquery.Selection }

func (el cardElement) Entry(logger *slog.Logger) (domain.RawSongEntry, error) {
	label := el.TimeLabel()
	if label == "" {
		return domain.RawSongEntry{}, ErrMissingTimeLabel
	}

	minutes, err := parseMinutesAgo(label, logger)
	if err != nil {
		return domain.RawSongEntry{}, err
	}

	return domain.RawSongEntry{
		Title:      el.Title(),
		Artist:     el.Artist(),
		MinutesAgo: minutes,
	}, nil
}

// TimeLabel is the lower-cased, trimmed text of the first paragraph.
func (el cardElement) TimeLabel() string {
	return domain.NormalizeText(el.Find(textSelector).First().Text())
}

func (el cardElement) Title() string {
	return el.Find(titleSelector).First().Text()
}

// Artist is the text of the second paragraph without its decorative prefix.
func (el cardElement) Artist() string {
	return stripArtistPrefix(el.Find(textSelector).Eq(1).Text())
}

// stripArtistPrefix drops up to ArtistPrefixLen leading runes, stopping early
// at the first letter or digit so an unspaced separator keeps the name whole.
func stripArtistPrefix(s string) string {
	for i := 0; i < ArtistPrefixLen && s != ""; i++ {
		r, size := utf8.DecodeRuneInString(s)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		s = s[size:]
	}
	return s
}

func parseMinutesAgo(label string, logger *slog.Logger) (int, error) {
	if label == lastPlayedLabel {
		return 0, nil
	}

	fields := strings.Fields(label)
	minutes, err := strconv.Atoi(fields[0])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	if len(fields) > 1 {
		if _, ok := minuteUnits[fields[1]]; !ok {
			logger.Warn("time label unit is not minutes, treating value as minutes",
				"label", label,
				"unit", fields[1],
			)
		}
	}

	return minutes, nil
}
