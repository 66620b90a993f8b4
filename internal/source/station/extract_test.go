package station

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlog/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type extracted struct {
	entries []domain.RawSongEntry
	errs    []error
}

func extract(t *testing.T, html string) extracted {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	var out extracted
	for entry, err := range Extract(doc, discard) {
		if err != nil {
			out.errs = append(out.errs, err)
			continue
		}
		out.entries = append(out.entries, entry)
	}
	return out
}

func card(title string, paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="card"><div class="card-body">`)
	if title != "" {
		sb.WriteString("<h5>" + title + "</h5>")
	}
	for _, p := range paragraphs {
		sb.WriteString("<p>" + p + "</p>")
	}
	sb.WriteString(`</div></div>`)
	return sb.String()
}

func page(cards ...string) string {
	return "<html><body>" + strings.Join(cards, "\n") + "</body></html>"
}

func TestExtract_DocumentOrder(t *testing.T) {
	out := extract(t, page(
		card("Song One", "Last Played", "● Artist One"),
		card("Song Two", "12 minutes ago", "● Artist Two"),
		card("Song One", "45 minutes ago", "● Artist One"),
	))

	require.Empty(t, out.errs)
	assert.Equal(t, []domain.RawSongEntry{
		{Title: "Song One", Artist: "Artist One", MinutesAgo: 0},
		{Title: "Song Two", Artist: "Artist Two", MinutesAgo: 12},
		{Title: "Song One", Artist: "Artist One", MinutesAgo: 45},
	}, out.entries)
}

func TestExtract_LabelIsTrimmedAndLowerCased(t *testing.T) {
	out := extract(t, page(card("Song", "  LAST PLAYED \n", "● A")))

	require.Len(t, out.entries, 1)
	assert.Equal(t, 0, out.entries[0].MinutesAgo)
}

func TestExtract_MissingLabelIsSkipped(t *testing.T) {
	out := extract(t, page(
		card("No Paragraphs"),
		card("Song Two", "3 minutes ago", "● Artist Two"),
	))

	require.Len(t, out.errs, 1)
	assert.True(t, errors.Is(out.errs[0], ErrMissingTimeLabel))
	require.Len(t, out.entries, 1)
	assert.Equal(t, "Song Two", out.entries[0].Title)
}

func TestExtract_EmptyLabelIsSkipped(t *testing.T) {
	out := extract(t, page(card("Song", "   ", "● Artist")))

	require.Len(t, out.errs, 1)
	assert.True(t, errors.Is(out.errs[0], ErrMissingTimeLabel))
	assert.Empty(t, out.entries)
}

func TestExtract_InvalidLabelIsSkipped(t *testing.T) {
	out := extract(t, page(
		card("Song", "yesterday", "● Artist"),
		card("Song", "-3 minutes ago", "● Artist"),
	))

	require.Len(t, out.errs, 2)
	for _, err := range out.errs {
		assert.True(t, errors.Is(err, ErrInvalidTimeLabel))
	}
	assert.Empty(t, out.entries)
}

func TestExtract_NonMinuteUnitKeepsValue(t *testing.T) {
	out := extract(t, page(card("Song", "2 hours ago", "● Artist")))

	require.Len(t, out.entries, 1)
	assert.Equal(t, 2, out.entries[0].MinutesAgo)
}

func TestExtract_MissingTitleAndArtist(t *testing.T) {
	out := extract(t, page(card("", "5 minutes ago")))

	require.Len(t, out.entries, 1)
	assert.Equal(t, domain.RawSongEntry{MinutesAgo: 5}, out.entries[0])
}

func TestExtract_StopsWhenConsumerBreaks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page(
		card("One", "1 minutes ago", "● A"),
		card("Two", "2 minutes ago", "● B"),
	)))
	require.NoError(t, err)

	var seen int
	for range Extract(doc, discard) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestStripArtistPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"● Artist One", "Artist One"},
		{"●Artist One", "Artist One"},
		{"- 4 Him", "4 Him"},
		{"● !!!", "!!!"},
		{"Artist", "Artist"},
		{"●", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripArtistPrefix(tt.in), "input %q", tt.in)
	}
}
