package station

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"playlog/internal/domain"
)

const SourceID = "station"

// Config holds station source configuration.
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Source scrapes the station's recently played page.
type Source struct {
	client *resty.Client
	url    string
	logger *slog.Logger
}

// New creates a new station source.
func New(cfg Config, logger *slog.Logger) *Source {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "text/html").
		SetHeader("User-Agent", cfg.UserAgent)

	return &Source{
		client: client,
		url:    cfg.URL,
		logger: logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// FetchEntries downloads and parses the page. Cards are extracted lazily as
// the returned sequence is iterated.
func (s *Source) FetchEntries(ctx context.Context) (iter.Seq2[domain.RawSongEntry, error], error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched page", "url", s.url, "cards", doc.Find(cardSelector).Length())

	return Extract(doc, s.logger), nil
}

func (s *Source) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
