package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"iter"

	"playlog/internal/domain"
)

type SongStore interface {
	Find(ctx context.Context, title, artist string) (*domain.Song, error)
	Create(ctx context.Context, title, artist string) (int64, error)
}

type PlayStore interface {
	ExistsInWindow(ctx context.Context, songID, lower, upper int64) (bool, error)
	Create(ctx context.Context, songID, playedAt int64) (int64, error)
}

type Source interface {
	ID() string
	FetchEntries(ctx context.Context) (iter.Seq2[domain.RawSongEntry, error], error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, play *domain.PlayEvent) error
	Close() error
}
