package service

import (
	"context"
	"errors"
	"fmt"

	"playlog/internal/domain"
)

// ErrNoSongID is returned when creating a song did not yield a usable id.
var ErrNoSongID = errors.New("song insert returned no id")

// Resolver maps normalized (title, artist) pairs to song ids, creating songs
// on first sight. A Resolver lives for one cycle; repeated keys within the
// cycle are answered from memory.
type Resolver struct {
	songs     SongStore
	txManager TransactionManager
	known     map[domain.SongKey]int64
}

func NewResolver(songs SongStore, txManager TransactionManager) *Resolver {
	return &Resolver{
		songs:     songs,
		txManager: txManager,
		known:     make(map[domain.SongKey]int64),
	}
}

// Resolve returns the id for key and whether the song was created by this
// call.
func (r *Resolver) Resolve(ctx context.Context, key domain.SongKey) (int64, bool, error) {
	if id, ok := r.known[key]; ok {
		return id, false, nil
	}

	var id int64
	var created bool

	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		song, err := r.songs.Find(txCtx, key.Title, key.Artist)
		if err != nil {
			return fmt.Errorf("find song: %w", err)
		}
		if song != nil {
			id = song.ID
			return nil
		}

		id, err = r.songs.Create(txCtx, key.Title, key.Artist)
		if err != nil {
			return fmt.Errorf("create song: %w", err)
		}
		if id <= 0 {
			return ErrNoSongID
		}
		created = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	r.known[key] = id
	return id, created, nil
}
