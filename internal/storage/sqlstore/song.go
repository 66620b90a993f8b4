package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"playlog/internal/domain"
)

type SongStore struct {
	db *sqlx.DB
}

func NewSongStore(db *sqlx.DB) *SongStore {
	return &SongStore{db: db}
}

// Find returns the song with exactly this title and artist, or nil if there
// is none.
func (s *SongStore) Find(ctx context.Context, title, artist string) (*domain.Song, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		SELECT id, title, artist
		FROM songs
		WHERE title = ? AND artist = ?
		ORDER BY id
		LIMIT 1`

	var song domain.Song
	err := sqlx.GetContext(ctx, exec, &song, exec.Rebind(query), title, artist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SongStore) Create(ctx context.Context, title, artist string) (int64, error) {
	exec := GetExecutor(ctx, s.db)

	query := `INSERT INTO songs (title, artist) VALUES (?, ?) RETURNING id`

	var id int64
	if err := exec.QueryRowxContext(ctx, exec.Rebind(query), title, artist).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
