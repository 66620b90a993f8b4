package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"

	"playlog/internal/domain"
)

type PlayStore struct {
	db *sqlx.DB
}

func NewPlayStore(db *sqlx.DB) *PlayStore {
	return &PlayStore{db: db}
}

// ExistsInWindow reports whether songID has a play strictly between lower
// and upper (epoch milliseconds).
func (s *PlayStore) ExistsInWindow(ctx context.Context, songID, lower, upper int64) (bool, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM plays
			WHERE song = ? AND playedAt > ? AND playedAt < ?
		)`

	var exists bool
	if err := exec.QueryRowxContext(ctx, exec.Rebind(query), songID, lower, upper).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PlayStore) Create(ctx context.Context, songID, playedAt int64) (int64, error) {
	exec := GetExecutor(ctx, s.db)

	query := `INSERT INTO plays (song, playedAt) VALUES (?, ?) RETURNING id`

	var id int64
	if err := exec.QueryRowxContext(ctx, exec.Rebind(query), songID, playedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Recent returns the latest plays, newest first.
func (s *PlayStore) Recent(ctx context.Context, limit int) ([]domain.PlayEvent, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		SELECT p.id AS play_id, s.id AS song_id, s.title, s.artist, p.playedAt AS played_at
		FROM plays p
		INNER JOIN songs s ON s.id = p.song
		ORDER BY p.playedAt DESC, p.id DESC
		LIMIT ?`

	var plays []domain.PlayEvent
	err := sqlx.SelectContext(ctx, exec, &plays, exec.Rebind(query), limit)
	return plays, err
}
