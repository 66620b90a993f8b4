package domain

// Song is a distinct normalized (title, artist) pair seen on the station.
type Song struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Artist string `db:"artist"`
}

// Key returns the identity key of the song.
func (s Song) Key() SongKey {
	return SongKey{Title: s.Title, Artist: s.Artist}
}

// SongKey identifies a song by its normalized title and artist.
type SongKey struct {
	Title  string
	Artist string
}

type Play struct {
	ID       int64 `db:"id"`
	SongID   int64 `db:"song"`
	PlayedAt int64 `db:"playedAt"` // epoch milliseconds
}

// PlayEvent is a recorded play joined with its song.
type PlayEvent struct {
	PlayID   int64  `db:"play_id" json:"play_id"`
	SongID   int64  `db:"song_id" json:"song_id"`
	Title    string `db:"title" json:"title"`
	Artist   string `db:"artist" json:"artist"`
	PlayedAt int64  `db:"played_at" json:"played_at"`
}
