package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
)

type SQLiteStoreSuite struct {
	suite.Suite
	ctx context.Context
	db  *sqlx.DB
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := Open(s.ctx, DriverSQLite, ":memory:")
	s.Require().NoError(err)
	s.db = db
}

func (s *SQLiteStoreSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) count(table string) int {
	var n int
	s.Require().NoError(s.db.GetContext(s.ctx, &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (s *SQLiteStoreSuite) TestMigrate_Idempotent() {
	songs := NewSongStore(s.db)
	_, err := songs.Create(s.ctx, "song", "artist")
	s.Require().NoError(err)

	s.NoError(Migrate(s.ctx, s.db))
	s.NoError(Migrate(s.ctx, s.db))

	s.Equal(1, s.count("songs"))
}

func (s *SQLiteStoreSuite) TestSongStore_FindMissing() {
	song, err := NewSongStore(s.db).Find(s.ctx, "song", "artist")
	s.NoError(err)
	s.Nil(song)
}

func (s *SQLiteStoreSuite) TestSongStore_CreateAndFind() {
	store := NewSongStore(s.db)

	id, err := store.Create(s.ctx, "song one", "artist one")
	s.Require().NoError(err)
	s.Greater(id, int64(0))

	song, err := store.Find(s.ctx, "song one", "artist one")
	s.Require().NoError(err)
	s.Require().NotNil(song)
	s.Equal(id, song.ID)
	s.Equal("song one", song.Title)
	s.Equal("artist one", song.Artist)
}

func (s *SQLiteStoreSuite) TestSongStore_FindIsExact() {
	store := NewSongStore(s.db)
	_, err := store.Create(s.ctx, "song one", "artist one")
	s.Require().NoError(err)

	song, err := store.Find(s.ctx, "Song One", "artist one")
	s.NoError(err)
	s.Nil(song)

	song, err = store.Find(s.ctx, "song one", "artist two")
	s.NoError(err)
	s.Nil(song)
}

func (s *SQLiteStoreSuite) TestPlayStore_ExistsInWindowIsExclusive() {
	songID, err := NewSongStore(s.db).Create(s.ctx, "song", "artist")
	s.Require().NoError(err)

	plays := NewPlayStore(s.db)
	const t = int64(1_700_000_000_000)
	_, err = plays.Create(s.ctx, songID, t)
	s.Require().NoError(err)

	exists, err := plays.ExistsInWindow(s.ctx, songID, t-1, t+1)
	s.NoError(err)
	s.True(exists)

	exists, err = plays.ExistsInWindow(s.ctx, songID, t, t+1000)
	s.NoError(err)
	s.False(exists, "lower bound is exclusive")

	exists, err = plays.ExistsInWindow(s.ctx, songID, t-1000, t)
	s.NoError(err)
	s.False(exists, "upper bound is exclusive")

	exists, err = plays.ExistsInWindow(s.ctx, songID+1, t-1, t+1)
	s.NoError(err)
	s.False(exists, "other songs do not match")
}

func (s *SQLiteStoreSuite) TestPlayStore_CreateRequiresSong() {
	_, err := NewPlayStore(s.db).Create(s.ctx, 42, 1)
	s.Error(err)
}

func (s *SQLiteStoreSuite) TestPlayStore_Recent() {
	songs := NewSongStore(s.db)
	plays := NewPlayStore(s.db)

	one, err := songs.Create(s.ctx, "song one", "artist one")
	s.Require().NoError(err)
	two, err := songs.Create(s.ctx, "song two", "artist two")
	s.Require().NoError(err)

	_, err = plays.Create(s.ctx, one, 1000)
	s.Require().NoError(err)
	_, err = plays.Create(s.ctx, two, 3000)
	s.Require().NoError(err)
	_, err = plays.Create(s.ctx, one, 2000)
	s.Require().NoError(err)

	recent, err := plays.Recent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("song two", recent[0].Title)
	s.Equal(int64(3000), recent[0].PlayedAt)
	s.Equal(one, recent[1].SongID)
	s.Equal(int64(2000), recent[1].PlayedAt)
}

func (s *SQLiteStoreSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	songs := NewSongStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		_, err := songs.Create(ctx, "song", "artist")
		return err
	})
	s.NoError(err)
	s.Equal(1, s.count("songs"))
}

func (s *SQLiteStoreSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	songs := NewSongStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := songs.Create(ctx, "song", "artist"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Error(err)
	s.Equal(0, s.count("songs"))
}

func (s *SQLiteStoreSuite) TestTransaction_Nested() {
	tm := NewTransactionManager(s.db)
	songs := NewSongStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(ctx context.Context) error {
			_, err := songs.Create(ctx, "song", "artist")
			return err
		})
	})
	s.NoError(err)
	s.Equal(1, s.count("songs"))
}
