package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlog/internal/config"
	"playlog/internal/storage/sqlstore"
)

func TestLoadConfig_PositionalDatabaseOverridesDefault(t *testing.T) {
	configPath = ""

	cfg, logger, err := loadConfig([]string{"plays.db"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "plays.db", cfg.Database.Path)

	cfg, _, err = loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDatabasePath, cfg.Database.Path)
}

func TestHistory_PrintsRecentPlays(t *testing.T) {
	ctx := context.Background()
	configPath = ""
	path := filepath.Join(t.TempDir(), "plays.db")

	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, path)
	require.NoError(t, err)
	songID, err := sqlstore.NewSongStore(db).Create(ctx, "song one", "artist one")
	require.NoError(t, err)
	_, err = sqlstore.NewPlayStore(db).Create(ctx, songID, 1_700_000_000_000)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"history", path, "--limit", "5"})
	require.NoError(t, rootCmd.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "PLAYED AT")
	assert.Contains(t, out.String(), "song one")
	assert.Contains(t, out.String(), "artist one")
}
