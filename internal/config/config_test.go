package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultStationURL, cfg.Station.URL)
	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Sync.DedupWindow)
	assert.Equal(t, 30*time.Second, cfg.Station.Timeout)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("PLAYLOG_TEST_DB", "/tmp/plays.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
database:
  path: ${PLAYLOG_TEST_DB}
station:
  url: http://localhost:8080/songs
  timeout: 5s
sync:
  interval: 1m
metrics:
  addr: ":9100"
log_level: debug
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plays.db", cfg.Database.Path)
	assert.Equal(t, "http://localhost:8080/songs", cfg.Station.URL)
	assert.Equal(t, 5*time.Second, cfg.Station.Timeout)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Sync.CycleTimeout)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: mysql\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "plays", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=plays sslmode=disable", d.DSN())
}
