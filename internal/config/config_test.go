package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"TIMETRACK_CONFIG_PATH", "TIMETRACK_DB_PATH", "TIMETRACK_LOG_LEVEL", "TIMETRACK_LOG_PATH",
		"TIMETRACK_TRANSPORT", "TIMETRACK_SERVER_HOST", "TIMETRACK_SERVER_PORT",
		"TIMETRACK_AUTH_TOKEN", "TIMETRACK_TIMEZONE", "TIMETRACK_EXPORT_DIR",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".timetracker", "timetracker.db"), cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Empty(t, cfg.Auth.Token)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.NotNil(t, loc)
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".timetracker")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
db:
  path: ~/data/tt.db
transport:
  mode: http
server:
  port: 9000
report:
  timezone: Europe/Berlin
`), 0o644))

	t.Setenv("TIMETRACK_SERVER_PORT", "9100")
	t.Setenv("TIMETRACK_AUTH_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "data", "tt.db"), cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "secret", cfg.Auth.Token)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)

	t.Setenv("TIMETRACK_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TIMETRACK_SERVER_PORT", "")
	t.Setenv("TIMETRACK_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "transport")

	t.Setenv("TIMETRACK_TRANSPORT", "")
	t.Setenv("TIMETRACK_TIMEZONE", "Mars/Olympus")
	_, err = Load()
	require.ErrorContains(t, err, "timezone")
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)
	t.Setenv("TIMETRACK_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMETRACK_LOG_LEVEL=debug\n"), 0o644))
	t.Chdir(dir)
	os.Unsetenv("TIMETRACK_LOG_LEVEL")

	require.NoError(t, LoadEnvFile())
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}
