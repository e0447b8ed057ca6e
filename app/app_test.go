package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func reset() {
	cfg = nil
	err = nil
	once = sync.Once{}
}

func TestConfig_LoadsApplicationTestYml(t *testing.T) {
	cwd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(filepath.Dir(cwd)))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	reset()
	t.Cleanup(reset)

	res := Config()
	require.True(t, res.IsOk())
	v := res.MustGet()
	// These values come from application_test.yml.
	require.Equal(t, "sqlite3", v.GetString("datasource.mock.driver"))
	require.Equal(t, "warn", v.GetString("log.level"))

	s := Load()
	require.True(t, s.IsOk())
	require.Equal(t, "assets.clanplatform.com", s.MustGet().CDN.Host)
	require.Equal(t, 80, s.MustGet().CDN.Quality)
	require.Equal(t, "/auth/login", s.MustGet().Session.Login)
}

func TestConfig_EnvOverride(t *testing.T) {
	reset()
	t.Cleanup(reset)
	t.Setenv("CLANADMIN_API_URL", "https://api.example.test")
	t.Setenv("CLANADMIN_CACHE_STALE", "5s")

	s := Load()
	require.True(t, s.IsOk())
	require.Equal(t, "https://api.example.test", s.MustGet().API.URL)
	require.Equal(t, 5*time.Second, s.MustGet().Cache.Stale)
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	require.Equal(t, "http://localhost:8080", s.API.URL)
	require.Equal(t, time.Duration(0), s.API.Timeout)
	require.Equal(t, 30*time.Second, s.Cache.Stale)
	require.Equal(t, "/", s.Session.Home)
	require.Equal(t, "127.0.0.1:3000", s.Dashboard.Addr)
	require.Empty(t, s.MockAPI.Datasource)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogSettings{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Equal(t, slog.LevelDebug, parseLevel(" DEBUG "))
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
