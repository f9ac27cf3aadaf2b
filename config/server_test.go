package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	for _, k := range []string{"API_ADDRESS", "API_KEY_HASH", "GIN_MODE", "LOG_LEVEL", "MAX_PATHS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadServerDefaults(t *testing.T) {
	clearServerEnv(t)
	s, err := LoadServer(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	require.Equal(t, ":8080", s.Address)
	require.Empty(t, s.KeyHash)
	require.Equal(t, "release", s.GinMode)
	require.Equal(t, slog.LevelInfo, s.LogLevel)
	require.Equal(t, DefaultMaxPaths, s.MaxPaths)
}

func TestLoadServerFromFile(t *testing.T) {
	clearServerEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	env := "API_ADDRESS=127.0.0.1:9000\nLOG_LEVEL=debug\nMAX_PATHS=20000\nGIN_MODE=test\n"
	require.NoError(t, os.WriteFile(path, []byte(env), 0o600))

	// the environment wins over the file
	t.Setenv("GIN_MODE", "debug")

	s, err := LoadServer(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", s.Address)
	require.Equal(t, slog.LevelDebug, s.LogLevel)
	require.Equal(t, 20000, s.MaxPaths)
	require.Equal(t, "debug", s.GinMode)
}

func TestLoadServerInvalid(t *testing.T) {
	type testCases struct {
		name  string
		key   string
		value string
	}

	for _, test := range []testCases{
		{name: "LOG_LEVEL", key: "LOG_LEVEL", value: "loud"},
		{name: "MAX_PATHS_TEXT", key: "MAX_PATHS", value: "many"},
		{name: "MAX_PATHS_ZERO", key: "MAX_PATHS", value: "0"},
	} {
		t.Run(test.name, func(t *testing.T) {
			clearServerEnv(t)
			t.Setenv(test.key, test.value)
			_, err := LoadServer(filepath.Join(t.TempDir(), ".env"))
			require.Error(t, err)
		})
	}
}
