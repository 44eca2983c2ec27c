package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ADDR", "LLM_PROVIDER", "LLM_MODEL", "QUOTA_LIMIT", "QUOTA_WINDOW"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "us", cfg.Country)
	require.Equal(t, "en", cfg.Lang)
	require.Equal(t, 2, cfg.Quota.Limit)
	require.Equal(t, 24*time.Hour, cfg.Quota.Window)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
provider: claude
quota:
  limit: 5
  window: 1h
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "claude", cfg.Provider)
	require.Equal(t, 5, cfg.Quota.Limit)
	require.Equal(t, time.Hour, cfg.Quota.Window)
	// Untouched fields keep their defaults.
	require.Equal(t, "us", cfg.Country)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":7070")
	t.Setenv("QUOTA_LIMIT", "9")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, 9, cfg.Quota.Limit)
}

func TestLoadBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUOTA_LIMIT", "many")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
