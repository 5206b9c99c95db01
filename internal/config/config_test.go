package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "fr", cfg.DefaultLang)
	require.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	require.Equal(t, 5*time.Minute, cfg.CatalogSnapshotTTL)
	require.True(t, cfg.Dev)
	require.False(t, cfg.RemoteCatalog())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                          "9000",
		"MOTO_WEB_ENV":                  "prod",
		"MOTO_WEB_DEFAULT_LANG":         "EN",
		"MOTO_WEB_CATALOG_BASE_URL":     "https://cdn.example.com/catalog",
		"MOTO_WEB_CATALOG_TIMEOUT":      "3s",
		"MOTO_WEB_CATALOG_SNAPSHOT_TTL": "30s",
		"MOTO_WEB_LOG_FORMAT":           "console",
	}))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.False(t, cfg.Dev)
	require.Equal(t, "en", cfg.DefaultLang)
	require.True(t, cfg.RemoteCatalog())
	require.Equal(t, 3*time.Second, cfg.CatalogTimeout)
	require.Equal(t, 30*time.Second, cfg.CatalogSnapshotTTL)
	require.Equal(t, "console", cfg.LogFormat)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"MOTO_WEB_CATALOG_TIMEOUT": "soon"}))
	require.Error(t, err)
	_, err = FromEnv(envMap(map[string]string{"MOTO_WEB_CATALOG_SNAPSHOT_TTL": "-1m"}))
	require.Error(t, err)
	_, err = FromEnv(envMap(map[string]string{"MOTO_WEB_DEV": "maybe"}))
	require.Error(t, err)
}

func TestLoadReadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MOTO_WEB_ADDR=127.0.0.1:7070\n"), 0o644))
	t.Setenv("MOTO_WEB_ADDR", "")
	require.NoError(t, os.Unsetenv("MOTO_WEB_ADDR"))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7070", cfg.Addr)
}
