package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Year    int    `json:"year"`
	Cache   string `json:"cache_path"`
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "conf/kdb.local.json5", LocalPath("conf/kdb.json5"))
	require.Equal(t, "kdb.local", LocalPath("kdb"))
}

func TestReadConfig(t *testing.T) {
	defaults := testConfig{
		BaseUrl: "https://kdb.example",
		Year:    2025,
		Cache:   "dist/kdb.csv",
	}

	t.Run("missing files", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := ReadConfig(filepath.Join(dir, "kdb.json5"), defaults)
		require.NoError(t, err)
		require.Equal(t, defaults, cfg)
	})

	t.Run("layers", func(t *testing.T) {
		dir := t.TempDir()
		name := filepath.Join(dir, "kdb.json5")
		err := os.WriteFile(name, []byte(`{
			// the catalog edition
			year: 2024,
			cache_path: "cache/kdb.csv",
		}`), 0600)
		require.NoError(t, err)
		err = os.WriteFile(LocalPath(name), []byte(`{year: 2026}`), 0600)
		require.NoError(t, err)

		cfg, err := ReadConfig(name, defaults)
		require.NoError(t, err)
		require.Equal(t, testConfig{
			BaseUrl: "https://kdb.example",
			Year:    2026,
			Cache:   "cache/kdb.csv",
		}, cfg)
	})

	t.Run("invalid", func(t *testing.T) {
		dir := t.TempDir()
		name := filepath.Join(dir, "kdb.json5")
		err := os.WriteFile(name, []byte(`{year: `), 0600)
		require.NoError(t, err)

		_, err = ReadConfig(name, defaults)
		require.Error(t, err)
	})
}
