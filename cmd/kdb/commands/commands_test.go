package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kdb-scraper/lib/catalog"
	"kdb-scraper/lib/catalogdb"
	"kdb-scraper/lib/scrapers/kdb"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kdb.json5")

	t.Setenv("KDB_URL", "")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
	require.Equal(t, kdb.DefaultUserAgent, cfg.UserAgent)

	err = os.WriteFile(path, []byte(`{
		year: 2026,
		database: "dist/kdb.db",
		telemetry: {otlp: {traces: {http_endpoint: "http://localhost:4318/v1/traces"}}},
	}`), 0600)
	require.NoError(t, err)

	t.Setenv("KDB_URL", "https://portal.example/")
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 2026, cfg.Year)
	require.Equal(t, "dist/kdb.db", cfg.Database)
	require.Equal(t, "https://portal.example/", cfg.BaseUrl)
	require.Equal(t, "dist/kdb.csv", cfg.CachePath)
	require.Equal(t, "http://localhost:4318/v1/traces", cfg.Telemetry.Otlp.Traces.HttpEndpoint)

	opts := cfg.clientOptions()
	require.Equal(t, "https://portal.example/", opts.BaseUrl)
	require.Equal(t, kdb.DefaultTimeout, opts.Timeout)
}

func TestRemoveCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdb.csv")
	require.NoError(t, removeCache(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	require.NoError(t, removeCache(path))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestStatsTable(t *testing.T) {
	p := catalog.Partition([]catalog.Record{
		{Code: "GB10234"},
		{Code: "GB10234"},
		{Code: "01CF101"},
	})
	rendered := statsTable(p).Render()
	require.Contains(t, rendered, "undergraduate")
	require.Contains(t, rendered, "kdb_grad.json")

	require.Equal(t, 2, distinctCodes(p.All))
	require.Equal(t, 1, distinctCodes(p.Undergraduate))
}

func TestDatabaseTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kdb.db")

	_, err := databaseTable(ctx, path)
	require.True(t, os.IsNotExist(err), err)

	db, err := catalogdb.Open(path)
	require.NoError(t, err)
	err = catalogdb.Replace(ctx, db, []catalog.Record{
		{Code: "GB10234"},
		{Code: "GB20101"},
		{Code: "01CF101"},
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tw, err := databaseTable(ctx, path)
	require.NoError(t, err)

	counts := map[string]string{}
	for _, line := range strings.Split(tw.Render(), "\n") {
		fields := strings.Fields(strings.ReplaceAll(line, "│", " "))
		if len(fields) == 2 {
			counts[fields[0]] = fields[1]
		}
	}
	require.Equal(t, map[string]string{
		"STORED":        "COURSES",
		"all":           "3",
		"undergraduate": "2",
		"graduate":      "1",
	}, counts)
}
