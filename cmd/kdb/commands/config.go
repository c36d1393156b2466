package commands

import (
	"os"
	"time"

	"kdb-scraper/lib/configutil"
	"kdb-scraper/lib/scrapers/kdb"
	"kdb-scraper/lib/telemetry"
)

const DefaultYear = 2025

type Config struct {
	BaseUrl        string           `json:"base_url"`
	Year           int              `json:"year"`
	CachePath      string           `json:"cache_path"`
	OutputDir      string           `json:"output_dir"`
	UserAgent      string           `json:"user_agent"`
	TimeoutSeconds int              `json:"timeout_seconds"`
	Database       string           `json:"database"`
	Telemetry      telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl:        kdb.DefaultBaseUrl,
		Year:           DefaultYear,
		CachePath:      "dist/kdb.csv",
		OutputDir:      "dist",
		UserAgent:      kdb.DefaultUserAgent,
		TimeoutSeconds: int(kdb.DefaultTimeout / time.Second),
	}
}

// loadConfig reads `path` (and its .local override) over the defaults,
// KDB_URL takes precedence over the configured base url.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig(path, defaultConfig())
	if err != nil {
		return cfg, err
	}
	if url := os.Getenv("KDB_URL"); url != "" {
		cfg.BaseUrl = url
	}
	return cfg, nil
}

func (c Config) clientOptions() kdb.ClientOptions {
	return kdb.ClientOptions{
		BaseUrl:   c.BaseUrl,
		UserAgent: c.UserAgent,
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
	}
}
