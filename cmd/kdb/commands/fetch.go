package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"kdb-scraper/lib/catalogdb"
	"kdb-scraper/lib/pipeline"
	"kdb-scraper/lib/restyutil"
	"kdb-scraper/lib/scrapers/kdb"

	"github.com/spf13/cobra"
)

var (
	fetchCache   *string
	fetchOut     *string
	fetchYear    *int
	fetchDb      *string
	fetchRefresh *bool
)

func init() {
	fetchCache = fetchCmd.Flags().String("cache", "", "The raw export cache file, downloaded only when missing.")
	fetchOut = fetchCmd.Flags().String("out", "", "The directory json files are written to.")
	fetchYear = fetchCmd.Flags().Int("year", 0, "The academic year to fetch.")
	fetchDb = fetchCmd.Flags().String("db", "", "A sqlite database to also write the courses to.")
	fetchRefresh = fetchCmd.Flags().Bool("refresh", false, "Removes the cache file before fetching.")
	rootCmd.AddCommand(fetchCmd)
}

// applyFetchFlags lets flags that were set on the command line win over
// the config file.
func applyFetchFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("cache") {
		cfg.CachePath = *fetchCache
	}
	if flags.Changed("out") {
		cfg.OutputDir = *fetchOut
	}
	if flags.Changed("year") {
		cfg.Year = *fetchYear
	}
	if flags.Changed("db") {
		cfg.Database = *fetchDb
	}
}

func removeCache(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no cache file to remove", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("removed cache file", "path", path)
	return nil
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--cache <path/to/kdb.csv>] [--out <dir>] [--year <year>] [--db <path/to/kdb.db>] [--refresh]",
	Short: "Downloads the course catalog (unless cached) and writes the json outputs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config
		applyFetchFlags(cmd, &cfg)

		if *fetchRefresh {
			err := removeCache(cfg.CachePath)
			if err != nil {
				return err
			}
		}

		if *verbose {
			out, err := restyutil.NewFilesystemOutput(filepath.Join(filepath.Dir(cfg.CachePath), ".http"))
			if err != nil {
				return err
			}
			kdb.SetRestyInstrumentOutput(out)
		}

		opts := pipeline.Options{
			Client:    cfg.clientOptions(),
			Year:      cfg.Year,
			CachePath: cfg.CachePath,
			OutputDir: cfg.OutputDir,
		}

		if cfg.Database != "" {
			db, err := catalogdb.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			opts.DB = db
		}

		result, err := pipeline.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		slog.Info(
			"fetch finished",
			"cache_hit", result.CacheHit,
			"files", len(result.Written),
			"database", cfg.Database,
		)
		return nil
	},
}
