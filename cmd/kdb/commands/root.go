package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kdb-scraper/lib/scrapers/kdb"
	"kdb-scraper/lib/serviceutil"
	"kdb-scraper/lib/telemetry"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool

	config Config
	tel    telemetry.Telemetry
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "kdb.json5", "The config file, overridden by <name>.local.json5.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logs and http message dumps.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:           "kdb",
	Short:         "kdb downloads the course catalog and converts it to json.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSlog(*verbose)

		var err error
		config, err = loadConfig(*configPath)
		if err != nil {
			return err
		}

		tel, err = telemetry.Setup(cmd.Context(), "kdb", kdb.Version, config.Telemetry)
		return err
	},
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := tel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	shutdownTelemetry()
	if err != nil {
		serviceutil.Fatal("kdb failed", err)
	}
}
