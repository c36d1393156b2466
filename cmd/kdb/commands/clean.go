package commands

import (
	"github.com/spf13/cobra"
)

var cleanCache *string

func init() {
	cleanCache = cleanCmd.Flags().String("cache", "", "The raw export cache file to remove.")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean [--cache <path/to/kdb.csv>]",
	Short: "Removes the cached export so the next fetch downloads it again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.CachePath
		if cmd.Flags().Changed("cache") {
			path = *cleanCache
		}
		return removeCache(path)
	},
}
