package commands

import (
	"context"
	"fmt"
	"os"

	"kdb-scraper/lib/catalog"
	"kdb-scraper/lib/catalogdb"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var statsCache *string
var statsDb *string

func init() {
	statsCache = statsCmd.Flags().String("cache", "", "The raw export cache file to read.")
	statsDb = statsCmd.Flags().String("db", "", "Also print the course counts stored in this sqlite database.")
	rootCmd.AddCommand(statsCmd)
}

func distinctCodes(records []catalog.Record) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		seen[r.Code] = struct{}{}
	}
	return len(seen)
}

func statsTable(p catalog.Partitions) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Partition", "Courses", "Distinct codes", "Files"})
	t.AppendRows([]table.Row{
		{"all", len(p.All), distinctCodes(p.All), "kdb.json, kdb.min.json"},
		{"undergraduate", len(p.Undergraduate), distinctCodes(p.Undergraduate), "kdb_undergrad.json, kdb_undergrad.min.json"},
		{"graduate", len(p.Graduate), distinctCodes(p.Graduate), "kdb_grad.json, kdb_grad.min.json"},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t
}

// databaseTable counts the courses stored by `fetch --db`, a missing
// database is an error rather than a new empty one.
func databaseTable(ctx context.Context, path string) (table.Writer, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	db, err := catalogdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	undergrad, grad, err := catalogdb.CountGraduate(ctx, db)
	if err != nil {
		return nil, err
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stored", "Courses"})
	t.AppendRows([]table.Row{
		{"all", undergrad + grad},
		{"undergraduate", undergrad},
		{"graduate", grad},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return t, nil
}

var statsCmd = &cobra.Command{
	Use:   "stats [--cache <path/to/kdb.csv>] [--db <path/to/kdb.db>]",
	Short: "Prints course counts per partition of the cached export, without downloading.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.CachePath
		if cmd.Flags().Changed("cache") {
			path = *statsCache
		}

		records, err := catalog.DecodeFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), statsTable(catalog.Partition(records)).Render())

		if *statsDb == "" {
			return nil
		}
		t, err := databaseTable(cmd.Context(), *statsDb)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
