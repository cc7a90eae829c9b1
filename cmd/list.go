package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/storage"
)

var listSeriesID string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fetched series and stored runs",
	Args:  cobra.NoArgs,
	RunE:  runListCmd,
}

func init() {
	listCmd.Flags().StringVar(&listSeriesID, "series-id", "", "only show runs for this series")
}

func runListCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if listSeriesID == "" {
		series, err := db.ListSeries()
		if err != nil {
			return fmt.Errorf("list series: %w", err)
		}
		if len(series) == 0 {
			fmt.Fprintln(os.Stdout, "No series fetched yet. Run 'mgi fetch --series-id <id>' to add one.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-28s  %-20s  %s\n", "SERIES", "TEAMS", "FETCHED", "TOURNAMENT")
		for _, s := range series {
			fmt.Fprintf(os.Stdout, "%-10s  %-28s  %-20s  %s\n", s.SeriesID, s.Teams, s.FetchedAt, s.Tournament)
		}
		fmt.Fprintln(os.Stdout)
	}

	runs, err := db.ListRuns(listSeriesID)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'mgi analyze <series-id>' to create one.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-10s  %-20s  %7s  %5s  %8s\n", "RUN", "SERIES", "CREATED", "WINDOW", "KILLS", "MISTAKES")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-10s  %-20s  %6.0fs  %5d  %8d\n",
			r.RunID, r.SeriesID, r.CreatedAt, r.ClusterWindow, r.Kills, r.Mistakes)
	}
	return nil
}
