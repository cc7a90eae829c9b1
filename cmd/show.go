package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/storage"
)

// show command flags.
var (
	showRunID    string
	showSeriesID string
	showTop      int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored run",
	Long: `Renders a stored analysis run. Pass --run-id for a specific run, or
--series-id for the most recent run of a series.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showRunID, "run-id", "", "run to show")
	showCmd.Flags().StringVar(&showSeriesID, "series-id", "", "show the latest run of this series")
	showCmd.Flags().IntVar(&showTop, "top", 10, "rows in the mistake table, 0 for all")
	showCmd.MarkFlagsOneRequired("run-id", "series-id")
	showCmd.MarkFlagsMutuallyExclusive("run-id", "series-id")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if showRunID != "" {
		run, err := db.GetRun(showRunID)
		if err != nil {
			return err
		}
		render(os.Stdout, db, run, showTop)
		return nil
	}

	latest, err := db.LatestRun(showSeriesID)
	if err != nil {
		return err
	}
	render(os.Stdout, db, latest, showTop)
	return nil
}
