package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/grid"
)

// series list flags.
var (
	seriesTournamentID string
	seriesTeam         string
	seriesLimit        int
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Central-data series commands",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series of a tournament, optionally filtered by team name",
	Args:  cobra.NoArgs,
	RunE:  runSeriesList,
}

func init() {
	seriesListCmd.Flags().StringVar(&seriesTournamentID, "tournament-id", "", "tournament ID (required)")
	seriesListCmd.Flags().StringVar(&seriesTeam, "team", "", `filter by team name substring, e.g. "Cloud9"`)
	seriesListCmd.Flags().IntVar(&seriesLimit, "limit", 20, "max rows to print")
	_ = seriesListCmd.MarkFlagRequired("tournament-id")

	seriesCmd.AddCommand(seriesListCmd)
}

func runSeriesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	client := grid.NewCentralData(cfg.GridCentralDataURL, cfg.GridAPIKey)
	series, err := client.SeriesByTournament(cmd.Context(), seriesTournamentID, seriesTeam)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}
	if len(series) == 0 {
		fmt.Println("No series found for given filters.")
		return nil
	}

	count := 0
	for _, s := range series {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.StartTime, s.TitleShort, s.TournamentName, strings.Join(s.Teams, ", "))
		count++
		if seriesLimit > 0 && count >= seriesLimit {
			break
		}
	}
	fmt.Printf("\nReturned %d of %d series.\n", count, len(series))
	return nil
}
