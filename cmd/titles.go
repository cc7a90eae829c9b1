package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/grid"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List esports titles available to the API key",
	Args:  cobra.NoArgs,
	RunE:  runTitles,
}

func runTitles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	client := grid.NewCentralData(cfg.GridCentralDataURL, cfg.GridAPIKey)
	titles, err := client.Titles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list titles: %w", err)
	}

	for _, t := range titles {
		fmt.Printf("%s\t%s\n", t.ID, t.Name)
	}
	return nil
}
