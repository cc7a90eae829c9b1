package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/config"
)

// persistent flags, applied on top of the loaded configuration.
var (
	cfgPath string
	dataDir string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "mgi",
	Short: "Mistake Gravity Index for League of Legends series",
	Long: `Fetches GRID series telemetry, detects untraded deaths around fights
and objectives, and scores each one by how much it should have hurt.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: $MGI_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for raw series files and the database (default: ~/.mgi)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default: <data-dir>/mgi.db)")

	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

// loadConfig layers file and env configuration, then applies the persistent
// flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// requireAPIKey fails with a hint when no GRID key is configured.
func requireAPIKey(cfg *config.Config) error {
	if cfg.GridAPIKey == "" {
		return fmt.Errorf("GRID API key not found: set MGI_GRID_API_KEY (or legacy GRID_API_KEY), or grid_api_key in the config file")
	}
	return nil
}
