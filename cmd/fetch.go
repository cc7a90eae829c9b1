package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/config"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/grid"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/parser"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/storage"
)

// fetch command flags.
var (
	fetchSeriesIDs []string
	// fetchTournament is an optional label stored alongside the series.
	fetchTournament string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download series event files from GRID",
	Long: `Downloads the events file (and end-of-series state, when available)
for each series and records the locations for later analysis.

Example:
  mgi fetch --series-id 2710551 --series-id 2710552`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSeriesIDs, "series-id", nil, "series ID to fetch (repeatable, required)")
	fetchCmd.Flags().StringVar(&fetchTournament, "tournament", "", "tournament label stored with the series")
	_ = fetchCmd.MarkFlagRequired("series-id")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	path := cfg.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client := grid.NewFileDownload(cfg.GridFileDownloadURL, cfg.GridAPIKey)

	fetched := 0
	for _, id := range fetchSeriesIDs {
		if err := fetchSeries(cmd, client, db, cfg, id); err != nil {
			fmt.Fprintf(os.Stderr, "  [error] series %s: %v\n", id, err)
			continue
		}
		fetched++
	}
	fmt.Printf("\nDone: %d/%d series fetched.\n", fetched, len(fetchSeriesIDs))
	if fetched < len(fetchSeriesIDs) {
		return fmt.Errorf("%d series failed", len(fetchSeriesIDs)-fetched)
	}
	return nil
}

func fetchSeries(cmd *cobra.Command, client *grid.FileDownload, db *storage.DB, cfg *config.Config, seriesID string) error {
	fmt.Printf("Series %s:\n", seriesID)

	files, err := client.ListFiles(cmd.Context(), seriesID)
	if err != nil {
		return err
	}

	dir := cfg.SeriesDir(seriesID)
	eventsPath := filepath.Join(dir, "events.jsonl")
	endStatePath := filepath.Join(dir, "end_state.json")

	events := pickFile(files, "events")
	if events == nil {
		return fmt.Errorf("no ready events file in listing (%d files)", len(files))
	}

	if strings.HasSuffix(events.FileName, ".zip") {
		zipPath := eventsPath + ".zip"
		if err := client.DownloadTo(cmd.Context(), events.FullURL, zipPath); err != nil {
			return fmt.Errorf("download events: %w", err)
		}
		if err := grid.UnzipFirstJSONL(zipPath, eventsPath); err != nil {
			return err
		}
		os.Remove(zipPath)
	} else {
		if err := client.DownloadTo(cmd.Context(), events.FullURL, eventsPath); err != nil {
			return fmt.Errorf("download events: %w", err)
		}
	}
	fmt.Printf("  events: %s\n", eventsPath)

	teams := ""
	if endState := pickFile(files, "state"); endState != nil {
		if err := client.DownloadTo(cmd.Context(), endState.FullURL, endStatePath); err != nil {
			fmt.Fprintf(os.Stderr, "  [warn] end state: %v\n", err)
			endStatePath = ""
		} else {
			fmt.Printf("  end state: %s\n", endStatePath)
			teams = teamLabel(endStatePath)
		}
	} else {
		fmt.Println("  [skip] no end-state file available; reports will show raw team IDs")
		endStatePath = ""
	}

	return db.UpsertSeries(model.SeriesFiles{
		SeriesID:     seriesID,
		Teams:        teams,
		Tournament:   fetchTournament,
		EventsPath:   eventsPath,
		EndStatePath: endStatePath,
		FetchedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// pickFile returns the first ready artifact whose ID or file name contains
// needle.
func pickFile(files []grid.File, needle string) *grid.File {
	for i, f := range files {
		if !f.Ready() {
			continue
		}
		if strings.Contains(strings.ToLower(f.ID), needle) || strings.Contains(strings.ToLower(f.FileName), needle) {
			return &files[i]
		}
	}
	return nil
}

// teamLabel extracts a comma-joined team list from a downloaded end-state
// file, best effort.
func teamLabel(endStatePath string) string {
	names, err := parser.TeamNames(endStatePath)
	if err != nil {
		return ""
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name)
	}
	// Map order is random; keep the label stable.
	sort.Strings(out)
	return strings.Join(out, ", ")
}
