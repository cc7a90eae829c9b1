package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/analysis"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/config"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/parser"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/report"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/storage"
)

// analyze command flags.
var (
	analyzeTop  int
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <series-id>...",
	Short: "Score untraded deaths in fetched series",
	Long: `Parses each series' event file, detects deaths that were never traded
back within their fight, correlates them with the objective timeline, and
stores the scored result as a new run.

Series whose files have not been fetched are reported and skipped; the batch
continues with the next series.

Example:
  mgi analyze 2710551 2710552 --top 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "rows in the mistake table, 0 for all")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "also write the full result as JSON under <data-dir>/derived/")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return analyzeAll(db, cfg, args)
}

// analyzeAll runs the series sequentially. A series whose files are missing
// on disk is reported and skipped; any other failure aborts the batch so a
// bad event file never passes silently.
func analyzeAll(db *storage.DB, cfg *config.Config, seriesIDs []string) error {
	analyzed := 0
	for _, id := range seriesIDs {
		if err := analyzeSeries(db, cfg, id); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "  [skip] series %s: %v\n", id, err)
				continue
			}
			return err
		}
		analyzed++
	}
	fmt.Printf("\nDone: %d/%d series analyzed.\n", analyzed, len(seriesIDs))
	if analyzed < len(seriesIDs) {
		return fmt.Errorf("%d series skipped", len(seriesIDs)-analyzed)
	}
	return nil
}

func analyzeSeries(db *storage.DB, cfg *config.Config, seriesID string) error {
	series, err := db.GetSeries(seriesID)
	if errors.Is(err, storage.ErrNotFound) {
		// Fall back to the conventional on-disk layout so files fetched by
		// other tooling still analyze.
		dir := cfg.SeriesDir(seriesID)
		series = model.SeriesFiles{
			SeriesID:     seriesID,
			EventsPath:   filepath.Join(dir, "events.jsonl"),
			EndStatePath: filepath.Join(dir, "end_state.json"),
		}
	} else if err != nil {
		return err
	}

	if _, err := os.Stat(series.EventsPath); err != nil {
		return fmt.Errorf("missing %s (run 'mgi fetch --series-id %s' first): %w", series.EventsPath, seriesID, err)
	}

	parsed, err := parser.ParseEvents(series.EventsPath)
	if err != nil {
		return err
	}
	if parsed.Stats.SkippedLines > 0 || parsed.Stats.SkippedEvents > 0 {
		fmt.Fprintf(os.Stderr, "[warn] series %s: skipped %d malformed lines, %d unusable events\n",
			seriesID, parsed.Stats.SkippedLines, parsed.Stats.SkippedEvents)
	}

	teamNames := map[string]string{}
	if series.EndStatePath != "" {
		if teamNames, err = parser.TeamNames(series.EndStatePath); err != nil {
			fmt.Fprintf(os.Stderr, "[warn] end state: %v\n", err)
			teamNames = map[string]string{}
		}
	}

	scored, err := analysis.Analyze(parsed.Events, cfg.Engine())
	if err != nil {
		return fmt.Errorf("analyze series %s: %w", seriesID, err)
	}

	run := model.RunSummary{
		RunID:         uuid.NewString(),
		SeriesID:      seriesID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		ClusterWindow: cfg.Analysis.ClusterWindow,
		Kills:         parsed.Stats.Kills,
		Mistakes:      len(scored),
	}
	rows := flatten(run.RunID, scored, teamNames)

	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	if err := db.InsertMistakes(rows); err != nil {
		return fmt.Errorf("store mistakes: %w", err)
	}

	if analyzeJSON {
		outPath := filepath.Join(cfg.DataDir, "derived", "series_"+seriesID, "mistakes.json")
		if err := writeJSON(outPath, rows); err != nil {
			return err
		}
		fmt.Printf("Wrote: %s\n", outPath)
	}

	render(os.Stdout, db, run, analyzeTop)
	return nil
}

// flatten converts scored deaths into storage rows, resolving team display
// names.
func flatten(runID string, scored []model.ScoredDeath, teamNames map[string]string) []model.MistakeRow {
	rows := make([]model.MistakeRow, 0, len(scored))
	for _, s := range scored {
		d := s.Death
		row := model.MistakeRow{
			RunID:          runID,
			OccurredAt:     d.Kill.Time,
			VictimPlayer:   d.Kill.VictimPlayer,
			VictimTeam:     d.Kill.VictimTeam,
			VictimTeamName: teamNames[d.Kill.VictimTeam],
			KillerPlayer:   d.Kill.ActorPlayer,
			KillerTeam:     d.Kill.ActorTeam,
			Unanswered:     d.Unanswered,
			Proximity:      d.Objective.Proximity.String(),
			BaseGravity:    s.Score.BaseGravity,
			AnswerBonus:    s.Score.AnswerBonus,
			ObjectiveBonus: s.Score.ObjectiveBonus,
			Total:          s.Score.Total,
		}
		if d.Objective.Proximity != model.ProximityNone {
			row.ObjectiveKind = string(d.Objective.Kind)
			row.ObjectiveDelta = d.Objective.Delta
		}
		if d.Answer != nil {
			row.AnsweredBy = string(d.Answer.Kind)
			row.AnsweredDelta = d.Answer.Delta
		}
		rows = append(rows, row)
	}
	return rows
}

func writeJSON(path string, rows []model.MistakeRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// render prints the stored run the same way show does.
func render(w io.Writer, db *storage.DB, run model.RunSummary, top int) {
	report.PrintRunHeader(w, run)
	rows, err := db.MistakesByRun(run.RunID, top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[error] load mistakes: %v\n", err)
		return
	}
	report.PrintMistakeTable(w, rows)

	all, err := db.MistakesByRun(run.RunID, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[error] load mistakes: %v\n", err)
		return
	}
	report.PrintTeamSummary(w, all)
	report.PrintPlayerSummary(w, all, 10)
}
