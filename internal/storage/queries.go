package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// UpsertSeries records where a fetched series' files live. Uses INSERT OR
// REPLACE so re-fetching a series is idempotent.
func (db *DB) UpsertSeries(s model.SeriesFiles) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO series(id, teams, tournament, events_path, end_state_path, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.SeriesID, s.Teams, s.Tournament, s.EventsPath, s.EndStatePath, s.FetchedAt,
	)
	return err
}

// GetSeries returns the stored file locations for one series.
func (db *DB) GetSeries(seriesID string) (model.SeriesFiles, error) {
	var s model.SeriesFiles
	err := db.conn.QueryRow(`
		SELECT id, teams, tournament, events_path, end_state_path, fetched_at
		FROM series WHERE id = ?`, seriesID).
		Scan(&s.SeriesID, &s.Teams, &s.Tournament, &s.EventsPath, &s.EndStatePath, &s.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SeriesFiles{}, fmt.Errorf("series %s: %w", seriesID, ErrNotFound)
	}
	return s, err
}

// ListSeries returns every fetched series, most recent first.
func (db *DB) ListSeries() ([]model.SeriesFiles, error) {
	rows, err := db.conn.Query(`
		SELECT id, teams, tournament, events_path, end_state_path, fetched_at
		FROM series ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeriesFiles
	for rows.Next() {
		var s model.SeriesFiles
		if err := rows.Scan(&s.SeriesID, &s.Teams, &s.Tournament, &s.EventsPath, &s.EndStatePath, &s.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertRun records an analysis run.
func (db *DB) InsertRun(r model.RunSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs(run_id, series_id, created_at, cluster_window, kills, mistakes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SeriesID, r.CreatedAt, r.ClusterWindow, r.Kills, r.Mistakes,
	)
	return err
}

// ListRuns returns runs for a series, most recent first. An empty seriesID
// lists every run.
func (db *DB) ListRuns(seriesID string) ([]model.RunSummary, error) {
	query := `
		SELECT run_id, series_id, created_at, cluster_window, kills, mistakes
		FROM runs`
	var args []interface{}
	if seriesID != "" {
		query += " WHERE series_id = ?"
		args = append(args, seriesID)
	}
	query += " ORDER BY created_at DESC, run_id DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.RunID, &r.SeriesID, &r.CreatedAt, &r.ClusterWindow, &r.Kills, &r.Mistakes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns one run by ID.
func (db *DB) GetRun(runID string) (model.RunSummary, error) {
	var r model.RunSummary
	err := db.conn.QueryRow(`
		SELECT run_id, series_id, created_at, cluster_window, kills, mistakes
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.SeriesID, &r.CreatedAt, &r.ClusterWindow, &r.Kills, &r.Mistakes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunSummary{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return r, err
}

// LatestRun returns the most recent run for a series.
func (db *DB) LatestRun(seriesID string) (model.RunSummary, error) {
	var r model.RunSummary
	err := db.conn.QueryRow(`
		SELECT run_id, series_id, created_at, cluster_window, kills, mistakes
		FROM runs WHERE series_id = ?
		ORDER BY created_at DESC, run_id DESC LIMIT 1`, seriesID).
		Scan(&r.RunID, &r.SeriesID, &r.CreatedAt, &r.ClusterWindow, &r.Kills, &r.Mistakes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunSummary{}, fmt.Errorf("no runs for series %s: %w", seriesID, ErrNotFound)
	}
	return r, err
}

// InsertMistakes bulk-inserts the scored deaths of one run in a transaction.
func (db *DB) InsertMistakes(rows []model.MistakeRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO mistakes(
			run_id, occurred_at,
			victim_player, victim_team, victim_team_name,
			killer_player, killer_team,
			unanswered, proximity, objective_kind, objective_delta,
			answered_by, answered_delta,
			base_gravity, answer_bonus, objective_bonus, total
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range rows {
		_, err = stmt.Exec(
			m.RunID, m.OccurredAt,
			m.VictimPlayer, m.VictimTeam, m.VictimTeamName,
			m.KillerPlayer, m.KillerTeam,
			boolInt(m.Unanswered), m.Proximity, m.ObjectiveKind, m.ObjectiveDelta,
			m.AnsweredBy, m.AnsweredDelta,
			m.BaseGravity, m.AnswerBonus, m.ObjectiveBonus, m.Total,
		)
		if err != nil {
			return fmt.Errorf("insert mistake for %s at %.1fs: %w", m.VictimPlayer, m.OccurredAt, err)
		}
	}
	return tx.Commit()
}

// MistakesByRun returns a run's scored deaths, highest total first, ties
// broken by time. limit <= 0 returns all rows.
func (db *DB) MistakesByRun(runID string, limit int) ([]model.MistakeRow, error) {
	query := `
		SELECT run_id, occurred_at,
		       victim_player, victim_team, victim_team_name,
		       killer_player, killer_team,
		       unanswered, proximity, objective_kind, objective_delta,
		       answered_by, answered_delta,
		       base_gravity, answer_bonus, objective_bonus, total
		FROM mistakes WHERE run_id = ?
		ORDER BY total DESC, occurred_at ASC`
	args := []interface{}{runID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MistakeRow
	for rows.Next() {
		var m model.MistakeRow
		var unanswered int
		if err := rows.Scan(
			&m.RunID, &m.OccurredAt,
			&m.VictimPlayer, &m.VictimTeam, &m.VictimTeamName,
			&m.KillerPlayer, &m.KillerTeam,
			&unanswered, &m.Proximity, &m.ObjectiveKind, &m.ObjectiveDelta,
			&m.AnsweredBy, &m.AnsweredDelta,
			&m.BaseGravity, &m.AnswerBonus, &m.ObjectiveBonus, &m.Total,
		); err != nil {
			return nil, err
		}
		m.Unanswered = unanswered != 0
		out = append(out, m)
	}
	return out, rows.Err()
}
