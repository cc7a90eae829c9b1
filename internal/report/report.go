// Package report renders analysis results as console tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// PrintRunHeader prints a one-line summary header for an analysis run.
func PrintRunHeader(w io.Writer, r model.RunSummary) {
	rate := 0.0
	if r.Kills > 0 {
		rate = float64(r.Mistakes) / float64(r.Kills) * 100
	}
	fmt.Fprintf(w, "\nSeries: %s  |  Run: %s  |  Kills: %d  |  Untraded: %d (%.1f%%)  |  Window: %.0fs\n\n",
		r.SeriesID, shortID(r.RunID), r.Kills, r.Mistakes, rate, r.ClusterWindow)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMistakeTable prints scored deaths, highest total first. rows are
// assumed pre-sorted by the storage layer.
func PrintMistakeTable(w io.Writer, rows []model.MistakeRow) {
	table := newTable(w)
	table.Header("TIME", "VICTIM", "TEAM", "KILLER", "UNANSWERED", "OBJECTIVE", "OBJ_ANSWER", "BASE", "ANS_B", "OBJ_B", "TOTAL")

	for _, m := range rows {
		team := m.VictimTeamName
		if team == "" {
			team = m.VictimTeam
		}
		unanswered := " "
		if m.Unanswered {
			unanswered = "yes"
		}
		objective := "—"
		if m.Proximity != "" && m.Proximity != "none" {
			objective = fmt.Sprintf("%s %s%+.0fs", m.Proximity, m.ObjectiveKind, m.ObjectiveDelta)
		}
		answer := "—"
		if m.AnsweredBy != "" {
			answer = fmt.Sprintf("%s +%.0fs", m.AnsweredBy, m.AnsweredDelta)
		}
		table.Append(
			clock(m.OccurredAt),
			m.VictimPlayer,
			team,
			m.KillerPlayer,
			unanswered,
			objective,
			answer,
			fmt.Sprintf("%.0f", m.BaseGravity),
			fmt.Sprintf("%.0f", m.AnswerBonus),
			fmt.Sprintf("%.1f", m.ObjectiveBonus),
			fmt.Sprintf("%.1f", m.Total),
		)
	}
	table.Render()
}

// teamAgg accumulates per-team totals for the summary table.
type teamAgg struct {
	label      string
	count      int
	unanswered int
	gravity    float64
}

// PrintTeamSummary aggregates scored deaths by victim team.
func PrintTeamSummary(w io.Writer, rows []model.MistakeRow) {
	byTeam := map[string]*teamAgg{}
	for _, m := range rows {
		agg := byTeam[m.VictimTeam]
		if agg == nil {
			label := m.VictimTeamName
			if label == "" {
				label = m.VictimTeam
			}
			agg = &teamAgg{label: label}
			byTeam[m.VictimTeam] = agg
		}
		agg.count++
		if m.Unanswered {
			agg.unanswered++
		}
		agg.gravity += m.Total
	}

	teams := make([]*teamAgg, 0, len(byTeam))
	for _, agg := range byTeam {
		teams = append(teams, agg)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].gravity != teams[j].gravity {
			return teams[i].gravity > teams[j].gravity
		}
		return teams[i].label < teams[j].label
	})

	fmt.Fprintln(w, "\nTeam summary (victim team):")
	table := newTable(w)
	table.Header("TEAM", "UNTRADED", "UNANSWERED", "TOTAL_GRAVITY")
	for _, agg := range teams {
		table.Append(
			agg.label,
			strconv.Itoa(agg.count),
			strconv.Itoa(agg.unanswered),
			fmt.Sprintf("%.1f", agg.gravity),
		)
	}
	table.Render()
}

// PrintPlayerSummary prints the heaviest victims, top n by summed gravity.
func PrintPlayerSummary(w io.Writer, rows []model.MistakeRow, n int) {
	type agg struct {
		name    string
		count   int
		gravity float64
	}
	byPlayer := map[string]*agg{}
	for _, m := range rows {
		a := byPlayer[m.VictimPlayer]
		if a == nil {
			a = &agg{name: m.VictimPlayer}
			byPlayer[m.VictimPlayer] = a
		}
		a.count++
		a.gravity += m.Total
	}

	players := make([]*agg, 0, len(byPlayer))
	for _, a := range byPlayer {
		players = append(players, a)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].gravity != players[j].gravity {
			return players[i].gravity > players[j].gravity
		}
		return players[i].name < players[j].name
	})
	if n > 0 && len(players) > n {
		players = players[:n]
	}

	fmt.Fprintln(w, "\nPlayer summary (victims):")
	table := newTable(w)
	table.Header("PLAYER", "UNTRADED", "TOTAL_GRAVITY")
	for _, a := range players {
		table.Append(a.name, strconv.Itoa(a.count), fmt.Sprintf("%.1f", a.gravity))
	}
	table.Render()
}

// clock formats game-clock seconds as m:ss.
func clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
