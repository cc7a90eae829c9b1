package analysis

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// ---- Scenario builders shared across the package tests ----

// kill builds a normalized kill event.
func kill(t float64, killerTeam, killer, victimTeam, victim string) model.Event {
	return model.Event{
		Time: t, Type: model.EventKill,
		ActorTeam: killerTeam, ActorPlayer: killer,
		VictimTeam: victimTeam, VictimPlayer: victim,
	}
}

// capture builds a normalized objective capture event.
func capture(t float64, kind model.ObjectiveKind, team, player string) model.Event {
	return model.Event{
		Time: t, Type: model.EventObjectiveCapture,
		ActorTeam: team, ActorPlayer: player, Objective: kind,
	}
}

// rawKill builds a raw kill event on the game clock (seconds).
func rawKill(t float64, killerTeam, killer, victimTeam, victim string) model.RawEvent {
	return model.RawEvent{
		GameTime: t, GameTimeUnit: model.UnitSeconds,
		Type: model.EventKill, RawType: "player-killed-player",
		ActorTeam: killerTeam, ActorPlayer: killer,
		VictimTeam: victimTeam, VictimPlayer: victim,
	}
}

// rawCapture builds a raw objective capture on the game clock (seconds).
func rawCapture(t float64, kind model.ObjectiveKind, team string) model.RawEvent {
	return model.RawEvent{
		GameTime: t, GameTimeUnit: model.UnitSeconds,
		Type: model.EventObjectiveCapture, RawType: "player-completed-slay" + string(kind),
		ActorTeam: team, Objective: kind,
	}
}

// testConfig mirrors the shipped defaults: 25s cluster window for the classic
// two-kill scenarios, 30/90s radii, 25/30/35 gravity at 0/15/25 minutes.
func testConfig() Config {
	return Config{
		ClusterWindow: 25,
		Objective:     ObjectiveConfig{PressureRadius: 30, ContextRadius: 90},
		Scoring: ScoringConfig{
			Buckets: []GravityBucket{
				{FromMinutes: 0, Gravity: 25},
				{FromMinutes: 15, Gravity: 30},
				{FromMinutes: 25, Gravity: 35},
			},
			AnswerBonus:   10,
			PressureBonus: 15,
			ContextBonus:  5,
			KindWeights: map[model.ObjectiveKind]float64{
				model.ObjectiveBaron: 1.5,
				model.ObjectiveDrake: 1.2,
				model.ObjectiveTower: 1.0,
			},
			DefaultKindWeight: 1.0,
			AnswerWindow:      90,
		},
	}
}

// ---- End-to-end scenarios ----

// TestAnalyze_TradedPairProducesNoMistakes: A kills B at t=100, B kills A at
// t=110, window 25s → single cluster, both kills traded, empty result.
func TestAnalyze_TradedPairProducesNoMistakes(t *testing.T) {
	raw := []model.RawEvent{
		rawKill(100, "A", "a1", "B", "b1"),
		rawKill(110, "B", "b2", "A", "a2"),
	}

	got, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no untraded deaths, got %d", len(got))
	}
}

// TestAnalyze_LateBaronDeath: A kills B at t=1000 (late bucket at small bucket
// boundaries is mid here — 16.7m), no reciprocal, Baron captured by A at
// t=1010 → Pressure-tagged Baron bonus plus answer bonus (B got nothing).
func TestAnalyze_LateBaronDeath(t *testing.T) {
	raw := []model.RawEvent{
		rawKill(1000, "A", "a1", "B", "b1"),
		rawCapture(1010, model.ObjectiveBaron, "A"),
	}

	got, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 untraded death, got %d", len(got))
	}

	d := got[0]
	if d.Death.Kill.VictimPlayer != "b1" {
		t.Errorf("victim: want b1, got %s", d.Death.Kill.VictimPlayer)
	}
	if !d.Death.Unanswered {
		t.Error("expected Unanswered=true: team B secured no kill in the cluster")
	}
	if d.Death.Objective.Proximity != model.ProximityPressure {
		t.Errorf("proximity: want pressure, got %s", d.Death.Objective.Proximity)
	}
	if d.Death.Objective.Kind != model.ObjectiveBaron {
		t.Errorf("objective kind: want baron, got %s", d.Death.Objective.Kind)
	}

	// t=1000s is 16.7 minutes → mid bucket gravity 30.
	want := model.ScoreBreakdown{
		BaseGravity:    30,
		AnswerBonus:    10,
		ObjectiveBonus: 15 * 1.5,
		Total:          30 + 10 + 22.5,
	}
	if d.Score != want {
		t.Errorf("score breakdown: want %+v, got %+v", want, d.Score)
	}
}

// TestAnalyze_AnswerBonusWithheldWhenTeamKilledElsewhere: untraded against the
// killer's team but the victim team picked up an unrelated kill in the same
// cluster — no answer bonus.
func TestAnalyze_AnswerBonusWithheldWhenTeamKilledElsewhere(t *testing.T) {
	// A kills B twice, B answers once: the leftover B death is untraded
	// yet answered.
	raw := []model.RawEvent{
		rawKill(100, "A", "a1", "B", "b1"),
		rawKill(105, "A", "a2", "B", "b2"),
		rawKill(110, "B", "b3", "A", "a1"),
	}

	got, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 untraded death, got %d", len(got))
	}

	d := got[0]
	// Oldest-first pairing: the t=100 kill is matched, t=105 is left over.
	if d.Death.Kill.Time != 105 {
		t.Errorf("expected the later kill (t=105) untraded, got t=%g", d.Death.Kill.Time)
	}
	if d.Death.Unanswered {
		t.Error("team B killed a1 in the cluster; death is untraded but answered")
	}
	if d.Score.AnswerBonus != 0 {
		t.Errorf("answer bonus must be 0 for answered death, got %g", d.Score.AnswerBonus)
	}
	if d.Score.Total < d.Score.BaseGravity {
		t.Errorf("total %g below base gravity %g", d.Score.Total, d.Score.BaseGravity)
	}
}

// TestAnalyze_Idempotent: two runs over the same input produce deep-equal
// output (clusters are fresh allocations, so compare everything but the
// back-reference pointers by value).
func TestAnalyze_Idempotent(t *testing.T) {
	raw := []model.RawEvent{
		rawKill(100, "A", "a1", "B", "b1"),
		rawKill(105, "A", "a2", "B", "b2"),
		rawKill(110, "B", "b3", "A", "a1"),
		rawCapture(130, model.ObjectiveDrake, "A"),
		rawKill(400, "B", "b1", "A", "a3"),
		rawCapture(1200, model.ObjectiveBaron, "B"),
		rawKill(1210, "A", "a1", "B", "b2"),
	}

	first, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.Death.Cluster, b.Death.Cluster = nil, nil
		if !reflect.DeepEqual(a, b) {
			t.Errorf("row %d differs between runs:\n  %+v\n  %+v", i, a, b)
		}
	}
}

// TestAnalyze_OutputOrderedByDeathTime: results come back in non-decreasing
// timestamp order regardless of cluster layout.
func TestAnalyze_OutputOrderedByDeathTime(t *testing.T) {
	raw := []model.RawEvent{
		rawKill(900, "A", "a1", "B", "b1"),
		rawKill(100, "A", "a1", "B", "b2"),
		rawKill(500, "B", "b1", "A", "a2"),
	}

	got, err := Analyze(raw, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Death.Kill.Time < got[i-1].Death.Kill.Time {
			t.Fatalf("output out of order at %d: %g after %g",
				i, got[i].Death.Kill.Time, got[i-1].Death.Kill.Time)
		}
	}
}

// TestAnalyze_MalformedKillAborts: one bad kill fails the whole run; there is
// no partial-success mode.
func TestAnalyze_MalformedKillAborts(t *testing.T) {
	cases := []struct {
		name string
		bad  model.RawEvent
	}{
		{"missing victim team", rawKill(100, "A", "a1", "", "b1")},
		{"missing killer team", rawKill(100, "", "a1", "B", "b1")},
		{"self-team kill", rawKill(100, "A", "a1", "A", "a2")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw := []model.RawEvent{rawKill(50, "A", "a1", "B", "b1"), c.bad}
			got, err := Analyze(raw, testConfig())
			if !errors.Is(err, ErrMalformedEvent) {
				t.Fatalf("want ErrMalformedEvent, got %v", err)
			}
			if got != nil {
				t.Error("expected nil result on malformed input")
			}
		})
	}
}

// TestNormalize_MixedUnits: millisecond game-clock values and wall-clock-only
// events both land on seconds since game start.
func TestNormalize_MixedUnits(t *testing.T) {
	start := time.Date(2024, 6, 15, 22, 45, 0, 0, time.UTC)
	raw := []model.RawEvent{
		{
			OccurredAt: start, Type: model.EventKill, RawType: "player-killed-player",
			ActorTeam: "A", VictimTeam: "B",
		},
		{
			GameTime: 90_000, GameTimeUnit: model.UnitMilliseconds,
			Type: model.EventKill, RawType: "player-killed-player",
			ActorTeam: "B", VictimTeam: "A",
		},
		{
			OccurredAt: start.Add(30 * time.Second), Type: model.EventObjectiveCapture,
			RawType: "player-completed-slayBaron", ActorTeam: "A", Objective: model.ObjectiveBaron,
		},
	}

	events, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Sorted: wall-clock kill at 0s, baron at 30s, ms kill at 90s.
	wantTimes := []float64{0, 30, 90}
	for i, want := range wantTimes {
		if events[i].Time != want {
			t.Errorf("event %d: want t=%g, got t=%g", i, want, events[i].Time)
		}
	}
}

// TestNormalize_ObjectiveWithoutKind is malformed input.
func TestNormalize_ObjectiveWithoutKind(t *testing.T) {
	raw := []model.RawEvent{{
		GameTime: 10, GameTimeUnit: model.UnitSeconds,
		Type: model.EventObjectiveCapture, RawType: "team-destroyed-tower",
	}}
	if _, err := Normalize(raw); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("want ErrMalformedEvent, got %v", err)
	}
}
