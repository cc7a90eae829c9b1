// Package analysis implements the Mistake Gravity Index engine: it clusters
// kill events into fights, flags deaths that were never traded back, correlates
// them with the objective timeline, and scores each one.
//
// The engine is a pure, synchronous computation over an in-memory event set for
// a single series. It does no I/O, spawns no goroutines, and shares no state
// between invocations; callers that want parallelism run one invocation per
// series.
package analysis

import (
	"fmt"
	"sort"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// ObjectiveConfig sets the proximity radii around objective anchors, in
// game-clock seconds. Windows are half-open: [anchor−radius, anchor+radius).
type ObjectiveConfig struct {
	PressureRadius float64
	ContextRadius  float64
}

// GravityBucket maps a game phase to its base gravity. A bucket covers game
// time from FromMinutes up to the next bucket's start; the last bucket is
// open-ended.
type GravityBucket struct {
	FromMinutes float64
	Gravity     float64
}

// ScoringConfig holds the MGI score tables. Zero values are rejected by
// validate; use config defaults or supply a full table.
type ScoringConfig struct {
	Buckets []GravityBucket

	// AnswerBonus is added when the victim's team secured no kill of any
	// kind within the cluster.
	AnswerBonus float64

	// PressureBonus and ContextBonus are the proximity base bonuses,
	// multiplied by the objective kind weight.
	PressureBonus float64
	ContextBonus  float64

	// KindWeights scales the objective bonus per objective family
	// ("baron", "drake", "tower", ...). Unlisted kinds use DefaultKindWeight.
	KindWeights       map[model.ObjectiveKind]float64
	DefaultKindWeight float64

	// AnswerWindow bounds the objective-answer lookup after a death, in
	// seconds. Zero disables the lookup.
	AnswerWindow float64
}

// Config bundles everything the engine needs beyond the events themselves.
type Config struct {
	// ClusterWindow is the maximum gap, in seconds, between consecutive
	// kills of the same fight cluster.
	ClusterWindow float64

	Objective ObjectiveConfig
	Scoring   ScoringConfig
}

// Analyze runs the full pipeline: normalize → cluster → resolve trades →
// map objective proximity → score. The result is ordered by non-decreasing
// death timestamp and is deterministic for identical input and config.
func Analyze(raw []model.RawEvent, cfg Config) ([]model.ScoredDeath, error) {
	if cfg.ClusterWindow <= 0 {
		return nil, fmt.Errorf("%w: cluster window must be positive, got %g", ErrScoringConfig, cfg.ClusterWindow)
	}
	if err := cfg.Scoring.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Objective.validate(); err != nil {
		return nil, err
	}

	events, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	var kills, objectives []model.Event
	for _, ev := range events {
		switch ev.Type {
		case model.EventKill:
			kills = append(kills, ev)
		case model.EventObjectiveSpawn, model.EventObjectiveCapture:
			objectives = append(objectives, ev)
		}
	}

	clusters := Cluster(kills, cfg.ClusterWindow)
	deaths := ResolveTrades(clusters)

	timeline := NewTimeline(objectives, cfg.Objective)
	for i := range deaths {
		deaths[i].Objective = timeline.Classify(deaths[i].Kill.Time)
		if cfg.Scoring.AnswerWindow > 0 {
			deaths[i].Answer = timeline.AnswerAfter(deaths[i].Kill.VictimTeam, deaths[i].Kill.Time, cfg.Scoring.AnswerWindow)
		}
	}

	out := make([]model.ScoredDeath, 0, len(deaths))
	for _, d := range deaths {
		score, err := cfg.Scoring.Score(d)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ScoredDeath{Death: d, Score: score})
	}

	// Death timestamps already arrive non-decreasing from the cluster scan;
	// the extra keys keep reruns byte-identical when timestamps collide.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Death.Kill, out[j].Death.Kill
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.VictimPlayer != b.VictimPlayer {
			return a.VictimPlayer < b.VictimPlayer
		}
		return a.VictimTeam < b.VictimTeam
	})
	return out, nil
}

func (c ObjectiveConfig) validate() error {
	if c.PressureRadius < 0 || c.ContextRadius < 0 {
		return fmt.Errorf("%w: proximity radii must be non-negative", ErrScoringConfig)
	}
	if c.ContextRadius < c.PressureRadius {
		return fmt.Errorf("%w: context radius (%g) narrower than pressure radius (%g)",
			ErrScoringConfig, c.ContextRadius, c.PressureRadius)
	}
	return nil
}
