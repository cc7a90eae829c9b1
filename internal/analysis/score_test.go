package analysis

import (
	"errors"
	"testing"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

func testScoring() ScoringConfig {
	return testConfig().Scoring
}

// untradedAt builds a minimal untraded death for scorer tests.
func untradedAt(t float64, unanswered bool, tag model.ObjectiveTag) model.UntradedDeath {
	return model.UntradedDeath{
		Kill:       kill(t, "A", "a1", "B", "b1"),
		Unanswered: unanswered,
		Objective:  tag,
	}
}

// TestScore_BucketLookup: phase buckets pick by minutes with the last bucket
// open-ended.
func TestScore_BucketLookup(t *testing.T) {
	sc := testScoring()
	cases := []struct {
		name string
		t    float64
		want float64
	}{
		{"game start", 0, 25},
		{"late early bucket", 14*60 + 59, 25},
		{"mid boundary inclusive", 15 * 60, 30},
		{"mid", 20 * 60, 30},
		{"late boundary inclusive", 25 * 60, 35},
		{"deep late game is open-ended", 90 * 60, 35},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := sc.Score(untradedAt(c.t, false, model.ObjectiveTag{}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.BaseGravity != c.want {
				t.Errorf("base gravity at t=%gs: want %g, got %g", c.t, c.want, got.BaseGravity)
			}
		})
	}
}

// TestScore_TotalIsSumAndNeverBelowBase.
func TestScore_TotalIsSumAndNeverBelowBase(t *testing.T) {
	sc := testScoring()
	tag := model.ObjectiveTag{Proximity: model.ProximityPressure, Kind: model.ObjectiveBaron}

	got, err := sc.Score(untradedAt(1600, true, tag))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTotal := got.BaseGravity + got.AnswerBonus + got.ObjectiveBonus
	if got.Total != wantTotal {
		t.Errorf("total: want %g, got %g", wantTotal, got.Total)
	}
	if got.Total < got.BaseGravity {
		t.Errorf("total %g dropped below base gravity %g", got.Total, got.BaseGravity)
	}
}

// TestScore_Monotonicity: raising only the bucket gravity strictly raises the
// total.
func TestScore_Monotonicity(t *testing.T) {
	death := untradedAt(1600, true, model.ObjectiveTag{Proximity: model.ProximityContext, Kind: model.ObjectiveTower})

	low := testScoring()
	before, err := low.Score(death)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	high := testScoring()
	high.Buckets = []GravityBucket{
		{FromMinutes: 0, Gravity: 25},
		{FromMinutes: 15, Gravity: 40},
		{FromMinutes: 25, Gravity: 50}, // the death at 1600s lands here
	}
	after, err := high.Score(death)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if after.Total <= before.Total {
		t.Errorf("raising bucket gravity must strictly raise total: %g → %g", before.Total, after.Total)
	}
	if after.AnswerBonus != before.AnswerBonus || after.ObjectiveBonus != before.ObjectiveBonus {
		t.Error("non-gravity components changed; monotonicity check is confounded")
	}
}

// TestScore_ObjectiveBonusWeights: pressure > context > none, scaled by kind
// weight with family fallback and default.
func TestScore_ObjectiveBonusWeights(t *testing.T) {
	sc := testScoring()
	cases := []struct {
		name string
		tag  model.ObjectiveTag
		want float64
	}{
		{"baron pressure", model.ObjectiveTag{Proximity: model.ProximityPressure, Kind: model.ObjectiveBaron}, 15 * 1.5},
		{"baron context", model.ObjectiveTag{Proximity: model.ProximityContext, Kind: model.ObjectiveBaron}, 5 * 1.5},
		{"drake sub-kind falls back to family", model.ObjectiveTag{Proximity: model.ProximityPressure, Kind: "drake_ocean"}, 15 * 1.2},
		{"unknown kind uses default weight", model.ObjectiveTag{Proximity: model.ProximityPressure, Kind: "fortifier"}, 15 * 1.0},
		{"none", model.ObjectiveTag{Proximity: model.ProximityNone}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := sc.Score(untradedAt(100, false, c.tag))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ObjectiveBonus != c.want {
				t.Errorf("objective bonus: want %g, got %g", c.want, got.ObjectiveBonus)
			}
		})
	}
}

// TestScoringConfig_Validation: incomplete or inconsistent tables are fatal
// configuration errors, caught before any death is scored.
func TestScoringConfig_Validation(t *testing.T) {
	mutate := func(f func(*ScoringConfig)) ScoringConfig {
		sc := testScoring()
		f(&sc)
		return sc
	}

	cases := []struct {
		name string
		sc   ScoringConfig
	}{
		{"empty buckets", mutate(func(s *ScoringConfig) { s.Buckets = nil })},
		{"first bucket not at zero", mutate(func(s *ScoringConfig) { s.Buckets[0].FromMinutes = 5 })},
		{"non-advancing bucket", mutate(func(s *ScoringConfig) { s.Buckets[2].FromMinutes = 15 })},
		{"decreasing gravity", mutate(func(s *ScoringConfig) { s.Buckets[2].Gravity = 10 })},
		{"negative gravity", mutate(func(s *ScoringConfig) { s.Buckets[0].Gravity = -1 })},
		{"negative answer bonus", mutate(func(s *ScoringConfig) { s.AnswerBonus = -1 })},
		{"negative pressure bonus", mutate(func(s *ScoringConfig) { s.PressureBonus = -1 })},
		{"negative kind weight", mutate(func(s *ScoringConfig) { s.KindWeights[model.ObjectiveBaron] = -0.5 })},
		{"negative default weight", mutate(func(s *ScoringConfig) { s.DefaultKindWeight = -1 })},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.sc.validate(); !errors.Is(err, ErrScoringConfig) {
				t.Errorf("want ErrScoringConfig, got %v", err)
			}
		})
	}

	if err := testScoring().validate(); err != nil {
		t.Errorf("default tables must validate, got %v", err)
	}
}

// TestAnalyze_BadConfigFailsFast: the full pipeline refuses to run on a bad
// table, before touching any events.
func TestAnalyze_BadConfigFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.Buckets = nil
	if _, err := Analyze([]model.RawEvent{rawKill(100, "A", "a1", "B", "b1")}, cfg); !errors.Is(err, ErrScoringConfig) {
		t.Fatalf("want ErrScoringConfig, got %v", err)
	}

	cfg = testConfig()
	cfg.ClusterWindow = 0
	if _, err := Analyze(nil, cfg); !errors.Is(err, ErrScoringConfig) {
		t.Fatalf("zero cluster window: want ErrScoringConfig, got %v", err)
	}

	cfg = testConfig()
	cfg.Objective.ContextRadius = 10 // narrower than pressure
	if _, err := Analyze(nil, cfg); !errors.Is(err, ErrScoringConfig) {
		t.Fatalf("inverted radii: want ErrScoringConfig, got %v", err)
	}
}
