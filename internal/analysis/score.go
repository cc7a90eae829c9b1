package analysis

import (
	"fmt"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// validate checks the score tables up front so a bad configuration fails the
// whole run before any death is scored.
func (c ScoringConfig) validate() error {
	if len(c.Buckets) == 0 {
		return fmt.Errorf("%w: no gravity buckets", ErrScoringConfig)
	}
	if c.Buckets[0].FromMinutes != 0 {
		return fmt.Errorf("%w: first gravity bucket starts at %gm, must start at 0 so every timestamp is covered",
			ErrScoringConfig, c.Buckets[0].FromMinutes)
	}
	for i, b := range c.Buckets {
		if b.Gravity < 0 {
			return fmt.Errorf("%w: bucket %d has negative gravity %g", ErrScoringConfig, i, b.Gravity)
		}
		if i == 0 {
			continue
		}
		if b.FromMinutes <= c.Buckets[i-1].FromMinutes {
			return fmt.Errorf("%w: bucket %d start %gm does not advance past %gm",
				ErrScoringConfig, i, b.FromMinutes, c.Buckets[i-1].FromMinutes)
		}
		if b.Gravity < c.Buckets[i-1].Gravity {
			return fmt.Errorf("%w: bucket %d gravity %g decreases from %g; later phases must not score lower",
				ErrScoringConfig, i, b.Gravity, c.Buckets[i-1].Gravity)
		}
	}
	if c.AnswerBonus < 0 || c.PressureBonus < 0 || c.ContextBonus < 0 {
		return fmt.Errorf("%w: bonuses must be non-negative", ErrScoringConfig)
	}
	if c.DefaultKindWeight < 0 {
		return fmt.Errorf("%w: default kind weight must be non-negative", ErrScoringConfig)
	}
	for kind, w := range c.KindWeights {
		if w < 0 {
			return fmt.Errorf("%w: weight for %q must be non-negative", ErrScoringConfig, kind)
		}
	}
	return nil
}

// Score computes the composite breakdown for one untraded death.
func (c ScoringConfig) Score(d model.UntradedDeath) (model.ScoreBreakdown, error) {
	base, err := c.baseGravity(d.Kill.Time)
	if err != nil {
		return model.ScoreBreakdown{}, err
	}

	var answer float64
	if d.Unanswered {
		answer = c.AnswerBonus
	}

	objective := c.objectiveBonus(d.Objective)

	return model.ScoreBreakdown{
		BaseGravity:    base,
		AnswerBonus:    answer,
		ObjectiveBonus: objective,
		Total:          base + answer + objective,
	}, nil
}

// baseGravity looks up the phase gravity for a game-clock timestamp. The
// bucket table is an ordered boundary list, last bucket open-ended; validate
// guarantees coverage from zero, so only degenerate inputs can miss.
func (c ScoringConfig) baseGravity(t float64) (float64, error) {
	mins := t / 60
	for i := len(c.Buckets) - 1; i >= 0; i-- {
		if mins >= c.Buckets[i].FromMinutes {
			return c.Buckets[i].Gravity, nil
		}
	}
	return 0, fmt.Errorf("%w: no gravity bucket covers %.1fm", ErrScoringConfig, mins)
}

// objectiveBonus maps the proximity classification to its bonus. Pressure and
// Context base bonuses scale by the objective kind's weight, looked up by full
// kind first, then by family, then the default.
func (c ScoringConfig) objectiveBonus(tag model.ObjectiveTag) float64 {
	var base float64
	switch tag.Proximity {
	case model.ProximityPressure:
		base = c.PressureBonus
	case model.ProximityContext:
		base = c.ContextBonus
	default:
		return 0
	}
	return base * c.kindWeight(tag.Kind)
}

func (c ScoringConfig) kindWeight(kind model.ObjectiveKind) float64 {
	if w, ok := c.KindWeights[kind]; ok {
		return w
	}
	if w, ok := c.KindWeights[kind.Family()]; ok {
		return w
	}
	return c.DefaultKindWeight
}
