package analysis

import (
	"math"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// objectiveWindow is one spawn/capture anchor with its pressure and context
// intervals. Both intervals are half-open: [anchor−radius, anchor+radius).
type objectiveWindow struct {
	anchor float64
	kind   model.ObjectiveKind

	// capture metadata, used for the objective-answer lookup
	capture     bool
	creditTeam  string
	creditActor string
}

// Timeline is a chronological index of objective events that answers proximity
// queries for arbitrary timestamps.
type Timeline struct {
	windows []objectiveWindow // ordered by anchor ascending
	cfg     ObjectiveConfig
}

// NewTimeline builds the index from normalized objective events. The input is
// expected sorted by time, as Normalize produces it.
func NewTimeline(objectives []model.Event, cfg ObjectiveConfig) *Timeline {
	t := &Timeline{cfg: cfg}
	for _, ev := range objectives {
		t.windows = append(t.windows, objectiveWindow{
			anchor:      ev.Time,
			kind:        ev.Objective,
			capture:     ev.Type == model.EventObjectiveCapture,
			creditTeam:  ev.ActorTeam,
			creditActor: ev.ActorPlayer,
		})
	}
	return t
}

// Classify resolves the objective proximity for timestamp t. Pressure outranks
// Context regardless of distance; within a class, the nearest anchor wins the
// kind tag, with the earlier anchor breaking exact ties.
func (tl *Timeline) Classify(t float64) model.ObjectiveTag {
	best := model.ObjectiveTag{Proximity: model.ProximityNone}
	bestDist := math.Inf(1)

	for _, w := range tl.windows {
		var prox model.Proximity
		switch {
		case inWindow(t, w.anchor, tl.cfg.PressureRadius):
			prox = model.ProximityPressure
		case inWindow(t, w.anchor, tl.cfg.ContextRadius):
			prox = model.ProximityContext
		default:
			continue
		}

		dist := math.Abs(w.anchor - t)
		if prox > best.Proximity || (prox == best.Proximity && dist < bestDist) {
			best = model.ObjectiveTag{
				Proximity: prox,
				Kind:      w.kind,
				Anchor:    w.anchor,
				Delta:     w.anchor - t,
			}
			bestDist = dist
		}
	}
	return best
}

// AnswerAfter returns the first objective captured by team within window
// seconds after deathTime, or nil.
func (tl *Timeline) AnswerAfter(team string, deathTime, window float64) *model.ObjectiveAnswer {
	for _, w := range tl.windows {
		if !w.capture || w.creditTeam != team {
			continue
		}
		if w.anchor < deathTime {
			continue
		}
		if w.anchor > deathTime+window {
			break
		}
		return &model.ObjectiveAnswer{
			Kind:   w.kind,
			Time:   w.anchor,
			Delta:  w.anchor - deathTime,
			Player: w.creditActor,
		}
	}
	return nil
}

// inWindow reports whether t lies in [anchor−radius, anchor+radius). The lower
// bound is inclusive so a kill at exactly anchor−radius still counts.
func inWindow(t, anchor, radius float64) bool {
	return t >= anchor-radius && t < anchor+radius
}
