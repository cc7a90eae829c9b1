package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// Normalize converts raw heterogeneous event records into normalized Events
// sorted ascending by game-clock timestamp.
//
// Events that carry an explicit game-clock value use it directly, converting
// milliseconds to seconds where needed. Events that only have a wall-clock
// timestamp are anchored relative to the earliest wall-clock timestamp in the
// input, so a series whose feed mixes both conventions still lands on a single
// unit.
func Normalize(raw []model.RawEvent) ([]model.Event, error) {
	var gameStart time.Time
	for _, r := range raw {
		if r.GameTimeUnit != model.UnitNone || r.OccurredAt.IsZero() {
			continue
		}
		if gameStart.IsZero() || r.OccurredAt.Before(gameStart) {
			gameStart = r.OccurredAt
		}
	}

	out := make([]model.Event, 0, len(raw))
	for i, r := range raw {
		t, err := resolveTime(r, gameStart)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d (%s): %v", ErrMalformedEvent, i, r.RawType, err)
		}

		ev := model.Event{
			Time:         t,
			Type:         r.Type,
			ActorTeam:    r.ActorTeam,
			ActorPlayer:  r.ActorPlayer,
			VictimTeam:   r.VictimTeam,
			VictimPlayer: r.VictimPlayer,
			Objective:    r.Objective,
		}

		switch r.Type {
		case model.EventKill:
			if ev.ActorTeam == "" || ev.VictimTeam == "" {
				return nil, fmt.Errorf("%w: event %d (%s): kill missing team identifiers", ErrMalformedEvent, i, r.RawType)
			}
			if ev.ActorTeam == ev.VictimTeam {
				return nil, fmt.Errorf("%w: event %d (%s): kill within team %q", ErrMalformedEvent, i, r.RawType, ev.ActorTeam)
			}
		case model.EventObjectiveSpawn, model.EventObjectiveCapture:
			if ev.Objective == "" {
				return nil, fmt.Errorf("%w: event %d (%s): objective event without kind", ErrMalformedEvent, i, r.RawType)
			}
		default:
			return nil, fmt.Errorf("%w: event %d (%s): unknown event type", ErrMalformedEvent, i, r.RawType)
		}

		out = append(out, ev)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// resolveTime maps a raw event onto game-clock seconds.
func resolveTime(r model.RawEvent, gameStart time.Time) (float64, error) {
	switch r.GameTimeUnit {
	case model.UnitSeconds:
		if r.GameTime < 0 {
			return 0, fmt.Errorf("negative game clock %g", r.GameTime)
		}
		return r.GameTime, nil
	case model.UnitMilliseconds:
		if r.GameTime < 0 {
			return 0, fmt.Errorf("negative game clock %g", r.GameTime)
		}
		return r.GameTime / 1000, nil
	default:
		if r.OccurredAt.IsZero() {
			return 0, fmt.Errorf("no timestamp")
		}
		return r.OccurredAt.Sub(gameStart).Seconds(), nil
	}
}
