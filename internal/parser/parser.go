// Package parser extracts kill and objective events from GRID series files.
//
// Series event files are JSONL: one envelope per line, each carrying an
// occurredAt timestamp and a batch of events. Providers vary in which fields
// they populate, so extraction is tolerant: a malformed line or event is
// counted and skipped, never fatal. Only an unreadable file fails the parse.
package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

const killEventType = "player-killed-player"

// captureTypeMap maps provider event types to objective kinds. Extend as more
// provider types show up in the wild.
var captureTypeMap = map[string]model.ObjectiveKind{
	"player-completed-slayBaron": model.ObjectiveBaron,

	"player-completed-slayOceanDrake":    "drake_ocean",
	"player-completed-slayChemtechDrake": "drake_chemtech",
	"player-completed-slayMountainDrake": "drake_mountain",
	"player-completed-slayInfernalDrake": "drake_infernal",
	"player-completed-slayCloudDrake":    "drake_cloud",
	"player-completed-slayHextechDrake":  "drake_hextech",

	"team-destroyed-tower":          model.ObjectiveTower,
	"team-completed-destroyTower":   model.ObjectiveTower,
	"player-destroyed-tower":        model.ObjectiveTower,
	"player-completed-destroyTower": model.ObjectiveTower,

	"player-completed-destroyTurretPlateTop": model.ObjectivePlate,
	"player-completed-destroyTurretPlateMid": model.ObjectivePlate,
	"player-completed-destroyTurretPlateBot": model.ObjectivePlate,
	"team-completed-destroyTurretPlateBot":   model.ObjectivePlate,

	"player-completed-slayVoidGrub": model.ObjectiveVoidgrub,

	"player-destroyed-fortifier":        model.ObjectiveFortifier,
	"player-completed-destroyFortifier": model.ObjectiveFortifier,
}

// spawnTypeMap covers the announced-spawn events some providers emit.
var spawnTypeMap = map[string]model.ObjectiveKind{
	"game-spawned-baron":    model.ObjectiveBaron,
	"game-spawned-drake":    model.ObjectiveDrake,
	"game-spawned-voidGrub": model.ObjectiveVoidgrub,
}

// Stats counts what the parser had to skip.
type Stats struct {
	Lines         int // JSONL lines read
	SkippedLines  int // lines that were not valid envelopes
	SkippedEvents int // events recognized by type but missing required fields
	Kills         int
	Objectives    int
}

// Result is a parsed series event file.
type Result struct {
	Events []model.RawEvent
	Stats  Stats
}

// ParseEvents reads a series events.jsonl file and extracts every kill and
// objective event, in file order.
func ParseEvents(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	defer f.Close()

	res := &Result{}
	sc := bufio.NewScanner(f)
	// Envelopes carry full series state and routinely exceed the default
	// scanner limit.
	sc.Buffer(make([]byte, 0, 1024*1024), 32*1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		res.Stats.Lines++

		if !gjson.Valid(line) {
			res.Stats.SkippedLines++
			continue
		}
		envelope := gjson.Parse(line)

		occurredAt, err := time.Parse(time.RFC3339, envelope.Get("occurredAt").String())
		if err != nil {
			res.Stats.SkippedLines++
			continue
		}
		// Some feeds carry the game clock alongside the wall clock.
		var gameTime float64
		unit := model.UnitNone
		if clock := envelope.Get("seriesState.games.0.clock.currentSeconds"); clock.Exists() {
			gameTime = clock.Float()
			unit = model.UnitSeconds
		}

		for _, ev := range envelope.Get("events").Array() {
			raw, ok := extractEvent(ev, occurredAt, gameTime, unit)
			if !ok {
				continue
			}
			if raw.Type == model.EventUnknown {
				res.Stats.SkippedEvents++
				continue
			}
			if raw.Type == model.EventKill {
				res.Stats.Kills++
			} else {
				res.Stats.Objectives++
			}
			res.Events = append(res.Events, raw)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parser: read %s: %w", path, err)
	}
	return res, nil
}

// extractEvent pulls one event out of an envelope. ok=false means the type is
// not one we track; Type EventUnknown means we track it but required fields
// were missing.
func extractEvent(ev gjson.Result, occurredAt time.Time, gameTime float64, unit model.TimeUnit) (model.RawEvent, bool) {
	evType := strings.TrimSpace(ev.Get("type").String())

	base := model.RawEvent{
		OccurredAt:   occurredAt,
		GameTime:     gameTime,
		GameTimeUnit: unit,
		RawType:      evType,
	}

	switch {
	case evType == killEventType:
		killerTeam, killer := actorIdentity(ev.Get("actor"))
		victimTeam, victim := actorIdentity(ev.Get("target"))
		if killer == "" || victim == "" {
			return base, true // tracked type, unusable payload
		}
		base.Type = model.EventKill
		base.ActorTeam = killerTeam
		base.ActorPlayer = killer
		base.VictimTeam = victimTeam
		base.VictimPlayer = victim
		return base, true

	case captureTypeMap[evType] != "":
		team, player := actorIdentity(ev.Get("actor"))
		if team == "" {
			// Credit occasionally lives outside the actor state.
			team = strings.TrimSpace(ev.Get("teamId").String())
		}
		if team == "" {
			team = strings.TrimSpace(ev.Get("state.teamId").String())
		}
		base.Type = model.EventObjectiveCapture
		base.ActorTeam = team
		base.ActorPlayer = player
		base.Objective = captureTypeMap[evType]
		return base, true

	case spawnTypeMap[evType] != "":
		base.Type = model.EventObjectiveSpawn
		base.Objective = spawnTypeMap[evType]
		return base, true
	}
	return model.RawEvent{}, false
}

// actorIdentity returns (teamID, playerLabel) for an actor or target object.
// The display name is preferred; the provider ID is the fallback so a kill is
// never dropped just because the roster name is missing.
func actorIdentity(actor gjson.Result) (string, string) {
	team := strings.TrimSpace(actor.Get("state.teamId").String())
	name := strings.TrimSpace(actor.Get("state.name").String())
	if name == "" {
		name = strings.TrimSpace(actor.Get("id").String())
	}
	return team, name
}

// TeamNames reads the end-of-series state file and maps team IDs to display
// names. A missing file is not an error; reports just fall back to raw IDs.
func TeamNames(path string) (map[string]string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("parser: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parser: %s is not valid JSON", path)
	}

	out := map[string]string{}
	for _, team := range gjson.GetBytes(body, "seriesState.teams").Array() {
		id := strings.TrimSpace(team.Get("id").String())
		name := strings.TrimSpace(team.Get("name").String())
		if id != "" && name != "" {
			out[id] = name
		}
	}
	return out, nil
}
