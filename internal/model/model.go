package model

import "time"

// EventType identifies what a normalized event describes.
type EventType int

const (
	EventUnknown EventType = iota
	EventKill
	EventObjectiveSpawn
	EventObjectiveCapture
)

func (t EventType) String() string {
	switch t {
	case EventKill:
		return "kill"
	case EventObjectiveSpawn:
		return "objective_spawn"
	case EventObjectiveCapture:
		return "objective_capture"
	default:
		return "?"
	}
}

// ObjectiveKind names a map objective, e.g. "baron", "drake_ocean", "tower".
// Sub-kinds use an underscore suffix so weight lookups can fall back to the
// family prefix ("drake_ocean" → "drake").
type ObjectiveKind string

const (
	ObjectiveBaron     ObjectiveKind = "baron"
	ObjectiveDrake     ObjectiveKind = "drake"
	ObjectiveTower     ObjectiveKind = "tower"
	ObjectivePlate     ObjectiveKind = "plate"
	ObjectiveVoidgrub  ObjectiveKind = "voidgrub"
	ObjectiveFortifier ObjectiveKind = "fortifier"
)

// Family returns the kind with any sub-kind suffix stripped.
func (k ObjectiveKind) Family() ObjectiveKind {
	for i := 0; i < len(k); i++ {
		if k[i] == '_' {
			return k[:i]
		}
	}
	return k
}

// TimeUnit labels the unit of a raw game-clock value.
type TimeUnit int

const (
	UnitNone TimeUnit = iota // no game-clock value; derive from wall clock
	UnitSeconds
	UnitMilliseconds
)

// RawEvent is a single match event as the parser extracted it from a GRID
// series file, before normalization. Either GameTime (with a unit) or
// OccurredAt anchors the event in time.
type RawEvent struct {
	OccurredAt   time.Time // wall-clock timestamp from the event envelope
	GameTime     float64   // game-clock value, valid when GameTimeUnit != UnitNone
	GameTimeUnit TimeUnit

	Type    EventType
	RawType string // provider event type, kept for reporting

	ActorTeam   string
	ActorPlayer string

	// Kill events only.
	VictimTeam   string
	VictimPlayer string

	// Objective events only.
	Objective ObjectiveKind
}

// Event is a normalized, immutable match event on the game clock.
type Event struct {
	Time float64 // seconds since game start, >= 0
	Type EventType

	ActorTeam   string
	ActorPlayer string

	VictimTeam   string
	VictimPlayer string

	Objective ObjectiveKind
}

// FightCluster is a maximal chain of kills, each within the clustering window
// of its immediate predecessor. Clusters own their kills; deaths hold a
// read-only back-reference.
type FightCluster struct {
	Kills []Event // ordered by Time ascending
}

// Start returns the timestamp of the first kill in the cluster.
func (c *FightCluster) Start() float64 { return c.Kills[0].Time }

// End returns the timestamp of the last kill in the cluster.
func (c *FightCluster) End() float64 { return c.Kills[len(c.Kills)-1].Time }

// Proximity classifies how close a timestamp is to an objective anchor.
type Proximity int

const (
	ProximityNone Proximity = iota
	ProximityContext
	ProximityPressure
)

func (p Proximity) String() string {
	switch p {
	case ProximityPressure:
		return "pressure"
	case ProximityContext:
		return "context"
	default:
		return "none"
	}
}

// ObjectiveTag is the resolved objective proximity for a single timestamp.
// Delta is anchor − query time; negative means the objective preceded it.
type ObjectiveTag struct {
	Proximity Proximity
	Kind      ObjectiveKind
	Anchor    float64
	Delta     float64
}

// ObjectiveAnswer records the first objective the victim's team captured
// within the answer window after a death.
type ObjectiveAnswer struct {
	Kind   ObjectiveKind
	Time   float64
	Delta  float64 // capture time − death time, always >= 0
	Player string
}

// UntradedDeath is a kill whose victim's team secured no reciprocal kill
// against the killer's team within the same fight cluster.
type UntradedDeath struct {
	Kill       Event
	Cluster    *FightCluster // back-reference, not ownership
	Unanswered bool          // victim team got no kill of any kind in the cluster
	Objective  ObjectiveTag
	Answer     *ObjectiveAnswer // nil when no objective answered in the window
}

// ScoreBreakdown is the composite MGI score for one untraded death.
// All components are non-negative; Total is their sum.
type ScoreBreakdown struct {
	BaseGravity    float64
	AnswerBonus    float64
	ObjectiveBonus float64
	Total          float64
}

// ScoredDeath pairs an untraded death with its score breakdown.
type ScoredDeath struct {
	Death UntradedDeath
	Score ScoreBreakdown
}

// SeriesInfo is one row from the central-data series listing.
type SeriesInfo struct {
	ID             string
	StartTime      string
	TournamentName string
	TitleShort     string
	Teams          []string
}

// SeriesFiles records where a fetched series' raw files live on disk.
type SeriesFiles struct {
	SeriesID     string
	Teams        string // comma-joined team names, best effort
	Tournament   string
	EventsPath   string
	EndStatePath string
	FetchedAt    string
}

// RunSummary is a lightweight record of a stored analysis run.
type RunSummary struct {
	RunID         string
	SeriesID      string
	CreatedAt     string
	ClusterWindow float64
	Kills         int
	Mistakes      int
}

// MistakeRow is a stored scored death, flattened for SQLite and reporting.
type MistakeRow struct {
	RunID          string
	OccurredAt     float64 // game-clock seconds
	VictimPlayer   string
	VictimTeam     string
	VictimTeamName string
	KillerPlayer   string
	KillerTeam     string
	Unanswered     bool
	Proximity      string
	ObjectiveKind  string
	ObjectiveDelta float64
	AnsweredBy     string // objective kind, empty if no objective answer
	AnsweredDelta  float64
	BaseGravity    float64
	AnswerBonus    float64
	ObjectiveBonus float64
	Total          float64
}
