// Package config defines the tool's configuration and loading hooks.
//
// Configuration layers, lowest to highest precedence: built-in defaults, an
// optional YAML file, then MGI_-prefixed environment variables. The analysis
// tables ship with defaults tuned for professional League of Legends series;
// override them per run rather than editing code.
package config

import (
	"os"
	"path/filepath"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/analysis"
	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// Bucket is one row of the gravity table: deaths from FromMinutes onward score
// Gravity, until the next bucket takes over.
type Bucket struct {
	FromMinutes float64 `koanf:"from_minutes"`
	Gravity     float64 `koanf:"gravity"`
}

// Analysis holds every engine tunable. All durations are game-clock seconds.
type Analysis struct {
	// ClusterWindow is the maximum gap between consecutive kills of the
	// same fight.
	ClusterWindow float64 `koanf:"cluster_window"`

	// PressureRadius and ContextRadius classify deaths near objective
	// anchors. Context must be at least as wide as pressure.
	PressureRadius float64 `koanf:"pressure_radius"`
	ContextRadius  float64 `koanf:"context_radius"`

	// AnswerWindow bounds how long after a death a team's objective capture
	// still counts as an answer.
	AnswerWindow float64 `koanf:"answer_window"`

	Buckets []Bucket `koanf:"buckets"`

	AnswerBonus   float64 `koanf:"answer_bonus"`
	PressureBonus float64 `koanf:"pressure_bonus"`
	ContextBonus  float64 `koanf:"context_bonus"`

	// KindWeights scales the objective bonus per objective family; kinds
	// not listed use DefaultKindWeight.
	KindWeights       map[string]float64 `koanf:"kind_weights"`
	DefaultKindWeight float64            `koanf:"default_kind_weight"`
}

// Config is the full process configuration.
type Config struct {
	// GridAPIKey authenticates against the GRID platform. Required for
	// titles, series and fetch; analyze runs offline from cached files.
	GridAPIKey string `koanf:"grid_api_key"`

	// GridCentralDataURL is the central-data GraphQL endpoint.
	GridCentralDataURL string `koanf:"grid_central_data_url"`

	// GridFileDownloadURL is the file-download API base.
	GridFileDownloadURL string `koanf:"grid_file_download_url"`

	// DataDir holds downloaded series files and the results database.
	DataDir string `koanf:"data_dir"`

	// DBPath overrides the database location. Empty means DataDir/mgi.db.
	DBPath string `koanf:"db_path"`

	Analysis Analysis `koanf:"analysis"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		GridCentralDataURL:  "https://api.grid.gg/central-data/graphql",
		GridFileDownloadURL: "https://api.grid.gg/file-download",
		DataDir:             defaultDataDir(),
		Analysis: Analysis{
			ClusterWindow:  30,
			PressureRadius: 30,
			ContextRadius:  90,
			AnswerWindow:   90,
			Buckets: []Bucket{
				{FromMinutes: 0, Gravity: 25},
				{FromMinutes: 15, Gravity: 30},
				{FromMinutes: 25, Gravity: 35},
			},
			AnswerBonus:   10,
			PressureBonus: 15,
			ContextBonus:  5,
			KindWeights: map[string]float64{
				"baron":     1.5,
				"drake":     1.2,
				"tower":     1.0,
				"voidgrub":  0.8,
				"fortifier": 0.8,
				"plate":     0.6,
			},
			DefaultKindWeight: 1.0,
		},
	}
}

// DatabasePath resolves the effective database location.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "mgi.db")
}

// SeriesDir is where a fetched series' raw files live.
func (c *Config) SeriesDir(seriesID string) string {
	return filepath.Join(c.DataDir, "raw", "series_"+seriesID)
}

// Engine converts the loaded tunables into the analysis engine's config.
func (c *Config) Engine() analysis.Config {
	a := c.Analysis
	buckets := make([]analysis.GravityBucket, 0, len(a.Buckets))
	for _, b := range a.Buckets {
		buckets = append(buckets, analysis.GravityBucket{FromMinutes: b.FromMinutes, Gravity: b.Gravity})
	}
	weights := make(map[model.ObjectiveKind]float64, len(a.KindWeights))
	for kind, w := range a.KindWeights {
		weights[model.ObjectiveKind(kind)] = w
	}
	return analysis.Config{
		ClusterWindow: a.ClusterWindow,
		Objective: analysis.ObjectiveConfig{
			PressureRadius: a.PressureRadius,
			ContextRadius:  a.ContextRadius,
		},
		Scoring: analysis.ScoringConfig{
			Buckets:           buckets,
			AnswerBonus:       a.AnswerBonus,
			PressureBonus:     a.PressureBonus,
			ContextBonus:      a.ContextBonus,
			KindWeights:       weights,
			DefaultKindWeight: a.DefaultKindWeight,
			AnswerWindow:      a.AnswerWindow,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mgi"
	}
	return filepath.Join(home, ".mgi")
}
