package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML): explicit path argument, else MGI_CONFIG
//  3. env (prefix MGI_)
//
// The legacy GRID_API_KEY variable fills grid_api_key only when no layer set
// it.
//
// Env keys map to flat koanf keys: MGI_GRID_API_KEY -> grid_api_key. Nested
// analysis keys use a double underscore as the section separator:
// MGI_ANALYSIS__CLUSTER_WINDOW -> analysis.cluster_window.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("MGI_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigFile, path, err)
		}
	}

	envProvider := env.Provider("MGI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mgi_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrConfigFile, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigFile, err)
	}

	// The key predates the MGI_ prefix; honor the old name when nothing else
	// sets it.
	if cfg.GridAPIKey == "" {
		cfg.GridAPIKey = os.Getenv("GRID_API_KEY")
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// check catches values the engine would reject anyway, but earlier and with a
// config-shaped message.
func (c *Config) check() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.Analysis.ClusterWindow <= 0 {
		return fmt.Errorf("%w: analysis.cluster_window must be positive", ErrInvalidConfig)
	}
	if c.Analysis.ContextRadius < c.Analysis.PressureRadius {
		return fmt.Errorf("%w: analysis.context_radius must be at least analysis.pressure_radius", ErrInvalidConfig)
	}
	if len(c.Analysis.Buckets) == 0 {
		return fmt.Errorf("%w: analysis.buckets must not be empty", ErrInvalidConfig)
	}
	return nil
}
