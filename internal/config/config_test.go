package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := New()

	if cfg.Analysis.ClusterWindow != 30 {
		t.Errorf("cluster window default: want 30, got %g", cfg.Analysis.ClusterWindow)
	}
	if cfg.Analysis.PressureRadius != 30 || cfg.Analysis.ContextRadius != 90 {
		t.Errorf("radii defaults: want 30/90, got %g/%g", cfg.Analysis.PressureRadius, cfg.Analysis.ContextRadius)
	}
	if got := len(cfg.Analysis.Buckets); got != 3 {
		t.Fatalf("gravity buckets: want 3, got %d", got)
	}
	if cfg.Analysis.Buckets[0].FromMinutes != 0 {
		t.Error("first gravity bucket must start at minute 0")
	}
	if err := cfg.check(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mgi.yaml")
	body := `
grid_api_key: file-key
data_dir: /tmp/mgi-test
analysis:
  cluster_window: 45
  kind_weights:
    baron: 2.0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridAPIKey != "file-key" {
		t.Errorf("grid_api_key: want file-key, got %q", cfg.GridAPIKey)
	}
	if cfg.Analysis.ClusterWindow != 45 {
		t.Errorf("cluster_window: want 45, got %g", cfg.Analysis.ClusterWindow)
	}
	if cfg.Analysis.KindWeights["baron"] != 2.0 {
		t.Errorf("baron weight: want 2.0, got %g", cfg.Analysis.KindWeights["baron"])
	}
	// Untouched keys keep their defaults.
	if cfg.Analysis.PressureRadius != 30 {
		t.Errorf("pressure_radius default lost: got %g", cfg.Analysis.PressureRadius)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mgi.yaml")
	if err := os.WriteFile(path, []byte("grid_api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MGI_GRID_API_KEY", "env-key")
	t.Setenv("MGI_ANALYSIS__CLUSTER_WINDOW", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridAPIKey != "env-key" {
		t.Errorf("env must beat file: got %q", cfg.GridAPIKey)
	}
	if cfg.Analysis.ClusterWindow != 20 {
		t.Errorf("nested env override: want 20, got %g", cfg.Analysis.ClusterWindow)
	}
}

func TestLoad_LegacyAPIKeyFallback(t *testing.T) {
	// Setenv registers the restore; the vars must be absent for the test.
	t.Setenv("MGI_CONFIG", "")
	os.Unsetenv("MGI_CONFIG")
	t.Setenv("MGI_GRID_API_KEY", "")
	os.Unsetenv("MGI_GRID_API_KEY")
	t.Setenv("GRID_API_KEY", "legacy-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridAPIKey != "legacy-key" {
		t.Errorf("legacy GRID_API_KEY ignored: got %q", cfg.GridAPIKey)
	}
}

func TestLoad_LegacyAPIKeyLosesToEveryLayer(t *testing.T) {
	t.Setenv("GRID_API_KEY", "legacy-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "mgi.yaml")
	if err := os.WriteFile(path, []byte("grid_api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MGI_GRID_API_KEY", "")
	os.Unsetenv("MGI_GRID_API_KEY")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridAPIKey != "file-key" {
		t.Errorf("file must beat legacy env: got %q", cfg.GridAPIKey)
	}

	t.Setenv("MGI_GRID_API_KEY", "env-key")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridAPIKey != "env-key" {
		t.Errorf("prefixed env must beat legacy env: got %q", cfg.GridAPIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, ErrConfigFile) {
		t.Fatalf("want ErrConfigFile, got %v", err)
	}
}

func TestLoad_RejectsBadTunables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mgi.yaml")
	body := `
analysis:
  pressure_radius: 120
  context_radius: 60
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("inverted radii: want ErrInvalidConfig, got %v", err)
	}
}

func TestEngineConversion(t *testing.T) {
	cfg := New()
	eng := cfg.Engine()

	if eng.ClusterWindow != cfg.Analysis.ClusterWindow {
		t.Error("cluster window not carried over")
	}
	if len(eng.Scoring.Buckets) != len(cfg.Analysis.Buckets) {
		t.Fatal("bucket table not carried over")
	}
	if eng.Scoring.KindWeights["baron"] != 1.5 {
		t.Errorf("baron weight: want 1.5, got %g", eng.Scoring.KindWeights["baron"])
	}
	if eng.Scoring.AnswerWindow != 90 {
		t.Errorf("answer window: want 90, got %g", eng.Scoring.AnswerWindow)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := New()
	cfg.DataDir = "/data"
	if got := cfg.DatabasePath(); got != filepath.Join("/data", "mgi.db") {
		t.Errorf("default db path: got %q", got)
	}
	cfg.DBPath = "/elsewhere/x.db"
	if got := cfg.DatabasePath(); got != "/elsewhere/x.db" {
		t.Errorf("explicit db path: got %q", got)
	}
}
