package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Engine.Seed != 1 {
		t.Errorf("default seed = %d, want 1", cfg.Engine.Seed)
	}
	if cfg.Engine.Scenario != "particles" {
		t.Errorf("default scenario = %q, want particles", cfg.Engine.Scenario)
	}
	if cfg.Engine.Workers != 0 {
		t.Errorf("default workers = %d, want 0 (auto)", cfg.Engine.Workers)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("default logging = %+v", cfg.Logging)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partsim.toml")
	doc := `
[engine]
workers = 4
scenario = "churn"

[results]
csv = "out.csv"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Workers != 4 || cfg.Engine.Scenario != "churn" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Results.CSV != "out.csv" {
		t.Errorf("results csv = %q, want out.csv", cfg.Results.CSV)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Engine.Seed != 1 {
		t.Errorf("seed = %d after partial load, want default 1", cfg.Engine.Seed)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q after partial load, want default info", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing config loaded without error")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[engine\nworkers = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config loaded without error")
	}
}
