package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Results ResultsConfig `toml:"results"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	Workers      int    `toml:"workers"`       // <= 0 selects one worker per CPU
	Seed         int64  `toml:"seed"`
	Scenario     string `toml:"scenario"`      // preset name to run
	ScenarioFile string `toml:"scenario_file"` // empty uses the built-in presets
}

type ResultsConfig struct {
	CSV string `toml:"csv"` // per-wave results file; empty disables recording
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:  0,
			Seed:     1,
			Scenario: "particles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
