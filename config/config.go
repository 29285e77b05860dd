// Package config loads simulator settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrail/skirmish/game"
)

// Settings are the tunable parameters of a simulation run.
type Settings struct {
	// InitialHealth is the health every parsed unit starts with.
	InitialHealth int32 `yaml:"initial_health"`
	// BasePower is the attack power every parsed unit starts with.
	BasePower int32 `yaml:"base_power"`
	// MinSearchPower is the first power tried by the lossless-win search.
	// Zero means one above BasePower.
	MinSearchPower int32 `yaml:"min_search_power"`
	// MaxSearchPower is the last power tried before the search gives up.
	MaxSearchPower int32 `yaml:"max_search_power"`
}

// Default returns the settings used when no config file is given.
func Default() Settings {
	return Settings{
		InitialHealth:  game.DefaultHealth,
		BasePower:      game.DefaultPower,
		MaxSearchPower: 200,
	}
}

// Load reads settings from a YAML file. Missing keys keep their defaults.
func Load(path string) (Settings, error) {
	s := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.InitialHealth <= 0 {
		return fmt.Errorf("initial_health must be positive, got %d", s.InitialHealth)
	}
	if s.BasePower <= 0 {
		return fmt.Errorf("base_power must be positive, got %d", s.BasePower)
	}
	if s.MinSearchPower < 0 {
		return fmt.Errorf("min_search_power must not be negative, got %d", s.MinSearchPower)
	}
	if s.MaxSearchPower < s.MinSearchPower {
		return fmt.Errorf("max_search_power %d is below min_search_power %d", s.MaxSearchPower, s.MinSearchPower)
	}
	return nil
}

// ParseOptions converts the settings into grid parsing options.
func (s Settings) ParseOptions() game.ParseOptions {
	return game.ParseOptions{
		InitialHealth: s.InitialHealth,
		BasePower:     s.BasePower,
	}
}
