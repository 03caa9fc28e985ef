package pkg

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the user-tunable settings, persisted as JSON.
type Config struct {
	HumanColor     string  `json:"humanColor"`     // "white", "black" or "random"
	TimeControlSec int     `json:"timeControlSec"` // 0 disables the clocks
	IncrementSec   int     `json:"incrementSec"`
	PremoveEnabled bool    `json:"premoveEnabled"`
	Engine         string  `json:"engine"`      // "heuristic" or a UCI binary path
	Strategy       string  `json:"strategy"`    // heuristic strategy name
	Temperature    float64 `json:"temperature"` // chance of a random move, 0 to 1
	EngineMoveMs   int     `json:"engineMoveMs"`
	Theme          string  `json:"theme"`
	LogPath        string  `json:"logPath"`

	// path is the file the config was loaded from; empty means unsaved.
	path string
}

func DefaultConfig() Config {
	return Config{
		HumanColor:     "white",
		TimeControlSec: 600,
		IncrementSec:   0,
		PremoveEnabled: true,
		Engine:         "heuristic",
		Strategy:       "material",
		Temperature:    0.1,
		EngineMoveMs:   500,
		Theme:          "basic",
		LogPath:        "/tmp/chess-board.log",
	}
}

// LoadConfig reads path, falling back to defaults when the file is absent.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back to the file it was loaded from. A config that
// never came from a file is not persisted.
func (c Config) Save() error {
	if c.path == "" {
		return nil
	}
	return SaveConfig(c.path, c)
}

// SaveConfig writes cfg to path as indented JSON.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c Config) TimeControl() (time.Duration, time.Duration) {
	return time.Duration(c.TimeControlSec) * time.Second,
		time.Duration(c.IncrementSec) * time.Second
}

func (c Config) EngineMoveTime() time.Duration {
	return time.Duration(c.EngineMoveMs) * time.Millisecond
}
