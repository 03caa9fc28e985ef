package pkg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigAbsentFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HumanColor != "white" || !cfg.PremoveEnabled {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("loading must not create the file")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.HumanColor = "black"
	cfg.Temperature = 0.5
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.HumanColor != "black" || loaded.Temperature != 0.5 {
		t.Fatalf("round trip lost fields, got %+v", loaded)
	}
}

func TestConfigSaveWithoutOriginIsNoop(t *testing.T) {
	if err := DefaultConfig().Save(); err != nil {
		t.Fatalf("expected a config without a file to skip saving, got %v", err)
	}
}
