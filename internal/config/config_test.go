package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("expected no error for a missing config file, got %v", err)
	}
	if cfg.Window.Scale != Default().Window.Scale {
		t.Errorf("expected default scale, got %d", cfg.Window.Scale)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"window":{"scale":4,"fullscreen":true},"audio":{"enabled":true,"volume":0.5}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Window.Scale != 4 || !cfg.Window.Fullscreen {
		t.Errorf("expected overridden window config, got %+v", cfg.Window)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.5 {
		t.Errorf("expected overridden audio config, got %+v", cfg.Audio)
	}
	// Fields not present in the override keep their defaults.
	if cfg.Input.Player1Keys.A != "J" {
		t.Errorf("expected default key mapping to survive partial override, got %q", cfg.Input.Player1Keys.A)
	}
}

func TestLoadMalformedJSONIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestValidateRejectsNonPositiveScale(t *testing.T) {
	cfg := Default()
	cfg.Window.Scale = 0
	if err := cfg.validate(); err == nil {
		t.Error("expected validation error for zero scale")
	}
}

func TestValidateRejectsOutOfRangeVolume(t *testing.T) {
	cfg := Default()
	cfg.Audio.Volume = 1.5
	if err := cfg.validate(); err == nil {
		t.Error("expected validation error for volume above 1.0")
	}
}
