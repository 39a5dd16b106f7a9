// Package config loads and validates the emulator's JSON configuration
// file: window/video presentation, audio, input key mapping, and paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds all host-level configuration. Emulation-core behavior
// (region, mapper support) is not user-configurable and lives outside
// this struct.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
	Paths  PathsConfig  `json:"paths"`
}

// WindowConfig controls the host window.
type WindowConfig struct {
	Fullscreen bool `json:"fullscreen"`
	Resizable  bool `json:"resizable"`
	Scale      int  `json:"scale"` // NES 256x240 resolution multiplier
}

// VideoConfig controls frame presentation.
type VideoConfig struct {
	VSync  bool   `json:"vsync"`
	Filter string `json:"filter"` // "nearest" or "linear"
}

// AudioConfig describes the audio output device. The emulator core carries
// no APU and the host opens no audio context; these fields are parsed and
// validated but not otherwise read.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float32 `json:"volume"`
}

// InputConfig holds both players' keyboard mappings.
type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping names one ebiten key per NES button.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// PathsConfig names directories for ROMs and battery-backed save data.
// They are parsed but not read by the host or the CLI, which takes the ROM
// path from its -rom flag and writes no save data.
type PathsConfig struct {
	ROMs     string `json:"roms"`
	SaveData string `json:"save_data"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Fullscreen: false,
			Resizable:  true,
			Scale:      2,
		},
		Video: VideoConfig{
			VSync:  true,
			Filter: "nearest",
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.8,
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up: "W", Down: "S", Left: "A", Right: "D",
				A: "J", B: "K", Start: "Enter", Select: "Space",
			},
			Player2Keys: KeyMapping{
				Up: "Up", Down: "Down", Left: "Left", Right: "Right",
				A: "N", B: "M", Start: "RShift", Select: "RControl",
			},
		},
		Paths: PathsConfig{
			ROMs:     "./roms",
			SaveData: "./saves",
		},
	}
}

// Load reads and parses the JSON config file at path. A missing file is
// not an error: Load returns Default(). A present but malformed file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Scale <= 0 {
		return fmt.Errorf("window.scale must be positive, got %d", c.Window.Scale)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("audio.sample_rate must not be negative, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be in [0,1], got %f", c.Audio.Volume)
	}
	return nil
}
