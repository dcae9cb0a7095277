// Package config loads the host tool settings from
// ~/.config/pwmtone/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pwmtone/host/serial"
	"pwmtone/tone"
)

// Config holds the defaults CLI flags fall back to.
type Config struct {
	Device string `json:"device"`
	Baud   int    `json:"baud,omitempty"`

	// OID and Pin select the firmware output the commands drive.
	OID uint8  `json:"oid"`
	Pin uint32 `json:"pin"`

	Tempo  uint16 `json:"tempo,omitempty"`
	RestMs uint16 `json:"restMs,omitempty"`

	// Local playback without a board.
	Backend    string `json:"backend,omitempty"` // "speaker" or "gpio"
	GPIO       string `json:"gpio,omitempty"`    // periph pin name
	SampleRate int    `json:"sampleRate,omitempty"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Device:     "/dev/ttyACM0",
		Baud:       serial.DefaultBaud,
		Pin:        15,
		Tempo:      tone.DefaultTempo,
		RestMs:     tone.DefaultRestDuration,
		Backend:    "speaker",
		GPIO:       "GPIO13",
		SampleRate: 44100,
	}
}

// applyDefaults fills fields a partial file left empty. RestMs keeps an
// explicit zero only when the file names it, so it is handled in LoadFile.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Device == "" {
		c.Device = d.Device
	}
	if c.Baud == 0 {
		c.Baud = d.Baud
	}
	if c.Tempo == 0 {
		c.Tempo = d.Tempo
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.GPIO == "" {
		c.GPIO = d.GPIO
	}
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pwmtone"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the default config file, or returns defaults if there is none.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{RestMs: tone.DefaultRestDuration, Pin: DefaultConfig().Pin}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
