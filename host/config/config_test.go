package config

import (
	"os"
	"path/filepath"
	"testing"

	"pwmtone/tone"
)

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"device": "/dev/ttyACM3", "oid": 2, "restMs": 0}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "/dev/ttyACM3" || cfg.OID != 2 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.RestMs != 0 {
		t.Errorf("explicit restMs 0 became %d", cfg.RestMs)
	}
	if cfg.Tempo != tone.DefaultTempo || cfg.Pin != 15 || cfg.Backend != "speaker" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("truncated JSON accepted")
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Tempo = 90
	cfg.GPIO = "GPIO18"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip gave %+v, want %+v", got, cfg)
	}
}
