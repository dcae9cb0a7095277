package main

import (
	"bytes"
	"strings"
	"testing"

	"pwmtone/host/mcu"
	"pwmtone/melodies"
	"pwmtone/tone"
)

func TestResolvePreset(t *testing.T) {
	tests := []struct {
		arg  string
		want melodies.ID
		ok   bool
	}{
		{"coin", melodies.IDCoin, true},
		{"1", melodies.IDPositive, true},
		{"21", melodies.IDHappyBirthday, true},
		{"0", 0, false},
		{"300", 0, false},
		{"kazoo", 0, false},
	}
	for _, tt := range tests {
		p, err := resolvePreset(tt.arg)
		if (err == nil) != tt.ok || (tt.ok && p.ID != tt.want) {
			t.Errorf("resolvePreset(%q) = %v, %v", tt.arg, p.ID, err)
		}
	}
}

func TestParseHz(t *testing.T) {
	if hz, err := parseHz("440"); err != nil || hz != 440 {
		t.Errorf("parseHz(440) = %v, %v", hz, err)
	}
	for _, bad := range []string{"", "-3", "abc"} {
		if _, err := parseHz(bad); err == nil {
			t.Errorf("parseHz(%q) accepted", bad)
		}
	}
}

func TestRenderPresets(t *testing.T) {
	var buf bytes.Buffer
	renderPresets(&buf, 120, 10)
	out := buf.String()
	for _, p := range melodies.All() {
		if !strings.Contains(out, p.Name) {
			t.Errorf("list output missing %s", p.Name)
		}
	}
	// positive: three sixteenths and an eighth rest, 10 ms after each
	if !strings.Contains(out, "665 ms") {
		t.Error("positive melody length not shown")
	}
}

func TestRenderStatus(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, mcu.Status{OID: 2, Playing: true, State: tone.NotePlaying}, true)
	out := buf.String()
	if !strings.Contains(out, "oid 2") || !strings.Contains(out, "note") || !strings.Contains(out, "estop --clear") {
		t.Errorf("status output %q", out)
	}
}
