package speaker

import (
	"errors"
	"testing"

	"pwmtone/core"
)

func TestSquareWave(t *testing.T) {
	d := NewDriver(8000)
	d.SetVolume(1)
	if err := d.ConfigureTone(1); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFrequency(1, 1000); err != nil {
		t.Fatal(err)
	}

	buf := make([][2]float64, 16)
	d.Stream(buf)
	for i, s := range buf {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d = %v while muted", i, s)
		}
	}

	if err := d.Enable(1); err != nil {
		t.Fatal(err)
	}
	n, ok := d.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	// 8 samples per period, high for the first half
	for i, s := range buf {
		want := 1.0
		if i%8 >= 4 {
			want = -1
		}
		if s[0] != want || s[1] != want {
			t.Errorf("sample %d = %v, want %v", i, s, want)
		}
	}
}

func TestVoicesMix(t *testing.T) {
	d := NewDriver(8000)
	d.SetVolume(0.5)
	for _, pin := range []uint32{1, 2} {
		p := core.TonePin(pin)
		d.ConfigureTone(p)
		d.SetFrequency(p, 1000)
		d.Enable(p)
	}
	buf := make([][2]float64, 1)
	d.Stream(buf)
	if buf[0][0] != 1 {
		t.Errorf("two voices in phase sum to %v, want 1", buf[0][0])
	}

	d.Disable(core.TonePin(2))
	d.Stream(buf)
	if buf[0][0] != 0.5 {
		t.Errorf("one voice gives %v, want 0.5", buf[0][0])
	}
}

func TestDriverErrors(t *testing.T) {
	d := NewDriver(8000)
	if err := d.Enable(3); err == nil {
		t.Error("Enable on unconfigured pin succeeded")
	}
	d.ConfigureTone(3)
	if err := d.SetFrequency(3, 4000); !errors.Is(err, ErrAboveNyquist) {
		t.Errorf("SetFrequency(4000) at 8 kHz = %v", err)
	}
}

func TestReleaseToneDropsVoice(t *testing.T) {
	d := NewDriver(8000)
	d.SetVolume(1)
	if err := d.ConfigureTone(1); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFrequency(1, 1000); err != nil {
		t.Fatal(err)
	}
	if err := d.Enable(1); err != nil {
		t.Fatal(err)
	}
	if err := d.ReleaseTone(1); err != nil {
		t.Fatal(err)
	}

	buf := make([][2]float64, 8)
	d.Stream(buf)
	for i, s := range buf {
		if s[0] != 0 {
			t.Fatalf("sample %d = %v after release", i, s)
		}
	}
	if err := d.Enable(1); err == nil {
		t.Error("Enable on a released pin succeeded")
	}
}
