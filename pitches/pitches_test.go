package pitches

import (
	"testing"

	"pwmtone/tone"
)

func TestFromMIDI(t *testing.T) {
	tests := []struct {
		note uint8
		want float32
	}{
		{0, CM1},
		{60, C4},
		{69, A4},
		{127, G9},
		{128, 0},
		{255, 0},
	}

	for _, tt := range tests {
		if got := FromMIDI(tt.note); got != tt.want {
			t.Errorf("FromMIDI(%d) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestTableIsAscending(t *testing.T) {
	for i := 1; i < len(midi); i++ {
		if midi[i] <= midi[i-1] {
			t.Fatalf("midi[%d] = %v not above midi[%d] = %v", i, midi[i], i-1, midi[i-1])
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{1, "C#-1"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
		{200, ""},
	}

	for _, tt := range tests {
		if got := Name(tt.note); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestNearest(t *testing.T) {
	tests := []struct {
		hz   float32
		want uint8
	}{
		{440, 69},
		{445, 69},
		{460, 70},
		{1, 0},
		{20000, 127},
	}

	for _, tt := range tests {
		if got := Nearest(tt.hz); got != tt.want {
			t.Errorf("Nearest(%v) = %d, want %d", tt.hz, got, tt.want)
		}
	}
}

func TestPlayableBandMatchesTone(t *testing.T) {
	if Lowest != tone.MinFrequency || Highest != tone.MaxFrequency {
		t.Errorf("band %v..%v differs from tone %v..%v", Lowest, Highest, tone.MinFrequency, tone.MaxFrequency)
	}
	if tone.InRange(FS1) || !tone.InRange(G1) || !tone.InRange(FS9) || tone.InRange(G9) {
		t.Error("band edges misclassified")
	}
}
