package melodies

import (
	"testing"

	"pwmtone/tone"
)

func TestCatalogIDsAreDense(t *testing.T) {
	for i, p := range All() {
		if int(p.ID) != i+1 {
			t.Errorf("preset %q has ID %d at position %d", p.Name, p.ID, i)
		}
		got, ok := ByID(p.ID)
		if !ok || got.Name != p.Name {
			t.Errorf("ByID(%d) = %q, %v", p.ID, got.Name, ok)
		}
	}
	if _, ok := ByID(0); ok {
		t.Error("ByID(0) found a preset")
	}
	if _, ok := ByID(ID(len(All()) + 1)); ok {
		t.Error("ByID past the end found a preset")
	}
}

func TestCatalogMelodiesAreValid(t *testing.T) {
	if len(All()) != 21 {
		t.Fatalf("catalogue has %d presets, want 21", len(All()))
	}
	for _, p := range All() {
		if err := p.Melody.Validate(); err != nil {
			t.Errorf("%s: %v", p.Name, err)
		}
		last := p.Melody[len(p.Melody)-1]
		if !last.Pitch.IsEnd() {
			t.Errorf("%s does not end with a terminator", p.Name)
		}
		for i, n := range p.Melody[:p.Melody.Len()] {
			if n.Pitch.IsRest() {
				continue
			}
			if hz := n.Pitch.Frequency(); hz <= 0 {
				t.Errorf("%s note %d has frequency %v", p.Name, i, hz)
			}
		}
	}
}

func TestByName(t *testing.T) {
	p, ok := ByName("happy_birthday")
	if !ok || p.ID != IDHappyBirthday {
		t.Fatalf("ByName(happy_birthday) = %v, %v", p.ID, ok)
	}
	if _, ok := ByName("nope"); ok {
		t.Error("unknown name found")
	}
}

func TestPositiveDuration(t *testing.T) {
	// three sixteenths and an eighth rest at 120 bpm, 10 ms after each
	want := uint32(125*3 + 250 + 4*10)
	if got := Positive.TotalDuration(tone.DefaultTempo, tone.DefaultRestDuration); got != want {
		t.Errorf("Positive lasts %d ms, want %d", got, want)
	}
}
