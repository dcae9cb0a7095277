package midifile

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"pwmtone/pitches"
	"pwmtone/tone"
)

// buildSMF writes a two track file: tempo first, then the notes added by fill.
func buildSMF(t *testing.T, bpm float64, fill func(tr *smf.Track)) *bytes.Reader {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var meta smf.Track
	if bpm > 0 {
		meta.Add(0, smf.MetaTempo(bpm))
	}
	meta.Close(0)
	if err := s.Add(meta); err != nil {
		t.Fatal(err)
	}

	var tr smf.Track
	fill(&tr)
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func note(tr *smf.Track, wait, key uint8, ticks uint32) {
	tr.Add(uint32(wait), midi.NoteOn(0, key, 100))
	tr.Add(ticks, midi.NoteOff(0, key))
}

func equalMelody(a, b tone.Melody) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReadQuantises(t *testing.T) {
	r := buildSMF(t, 100, func(tr *smf.Track) {
		note(tr, 0, 69, 480)   // quarter
		note(tr, 240, 72, 720) // eighth rest, dotted quarter
	})

	song, err := Read(r, Options{Track: -1})
	if err != nil {
		t.Fatal(err)
	}
	want := tone.Melody{
		{Pitch: tone.Hz(pitches.A4), Measure: 4},
		{Pitch: tone.Rest, Measure: 8},
		{Pitch: tone.Hz(pitches.C5), Measure: -4},
		{Pitch: tone.End},
	}
	if !equalMelody(song.Melody, want) {
		t.Errorf("melody %v, want %v", song.Melody, want)
	}
	if song.Tempo != 100 {
		t.Errorf("tempo %d, want 100", song.Tempo)
	}
	if err := song.Melody.Validate(); err != nil {
		t.Error(err)
	}
}

func TestReadHighestNoteWins(t *testing.T) {
	r := buildSMF(t, 0, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(0, midi.NoteOn(0, 64, 100))
		tr.Add(240, midi.NoteOff(0, 64))
		tr.Add(240, midi.NoteOff(0, 60))
	})

	song, err := Read(r, Options{Track: -1})
	if err != nil {
		t.Fatal(err)
	}
	want := tone.Melody{
		{Pitch: tone.Hz(pitches.E4), Measure: 8},
		{Pitch: tone.Hz(pitches.C4), Measure: 8},
		{Pitch: tone.End},
	}
	if !equalMelody(song.Melody, want) {
		t.Errorf("melody %v, want %v", song.Melody, want)
	}
	if song.Tempo != tone.DefaultTempo {
		t.Errorf("tempo %d without a tempo event", song.Tempo)
	}
}

func TestReadSplitsLongNotesAndDropsGlitches(t *testing.T) {
	r := buildSMF(t, 120, func(tr *smf.Track) {
		note(tr, 0, 69, 4*1920)
		note(tr, 0, 70, 5)
	})

	song, err := Read(r, Options{Track: -1})
	if err != nil {
		t.Fatal(err)
	}
	if song.Melody.Len() != 4 {
		t.Fatalf("%d notes, want 4 whole notes", song.Melody.Len())
	}
	for _, n := range song.Melody[:4] {
		if n.Measure != 1 {
			t.Errorf("measure %d, want 1", n.Measure)
		}
	}
	if song.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", song.Dropped)
	}
}

func TestReadOptions(t *testing.T) {
	fill := func(tr *smf.Track) {
		for i := 0; i < 5; i++ {
			note(tr, 0, 69, 240)
		}
	}

	song, err := Read(buildSMF(t, 120, fill), Options{Track: 1, Transpose: 12, MaxNotes: 3})
	if err != nil {
		t.Fatal(err)
	}
	if song.Melody.Len() != 3 || !song.Truncated {
		t.Errorf("Len() = %d truncated = %v", song.Melody.Len(), song.Truncated)
	}
	if song.Melody[0].Pitch != tone.Hz(pitches.A5) {
		t.Errorf("transposed pitch %v", song.Melody[0].Pitch.Frequency())
	}

	if _, err := Read(buildSMF(t, 120, fill), Options{Track: 7}); !errors.Is(err, ErrNoTrack) {
		t.Errorf("track 7 = %v", err)
	}
	if _, err := Read(buildSMF(t, 120, fill), Options{Track: 0}); !errors.Is(err, ErrNoNotes) {
		t.Errorf("tempo track = %v", err)
	}
}

func TestQuantise(t *testing.T) {
	tests := []struct {
		ticks uint32
		want  int16
		ok    bool
	}{
		{1920, 1, true},
		{2880, -1, true},
		{480, 4, true},
		{500, 4, true},
		{360, -8, true},
		{15, 128, true},
		{7, 0, false},
	}
	for _, tt := range tests {
		got, ok := quantise(tt.ticks, 480)
		if got != tt.want || ok != tt.ok {
			t.Errorf("quantise(%d) = %d, %v, want %d, %v", tt.ticks, got, ok, tt.want, tt.ok)
		}
	}
}
