// Package midifile turns a Standard MIDI File track into a melody the tone
// generator can play.
//
// The generator is monophonic, so overlapping notes collapse to the highest
// one sounding. Durations are snapped to the nearest note value from a whole
// note down to a 128th, plain or dotted.
package midifile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"pwmtone/pitches"
	"pwmtone/tone"
)

var (
	ErrNoNotes    = errors.New("midifile: track has no notes")
	ErrNoTrack    = errors.New("midifile: no such track")
	ErrTimeFormat = errors.New("midifile: SMPTE time format not supported")
)

// Options controls the import.
type Options struct {
	// Track is the index of the track to read. Negative picks the first
	// track that has notes.
	Track int
	// Transpose shifts every note by this many semitones.
	Transpose int
	// MaxNotes truncates the melody. Zero keeps every note.
	MaxNotes int
}

// Song is an imported melody with the tempo it was written at.
type Song struct {
	Melody tone.Melody
	Tempo  uint16
	// Dropped counts notes and rests too short for a 128th.
	Dropped   int
	Truncated bool
}

// ReadFile imports the file at path.
func ReadFile(path string, opts Options) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts)
}

// Read imports a Standard MIDI File from r.
func Read(r io.Reader, opts Options) (*Song, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("midifile: %w", err)
	}
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrTimeFormat
	}

	track, err := pickTrack(s, opts.Track)
	if err != nil {
		return nil, err
	}

	song := &Song{Tempo: tone.DefaultTempo}
	if tc := s.TempoChanges(); len(tc) > 0 {
		song.Tempo = clampTempo(tc[0].BPM)
	}

	res := uint32(mt.Resolution())
	var notes []tone.Note
	for _, seg := range segments(track, opts.Transpose) {
		measures, ok := split(seg.ticks, res)
		if !ok {
			song.Dropped++
			continue
		}
		pitch := tone.Rest
		if seg.key >= 0 {
			pitch = tone.Hz(pitches.FromMIDI(uint8(seg.key)))
		}
		for _, m := range measures {
			notes = append(notes, tone.Note{Pitch: pitch, Measure: m})
		}
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	if opts.MaxNotes > 0 && len(notes) > opts.MaxNotes {
		notes = notes[:opts.MaxNotes]
		song.Truncated = true
	}
	song.Melody = append(tone.Melody(notes), tone.Note{Pitch: tone.End})
	return song, nil
}

func pickTrack(s *smf.SMF, idx int) (smf.Track, error) {
	if idx >= 0 {
		if idx >= len(s.Tracks) {
			return nil, fmt.Errorf("%w: %d of %d", ErrNoTrack, idx, len(s.Tracks))
		}
		return s.Tracks[idx], nil
	}
	for _, tr := range s.Tracks {
		for _, ev := range tr {
			var ch, key, vel uint8
			if midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
				return tr, nil
			}
		}
	}
	return nil, ErrNoNotes
}

func clampTempo(bpm float64) uint16 {
	switch {
	case bpm < 1:
		return 1
	case bpm > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(math.Round(bpm))
}

// segment is a stretch of constant pitch. key is -1 for silence.
type segment struct {
	key   int
	ticks uint32
}

// segments walks track and reports where the highest sounding key changes.
// Silence before the first note and after the last is left out.
func segments(track smf.Track, transpose int) []segment {
	var (
		active  [128]int
		segs    []segment
		abs     uint32
		start   uint32
		cur     = -1
		started bool
	)
	for _, ev := range track {
		abs += ev.Delta
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			active[key]++
		case msg.GetNoteEnd(&ch, &key):
			if active[key] > 0 {
				active[key]--
			}
		default:
			continue
		}

		top := highest(&active, transpose)
		if top == cur {
			continue
		}
		if started && abs > start {
			segs = append(segs, segment{cur, abs - start})
		}
		if top >= 0 {
			started = true
		}
		cur, start = top, abs
	}
	return segs
}

func highest(active *[128]int, transpose int) int {
	for k := 127; k >= 0; k-- {
		if active[k] > 0 {
			return min(max(k+transpose, 0), 127)
		}
	}
	return -1
}

// split converts a tick count into one or more note values. Anything longer
// than a dotted whole note becomes a run of whole notes.
func split(ticks, res uint32) ([]int16, bool) {
	whole := 4 * res
	var out []int16
	for ticks > whole+whole/2 {
		out = append(out, 1)
		ticks -= whole
	}
	m, ok := quantise(ticks, res)
	if !ok {
		return out, len(out) > 0
	}
	return append(out, m), true
}

// quantise returns the note value closest to ticks. Plain values win ties
// with dotted ones.
func quantise(ticks, res uint32) (int16, bool) {
	whole := float64(4 * res)
	if float64(ticks) < whole/128/2 {
		return 0, false
	}
	best, bestErr := int16(0), math.Inf(1)
	for m := 1; m <= 128; m *= 2 {
		plain := whole / float64(m)
		for _, c := range []struct {
			ticks   float64
			measure int16
		}{
			{plain, int16(m)},
			{plain * 1.5, -int16(m)},
		} {
			if e := math.Abs(float64(ticks) - c.ticks); e < bestErr {
				best, bestErr = c.measure, e
			}
		}
	}
	return best, true
}
