package tone

import "errors"

var (
	ErrZeroMeasure = errors.New("tone: zero measure on a playable note")
	ErrEmptyMelody = errors.New("tone: melody has no playable notes")
)

type pitchKind uint8

const (
	kindSilence pitchKind = iota
	kindTone
	kindEnd
)

// Pitch is what a note sounds like: a frequency, silence, or the end of a
// melody.
type Pitch struct {
	kind pitchKind
	hz   float32
}

var (
	// Rest is a silent note.
	Rest = Pitch{kind: kindSilence}

	// End terminates a melody. Its measure is ignored.
	End = Pitch{kind: kindEnd}
)

// Hz returns a pitch sounding at f hertz. Non-positive frequencies are silence.
func Hz(f float32) Pitch {
	if f <= 0 {
		return Rest
	}
	return Pitch{kind: kindTone, hz: f}
}

// FromSentinel decodes the flat float encoding used by C-style melody tables,
// where 0 is a rest and -1 ends the melody.
func FromSentinel(f float32) Pitch {
	switch {
	case f == -1:
		return End
	case f <= 0:
		return Rest
	default:
		return Hz(f)
	}
}

// Frequency returns the pitch in hertz, or 0 for rests and terminators.
func (p Pitch) Frequency() float32 {
	if p.kind != kindTone {
		return 0
	}
	return p.hz
}

func (p Pitch) IsRest() bool { return p.kind == kindSilence }
func (p Pitch) IsEnd() bool  { return p.kind == kindEnd }

// Sentinel is the inverse of FromSentinel.
func (p Pitch) Sentinel() float32 {
	switch p.kind {
	case kindEnd:
		return -1
	case kindTone:
		return p.hz
	default:
		return 0
	}
}

// Note is one entry of a melody. Measure is the fraction of a whole note the
// note lasts: 4 is a quarter, 8 an eighth. A negative measure is dotted and
// lasts half as long again.
type Note struct {
	Pitch   Pitch
	Measure int16
}

// Duration returns the note length in milliseconds at the given tempo.
// It returns 0 for a zero measure or tempo.
func (n Note) Duration(tempoBpm uint16) uint32 {
	return NoteDuration(tempoBpm, n.Measure)
}

// NoteDuration is the note length in milliseconds for a measure at tempo.
func NoteDuration(tempoBpm uint16, measure int16) uint32 {
	if tempoBpm == 0 || measure == 0 {
		return 0
	}
	whole := uint32(60000*4) / uint32(tempoBpm)
	m := int32(measure)
	if m < 0 {
		m = -m
	}
	d := whole / uint32(m)
	if measure < 0 {
		d += d / 2
	}
	return d
}

// Melody is a sequence of notes played in order. It ends at the first End
// note or at the end of the slice.
type Melody []Note

// Len returns the number of notes before the terminator.
func (m Melody) Len() int {
	for i, n := range m {
		if n.Pitch.IsEnd() {
			return i
		}
	}
	return len(m)
}

// Validate checks that every note before the terminator has a non-zero
// measure and that there is at least one note to play.
func (m Melody) Validate() error {
	n := m.Len()
	if n == 0 {
		return ErrEmptyMelody
	}
	for _, note := range m[:n] {
		if note.Measure == 0 {
			return ErrZeroMeasure
		}
	}
	return nil
}

// TotalDuration is the length of one pass through the melody, including the
// rest inserted after each note.
func (m Melody) TotalDuration(tempoBpm uint16, restMs uint16) uint32 {
	var total uint32
	for _, note := range m[:m.Len()] {
		total += note.Duration(tempoBpm) + uint32(restMs)
	}
	return total
}

// MustMelody builds a melody from a compiled-in table and panics if the
// table is invalid, so bad tables fail at package initialisation.
func MustMelody(notes ...Note) Melody {
	m := Melody(notes)
	if err := m.Validate(); err != nil {
		panic(err.Error())
	}
	return m
}
