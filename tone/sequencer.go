package tone

// State is the position of a generator's melody state machine.
type State uint8

const (
	Idle State = iota
	NotePlaying
	Resting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case NotePlaying:
		return "note"
	case Resting:
		return "rest"
	default:
		return "unknown"
	}
}

type event uint8

const (
	evStart event = iota
	evNoteDone
	evRestDone
)

// MinNoteDuration is the shortest a melody note lasts, in ms.
const MinNoteDuration = 1

// RepeatForever as a repeat count plays a melody until it is stopped.
const RepeatForever = -1

// sequencer is the per-generator melody cursor.
type sequencer struct {
	melody Melody
	index  int
	// -1 loops forever, 0 plays once, N plays N passes. Only decremented
	// while positive.
	repeats int
	state   State
}

func (s *sequencer) reset() {
	*s = sequencer{}
}

// Position returns the index of the next note and the remaining repeat count.
func (g *Generator) Position() (index, repeats int) {
	return g.seq.index, g.seq.repeats
}

// PlayMelody starts m from its first note, replacing whatever was playing.
// The first note starts before PlayMelody returns. repeat is -1 to loop
// until stopped, 0 to play once, or the total number of passes.
//
// An invalid melody is rejected and the current playback is left alone.
func (g *Generator) PlayMelody(m Melody, repeat int) error {
	if err := m.Validate(); err != nil {
		return err
	}
	g.cancelAlarms()
	g.seq = sequencer{melody: m, repeats: repeat}
	g.playing = true
	g.advance(evStart)
	return nil
}

// advance is the melody transition function. It runs synchronously for the
// first note and from alarm callbacks afterwards.
func (g *Generator) advance(ev event) {
	switch ev {
	case evStart, evRestDone:
		g.step()
	case evNoteDone:
		g.out.Disable()
		if rest := g.cfg.RestDuration(); rest > 0 {
			g.seq.state = Resting
			g.arm(&g.restAlarm, uint32(rest), g.onRestDone)
			return
		}
		g.step()
	}
}

// step starts the note under the cursor, looping back to the first note at
// the terminator while repeats remain.
func (g *Generator) step() {
	s := &g.seq
	for {
		if s.index >= len(s.melody) || s.melody[s.index].Pitch.IsEnd() {
			s.index = 0
			if s.repeats > 0 {
				s.repeats--
			}
			if s.repeats == 0 {
				s.melody = nil
				s.state = Idle
				g.playing = false
				return
			}
			// Validate guarantees a playable note at index 0.
			continue
		}

		note := s.melody[s.index]
		duration := note.Duration(g.cfg.Tempo())
		if duration == 0 {
			// very fast tempos round short notes down to nothing
			duration = MinNoteDuration
		}
		if note.Pitch.IsRest() {
			g.out.Disable()
		} else {
			g.soundOn(note.Pitch.Frequency())
		}
		s.index++
		s.state = NotePlaying
		g.playing = true
		g.arm(&g.noteAlarm, duration, g.onNoteDone)
		return
	}
}

func (g *Generator) noteComplete() {
	g.noteAlarm = 0
	g.advance(evNoteDone)
}

func (g *Generator) restComplete() {
	g.restAlarm = 0
	g.advance(evRestDone)
}
