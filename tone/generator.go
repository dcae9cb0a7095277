// Package tone plays tones and melodies on a single square-wave output
// without blocking. Melodies are walked by a small state machine that is
// re-entered from timer callbacks, one note at a time.
//
// A Generator is not safe for concurrent use. All calls and all timer
// callbacks must happen on the goroutine that drives the TimerFacility.
package tone

// Generator drives one FrequencyOutput. Each generator owns its own timer
// slots, so generators sharing a TimerFacility never cancel each other.
type Generator struct {
	out     FrequencyOutput
	timers  TimerFacility
	cfg     *PlaybackConfig
	playing bool

	// At most one of these is pending at any time.
	toneAlarm AlarmID
	noteAlarm AlarmID
	restAlarm AlarmID

	// Bound once so arming an alarm does not allocate.
	onToneDone func()
	onNoteDone func()
	onRestDone func()

	seq sequencer
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig makes the generator read tempo and rest from cfg instead of
// the process-wide Default.
func WithConfig(cfg *PlaybackConfig) Option {
	return func(g *Generator) {
		if cfg != nil {
			g.cfg = cfg
		}
	}
}

// New binds a generator to an output and mutes it.
func New(out FrequencyOutput, timers TimerFacility, opts ...Option) *Generator {
	g := &Generator{
		out:    out,
		timers: timers,
		cfg:    Default,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.onToneDone = g.toneComplete
	g.onNoteDone = g.noteComplete
	g.onRestDone = g.restComplete

	out.Disable()
	return g
}

// IsPlaying reports whether a tone is sounding or a melody is in progress,
// including the rests between its notes.
func (g *Generator) IsPlaying() bool {
	return g.playing
}

// State returns the melody state.
func (g *Generator) State() State {
	return g.seq.state
}

// Config returns the playback configuration the generator reads.
func (g *Generator) Config() *PlaybackConfig {
	return g.cfg
}

// PlayTone sounds hz for durationMs, replacing whatever was playing.
// A rest (hz <= 0) is ignored. Pitches outside the playable band are played
// as silence for the requested duration.
func (g *Generator) PlayTone(hz float32, durationMs uint32) {
	if Hz(hz).IsRest() {
		return
	}
	g.cancelAlarms()
	g.seq.reset()

	g.soundOn(hz)
	g.playing = true
	g.arm(&g.toneAlarm, durationMs, g.onToneDone)
}

// StopTone silences the output. Melody alarms keep running, so a melody in
// progress resumes at its next note.
func (g *Generator) StopTone() {
	g.out.Disable()
	g.playing = false
}

// StopMelody cancels every pending alarm and silences the output.
// Calling it again has no further effect.
func (g *Generator) StopMelody() {
	g.cancelAlarms()
	g.seq.reset()
	g.out.Disable()
	g.playing = false
}

func (g *Generator) toneComplete() {
	g.toneAlarm = 0
	g.out.Disable()
	g.playing = false
}

// soundOn restarts the output at hz, or leaves it muted if hz is out of range.
func (g *Generator) soundOn(hz float32) {
	g.out.Disable()
	hz = Clamp(hz)
	if hz == 0 {
		return
	}
	g.out.SetFrequency(hz)
	g.out.Enable()
}

// arm replaces the alarm in slot.
func (g *Generator) arm(slot *AlarmID, delayMs uint32, fn func()) {
	g.cancel(slot)
	*slot = g.timers.AddAlarm(delayMs, fn)
}

func (g *Generator) cancel(slot *AlarmID) {
	if *slot != 0 {
		g.timers.CancelAlarm(*slot)
		*slot = 0
	}
}

func (g *Generator) cancelAlarms() {
	g.cancel(&g.toneAlarm)
	g.cancel(&g.noteAlarm)
	g.cancel(&g.restAlarm)
}
