package tone

// FrequencyOutput is a single square-wave channel. How the frequency is
// turned into dividers and duty cycle is up to the implementation.
type FrequencyOutput interface {
	Enable()
	Disable()
	SetFrequency(hz float32)
}

// AlarmID identifies a pending alarm. The zero value is never issued.
type AlarmID uint32

// TimerFacility runs callbacks after a delay. A cancelled alarm must never
// run its callback. Callbacks run on the same thread that drives the
// generators.
type TimerFacility interface {
	AddAlarm(delayMs uint32, fn func()) AlarmID
	CancelAlarm(id AlarmID) bool
}

// Playable frequency band. Outside it the PWM divider arithmetic overflows or
// divides by zero, so such pitches are played as silence.
const (
	MinFrequency = 49.0      // G1
	MaxFrequency = 11839.822 // F#9
)

// InRange reports whether hz can be synthesised.
func InRange(hz float32) bool {
	return hz >= MinFrequency && hz <= MaxFrequency
}

// Clamp returns hz if it is playable and 0 (silence) otherwise.
func Clamp(hz float32) float32 {
	if !InRange(hz) {
		return 0
	}
	return hz
}
