package tone

import (
	"errors"
	"sync/atomic"
)

const (
	DefaultTempo        = 120 // quarter notes per minute
	DefaultRestDuration = 10  // ms of silence between melody notes
)

var ErrInvalidTempo = errors.New("tone: tempo must be positive")

// PlaybackConfig holds the tempo and inter-note rest used by melodies.
// Single tones ignore it. Values may be changed from any goroutine and are
// read once per melody step, so a change only affects notes not yet started.
type PlaybackConfig struct {
	tempo uint32 // atomic
	rest  uint32 // atomic
}

// Default is the process-wide configuration used by generators that are not
// given one explicitly.
var Default = NewPlaybackConfig()

// NewPlaybackConfig returns a configuration with the default tempo and rest.
func NewPlaybackConfig() *PlaybackConfig {
	return &PlaybackConfig{
		tempo: DefaultTempo,
		rest:  DefaultRestDuration,
	}
}

// SetTempo sets the melody tempo in quarter notes per minute.
func (c *PlaybackConfig) SetTempo(bpm uint16) error {
	if bpm == 0 {
		return ErrInvalidTempo
	}
	atomic.StoreUint32(&c.tempo, uint32(bpm))
	return nil
}

// Tempo returns the melody tempo in quarter notes per minute.
func (c *PlaybackConfig) Tempo() uint16 {
	return uint16(atomic.LoadUint32(&c.tempo))
}

// SetRestDuration sets the silence inserted between melody notes.
// Zero advances to the next note as soon as the previous one ends.
func (c *PlaybackConfig) SetRestDuration(ms uint16) {
	atomic.StoreUint32(&c.rest, uint32(ms))
}

// RestDuration returns the silence inserted between melody notes in ms.
func (c *PlaybackConfig) RestDuration() uint16 {
	return uint16(atomic.LoadUint32(&c.rest))
}

// SetTempo sets the tempo of the process-wide configuration.
func SetTempo(bpm uint16) error {
	return Default.SetTempo(bpm)
}

// SetRestDuration sets the rest duration of the process-wide configuration.
func SetRestDuration(ms uint16) {
	Default.SetRestDuration(ms)
}
