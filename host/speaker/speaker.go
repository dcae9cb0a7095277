// Package speaker renders tone outputs as square waves on the desktop sound
// card, for trying melodies without a board.
package speaker

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"pwmtone/core"
)

var ErrAboveNyquist = errors.New("speaker: frequency above half the sample rate")

// DefaultVolume keeps a full-scale square wave from clipping.
const DefaultVolume = 0.25

// Driver implements core.ToneDriver and beep.Streamer. Each configured pin
// is one square voice; enabled voices are summed.
type Driver struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	volume float64
	voices map[core.TonePin]*voice
}

type voice struct {
	dt, t float64
	on    bool
}

// NewDriver returns a driver rendering at sr. It does not touch the sound
// card; see Open.
func NewDriver(sr beep.SampleRate) *Driver {
	return &Driver{
		sr:     sr,
		volume: DefaultVolume,
		voices: make(map[core.TonePin]*voice),
	}
}

// Open starts the sound card at sr and plays the driver on it.
func Open(sr beep.SampleRate) (*Driver, error) {
	d := NewDriver(sr)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("speaker: %w", err)
	}
	speaker.Play(d)
	return d, nil
}

// SetVolume sets the amplitude of each voice, 0 to 1.
func (d *Driver) SetVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = math.Max(0, math.Min(1, v))
}

func (d *Driver) ConfigureTone(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voices[pin] = &voice{}
	return nil
}

func (d *Driver) voice(pin core.TonePin) (*voice, error) {
	v, ok := d.voices[pin]
	if !ok {
		return nil, fmt.Errorf("speaker: pin %d not configured", pin)
	}
	return v, nil
}

func (d *Driver) SetFrequency(pin core.TonePin, hz float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.voice(pin)
	if err != nil {
		return err
	}
	dt := float64(hz) / float64(d.sr)
	if dt >= 0.5 {
		return ErrAboveNyquist
	}
	v.dt = dt
	return nil
}

func (d *Driver) Enable(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.voice(pin)
	if err != nil {
		return err
	}
	if !v.on {
		v.on, v.t = true, 0
	}
	return nil
}

func (d *Driver) Disable(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.voice(pin)
	if err != nil {
		return err
	}
	v.on = false
	return nil
}

func (d *Driver) ReleaseTone(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.voice(pin); err != nil {
		return err
	}
	delete(d.voices, pin)
	return nil
}

// Stream fills samples with the sum of every enabled voice. It never ends.
func (d *Driver) Stream(samples [][2]float64) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range samples {
		var s float64
		for _, v := range d.voices {
			if !v.on {
				continue
			}
			if v.t < 0.5 {
				s += d.volume
			} else {
				s -= d.volume
			}
			_, v.t = math.Modf(v.t + v.dt)
		}
		samples[i][0], samples[i][1] = s, s
	}
	return len(samples), true
}

func (d *Driver) Err() error { return nil }

var (
	_ core.ToneDriver = (*Driver)(nil)
	_ beep.Streamer   = (*Driver)(nil)
)
