//go:build rp2040

package main

import (
	"errors"
	"machine"

	"pwmtone/core"

	buzzer "tinygo.org/x/drivers/tone"
)

var (
	ErrPinNotConfigured = errors.New("pin not configured for tone output")
	ErrSliceInUse       = errors.New("PWM slice already drives another tone pin")
)

type pwmTone struct {
	speaker buzzer.Speaker
	period  uint64 // ns
	on      bool
}

// PWMToneDriver drives tones from the eight hardware PWM slices. Both
// channels of a slice share its period, so a slice carries one tone pin.
type PWMToneDriver struct {
	pins   map[core.TonePin]*pwmTone
	owners map[uint8]core.TonePin
}

func NewPWMToneDriver() *PWMToneDriver {
	return &PWMToneDriver{
		pins:   make(map[core.TonePin]*pwmTone),
		owners: make(map[uint8]core.TonePin),
	}
}

// GPIO N belongs to slice (N>>1)&7, channel A for even pins.
func sliceOf(pin core.TonePin) uint8 {
	return uint8((pin >> 1) & 0x7)
}

func (d *PWMToneDriver) ConfigureTone(pin core.TonePin) error {
	slice := sliceOf(pin)
	if owner, ok := d.owners[slice]; ok && owner != pin {
		return ErrSliceInUse
	}
	// buzzer.New starts at 440 Hz with zero duty, so the pin is silent.
	s, err := buzzer.New(pwmPeripheral(slice), machine.Pin(pin))
	if err != nil {
		return err
	}
	d.owners[slice] = pin
	d.pins[pin] = &pwmTone{speaker: s}
	return nil
}

func (d *PWMToneDriver) SetFrequency(pin core.TonePin, hz float32) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	t.period = uint64(1e9 / hz)
	if t.on {
		t.speaker.SetPeriod(t.period)
	}
	return nil
}

func (d *PWMToneDriver) Enable(pin core.TonePin) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	if t.period == 0 {
		return nil
	}
	t.on = true
	t.speaker.SetPeriod(t.period)
	return nil
}

func (d *PWMToneDriver) Disable(pin core.TonePin) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	t.on = false
	t.speaker.Stop()
	return nil
}

// ReleaseTone silences pin and hands its slice back for another pin.
func (d *PWMToneDriver) ReleaseTone(pin core.TonePin) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	t.speaker.Stop()
	delete(d.pins, pin)
	if slice := sliceOf(pin); d.owners[slice] == pin {
		delete(d.owners, slice)
	}
	return nil
}

// pwmPeripheral maps a slice number to TinyGo's PWM0..PWM7 globals. Their
// type is unexported, so they travel as buzzer.PWM.
func pwmPeripheral(slice uint8) buzzer.PWM {
	switch slice {
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return machine.PWM0
	}
}
