//go:build rp2040

package main

import (
	"errors"
	"machine"

	"pwmtone/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var ErrNoStateMachine = errors.New("no free PIO state machine")

// Each half period is one SET with the maximum delay, so a full period is
// 64 state machine cycles. At 125 MHz the 16-bit divider then reaches down
// to about 30 Hz.
const (
	pioHalfCycles   = 32
	pioPeriodCycles = 2 * pioHalfCycles
	pioOrigin       = -1
)

func buildSquareProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Delay(pioHalfCycles - 1).Encode(),
		asm.Set(rp2pio.SetDestPins, 0).Delay(pioHalfCycles - 1).Encode(),
		// .wrap
	}
}

type pioTone struct {
	sm     rp2pio.StateMachine
	pin    machine.Pin
	tuned  bool
	active bool
}

// PIOToneDriver runs one square-wave state machine per tone pin, so pins
// are free of the PWM slice pairing. Two blocks give eight outputs.
type PIOToneDriver struct {
	blocks  [2]*rp2pio.PIO
	offsets [2]uint8
	pins    map[core.TonePin]*pioTone
}

// NewPIOToneDriver loads the square-wave program into both PIO blocks.
func NewPIOToneDriver() (*PIOToneDriver, error) {
	d := &PIOToneDriver{
		blocks: [2]*rp2pio.PIO{rp2pio.PIO0, rp2pio.PIO1},
		pins:   make(map[core.TonePin]*pioTone),
	}
	program := buildSquareProgram()
	for i, block := range d.blocks {
		offset, err := block.AddProgram(program, pioOrigin)
		if err != nil {
			return nil, err
		}
		d.offsets[i] = offset
	}
	return d, nil
}

func (d *PIOToneDriver) claim() (rp2pio.StateMachine, uint8, error) {
	for i, block := range d.blocks {
		for n := uint8(0); n < 4; n++ {
			sm := block.StateMachine(n)
			if sm.TryClaim() {
				return sm, d.offsets[i], nil
			}
		}
	}
	return rp2pio.StateMachine{}, 0, ErrNoStateMachine
}

func (d *PIOToneDriver) ConfigureTone(pin core.TonePin) error {
	if _, ok := d.pins[pin]; ok {
		return d.Disable(pin)
	}
	sm, offset, err := d.claim()
	if err != nil {
		return err
	}

	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: sm.PIO().PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p, 1)
	cfg.SetWrap(offset+1, offset)
	sm.Init(offset, cfg)

	// Pin directions only stick after Init.
	sm.SetPindirsConsecutive(p, 1, true)
	sm.SetPinsConsecutive(p, 1, false)

	d.pins[pin] = &pioTone{sm: sm, pin: p}
	return nil
}

func (d *PIOToneDriver) SetFrequency(pin core.TonePin, hz float32) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	cycle := uint32(1e9 / hz / pioPeriodCycles)
	whole, frac, err := rp2pio.ClkDivFromPeriod(cycle, machine.CPUFrequency())
	if err != nil {
		return err
	}
	t.sm.SetClkDiv(whole, frac)
	t.tuned = true
	return nil
}

func (d *PIOToneDriver) Enable(pin core.TonePin) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	if !t.tuned || t.active {
		return nil
	}
	t.active = true
	t.sm.Restart()
	t.sm.SetEnabled(true)
	return nil
}

func (d *PIOToneDriver) Disable(pin core.TonePin) error {
	t, ok := d.pins[pin]
	if !ok {
		return ErrPinNotConfigured
	}
	t.active = false
	t.sm.SetEnabled(false)
	t.sm.SetPinsConsecutive(t.pin, 1, false)
	return nil
}

// ReleaseTone stops pin's state machine and returns it to the free pool.
func (d *PIOToneDriver) ReleaseTone(pin core.TonePin) error {
	if err := d.Disable(pin); err != nil {
		return err
	}
	d.pins[pin].sm.Unclaim()
	delete(d.pins, pin)
	return nil
}
