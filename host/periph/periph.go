// Package periph drives buzzers on Linux single board computers through
// periph.io PWM pins.
package periph

import (
	"fmt"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"pwmtone/core"
)

// Driver implements core.ToneDriver. Tone pin n maps to the periph pin named
// "GPIO<n>".
type Driver struct {
	mu     sync.Mutex
	lookup func(name string) gpio.PinIO
	pins   map[core.TonePin]*pwmPin
}

type pwmPin struct {
	out gpio.PinOut
	hz  float32
	on  bool
}

// Open initialises the host drivers.
func Open() (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: %w", err)
	}
	return newDriver(gpioreg.ByName), nil
}

func newDriver(lookup func(string) gpio.PinIO) *Driver {
	return &Driver{lookup: lookup, pins: make(map[core.TonePin]*pwmPin)}
}

// PinNumber parses names like "GPIO13" into the tone pin number.
func PinNumber(name string) (core.TonePin, error) {
	if len(name) <= 4 || name[:4] != "GPIO" {
		return 0, fmt.Errorf("periph: %q is not a GPIOn name", name)
	}
	n, err := strconv.ParseUint(name[4:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("periph: %q: %w", name, err)
	}
	return core.TonePin(n), nil
}

func (d *Driver) ConfigureTone(pin core.TonePin) error {
	name := "GPIO" + strconv.Itoa(int(pin))
	p := d.lookup(name)
	if p == nil {
		return fmt.Errorf("periph: no pin %s", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pins[pin] = &pwmPin{out: p}
	return nil
}

func (d *Driver) pin(pin core.TonePin) (*pwmPin, error) {
	p, ok := d.pins[pin]
	if !ok {
		return nil, fmt.Errorf("periph: GPIO%d not configured", pin)
	}
	return p, nil
}

// SetFrequency retunes a sounding pin at once.
func (d *Driver) SetFrequency(pin core.TonePin, hz float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	p.hz = hz
	if p.on {
		return p.start()
	}
	return nil
}

func (d *Driver) Enable(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	p.on = true
	return p.start()
}

func (d *Driver) Disable(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	p.on = false
	return p.out.Out(gpio.Low)
}

func (d *Driver) ReleaseTone(pin core.TonePin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	delete(d.pins, pin)
	return p.out.Out(gpio.Low)
}

func (p *pwmPin) start() error {
	f := physic.Frequency(float64(p.hz) * float64(physic.Hertz))
	if err := p.out.PWM(gpio.DutyHalf, f); err != nil {
		return fmt.Errorf("periph: %s at %v: %w", p.out, f, err)
	}
	return nil
}

var _ core.ToneDriver = (*Driver)(nil)
