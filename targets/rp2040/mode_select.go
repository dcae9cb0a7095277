//go:build rp2040

package main

import "pwmtone/core"

// Backend selects the hardware that produces the square waves.
type Backend uint8

const (
	BackendPWM Backend = iota
	BackendPIO
)

// ModeConfig determines how the firmware runs.
type ModeConfig struct {
	// Demo plays the preset catalogue on DemoPin without a host.
	Demo    bool
	DemoPin core.TonePin
	Backend Backend
}

// GetMode returns the build's mode. Change it here for a hostless demo
// board or for pins that collide on a PWM slice.
func GetMode() ModeConfig {
	return ModeConfig{
		Demo:    false,
		DemoPin: 15,
		Backend: BackendPWM,
	}
}

func newToneDriver(b Backend) (core.ToneDriver, error) {
	if b == BackendPIO {
		d, err := NewPIOToneDriver()
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return NewPWMToneDriver(), nil
}
