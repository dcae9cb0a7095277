// Package serial opens the USB CDC link to a tone board.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is ignored by USB CDC but required by the termios setup.
const DefaultBaud = 250000

// Port is an open serial link.
type Port interface {
	io.ReadWriteCloser

	// Flush discards anything buffered in either direction.
	Flush() error
}

// Config describes the device to open.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string
	Baud   int
	// ReadTimeout bounds a single Read. Zero blocks.
	ReadTimeout time.Duration
}

// DefaultConfig returns the settings the firmware expects on device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Open opens the port and drops any stale bytes left from a previous
// session.
func Open(cfg *Config) (Port, error) {
	if cfg == nil || cfg.Device == "" {
		return nil, errors.New("serial: no device given")
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	if err := p.Flush(); err != nil {
		p.Close()
		return nil, fmt.Errorf("flush %s: %w", cfg.Device, err)
	}
	return p, nil
}
