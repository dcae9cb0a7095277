package core

import (
	"strconv"

	"pwmtone/tone"
)

// TonePin identifies a hardware pin able to carry a square wave.
type TonePin uint32

// ToneDriver is the hardware interface the tone commands drive. Targets
// implement it on PWM slices, PIO state machines or host GPIO.
type ToneDriver interface {
	// ConfigureTone claims pin for square-wave output, muted.
	ConfigureTone(pin TonePin) error

	// SetFrequency changes the period of the wave on pin. hz is already
	// inside the playable band.
	SetFrequency(pin TonePin, hz float32) error

	// Enable starts the wave at 50% duty.
	Enable(pin TonePin) error

	// Disable drives pin low.
	Disable(pin TonePin) error

	// ReleaseTone drives pin low and frees whatever hardware it held.
	ReleaseTone(pin TonePin) error
}

var toneDriver ToneDriver

// SetToneDriver is called by target code to register its driver.
func SetToneDriver(d ToneDriver) {
	toneDriver = d
}

// MustTone returns the registered driver or panics if there is none.
func MustTone() ToneDriver {
	if toneDriver == nil {
		panic("tone driver not configured")
	}
	return toneDriver
}

// PinOutput adapts one pin of a ToneDriver to tone.FrequencyOutput. Driver
// errors cannot be returned through that interface; they are counted and
// written to the debug log.
type PinOutput struct {
	OID    uint8
	pin    TonePin
	drv    ToneDriver
	hz     float32
	Errors uint32
}

// NewPinOutput configures pin on drv.
func NewPinOutput(drv ToneDriver, oid uint8, pin TonePin) (*PinOutput, error) {
	if err := drv.ConfigureTone(pin); err != nil {
		return nil, err
	}
	return &PinOutput{OID: oid, pin: pin, drv: drv}, nil
}

func (o *PinOutput) Pin() TonePin { return o.pin }

func (o *PinOutput) Enable() {
	RecordTiming(EvtToneOn, o.OID, GetTime(), uint32(o.pin), uint32(o.hz*1000))
	o.check(o.drv.Enable(o.pin))
}

func (o *PinOutput) Disable() {
	RecordTiming(EvtToneOff, o.OID, GetTime(), uint32(o.pin), 0)
	o.check(o.drv.Disable(o.pin))
}

func (o *PinOutput) SetFrequency(hz float32) {
	o.hz = hz
	o.check(o.drv.SetFrequency(o.pin, hz))
}

func (o *PinOutput) check(err error) {
	if err == nil {
		return
	}
	o.Errors++
	DebugPrintln("[tone] pin " + strconv.Itoa(int(o.pin)) + ": " + err.Error())
}

var _ tone.FrequencyOutput = (*PinOutput)(nil)
