//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"pwmtone/core"
)

const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // raw low word, not latched
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// InitClock publishes the timer constants. The RP2040 timer counts
// microseconds, matching core.TimerFreq.
func InitClock() {
	core.RegisterConstant("MCU", "rp2040")
	core.RegisterConstant("CLOCK_FREQ", core.TimerFreq)
}

// UpdateSystemTime copies the low word of the hardware timer into core.
func UpdateSystemTime() {
	core.SetTime(timerRAWL.Get())
}
