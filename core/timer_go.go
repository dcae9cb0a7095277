//go:build !tinygo

package core

import "sync/atomic"

var systemTicks atomic.Uint32

func getSystemTicks() uint32 { return systemTicks.Load() }

func setSystemTicks(ticks uint32) { systemTicks.Store(ticks) }

// Host builds run the timer list from a single goroutine, so there is
// nothing to mask.
type interruptState struct{}

func disableInterrupts() interruptState { return interruptState{} }

func restoreInterrupts(interruptState) {}
