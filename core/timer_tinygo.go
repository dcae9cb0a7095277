//go:build tinygo

package core

import (
	"runtime/interrupt"
	"sync/atomic"
)

var systemTicks uint32

func getSystemTicks() uint32 { return atomic.LoadUint32(&systemTicks) }

func setSystemTicks(ticks uint32) { atomic.StoreUint32(&systemTicks, ticks) }

func disableInterrupts() interrupt.State { return interrupt.Disable() }

func restoreInterrupts(state interrupt.State) { interrupt.Restore(state) }
