package core

// TimerFreq is the tick rate of the system timer. The RP2040 timer counts
// microseconds.
const TimerFreq = 1000000

// MaxTimerDelay is the longest delay the wrapping tick comparison can
// express, a little under 36 minutes.
const MaxTimerDelay = 1<<31 - 1

// GetTime returns the current system time in ticks.
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the system time. Targets call it from the main loop with the
// hardware counter; host builds drive it from a wall clock or a test.
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to ticks.
func TimerFromUS(us uint32) uint32 {
	return clampDelay(uint64(us) * TimerFreq / 1000000)
}

// TimerFromMS converts milliseconds to ticks, saturating at MaxTimerDelay.
func TimerFromMS(ms uint32) uint32 {
	return clampDelay(uint64(ms) * TimerFreq / 1000)
}

// TimerToUS converts ticks to microseconds.
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

func clampDelay(ticks uint64) uint32 {
	if ticks > MaxTimerDelay {
		return MaxTimerDelay
	}
	return uint32(ticks)
}

// ProcessTimers latches the current time and runs every due timer.
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
