package core

// Timer is an entry in the timer list. The list is kept sorted by WakeTime
// and dispatched from the main loop.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
	queued   bool
}

// Handler results.
const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// timerBefore compares tick counts across a wrap of the 32-bit counter.
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleTimer inserts t into the timer list, moving it if it is already
// queued.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if t.queued {
		unlinkTimer(t)
	}
	insertTimer(t)
}

// RemoveTimer takes t off the list. It reports whether t was queued.
func RemoveTimer(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if !t.queued {
		return false
	}
	unlinkTimer(t)
	return true
}

// insertTimer places t after every timer due at or before it, so timers
// with equal wake times fire in the order they were scheduled.
func insertTimer(t *Timer) {
	t.queued = true
	if timerList == nil || timerBefore(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}
	cur := timerList
	for cur.Next != nil && !timerBefore(t.WakeTime, cur.Next.WakeTime) {
		cur = cur.Next
	}
	t.Next = cur.Next
	cur.Next = t
}

func unlinkTimer(t *Timer) {
	for p := &timerList; *p != nil; p = &(*p).Next {
		if *p == t {
			*p = t.Next
			break
		}
	}
	t.Next = nil
	t.queued = false
}

// TimerDispatch runs every timer due at currentTime. Handlers run with
// interrupts enabled and may schedule or remove timers, including
// themselves.
func TimerDispatch() {
	for {
		state := disableInterrupts()
		t := timerList
		if t == nil || timerBefore(currentTime, t.WakeTime) {
			restoreInterrupts(state)
			return
		}
		timerList = t.Next
		t.Next = nil
		t.queued = false
		restoreInterrupts(state)

		if t.Handler(t) == SF_RESCHEDULE {
			ScheduleTimer(t)
		}
	}
}

// TimerPending returns the number of queued timers.
func TimerPending() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	n := 0
	for t := timerList; t != nil; t = t.Next {
		n++
	}
	return n
}
