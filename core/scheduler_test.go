package core

import "testing"

// resetScheduler empties the timer list and rewinds the clock.
func resetScheduler(t *testing.T) {
	t.Helper()
	reset := func() {
		for tm := timerList; tm != nil; {
			next := tm.Next
			tm.Next, tm.queued = nil, false
			tm = next
		}
		timerList = nil
		currentTime = 0
		SetTime(0)
	}
	reset()
	t.Cleanup(reset)
}

// advanceMS moves the clock forward one millisecond at a time, dispatching
// timers after every step the way the main loop would.
func advanceMS(ms int) {
	for i := 0; i < ms; i++ {
		SetTime(GetTime() + TimerFromMS(1))
		ProcessTimers()
	}
}

func recordingTimer(wake uint32, name string, log *[]string) *Timer {
	return &Timer{
		WakeTime: wake,
		Handler: func(*Timer) uint8 {
			*log = append(*log, name)
			return SF_DONE
		},
	}
}

func TestTimersFireInWakeOrder(t *testing.T) {
	resetScheduler(t)
	var log []string

	ScheduleTimer(recordingTimer(30, "c", &log))
	ScheduleTimer(recordingTimer(10, "a1", &log))
	ScheduleTimer(recordingTimer(20, "b", &log))
	ScheduleTimer(recordingTimer(10, "a2", &log))

	SetTime(15)
	ProcessTimers()
	if len(log) != 2 || log[0] != "a1" || log[1] != "a2" {
		t.Fatalf("fired %v at 15, want [a1 a2]", log)
	}

	SetTime(30)
	ProcessTimers()
	if len(log) != 4 || log[2] != "b" || log[3] != "c" {
		t.Errorf("fired %v, want [a1 a2 b c]", log)
	}
	if TimerPending() != 0 {
		t.Errorf("%d timers left", TimerPending())
	}
}

func TestTimerOrderAcrossWrap(t *testing.T) {
	resetScheduler(t)
	var log []string

	SetTime(0xFFFFFF00)
	ScheduleTimer(recordingTimer(0x10, "after", &log))
	ScheduleTimer(recordingTimer(0xFFFFFFF0, "before", &log))

	SetTime(0xFFFFFFF5)
	ProcessTimers()
	if len(log) != 1 || log[0] != "before" {
		t.Fatalf("fired %v before the wrap", log)
	}

	SetTime(0x20)
	ProcessTimers()
	if len(log) != 2 || log[1] != "after" {
		t.Errorf("fired %v after the wrap", log)
	}
}

func TestRemoveTimer(t *testing.T) {
	resetScheduler(t)
	var log []string

	a := recordingTimer(10, "a", &log)
	b := recordingTimer(20, "b", &log)
	ScheduleTimer(a)
	ScheduleTimer(b)

	if !RemoveTimer(a) {
		t.Fatal("RemoveTimer of a queued timer returned false")
	}
	if RemoveTimer(a) {
		t.Error("second RemoveTimer returned true")
	}

	SetTime(100)
	ProcessTimers()
	if len(log) != 1 || log[0] != "b" {
		t.Errorf("fired %v, want [b]", log)
	}
}

func TestScheduleTimerMovesQueuedTimer(t *testing.T) {
	resetScheduler(t)
	var log []string

	a := recordingTimer(100, "a", &log)
	ScheduleTimer(a)
	a.WakeTime = 50
	ScheduleTimer(a)
	if TimerPending() != 1 {
		t.Fatalf("%d timers queued, want 1", TimerPending())
	}

	SetTime(60)
	ProcessTimers()
	if len(log) != 1 {
		t.Errorf("fired %v at 60", log)
	}
}

func TestTimerReschedule(t *testing.T) {
	resetScheduler(t)
	runs := 0
	tm := &Timer{WakeTime: 10}
	tm.Handler = func(t *Timer) uint8 {
		runs++
		if runs == 3 {
			return SF_DONE
		}
		t.WakeTime += 10
		return SF_RESCHEDULE
	}
	ScheduleTimer(tm)

	for now := uint32(10); now <= 50; now += 10 {
		SetTime(now)
		ProcessTimers()
	}
	if runs != 3 {
		t.Errorf("handler ran %d times, want 3", runs)
	}
}

func TestHandlerMaySchedule(t *testing.T) {
	resetScheduler(t)
	var log []string

	late := recordingTimer(40, "late", &log)
	ScheduleTimer(&Timer{
		WakeTime: 10,
		Handler: func(*Timer) uint8 {
			log = append(log, "first")
			ScheduleTimer(recordingTimer(20, "due", &log))
			RemoveTimer(late)
			return SF_DONE
		},
	})
	ScheduleTimer(late)

	SetTime(30)
	ProcessTimers()
	SetTime(50)
	ProcessTimers()
	if len(log) != 2 || log[1] != "due" {
		t.Errorf("fired %v, want [first due]", log)
	}
}

func TestTimerConversions(t *testing.T) {
	if got := TimerFromMS(5); got != 5000 {
		t.Errorf("TimerFromMS(5) = %d", got)
	}
	if got := TimerFromMS(0xFFFFFFFF); got != MaxTimerDelay {
		t.Errorf("TimerFromMS(max) = %d, want %d", got, MaxTimerDelay)
	}
	if got := TimerToUS(TimerFromUS(1234)); got != 1234 {
		t.Errorf("us round trip = %d", got)
	}
}
