package core

import (
	"testing"

	"pwmtone/tone"
)

func TestAlarmFiresAfterDelay(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(4)

	fired := 0
	if id := p.AddAlarm(5, func() { fired++ }); id == 0 {
		t.Fatal("AddAlarm returned 0")
	}
	advanceMS(4)
	if fired != 0 {
		t.Fatal("alarm fired early")
	}
	advanceMS(1)
	if fired != 1 || p.Pending() != 0 {
		t.Errorf("fired=%d pending=%d after 5 ms", fired, p.Pending())
	}
}

func TestAlarmCancel(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(4)

	fired := false
	id := p.AddAlarm(5, func() { fired = true })
	if !p.CancelAlarm(id) {
		t.Fatal("CancelAlarm of a pending alarm returned false")
	}
	if p.CancelAlarm(id) {
		t.Error("second CancelAlarm returned true")
	}
	advanceMS(10)
	if fired {
		t.Error("cancelled alarm fired")
	}
	if TimerPending() != 0 {
		t.Errorf("%d timers left queued", TimerPending())
	}
}

func TestStaleAlarmIDDoesNotCancelReusedSlot(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(1)

	first := p.AddAlarm(5, func() {})
	p.CancelAlarm(first)

	fired := false
	second := p.AddAlarm(5, func() { fired = true })
	if second == first {
		t.Fatal("reused slot handed out the same ID")
	}
	if p.CancelAlarm(first) {
		t.Error("stale ID cancelled the new alarm")
	}
	advanceMS(5)
	if !fired {
		t.Error("new alarm did not fire")
	}
	if p.CancelAlarm(second) {
		t.Error("CancelAlarm after firing returned true")
	}
}

func TestAlarmPoolExhausted(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(2)

	p.AddAlarm(1, func() {})
	p.AddAlarm(1, func() {})
	if id := p.AddAlarm(1, func() {}); id != 0 {
		t.Errorf("full pool issued ID %d", id)
	}
	if p.CancelAlarm(0) {
		t.Error("CancelAlarm(0) returned true")
	}
	for _, bogus := range []tone.AlarmID{3, 0xFFFFFFFF} {
		if p.CancelAlarm(bogus) {
			t.Errorf("CancelAlarm(%d) returned true", bogus)
		}
	}
}

func TestZeroDelayAlarmWaitsForNextDispatch(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(2)

	fired := 0
	var rearm func()
	rearm = func() {
		fired++
		p.AddAlarm(0, rearm)
	}
	p.AddAlarm(0, rearm)

	ProcessTimers()
	if fired != 0 {
		t.Fatalf("zero-delay alarm fired in the dispatch that armed it (%d times)", fired)
	}
	advanceMS(1)
	if fired != 1 {
		t.Errorf("fired %d times in one dispatch, want 1", fired)
	}
	if p.Pending() != 1 {
		t.Errorf("pending = %d, want the re-armed alarm", p.Pending())
	}
}

func TestAlarmCallbackCanRearm(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(1)

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			p.AddAlarm(10, tick)
		}
	}
	p.AddAlarm(10, tick)

	advanceMS(100)
	if count != 3 {
		t.Errorf("callback ran %d times, want 3", count)
	}
}

func TestAlarmCancelAll(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(3)

	fired := 0
	for i := 0; i < 3; i++ {
		p.AddAlarm(uint32(i+1), func() { fired++ })
	}
	p.CancelAll()
	advanceMS(5)
	if fired != 0 || p.Pending() != 0 || TimerPending() != 0 {
		t.Errorf("fired=%d pending=%d queued=%d", fired, p.Pending(), TimerPending())
	}
}

// countingOutput counts enables per output.
type countingOutput struct {
	on  bool
	ons int
}

func (o *countingOutput) Enable() { o.on = true; o.ons++ }
func (o *countingOutput) Disable() { o.on = false }
func (o *countingOutput) SetFrequency(float32) {}

func TestGeneratorsShareAlarmPool(t *testing.T) {
	resetScheduler(t)
	p := NewAlarmPool(6)
	cfg := tone.NewPlaybackConfig()

	outA, outB := &countingOutput{}, &countingOutput{}
	a := tone.New(outA, p, tone.WithConfig(cfg))
	b := tone.New(outB, p, tone.WithConfig(cfg))

	// an eighth note at 120 bpm plus the 10 ms rest is 260 ms
	m := tone.Melody{{Pitch: tone.Hz(440), Measure: 8}, {Pitch: tone.End}}
	if err := a.PlayMelody(m, tone.RepeatForever); err != nil {
		t.Fatal(err)
	}
	if err := b.PlayMelody(m, tone.RepeatForever); err != nil {
		t.Fatal(err)
	}
	advanceMS(100)
	a.StopMelody()

	outB.ons = 0
	advanceMS(2600)
	if a.IsPlaying() || outA.on {
		t.Error("stopped generator is sounding")
	}
	if outB.ons != 10 {
		t.Errorf("generator B started %d notes in 2600 ms, want 10", outB.ons)
	}
	if p.Pending() != 1 {
		t.Errorf("%d alarms pending, want 1", p.Pending())
	}
}
