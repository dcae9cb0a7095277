package tone

import "sort"

// fakeTimers is a manual clock. Alarms fire only from Advance.
type fakeTimers struct {
	now    uint32
	nextID AlarmID
	seq    uint64
	alarms map[AlarmID]*fakeAlarm
}

type fakeAlarm struct {
	at  uint32
	seq uint64
	fn  func()
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{alarms: make(map[AlarmID]*fakeAlarm)}
}

func (f *fakeTimers) AddAlarm(delayMs uint32, fn func()) AlarmID {
	f.nextID++
	f.seq++
	f.alarms[f.nextID] = &fakeAlarm{at: f.now + delayMs, seq: f.seq, fn: fn}
	return f.nextID
}

func (f *fakeTimers) CancelAlarm(id AlarmID) bool {
	if _, ok := f.alarms[id]; !ok {
		return false
	}
	delete(f.alarms, id)
	return true
}

func (f *fakeTimers) Pending() int {
	return len(f.alarms)
}

// Advance moves the clock forward by ms, firing due alarms in order.
func (f *fakeTimers) Advance(ms uint32) {
	target := f.now + ms
	for {
		id, a := f.earliest()
		if a == nil || a.at > target {
			break
		}
		delete(f.alarms, id)
		f.now = a.at
		a.fn()
	}
	f.now = target
}

func (f *fakeTimers) earliest() (AlarmID, *fakeAlarm) {
	ids := make([]AlarmID, 0, len(f.alarms))
	for id := range f.alarms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.alarms[ids[i]], f.alarms[ids[j]]
		if a.at != b.at {
			return a.at < b.at
		}
		return a.seq < b.seq
	})
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], f.alarms[ids[0]]
}

type outEvent struct {
	at   uint32
	kind string // "on", "off", "freq"
	hz   float32
}

// fakeOutput records every call with the fake clock's time.
type fakeOutput struct {
	clock   *fakeTimers
	enabled bool
	hz      float32
	events  []outEvent
}

func newFakeOutput(clock *fakeTimers) *fakeOutput {
	return &fakeOutput{clock: clock}
}

func (o *fakeOutput) Enable() {
	o.enabled = true
	o.events = append(o.events, outEvent{at: o.clock.now, kind: "on", hz: o.hz})
}

func (o *fakeOutput) Disable() {
	o.enabled = false
	o.events = append(o.events, outEvent{at: o.clock.now, kind: "off"})
}

func (o *fakeOutput) SetFrequency(hz float32) {
	o.hz = hz
	o.events = append(o.events, outEvent{at: o.clock.now, kind: "freq", hz: hz})
}

// ons returns the Enable events.
func (o *fakeOutput) ons() []outEvent {
	var out []outEvent
	for _, e := range o.events {
		if e.kind == "on" {
			out = append(out, e)
		}
	}
	return out
}

func (o *fakeOutput) reset() {
	o.events = nil
}
