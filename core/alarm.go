package core

import "pwmtone/tone"

// alarmIndexBits is the width of the slot number inside an alarm ID. The
// bits above it hold the slot's generation.
const alarmIndexBits = 8

// MaxAlarmSlots is the largest pool NewAlarmPool accepts.
const MaxAlarmSlots = 1<<alarmIndexBits - 1

// AlarmPool hands out one-shot millisecond alarms on the timer list. It
// implements tone.TimerFacility.
//
// Every slot counts how often it has been released. An alarm ID packs the
// slot number with that count, so an ID kept after its alarm fired or was
// cancelled never matches whatever the slot holds next.
type AlarmPool struct {
	slots []alarmSlot
}

type alarmSlot struct {
	timer Timer
	gen   uint32
	armed bool
	fn    func()
}

// NewAlarmPool returns a pool with room for size pending alarms.
func NewAlarmPool(size int) *AlarmPool {
	if size <= 0 || size > MaxAlarmSlots {
		panic("alarm pool size out of range")
	}
	p := &AlarmPool{slots: make([]alarmSlot, size)}
	for i := range p.slots {
		idx := i
		p.slots[i].timer.Handler = func(*Timer) uint8 {
			p.fire(idx)
			return SF_DONE
		}
	}
	return p
}

func (p *AlarmPool) id(i int) tone.AlarmID {
	return tone.AlarmID(p.slots[i].gen<<alarmIndexBits | uint32(i+1))
}

// AddAlarm arms fn to run delayMs from now. It returns 0 when every slot is
// in use. The alarm is at least one tick away, so a zero delay armed from a
// callback runs on the next dispatch instead of the current one.
func (p *AlarmPool) AddAlarm(delayMs uint32, fn func()) tone.AlarmID {
	now := GetTime()
	delay := TimerFromMS(delayMs)
	if delay == 0 {
		delay = 1
	}
	for i := range p.slots {
		s := &p.slots[i]
		if s.armed {
			continue
		}
		s.armed = true
		s.fn = fn
		s.timer.WakeTime = now + delay
		ScheduleTimer(&s.timer)
		id := p.id(i)
		RecordTiming(EvtAlarmArm, uint8(i), now, delayMs, uint32(id))
		return id
	}
	RecordTiming(EvtAlarmFull, 0, now, delayMs, 0)
	DebugPrintln("[alarm] pool exhausted")
	return 0
}

// CancelAlarm disarms a pending alarm. It reports false for IDs that already
// fired, were cancelled, or were never issued.
func (p *AlarmPool) CancelAlarm(id tone.AlarmID) bool {
	i := int(uint32(id)&MaxAlarmSlots) - 1
	if i < 0 || i >= len(p.slots) {
		return false
	}
	s := &p.slots[i]
	if !s.armed || p.id(i) != id {
		return false
	}
	RemoveTimer(&s.timer)
	p.release(i)
	RecordTiming(EvtAlarmCancel, uint8(i), GetTime(), 0, uint32(id))
	return true
}

func (p *AlarmPool) release(i int) {
	s := &p.slots[i]
	s.armed = false
	s.fn = nil
	s.gen++
}

// fire releases the slot before running the callback so the callback can
// arm a new alarm in it.
func (p *AlarmPool) fire(i int) {
	s := &p.slots[i]
	if !s.armed {
		return
	}
	fn, id := s.fn, p.id(i)
	p.release(i)
	RecordTiming(EvtAlarmFire, uint8(i), GetTime(), 0, uint32(id))
	fn()
}

// Pending returns the number of armed alarms.
func (p *AlarmPool) Pending() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].armed {
			n++
		}
	}
	return n
}

// CancelAll disarms every alarm in the pool.
func (p *AlarmPool) CancelAll() {
	for i := range p.slots {
		if p.slots[i].armed {
			RemoveTimer(&p.slots[i].timer)
			p.release(i)
		}
	}
}

var _ tone.TimerFacility = (*AlarmPool)(nil)
