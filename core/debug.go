package core

import "strconv"

// DebugWriter receives debug lines. Targets point it at a UART or USB.
type DebugWriter func(string)

// TimingEvent is one entry of the timing ring.
type TimingEvent struct {
	EventType uint8
	OID       uint8
	Clock     uint32
	Value1    uint32
	Value2    uint32
}

// Event types recorded by the alarm pool and tone outputs.
const (
	EvtAlarmArm    = 1 // Value1 delay ms, Value2 alarm ID
	EvtAlarmFire   = 2 // Value2 alarm ID
	EvtAlarmCancel = 3 // Value2 alarm ID
	EvtToneOn      = 4 // Value1 pin, Value2 frequency in mHz
	EvtToneOff     = 5 // Value1 pin
	EvtAlarmFull   = 6
)

const TimingRingSize = 32

var (
	debugPrintln DebugWriter = func(string) {}
	debugEnabled bool

	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true
)

func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes msg when debugging is enabled.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming stores an event in the ring, overwriting the oldest.
func RecordTiming(eventType, oid uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	timingRing[timingRingHead] = TimingEvent{
		EventType: eventType,
		OID:       oid,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (timingRingHead + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first.
func TimingEvents() []TimingEvent {
	out := make([]TimingEvent, 0, TimingRingSize)
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(timingRingHead+i)%TimingRingSize]
		if evt.EventType != 0 {
			out = append(out, evt)
		}
	}
	return out
}

func eventName(t uint8) string {
	switch t {
	case EvtAlarmArm:
		return "ALARM_ARM"
	case EvtAlarmFire:
		return "ALARM_FIRE"
	case EvtAlarmCancel:
		return "ALARM_CANCEL"
	case EvtToneOn:
		return "TONE_ON"
	case EvtToneOff:
		return "TONE_OFF"
	case EvtAlarmFull:
		return "ALARM_FULL!"
	}
	return "UNKNOWN"
}

// DumpTimingRing writes the ring through the debug writer regardless of
// whether debugging is enabled. Call it after a fault.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[TIMING] === dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" oid=" + strconv.Itoa(int(evt.OID)) +
			" clock=" + strconv.FormatUint(uint64(evt.Clock), 10) +
			" v1=" + strconv.FormatUint(uint64(evt.Value1), 10) +
			" v2=" + strconv.FormatUint(uint64(evt.Value2), 10))
	}
	debugPrintln("[TIMING] === end ===")
}

func ClearTimingRing() {
	timingRing = [TimingRingSize]TimingEvent{}
	timingRingHead = 0
}
