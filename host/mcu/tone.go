package mcu

import (
	"errors"
	"fmt"

	"pwmtone/melodies"
	"pwmtone/tone"
)

// ErrMelodyTooLong is returned when a melody does not fit the firmware's
// upload buffer.
var ErrMelodyTooLong = errors.New("melody longer than the firmware buffer")

// Status is a decoded tone_status response.
type Status struct {
	OID     uint8
	Playing bool
	State   tone.State
}

// milliHz converts a frequency to the wire unit. Rests and the terminator
// become 0.
func milliHz(hz float32) int32 {
	if hz <= 0 {
		return 0
	}
	return int32(hz*1000 + 0.5)
}

// ConfigTone binds oid to pin. Reconfiguring an oid stops what it plays.
func (m *MCU) ConfigTone(oid uint8, pin uint32) error {
	return m.Send("config_tone", int32(oid), int32(pin))
}

func (m *MCU) PlayTone(oid uint8, hz float32, durationMs uint32) error {
	return m.Send("tone", int32(oid), milliHz(hz), int32(durationMs))
}

// PlayMelody starts a preset. A negative repeat plays forever.
func (m *MCU) PlayMelody(oid uint8, id melodies.ID, repeat int) error {
	return m.Send("melody", int32(oid), int32(id), int32(repeat))
}

// UploadMelody writes mel into the oid's melody buffer, one note per
// command. It does not start playback; see PlayUploaded.
func (m *MCU) UploadMelody(oid uint8, mel tone.Melody) error {
	if m.dictionary == nil {
		return ErrNoDictionary
	}
	if err := mel.Validate(); err != nil {
		return err
	}
	n := mel.Len()
	size, bounded := m.dictionary.ConfigInt("MELODY_BUFFER_SIZE")
	if bounded && n > size {
		return fmt.Errorf("%w: %d notes, room for %d", ErrMelodyTooLong, n, size)
	}

	for i, note := range mel[:n] {
		err := m.Send("melody_load", int32(oid), int32(i), milliHz(note.Pitch.Frequency()), int32(note.Measure))
		if err != nil {
			return fmt.Errorf("note %d: %w", i, err)
		}
	}
	if !bounded || n < size {
		// a zero measure marks the end
		return m.Send("melody_load", int32(oid), int32(n), 0, 0)
	}
	return nil
}

// PlayUploaded plays the melody last written with UploadMelody.
func (m *MCU) PlayUploaded(oid uint8, repeat int) error {
	return m.Send("melody_play", int32(oid), int32(repeat))
}

func (m *MCU) StopTone(oid uint8) error {
	return m.Send("stop_tone", int32(oid))
}

func (m *MCU) StopMelody(oid uint8) error {
	return m.Send("stop_melody", int32(oid))
}

// SetTempo changes the tempo of every output. Zero is rejected here since
// the firmware would drop it silently.
func (m *MCU) SetTempo(bpm uint16) error {
	if bpm == 0 {
		return tone.ErrInvalidTempo
	}
	return m.Send("set_tempo", int32(bpm))
}

func (m *MCU) SetRestDuration(ms uint16) error {
	return m.Send("set_rest_duration", int32(ms))
}

// Status asks the firmware what oid is doing. An unconfigured oid gets no
// response, so the call times out.
func (m *MCU) Status(oid uint8) (Status, error) {
	v, err := m.Query("get_tone_status", "tone_status", int32(oid))
	if err != nil {
		return Status{}, err
	}
	return Status{
		OID:     uint8(v.Uint("oid")),
		Playing: v.Uint("playing") != 0,
		State:   tone.State(v.Uint("state")),
	}, nil
}

// Clock returns the firmware's timer in ticks.
func (m *MCU) Clock() (uint32, error) {
	v, err := m.Query("get_clock", "clock")
	if err != nil {
		return 0, err
	}
	return v.Uint("clock"), nil
}

// Shutdown reports whether the firmware is in emergency stop.
func (m *MCU) Shutdown() (bool, error) {
	v, err := m.Query("get_config", "config")
	if err != nil {
		return false, err
	}
	return v.Uint("is_shutdown") != 0, nil
}

func (m *MCU) EmergencyStop() error {
	return m.Send("emergency_stop")
}

func (m *MCU) ClearShutdown() error {
	return m.Send("clear_shutdown")
}
