package core

import (
	"errors"

	"pwmtone/melodies"
	"pwmtone/protocol"
	"pwmtone/tone"
)

const (
	// MaxToneOIDs is the number of independent tone outputs.
	MaxToneOIDs = 8
	// MelodyBufferSize is the number of notes a host can upload per oid.
	MelodyBufferSize = 128
)

var (
	ErrBadOID         = errors.New("tone oid out of range")
	ErrNotConfigured  = errors.New("tone oid not configured")
	ErrUnknownMelody  = errors.New("unknown melody id")
	ErrMelodyOverflow = errors.New("melody buffer full")
	ErrBadMeasure     = errors.New("note measure out of range")
)

// toneChannel is one configured output. Uploaded notes go to upload;
// melody_play copies them to playing so a new upload never disturbs the
// melody being played.
type toneChannel struct {
	out     *PinOutput
	gen     *tone.Generator
	upload  [MelodyBufferSize]tone.Note
	loaded  int
	playing [MelodyBufferSize]tone.Note
}

var (
	toneChannels [MaxToneOIDs]*toneChannel
	// A generator has at most one alarm pending. The spare slots serve
	// generators outside the oid table, such as the firmware demo.
	toneAlarms = NewAlarmPool(MaxToneOIDs + 2)
)

// InitToneCommands registers the tone and melody commands.
func InitToneCommands() {
	RegisterCommand("config_tone", "oid=%c pin=%u", handleConfigTone)
	RegisterCommand("tone", "oid=%c freq=%u duration=%u", handleTone)
	RegisterCommand("melody", "oid=%c id=%c repeat=%i", handleMelody)
	RegisterCommand("melody_load", "oid=%c index=%hu freq=%u measure=%i", handleMelodyLoad)
	RegisterCommand("melody_play", "oid=%c repeat=%i", handleMelodyPlay)
	RegisterCommand("stop_tone", "oid=%c", handleStopTone)
	RegisterCommand("stop_melody", "oid=%c", handleStopMelody)
	RegisterCommand("set_tempo", "bpm=%hu", handleSetTempo)
	RegisterCommand("set_rest_duration", "duration=%hu", handleSetRestDuration)
	RegisterCommand("get_tone_status", "oid=%c", handleGetToneStatus)

	RegisterResponse("tone_status", "oid=%c playing=%c state=%c")

	RegisterConstant("TONE_OIDS", MaxToneOIDs)
	RegisterConstant("MELODY_BUFFER_SIZE", MelodyBufferSize)
	RegisterConstant("TONE_MIN_MHZ", int(tone.MinFrequency*1000))
	RegisterConstant("TONE_MAX_MHZ", int(tone.MaxFrequency*1000))
	RegisterConstant("MELODY_COUNT", len(melodies.All()))
}

// decodeArgs reads n unsigned VLQs.
func decodeArgs(data *[]byte, n int) ([4]uint32, error) {
	var args [4]uint32
	for i := 0; i < n; i++ {
		v, err := protocol.DecodeUint(data)
		if err != nil {
			return args, err
		}
		args[i] = v
	}
	return args, nil
}

func channel(oid uint32) (*toneChannel, error) {
	if oid >= MaxToneOIDs {
		return nil, ErrBadOID
	}
	ch := toneChannels[oid]
	if ch == nil {
		return nil, ErrNotConfigured
	}
	return ch, nil
}

// playableChannel is channel with the shutdown check playback commands need.
func playableChannel(oid uint32) (*toneChannel, error) {
	if IsShutdown() {
		return nil, ErrShutdown
	}
	return channel(oid)
}

func handleConfigTone(data *[]byte) error {
	a, err := decodeArgs(data, 2)
	if err != nil {
		return err
	}
	oid, pin := a[0], TonePin(a[1])
	if oid >= MaxToneOIDs {
		return ErrBadOID
	}
	if old := toneChannels[oid]; old != nil {
		old.gen.StopMelody()
		toneChannels[oid] = nil
		if old.out.Pin() != pin {
			if err := MustTone().ReleaseTone(old.out.Pin()); err != nil {
				return err
			}
		}
	}
	out, err := NewPinOutput(MustTone(), uint8(oid), pin)
	if err != nil {
		return err
	}
	toneChannels[oid] = &toneChannel{
		out: out,
		gen: tone.New(out, toneAlarms),
	}
	return nil
}

func handleTone(data *[]byte) error {
	a, err := decodeArgs(data, 3)
	if err != nil {
		return err
	}
	ch, err := playableChannel(a[0])
	if err != nil {
		return err
	}
	ch.gen.PlayTone(float32(a[1])/1000, a[2])
	return nil
}

func decodeRepeat(data *[]byte) (int, error) {
	r, err := protocol.DecodeInt(data)
	if err != nil {
		return 0, err
	}
	if r < 0 {
		return tone.RepeatForever, nil
	}
	return int(r), nil
}

func handleMelody(data *[]byte) error {
	a, err := decodeArgs(data, 2)
	if err != nil {
		return err
	}
	repeat, err := decodeRepeat(data)
	if err != nil {
		return err
	}
	ch, err := playableChannel(a[0])
	if err != nil {
		return err
	}
	if a[1] > 0xFF {
		return ErrUnknownMelody
	}
	p, ok := melodies.ByID(melodies.ID(a[1]))
	if !ok {
		return ErrUnknownMelody
	}
	return ch.gen.PlayMelody(p.Melody, repeat)
}

// handleMelodyLoad stores one note of an uploaded melody. Writing index 0
// starts a new melody. A zero frequency is a rest and a zero measure ends
// the melody.
func handleMelodyLoad(data *[]byte) error {
	a, err := decodeArgs(data, 3)
	if err != nil {
		return err
	}
	measure, err := protocol.DecodeInt(data)
	if err != nil {
		return err
	}
	ch, err := channel(a[0])
	if err != nil {
		return err
	}
	index := int(a[1])
	if index >= MelodyBufferSize || index > ch.loaded {
		return ErrMelodyOverflow
	}
	if measure < -0x8000 || measure > 0x7FFF {
		return ErrBadMeasure
	}

	n := tone.Note{Pitch: tone.Hz(float32(a[2]) / 1000), Measure: int16(measure)}
	if measure == 0 {
		n = tone.Note{Pitch: tone.End}
	}
	ch.upload[index] = n
	ch.loaded = index + 1
	return nil
}

func handleMelodyPlay(data *[]byte) error {
	oid, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	repeat, err := decodeRepeat(data)
	if err != nil {
		return err
	}
	ch, err := playableChannel(oid)
	if err != nil {
		return err
	}
	m := tone.Melody(ch.upload[:ch.loaded])
	if err := m.Validate(); err != nil {
		return err
	}
	copy(ch.playing[:], ch.upload[:ch.loaded])
	return ch.gen.PlayMelody(tone.Melody(ch.playing[:ch.loaded]), repeat)
}

func handleStopTone(data *[]byte) error {
	oid, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	ch, err := channel(oid)
	if err != nil {
		return err
	}
	ch.gen.StopTone()
	return nil
}

func handleStopMelody(data *[]byte) error {
	oid, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	ch, err := channel(oid)
	if err != nil {
		return err
	}
	ch.gen.StopMelody()
	return nil
}

func handleSetTempo(data *[]byte) error {
	bpm, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	if bpm > 0xFFFF {
		return tone.ErrInvalidTempo
	}
	return tone.SetTempo(uint16(bpm))
}

func handleSetRestDuration(data *[]byte) error {
	ms, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	if ms > 0xFFFF {
		ms = 0xFFFF
	}
	tone.SetRestDuration(uint16(ms))
	return nil
}

func handleGetToneStatus(data *[]byte) error {
	oid, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	ch, err := channel(oid)
	if err != nil {
		return err
	}
	SendResponse("tone_status", func(out protocol.Sink) {
		protocol.EncodeUint(out, oid)
		protocol.EncodeUint(out, boolArg(ch.gen.IsPlaying()))
		protocol.EncodeUint(out, uint32(ch.gen.State()))
	})
	return nil
}

// StopAllTones silences every configured output.
func StopAllTones() {
	for _, ch := range toneChannels {
		if ch != nil {
			ch.gen.StopMelody()
		}
	}
}

// ToneAlarms exposes the alarm pool shared by the tone generators.
func ToneAlarms() *AlarmPool {
	return toneAlarms
}
