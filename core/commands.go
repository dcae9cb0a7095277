package core

import (
	"errors"
	"sync/atomic"

	"pwmtone/protocol"
)

var ErrShutdown = errors.New("firmware is shut down")

var (
	isShutdown   uint32 // atomic bool
	resetPending uint32 // atomic bool

	resetHandler    func()
	globalTransport *protocol.Transport
)

// InitCoreCommands registers the protocol bootstrap messages and the clock
// and shutdown commands. identify_response and identify must be the first
// two entries: the host looks them up by ID before it has a dictionary.
func InitCoreCommands() {
	RegisterResponse("identify_response", "offset=%u data=%*s")
	RegisterCommand("identify", "offset=%u count=%c", handleIdentify)

	RegisterCommand("get_clock", "", handleGetClock)
	RegisterCommand("get_config", "", handleGetConfig)
	RegisterCommand("emergency_stop", "", handleEmergencyStop)
	RegisterCommand("clear_shutdown", "", handleClearShutdown)
	RegisterCommand("reset", "", handleReset)

	RegisterResponse("clock", "clock=%u")
	RegisterResponse("config", "is_shutdown=%c tone_oids=%c melody_buffer=%hu")
	RegisterResponse("shutdown", "clock=%u")
}

func handleIdentify(data *[]byte) error {
	offset, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	count, err := protocol.DecodeUint(data)
	if err != nil {
		return err
	}
	chunk := GetGlobalDictionary().GetChunk(offset, uint8(count))
	SendResponse("identify_response", func(out protocol.Sink) {
		protocol.EncodeUint(out, offset)
		protocol.EncodeBytes(out, chunk)
	})
	return nil
}

func handleGetClock(*[]byte) error {
	now := GetTime()
	SendResponse("clock", func(out protocol.Sink) {
		protocol.EncodeUint(out, now)
	})
	return nil
}

func handleGetConfig(*[]byte) error {
	SendResponse("config", func(out protocol.Sink) {
		protocol.EncodeUint(out, boolArg(IsShutdown()))
		protocol.EncodeUint(out, MaxToneOIDs)
		protocol.EncodeUint(out, MelodyBufferSize)
	})
	return nil
}

func handleEmergencyStop(*[]byte) error {
	TryShutdown()
	return nil
}

func handleClearShutdown(*[]byte) error {
	atomic.StoreUint32(&isShutdown, 0)
	return nil
}

// handleReset only flags the reset; the main loop performs it once the
// acknowledgement has gone out.
func handleReset(*[]byte) error {
	atomic.StoreUint32(&resetPending, 1)
	return nil
}

// TryShutdown silences every tone output and refuses further playback until
// the shutdown is cleared.
func TryShutdown() {
	if atomic.SwapUint32(&isShutdown, 1) == 1 {
		return
	}
	StopAllTones()
	SendResponse("shutdown", func(out protocol.Sink) {
		protocol.EncodeUint(out, GetTime())
	})
}

func IsShutdown() bool {
	return atomic.LoadUint32(&isShutdown) != 0
}

// ResetFirmwareState clears the shutdown flag. Targets call it when the host
// reconnects.
func ResetFirmwareState() {
	atomic.StoreUint32(&isShutdown, 0)
	atomic.StoreUint32(&resetPending, 0)
}

func SetResetHandler(fn func()) {
	resetHandler = fn
}

// CheckPendingReset runs the reset handler if a reset was requested. Call
// it after the output has been flushed.
func CheckPendingReset() {
	if atomic.LoadUint32(&resetPending) != 0 && resetHandler != nil {
		resetHandler()
	}
}

func SetGlobalTransport(t *protocol.Transport) {
	globalTransport = t
}

// SendResponse frames a registered response on the global transport. It
// panics if name was never registered, which is a firmware bug.
func SendResponse(name string, args func(protocol.Sink)) {
	if globalTransport == nil {
		return
	}
	c, ok := globalRegistry.LookupName(name)
	if !ok {
		panic("response not registered: " + name)
	}
	if err := globalTransport.Send(c.ID, args); err != nil {
		DebugPrintln("[resp] " + name + ": " + err.Error())
	}
}

func boolArg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
