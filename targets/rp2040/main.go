//go:build rp2040

package main

import (
	"machine"
	"strconv"
	"time"

	"pwmtone/core"
	"pwmtone/protocol"
)

var (
	inputBuffer  *protocol.Ring
	outputBuffer *protocol.Scratch
	transport    *protocol.Transport

	msgErrors uint32

	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// Clear any watchdog state left over from a previous reset.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	mode := GetMode()

	InitUSB()
	InitClock()

	core.InitCoreCommands()
	core.InitToneCommands()
	registerPins()

	drv, err := newToneDriver(mode.Backend)
	if err != nil {
		// Fall back to PWM slices if the PIO blocks cannot be set up.
		drv = NewPWMToneDriver()
	}
	core.SetToneDriver(drv)

	core.GetGlobalDictionary().BuildDictionary()

	if mode.Demo {
		runDemo(drv, mode)
		return
	}

	inputBuffer = protocol.NewRing(256)
	outputBuffer = protocol.NewScratch()

	transport = protocol.NewTransport(outputBuffer, core.DispatchCommand)
	transport.OnReset(func() {
		inputBuffer.Reset()
		outputBuffer.Reset()
		core.StopAllTones()
		core.ResetFirmwareState()
	})
	// Acks must reach the host before any later response.
	transport.OnFlush(writeUSB)
	transport.OnError(func(cmdID uint16, err error) {
		msgErrors++
		core.DebugPrintln("[cmd] " + strconv.Itoa(int(cmdID)) + ": " + err.Error())
	})
	core.SetGlobalTransport(transport)

	core.SetResetHandler(func() {
		core.StopAllTones()
		// A watchdog reset re-enumerates USB more reliably than SYSRESETREQ.
		if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err != nil {
			return
		}
		if err := machine.Watchdog.Start(); err != nil {
			return
		}
		for {
			time.Sleep(time.Millisecond)
		}
	})

	go usbReaderLoop()

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgErrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			UpdateSystemTime()

			if inputBuffer.Available() > 0 {
				data := inputBuffer.Data()
				in := protocol.NewSliceInput(data)
				transport.Receive(in)
				if consumed := len(data) - in.Available(); consumed > 0 {
					inputBuffer.Pop(consumed)
				}
			}

			if outputBuffer.Len() > 0 {
				writeUSB()
			}

			// Only after the ack for reset has gone out.
			core.CheckPendingReset()

			core.ProcessTimers()
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// usbReaderLoop moves bytes from USB CDC into the input ring.
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgErrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			b, err := USBRead()
			if err != nil {
				msgErrors++
				time.Sleep(time.Millisecond)
				continue
			}

			// A host reconnecting after a write failure starts from scratch.
			if usbWasDisconnected {
				usbWasDisconnected = false
				inputBuffer.Reset()
				outputBuffer.Reset()
				transport.Reset()
				core.StopAllTones()
				core.ResetFirmwareState()
				consecutiveWriteFailures = 0
			}

			if inputBuffer.Write([]byte{b}) == 0 {
				msgErrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// registerPins publishes the "pin" enumeration, gpio0 to gpio29.
func registerPins() {
	names := make([]string, 30)
	for i := range names {
		names[i] = "gpio" + strconv.Itoa(i)
	}
	core.RegisterEnumeration("pin", names)
}

// writeUSB drains the output buffer. After repeated failures the host is
// assumed gone and stale data is dropped.
func writeUSB() {
	pending := outputBuffer.Bytes()
	written := 0
	for written < len(pending) {
		n, err := USBWriteBytes(pending[written:])
		if err != nil || n == 0 {
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
