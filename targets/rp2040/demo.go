//go:build rp2040

package main

import (
	"time"

	"pwmtone/core"
	"pwmtone/melodies"
	"pwmtone/tone"
)

const demoPause = time.Second

// runDemo cycles through the preset catalogue forever. It shares the tone
// alarm pool with the command path but never starts the USB transport.
func runDemo(drv core.ToneDriver, mode ModeConfig) {
	out, err := core.NewPinOutput(drv, 0, mode.DemoPin)
	if err != nil {
		return
	}
	gen := tone.New(out, core.ToneAlarms())

	for {
		for _, p := range melodies.All() {
			if err := gen.PlayMelody(p.Melody, 0); err != nil {
				continue
			}
			for gen.IsPlaying() {
				UpdateSystemTime()
				core.ProcessTimers()
				time.Sleep(100 * time.Microsecond)
			}
			time.Sleep(demoPause)
		}
	}
}
