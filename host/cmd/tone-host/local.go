package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/faiface/beep"
	"github.com/urfave/cli/v2"

	"pwmtone/core"
	"pwmtone/host/clock"
	"pwmtone/host/midifile"
	"pwmtone/host/periph"
	"pwmtone/host/speaker"
	"pwmtone/tone"
)

func localCommand() *cli.Command {
	return &cli.Command{
		Name:      "local",
		Usage:     "play without a board, on the sound card or a Linux GPIO pin",
		ArgsUsage: "<melody|hz|file.mid>",
		Flags: []cli.Flag{
			repeatFlag,
			&cli.StringFlag{Name: "backend", Usage: "speaker or gpio"},
			&cli.StringFlag{Name: "gpio", Usage: "periph pin name, e.g. GPIO13"},
			&cli.UintFlag{Name: "duration", Value: 500, Usage: "ms, for a single frequency"},
		},
		Action: runLocal,
	}
}

// openBackend returns the driver and the pin to configure on it.
func openBackend(c *cli.Context) (core.ToneDriver, core.TonePin, error) {
	backend := settings.Backend
	if c.IsSet("backend") {
		backend = c.String("backend")
	}
	switch backend {
	case "speaker":
		d, err := speaker.Open(beep.SampleRate(settings.SampleRate))
		return d, 0, err
	case "gpio":
		name := settings.GPIO
		if c.IsSet("gpio") {
			name = c.String("gpio")
		}
		pin, err := periph.PinNumber(name)
		if err != nil {
			return nil, 0, err
		}
		d, err := periph.Open()
		return d, pin, err
	}
	return nil, 0, fmt.Errorf("unknown backend %q", backend)
}

// localStart returns the call that starts playback on gen.
func localStart(c *cli.Context, arg string) (func(*tone.Generator) error, error) {
	if strings.HasSuffix(strings.ToLower(arg), ".mid") {
		song, err := midifile.ReadFile(arg, midifile.Options{Track: -1})
		if err != nil {
			return nil, err
		}
		if !c.IsSet("tempo") {
			settings.Tempo = song.Tempo
		}
		return func(g *tone.Generator) error { return g.PlayMelody(song.Melody, c.Int("repeat")) }, nil
	}
	if p, err := resolvePreset(arg); err == nil {
		return func(g *tone.Generator) error { return g.PlayMelody(p.Melody, c.Int("repeat")) }, nil
	}
	hz, err := parseHz(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a melody nor a frequency", arg)
	}
	ms := uint32(c.Uint("duration"))
	return func(g *tone.Generator) error { g.PlayTone(hz, ms); return nil }, nil
}

func runLocal(c *cli.Context) error {
	if c.NArg() < 1 {
		return errUsage
	}
	start, err := localStart(c, c.Args().First())
	if err != nil {
		return err
	}

	drv, pin, err := openBackend(c)
	if err != nil {
		return err
	}
	out, err := core.NewPinOutput(drv, 0, pin)
	if err != nil {
		return err
	}

	cfg := tone.NewPlaybackConfig()
	if err := cfg.SetTempo(settings.Tempo); err != nil {
		return err
	}
	cfg.SetRestDuration(settings.RestMs)
	gen := tone.New(out, core.NewAlarmPool(4), tone.WithConfig(cfg))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	loop := clock.New()
	started := false
	errc := make(chan error, 1)
	go func() {
		errc <- loop.Until(ctx, func() bool { return started && !gen.IsPlaying() })
	}()

	var startErr error
	if err := loop.Do(ctx, func() {
		startErr = start(gen)
		started = true
	}); err != nil {
		return err
	}
	if startErr != nil {
		return startErr
	}

	err = <-errc
	gen.StopMelody()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
