package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"pwmtone/host/mcu"
	"pwmtone/host/midifile"
	"pwmtone/host/serial"
	"pwmtone/melodies"
	"pwmtone/tone"
)

var errUsage = errors.New("missing argument")

// withDevice connects, loads the dictionary and runs fn.
func withDevice(fn func(m *mcu.MCU) error) error {
	m := mcu.NewMCU(logger)
	err := m.ConnectWithConfig(&serial.Config{
		Device:      settings.Device,
		Baud:        settings.Baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.RetrieveDictionary(); err != nil {
		return err
	}
	d := m.Dictionary()
	logger.Debug("connected", "version", d.Version, "commands", len(d.Commands))
	return fn(m)
}

// prepare binds the configured output and pushes the playback settings.
func prepare(m *mcu.MCU) error {
	if err := m.ConfigTone(settings.OID, settings.Pin); err != nil {
		return err
	}
	if err := m.SetTempo(settings.Tempo); err != nil {
		return err
	}
	return m.SetRestDuration(settings.RestMs)
}

// resolvePreset accepts a preset name or its numeric ID.
func resolvePreset(arg string) (melodies.Preset, error) {
	if p, ok := melodies.ByName(arg); ok {
		return p, nil
	}
	if n, err := strconv.ParseUint(arg, 10, 8); err == nil {
		if p, ok := melodies.ByID(melodies.ID(n)); ok {
			return p, nil
		}
	}
	return melodies.Preset{}, fmt.Errorf("no melody %q (see tone-host list)", arg)
}

func parseHz(arg string) (float32, error) {
	hz, err := strconv.ParseFloat(arg, 32)
	if err != nil || hz <= 0 {
		return 0, fmt.Errorf("bad frequency %q", arg)
	}
	if !tone.InRange(float32(hz)) {
		logger.Warn("frequency outside the playable band, it will be silent",
			"hz", hz, "min", tone.MinFrequency, "max", tone.MaxFrequency)
	}
	return float32(hz), nil
}

var repeatFlag = &cli.IntFlag{
	Name:    "repeat",
	Aliases: []string{"r"},
	Usage:   "passes to play, negative loops until stopped",
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show the built-in melodies",
		Action: func(c *cli.Context) error {
			renderPresets(os.Stdout, settings.Tempo, settings.RestMs)
			return nil
		},
	}
}

func toneCommand() *cli.Command {
	return &cli.Command{
		Name:      "tone",
		Usage:     "play a single frequency",
		ArgsUsage: "<hz>",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "duration", Value: 500, Usage: "ms"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errUsage
			}
			hz, err := parseHz(c.Args().First())
			if err != nil {
				return err
			}
			return withDevice(func(m *mcu.MCU) error {
				if err := m.ConfigTone(settings.OID, settings.Pin); err != nil {
					return err
				}
				return m.PlayTone(settings.OID, hz, uint32(c.Uint("duration")))
			})
		},
	}
}

func melodyCommand() *cli.Command {
	return &cli.Command{
		Name:      "melody",
		Usage:     "play a built-in melody",
		ArgsUsage: "<name|id>",
		Flags:     []cli.Flag{repeatFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errUsage
			}
			p, err := resolvePreset(c.Args().First())
			if err != nil {
				return err
			}
			return withDevice(func(m *mcu.MCU) error {
				if err := prepare(m); err != nil {
					return err
				}
				return m.PlayMelody(settings.OID, p.ID, c.Int("repeat"))
			})
		},
	}
}

func playMIDICommand() *cli.Command {
	return &cli.Command{
		Name:      "play-midi",
		Usage:     "upload a track of a MIDI file and play it",
		ArgsUsage: "<file.mid>",
		Flags: []cli.Flag{
			repeatFlag,
			&cli.IntFlag{Name: "track", Value: -1, Usage: "track index, -1 for the first with notes"},
			&cli.IntFlag{Name: "transpose", Usage: "semitones"},
			&cli.BoolFlag{Name: "file-tempo", Value: true, Usage: "use the tempo stored in the file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errUsage
			}
			return withDevice(func(m *mcu.MCU) error {
				room, _ := m.Dictionary().ConfigInt("MELODY_BUFFER_SIZE")
				song, err := midifile.ReadFile(c.Args().First(), midifile.Options{
					Track:     c.Int("track"),
					Transpose: c.Int("transpose"),
					MaxNotes:  room,
				})
				if err != nil {
					return err
				}
				if song.Truncated {
					logger.Warn("melody truncated to fit the device", "notes", room)
				}
				if song.Dropped > 0 {
					logger.Info("dropped very short notes", "count", song.Dropped)
				}
				if c.Bool("file-tempo") && !c.IsSet("tempo") {
					settings.Tempo = song.Tempo
				}

				if err := prepare(m); err != nil {
					return err
				}
				if err := m.UploadMelody(settings.OID, song.Melody); err != nil {
					return err
				}
				logger.Info("playing", "notes", song.Melody.Len(), "tempo", settings.Tempo)
				return m.PlayUploaded(settings.OID, c.Int("repeat"))
			})
		},
	}
}

func stopCommand() *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "stop the melody, or only the current note with --tone",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "tone", Usage: "silence the current note and let the melody go on"},
		},
		Action: func(c *cli.Context) error {
			return withDevice(func(m *mcu.MCU) error {
				if c.Bool("tone") {
					return m.StopTone(settings.OID)
				}
				return m.StopMelody(settings.OID)
			})
		},
	}
}

func uintArg(c *cli.Context, what string) (uint16, error) {
	if c.NArg() < 1 {
		return 0, errUsage
	}
	n, err := strconv.ParseUint(c.Args().First(), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", what, c.Args().First())
	}
	return uint16(n), nil
}

func tempoCommand() *cli.Command {
	return &cli.Command{
		Name:      "tempo",
		Usage:     "set the melody tempo",
		ArgsUsage: "<bpm>",
		Action: func(c *cli.Context) error {
			bpm, err := uintArg(c, "tempo")
			if err != nil {
				return err
			}
			return withDevice(func(m *mcu.MCU) error { return m.SetTempo(bpm) })
		},
	}
}

func restCommand() *cli.Command {
	return &cli.Command{
		Name:      "rest",
		Usage:     "set the silence between melody notes",
		ArgsUsage: "<ms>",
		Action: func(c *cli.Context) error {
			ms, err := uintArg(c, "rest")
			if err != nil {
				return err
			}
			return withDevice(func(m *mcu.MCU) error { return m.SetRestDuration(ms) })
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show what the output is doing",
		Action: func(c *cli.Context) error {
			return withDevice(func(m *mcu.MCU) error {
				st, err := m.Status(settings.OID)
				if err != nil {
					return fmt.Errorf("%w (is oid %d configured?)", err, settings.OID)
				}
				down, err := m.Shutdown()
				if err != nil {
					return err
				}
				renderStatus(os.Stdout, st, down)
				return nil
			})
		},
	}
}

func dictCommand() *cli.Command {
	return &cli.Command{
		Name:  "dict",
		Usage: "print the firmware dictionary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "print the JSON as received"},
		},
		Action: func(c *cli.Context) error {
			return withDevice(func(m *mcu.MCU) error {
				if c.Bool("raw") {
					_, err := os.Stdout.Write(append(m.DictionaryRaw(), '\n'))
					return err
				}
				renderDictionary(os.Stdout, m.Dictionary())
				return nil
			})
		},
	}
}

func estopCommand() *cli.Command {
	return &cli.Command{
		Name:  "estop",
		Usage: "silence every output and block playback, --clear lifts it",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clear"},
		},
		Action: func(c *cli.Context) error {
			return withDevice(func(m *mcu.MCU) error {
				if c.Bool("clear") {
					return m.ClearShutdown()
				}
				return m.EmergencyStop()
			})
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective settings, --save writes them to the config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save"},
		},
		Action: func(c *cli.Context) error {
			renderSettings(os.Stdout, settings)
			if !c.Bool("save") {
				return nil
			}
			if path := c.String("config"); path != "" {
				return settings.SaveFile(path)
			}
			return settings.Save()
		},
	}
}
