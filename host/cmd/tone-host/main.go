// Command tone-host drives tone firmware over USB serial, or plays the same
// melodies locally on a speaker or a Linux GPIO pin.
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"pwmtone/host/config"
)

var (
	logger   = slog.Default()
	settings = config.DefaultConfig()
)

// initLogger configures the shared slog logger and makes it the default.
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// loadSettings reads the config file and lets global flags override it.
func loadSettings(c *cli.Context) error {
	initLogger(c.Bool("verbose"))

	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("baud") {
		cfg.Baud = c.Int("baud")
	}
	if c.IsSet("oid") {
		cfg.OID = uint8(c.Uint("oid"))
	}
	if c.IsSet("pin") {
		cfg.Pin = uint32(c.Uint("pin"))
	}
	if c.IsSet("tempo") {
		cfg.Tempo = uint16(c.Uint("tempo"))
	}
	if c.IsSet("rest") {
		cfg.RestMs = uint16(c.Uint("rest"))
	}
	settings = cfg
	logger.Debug("settings", "device", cfg.Device, "oid", cfg.OID, "pin", cfg.Pin)
	return nil
}

func main() {
	app := &cli.App{
		Name:    "tone-host",
		Usage:   "play tones and melodies on pwmtone firmware",
		Version: "0.1.0",
		Before:  loadSettings,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file (default ~/.config/pwmtone/config.json)"},
			&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Usage: "serial device"},
			&cli.IntFlag{Name: "baud", Usage: "baud rate (ignored by USB CDC)"},
			&cli.UintFlag{Name: "oid", Usage: "firmware tone output"},
			&cli.UintFlag{Name: "pin", Usage: "GPIO the output is bound to"},
			&cli.UintFlag{Name: "tempo", Usage: "melody tempo in quarter notes per minute"},
			&cli.UintFlag{Name: "rest", Usage: "silence between melody notes in ms"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			listCommand(),
			toneCommand(),
			melodyCommand(),
			playMIDICommand(),
			stopCommand(),
			tempoCommand(),
			restCommand(),
			statusCommand(),
			dictCommand(),
			estopCommand(),
			localCommand(),
			configCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("tone-host failed", "err", err)
		os.Exit(1)
	}
}
