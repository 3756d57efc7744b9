// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cheggaaa/pb/v3"
	"github.com/mkroman/evic/lib/config"
	"github.com/mkroman/evic/lib/firmware"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/usedbytes/log"
)

const version = "0.2.0"

func usageError(format string, a ...interface{}) error {
	return cli.Exit(fmt.Sprintf(format, a...), 2)
}

func onUsageError(ctx *cli.Context, err error, isSubcommand bool) error {
	return usageError("%v", err)
}

// createFile is swapped out in tests.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if !ctx.IsSet("config") {
		return config.Default(), nil
	}

	fname := ctx.Path("config")
	log.Verbosef("Loading device profiles from %s\n", fname)
	return config.LoadConfig(fname)
}

func loadDevice(ctx *cli.Context) (*config.Device, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	dev, err := cfg.Lookup(ctx.String("device"))
	if err != nil {
		return nil, usageError("%v", err)
	}
	log.Verbosef("Using device %s (%d byte ROM)\n", dev.ID, dev.ROMSize)

	return dev, nil
}

func loadInput(ctx *cli.Context) (*firmware.Firmware, *config.Device, error) {
	if ctx.Args().Len() == 0 {
		return nil, nil, usageError("INPUT_FILE is required")
	} else if ctx.Args().Len() > 1 {
		return nil, nil, usageError("unexpected arguments after INPUT_FILE (flags must precede it): %v", ctx.Args().Tail())
	}

	dev, err := loadDevice(ctx)
	if err != nil {
		return nil, nil, err
	}

	fw, err := firmware.LoadLimit(ctx.Args().First(), dev.ROMSize)
	if err != nil {
		return nil, nil, err
	}
	log.Verbosef("Read %d bytes from %s\n", fw.Len(), ctx.Args().First())

	return fw, dev, nil
}

func writeOutput(fw *firmware.Firmware, fname string, progress bool) error {
	f, err := createFile(fname)
	if err != nil {
		return errors.Wrap(err, "Creating output file")
	}
	defer f.Close()

	var w io.Writer = f
	var bar *pb.ProgressBar
	if progress {
		bar = pb.Full.Start64(int64(fw.Len()))
		bar.Set(pb.Bytes, true)
		w = bar.NewProxyWriter(f)
	}

	err = fw.Save(w)
	if bar != nil {
		bar.Finish()
	}
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		os.Remove(fname)
		return err
	}

	return nil
}

func transformAction(suffix string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		fw, _, err := loadInput(ctx)
		if err != nil {
			return err
		}

		out := ctx.Path("output")
		if len(out) == 0 {
			out = SuffixedPath(ctx.Args().First(), suffix)
		}

		err = writeOutput(fw, out, ctx.Bool("progress"))
		if err != nil {
			return err
		}

		log.Printf("Wrote %s\n", out)
		return nil
	}
}

func infoAction(ctx *cli.Context) error {
	fw, dev, err := loadInput(ctx)
	if err != nil {
		return err
	}

	info := fw.Info(dev.ROMSize)
	log.Verboseln(info.String())

	return toml.NewEncoder(os.Stdout).Encode(info)
}

func devicesAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return cfg.WriteTOML(os.Stdout)
}

func newApp() *cli.App {
	transformFlags := []cli.Flag{
		&cli.PathFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "Set the output filename",
			Required: false,
		},
		&cli.BoolFlag{
			Name:     "progress",
			Aliases:  []string{"p"},
			Usage:    "Show a progress bar while writing",
			Required: false,
			Value:    false,
		},
	}

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "Output version information and exit",
	}
	cli.VersionPrinter = func(ctx *cli.Context) {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
	}

	app := &cli.App{
		Name:    "evic",
		Usage:   "Encrypt and decrypt eVic VTC Mini firmware images",
		Version: version,
		// Just ignore errors - we'll handle them ourselves in main()
		ExitErrHandler: func(c *cli.Context, e error) {},
		OnUsageError:   onUsageError,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Enable more output",
				Required: false,
				Value:    false,
			},
			&cli.PathFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "TOML file with extra device profiles",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "device",
				Aliases:  []string{"d"},
				Usage:    "Device profile to use",
				Required: false,
				Value:    config.DefaultDevice,
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Present() {
				return usageError("Unknown command `%s'", ctx.Args().First())
			}
			return cli.ShowAppHelp(ctx)
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:         "decrypt",
			Usage:        "Decrypt a firmware image",
			ArgsUsage:    "INPUT_FILE",
			Action:       transformAction("_decrypted"),
			Flags:        transformFlags,
			OnUsageError: onUsageError,
		},
		{
			Name:         "encrypt",
			Usage:        "Encrypt a firmware image so the device will accept it",
			ArgsUsage:    "INPUT_FILE",
			Action:       transformAction("_encrypted"),
			Flags:        transformFlags,
			OnUsageError: onUsageError,
		},
		{
			Name:         "info",
			Usage:        "Print the size and checksums of a decoded image",
			ArgsUsage:    "INPUT_FILE",
			Action:       infoAction,
			OnUsageError: onUsageError,
		},
		{
			Name:         "devices",
			Usage:        "List the known device profiles",
			Action:       devicesAction,
			OnUsageError: onUsageError,
		},
	}

	app.Before = func(ctx *cli.Context) error {
		log.SetUseLog(false)

		log.SetVerbose(ctx.Bool("verbose"))
		log.Verboseln("Extra output enabled.")
		return nil
	}

	return app
}

func main() {
	// Flag errors are reported before app.Before runs
	log.SetUseLog(false)

	err := newApp().Run(os.Args)
	if err != nil {
		log.Println("ERROR:", err)
		if v, ok := err.(cli.ExitCoder); ok {
			os.Exit(v.ExitCode())
		} else {
			os.Exit(1)
		}
	}
}
