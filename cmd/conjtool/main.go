// conjtool replays and inspects execution tries described by TOML
// session files, outside of any live test run.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	cli "gopkg.in/urfave/cli.v1"
)

var verbosityFlag = cli.IntFlag{
	Name:  "verbosity",
	Value: 1,
	Usage: "log verbosity (0=quiet, 1=info, 2=debug)",
}

func setupLogger(ctx *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	switch ctx.GlobalInt("verbosity") {
	case 0:
		level = zerolog.Disabled
	case 2:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func main() {
	app := cli.App{
		Name:  "conjtool",
		Usage: "inspect and replay execution tries from session files",
		Flags: []cli.Flag{verbosityFlag},
		Commands: []cli.Command{
			{
				Name:      "record",
				Usage:     "replay a session file and report the resulting tree's shape",
				ArgsUsage: "<session.toml>",
				Action:    record,
			},
			{
				Name:      "rewrite",
				Usage:     "replay a hex-encoded buffer against a session's tree",
				ArgsUsage: "<session.toml> <hex-buffer>",
				Action:    rewrite,
			},
			{
				Name:      "prefix",
				Usage:     "generate a novel prefix from a session's tree",
				ArgsUsage: "<session.toml> <seed>",
				Action:    prefix,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
