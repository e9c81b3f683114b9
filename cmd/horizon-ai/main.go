package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", version, short)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run horizon-ai")
	}
}

func newCommand(stdout io.Writer) *cli.Command {
	flags := &Flags{}

	return &cli.Command{
		Name:    "horizon-ai",
		Usage:   "Horizon AI desktop shell",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to a YAML config file, reloaded when it changes",
				Sources:     cli.EnvVars("HORIZON_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error)",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-dir",
				Usage:       "directory for the log file target",
				Destination: &flags.LogDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runShell(ctx, flags)
		},
		Commands: []*cli.Command{
			{
				Name:      "invoke",
				Usage:     "Invoke one command without a window and print its JSON result",
				ArgsUsage: "<command> [json-args]",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() < 1 {
						return fmt.Errorf("missing command name")
					}
					return invoke(ctx, flags, stdout, c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:  "commands",
				Usage: "List the commands available without a window",
				Action: func(ctx context.Context, c *cli.Command) error {
					return listCommands(flags, stdout)
				},
			},
		},
	}
}
