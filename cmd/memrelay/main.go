package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/memrelay/nostr/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var cfg *config.Configuration

var app = &cli.Command{
	Name:      "memrelay",
	Usage:     "an in-memory nostr relay",
	UsageText: "memrelay [--config memrelay.toml] <serve|query|count> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a TOML configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log debug messages",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "'console' or 'json'",
		},
	},
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		var err error
		if cfg, err = config.Load(c.String("config")); err != nil {
			return ctx, err
		}

		if c.IsSet("verbose") {
			cfg.Logging.Verbose = c.Bool("verbose")
		}
		if c.IsSet("log-format") {
			cfg.Logging.Format = c.String("log-format")
		}

		setupLogging(cfg.Logging)
		return ctx, nil
	},
	Commands: []*cli.Command{
		serve,
		query,
		count,
	},
	DefaultCommand: "serve",
}

func setupLogging(lc config.LoggingConfiguration) {
	var writer io.Writer = zerolog.NewConsoleWriter()
	if lc.Format == "json" {
		writer = os.Stderr
	}
	gLog := zerolog.New(writer).
		With().
		Timestamp().
		Logger()

	if lc.Verbose {
		log.Logger = gLog.Level(zerolog.DebugLevel)
	} else {
		log.Logger = gLog.Level(zerolog.InfoLevel)
	}
}

func main() {
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
