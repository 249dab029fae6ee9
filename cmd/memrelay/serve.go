package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/memrelay/nostr/eventstore/slicestore"
	"github.com/memrelay/nostr/internal/config"
	"github.com/memrelay/nostr/internal/seed"
	"github.com/memrelay/nostr/nip11"
	"github.com/memrelay/nostr/relay"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var serve = &cli.Command{
	Name:        "serve",
	Usage:       "runs the relay",
	Description: "starts a websocket relay on host:port keeping every event in memory.\nseed files (JSON lines, optionally gzip or zstd compressed) are loaded before listening.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "address to listen on",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "port to listen on",
		},
		&cli.StringSliceFlag{
			Name:    "seed",
			Aliases: []string{"s"},
			Usage:   "JSON lines file with events to load at startup, can be repeated",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "check event ids and signatures before accepting them",
		},
		&cli.BoolFlag{
			Name:  "strict-ok",
			Usage: "answer OK false for events that were not stored",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "relay name announced in the NIP-11 document",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "relay description announced in the NIP-11 document",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		applyServeFlags(c, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		store := slicestore.New()
		for _, path := range cfg.SeedFiles {
			stats, err := seed.LoadFile(store, path, log.Logger)
			if err != nil {
				return err
			}
			log.Info().Str("file", path).Int("saved", stats.Saved()).Int("invalid", stats.Invalid).Msg("seed loaded")
		}

		rl := newRelay(cfg)
		rl.UseEventstore(store)

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return rl.Start(ctx, cfg.Host, cfg.Port)
	},
}

func applyServeFlags(c *cli.Command, cfg *config.Configuration) {
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = int(c.Int("port"))
	}
	if c.IsSet("seed") {
		cfg.SeedFiles = c.StringSlice("seed")
	}
	if c.IsSet("verify") {
		cfg.VerifySignatures = c.Bool("verify")
	}
	if c.IsSet("strict-ok") {
		cfg.StrictOK = c.Bool("strict-ok")
	}
	if c.IsSet("name") {
		cfg.Info.Name = c.String("name")
	}
	if c.IsSet("description") {
		cfg.Info.Description = c.String("description")
	}
}

func newRelay(cfg *config.Configuration) *relay.Relay {
	rl := relay.NewRelay()
	rl.Log = log.Logger.With().Str("component", "relay").Logger()

	rl.VerifySignatures = cfg.VerifySignatures
	rl.StrictOK = cfg.StrictOK

	rl.Info.Name = cfg.Info.Name
	rl.Info.Description = cfg.Info.Description
	rl.Info.Contact = cfg.Info.Contact
	rl.Info.PubKey = cfg.Info.PubKey

	rl.WriteWait = cfg.WebSocket.WriteWait()
	rl.PongWait = cfg.WebSocket.PongWait()
	rl.PingPeriod = cfg.WebSocket.PingPeriod()
	rl.MaxMessageSize = cfg.WebSocket.MaxMessageSize
	rl.Info.Limitation = &nip11.RelayLimitationDocument{
		MaxMessageLength: int(cfg.WebSocket.MaxMessageSize),
	}

	return rl
}
