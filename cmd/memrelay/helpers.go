package main

import (
	"bufio"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/memrelay/nostr/eventstore/slicestore"
	"github.com/memrelay/nostr/internal/seed"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var seedFlag = &cli.StringSliceFlag{
	Name:    "seed",
	Aliases: []string{"s"},
	Usage:   "JSON lines file with events, can be repeated (defaults to seed_files from the config)",
}

func loadSeeds(c *cli.Command) (*slicestore.SliceStore, error) {
	paths := cfg.SeedFiles
	if c.IsSet("seed") {
		paths = c.StringSlice("seed")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no seed files given, use --seed or seed_files in the config")
	}

	store := slicestore.New()
	for _, path := range paths {
		if _, err := seed.LoadFile(store, path, log.Logger); err != nil {
			return nil, err
		}
	}
	log.Debug().Int("events", store.Len()).Msg("seeds loaded")
	return store, nil
}

// getStdinLinesOrFirstArgument yields the first argument if there is one, otherwise every non-empty line from stdin.
func getStdinLinesOrFirstArgument(c *cli.Command) iter.Seq[string] {
	return func(yield func(string) bool) {
		if arg := c.Args().First(); arg != "" {
			yield(arg)
			return
		}

		if stat, _ := os.Stdin.Stat(); stat == nil || stat.Mode()&os.ModeCharDevice != 0 {
			// nothing piped, default to an empty filter
			yield("{}")
			return
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 16*1024*1024), 256*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
