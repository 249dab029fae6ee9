package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mailru/easyjson"
	"github.com/memrelay/nostr"
	"github.com/urfave/cli/v3"
)

var count = &cli.Command{
	Name:        "count",
	ArgsUsage:   "[<filter-json>]",
	Usage:       "counts all seeded events that match a given filter",
	Description: "applies the filter to the events loaded from the seed files, counting the visible results",
	Flags: []cli.Flag{
		seedFlag,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		store, err := loadSeeds(c)
		if err != nil {
			return err
		}

		hasError := false
		for line := range getStdinLinesOrFirstArgument(c) {
			filter := nostr.Filter{}
			if err := easyjson.Unmarshal([]byte(line), &filter); err != nil {
				fmt.Fprintf(os.Stderr, "invalid filter '%s': %s\n", line, err)
				hasError = true
				continue
			}

			fmt.Println(store.CountEvents(filter))
		}

		if hasError {
			os.Exit(123)
		}
		return nil
	},
}
