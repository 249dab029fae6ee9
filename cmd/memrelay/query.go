package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mailru/easyjson"
	"github.com/memrelay/nostr"
	"github.com/urfave/cli/v3"
)

var query = &cli.Command{
	Name:        "query",
	ArgsUsage:   "[<filter-json>]",
	Usage:       "loads seed files and queries them, takes a filter as argument",
	Description: "applies the filter to the events loaded from the seed files with the same rules the relay uses for replay.\ntakes either a filter as an argument or reads a stream of filters from stdin.",
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

			for _, evt := range store.QueryEvents(filter) {
				fmt.Println(evt)
			}
		}

		if hasError {
			os.Exit(123)
		}
		return nil
	},
}
