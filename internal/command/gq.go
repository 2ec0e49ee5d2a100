// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// DefaultGalleryLimit is the gq and tq --limit default, the original 151.
const DefaultGalleryLimit = 151

var gqExamples = [][2]string{
	{"dexctl gq", "types and sprites of the first 151"},
	{"dexctl gq --types fire,flying", "entries that are both fire and flying"},
	{"dexctl gq -l 1025 --concurrency 32", "the whole catalog, 32 requests at a time"},
	{"dexctl gq -a 'types::jf' -t", "display-formatted type lists with titles"},
}

// loadGallery builds the gallery for cmd, reporting progress on stderr when
// it is a terminal.
func loadGallery(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) ([]*catalog.Card, error) {
	opts := catalog.GalleryOptions{
		Limit:       cmd.Int("limit"),
		Concurrency: cmd.Int("concurrency"),
	}
	if isTerminal(stderr) {
		opts.Progress = func(done, total int) {
			fmt.Fprintf(stderr, "\rloading %d/%d", done, total)
			if done == total {
				fmt.Fprint(stderr, "\r\033[K")
			}
		}
	}

	cards, err := catalog.Gallery(ctx, client, opts)
	if err != nil {
		return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
			Operation: "gallery",
			Resource:  "catalog",
		})
	}
	return cards, nil
}

// GqCommandAction is the action handler for the "gq" subcommand.
func GqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*catalog.Card]{
		CommandName:  "gq",
		SchemaType:   reflect.TypeOf(catalog.Card{}),
		DefaultAttrs: []string{".id", "name", "types"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) (
			[]*catalog.Card,
			error,
		) {
			cards, err := loadGallery(ctx, cmd, client)
			if err != nil {
				return nil, err
			}
			return catalog.FilterByTypes(cards, cmd.StringSlice("types")), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// GqCommandBuilder constructs the cli.Command definition for "gq".
func GqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "gq",
		Usage:     "gallery query",
		UsageText: `dexctl gq [options]`,
		Flags: []cli.Flag{
			NewLimitFlag("gq", DefaultGalleryLimit),
			NewConcurrencyFlag("gq"),
			NewTypesFlag("gq"),
		},
		Action:   GqCommandAction,
		Meta:     meta,
		Examples: gqExamples,
	}).Build()
}
