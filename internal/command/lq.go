// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
)

var lqExamples = [][2]string{
	{"dexctl lq", "every catalog entry"},
	{"dexctl lq -q char", "entries whose name contains char"},
	{"dexctl lq -f 'id<152' -s -name", "the first 151 in reverse name order"},
	{"dexctl lq -a 'name::f' -o json", "display names as json"},
}

// LqCommandAction is the action handler for the "lq" subcommand. It lists the
// catalog, optionally narrowed by --search.
func LqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*catalog.Entry]{
		CommandName:  "lq",
		SchemaType:   reflect.TypeOf(catalog.Entry{}),
		DefaultAttrs: []string{".id", "name"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) (
			[]*catalog.Entry,
			error,
		) {
			entries, err := catalog.List(ctx, client, cmd.Int("limit"))
			if err != nil {
				return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
					Operation: "list",
					Resource:  "catalog",
				})
			}
			return catalog.Search(entries, cmd.String("search")), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// LqCommandBuilder constructs the cli.Command definition for "lq".
func LqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "lq",
		Usage:     "list query",
		UsageText: `dexctl lq [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"q"},
				Usage:   "case-insensitive substring of the name",
			},
			NewLimitFlag("lq", pokeapi.ListLimit),
		},
		Action:   LqCommandAction,
		Meta:     meta,
		Examples: lqExamples,
	}).Build()
}
