// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/finder"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 5

var fqExamples = [][2]string{
	{"dexctl fq pikachu", "exact lookup by name"},
	{"dexctl fq 151", "exact lookup by id"},
	{"dexctl fq pikachuu", "not found, with suggestions"},
}

// suggest lists names close to query. Failures only cost the suggestions.
func suggest(ctx context.Context, client *pokeapi.Client, query string) []string {
	entries, err := catalog.List(ctx, client, 0)
	if err != nil {
		log.WithError(err).Debug("no suggestions")
		return nil
	}
	return finder.Suggest(catalog.Candidates(entries), query, maxSuggestions)
}

// FqCommandAction is the action handler for the "fq" subcommand. It looks up
// exactly one entry, the way the browser's search box does.
func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*catalog.Card]{
		CommandName:  "fq",
		SchemaType:   reflect.TypeOf(catalog.Card{}),
		DefaultAttrs: []string{".id", "name", "types"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) (
			[]*catalog.Card,
			error,
		) {
			args, err := requireArgs(cmd, 1, "id or name")
			if err != nil {
				return nil, err
			}

			card, err := catalog.Lookup(ctx, client, args[0])
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				if hints := suggest(ctx, client, args[0]); len(hints) > 0 {
					return nil, fmt.Errorf("%s, did you mean: %s", catalog.NotFoundMessage, strings.Join(hints, ", "))
				}
				return nil, errors.New(catalog.NotFoundMessage)
			case err != nil:
				return nil, err
			}
			return []*catalog.Card{card}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// FqCommandBuilder constructs the cli.Command definition for "fq".
func FqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fq",
		Usage:     "find query",
		UsageText: `dexctl fq <id|name> [options]`,
		Action:    FqCommandAction,
		Meta:      meta,
		Examples:  fqExamples,
	}).Build()
}
