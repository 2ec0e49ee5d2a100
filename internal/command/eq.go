// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
)

var eqExamples = [][2]string{
	{"dexctl eq charmander", "the charmander line, base stage first"},
	{"dexctl eq eevee -f depth=1", "every eevee evolution"},
	{"dexctl eq 133 -a sprite -o yaml", "stages with sprites as yaml"},
}

// EqCommandAction is the action handler for the "eq" subcommand. It resolves
// the evolution chain of its argument into stages.
func EqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*catalog.StageCard]{
		CommandName:  "eq",
		SchemaType:   reflect.TypeOf(catalog.StageCard{}),
		DefaultAttrs: []string{".id", "name", "depth"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) (
			[]*catalog.StageCard,
			error,
		) {
			args, err := requireArgs(cmd, 1, "id or name")
			if err != nil {
				return nil, err
			}

			stages, err := catalog.Evolutions(ctx, client, args[0], cmd.Int("concurrency"))
			if errors.Is(err, pokeapi.ErrNotFound) {
				return nil, errors.New(catalog.NotFoundMessage)
			}
			return stages, err
		},
	}
	return runner.Run(ctx, cmd)
}

// EqCommandBuilder constructs the cli.Command definition for "eq".
func EqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "eq",
		Usage:     "evolution query",
		UsageText: `dexctl eq <id|name> [options]`,
		Flags: []cli.Flag{
			NewConcurrencyFlag("eq"),
		},
		Action:   EqCommandAction,
		Meta:     meta,
		Examples: eqExamples,
	}).Build()
}
