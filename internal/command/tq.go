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

var tqExamples = [][2]string{
	{"dexctl tq", "types seen in the first 151 with counts"},
	{"dexctl tq -s -count", "most common type first"},
}

// TqCommandAction is the action handler for the "tq" subcommand. It reports
// every type found in the gallery.
func TqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*catalog.TypeCount]{
		CommandName:  "tq",
		SchemaType:   reflect.TypeOf(catalog.TypeCount{}),
		DefaultAttrs: []string{".id:type", "count"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *pokeapi.Client) (
			[]*catalog.TypeCount,
			error,
		) {
			cards, err := loadGallery(ctx, cmd, client)
			if err != nil {
				return nil, err
			}
			return catalog.TypeCounts(cards), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// TqCommandBuilder constructs the cli.Command definition for "tq".
func TqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tq",
		Usage:     "type query",
		UsageText: `dexctl tq [options]`,
		Flags: []cli.Flag{
			NewLimitFlag("tq", DefaultGalleryLimit),
			NewConcurrencyFlag("tq"),
		},
		Action:   TqCommandAction,
		Meta:     meta,
		Examples: tqExamples,
	}).Build()
}
