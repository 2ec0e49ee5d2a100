// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
	"github.com/staranto/dexctl/internal/tui"
)

var browseExamples = [][2]string{
	{"dexctl browse", "browse the whole catalog"},
	{"dexctl browse --sort-by name --order desc", "start sorted by name, z first"},
	{"dexctl browse -l 151", "only the first generation"},
}

// BrowseCommandAction is the action handler for the "browse" subcommand. It
// runs the interactive browser until the user quits.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "browse") {
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("browse needs an interactive terminal, use lq or dq instead")
	}

	field, err := catalog.ParseSortField(cmd.String("sort-by"))
	if err != nil {
		return err
	}
	order, err := catalog.ParseSortOrder(cmd.String("order"))
	if err != nil {
		return err
	}

	client, rec := NewClient(cmd)
	defer FlushMetrics(rec)

	return tui.Run(ctx, tui.Options{
		Backend:     client,
		Limit:       cmd.Int("limit"),
		Concurrency: cmd.Int("concurrency"),
		SortField:   field,
		SortOrder:   order,
		Color:       cmd.Bool("color"),
	})
}

// BrowseCommandBuilder constructs the cli.Command definition for "browse".
// It does not produce datasets so it skips the query flags.
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive catalog browser",
		UsageText: `dexctl browse [options]`,
		Metadata: map[string]any{
			"meta":     meta,
			"examples": browseExamples,
		},
		Flags: []cli.Flag{
			newTLDRFlag(),
			newMetricsFlag(),
			NewBaseURLFlag("browse", cfg.Source),
			NewLimitFlag("browse", pokeapi.ListLimit),
			NewConcurrencyFlag("browse"),
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "color type badges in the detail view",
				Sources: cli.NewValueSourceChain(
					configSources("browse", "color", cfg.Source)...,
				),
				Value: true,
			},
			&cli.StringFlag{
				Name:  "sort-by",
				Usage: "initial sort field, id or name",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("browse.sort-by", altsrc.StringSourcer(cfg.Source)),
				),
				Value: string(catalog.SortByID),
				Validator: func(value string) error {
					_, err := catalog.ParseSortField(value)
					return err
				},
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "initial sort order, asc or desc",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("browse.order", altsrc.StringSourcer(cfg.Source)),
				),
				Value: string(catalog.Ascending),
				Validator: func(value string) error {
					_, err := catalog.ParseSortOrder(value)
					return err
				},
			},
		},
		Action: BrowseCommandAction,
	}
}
