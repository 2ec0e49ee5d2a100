// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/output"
	"github.com/staranto/dexctl/internal/pokeapi"
)

var dqExamples = [][2]string{
	{"dexctl dq pikachu", "detail card"},
	{"dexctl dq 6 -o json", "detail of #006 as json"},
	{"dexctl dq eevee -a evolutions::jf", "card attributes, evolutions display-formatted"},
}

// detailAttrs is every Detail attribute, in card order.
var detailAttrs = []string{
	".id", "name", "display", "genus", "types", "height", "weight",
	"abilities", "stats", "evolutions", "description", "sprite",
}

// DqCommandAction is the action handler for the "dq" subcommand. Text output
// is a detail card, other outputs go through the query pipeline.
func DqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(catalog.Detail{})) {
		return nil
	}

	args, err := requireArgs(cmd, 1, "id or name")
	if err != nil {
		return err
	}

	client, rec := NewClient(cmd)
	defer FlushMetrics(rec)

	d, err := catalog.LoadDetail(ctx, client, args[0], cmd.Int("concurrency"))
	if err != nil {
		if errors.Is(err, pokeapi.ErrNotFound) {
			return errors.New(catalog.NotFoundMessage)
		}
		return err
	}

	opts := OutputOptions(cmd)
	if (opts.Output == "text" || opts.Output == "") && cmd.String("attrs") == "" && opts.Filter == "" {
		return output.RenderDetail(stdout, d, opts.Color)
	}

	al, err := BuildAttrs(cmd, detailAttrs...)
	if err != nil {
		return err
	}
	return EmitJSONAPISlice([]*catalog.Detail{d}, al, cmd)
}

// DqCommandBuilder constructs the cli.Command definition for "dq".
func DqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "detail query",
		UsageText: `dexctl dq <id|name> [options]`,
		Flags: []cli.Flag{
			NewConcurrencyFlag("dq"),
		},
		Action:   DqCommandAction,
		Meta:     meta,
		Examples: dqExamples,
	}).Build()
}
