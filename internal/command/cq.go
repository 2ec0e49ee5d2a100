// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/driller"
	"github.com/staranto/dexctl/internal/finder"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/pokeapi"
)

var cqExamples = [][2]string{
	{"dexctl cq charmander charmeleon", "everything that changes on evolving"},
	{"dexctl cq 1 4 --path stats", "base stats of #001 against #004"},
	{"dexctl cq pika raichu -o json", "the delta as json, pika resolves by prefix"},
}

// Comparison is the outcome of diffing two payloads.
type Comparison struct {
	Left  string
	Right string
	Diff  gojsondiff.Diff
	// left is the decoded left document, required by the ascii formatter.
	left map[string]interface{}
}

// Compare diffs two JSON documents, narrowed to path when it is set.
func Compare(leftName string, left []byte, rightName string, right []byte, path string) (*Comparison, error) {
	l, err := narrow(left, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", leftName, err)
	}
	r, err := narrow(right, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rightName, err)
	}

	return &Comparison{
		Left:  leftName,
		Right: rightName,
		Diff:  gojsondiff.New().CompareObjects(l, r),
		left:  l,
	}, nil
}

// narrow decodes doc as an object. With a path the object holds only that
// value, keyed by the path.
func narrow(doc []byte, path string) (map[string]interface{}, error) {
	if path == "" {
		var m map[string]interface{}
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", pokeapi.ErrInvalidResponse, err)
		}
		return m, nil
	}

	value := driller.Driller(string(doc), path)
	if !value.Exists() {
		return nil, fmt.Errorf("path %q not found", path)
	}
	return map[string]interface{}{path: value.Value()}, nil
}

// Write renders c as an annotated document (text) or a delta (json).
func (c *Comparison) Write(w io.Writer, format string, color bool) error {
	if !c.Diff.Modified() {
		_, err := fmt.Fprintf(w, "%s and %s do not differ\n", c.Left, c.Right)
		return err
	}

	var (
		out string
		err error
	)
	if format == "text" || format == "" {
		f := formatter.NewAsciiFormatter(c.left, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       color,
		})
		out, err = f.Format(c.Diff)
	} else {
		out, err = formatter.NewDeltaFormatter().Format(c.Diff)
	}
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	_, err = fmt.Fprintln(w, out)
	return err
}

// CqCommandAction is the action handler for the "cq" subcommand. It resolves
// both arguments against the listing and diffs their payloads.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "cq") {
		return nil
	}

	args, err := requireArgs(cmd, 2, "two ids or names")
	if err != nil {
		return err
	}

	client, rec := NewClient(cmd)
	defer FlushMetrics(rec)

	entries, err := catalog.List(ctx, client, 0)
	if err != nil {
		return pokeapi.Friendly(err, pokeapi.ErrorContext{Operation: "compare", Resource: "catalog"})
	}

	found, err := finder.Find(catalog.Candidates(entries), args...)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	docs := make([][]byte, len(found))
	for i, c := range found {
		docs[i], err = client.Raw(ctx, client.PokemonURL(c.Name))
		if err != nil {
			return pokeapi.Friendly(err, pokeapi.ErrorContext{
				Operation: "compare",
				Resource:  "pokemon",
				Target:    c.Name,
			})
		}
	}

	cmp, err := Compare(found[0].Name, docs[0], found[1].Name, docs[1], cmd.String("path"))
	if err != nil {
		return err
	}

	opts := OutputOptions(cmd)
	return cmp.Write(stdout, opts.Output, opts.Color)
}

// CqCommandBuilder constructs the cli.Command definition for "cq".
func CqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "cq",
		Usage:     "compare query",
		UsageText: `dexctl cq <id|name> <id|name> [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "compare only this part of the payloads, e.g. stats or sprites.other",
			},
		},
		Action:   CqCommandAction,
		Meta:     meta,
		Examples: cqExamples,
	}).Build()
}
