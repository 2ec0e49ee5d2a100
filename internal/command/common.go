// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/dexctl/internal/attrs"
	"github.com/staranto/dexctl/internal/cache"
	"github.com/staranto/dexctl/internal/config"
	"github.com/staranto/dexctl/internal/meta"
	"github.com/staranto/dexctl/internal/metrics"
	"github.com/staranto/dexctl/internal/output"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// Results go to stdout, diagnostics to stderr. Tests swap them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ShortCircuitTLDR checks the --tldr flag and, if present, runs
// `tldr dexctl <subcmd>`. Without tldr installed the command's examples are
// printed instead. It returns true when the caller should exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}

	if pathHas("tldr") {
		c := exec.CommandContext(ctx, "tldr", "dexctl", subcmd)
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Run(); err == nil {
			return true
		}
	}

	if examples, ok := cmd.Metadata["examples"].([][2]string); ok {
		output.DumpExamples(stdout, examples)
	}
	return true
}

// DumpSchemaIfRequested prints the attribute schema for t when --schema is
// set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(stdout, "", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList from defaults plus --attrs, then applies
// the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	if err := al.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return al, nil
}

// OutputOptions collects the presentation flags. Color is only honored when
// stdout is a terminal.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Output:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color") && isTerminal(stdout),
		Padding: cmd.Int("padding"),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EmitJSONAPISlice marshals a slice as JSON:API and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return output.SliceDiceSpit(raw, al, OutputOptions(cmd), "data", stdout)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewClient builds the catalog client for one command run. Cache and rate
// settings come from the config file. The recorder is nil unless --metrics
// is set.
func NewClient(cmd *cli.Command) (*pokeapi.Client, *metrics.Recorder) {
	c := clientConfig(cmd.String("base-url"))

	var rec *metrics.Recorder
	if cmd.Bool("metrics") {
		rec = metrics.New()
		c.Metrics = rec
		c.Observer = rec
	}

	return pokeapi.NewClient(c), rec
}

// clientConfig reads the client settings from the config file. A malformed
// value is reported and its default used.
func clientConfig(baseURL string) *pokeapi.Config {
	ttl, err := config.GetDuration("cache.ttl", cache.DefaultTTL)
	if err != nil {
		log.WithError(err).Warnf("ignoring cache.ttl, using %s", cache.DefaultTTL)
		ttl = cache.DefaultTTL
	}
	coalesce, err := config.GetBool("cache.coalesce", false)
	if err != nil {
		log.WithError(err).Warn("ignoring cache.coalesce, using false")
		coalesce = false
	}
	rps, err := config.GetInt("rate", pokeapi.DefaultRateLimit)
	if err != nil {
		log.WithError(err).Warnf("ignoring rate, using %d", pokeapi.DefaultRateLimit)
		rps = pokeapi.DefaultRateLimit
	}
	timeout, err := config.GetDuration("timeout", pokeapi.DefaultTimeout)
	if err != nil {
		log.WithError(err).Warnf("ignoring timeout, using %s", pokeapi.DefaultTimeout)
		timeout = pokeapi.DefaultTimeout
	}

	return &pokeapi.Config{
		BaseURL:   baseURL,
		Timeout:   timeout,
		RateLimit: float64(rps),
		CacheTTL:  ttl,
		Coalesce:  coalesce,
	}
}

// FlushMetrics writes rec to stderr. A nil rec is a no-op.
func FlushMetrics(rec *metrics.Recorder) {
	if rec == nil {
		return
	}
	if err := rec.WriteText(stderr); err != nil {
		log.WithError(err).Warn("failed to write metrics")
	}
}

// QueryCommandBuilder constructs a cli.Command for query subcommands using a
// consistent pattern. It wires metadata, adds the tldr and schema flags,
// applies the global flags and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	// Examples are shown by --tldr when tldr is not installed.
	Examples [][2]string
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta":     qcb.Meta,
			"examples": qcb.Examples,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			newTLDRFlag(),
			newSchemaFlag(),
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action: short-circuit
// checks, attrs, client construction, the fetch itself and output emission.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command, *pokeapi.Client) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	al, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al.String())

	client, rec := NewClient(cmd)
	defer FlushMetrics(rec)

	results, err := qar.FetchFn(ctx, cmd, client)
	if err != nil {
		return err
	}

	return EmitJSONAPISlice(results, al, cmd)
}

// requireArgs returns the first n positional args or an error naming what
// is missing.
func requireArgs(cmd *cli.Command, n int, what string) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) < n {
		return nil, fmt.Errorf("%s: missing %s", cmd.Name, what)
	}
	return args[:n], nil
}
