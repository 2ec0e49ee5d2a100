// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/config"
	"github.com/staranto/dexctl/internal/pokeapi"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// The shared flags are built per command. A flag keeps its parsed value once
// applied, so one instance must not serve two commands.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page, or examples when tldr is not installed",
		HideDefault: true,
	}
}

func newMetricsFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "metrics",
		Usage:       "print cache and request metrics to stderr on exit",
		HideDefault: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DEXCTL_METRICS"),
		),
	}
}

// configSources returns the namespaced then global config file sources for
// key.
func configSources(ns string, key string, path string) []cli.ValueSource {
	return []cli.ValueSource{
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
		yaml.YAML(key, altsrc.StringSourcer(path)),
	}
}

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"attrs", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				configSources(params[0], "color", cfg.Source)...,
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				configSources(params[0], "output", cfg.Source)...,
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				configSources(params[0], "titles", cfg.Source)...,
			),
			Value: false,
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "extra spaces between text columns",
			Sources: cli.NewValueSourceChain(
				configSources(params[0], "padding", cfg.Source)...,
			),
			Value: 0,
		},
		NewBaseURLFlag(params[0], cfg.Source),
		newMetricsFlag(),
	}

	return
}

// NewBaseURLFlag constructs the --base-url flag. The env var wins over the
// config file.
func NewBaseURLFlag(ns string, path string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "base-url",
		Usage: "catalog API root",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DEXCTL_BASE_URL"),
		),
		Value: pokeapi.DefaultBaseURL,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, URLValidator)
		},
	}

	return NameSpacedValueChainFlagFromConfigFile(ns, path, flag)
}

// NewLimitFlag constructs the --limit flag with the given default.
func NewLimitFlag(ns string, def int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "maximum number of catalog entries to read",
		Sources: cli.NewValueSourceChain(
			configSources(ns, "limit", cfg.Source)...,
		),
		Value: def,
		Validator: func(value int) error {
			return FlagValidators(value, PositiveIntValidator)
		},
	}
}

// NewConcurrencyFlag constructs the --concurrency flag.
func NewConcurrencyFlag(ns string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "concurrency",
		Usage: "maximum simultaneous detail requests",
		Sources: cli.NewValueSourceChain(
			configSources(ns, "concurrency", cfg.Source)...,
		),
		Value: catalog.DefaultConcurrency,
		Validator: func(value int) error {
			return FlagValidators(value, PositiveIntValidator)
		},
	}
}

// NewTypesFlag constructs the --types flag used to narrow a gallery.
func NewTypesFlag(ns string) *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:  "types",
		Usage: "only entries carrying every listed type",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+".types", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	flag.Sources.Chain = append(flag.Sources.Chain, configSources(ns, flag.Name, path)...)
	return flag
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
