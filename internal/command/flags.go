// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/relq/internal/config"
	"github.com/staranto/relq/internal/output"
	"github.com/staranto/relq/internal/release"
)

func init() {
	cfg, _ = config.Load()
}

// DefaultParallel bounds concurrent repository lookups.
const DefaultParallel = 4

var cfg config.Type

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

// stdoutIsTerminal decides the --color default.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// configSources returns the namespaced then global config file sources for
// key.
func configSources(ns, key string) []cli.ValueSource {
	return []cli.ValueSource{
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(cfg.Source)),
		yaml.YAML(key, altsrc.StringSourcer(cfg.Source)),
	}
}

// NewGlobalFlags returns the rendering flags shared by every query command.
// params[0] is the command name, used as the config namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns := params[0]

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"attrs", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(configSources(ns, "color")...),
			Value:   stdoutIsTerminal(),
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
			Sources: cli.NewValueSourceChain(configSources(ns, "output")...),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(configSources(ns, "titles")...),
			Value:   false,
		},
	}

	return
}

// NewQueryFlags returns the flags that control how a command talks to the
// release API and its cache.
func NewQueryFlags(ns, defaultAPI string) []cli.Flag {
	return []cli.Flag{
		NewAPIFlag(ns, defaultAPI),
		&cli.BoolFlag{
			Name:  "all",
			Usage: "follow every page of results instead of just the first",
			Sources: cli.NewValueSourceChain(append(
				[]cli.ValueSource{cli.EnvVar("RELQ_LIST_ALL")},
				configSources(ns, "all")...)...),
		},
		&cli.IntFlag{
			Name:    "parallel",
			Aliases: []string{"p"},
			Usage:   "maximum concurrent repository lookups",
			Sources: cli.NewValueSourceChain(configSources(ns, "parallel")...),
			Value:   DefaultParallel,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "refresh",
			Aliases: []string{"r"},
			Usage:   "ignore cached answers and query the API again",
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "API bearer token",
			HideDefault: true,
			Sources: cli.NewValueSourceChain(append(
				[]cli.ValueSource{cli.EnvVar("RELQ_TOKEN"), cli.EnvVar("GITHUB_TOKEN")},
				configSources(ns, "token")...)...),
		},
	}
}

// NewAPIFlag constructs the "api" flag, namespaced to a command and the
// config file. An empty defaultAPI means release.DefaultAPI.
func NewAPIFlag(ns, defaultAPI string) *cli.StringFlag {
	if defaultAPI == "" {
		defaultAPI = release.DefaultAPI
	}
	flag := &cli.StringFlag{
		Name:  "api",
		Usage: "release API base URL",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("RELQ_API"),
		),
		Value: defaultAPI,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, URLValidator)
		},
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, flag)
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// renderOptions collects the rendering flags of cmd.
func renderOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Output: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}
