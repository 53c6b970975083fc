// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/cacheutil"
	"github.com/staranto/relq/internal/config"
	"github.com/staranto/relq/internal/meta"
)

// InitApp builds the relq command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the relq
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load()
	config.Config.Namespace = ns

	root, ok, err := cacheutil.EnsureBaseDir()
	if err != nil {
		log.WithError(err).Warn("disk cache disabled")
	}
	if !ok {
		root = ""
	}

	return NewApp(meta.Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		CacheRoot: root,
	}), nil
}

// NewApp returns the root command with every subcommand wired to m.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "relq",
		Usage: "Release Query",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "relq version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		rqCommandBuilder(m),
		tqCommandBuilder(m),
		riCommandBuilder(m),
		lqCommandBuilder(m),
		cacheCommandBuilder(m),
		CompletionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
