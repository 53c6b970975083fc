// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/meta"
	"github.com/staranto/relq/internal/release"
)

// LatestRow is the highest version of one repository.
type LatestRow struct {
	Repo   string `json:"repo"`
	Latest string `json:"latest"`
	Source string `json:"source"`
}

// lqCommandAction resolves the latest stable release, or the latest tag with
// --tags, of every repository argument.
func lqCommandAction(ctx context.Context, cmd *cli.Command) error {
	useTags := cmd.Bool("tags")

	runner := &QueryActionRunner[LatestRow]{
		CommandName:  "lq",
		SchemaType:   reflect.TypeOf(LatestRow{}),
		DefaultAttrs: []string{".repo", ".latest"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, c *release.Client) ([]LatestRow, error) {
			return ResolveAll(ctx, cmd.Args().Slice(), cmd.Int("parallel"),
				func(ctx context.Context, repo string) ([]LatestRow, error) {
					var (
						latest string
						err    error
						source = "releases"
					)
					if useTags {
						source = "tags"
						latest, err = c.LatestTag(ctx, repo)
					} else {
						latest, err = c.LatestRelease(ctx, repo)
					}
					if err != nil {
						return nil, err
					}
					return []LatestRow{{Repo: repo, Latest: latest, Source: source}}, nil
				})
		},
	}
	return runner.Run(ctx, cmd)
}

// lqCommandBuilder constructs the cli.Command for "lq".
func lqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "lq",
		Usage:     "latest version query",
		UsageText: `relq lq <owner/repo>... [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tags",
				Usage: "pick the latest tag instead of the latest release",
			},
		},
		Action: lqCommandAction,
		Meta:   meta,
	}).Build()
}
