// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/meta"
	"github.com/staranto/relq/internal/release"
)

// ReleaseRow is one stable release of one repository.
type ReleaseRow struct {
	Repo string `json:"repo"`
	release.Release
}

// rqCommandAction lists the stable releases of every repository argument.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[ReleaseRow]{
		CommandName:  "rq",
		SchemaType:   reflect.TypeOf(ReleaseRow{}),
		DefaultAttrs: []string{".repo", ".tag_name:tag", ".assets.#:assets"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, c *release.Client) ([]ReleaseRow, error) {
			return ResolveAll(ctx, cmd.Args().Slice(), cmd.Int("parallel"),
				func(ctx context.Context, repo string) ([]ReleaseRow, error) {
					releases, err := c.ListReleases(ctx, repo)
					if err != nil {
						return nil, err
					}
					rows := make([]ReleaseRow, 0, len(releases))
					for _, r := range releases {
						rows = append(rows, ReleaseRow{Repo: repo, Release: r})
					}
					return rows, nil
				})
		},
	}
	return runner.Run(ctx, cmd)
}

// rqCommandBuilder constructs the cli.Command for "rq".
func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "release query",
		UsageText: `relq rq <owner/repo>... [options]`,
		Action:    rqCommandAction,
		Meta:      meta,
	}).Build()
}
