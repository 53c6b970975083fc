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

// TagRow is one tag of one repository.
type TagRow struct {
	Repo string `json:"repo"`
	Name string `json:"name"`
}

// tqCommandAction lists the tags of every repository argument. Tags are not
// filtered.
func tqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[TagRow]{
		CommandName:  "tq",
		SchemaType:   reflect.TypeOf(TagRow{}),
		DefaultAttrs: []string{".repo", ".name:tag"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, c *release.Client) ([]TagRow, error) {
			return ResolveAll(ctx, cmd.Args().Slice(), cmd.Int("parallel"),
				func(ctx context.Context, repo string) ([]TagRow, error) {
					tags, err := c.ListTags(ctx, repo)
					if err != nil {
						return nil, err
					}
					rows := make([]TagRow, 0, len(tags))
					for _, t := range tags {
						rows = append(rows, TagRow{Repo: repo, Name: t})
					}
					return rows, nil
				})
		},
	}
	return runner.Run(ctx, cmd)
}

// tqCommandBuilder constructs the cli.Command for "tq".
func tqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tq",
		Usage:     "tag query",
		UsageText: `relq tq <owner/repo>... [options]`,
		Action:    tqCommandAction,
		Meta:      meta,
	}).Build()
}
