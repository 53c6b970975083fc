// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/meta"
	"github.com/staranto/relq/internal/release"
)

// AssetRow is one downloadable asset of a single release. A release without
// assets yields one row with empty asset fields.
type AssetRow struct {
	Repo string `json:"repo"`
	Tag  string `json:"tag"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// riCommandAction looks up one release of one repository by tag.
func riCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[AssetRow]{
		CommandName:  "ri",
		SchemaType:   reflect.TypeOf(AssetRow{}),
		DefaultAttrs: []string{".tag", ".name:asset", ".url"},
		MinArgs:      2,
		Forget: func(c *release.Client, args []string) error {
			return c.Forget(args[0], args[1])
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command, c *release.Client) ([]AssetRow, error) {
			repo, tag := cmd.Args().Get(0), cmd.Args().Get(1)

			r, err := c.GetRelease(ctx, repo, tag, cmd.String("api"))
			if err != nil {
				return nil, err
			}

			if len(r.Assets) == 0 {
				return []AssetRow{{Repo: repo, Tag: r.TagName}}, nil
			}
			rows := make([]AssetRow, 0, len(r.Assets))
			for _, a := range r.Assets {
				rows = append(rows, AssetRow{Repo: repo, Tag: r.TagName, Name: a.Name, URL: a.BrowserDownloadURL})
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// riCommandValidator requires exactly a repository and a tag.
func riCommandValidator(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("schema") {
		return nil
	}
	if cmd.Args().Len() != 2 {
		return errors.New("ri requires <repo> <tag>")
	}
	if err := RepoValidator(cmd.Args().Get(0)); err != nil {
		return fmt.Errorf("invalid repository %q: %w", cmd.Args().Get(0), err)
	}
	return nil
}

// riCommandBuilder constructs the cli.Command for "ri".
func riCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:       "ri",
		Usage:      "release info for a single tag",
		UsageText:  `relq ri <group/project> <tag> [options]`,
		Action:     riCommandAction,
		Validator:  riCommandValidator,
		DefaultAPI: release.DefaultProjectAPI,
		Meta:       meta,
	}).Build()
}
