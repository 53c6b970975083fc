// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/cache"
	"github.com/staranto/relq/internal/cacheutil"
	"github.com/staranto/relq/internal/meta"
)

// CacheRow describes one file under the cache root. Fresh is true while the
// file still answers queries without a refetch.
type CacheRow struct {
	File     string `json:"file"`
	Bytes    int64  `json:"bytes"`
	Size     string `json:"size"`
	Modified string `json:"modified"`
	Age      string `json:"age"`
	Fresh    bool   `json:"fresh"`
	Expires  string `json:"expires"`
}

var errNoCacheDir = errors.New("cache directory cannot be resolved")

func cacheLsAction(_ context.Context, cmd *cli.Command) error {
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(CacheRow{})) {
		return nil
	}

	fresh, err := freshDuration()
	if err != nil {
		return err
	}

	entries, err := cacheutil.List()
	if err != nil {
		return err
	}

	rows := make([]CacheRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, newCacheRow(e, fresh))
	}

	attrs := BuildAttrs(cmd, ".file", ".size", ".age", ".fresh")
	return EmitRows(rows, attrs, cmd)
}

// newCacheRow describes e. Freshness is judged the way a query would judge
// it, so files that are not readable cache entries are never fresh.
func newCacheRow(e cacheutil.Entry, fresh time.Duration) CacheRow {
	m := cache.NewManager[json.RawMessage](e.Path, cache.WithFreshDuration(fresh))

	row := CacheRow{
		File:     e.Rel,
		Bytes:    e.Size,
		Size:     humanize.Bytes(uint64(max(e.Size, 0))),
		Modified: e.ModTime.UTC().Format(time.RFC3339),
		Age:      humanize.Time(e.ModTime),
		Fresh:    m.Peek(),
		Expires:  "never",
	}
	if d := m.FreshDuration(); d > 0 {
		row.Expires = humanize.Time(e.ModTime.Add(d))
	}
	return row
}

func cachePurgeAction(_ context.Context, cmd *cli.Command) error {
	var (
		removed int
		err     error
	)
	if hours := cmd.Int("hours"); hours > 0 {
		removed, err = cacheutil.Purge(hours)
	} else {
		removed, err = cacheutil.PurgeAll()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(writer(cmd), "removed %s %s\n", humanize.Comma(int64(removed)), plural(removed, "file", "files"))
	return nil
}

func cachePathAction(_ context.Context, cmd *cli.Command) error {
	dir, ok := cacheutil.Dir()
	if !ok {
		return errNoCacheDir
	}
	fmt.Fprintln(writer(cmd), dir)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// cacheCommandBuilder constructs the cli.Command for "cache" and its
// subcommands.
func cacheCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect and clean the response cache",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "list cached files with size and age",
				Flags:  append([]cli.Flag{newSchemaFlag()}, NewGlobalFlags("cache")...),
				Action: cacheLsAction,
			},
			{
				Name:  "purge",
				Usage: "remove cached files",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "only remove files older than this many hours; 0 removes everything",
					},
				},
				Action: cachePurgeAction,
			},
			{
				Name:   "path",
				Usage:  "print the cache directory",
				Action: cachePathAction,
			},
		},
	}
}
