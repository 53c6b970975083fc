// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/relq/internal/cache"
	"github.com/staranto/relq/internal/cacheutil"
	"github.com/staranto/relq/internal/config"
	"github.com/staranto/relq/internal/fetch"
	"github.com/staranto/relq/internal/meta"
	"github.com/staranto/relq/internal/output"
	"github.com/staranto/relq/internal/release"
)

// ErrNoRepos is returned when a query command is given no repositories.
var ErrNoRepos = errors.New("at least one repository is required")

// writer returns the root command's writer, falling back to stdout.
func writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if w := cmd.Root().Writer; w != nil {
			return w
		}
	}
	return os.Stdout
}

// DumpSchemaIfRequested prints the attribute paths for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writer(cmd), t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al output.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitRows marshals rows to JSON and passes them to the common output
// routine.
func EmitRows(rows any, al output.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return output.SliceDiceSpit(raw, al, renderOptions(cmd), writer(cmd))
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

// NewReleaseClient builds the release.Client for cmd from its --api, --token
// and --all flags. Cache files go under the per-host directory of the cache
// root in m.
func NewReleaseClient(cmd *cli.Command, m meta.Meta) (*release.Client, error) {
	api := cmd.String("api")

	fresh, err := freshDuration()
	if err != nil {
		return nil, err
	}

	f := m.Fetcher
	if f == nil {
		f = fetch.NewClient(fetch.WithToken(cmd.String("token")))
	}

	dir := cacheutil.HostDir(m.CacheRoot, api)
	log.Debugf("cache dir: %q, fresh: %s", dir, fresh)

	caches := release.NewCaches(dir, cache.WithFreshDuration(fresh))
	return release.NewClient(f, caches,
		release.WithAPI(api),
		release.WithFetchAll(cmd.Bool("all")),
	), nil
}

// freshDuration reads cache.fresh from the config file.
func freshDuration() (time.Duration, error) {
	fresh, err := config.GetDuration("cache.fresh", release.DefaultFreshDuration)
	if err != nil {
		return 0, fmt.Errorf("invalid cache.fresh: %w", err)
	}
	return fresh, nil
}

// ResolveAll calls fn for every repo with at most parallel calls in flight
// and returns the results concatenated in repo order. The first error cancels
// the rest.
func ResolveAll[T any](
	ctx context.Context,
	repos []string,
	parallel int,
	fn func(context.Context, string) ([]T, error),
) ([]T, error) {
	if parallel < 1 {
		parallel = 1
	}

	parts := make([][]T, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, repo := range repos {
		g.Go(func() error {
			rows, err := fn(gctx, repo)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// QueryCommandBuilder is a helper that constructs a cli.Command for query
// subcommands (rq, tq, ri, lq) using a consistent pattern. The builder wires
// metadata, adds the schema flag, applies the global and query flags, and
// sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Validator func(context.Context, *cli.Command) error
	// DefaultAPI overrides release.DefaultAPI as the --api default.
	DefaultAPI string
	Meta       meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	validate := qcb.Validator
	if validate == nil {
		validate = GlobalFlagsValidator
	}

	flags := append([]cli.Flag{newSchemaFlag()}, qcb.Flags...)
	flags = append(flags, NewQueryFlags(qcb.Name, qcb.DefaultAPI)...)
	flags = append(flags, NewGlobalFlags(qcb.Name)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, validate(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern for all
// query subcommands: schema short-circuit, attrs, client setup, refresh,
// fetching through FetchFn and output emission.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	// MinArgs is the number of positional args required, 1 when zero.
	MinArgs int
	// Forget lists the cache entries --refresh drops before fetching.
	Forget  func(*release.Client, []string) error
	FetchFn func(context.Context, *cli.Command, *release.Client) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.WithField("command", qar.CommandName).Debugf("Executing action for %v", cmd.Args().Slice())

	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	minArgs := max(qar.MinArgs, 1)
	if cmd.Args().Len() < minArgs {
		return ErrNoRepos
	}

	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	client, err := NewReleaseClient(cmd, m)
	if err != nil {
		return err
	}

	if cmd.Bool("refresh") {
		forget := qar.Forget
		if forget == nil {
			forget = forgetRepos
		}
		if err := forget(client, cmd.Args().Slice()); err != nil {
			log.WithError(err).Warn("failed to drop cached entries")
		}
	}

	results, err := qar.FetchFn(ctx, cmd, client)
	if err != nil {
		return err
	}

	if results == nil {
		results = []T{}
	}
	return EmitRows(results, attrs, cmd)
}

func forgetRepos(c *release.Client, repos []string) error {
	errs := make([]error, 0, len(repos))
	for _, r := range repos {
		errs = append(errs, c.Forget(r))
	}
	return errors.Join(errs...)
}
