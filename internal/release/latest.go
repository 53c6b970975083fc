// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ErrNoVersions is returned when nothing in a list parses as a version.
var ErrNoVersions = errors.New("no semantic versions found")

// Latest returns the highest semantic version among names. Names that do not
// parse are skipped, as are prerelease versions unless nothing else parses.
func Latest(names []string) (string, error) {
	var best, bestPre *semver.Version
	var bestName, bestPreName string

	for _, n := range names {
		v, err := semver.NewVersion(n)
		if err != nil {
			continue
		}
		if v.Prerelease() != "" {
			if bestPre == nil || v.GreaterThan(bestPre) {
				bestPre, bestPreName = v, n
			}
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestName = v, n
		}
	}

	switch {
	case best != nil:
		return bestName, nil
	case bestPre != nil:
		return bestPreName, nil
	default:
		return "", ErrNoVersions
	}
}

// SortVersions orders names by semantic version, highest first. Names that do
// not parse go last in their original order.
func SortVersions(names []string) []string {
	type parsed struct {
		name string
		v    *semver.Version
	}

	ps := make([]parsed, 0, len(names))
	for _, n := range names {
		v, _ := semver.NewVersion(n)
		ps = append(ps, parsed{name: n, v: v})
	}

	sort.SliceStable(ps, func(i, j int) bool {
		switch {
		case ps[i].v == nil:
			return false
		case ps[j].v == nil:
			return true
		default:
			return ps[i].v.GreaterThan(ps[j].v)
		}
	})

	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.name)
	}
	return out
}

// LatestRelease returns the tag of the highest stable release of repo.
func (c *Client) LatestRelease(ctx context.Context, repo string) (string, error) {
	releases, err := c.ListReleases(ctx, repo)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(releases))
	for _, r := range releases {
		names = append(names, r.TagName)
	}

	latest, err := Latest(names)
	if err != nil {
		return "", fmt.Errorf("%s releases: %w", repo, err)
	}
	return latest, nil
}

// LatestTag returns the highest version tag of repo.
func (c *Client) LatestTag(ctx context.Context, repo string) (string, error) {
	tags, err := c.ListTags(ctx, repo)
	if err != nil {
		return "", err
	}

	latest, err := Latest(tags)
	if err != nil {
		return "", fmt.Errorf("%s tags: %w", repo, err)
	}
	return latest, nil
}
