// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/apex/log"

	"github.com/staranto/relq/internal/fetch"
	"github.com/staranto/relq/internal/keys"
)

const (
	// DefaultAPI is the API base used for the list endpoints.
	DefaultAPI = "https://api.github.com"

	// DefaultProjectAPI is the API base for single release lookups.
	DefaultProjectAPI = "https://gitlab.com/api/v4"

	// DefaultFreshDuration is how long a cached answer is trusted.
	DefaultFreshDuration = 24 * time.Hour
)

// ErrInvalidRepo is returned when a repository name has no usable characters.
var ErrInvalidRepo = errors.New("invalid repository")

// Client answers release and tag queries, populating its Caches on demand.
type Client struct {
	fetcher  fetch.Fetcher
	caches   *Caches
	api      string
	fetchAll atomic.Bool
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithAPI overrides DefaultAPI.
func WithAPI(api string) ClientOption {
	return func(c *Client) { c.api = strings.TrimRight(api, "/") }
}

// WithFetchAll sets the initial fetch-all mode.
func WithFetchAll(all bool) ClientOption {
	return func(c *Client) { c.fetchAll.Store(all) }
}

// NewClient returns a Client using f for requests and caches for storage.
func NewClient(f fetch.Fetcher, caches *Caches, opts ...ClientOption) *Client {
	c := &Client{
		fetcher: f,
		caches:  caches,
		api:     DefaultAPI,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// API returns the base URL of the list endpoints.
func (c *Client) API() string {
	return c.api
}

// SetFetchAll toggles whether list queries follow every page or stop after
// the first. It is read once at the start of each list query.
func (c *Client) SetFetchAll(all bool) {
	c.fetchAll.Store(all)
}

// FetchAll reports the current fetch-all mode.
func (c *Client) FetchAll() bool {
	return c.fetchAll.Load()
}

// ListReleases returns the stable releases of repo, newest first as the API
// orders them. Concurrent callers for one repo wait on a single fetch; a
// caller that ends up fetching does so under its own ctx.
func (c *Client) ListReleases(ctx context.Context, repo string) ([]Release, error) {
	key, err := repoKey(repo)
	if err != nil {
		return nil, err
	}

	return c.caches.Releases.Get(key).GetOrTryInit(func() ([]Release, error) {
		return c.listReleases(ctx, repo)
	})
}

func (c *Client) listReleases(ctx context.Context, repo string) ([]Release, error) {
	all := c.fetchAll.Load()
	log.WithFields(log.Fields{"repo": repo, "all": all}).Debug("listing releases")

	u := fmt.Sprintf("%s/repos/%s/releases", c.api, repo)
	releases, err := fetch.All[Release](ctx, c.fetcher, u, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases for %s: %w", repo, err)
	}

	return Stable(releases), nil
}

// ListTags returns the tag names of repo. Tags carry no draft or prerelease
// state, so nothing is filtered.
func (c *Client) ListTags(ctx context.Context, repo string) ([]string, error) {
	key, err := repoKey(repo)
	if err != nil {
		return nil, err
	}

	return c.caches.Tags.Get(key).GetOrTryInit(func() ([]string, error) {
		return c.listTags(ctx, repo)
	})
}

func (c *Client) listTags(ctx context.Context, repo string) ([]string, error) {
	all := c.fetchAll.Load()
	log.WithFields(log.Fields{"repo": repo, "all": all}).Debug("listing tags")

	u := fmt.Sprintf("%s/repos/%s/tags", c.api, repo)
	tags, err := fetch.All[Tag](ctx, c.fetcher, u, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s: %w", repo, err)
	}

	return TagNames(tags), nil
}

// GetRelease returns the release of repo tagged tag from the project-style
// endpoint under apiBase. An empty apiBase uses the Client's API.
func (c *Client) GetRelease(ctx context.Context, repo, tag, apiBase string) (Release, error) {
	if _, err := repoKey(repo); err != nil {
		return Release{}, err
	}
	key := keys.Join(repo, tag)

	if apiBase == "" {
		apiBase = c.api
	}
	apiBase = strings.TrimRight(apiBase, "/")

	return c.caches.Release.Get(key).GetOrTryInit(func() (Release, error) {
		u := fmt.Sprintf("%s/projects/%s/releases/%s", apiBase, url.PathEscape(repo), url.PathEscape(tag))
		log.WithFields(log.Fields{"repo": repo, "tag": tag}).Debug("getting release")

		var r Release
		if _, err := c.fetcher.JSON(ctx, u, &r); err != nil {
			return Release{}, fmt.Errorf("failed to get release %s of %s: %w", tag, repo, err)
		}
		return r, nil
	})
}

// Forget drops the cached release and tag lists of repo and, when tags are
// given, the cached single releases for them.
func (c *Client) Forget(repo string, tags ...string) error {
	key, err := repoKey(repo)
	if err != nil {
		return err
	}

	errs := []error{
		c.caches.Releases.Get(key).Invalidate(),
		c.caches.Tags.Get(key).Invalidate(),
	}
	for _, tag := range tags {
		errs = append(errs, c.caches.Release.Get(keys.Join(repo, tag)).Invalidate())
	}

	return errors.Join(errs...)
}

func repoKey(repo string) (string, error) {
	key := keys.Kebab(repo)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRepo, repo)
	}
	return key, nil
}
