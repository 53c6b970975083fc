// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/relq/internal/config"
	"github.com/staranto/relq/internal/fetch"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// CacheRoot is the base cache directory, or "" when disk caching is off.
	CacheRoot string
	// Fetcher, when set, replaces the HTTP client built from flags.
	Fetcher fetch.Fetcher
}
