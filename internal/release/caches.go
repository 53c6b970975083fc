// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"path/filepath"

	"github.com/staranto/relq/internal/cache"
)

// File name suffixes and the subdirectory of each group. Single releases live
// in their own directory so a tag named "releases" or "tags" can never land on
// a list's file.
const (
	releasesSuffix = "-releases"
	tagsSuffix     = "-tags"
	releaseDir     = "release"
)

// Caches holds one cache group per result shape. It is built once at startup
// and shared by every Client that should see the same entries.
type Caches struct {
	Releases *cache.Group[[]Release]
	Release  *cache.Group[Release]
	Tags     *cache.Group[[]string]
}

// NewCaches builds the groups under dir. An empty dir keeps everything in
// memory.
func NewCaches(dir string, opts ...cache.Option) *Caches {
	single := ""
	if dir != "" {
		single = filepath.Join(dir, releaseDir)
	}

	return &Caches{
		Releases: cache.NewGroup[[]Release](dir, releasesSuffix, opts...),
		Release:  cache.NewGroup[Release](single, "", opts...),
		Tags:     cache.NewGroup[[]string](dir, tagsSuffix, opts...),
	}
}
