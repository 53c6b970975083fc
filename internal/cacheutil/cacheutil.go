// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"

	"github.com/staranto/relq/internal/keys"
)

// Entry represents a cached artifact on disk.
// Rel is the path relative to the cache root.
type Entry struct {
	Rel     string
	Path    string
	Size    int64
	ModTime time.Time
}

// Dir resolves the base cache directory.
// Precedence:
//  1. RELQ_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/relq
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("RELQ_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "relq"), true
	}
	return "", false
}

// Enabled returns true unless RELQ_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("RELQ_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// HostDir returns the directory beneath base that holds entries fetched from
// api. Each API host gets its own directory so the same repository name on
// two servers never shares a file.
func HostDir(base, api string) string {
	if base == "" {
		return ""
	}
	host := api
	if u, err := url.Parse(api); err == nil && u.Host != "" {
		host = u.Host
	}
	if k := keys.Kebab(host); k != "" {
		return filepath.Join(base, k)
	}
	return filepath.Join(base, "default")
}

// List returns every file under the cache root, oldest first.
func List() ([]Entry, error) {
	base, ok := Dir()
	if !ok {
		return nil, nil
	}

	var entries []Entry
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr
		}
		rel, _ := filepath.Rel(base, path)
		entries = append(entries, Entry{
			Rel:     filepath.ToSlash(rel),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.Before(entries[j].ModTime)
	})
	return entries, nil
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) (int, error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	return purge(time.Duration(hours) * time.Hour)
}

// PurgeAll removes every file under the cache root.
func PurgeAll() (int, error) {
	return purge(0)
}

func purge(maxAge time.Duration) (int, error) {
	entries, err := List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if maxAge > 0 && time.Since(e.ModTime) <= maxAge {
			continue
		}
		if err := os.Remove(e.Path); err == nil {
			removed++
			log.Debugf("removed cache file %s", e.Path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("failed to remove cache file %s", e.Path)
		}
	}
	return removed, nil
}
