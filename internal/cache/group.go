// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"path/filepath"
	"sort"
	"sync"
)

// Group lazily creates and owns one Manager per key. Every Manager in a Group
// persists to <dir>/<key><suffix>.json.zst and shares the Group's options.
type Group[T any] struct {
	dir    string
	suffix string
	opts   []Option

	mu       sync.RWMutex
	managers map[string]*Manager[T]
}

// NewGroup returns an empty Group. An empty dir makes every Manager memory
// only.
func NewGroup[T any](dir, suffix string, opts ...Option) *Group[T] {
	return &Group[T]{
		dir:      dir,
		suffix:   suffix,
		opts:     opts,
		managers: make(map[string]*Manager[T]),
	}
}

// Get returns the Manager for key, creating it on first use. Lookups of
// existing keys only take the read lock.
func (g *Group[T]) Get(key string) *Manager[T] {
	g.mu.RLock()
	m, ok := g.managers[key]
	g.mu.RUnlock()
	if ok {
		return m
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if m, ok := g.managers[key]; ok {
		return m
	}
	m = NewManager[T](g.Path(key), g.opts...)
	g.managers[key] = m
	return m
}

// Path returns the file a key's Manager persists to.
func (g *Group[T]) Path(key string) string {
	if g.dir == "" {
		return ""
	}
	return filepath.Join(g.dir, key+g.suffix+FileExt)
}

// Keys returns the keys created so far, sorted.
func (g *Group[T]) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.managers))
	for k := range g.managers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
