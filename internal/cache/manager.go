// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
)

// Option customizes a Manager.
type Option func(*options)

type options struct {
	fresh time.Duration
	now   func() time.Time
}

// WithFreshDuration sets how long a stored value stays fresh. Zero, the
// default, means the value never expires by age and only removal of the file
// invalidates it.
func WithFreshDuration(d time.Duration) Option {
	return func(o *options) { o.fresh = d }
}

// WithClock replaces time.Now when judging freshness.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Manager caches a single value of type T in a single file.
//
// The value is held in memory in its JSON form and decoded on every read, so
// callers always receive their own copy. An empty path keeps the value in
// memory only.
type Manager[T any] struct {
	path  string
	fresh time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	raw      []byte
	storedAt time.Time
}

// NewManager returns a Manager persisting to path.
func NewManager[T any](path string, opts ...Option) *Manager[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Manager[T]{
		path:  path,
		fresh: o.fresh,
		now:   o.now,
	}
}

// Path returns the file backing the Manager, or "" if it is memory only.
func (m *Manager[T]) Path() string {
	return m.path
}

// FreshDuration returns the configured freshness window.
func (m *Manager[T]) FreshDuration() time.Duration {
	return m.fresh
}

// GetOrTryInit returns the cached value when one is present and fresh.
// Otherwise it calls compute, stores the result and returns it. compute runs
// at most once at a time per Manager; callers arriving while it runs wait and
// then share its result. A compute error is returned as is and nothing is
// stored, so the next call tries again.
func (m *Manager[T]) GetOrTryInit(compute func() (T, error)) (T, error) {
	if v, ok := m.memory(); ok {
		return v, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Someone may have populated it while we waited for the lock.
	if v, ok := m.memoryLocked(); ok {
		return v, nil
	}

	if raw, at, ok := m.load(); ok && m.isFresh(at) {
		if v, err := decode[T](raw); err == nil {
			m.raw, m.storedAt = raw, at
			log.Debugf("cache hit: %s", m.path)
			return v, nil
		}
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warnf("failed to encode cache value for %s", m.path)
		return v, nil
	}

	m.raw, m.storedAt = raw, m.now()
	if err := m.persist(raw); err != nil {
		log.WithError(err).Warnf("failed to write cache file %s", m.path)
	}

	return v, nil
}

// Peek reports whether a fresh value is available, in memory or on disk,
// without computing one.
func (m *Manager[T]) Peek() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.raw != nil && m.isFresh(m.storedAt) {
		return true
	}
	_, at, ok := m.load()
	return ok && m.isFresh(at)
}

// Invalidate forgets the in-memory value and removes the backing file.
func (m *Manager[T]) Invalidate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.raw = nil
	m.storedAt = time.Time{}

	if m.path == "" {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

func (m *Manager[T]) memory() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memoryLocked()
}

// memoryLocked requires m.mu to be held.
func (m *Manager[T]) memoryLocked() (T, bool) {
	var zero T
	if m.raw == nil || !m.isFresh(m.storedAt) {
		return zero, false
	}
	v, err := decode[T](m.raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// isFresh judges a value stored at at. A stamp in the future, from clock skew
// or a hand-set mtime, is stale.
func (m *Manager[T]) isFresh(at time.Time) bool {
	if m.fresh <= 0 {
		return true
	}
	now := m.now()
	if at.After(now) {
		return false
	}
	return now.Sub(at) < m.fresh
}

// load reads the backing file. Any failure is a miss.
func (m *Manager[T]) load() ([]byte, time.Time, bool) {
	if m.path == "" {
		return nil, time.Time{}, false
	}

	info, err := os.Stat(m.path)
	if err != nil || info.IsDir() {
		return nil, time.Time{}, false
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		log.WithError(err).Debugf("cache read failed: %s", m.path)
		return nil, time.Time{}, false
	}

	raw, err := decompress(data)
	if err != nil {
		log.WithError(err).Debugf("cache file corrupt: %s", m.path)
		return nil, time.Time{}, false
	}

	return raw, info.ModTime(), true
}

// persist replaces the backing file by writing a temp file and renaming it
// into place.
func (m *Manager[T]) persist(raw []byte) error {
	if m.path == "" {
		return nil
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(compress(raw)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}
