// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides disk-persisted, time-to-live caching of single
// values. A Manager owns one value stored in one file and populates it at most
// once per freshness window. A Group lazily creates one Manager per key.
package cache
