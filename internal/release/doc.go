// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package release resolves release and tag metadata for repositories from a
// GitHub style API. Every query is cached per repository through the groups
// in Caches.
package release
