// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package fetch talks to the remote release API. It provides the HTTP client
// used for every request, Link header parsing, and a paginator that follows
// rel="next" links.
package fetch
