// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package keys turns repository identifiers into the canonical tokens used as
// cache keys and cache file names.
package keys

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Kebab returns the lowercase, hyphen-separated form of s. Words are split on
// any run of non-alphanumeric characters, on case boundaries and on
// letter/digit boundaries, so "jdx/MiseEn-Place" and "jdx_mise-en place" both
// become "jdx-mise-en-place" and "v1.2.3" becomes "v-1-2-3". Distinct inputs
// may collapse to the same token and share a cache entry.
func Kebab(s string) string {
	return strcase.ToKebab(collapse(s))
}

// Join kebabs the parts as if they had been joined with a hyphen.
func Join(parts ...string) string {
	return Kebab(strings.Join(parts, "-"))
}

// collapse replaces every run of non-alphanumeric runes with a single hyphen
// and lowers non-ASCII letters, leaving ASCII case for strcase to split on.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	sep := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false

		if r > unicode.MaxASCII {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	return b.String()
}
