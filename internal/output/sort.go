// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type sortKey struct {
	name          string
	desc          bool
	caseSensitive bool
}

// parseSortSpec splits a --sort spec. Each comma-separated field may be
// prefixed with '-' for descending and '!' for case-sensitive comparison, in
// either order.
func parseSortSpec(spec string) []sortKey {
	var out []sortKey
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		k := sortKey{}
		for len(f) > 0 && (f[0] == '-' || f[0] == '!') {
			if f[0] == '-' {
				k.desc = true
			} else {
				k.caseSensitive = true
			}
			f = f[1:]
		}
		if f == "" {
			continue
		}
		k.name = f
		out = append(out, k)
	}
	return out
}

// SortDataset orders rows in place by spec. Numbers compare numerically,
// strings that are both semantic versions compare as versions, other strings
// compare case-insensitively unless marked with '!'. Missing values sort
// last regardless of direction.
func SortDataset(data []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(data, func(i, j int) bool {
		for _, k := range keys {
			a, b := data[i][k.name], data[j][k.name]
			switch {
			case a == nil && b == nil:
				continue
			case a == nil:
				return false
			case b == nil:
				return true
			}

			c := compareValues(a, b, k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	sa, sb := InterfaceToString(a), InterfaceToString(b)

	if va, err := semver.NewVersion(sa); err == nil {
		if vb, err := semver.NewVersion(sb); err == nil {
			return va.Compare(vb)
		}
	}

	if !caseSensitive {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	return strings.Compare(sa, sb)
}
