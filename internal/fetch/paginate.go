// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"net/url"

	"github.com/apex/log"
)

// All fetches url and decodes it as a page of T. When all is true it keeps
// following rel="next" links, appending each page in order, until there is
// no next link. When all is false only the first page is returned. Any page
// error aborts the walk and the pages gathered so far are discarded.
func All[T any](ctx context.Context, f Fetcher, start string, all bool) ([]T, error) {
	var results []T

	seen := map[string]bool{}
	for page := start; page != ""; {
		seen[page] = true

		var items []T
		headers, err := f.JSON(ctx, page, &items)
		if err != nil {
			return nil, err
		}
		results = append(results, items...)

		if !all {
			break
		}

		next, ok := NextPage(headers)
		if !ok {
			break
		}
		next = resolve(page, next)
		if seen[next] {
			log.Warnf("pagination loop at %s, stopping", next)
			break
		}
		page = next
	}

	return results, nil
}

// resolve makes a relative next link absolute against the page it came from.
func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
