// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"net/http"
	"strings"

	"github.com/tomnomnom/linkheader"
)

// NextPage returns the target of the rel="next" relation in the Link headers.
// A missing or malformed header yields ("", false).
func NextPage(h http.Header) (string, bool) {
	for _, link := range linkheader.ParseMultiple(h.Values("Link")) {
		if link.URL == "" {
			continue
		}
		// rel may hold several space separated relation types.
		for _, rel := range strings.Fields(link.Rel) {
			if strings.EqualFold(rel, "next") {
				return link.URL, true
			}
		}
	}

	return "", false
}
