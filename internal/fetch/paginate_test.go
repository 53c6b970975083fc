// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name string `json:"name"`
}

// pageFetcher serves canned JSON pages keyed by URL.
type pageFetcher struct {
	pages map[string]string
	links map[string]string
	fail  map[string]error
	hits  []string
}

func (f *pageFetcher) JSON(_ context.Context, url string, v any) (http.Header, error) {
	f.hits = append(f.hits, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("unexpected url %s", url)
	}
	h := http.Header{}
	if link := f.links[url]; link != "" {
		h.Set("Link", link)
	}
	return h, json.Unmarshal([]byte(body), v)
}

func threePages() *pageFetcher {
	return &pageFetcher{
		pages: map[string]string{
			"https://api/x?page=1": `[{"name":"a"},{"name":"b"}]`,
			"https://api/x?page=2": `[{"name":"c"}]`,
			"https://api/x?page=3": `[{"name":"d"},{"name":"e"}]`,
		},
		links: map[string]string{
			"https://api/x?page=1": `<https://api/x?page=2>; rel="next", <https://api/x?page=3>; rel="last"`,
			"https://api/x?page=2": `<https://api/x?page=3>; rel="next", <https://api/x?page=1>; rel="first"`,
			"https://api/x?page=3": `<https://api/x?page=1>; rel="first"`,
		},
	}
}

func names(rs []record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestAll_FollowsNextLinks(t *testing.T) {
	f := threePages()

	got, err := All[record](context.Background(), f, "https://api/x?page=1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(got))
	assert.Len(t, f.hits, 3)
}

func TestAll_FirstPageOnly(t *testing.T) {
	f := threePages()

	got, err := All[record](context.Background(), f, "https://api/x?page=1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))
	assert.Equal(t, []string{"https://api/x?page=1"}, f.hits)
}

func TestAll_PageErrorDiscardsEverything(t *testing.T) {
	f := threePages()
	boom := errors.New("boom")
	f.fail = map[string]error{"https://api/x?page=3": boom}

	got, err := All[record](context.Background(), f, "https://api/x?page=1", true)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestAll_RelativeNextLink(t *testing.T) {
	f := &pageFetcher{
		pages: map[string]string{
			"https://api/repos/o/r/tags":        `[{"name":"a"}]`,
			"https://api/repos/o/r/tags?page=2": `[{"name":"b"}]`,
		},
		links: map[string]string{
			"https://api/repos/o/r/tags": `</repos/o/r/tags?page=2>; rel="next"`,
		},
	}

	got, err := All[record](context.Background(), f, "https://api/repos/o/r/tags", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))
}

func TestAll_StopsOnLinkLoop(t *testing.T) {
	f := &pageFetcher{
		pages: map[string]string{
			"https://api/x?page=1": `[{"name":"a"}]`,
			"https://api/x?page=2": `[{"name":"b"}]`,
		},
		links: map[string]string{
			"https://api/x?page=1": `<https://api/x?page=2>; rel="next"`,
			"https://api/x?page=2": `<https://api/x?page=1>; rel="next"`,
		},
	}

	got, err := All[record](context.Background(), f, "https://api/x?page=1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))
}

func TestAll_MalformedLinkEndsPagination(t *testing.T) {
	f := threePages()
	f.links["https://api/x?page=1"] = `<<<garbage`

	got, err := All[record](context.Background(), f, "https://api/x?page=1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))
}
