// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fetch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPage(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
		wantOK bool
	}{
		{
			name:   "github style",
			values: []string{`<https://api.example.com/repos/o/r/releases?page=2>; rel="next", <https://api.example.com/repos/o/r/releases?page=5>; rel="last"`},
			want:   "https://api.example.com/repos/o/r/releases?page=2",
			wantOK: true,
		},
		{
			name:   "next is not first",
			values: []string{`<https://x/p=1>; rel="prev", <https://x/p=3>; rel="next"`},
			want:   "https://x/p=3",
			wantOK: true,
		},
		{
			name:   "unquoted rel",
			values: []string{`<https://x/p=2>; rel=next`},
			want:   "https://x/p=2",
			wantOK: true,
		},
		{
			name:   "multiple relation types",
			values: []string{`<https://x/p=2>; rel="next last"`},
			want:   "https://x/p=2",
			wantOK: true,
		},
		{
			name:   "separate header values",
			values: []string{`<https://x/p=1>; rel="first"`, `<https://x/p=2>; rel="next"`},
			want:   "https://x/p=2",
			wantOK: true,
		},
		{
			name:   "last page",
			values: []string{`<https://x/p=1>; rel="first", <https://x/p=4>; rel="prev"`},
			wantOK: false,
		},
		{
			name:   "no header",
			wantOK: false,
		},
		{
			name:   "garbage",
			values: []string{`this is not a link header`},
			wantOK: false,
		},
		{
			name:   "empty target",
			values: []string{`<>; rel="next"`},
			wantOK: false,
		},
		{
			name:   "upper case rel",
			values: []string{`<https://x/p=2>; REL="Next"`},
			want:   "https://x/p=2",
			wantOK: true,
		},
		{
			name:   "params besides rel",
			values: []string{`<https://x/p=2>; title="page two"; rel="next"`},
			want:   "https://x/p=2",
			wantOK: true,
		},
		{
			name:   "rel without target",
			values: []string{`rel="next"`},
			wantOK: false,
		},
		{
			name:   "nextish relation",
			values: []string{`<https://x/p=2>; rel="nextpage"`},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.values {
				h.Add("Link", v)
			}
			got, ok := NextPage(h)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
