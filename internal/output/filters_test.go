// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{name: "empty spec", spec: ""},
		{
			name: "single exact match filter",
			spec: "repo=cli/cli",
			want: []Filter{{Key: "repo", Operand: "=", Target: "cli/cli"}},
		},
		{
			name: "prefix match filter",
			spec: "tag^v2.",
			want: []Filter{{Key: "tag", Operand: "^", Target: "v2."}},
		},
		{
			name: "negated exact match",
			spec: "tag!=v1.0.0",
			want: []Filter{{Key: "tag", Operand: "=", Target: "v1.0.0", Negate: true}},
		},
		{
			name: "multiple filters",
			spec: "repo=cli/cli,tag^v2",
			want: []Filter{
				{Key: "repo", Operand: "=", Target: "cli/cli"},
				{Key: "tag", Operand: "^", Target: "v2"},
			},
		},
		{
			name: "greater than numeric",
			spec: "assets>5",
			want: []Filter{{Key: "assets", Operand: ">", Target: "5"}},
		},
		{
			name: "regex operand",
			spec: "tag/^v[0-9]+$",
			want: []Filter{{Key: "tag", Operand: "/", Target: "^v[0-9]+$"}},
		},
		{
			name: "invalid filter skipped",
			spec: "repo=cli/cli,invalid-filter,tag^v2",
			want: []Filter{
				{Key: "repo", Operand: "=", Target: "cli/cli"},
				{Key: "tag", Operand: "^", Target: "v2"},
			},
		},
		{
			name: "missing key skipped",
			spec: "=v1",
		},
		{
			name:      "custom delimiter",
			spec:      "tag/^v(1|2),x;repo@cli",
			delimiter: ";",
			want: []Filter{
				{Key: "tag", Operand: "/", Target: "^v(1|2),x"},
				{Key: "repo", Operand: "@", Target: "cli"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("RELQ_FILTER_DELIM", tt.delimiter)
			}
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"equal", "v1", Filter{Operand: "=", Target: "v1"}, true},
		{"not equal", "v1", Filter{Operand: "=", Target: "v1", Negate: true}, false},
		{"fold", "CLI", Filter{Operand: "~", Target: "cli"}, true},
		{"prefix", "v2.1.0", Filter{Operand: "^", Target: "v2"}, true},
		{"not prefix", "v2.1.0", Filter{Operand: "^", Target: "v2", Negate: true}, false},
		{"greater", "b", Filter{Operand: ">", Target: "a"}, true},
		{"less", "b", Filter{Operand: "<", Target: "a"}, false},
		{"contains", "v1.0.0-rc.1", Filter{Operand: "@", Target: "rc"}, true},
		{"regex", "v10", Filter{Operand: "/", Target: `^v\d+$`}, true},
		{"bad regex", "v10", Filter{Operand: "/", Target: `(`}, false},
		{"unknown operand", "v10", Filter{Operand: "%", Target: "v"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"equal", 3, Filter{Operand: "=", Target: "3"}, true},
		{"not equal", 3, Filter{Operand: "=", Target: "3", Negate: true}, false},
		{"greater", 3, Filter{Operand: ">", Target: "2"}, true},
		{"less", 3, Filter{Operand: "<", Target: "2"}, false},
		{"bad target", 3, Filter{Operand: "=", Target: "three"}, false},
		{"unsupported", 3, Filter{Operand: "^", Target: "3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		filter Filter
		want   bool
	}{
		{"slice hit", []any{"a", "b"}, Filter{Operand: "@", Target: "b"}, true},
		{"slice miss", []any{"a", "b"}, Filter{Operand: "@", Target: "c"}, false},
		{"slice negated miss", []any{"a"}, Filter{Operand: "@", Target: "c", Negate: true}, true},
		{"map hit", map[string]any{"k": 1}, Filter{Operand: "@", Target: "k"}, true},
		{"map negated hit", map[string]any{"k": 1}, Filter{Operand: "@", Target: "k", Negate: true}, false},
		{"unsupported", 3.0, Filter{Operand: "@", Target: "3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkContainsOperand(tt.value, tt.filter))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	rows := gjson.Parse(`[
		{"repo":"cli/cli","tag_name":"v2.10.0","prerelease":false,"assets":[{"name":"a"},{"name":"b"}]},
		{"repo":"cli/cli","tag_name":"v2.9.0","prerelease":true,"assets":[]},
		{"repo":"jdx/mise","tag_name":"v2024.1.0","prerelease":false,"assets":[{"name":"c"}]}
	]`)

	al := AttrList{
		{Key: "repo", OutputKey: "repo", Include: true},
		{Key: "tag_name", OutputKey: "tag", Include: true},
		{Key: "prerelease", OutputKey: "prerelease", Include: false},
		{Key: "assets.#", OutputKey: "assets", Include: true},
		{Key: "assets.#.name", OutputKey: "names", Include: false},
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{name: "no filter", spec: "", want: []string{"v2.10.0", "v2.9.0", "v2024.1.0"}},
		{name: "string", spec: "repo=cli/cli", want: []string{"v2.10.0", "v2.9.0"}},
		{name: "bool", spec: "prerelease=true", want: []string{"v2.9.0"}},
		{name: "numeric", spec: "assets>0", want: []string{"v2.10.0", "v2024.1.0"}},
		{name: "contains list", spec: "names@c", want: []string{"v2024.1.0"}},
		{name: "combined", spec: "repo=cli/cli,assets<1", want: []string{"v2.9.0"}},
		{name: "unknown key ignored", spec: "nope=1", want: []string{"v2.10.0", "v2.9.0", "v2024.1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(rows, al, tt.spec)
			tags := make([]string, 0, len(got))
			for _, r := range got {
				tags = append(tags, r["tag"].(string))
			}
			assert.Equal(t, tt.want, tags)
		})
	}
}
