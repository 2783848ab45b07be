package query

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		q       string
		want    []Selector
		wantErr bool
	}{
		{
			name: "empty",
			q:    "",
			want: nil,
		},
		{
			name: "root only",
			q:    "$",
			want: []Selector{{Kind: KindRoot, Scope: Child}},
		},
		{
			name: "dot name",
			q:    "$.a",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Child, Name: "a"},
			},
		},
		{
			name: "bracket name",
			q:    "$['x']",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Child, Name: "x"},
			},
		},
		{
			name: "bracket name with embedded quote",
			q:    `$['"x']`,
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Child, Name: `\"x`},
			},
		},
		{
			name: "index",
			q:    "$[2]",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindIndex, Scope: Child, Index: 2},
			},
		},
		{
			name: "wildcard after name",
			q:    "$.a[*]",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Child, Name: "a"},
				{Kind: KindWildcard, Scope: Child},
			},
		},
		{
			name: "descendant name",
			q:    "$..b",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Descendant, Name: "b"},
			},
		},
		{
			name: "descendant wildcard",
			q:    "$..*",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindWildcard, Scope: Descendant},
			},
		},
		{
			name: "descendant then descendant",
			q:    "$..entities..url",
			want: []Selector{
				{Kind: KindRoot, Scope: Child},
				{Kind: KindName, Scope: Descendant, Name: "entities"},
				{Kind: KindName, Scope: Descendant, Name: "url"},
			},
		},
		{
			name:    "missing dollar",
			q:       "a.b",
			wantErr: true,
		},
		{
			name:    "unterminated bracket",
			q:       "$['x'",
			wantErr: true,
		},
		{
			name:    "negative index",
			q:       "$[-1]",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.q, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got.Selectors, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.q, got.Selectors, tt.want)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct{ in, want string }{
		{"x", "x"},
		{`"x`, `\"x`},
		{`a\b`, `a\\b`},
		{"tab\there", `tab\there`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
