package parser

import (
	"errors"
	"testing"

	"ptxparse/pkg/ast"
)

func TestParseGlobal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     ast.Global
		wantRest string
	}{
		{
			name:  "aligned_array",
			input: ".global .align 4 .b8 counter[4];",
			want: ast.Global{
				Raw:         ".global .align 4 .b8 counter[4]",
				StateSpace:  ".global",
				Align:       4,
				Type:        ".b8",
				ElementSize: 1,
				Name:        "counter",
				HasArray:    true,
				ArrayLen:    "4",
			},
		},
		{
			name:  "extern_shared_unsized",
			input: ".extern .shared .align 16 .b8 smem[];\n.func f;",
			want: ast.Global{
				Raw:         ".extern .shared .align 16 .b8 smem[]",
				Linkage:     ".extern",
				StateSpace:  ".shared",
				Align:       16,
				Type:        ".b8",
				ElementSize: 1,
				Name:        "smem",
				HasArray:    true,
			},
			wantRest: "\n.func f;",
		},
		{
			name:  "const_initializer",
			input: ".const .f32 scale = 0f3F800000;",
			want: ast.Global{
				Raw:         ".const .f32 scale = 0f3F800000",
				StateSpace:  ".const",
				Type:        ".f32",
				ElementSize: 4,
				Name:        "scale",
				Initializer: "0f3F800000",
			},
		},
		{
			name:  "array_initializer_with_braces",
			input: ".visible .global .align 1 .b8 msg[3] = {104, 105, 0};",
			want: ast.Global{
				Raw:         ".visible .global .align 1 .b8 msg[3] = {104, 105, 0}",
				Linkage:     ".visible",
				StateSpace:  ".global",
				Align:       1,
				Type:        ".b8",
				ElementSize: 1,
				Name:        "msg",
				HasArray:    true,
				ArrayLen:    "3",
				Initializer: "{104, 105, 0}",
			},
		},
		{
			name:  "vector",
			input: ".global .v4 .f32 color;",
			want: ast.Global{
				Raw:         ".global .v4 .f32 color",
				StateSpace:  ".global",
				Vector:      ".v4",
				Type:        ".f32",
				ElementSize: 16,
				Name:        "color",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, g, err := parseGlobal(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if *g != tt.want {
				t.Errorf("Global mismatch\nexpected: %+v\ngot:      %+v", tt.want, *g)
			}
			if rest != tt.wantRest {
				t.Errorf("Expected rest %q, got %q", tt.wantRest, rest)
			}
		})
	}
}

func TestParseGlobalRejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind ErrorKind
	}{
		{name: "not_a_global", input: ".func f;", wantKind: KindMismatch},
		{name: "identifier", input: "foo;", wantKind: KindMismatch},
		{name: "missing_semicolon", input: ".global .b32 x", wantKind: KindUnterminated},
		{name: "linkage_without_space", input: ".extern .func f;", wantKind: KindMismatch},
		{name: "missing_name", input: ".global .b32;", wantKind: KindMismatch},
		{name: "missing_type", input: ".global x;", wantKind: KindMismatch},
		{name: "empty_initializer", input: ".global .b32 x =;", wantKind: KindMismatch},
		{name: "trailing_tokens", input: ".global .b32 x y;", wantKind: KindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, _, err := parseGlobal(tt.input)
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("Expected *ParseError, got %v", err)
			}
			if pe.Kind != tt.wantKind {
				t.Errorf("Expected %s, got %s", tt.wantKind, pe.Kind)
			}
			if rest != tt.input {
				t.Errorf("Expected no input consumed, got rest %q", rest)
			}
		})
	}
}

func TestParseGlobalUnknownType(t *testing.T) {
	_, _, err := parseGlobal(".global .pred flag;")
	var ute *UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("Expected *UnknownTypeError, got %v", err)
	}
	if ute.Type != ".pred" || ute.remaining != ".pred flag;" {
		t.Errorf("Unexpected error %+v", ute)
	}
}
