package parser

import (
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Fatal("parser field is nil")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "simple function",
			source: `fn hello() { println!("hi"); }`,
		},
		{
			name: "struct and impl",
			source: `struct Point { x: i32, y: i32 }

impl Point {
    fn new(x: i32, y: i32) -> Self {
        Point { x, y }
    }
}`,
		},
		{
			name: "module with use",
			source: `mod shapes {
    use crate::geometry::Vector;

    pub struct Circle {
        radius: f64,
    }
}`,
		},
		{
			name:   "empty source",
			source: "",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Parse(context.Background(), []byte(tt.source))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if result.AST == nil {
				t.Fatal("Parse() returned nil AST")
			}
			if result.RootNode == nil {
				t.Fatal("Parse() returned nil root node")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	p := New()
	result, err := p.ParseFile(context.Background(), strings.NewReader(`fn main() {}`))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if result.AST.Type != NodeSourceFile {
		t.Errorf("expected root %s, got %s", NodeSourceFile, result.AST.Type)
	}
}

func TestHasSyntaxError(t *testing.T) {
	p := New()

	clean, err := p.Parse(context.Background(), []byte(`fn ok() {}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if clean.HasSyntaxError() {
		t.Error("well-formed source should not report a syntax error")
	}

	broken, err := p.Parse(context.Background(), []byte(`fn broken( {`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !broken.HasSyntaxError() {
		t.Error("malformed source should report a syntax error")
	}
}
