package parser

import (
	"context"
	"fmt"
	"io"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Parser provides Rust source parsing via tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with the Rust grammar.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &Parser{parser: p}
}

// ParseResult is the output of parsing one Rust source file.
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
	AST        *Node
}

// Parse parses Rust source code and returns both the raw tree-sitter tree
// and the internal Node tree built from it.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	root := tree.RootNode()
	builder := NewASTBuilder(source)
	ast := builder.Build(root)

	return &ParseResult{
		Tree:       tree,
		RootNode:   root,
		SourceCode: source,
		AST:        ast,
	}, nil
}

// ParseFile reads and parses a Rust file from a reader.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return p.Parse(ctx, source)
}

// HasSyntaxError reports whether the parsed tree contains an ERROR node.
func (r *ParseResult) HasSyntaxError() bool {
	return r.RootNode != nil && r.RootNode.HasError()
}
