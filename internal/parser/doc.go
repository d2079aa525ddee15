// Package parser provides Rust source parsing using tree-sitter.
//
// It wraps the tree-sitter Go bindings to parse Rust source into a trimmed
// intermediate AST (Node), keyed on the grammar's own node-type strings and
// named fields rather than a construct-specific struct per node kind. This
// keeps extraction a table lookup over NodeType instead of a type switch
// over dozens of typed fields.
//
// Basic usage:
//
//	p := parser.New()
//	result, err := p.Parse(ctx, source)
//	if err != nil {
//	    // Handle parsing error
//	}
//	// Use result.AST to traverse the intermediate tree.
package parser
