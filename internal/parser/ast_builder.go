package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts a tree-sitter parse tree into the trimmed Rust Node
// tree. There is a single recursive builder because tree-sitter-rust
// exposes every construct the extractor needs through named fields rather
// than construct-specific struct layouts.
type ASTBuilder struct {
	source []byte
}

// NewASTBuilder creates a new AST builder bound to one file's source.
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{source: source}
}

// Build converts a raw tree-sitter root node into the internal Node tree.
func (b *ASTBuilder) Build(root *sitter.Node) *Node {
	return b.buildNode(root, nil)
}

// buildNode recursively mirrors a tree-sitter node and its named fields.
// Every node is built the same way: the extractor dispatches on Type and
// reads out named Fields, so the builder's only job is faithfully carrying
// the grammar's field names and trivia-filtered children across.
func (b *ASTBuilder) buildNode(tsNode *sitter.Node, parent *Node) *Node {
	if tsNode == nil {
		return nil
	}

	node := &Node{
		Type:     NodeType(tsNode.Type()),
		Text:     tsNode.Content(b.source),
		Fields:   make(map[string]*Node),
		Parent:   parent,
		Location: b.getLocation(tsNode),
	}

	childCount := int(tsNode.ChildCount())
	node.Children = make([]*Node, 0, childCount)
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		childNode := b.buildNode(child, node)
		if childNode == nil {
			continue
		}
		node.Children = append(node.Children, childNode)

		if field := tsNode.FieldNameForChild(i); field != "" {
			node.Fields[field] = childNode
		}
	}

	return node
}

// getLocation extracts 1-indexed line/column position information.
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	return Location{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

// isTrivia filters out comments; tree-sitter-rust has no separate
// line-continuation token so the Python builder's second case doesn't apply.
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "line_comment", "block_comment":
		return true
	default:
		return false
	}
}
