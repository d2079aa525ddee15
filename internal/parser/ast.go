package parser

import "fmt"

// NodeType mirrors the tree-sitter-rust grammar's node-type strings
// directly for the constructs the extractor cares about.
type NodeType string

const (
	NodeSourceFile   NodeType = "source_file"
	NodeModItem      NodeType = "mod_item"
	NodeFunctionItem NodeType = "function_item"
	NodeStructItem   NodeType = "struct_item"
	NodeEnumItem     NodeType = "enum_item"
	NodeUnionItem    NodeType = "union_item"
	NodeTraitItem    NodeType = "trait_item"
	NodeImplItem     NodeType = "impl_item"
	NodeUseDeclaration NodeType = "use_declaration"

	NodeCallExpression   NodeType = "call_expression"
	NodeFieldExpression  NodeType = "field_expression"
	NodeStructExpression NodeType = "struct_expression"
	NodeGenericType      NodeType = "generic_type"
	NodeTypeArguments    NodeType = "type_arguments"
	NodeWhereClause      NodeType = "where_clause"
	NodeWherePredicate   NodeType = "where_predicate"
	NodeTraitBounds      NodeType = "trait_bounds"
	NodeConstrainedTypeParameter NodeType = "constrained_type_parameter"
	NodeTypeParameters   NodeType = "type_parameters"
	NodeParameters       NodeType = "parameters"
	NodeParameter        NodeType = "parameter"
	NodeSelfParameter    NodeType = "self_parameter"

	NodeIdentifier           NodeType = "identifier"
	NodeTypeIdentifier       NodeType = "type_identifier"
	NodeFieldIdentifier      NodeType = "field_identifier"
	NodeScopedIdentifier     NodeType = "scoped_identifier"
	NodeScopedTypeIdentifier NodeType = "scoped_type_identifier"
	NodeCrate                NodeType = "crate"
	NodeSuper                NodeType = "super"
	NodeSelf                 NodeType = "self"
	NodeVisibilityModifier   NodeType = "visibility_modifier"

	NodeError NodeType = "ERROR"
)

// Node is a trimmed, Rust-specific intermediate AST, built from the raw
// tree-sitter tree by ASTBuilder (internal/parser/ast_builder.go).
type Node struct {
	Type NodeType

	// Text is the verbatim source text spanned by this node.
	Text string

	// Fields holds named grammar fields (tree-sitter's ChildByFieldName),
	// e.g. a function_item's "name", "parameters", "return_type", "body".
	Fields map[string]*Node

	Children []*Node
	Parent   *Node
	Location Location
}

// Location mirrors the position information tree-sitter exposes.
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Field returns the named field child, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[name]
}

// String renders a short debug form.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%q)", n.Type, truncate(n.Text, 40))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Walk traverses the node tree depth-first, calling visitor for each node.
// Returning false from visitor stops descending into that node's children
// but continues the overall traversal at the caller's level.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visitor)
	}
}

// Find returns every node matching predicate.
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if predicate(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// FindByType returns every node of the given type.
func (n *Node) FindByType(t NodeType) []*Node {
	return n.Find(func(node *Node) bool { return node.Type == t })
}

// GetParentOfType walks up the Parent chain for the nearest ancestor of the
// given type.
func (n *Node) GetParentOfType(t NodeType) *Node {
	cur := n.Parent
	for cur != nil {
		if cur.Type == t {
			return cur
		}
		cur = cur.Parent
	}
	return nil
}
