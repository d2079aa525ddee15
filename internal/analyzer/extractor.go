package analyzer

import (
	"context"
	"errors"
	"strings"

	"github.com/ravelscan/ravel/domain"
	"github.com/ravelscan/ravel/internal/parser"
)

// Extractor implements domain.SyntaxExtractor (C2, spec.md §4.2). It parses
// one Rust file and walks the resulting parser.Node tree with a table of
// handlers keyed by construct kind (spec.md §9's design note), each handler
// producing zero or more usages tagged with their usage context.
type Extractor struct {
	parser *parser.Parser
}

// NewExtractor creates a syntax extractor. It is a pure function of its
// input (file contents) and the fixed stop-list: no shared mutable state,
// safe to call concurrently from multiple file-level tasks (spec.md §4.2).
func NewExtractor() *Extractor {
	return &Extractor{parser: parser.New()}
}

// accum collects one file's items and usages while the handler table walks
// its AST.
type accum struct {
	file       string
	baseModule domain.ModulePath
	items      []domain.Item
	usages     []domain.Usage
}

// Extract implements domain.SyntaxExtractor.
func (e *Extractor) Extract(ctx context.Context, file string, module domain.ModulePath, source []byte) (*domain.Extraction, error) {
	result, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, domain.NewParseError(file, err)
	}
	if result.AST == nil {
		return nil, domain.NewParseError(file, nil)
	}

	a := &accum{file: file, baseModule: module}

	result.AST.Walk(func(n *parser.Node) bool {
		if ctx.Err() != nil {
			return false
		}
		if handler, ok := handlerTable[n.Type]; ok {
			handler(a, n)
		}
		return true
	})

	extraction := &domain.Extraction{
		File:   file,
		Module: module,
		Items:  a.items,
		Usages: a.usages,
	}

	// tree-sitter is error-tolerant: malformed Rust still yields a non-nil
	// partial tree rather than a parse failure, so a real syntax error would
	// otherwise pass through silently. Surface it as a non-fatal diagnostic
	// (spec.md §4.2/§7) while still folding whatever the partial tree gave us.
	if result.HasSyntaxError() {
		extraction.ParseErr = domain.NewParseError(file, errors.New("source contains a syntax error"))
	}

	return extraction, nil
}

// handlerTable maps a parser.NodeType to the function that extracts items
// and/or usages from it. A table keyed by construct kind rather than a
// visitor type hierarchy (spec.md §9).
var handlerTable = map[parser.NodeType]func(*accum, *parser.Node){
	parser.NodeModItem:      handleModItem,
	parser.NodeStructItem:   handleTypeDef(domain.ItemType),
	parser.NodeEnumItem:     handleTypeDef(domain.ItemType),
	parser.NodeUnionItem:    handleTypeDef(domain.ItemType),
	parser.NodeTraitItem:    handleTypeDef(domain.ItemTrait),
	parser.NodeFunctionItem: handleFunctionItem,
	parser.NodeImplItem:     handleImplItem,
	parser.NodeUseDeclaration: handleUseDeclaration,
	parser.NodeCallExpression:   handleCallExpression,
	parser.NodeFieldExpression:  handleFieldExpression,
	parser.NodeStructExpression: handleStructExpression,
	parser.NodeGenericType:              handleGenericType,
	parser.NodeWherePredicate:           handleTraitBounds,
	parser.NodeConstrainedTypeParameter: handleTraitBounds,
}

// moduleFor computes a node's enclosing module path by walking its Parent
// chain and collecting the names of ancestor mod_item blocks, innermost
// first, then joining them onto the file's base module.
func moduleFor(a *accum, n *parser.Node) domain.ModulePath {
	var segs []string
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == parser.NodeModItem {
			if name := cur.Field("name"); name != nil {
				segs = append(segs, name.Text)
			}
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return a.baseModule.Join(segs...)
}

func visibilityOf(n *parser.Node) domain.Visibility {
	for _, child := range n.Children {
		if child.Type != parser.NodeVisibilityModifier {
			continue
		}
		if child.Text == "pub" {
			return domain.VisibilityPublic
		}
		return domain.VisibilityPackageVisible // pub(crate), pub(super), pub(in ...)
	}
	return domain.VisibilityPrivate
}

func location(file string, n *parser.Node) *domain.SourceLocation {
	return &domain.SourceLocation{
		File:      file,
		StartLine: n.Location.StartLine,
		StartCol:  n.Location.StartCol,
		EndLine:   n.Location.EndLine,
		EndCol:    n.Location.EndCol,
	}
}

// handleModItem registers nothing by itself; module nesting is resolved
// lazily by moduleFor. It exists in the table so the stats/debug visitors
// can recognize it as a construct boundary.
func handleModItem(a *accum, n *parser.Node) {}

func handleTypeDef(kind domain.ItemKind) func(*accum, *parser.Node) {
	return func(a *accum, n *parser.Node) {
		name := n.Field("name")
		if name == nil {
			return
		}
		a.items = append(a.items, domain.Item{
			Name:       name.Text,
			Module:     moduleFor(a, n),
			Kind:       kind,
			Visibility: visibilityOf(n),
			Location:   location(a.file, n),
		})
	}
}

func handleFunctionItem(a *accum, n *parser.Node) {
	name := n.Field("name")
	if name != nil {
		a.items = append(a.items, domain.Item{
			Name:       name.Text,
			Module:     moduleFor(a, n),
			Kind:       domain.ItemFunction,
			Visibility: visibilityOf(n),
			Location:   location(a.file, n),
		})
	}

	src := moduleFor(a, n)

	if params := n.Field("parameters"); params != nil {
		for _, p := range params.Children {
			if p.Type != parser.NodeParameter {
				continue
			}
			if typ := p.Field("type"); typ != nil {
				emitTypeUsage(a, src, typ, domain.ContextFunctionParameter, location(a.file, typ))
			}
		}
	}

	if ret := n.Field("return_type"); ret != nil {
		emitTypeUsage(a, src, ret, domain.ContextReturnType, location(a.file, ret))
	}
}

func handleImplItem(a *accum, n *parser.Node) {
	typ := n.Field("type")
	if typ == nil {
		return
	}
	src := moduleFor(a, n)
	trait := n.Field("trait")

	a.items = append(a.items, domain.Item{
		Name:       typ.Text,
		Module:     src,
		Kind:       domain.ItemImpl,
		Visibility: visibilityOf(n),
		Location:   location(a.file, n),
		TraitImpl:  trait != nil,
	})

	// impl Trait for Type: emit both the trait bound and the inherent block
	// usage; the graph builder decides whether either lands on an internal
	// module via its known-module lookup (spec.md §4.3).
	if trait != nil {
		emitTypeUsage(a, src, trait, domain.ContextTraitBound, location(a.file, n))
	}
	emitTypeUsage(a, src, typ, domain.ContextInherentImplBlock, location(a.file, n))
}

func handleUseDeclaration(a *accum, n *parser.Node) {
	arg := n.Field("argument")
	if arg == nil {
		return
	}
	src := moduleFor(a, n)
	for _, path := range collectUsePaths(arg) {
		addUsage(a, src, path, domain.ContextImport, location(a.file, n))
	}
}

// collectUsePaths expands a use_declaration's argument into the set of
// concrete textual paths it brings into scope, handling the bare, aliased,
// wildcard and grouped (use_list) forms.
func collectUsePaths(n *parser.Node) []string {
	switch n.Type {
	case "use_list":
		var out []string
		for _, child := range n.Children {
			out = append(out, collectUsePaths(child)...)
		}
		return out
	case "use_as_clause":
		if path := n.Field("path"); path != nil {
			return []string{path.Text}
		}
	case "use_wildcard":
		return []string{strings.TrimSuffix(n.Text, "::*")}
	case "scoped_use_list":
		prefix := ""
		if p := n.Field("path"); p != nil {
			prefix = p.Text
		}
		var out []string
		if list := n.Field("list"); list != nil {
			for _, name := range collectUsePaths(list) {
				if prefix != "" {
					out = append(out, prefix+"::"+name)
				} else {
					out = append(out, name)
				}
			}
		}
		return out
	}
	return []string{n.Text}
}

func handleCallExpression(a *accum, n *parser.Node) {
	fn := n.Field("function")
	if fn == nil {
		return
	}
	src := moduleFor(a, n)

	switch fn.Type {
	case parser.NodeScopedIdentifier:
		addUsage(a, src, stripLastSegment(fn.Text), domain.ContextFunctionCall, location(a.file, n))
	case parser.NodeFieldExpression:
		if value := fn.Field("value"); value != nil && looksLikeTypePath(value.Text) {
			addUsage(a, src, value.Text, domain.ContextMethodCall, location(a.file, n))
		}
	}
}

func handleFieldExpression(a *accum, n *parser.Node) {
	// Skip field accesses that are really the callee of a method call;
	// handleCallExpression already attributes those.
	if n.Parent != nil && n.Parent.Type == parser.NodeCallExpression && n.Parent.Field("function") == n {
		return
	}
	value := n.Field("value")
	if value == nil || !looksLikeTypePath(value.Text) {
		return
	}
	addUsage(a, moduleFor(a, n), value.Text, domain.ContextFieldAccess, location(a.file, n))
}

func handleStructExpression(a *accum, n *parser.Node) {
	name := n.Field("name")
	if name == nil {
		return
	}
	addUsage(a, moduleFor(a, n), name.Text, domain.ContextStructConstruction, location(a.file, n))
}

func handleGenericType(a *accum, n *parser.Node) {
	args := n.Field("type_arguments")
	if args == nil {
		return
	}
	src := moduleFor(a, n)
	for _, arg := range args.Children {
		if arg.Type == parser.NodeTypeIdentifier || arg.Type == parser.NodeScopedTypeIdentifier {
			addUsage(a, src, arg.Text, domain.ContextTypeParameter, location(a.file, arg))
		}
	}
}

// handleTraitBounds covers both bound spellings the grammar has: a
// where_predicate ("where T: Renderable") and a constrained type parameter
// ("fn f<T: Renderable>"). Both carry their trait_bounds under the same
// "bounds" field.
func handleTraitBounds(a *accum, n *parser.Node) {
	bounds := n.Field("bounds")
	if bounds == nil {
		return
	}
	src := moduleFor(a, n)
	for _, bound := range bounds.Children {
		if bound.Type == parser.NodeTypeIdentifier || bound.Type == parser.NodeScopedTypeIdentifier {
			addUsage(a, src, bound.Text, domain.ContextTraitBound, location(a.file, bound))
		}
	}
}

// emitTypeUsage walks a type annotation node looking for the named type(s)
// it references, skipping generic wrapper syntax to reach the underlying
// path (a "Vec<Foo>" parameter couples to Foo, not to the stop-listed Vec).
func emitTypeUsage(a *accum, src domain.ModulePath, typeNode *parser.Node, ctx domain.UsageContext, loc *domain.SourceLocation) {
	for _, t := range typeNode.FindByType(parser.NodeTypeIdentifier) {
		addUsage(a, src, t.Text, ctx, loc)
	}
	for _, t := range typeNode.FindByType(parser.NodeScopedTypeIdentifier) {
		addUsage(a, src, t.Text, ctx, loc)
	}
}

// looksLikeTypePath is the path-prefix heuristic standing in for type
// resolution (spec.md §1 Non-goals): a receiver expression is treated as
// referring to another module's type only when its textual form already
// looks like a type path (qualified, or starting with an uppercase
// segment), never a bare lowercase local binding.
func looksLikeTypePath(text string) bool {
	text = strings.TrimPrefix(text, "self.")
	if strings.Contains(text, "::") {
		return true
	}
	if text == "" {
		return false
	}
	r := text[0]
	return r >= 'A' && r <= 'Z'
}

func stripLastSegment(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx < 0 {
		return path
	}
	return path[:idx]
}

// addUsage applies the fixed-order false-positive filters (spec.md §4.2)
// before recording a usage.
func addUsage(a *accum, src domain.ModulePath, target string, ctx domain.UsageContext, loc *domain.SourceLocation) {
	target = strings.TrimSpace(target)
	if target == "" {
		return
	}
	if stopListFilter(target) {
		return
	}
	if selfReferenceFilter(target) {
		return
	}
	if bareIdentifierFilter(target) {
		return
	}

	a.usages = append(a.usages, domain.Usage{
		SourceModule: src,
		TargetPath:   target,
		Context:      ctx,
		Location:     loc,
	})
}

// stopListFilter is filter (a): a well-known built-in/prelude vocabulary
// item.
func stopListFilter(target string) bool {
	return isStopListed(target)
}

// selfReferenceFilter is filter (b): a trivial self-reference such as
// "T::T" or "foo::foo" where the last two path segments are identical.
func selfReferenceFilter(target string) bool {
	segs := strings.Split(target, "::")
	if len(segs) < 2 {
		return false
	}
	return segs[len(segs)-1] == segs[len(segs)-2]
}

// bareIdentifierFilter is filter (c): a bare short lowercase identifier
// indistinguishable from a local binding.
func bareIdentifierFilter(target string) bool {
	if strings.Contains(target, "::") {
		return false
	}
	if target == "self" || target == "Self" || target == "super" || target == "crate" {
		return false
	}
	r := target[0]
	return r >= 'a' && r <= 'z'
}
