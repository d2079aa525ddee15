package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func extract(t *testing.T, source string) *domain.Extraction {
	t.Helper()
	ex, err := NewExtractor().Extract(context.Background(), "lib.rs", "app", []byte(source))
	require.NoError(t, err)
	return ex
}

func TestExtract_FunctionAndStructItems(t *testing.T) {
	ex := extract(t, `
pub struct Widget { name: String }

fn helper() {}
`)
	var names []string
	for _, item := range ex.Items {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "helper")
}

func TestExtract_ModNestingResolvesModulePath(t *testing.T) {
	ex := extract(t, `
mod shapes {
    pub struct Circle { radius: f64 }
}
`)
	require.Len(t, ex.Items, 1)
	assert.Equal(t, domain.ModulePath("app::shapes"), ex.Items[0].Module)
}

func TestExtract_StructConstructionUsage(t *testing.T) {
	ex := extract(t, `
fn build() -> Widget {
    Widget { name: "x".to_string() }
}
`)
	var found bool
	for _, u := range ex.Usages {
		if u.Context == domain.ContextStructConstruction && u.TargetPath == "Widget" {
			found = true
		}
	}
	assert.True(t, found, "expected a StructConstruction usage for Widget")
}

func TestExtract_FunctionParameterAndReturnType(t *testing.T) {
	ex := extract(t, `
fn render(widget: Widget) -> Report {
    widget.draw()
}
`)
	var paramFound, returnFound bool
	for _, u := range ex.Usages {
		switch {
		case u.Context == domain.ContextFunctionParameter && u.TargetPath == "Widget":
			paramFound = true
		case u.Context == domain.ContextReturnType && u.TargetPath == "Report":
			returnFound = true
		}
	}
	assert.True(t, paramFound, "expected a FunctionParameter usage for Widget")
	assert.True(t, returnFound, "expected a ReturnType usage for Report")
}

func TestExtract_TraitBoundViaWhereClause(t *testing.T) {
	ex := extract(t, `
fn process<T>(item: T) where T: Renderable {
}
`)
	var found bool
	for _, u := range ex.Usages {
		if u.Context == domain.ContextTraitBound && u.TargetPath == "Renderable" {
			found = true
		}
	}
	assert.True(t, found, "expected a TraitBound usage for Renderable")
}

func TestExtract_TraitBoundViaGenericParameter(t *testing.T) {
	ex := extract(t, `
fn process<T: Renderable>(item: T) {
}
`)
	var found bool
	for _, u := range ex.Usages {
		if u.Context == domain.ContextTraitBound && u.TargetPath == "Renderable" {
			found = true
		}
	}
	assert.True(t, found, "expected a TraitBound usage from the bounded generic parameter")
}

func TestExtract_ImplBlockEmitsInherentAndTraitBoundUsages(t *testing.T) {
	ex := extract(t, `
impl Drawable for Widget {
    fn draw(&self) {}
}
`)
	var inherent, bound bool
	for _, u := range ex.Usages {
		switch {
		case u.Context == domain.ContextInherentImplBlock && u.TargetPath == "Widget":
			inherent = true
		case u.Context == domain.ContextTraitBound && u.TargetPath == "Drawable":
			bound = true
		}
	}
	assert.True(t, inherent)
	assert.True(t, bound)

	require.Len(t, ex.Items, 1)
	assert.True(t, ex.Items[0].TraitImpl)
}

func TestExtract_UseDeclarationEmitsImportUsage(t *testing.T) {
	ex := extract(t, `use crate::shapes::Circle;`)
	require.Len(t, ex.Usages, 1)
	assert.Equal(t, domain.ContextImport, ex.Usages[0].Context)
	assert.Equal(t, "crate::shapes::Circle", ex.Usages[0].TargetPath)
}

func TestExtract_StopListFiltersBuiltinTypes(t *testing.T) {
	ex := extract(t, `
fn build() -> String {
    String::new()
}
`)
	for _, u := range ex.Usages {
		assert.NotEqual(t, "String", u.TargetPath, "String is stop-listed and should never be emitted")
	}
}

func TestExtract_SelfReferenceFilterDropsTrivialPaths(t *testing.T) {
	assert.True(t, selfReferenceFilter("foo::foo"))
	assert.True(t, selfReferenceFilter("Widget::Widget"))
	assert.False(t, selfReferenceFilter("foo::bar"))
}

func TestExtract_BareIdentifierFilterDropsLowercaseLocals(t *testing.T) {
	assert.True(t, bareIdentifierFilter("widget"))
	assert.False(t, bareIdentifierFilter("Widget"))
	assert.False(t, bareIdentifierFilter("foo::bar"))
	assert.False(t, bareIdentifierFilter("self"))
}

func TestExtract_MethodCallOnUppercaseReceiver(t *testing.T) {
	ex := extract(t, `
fn run(r: Renderer) {
    Renderer::shared().paint();
}
`)
	var methodCall bool
	for _, u := range ex.Usages {
		if u.Context == domain.ContextMethodCall {
			methodCall = true
		}
	}
	assert.True(t, methodCall)
}

func TestExtract_MalformedSourceSetsParseErr(t *testing.T) {
	ex, err := NewExtractor().Extract(context.Background(), "broken.rs", "app", []byte(`
fn broken( {{{ not rust at all ???
`))
	require.NoError(t, err, "a syntax error is a diagnostic, not a hard failure")
	require.NotNil(t, ex)
	require.Error(t, ex.ParseErr)
}
