package domain

import (
	"context"
	"io"
)

// AnalysisRequest is the input to the top-level analyze entry point
// (spec.md §6: "analyze(root, config) → AnalysisResult").
type AnalysisRequest struct {
	Root   string
	Config *Config

	OutputFormat OutputFormat
	OutputWriter io.Writer
	// OutputPath, when non-empty, writes the export to a file instead of
	// OutputWriter.
	OutputPath string

	// Diagnostics carries non-fatal warnings raised before analysis began
	// (e.g. unknown configuration keys); they ride into the export's
	// diagnostics array alongside per-file warnings (spec.md §7).
	Diagnostics []Diagnostic
}

// Diagnostic is a non-fatal error surfaced in the export (spec.md §7).
type Diagnostic struct {
	Path     string `json:"path" yaml:"path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"` // "warning" | "error"
}

// Summary is the project-wide roll-up (spec.md §4.5/§4.7).
type Summary struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Version       string `json:"version" yaml:"version"`
	RunID         string `json:"run_id" yaml:"run_id"`
	GeneratedAt   string `json:"generated_at" yaml:"generated_at"`

	ModuleCount int `json:"module_count" yaml:"module_count"`
	EdgeCount   int `json:"edge_count" yaml:"edge_count"`
	CycleCount  int `json:"cycle_count" yaml:"cycle_count"`
	IssueCount  int `json:"issue_count" yaml:"issue_count"`

	HealthScore float64     `json:"health_score" yaml:"health_score"`
	HealthGrade HealthGrade `json:"health_grade" yaml:"health_grade"`
}

// EdgeExport is the C7 projection of one CouplingEdge, carrying both raw
// dimensions and the derived balance (spec.md §4.7).
type EdgeExport struct {
	Source   ModulePath     `json:"source" yaml:"source"`
	Target   ModulePath     `json:"target" yaml:"target"`
	Strength Strength       `json:"strength" yaml:"strength"`
	Distance Distance       `json:"distance" yaml:"distance"`
	Volatility Volatility   `json:"volatility" yaml:"volatility"`
	Contexts []UsageContext `json:"contexts" yaml:"contexts"`
	Count    int            `json:"count" yaml:"count"`
	InCycle  bool           `json:"in_cycle" yaml:"in_cycle"`
	External bool           `json:"external" yaml:"external"`
	Balance  BalanceResult  `json:"balance" yaml:"balance"`
}

// Hotspot is one entry in the C6 ranked output.
type Hotspot struct {
	Module ModulePath `json:"module" yaml:"module"`
	Score  float64    `json:"score" yaml:"score"`
}

// AnalysisResult is the stable, schema-versioned projection consumed by
// external renderers (spec.md §4.7/§6). It must round-trip losslessly
// through JSON.
type AnalysisResult struct {
	Summary     Summary        `json:"summary" yaml:"summary"`
	Nodes       []ModuleNode   `json:"nodes" yaml:"nodes"`
	Edges       []EdgeExport   `json:"edges" yaml:"edges"`
	Issues      []Issue        `json:"issues" yaml:"issues"`
	Hotspots    []Hotspot      `json:"hotspots" yaml:"hotspots"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// OutputFormat is the closed enumeration of export formats.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatText OutputFormat = "text"
)

// AnalyzeService is the single top-level entry point named in spec.md §6:
// analyze(root, config) → AnalysisResult.
type AnalyzeService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}

// Exporter serializes an AnalysisResult to the export format (spec.md §4.7).
type Exporter interface {
	Export(result *AnalysisResult, format OutputFormat, w io.Writer) error
}

// WorkspaceResolver is C1: enumerate source files grouped by sub-package,
// plus the set of declared project roots (spec.md §4.1).
type WorkspaceResolver interface {
	Resolve(ctx context.Context, root string, cfg *Config) (*WorkspaceResult, error)
}

// WorkspaceResult is C1's output.
type WorkspaceResult struct {
	Files       []string            // absolute file paths
	FileModules map[string]ModulePath // file -> owning module
	Roots       []string            // declared project (crate) roots
}

// Extraction is the per-file output of C2.
type Extraction struct {
	File     string
	Module   ModulePath
	Items    []Item
	Usages   []Usage
	ParseErr error
}

// SyntaxExtractor is C2: parse one file, produce items and usages.
type SyntaxExtractor interface {
	Extract(ctx context.Context, file string, module ModulePath, source []byte) (*Extraction, error)
}

// GraphBuilder is C3: fold per-file extractions into a coupling graph.
type GraphBuilder interface {
	Build(extractions []*Extraction, roots []string) (CouplingGraphView, error)
}

// CouplingGraphView is the read-only surface C5/C6/C7 consume; the
// concrete builder lives in internal/analyzer to keep cyclic-graph
// construction (spec.md §9 "no shared-mutable graph during parsing") out of
// the domain layer.
type CouplingGraphView interface {
	ModuleNames() []string
	Nodes() map[ModulePath]*ModuleNode
	Edges() []*CouplingEdge
	EdgesFrom(m ModulePath) []*CouplingEdge
	EdgesTo(m ModulePath) []*CouplingEdge
	Cycles() [][]ModulePath
}

// VolatilityOracle is C4: module path -> Volatility.
type VolatilityOracle interface {
	Volatility(ctx context.Context, module ModulePath) Volatility
	Classify(ctx context.Context, modules []ModulePath) (map[ModulePath]Volatility, error)
}

// BalanceEngine is C5: per-edge balance, issues, module health, project
// score.
type BalanceEngine interface {
	Evaluate(graph CouplingGraphView, cfg *Config) (*BalanceEvaluation, error)
}

// BalanceEvaluation is C5's output.
type BalanceEvaluation struct {
	EdgeBalance map[ModulePath]map[ModulePath]BalanceResult
	Issues      []Issue
	Health      map[ModulePath]ModuleHealth
	HealthScore float64
}

// HotspotRanker is C6.
type HotspotRanker interface {
	Rank(graph CouplingGraphView, eval *BalanceEvaluation) []Hotspot
}
