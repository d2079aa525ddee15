package service

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ravelscan/ravel/domain"
	"github.com/ravelscan/ravel/internal/analyzer"
	"github.com/ravelscan/ravel/internal/version"
)

// AnalyzeServiceImpl implements domain.AnalyzeService: the single
// analyze(root, config) entry point (spec.md §6), orchestrating C1-C6.
// Parallel-file extraction grounded on the concurrency model of spec.md §5
// ("one task per source file in C2... pool boundary is a fold... for C3"),
// using golang.org/x/sync/errgroup for bounded worker-pool fan-out.
type AnalyzeServiceImpl struct{}

// NewAnalyzeService creates the top-level analysis orchestrator.
func NewAnalyzeService() *AnalyzeServiceImpl {
	return &AnalyzeServiceImpl{}
}

// Analyze implements domain.AnalyzeService.
func (s *AnalyzeServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = domain.DefaultConfig()
	}

	ws := analyzer.NewWorkspace(cfg.Volatility.Ignore, domain.DefaultIncludeGlobs)
	workspace, err := ws.Resolve(ctx, req.Root, cfg)
	if err != nil {
		return nil, err
	}

	extractions, diagnostics, err := s.extractAll(ctx, workspace, cfg)
	if err != nil {
		return nil, err
	}
	if len(req.Diagnostics) > 0 {
		diagnostics = append(append([]domain.Diagnostic(nil), req.Diagnostics...), diagnostics...)
	}

	view, err := analyzer.NewGraphBuilder().Build(extractions, workspace.Roots)
	if err != nil {
		return nil, err
	}
	graph, ok := view.(*analyzer.CouplingGraph)
	if !ok {
		return nil, domain.NewInternalError("graph builder returned an unexpected view implementation", nil)
	}

	oracle := analyzer.NewVolatilityOracle(req.Root, cfg, workspace.FileModules)
	volMap, err := oracle.Classify(ctx, moduleNames(graph))
	if err != nil {
		return nil, err
	}
	analyzer.MergeVolatility(graph, volMap)

	engine := analyzer.NewBalanceEngine(cfg)
	eval, err := engine.Evaluate(graph, cfg)
	if err != nil {
		return nil, err
	}

	hotspots := analyzer.NewHotspotRanker().Rank(graph, eval)

	return buildResult(graph, eval, hotspots, diagnostics, uuid.New().String()), nil
}

// extractAll runs C2 over every workspace file with a bounded worker pool,
// collecting per-file extractions and parse-error diagnostics. Mirrors the
// spec's "tasks consume the file path and produce an owned extraction
// record; they share no mutable state" unit of parallelism.
func (s *AnalyzeServiceImpl) extractAll(ctx context.Context, workspace *domain.WorkspaceResult, cfg *domain.Config) ([]*domain.Extraction, []domain.Diagnostic, error) {
	jobs := cfg.Analysis.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU() // domain.DefaultJobs (0) means one job per CPU
	}

	extractions := make([]*domain.Extraction, len(workspace.Files))
	diagnostics := make([]domain.Diagnostic, len(workspace.Files))

	bar := progressbar.NewOptions(len(workspace.Files),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(s.progressVisible()),
	)
	done := make(chan struct{}, len(workspace.Files))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range done {
			_ = bar.Add(1)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, file := range workspace.Files {
		i, file := i, file
		g.Go(func() error {
			defer func() { done <- struct{}{} }()

			// Cooperative cancellation, observed at the file boundary
			// (spec.md §5); partial results are discarded by the caller.
			if err := gctx.Err(); err != nil {
				return err
			}

			module := workspace.FileModules[file]
			source, err := os.ReadFile(file)
			if err != nil {
				diagnostics[i] = domain.Diagnostic{Path: file, Message: err.Error(), Severity: "warning"}
				return nil
			}

			extraction, err := analyzer.NewExtractor().Extract(gctx, file, module, source)
			if err != nil {
				diagnostics[i] = domain.Diagnostic{Path: file, Message: err.Error(), Severity: "warning"}
				return nil
			}
			extractions[i] = extraction
			if extraction.ParseErr != nil {
				diagnostics[i] = domain.Diagnostic{Path: file, Message: extraction.ParseErr.Error(), Severity: "warning"}
			}
			return nil
		})
	}
	werr := g.Wait()
	close(done)
	wg.Wait()
	_ = bar.Finish()
	if werr != nil {
		switch {
		case errors.Is(werr, context.DeadlineExceeded):
			return nil, nil, domain.NewTimeoutError("extraction timed out", werr)
		case errors.Is(werr, context.Canceled):
			return nil, nil, domain.NewCancelledError("extraction cancelled", werr)
		}
		return nil, nil, domain.NewAnalysisError("extraction failed", werr)
	}

	var compacted []*domain.Extraction
	var diags []domain.Diagnostic
	for i, e := range extractions {
		if e != nil {
			compacted = append(compacted, e)
		}
		if diagnostics[i].Message != "" {
			diags = append(diags, diagnostics[i])
		}
	}
	return compacted, diags, nil
}

// progressVisible suppresses the progress bar outside an interactive
// terminal (CI logs, piped output).
func (s *AnalyzeServiceImpl) progressVisible() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func moduleNames(graph *analyzer.CouplingGraph) []domain.ModulePath {
	names := graph.ModuleNames()
	out := make([]domain.ModulePath, len(names))
	for i, n := range names {
		out[i] = domain.ModulePath(n)
	}
	return out
}

func buildResult(graph *analyzer.CouplingGraph, eval *domain.BalanceEvaluation, hotspots []domain.Hotspot, diagnostics []domain.Diagnostic, runID string) *domain.AnalysisResult {
	nodes := graph.Nodes()
	names := graph.ModuleNames()

	exportNodes := make([]domain.ModuleNode, 0, len(names))
	for _, name := range names {
		exportNodes = append(exportNodes, *nodes[domain.ModulePath(name)])
	}

	edges := graph.Edges()
	exportEdges := make([]domain.EdgeExport, 0, len(edges))
	for _, e := range edges {
		balance := eval.EdgeBalance[e.Source][e.Target]
		exportEdges = append(exportEdges, domain.EdgeExport{
			Source:     e.Source,
			Target:     e.Target,
			Strength:   e.Strength,
			Distance:   e.Distance,
			Volatility: e.Volatility,
			Contexts:   e.ContextList(),
			Count:      e.Count,
			InCycle:    e.InCycle,
			External:   e.External,
			Balance:    balance,
		})
	}

	// RunID and GeneratedAt are run metadata, not analysis output: they are
	// deliberately excluded from the determinism contract (spec.md §8;
	// SPEC_FULL.md §4.7) and are expected to differ between two exports of
	// an unchanged workspace. Every other field below is analysis-bearing
	// and must be byte-identical across such runs.
	summary := domain.Summary{
		SchemaVersion: version.SchemaVersion,
		Version:       version.Short(),
		RunID:         runID,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		ModuleCount:   len(nodes),
		EdgeCount:     len(edges),
		CycleCount:    len(graph.Cycles()),
		IssueCount:    len(eval.Issues),
		HealthScore:   eval.HealthScore,
		HealthGrade:   domain.GradeForScore(eval.HealthScore),
	}

	return &domain.AnalysisResult{
		Summary:     summary,
		Nodes:       exportNodes,
		Edges:       exportEdges,
		Issues:      eval.Issues,
		Hotspots:    hotspots,
		Diagnostics: diagnostics,
	}
}
