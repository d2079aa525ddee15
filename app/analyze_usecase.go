package app

import (
	"context"
	"io"

	"github.com/ravelscan/ravel/domain"
	svc "github.com/ravelscan/ravel/service"
)

// AnalyzeUseCase orchestrates the coupling/balance analysis workflow:
// validate request, run the core analyzer, export the result via
// ReportWriter.
type AnalyzeUseCase struct {
	service  domain.AnalyzeService
	exporter domain.Exporter
	output   domain.ReportWriter
}

// NewAnalyzeUseCase creates a use case wired to the given collaborators,
// falling back to the package's default service/export implementations
// when nil.
func NewAnalyzeUseCase(service domain.AnalyzeService, exporter domain.Exporter) *AnalyzeUseCase {
	if service == nil {
		service = svc.NewAnalyzeService()
	}
	if exporter == nil {
		exporter = svc.NewExportService()
	}
	return &AnalyzeUseCase{
		service:  service,
		exporter: exporter,
		output:   svc.NewFileOutputWriter(nil),
	}
}

// Execute runs the analysis and writes the formatted export.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := uc.validate(req); err != nil {
		return nil, err
	}

	result, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	if req.OutputWriter != nil {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.exporter.Export(result, req.OutputFormat, w)
	}); err != nil {
		return nil, domain.NewOutputError("failed to write output", err)
	}

	return result, nil
}

func (uc *AnalyzeUseCase) validate(req domain.AnalysisRequest) error {
	if req.Root == "" {
		return domain.NewValidationError("no root path specified")
	}
	if req.OutputWriter == nil {
		return domain.NewValidationError("output writer is required")
	}
	return nil
}
