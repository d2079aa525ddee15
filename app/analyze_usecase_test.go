package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

type mockAnalyzeService struct {
	result *domain.AnalysisResult
	err    error
}

func (m *mockAnalyzeService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

type mockExporter struct {
	called     bool
	lastFormat domain.OutputFormat
}

func (m *mockExporter) Export(result *domain.AnalysisResult, format domain.OutputFormat, w io.Writer) error {
	m.called = true
	m.lastFormat = format
	_, err := w.Write([]byte("ok"))
	return err
}

func TestAnalyzeUseCase_Execute_Success(t *testing.T) {
	svc := &mockAnalyzeService{result: &domain.AnalysisResult{Summary: domain.Summary{ModuleCount: 3}}}
	exporter := &mockExporter{}
	uc := NewAnalyzeUseCase(svc, exporter)

	var out bytes.Buffer
	req := domain.AnalysisRequest{Root: ".", OutputWriter: &out, OutputFormat: domain.OutputFormatJSON}

	result, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.ModuleCount)
	assert.True(t, exporter.called)
	assert.Equal(t, domain.OutputFormatJSON, exporter.lastFormat)
	assert.Equal(t, "ok", out.String())
}

func TestAnalyzeUseCase_Execute_MissingRootIsInvalid(t *testing.T) {
	uc := NewAnalyzeUseCase(&mockAnalyzeService{}, &mockExporter{})
	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{OutputWriter: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestAnalyzeUseCase_Execute_MissingWriterIsInvalid(t *testing.T) {
	uc := NewAnalyzeUseCase(&mockAnalyzeService{}, &mockExporter{})
	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{Root: "."})
	assert.Error(t, err)
}

func TestAnalyzeUseCase_Execute_ServiceErrorPropagates(t *testing.T) {
	svc := &mockAnalyzeService{err: errors.New("boom")}
	uc := NewAnalyzeUseCase(svc, &mockExporter{})

	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{Root: ".", OutputWriter: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "boom")
}
