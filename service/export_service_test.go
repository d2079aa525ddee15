package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Summary: domain.Summary{
			SchemaVersion: "1",
			Version:       "test",
			ModuleCount:   2,
			EdgeCount:     1,
			HealthScore:   0.75,
			HealthGrade:   domain.GradeC,
		},
		Nodes: []domain.ModuleNode{
			{Path: "app::a"},
			{Path: "app::b"},
		},
		Edges: []domain.EdgeExport{
			{
				Source:   "app::a",
				Target:   "app::b",
				Strength: domain.StrengthFunctional,
				Distance: domain.DistanceDifferentModule,
				Contexts: []domain.UsageContext{domain.ContextFunctionCall},
				Count:    1,
			},
		},
		Issues:   []domain.Issue{{Type: domain.IssueUnnecessaryAbstraction, Severity: domain.SeverityMedium}},
		Hotspots: []domain.Hotspot{{Module: "app::a", Score: 10}},
	}
}

func TestExportServiceImpl_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := NewExportService().Export(sampleResult(), domain.OutputFormatJSON, &buf)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, "1", summary["schema_version"])
}

func TestExportServiceImpl_JSONRoundTrip(t *testing.T) {
	result := sampleResult()

	var first bytes.Buffer
	require.NoError(t, NewExportService().Export(result, domain.OutputFormatJSON, &first))

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(first.Bytes(), &decoded))

	var second bytes.Buffer
	require.NoError(t, NewExportService().Export(&decoded, domain.OutputFormatJSON, &second))

	assert.Equal(t, first.Bytes(), second.Bytes(), "export -> decode -> export must be byte-identical")
}

func TestExportServiceImpl_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := NewExportService().Export(sampleResult(), domain.OutputFormatYAML, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "schema_version: \"1\"")
}

func TestExportServiceImpl_Text(t *testing.T) {
	var buf bytes.Buffer
	err := NewExportService().Export(sampleResult(), domain.OutputFormatText, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ravel")
}

func TestExportServiceImpl_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewExportService().Export(sampleResult(), domain.OutputFormat("xml"), &buf)
	assert.Error(t, err)
}
