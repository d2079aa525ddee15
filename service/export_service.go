package service

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ravelscan/ravel/domain"
	"github.com/ravelscan/ravel/internal/reporter"
)

// ExportServiceImpl implements domain.Exporter (C7), rendering the
// schema-versioned AnalysisResult projection to JSON or YAML: one
// marshaler per format, encoding/json paired with gopkg.in/yaml.v3.
type ExportServiceImpl struct{}

// NewExportService creates an exporter.
func NewExportService() *ExportServiceImpl {
	return &ExportServiceImpl{}
}

// Export implements domain.Exporter.
func (s *ExportServiceImpl) Export(result *domain.AnalysisResult, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return domain.NewOutputError("failed to marshal JSON", err)
		}
		return nil
	case domain.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(result); err != nil {
			return domain.NewOutputError("failed to marshal YAML", err)
		}
		return nil
	case domain.OutputFormatText:
		return reporter.NewTextReporter().Render(result, w)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}
