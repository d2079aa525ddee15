// Package reporter renders an AnalysisResult as a terminal-styled text
// report using charmbracelet/lipgloss.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ravelscan/ravel/domain"
)

var (
	accent  = lipgloss.Color("#D97706")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	faintStyle  = lipgloss.NewStyle().Foreground(faint)

	gradeColors = map[domain.HealthGrade]lipgloss.Color{
		domain.GradeA: success,
		domain.GradeB: lipgloss.Color("#A3E635"),
		domain.GradeC: warning,
		domain.GradeD: lipgloss.Color("#FB923C"),
		domain.GradeF: danger,
	}

	severityStyles = map[domain.Severity]lipgloss.Style{
		domain.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(danger),
		domain.SeverityHigh:     lipgloss.NewStyle().Bold(true).Foreground(warning),
		domain.SeverityMedium:   lipgloss.NewStyle().Foreground(dim),
		domain.SeverityLow:      lipgloss.NewStyle().Foreground(faint),
	}
)

// TextReporter renders AnalysisResult as a human-readable terminal report.
type TextReporter struct{}

// NewTextReporter creates a text reporter.
func NewTextReporter() *TextReporter { return &TextReporter{} }

// Render writes the styled report for result to w.
func (r *TextReporter) Render(result *domain.AnalysisResult, w io.Writer) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render("ravel") + " " + dimStyle.Render("coupling analysis") + "\n\n")

	grade := result.Summary.HealthGrade
	gradeStyled := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(grade)).Render(string(grade))
	scoreStyled := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%.2f", result.Summary.HealthScore))
	fmt.Fprintf(&b, "  Health: %s  Grade: %s\n", scoreStyled, gradeStyled)
	fmt.Fprintf(&b, "  %s modules, %s edges, %s cycles, %s issues\n\n",
		dimStyle.Render(fmt.Sprintf("%d", result.Summary.ModuleCount)),
		dimStyle.Render(fmt.Sprintf("%d", result.Summary.EdgeCount)),
		dimStyle.Render(fmt.Sprintf("%d", result.Summary.CycleCount)),
		dimStyle.Render(fmt.Sprintf("%d", result.Summary.IssueCount)),
	)

	if len(result.Issues) == 0 {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(success).Render("No issues found.") + "\n")
	} else {
		b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n")
		for _, issue := range result.Issues {
			renderIssue(&b, issue)
		}
	}

	if len(result.Hotspots) > 0 {
		b.WriteString("\n  " + headerStyle.Render("Hotspots") + "\n")
		limit := len(result.Hotspots)
		if limit > 10 {
			limit = 10
		}
		for _, h := range result.Hotspots[:limit] {
			fmt.Fprintf(&b, "    %s  %s\n", dimStyle.Render(fmt.Sprintf("%6.1f", h.Score)), h.Module)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderIssue(b *strings.Builder, issue domain.Issue) {
	style, ok := severityStyles[issue.Severity]
	if !ok {
		style = dimStyle
	}
	tag := style.Render(string(issue.Severity))

	anchor := string(issue.Module)
	if issue.Source != "" {
		anchor = string(issue.Source) + " -> " + string(issue.Target)
	}
	fmt.Fprintf(b, "  [%s] %s %s\n", tag, dimStyle.Render(anchor), issue.Message)
	if len(issue.Cycle) > 0 {
		parts := make([]string, len(issue.Cycle))
		for i, m := range issue.Cycle {
			parts[i] = string(m)
		}
		fmt.Fprintf(b, "         %s\n", faintStyle.Render(strings.Join(parts, " -> ")))
	}
}

func gradeColor(g domain.HealthGrade) lipgloss.Color {
	if c, ok := gradeColors[g]; ok {
		return c
	}
	return dim
}
