package report

import (
	"fmt"
	"io"
	"strings"

	"siteaudit/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables recommendations and descriptions in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeScores(&sb, report)
	for i := range report.Categories {
		w.writeCategory(&sb, &report.Categories[i])
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SITE AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:         %s\n", report.TargetURL))
	sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Crawled:  %d\n", report.TotalPages))
	sb.WriteString(fmt.Sprintf("Crawl Time:     %s\n", model.FormatDuration(report.CrawlDuration)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScores(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCORES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Categories {
		sb.WriteString(fmt.Sprintf("  %-14s %3d/100 (%s)\n", string(c.Category)+":", c.Score, c.Grade))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-14s %3d/100 (%s)\n", "OVERALL:", report.OverallScore, report.OverallGrade))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCategory(sb *strings.Builder, category *model.CategoryReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s  [%d/100 %s]  %d errors, %d warnings, %d passed\n",
		strings.ToUpper(string(category.Category)), category.Score, category.Grade,
		category.ErrorCount(), category.WarningCount(), category.GoodCount()))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	severities := []model.Severity{
		model.SeverityError,
		model.SeverityWarning,
		model.SeverityGood,
		model.SeverityInfo,
	}
	for _, sev := range severities {
		findings := category.FindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", severityIndicator(sev), sev.String()))
		for _, f := range findings {
			sb.WriteString(fmt.Sprintf("  * %s\n", f.Title))
			if f.URL != "" {
				sb.WriteString(fmt.Sprintf("    URL: %s\n", f.URL))
			}
			if w.verbose && f.Description != "" {
				sb.WriteString(fmt.Sprintf("    Description: %s\n", f.Description))
			}
			if w.verbose && f.Recommendation != "" {
				sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", f.Recommendation))
			}
		}
		sb.WriteString("\n")
	}
}

// severityIndicator returns a visual marker for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityGood:
		return "+"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by siteaudit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
