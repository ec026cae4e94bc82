package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"siteaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeScores(md, report)
	w.writeSeverityChart(md, report)
	w.writeAlert(md, report)
	w.writeCategories(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("Site Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.TargetURL + "`"},
			{"Audit Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.TotalPages)},
			{"Crawl Time", model.FormatDuration(report.CrawlDuration)},
			{"Overall", fmt.Sprintf("**%d/100 (%s)**", report.OverallScore, report.OverallGrade)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeScores(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Scores")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, []string{
			string(c.Category),
			strconv.Itoa(c.Score),
			c.Grade,
			strconv.Itoa(c.ErrorCount()),
			strconv.Itoa(c.WarningCount()),
			strconv.Itoa(c.GoodCount()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score", "Grade", "Errors", "Warnings", "Passed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSeverityChart writes a mermaid pie chart of the severity
// distribution across all categories.
func (w *MarkdownWriter) writeSeverityChart(md *markdown.Markdown, report *model.AuditReport) {
	if report.TotalFindings() == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if n := report.CountBySeverity(model.SeverityError); n > 0 {
		chart.LabelAndIntValue("Error", uint64(n))
	}
	if n := report.CountBySeverity(model.SeverityWarning); n > 0 {
		chart.LabelAndIntValue("Warning", uint64(n))
	}
	if n := report.CountBySeverity(model.SeverityGood); n > 0 {
		chart.LabelAndIntValue("Good", uint64(n))
	}
	if n := report.CountBySeverity(model.SeverityInfo); n > 0 {
		chart.LabelAndIntValue("Info", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes a GitHub-flavored alert keyed on the worst severity.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AuditReport) {
	switch report.WorstSeverity() {
	case model.SeverityError:
		md.Cautionf(
			"%d error(s) found. These issues actively hurt the site and should be fixed first.",
			report.CountBySeverity(model.SeverityError),
		)
	case model.SeverityWarning:
		md.Warningf(
			"%d warning(s) found. Address these to improve the site's score.",
			report.CountBySeverity(model.SeverityWarning),
		)
	case model.SeverityInfo:
		md.Note("Only informational findings. The site is in good shape.")
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, report *model.AuditReport) {
	for i := range report.Categories {
		c := &report.Categories[i]
		md.H2(fmt.Sprintf("%s: %d/100 (%s)", c.Category, c.Score, c.Grade))
		md.PlainText("")

		if len(c.Findings) == 0 {
			md.PlainText("No findings.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(c.Findings))
		for _, f := range c.Findings {
			rows = append(rows, []string{
				severityEmoji(f.Severity) + " " + f.Severity.String(),
				f.Title,
				f.URL,
				f.Recommendation,
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Severity", "Finding", "URL", "Recommendation"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// severityEmoji returns a colored marker for markdown tables.
func severityEmoji(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "🔴"
	case model.SeverityWarning:
		return "🟡"
	case model.SeverityGood:
		return "🟢"
	case model.SeverityInfo:
		return "⚪"
	default:
		return "❓"
	}
}
