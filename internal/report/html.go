package report

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"siteaudit/internal/model"
)

// HTMLWriter outputs a self-contained single-file HTML report with
// inline CSS: a score circle, one card per category, and the full
// finding lists.
//
// Design decision: We use html/template from the standard library
// because:
// 1. Contextual auto-escaping protects against injection from crawled
//    page content (titles and URLs flow into the report)
// 2. The report is a single static template with no layout composition
// 3. No template library appears anywhere else in the dependency tree
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report to HTML.
func (w *HTMLWriter) Write(report *model.AuditReport) (int, error) {
	var buf bytes.Buffer
	data := htmlReportData{
		Report:   report,
		Duration: model.FormatDuration(report.CrawlDuration),
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

type htmlReportData struct {
	Report   *model.AuditReport
	Duration string
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"severityClass": func(s model.Severity) string {
		return strings.ToLower(s.String())
	},
	"severityIcon": func(s model.Severity) string {
		switch s {
		case model.SeverityGood:
			return "✓"
		case model.SeverityInfo:
			return "i"
		case model.SeverityWarning:
			return "!"
		default:
			return "✕"
		}
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Site Audit - {{.Report.TargetURL}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
    background: #f0f2f5;
    color: #333;
    line-height: 1.6;
}
.container { max-width: 1100px; margin: 0 auto; padding: 20px; }
.header {
    text-align: center;
    padding: 40px 20px;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    color: white;
    border-radius: 16px;
    margin-bottom: 30px;
}
.header h1 { font-size: 2em; margin-bottom: 8px; }
.header .subtitle { opacity: 0.9; font-size: 1.1em; }
.header .meta { margin-top: 12px; font-size: 0.9em; opacity: 0.8; }
.overall-score { display: flex; justify-content: center; align-items: center; margin: 30px 0; }
.score-circle {
    width: 160px; height: 160px;
    border-radius: 50%;
    display: flex;
    flex-direction: column;
    align-items: center;
    justify-content: center;
    font-weight: bold;
    color: white;
    box-shadow: 0 8px 32px rgba(0,0,0,0.15);
}
.score-circle .number { font-size: 3em; line-height: 1; }
.score-circle .grade { font-size: 1.2em; margin-top: 4px; opacity: 0.9; }
.grade-A { background: linear-gradient(135deg, #43a047, #66bb6a); }
.grade-B { background: linear-gradient(135deg, #7cb342, #9ccc65); }
.grade-C { background: linear-gradient(135deg, #ffa726, #ffb74d); }
.grade-D { background: linear-gradient(135deg, #ef5350, #e57373); }
.grade-F { background: linear-gradient(135deg, #c62828, #e53935); }
.score-cards {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
    gap: 16px;
    margin-bottom: 30px;
}
.score-card {
    background: white;
    border-radius: 12px;
    padding: 24px;
    text-align: center;
    box-shadow: 0 2px 12px rgba(0,0,0,0.08);
}
.score-card .cat-name { font-size: 1em; color: #666; margin-bottom: 8px; }
.score-card .cat-score { font-size: 2.5em; font-weight: bold; }
.score-card .cat-grade {
    display: inline-block;
    padding: 2px 12px;
    border-radius: 12px;
    font-weight: bold;
    font-size: 0.85em;
    margin-top: 4px;
}
.score-card .cat-counts { margin-top: 10px; font-size: 0.85em; color: #888; }
.text-A { color: #43a047; }
.text-B { color: #7cb342; }
.text-C { color: #ffa726; }
.text-D { color: #ef5350; }
.text-F { color: #c62828; }
.badge-A { background: #e8f5e9; color: #2e7d32; }
.badge-B { background: #f1f8e9; color: #558b2f; }
.badge-C { background: #fff8e1; color: #f57f17; }
.badge-D { background: #fbe9e7; color: #bf360c; }
.badge-F { background: #ffebee; color: #b71c1c; }
.section {
    background: white;
    border-radius: 12px;
    margin-bottom: 24px;
    box-shadow: 0 2px 12px rgba(0,0,0,0.08);
    overflow: hidden;
}
.section-header {
    padding: 20px 24px;
    background: #fafbfc;
    border-bottom: 1px solid #eee;
    display: flex;
    justify-content: space-between;
    align-items: center;
}
.section-header h2 { font-size: 1.3em; }
.section-badge { padding: 4px 16px; border-radius: 20px; font-weight: bold; font-size: 0.9em; }
.finding {
    padding: 16px 24px;
    border-bottom: 1px solid #f0f0f0;
    display: flex;
    gap: 16px;
    align-items: flex-start;
}
.finding:last-child { border-bottom: none; }
.finding-icon {
    flex-shrink: 0;
    width: 28px; height: 28px;
    border-radius: 50%;
    display: flex;
    align-items: center;
    justify-content: center;
    font-size: 14px;
    margin-top: 2px;
}
.icon-good { background: #e8f5e9; color: #43a047; }
.icon-info { background: #e3f2fd; color: #1976d2; }
.icon-warning { background: #fff8e1; color: #f9a825; }
.icon-error { background: #ffebee; color: #e53935; }
.finding-body { flex: 1; }
.finding-title { font-weight: 600; margin-bottom: 4px; }
.finding-desc { color: #666; font-size: 0.9em; white-space: pre-line; }
.finding-rec {
    margin-top: 6px;
    padding: 6px 10px;
    background: #f8f9fa;
    border-left: 3px solid #667eea;
    font-size: 0.85em;
    color: #555;
    border-radius: 0 4px 4px 0;
}
.finding-url { font-size: 0.8em; color: #999; margin-top: 4px; word-break: break-all; }
.pages { width: 100%; border-collapse: collapse; font-size: 0.85em; }
.pages th, .pages td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #f0f0f0; }
.pages th { background: #fafbfc; }
.footer { text-align: center; padding: 30px; color: #999; font-size: 0.85em; }
@media (max-width: 600px) {
    .score-cards { grid-template-columns: repeat(2, 1fr); }
    .header h1 { font-size: 1.5em; }
    .score-circle { width: 120px; height: 120px; }
    .score-circle .number { font-size: 2.2em; }
}
</style>
</head>
<body>
<div class="container">

<div class="header">
    <h1>Site Audit</h1>
    <div class="subtitle">{{.Report.TargetURL}}</div>
    <div class="meta">
        {{.Report.TotalPages}} pages crawled · {{.Duration}} · {{.Report.GeneratedAt.Format "2006-01-02 15:04"}}
    </div>
</div>

<div class="overall-score">
    <div class="score-circle grade-{{.Report.OverallGrade}}">
        <span class="number">{{.Report.OverallScore}}</span>
        <span class="grade">Grade {{.Report.OverallGrade}}</span>
    </div>
</div>

<div class="score-cards">
{{range .Report.Categories}}
    <div class="score-card">
        <div class="cat-name">{{.Category}}</div>
        <div class="cat-score text-{{.Grade}}">{{.Score}}</div>
        <div class="cat-grade badge-{{.Grade}}">Grade {{.Grade}}</div>
        <div class="cat-counts">
            ✅ {{.GoodCount}} · ⚠️ {{.WarningCount}} · ❌ {{.ErrorCount}}
        </div>
    </div>
{{end}}
</div>

{{range .Report.Categories}}
<div class="section">
    <div class="section-header">
        <h2>{{.Category}}</h2>
        <span class="section-badge badge-{{.Grade}}">{{.Score}} · Grade {{.Grade}}</span>
    </div>
    {{range .Findings}}
    <div class="finding">
        <div class="finding-icon icon-{{severityClass .Severity}}">{{severityIcon .Severity}}</div>
        <div class="finding-body">
            <div class="finding-title">{{.Title}}</div>
            <div class="finding-desc">{{.Description}}</div>
            {{if .Recommendation}}
            <div class="finding-rec">💡 {{.Recommendation}}</div>
            {{end}}
            {{if .URL}}
            <div class="finding-url">📎 {{.URL}}</div>
            {{end}}
        </div>
    </div>
    {{end}}
</div>
{{end}}

{{if .Report.PageOrder}}
<div class="section">
    <div class="section-header"><h2>Crawled Pages</h2></div>
    <table class="pages">
        <tr><th>URL</th><th>Status</th><th>Time</th><th>Size</th><th>Words</th></tr>
        {{range $url := .Report.PageOrder}}
        {{with index $.Report.Pages $url}}
        <tr>
            <td>{{.URL}}</td>
            <td>{{if .StatusCode}}{{.StatusCode}}{{else}}failed{{end}}</td>
            <td>{{printf "%.2fs" .ResponseTime}}</td>
            <td>{{.ContentLength}}</td>
            <td>{{.WordCount}}</td>
        </tr>
        {{end}}
        {{end}}
    </table>
</div>
{{end}}

<div class="footer">
    Generated by siteaudit · {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}
</div>

</div>
</body>
</html>
`))
