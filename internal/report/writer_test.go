package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"siteaudit/internal/model"
)

// sampleReport builds a small report with findings at every severity.
func sampleReport() *model.AuditReport {
	seoFindings := []model.Finding{
		model.NewFinding(model.CategorySEO, model.SeverityError, "Missing title tag", "The page has no title tag").
			WithURL("https://example.com/bare"),
		model.NewFinding(model.CategorySEO, model.SeverityGood, "robots.txt present", "The site serves a robots.txt file"),
	}
	secFindings := []model.Finding{
		model.NewFinding(model.CategorySecurity, model.SeverityWarning, "Cookie missing SameSite flag", "").
			WithRecommendation("Add SameSite=Lax or SameSite=Strict"),
		model.NewFinding(model.CategorySecurity, model.SeverityInfo, "Server header present", "Server: nginx"),
	}

	categories := []model.CategoryReport{
		{Category: model.CategorySEO, Score: model.Score(seoFindings), Findings: seoFindings},
		{Category: model.CategoryPerformance, Score: 100},
		{Category: model.CategoryContent, Score: 100},
		{Category: model.CategorySecurity, Score: model.Score(secFindings), Findings: secFindings},
	}
	overall := 0
	for i := range categories {
		categories[i].Grade = model.ScoreToGrade(categories[i].Score)
		overall += categories[i].Score
	}
	overall /= len(categories)

	page := model.NewPageRecord("https://example.com/")
	page.StatusCode = 200
	page.WordCount = 120

	return &model.AuditReport{
		TargetURL:     "https://example.com/",
		TotalPages:    1,
		CrawlDuration: 2 * time.Second,
		Categories:    categories,
		OverallScore:  overall,
		OverallGrade:  model.ScoreToGrade(overall),
		GeneratedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Pages:         map[string]*model.PageRecord{page.URL: page},
		PageOrder:     []string{page.URL},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() returned %d bytes, buffer holds %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"SITE AUDIT REPORT",
		"https://example.com/",
		"OVERALL:",
		"Missing title tag",
		"Recommendation: Add SameSite=Lax or SameSite=Strict",
		"SEO",
		"SECURITY",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSimpleWriterNonVerboseOmitsRecommendations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Contains(buf.String(), "Recommendation:") {
		t.Error("non-verbose output contains recommendations")
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, "1.2.3", WithPrettyPrint()).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var wrapped JSONReport
	if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if wrapped.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", wrapped.Version)
	}
	if wrapped.Report.TargetURL != "https://example.com/" {
		t.Errorf("TargetURL = %q", wrapped.Report.TargetURL)
	}
	if len(wrapped.Report.Categories) != 4 {
		t.Errorf("got %d categories, want 4", len(wrapped.Report.Categories))
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Site Audit Report",
		"| Category |",
		"mermaid",
		"Missing title tag",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// The sample report's worst severity is error, so the alert is a caution.
	if !strings.Contains(out, "[!CAUTION]") {
		t.Error("output missing caution alert for error findings")
	}
}

func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewHTMLWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"score-circle",
		"https://example.com/",
		"Missing title tag",
		"icon-error",
		"Crawled Pages",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHTMLWriterEscapesPageContent(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Categories[0].Findings[0].Description = `<script>alert("x")</script>`

	var buf bytes.Buffer
	if _, err := NewHTMLWriter(&buf).Write(r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Contains(buf.String(), `<script>alert`) {
		t.Error("finding description not escaped")
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b, "dev"))
	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("multi writer did not write to all destinations")
	}
}
