package analyzer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"siteaudit/internal/crawler"
	"siteaudit/internal/model"
)

const testBase = "https://example.com/"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newResult builds a crawl result from records in discovery order.
func newResult(pages ...*model.PageRecord) *crawler.Result {
	r := &crawler.Result{Pages: make(map[string]*model.PageRecord)}
	for _, p := range pages {
		r.Order = append(r.Order, p.URL)
		r.Pages[p.URL] = p
	}
	return r
}

func okPage(url string) *model.PageRecord {
	p := model.NewPageRecord(url)
	p.StatusCode = http.StatusOK
	p.ContentType = "text/html"
	return p
}

func findByTitle(findings []model.Finding, title string) *model.Finding {
	for i := range findings {
		if findings[i].Title == title {
			return &findings[i]
		}
	}
	return nil
}

func TestRegistryRun(t *testing.T) {
	t.Parallel()

	// Serve robots.txt and sitemap.xml for the SEO analyzer's live checks.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	home := okPage(srv.URL + "/")
	home.Title = "A perfectly sized page title"
	home.H1Tags = []string{"Heading"}

	registry := NewRegistry(discardLogger())
	registry.SetHTTPClient(srv.Client())

	reports := registry.Run(context.Background(), &Input{
		BaseURL: srv.URL + "/",
		Pages:   newResult(home),
	})

	if len(reports) != len(model.Categories) {
		t.Fatalf("got %d category reports, want %d", len(reports), len(model.Categories))
	}
	for i, cat := range model.Categories {
		if reports[i].Category != cat {
			t.Errorf("reports[%d].Category = %q, want %q", i, reports[i].Category, cat)
		}
		if reports[i].Grade != model.ScoreToGrade(reports[i].Score) {
			t.Errorf("reports[%d] grade %q does not match score %d", i, reports[i].Grade, reports[i].Score)
		}
	}
}

func TestRegistryRunAnalyzerFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	registry := &Registry{logger: discardLogger()}
	registry.Register(failingAnalyzer{})
	registry.Register(NewSecurityAnalyzer())

	reports := registry.Run(context.Background(), &Input{
		BaseURL: testBase,
		Pages:   newResult(okPage(testBase)),
	})

	var security *model.CategoryReport
	for i := range reports {
		if reports[i].Category == model.CategorySecurity {
			security = &reports[i]
		}
	}
	if security == nil || len(security.Findings) == 0 {
		t.Fatal("security findings missing after another analyzer failed")
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Name() string             { return "failing" }
func (failingAnalyzer) Category() model.Category { return model.CategorySEO }
func (failingAnalyzer) Analyze(context.Context, *Input) ([]model.Finding, error) {
	return nil, context.DeadlineExceeded
}
