package analyzer

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"siteaudit/internal/crawler"
	"siteaudit/internal/model"
)

// Input is everything an analyzer may look at. The crawl result is
// finished and read-only by the time analyzers run.
type Input struct {
	// BaseURL is the normalized seed URL of the crawl.
	BaseURL string

	// Pages is the completed crawl result.
	Pages *crawler.Result
}

// CheckAnalyzer runs one dimension's rule checks over a crawl result.
type CheckAnalyzer interface {
	// Name returns the analyzer's display name.
	Name() string

	// Category returns the dimension the findings belong to.
	Category() model.Category

	// Analyze inspects the crawl result and returns findings.
	Analyze(ctx context.Context, input *Input) ([]model.Finding, error)
}

// HTTPClientSetter is implemented by analyzers that make their own HTTP
// requests, such as the robots.txt reachability check. The registry
// injects its shared client before running them.
type HTTPClientSetter interface {
	SetHTTPClient(client *http.Client)
}

// Registry holds the analyzers for an audit run.
//
// Design decision: Analyzers run concurrently but an analyzer failure
// never fails the audit because:
// 1. Every analyzer reads the same immutable crawl result
// 2. A single misbehaving check should not cost the user the whole scan
// 3. Missing findings are visible in the report as an empty category
type Registry struct {
	analyzers []CheckAnalyzer
	client    *http.Client
	logger    *slog.Logger
}

// NewRegistry creates a registry pre-loaded with the four built-in
// analyzers.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
	r.Register(NewSEOAnalyzer())
	r.Register(NewPerformanceAnalyzer())
	r.Register(NewContentAnalyzer())
	r.Register(NewSecurityAnalyzer())
	return r
}

// Register adds an analyzer to the registry. Analyzers needing HTTP get
// the registry's shared client.
func (r *Registry) Register(a CheckAnalyzer) {
	if setter, ok := a.(HTTPClientSetter); ok {
		setter.SetHTTPClient(r.client)
	}
	r.analyzers = append(r.analyzers, a)
}

// SetHTTPClient replaces the shared client for all registered analyzers,
// mainly for tests.
func (r *Registry) SetHTTPClient(client *http.Client) {
	r.client = client
	for _, a := range r.analyzers {
		if setter, ok := a.(HTTPClientSetter); ok {
			setter.SetHTTPClient(client)
		}
	}
}

// Run executes all analyzers concurrently and returns one scored
// CategoryReport per dimension, in report order. Analyzer errors are
// logged and the remaining analyzers still contribute.
func (r *Registry) Run(ctx context.Context, input *Input) []model.CategoryReport {
	var mu sync.Mutex
	byCategory := make(map[model.Category][]model.Finding)

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range r.analyzers {
		g.Go(func() error {
			findings, err := a.Analyze(gctx, input)
			if err != nil {
				r.logger.Warn("analyzer failed", "analyzer", a.Name(), "error", err)
				return nil
			}
			mu.Lock()
			// Findings are grouped by their own category, not the
			// analyzer's: enrichment analyzers span several dimensions.
			for _, f := range findings {
				byCategory[f.Category] = append(byCategory[f.Category], f)
			}
			mu.Unlock()
			return nil
		})
	}
	// Analyzers swallow their own errors, so Wait only synchronizes.
	_ = g.Wait()

	reports := make([]model.CategoryReport, 0, len(model.Categories))
	for _, cat := range model.Categories {
		findings := byCategory[cat]
		score := model.Score(findings)
		reports = append(reports, model.CategoryReport{
			Category: cat,
			Score:    score,
			Grade:    model.ScoreToGrade(score),
			Findings: findings,
		})
	}
	return reports
}
