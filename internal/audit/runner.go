// Package audit orchestrates a full site audit: crawl, analyze, score,
// and assemble the final report.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"siteaudit/internal/analyzer"
	"siteaudit/internal/crawler"
	"siteaudit/internal/model"
)

// Runner wires the crawler and analyzer registry together.
type Runner struct {
	spider   *crawler.Spider
	registry *analyzer.Registry
	logger   *slog.Logger
}

// NewRunner creates a runner from an already configured spider and
// registry.
func NewRunner(spider *crawler.Spider, registry *analyzer.Registry, logger *slog.Logger) *Runner {
	return &Runner{
		spider:   spider,
		registry: registry,
		logger:   logger,
	}
}

// Run executes the full audit against the target URL. Cancellation after
// at least one successful fetch still produces a scored report over the
// partial crawl. The error cases are a wrapped crawler.ErrNothingCrawled
// and cancellation before anything was fetched; analyzer failures are
// absorbed by the registry.
func (r *Runner) Run(ctx context.Context, target string) (*model.AuditReport, error) {
	seed := crawler.NormalizeURL(target, target)
	if seed == "" {
		return nil, fmt.Errorf("audit %q: %w", target, crawler.ErrNothingCrawled)
	}

	r.logger.Info("starting crawl", "target", seed)
	start := time.Now()
	result, err := r.spider.Crawl(ctx, seed)
	crawlDuration := time.Since(start)
	if err != nil {
		// A cancelled crawl that already fetched pages is still scored;
		// stopping early should not discard the work done so far.
		if errors.Is(err, crawler.ErrNothingCrawled) || !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("audit %q: %w", target, err)
		}
		r.logger.Warn("crawl cancelled, scoring partial result", "pages", result.Len())
	}
	r.logger.Info("crawl finished", "pages", result.Len(), "duration", crawlDuration)

	categories := r.registry.Run(ctx, &analyzer.Input{
		BaseURL: seed,
		Pages:   result,
	})

	overall := 0
	for _, c := range categories {
		overall += c.Score
	}
	overall /= len(categories)

	return &model.AuditReport{
		TargetURL:     seed,
		TotalPages:    result.Len(),
		CrawlDuration: crawlDuration,
		Categories:    categories,
		OverallScore:  overall,
		OverallGrade:  model.ScoreToGrade(overall),
		GeneratedAt:   time.Now(),
		Pages:         result.Pages,
		PageOrder:     result.Order,
	}, nil
}
