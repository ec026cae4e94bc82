package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"siteaudit/internal/model"
)

// ErrNothingCrawled is returned by Crawl when not a single page came back
// with an HTTP status. The partial result still accompanies the error so
// callers can show what failed.
var ErrNothingCrawled = errors.New("crawler: no page could be fetched")

// Result is the outcome of a crawl: pages keyed by normalized URL, with
// Order preserving discovery order for deterministic reporting.
type Result struct {
	Pages map[string]*model.PageRecord
	Order []string
}

// add records a page, keeping insertion order.
func (r *Result) add(page *model.PageRecord) {
	if _, exists := r.Pages[page.URL]; !exists {
		r.Order = append(r.Order, page.URL)
	}
	r.Pages[page.URL] = page
}

// Len returns the number of recorded pages.
func (r *Result) Len() int { return len(r.Order) }

// InOrder calls fn for every page in discovery order.
func (r *Result) InOrder(fn func(*model.PageRecord)) {
	for _, u := range r.Order {
		fn(r.Pages[u])
	}
}

// Spider crawls one site breadth-first within a fixed page budget.
//
// Design decision: The crawl loop is single-threaded because:
// 1. The politeness delay serializes requests anyway
// 2. Strict FIFO ordering keeps results reproducible across runs
// 3. Page budgets are small enough that parallel fetching buys nothing
type Spider struct {
	client      *http.Client
	maxPages    int
	delay       time.Duration
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the page budget. Every fetch attempt, including
// failed ones, consumes budget.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) { s.maxPages = n }
}

// WithDelay sets the politeness delay between consecutive fetches.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) { s.delay = d }
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) { s.userAgent = ua }
}

// WithMaxBodySize caps how many body bytes are read per response.
func WithMaxBodySize(n int64) SpiderOption {
	return func(s *Spider) { s.maxBodySize = n }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) { s.logger = logger }
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) SpiderOption {
	return func(s *Spider) { s.client = client }
}

// NewSpider creates a spider with sensible defaults: 50 pages, 1 second
// delay, 15 second timeout, 5MB body cap.
func NewSpider(opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      &http.Client{Timeout: 15 * time.Second},
		maxPages:    50,
		delay:       time.Second,
		userAgent:   "SiteAudit/1.0",
		maxBodySize: 5 << 20,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// visitedCapFactor bounds the visited set relative to the page budget so
// link-rich sites cannot grow it without limit.
const visitedCapFactor = 2

// Crawl walks the site breadth-first starting at target until the page
// budget is spent or the frontier empties. Cancellation is honored
// between iterations; pages already fetched are kept. The returned
// Result is never nil.
func (s *Spider) Crawl(ctx context.Context, target string) (*Result, error) {
	result := &Result{Pages: make(map[string]*model.PageRecord)}

	seed := NormalizeURL(target, target)
	if seed == "" {
		return result, ErrNothingCrawled
	}

	gate := NewRobotsGate(ctx, s.client, seed, s.userAgent, s.logger)
	fetcher := NewFetcher(s.client, s.userAgent, s.maxBodySize)

	visitedCap := s.maxPages * visitedCapFactor
	visited := map[string]struct{}{seed: {}}
	queue := []string{seed}

	for len(queue) > 0 && result.Len() < s.maxPages {
		select {
		case <-ctx.Done():
			return s.finish(result, ctx.Err())
		default:
		}

		current := queue[0]
		queue = queue[1:]

		if !gate.CanFetch(current) {
			s.logger.Debug("skipping URL disallowed by robots.txt", "url", current)
			continue
		}

		s.logger.Debug("fetching page", "url", current, "crawled", result.Len())
		page := fetcher.Fetch(ctx, current)
		if page.Error != "" {
			s.logger.Warn("page fetch failed", "url", current, "error", page.Error)
		} else if page.IsHTML() {
			if err := Extract(page, seed); err != nil {
				s.logger.Warn("page parse failed", "url", current, "error", err)
			}
		}
		result.add(page)

		queue = enqueueLinks(queue, visited, page.InternalLinks, visitedCap)

		// Politeness delay only when another fetch is coming; the last
		// fetch of a crawl must not stall the caller.
		if len(queue) > 0 && result.Len() < s.maxPages {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return s.finish(result, ctx.Err())
			}
		}
	}

	return s.finish(result, nil)
}

// enqueueLinks adds unseen crawlable links to the frontier. Once the
// visited set reaches limit no new URLs are admitted, so memory stays
// bounded on link-rich sites.
func enqueueLinks(queue []string, visited map[string]struct{}, links []string, limit int) []string {
	for _, link := range links {
		if len(visited) >= limit {
			break
		}
		if _, seen := visited[link]; seen {
			continue
		}
		if !IsCrawlable(link) {
			continue
		}
		visited[link] = struct{}{}
		queue = append(queue, link)
	}
	return queue
}

// finish applies the nothing-crawled check to a (possibly partial) result.
func (s *Spider) finish(result *Result, cause error) (*Result, error) {
	fetched := false
	for _, u := range result.Order {
		if result.Pages[u].StatusCode != 0 {
			fetched = true
			break
		}
	}
	if !fetched {
		if cause != nil {
			return result, errors.Join(ErrNothingCrawled, cause)
		}
		return result, ErrNothingCrawled
	}
	return result, cause
}
