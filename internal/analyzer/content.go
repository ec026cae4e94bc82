package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"siteaudit/internal/model"
)

// functionalPaths lists URL path suffixes that legitimately carry little
// text, so the thin-content check skips them.
var functionalPaths = []string{
	"/register", "/login", "/signup", "/signin",
	"/cart", "/checkout", "/account", "/profile",
	"/reset-password", "/forgot-password", "/verify",
	"/unsubscribe", "/settings", "/dashboard",
}

// ContentAnalyzer checks content quality: page statistics, dead links,
// thin pages, the internal link graph, and duplicate titles.
type ContentAnalyzer struct{}

// NewContentAnalyzer creates the content analyzer.
func NewContentAnalyzer() *ContentAnalyzer { return &ContentAnalyzer{} }

// Name returns the analyzer's display name.
func (a *ContentAnalyzer) Name() string { return "content" }

// Category returns the content dimension.
func (a *ContentAnalyzer) Category() model.Category { return model.CategoryContent }

// Analyze runs all content checks over the crawl result.
func (a *ContentAnalyzer) Analyze(_ context.Context, input *Input) ([]model.Finding, error) {
	var findings []model.Finding
	findings = append(findings, a.checkPageStats(input)...)
	findings = append(findings, a.checkDeadLinks(input)...)
	findings = append(findings, a.checkWordCounts(input)...)
	findings = append(findings, a.checkLinkGraph(input)...)
	findings = append(findings, a.checkDuplicateTitles(input)...)
	return findings, nil
}

func (a *ContentAnalyzer) checkPageStats(input *Input) []model.Finding {
	total, ok, errored, noResponse := 0, 0, 0, 0
	input.Pages.InOrder(func(page *model.PageRecord) {
		total++
		switch {
		case page.StatusCode == 200:
			ok++
		case page.StatusCode >= 400:
			errored++
		case page.StatusCode == 0:
			noResponse++
		}
	})
	return []model.Finding{
		model.NewFinding(model.CategoryContent, model.SeverityInfo,
			"Page statistics",
			fmt.Sprintf("Crawled %d pages: %d OK, %d errored, %d unreachable",
				total, ok, errored, noResponse)),
	}
}

func (a *ContentAnalyzer) checkDeadLinks(input *Input) []model.Finding {
	var dead []string
	input.Pages.InOrder(func(page *model.PageRecord) {
		switch {
		case page.StatusCode == 404:
			dead = append(dead, page.URL)
		case page.StatusCode >= 400:
			dead = append(dead, fmt.Sprintf("%s (%d)", page.URL, page.StatusCode))
		}
	})

	if len(dead) == 0 {
		return []model.Finding{
			model.NewFinding(model.CategoryContent, model.SeverityGood,
				"No dead links found",
				"Every crawled internal link responds normally"),
		}
	}

	var lines []string
	for i, link := range dead {
		if i >= 10 {
			break
		}
		lines = append(lines, "  - "+link)
	}
	return []model.Finding{
		model.NewFinding(model.CategoryContent, model.SeverityError,
			fmt.Sprintf("Found %d dead links", len(dead)),
			strings.Join(lines, "\n")).
			WithRecommendation("Fix or remove the broken links, or add 301 redirects"),
	}
}

func isFunctionalPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	for _, fp := range functionalPaths {
		if path == fp || strings.HasSuffix(path, fp) {
			return true
		}
	}
	return false
}

func (a *ContentAnalyzer) checkWordCounts(input *Input) []model.Finding {
	var findings []model.Finding
	var thin []urlMetric
	var counts []int

	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		if page.WordCount > 0 {
			counts = append(counts, page.WordCount)
		}
		if isFunctionalPath(page.URL) {
			return
		}
		if page.WordCount > 0 && page.WordCount < 300 {
			thin = append(thin, urlMetric{page.URL, float64(page.WordCount)})
		}
	})

	if len(thin) > 0 {
		sort.Slice(thin, func(i, j int) bool { return thin[i].value < thin[j].value })
		var lines []string
		for i, m := range thin {
			if i >= 10 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s (%d words)", m.url, int(m.value)))
		}
		findings = append(findings,
			model.NewFinding(model.CategoryContent, model.SeverityWarning,
				fmt.Sprintf("%d pages have thin content (<300 words)", len(thin)),
				strings.Join(lines, "\n")).
				WithRecommendation("Expand these pages so they offer real value to visitors"))
	}

	if len(counts) > 0 {
		sum, minCount, maxCount := 0, counts[0], counts[0]
		for _, c := range counts {
			sum += c
			if c < minCount {
				minCount = c
			}
			if c > maxCount {
				maxCount = c
			}
		}
		findings = append(findings,
			model.NewFinding(model.CategoryContent, model.SeverityInfo,
				"Word count statistics",
				fmt.Sprintf("Average %d words per page, minimum %d, maximum %d",
					sum/len(counts), minCount, maxCount)))
	}

	return findings
}

func (a *ContentAnalyzer) checkLinkGraph(input *Input) []model.Finding {
	var findings []model.Finding

	inbound := make(map[string]int, input.Pages.Len())
	for _, u := range input.Pages.Order {
		inbound[u] = 0
	}
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		for _, link := range page.InternalLinks {
			if _, crawled := inbound[link]; crawled {
				inbound[link]++
			}
		}
	})

	var orphans []string
	for _, u := range input.Pages.Order {
		if inbound[u] == 0 && u != input.BaseURL && input.Pages.Pages[u].OK() {
			orphans = append(orphans, u)
		}
	}
	if len(orphans) > 0 {
		var lines []string
		for i, u := range orphans {
			if i >= 10 {
				break
			}
			lines = append(lines, "  - "+u)
		}
		findings = append(findings,
			model.NewFinding(model.CategoryContent, model.SeverityWarning,
				fmt.Sprintf("%d orphan pages (no internal inbound links)", len(orphans)),
				strings.Join(lines, "\n")).
				WithRecommendation("Link to these pages internally to improve discoverability and SEO"))
	}

	okPages, totalLinks := 0, 0
	input.Pages.InOrder(func(page *model.PageRecord) {
		if page.OK() {
			okPages++
			totalLinks += len(page.InternalLinks)
		}
	})
	if okPages > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryContent, model.SeverityInfo,
				"Internal link statistics",
				fmt.Sprintf("Average %d internal links per page", totalLinks/okPages)))
	}

	return findings
}

func (a *ContentAnalyzer) checkDuplicateTitles(input *Input) []model.Finding {
	titlePages := make(map[string][]string)
	var titles []string
	input.Pages.InOrder(func(page *model.PageRecord) {
		if page.OK() && page.Title != "" {
			if _, seen := titlePages[page.Title]; !seen {
				titles = append(titles, page.Title)
			}
			titlePages[page.Title] = append(titlePages[page.Title], page.URL)
		}
	})

	var lines []string
	duplicateGroups := 0
	for _, title := range titles {
		urls := titlePages[title]
		if len(urls) > 1 {
			duplicateGroups++
			if len(lines) < 5 {
				lines = append(lines, fmt.Sprintf("  %q (%d pages)", title, len(urls)))
			}
		}
	}
	if duplicateGroups == 0 {
		return nil
	}
	return []model.Finding{
		model.NewFinding(model.CategoryContent, model.SeverityWarning,
			fmt.Sprintf("%d duplicate title groups", duplicateGroups),
			strings.Join(lines, "\n")).
			WithRecommendation("Make sure every page carries a unique title"),
	}
}
