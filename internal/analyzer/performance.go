package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"siteaudit/internal/model"
)

// PerformanceAnalyzer checks response times, page weight, resource
// counts, image formats, compression, and HTTP/2 hints.
type PerformanceAnalyzer struct{}

// NewPerformanceAnalyzer creates the performance analyzer.
func NewPerformanceAnalyzer() *PerformanceAnalyzer { return &PerformanceAnalyzer{} }

// Name returns the analyzer's display name.
func (a *PerformanceAnalyzer) Name() string { return "performance" }

// Category returns the performance dimension.
func (a *PerformanceAnalyzer) Category() model.Category { return model.CategoryPerformance }

// Analyze runs all performance checks over the crawl result.
func (a *PerformanceAnalyzer) Analyze(_ context.Context, input *Input) ([]model.Finding, error) {
	var findings []model.Finding
	findings = append(findings, a.checkResponseTimes(input)...)
	findings = append(findings, a.checkPageSizes(input)...)
	findings = append(findings, a.checkResourceCounts(input)...)
	findings = append(findings, a.checkImageFormats(input)...)
	findings = append(findings, a.checkCompression(input)...)
	findings = append(findings, a.checkHTTP2(input)...)
	return findings, nil
}

type urlMetric struct {
	url   string
	value float64
}

func (a *PerformanceAnalyzer) checkResponseTimes(input *Input) []model.Finding {
	var findings []model.Finding
	var slow, verySlow []urlMetric
	fastCount := 0

	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		switch {
		case page.ResponseTime > 3.0:
			verySlow = append(verySlow, urlMetric{page.URL, page.ResponseTime})
		case page.ResponseTime > 1.0:
			slow = append(slow, urlMetric{page.URL, page.ResponseTime})
		default:
			fastCount++
		}
	})

	if len(verySlow) > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, model.SeverityError,
				fmt.Sprintf("%d pages respond extremely slowly (>3s)", len(verySlow)),
				formatTimings(verySlow, 5)).
				WithRecommendation("Check server capacity, enable caching, and optimize database queries"))
	}
	if len(slow) > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, model.SeverityWarning,
				fmt.Sprintf("%d pages respond slowly (1-3s)", len(slow)),
				formatTimings(slow, 5)).
				WithRecommendation("Consider a CDN, page caching, or faster server-side rendering"))
	}
	if fastCount > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				fmt.Sprintf("%d pages respond quickly (<1s)", fastCount),
				"These pages respond within an acceptable time"))
	}
	return findings
}

func formatTimings(metrics []urlMetric, limit int) string {
	var lines []string
	for i, m := range metrics {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("  - %s (%.1fs)", m.url, m.value))
	}
	return strings.Join(lines, "\n")
}

func (a *PerformanceAnalyzer) checkPageSizes(input *Input) []model.Finding {
	var large []urlMetric
	input.Pages.InOrder(func(page *model.PageRecord) {
		if page.OK() && page.ContentLength > 100*1024 {
			large = append(large, urlMetric{page.URL, float64(page.ContentLength)})
		}
	})

	if len(large) == 0 {
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				"Page sizes are reasonable",
				"Every page's HTML stays under 100KB"),
		}
	}

	sort.Slice(large, func(i, j int) bool { return large[i].value > large[j].value })
	var lines []string
	for i, m := range large {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("  - %s (%s)", m.url, model.FormatBytes(int(m.value))))
	}
	severity := model.SeverityWarning
	if large[0].value > 500*1024 {
		severity = model.SeverityError
	}
	return []model.Finding{
		model.NewFinding(model.CategoryPerformance, severity,
			fmt.Sprintf("%d pages have oversized HTML (>100KB)", len(large)),
			strings.Join(lines, "\n")).
			WithRecommendation("Minify HTML, move inline CSS/JS out, and enable server compression"),
	}
}

func (a *PerformanceAnalyzer) checkResourceCounts(input *Input) []model.Finding {
	var findings []model.Finding
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		total := len(page.Scripts) + len(page.Stylesheets) + len(page.Images)
		if total > 50 {
			findings = append(findings,
				model.NewFinding(model.CategoryPerformance, model.SeverityWarning,
					"Too many resource requests",
					fmt.Sprintf("JS: %d, CSS: %d, images: %d (%d total)",
						len(page.Scripts), len(page.Stylesheets), len(page.Images), total)).
					WithRecommendation("Bundle CSS/JS, use sprites or SVG, and lazy-load images").
					WithURL(page.URL))
		}
	})
	return findings
}

func (a *PerformanceAnalyzer) checkImageFormats(input *Input) []model.Finding {
	pngCount, jpgCount, webpCount := 0, 0, 0
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		for _, img := range page.Images {
			src := strings.ToLower(img.Src)
			switch {
			case strings.HasSuffix(src, ".png"):
				pngCount++
			case strings.HasSuffix(src, ".jpg"), strings.HasSuffix(src, ".jpeg"):
				jpgCount++
			case strings.HasSuffix(src, ".webp"):
				webpCount++
			}
		}
	})

	if pngCount+jpgCount > 0 && webpCount == 0 {
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityWarning,
				"WebP image format not in use",
				fmt.Sprintf("Found %d PNG and %d JPG images but no WebP", pngCount, jpgCount)).
				WithRecommendation("Converting images to WebP typically cuts file size by 25-35%"),
		}
	}
	if webpCount > 0 {
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				"WebP image format in use",
				fmt.Sprintf("WebP: %d, PNG: %d, JPG: %d", webpCount, pngCount, jpgCount)),
		}
	}
	return nil
}

// checkCompression inspects only the homepage response.
func (a *PerformanceAnalyzer) checkCompression(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	encoding := strings.ToLower(home.GetHeader("Content-Encoding"))
	switch {
	case strings.Contains(encoding, "br"):
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				"Brotli compression enabled",
				"The server compresses responses with Brotli"),
		}
	case strings.Contains(encoding, "gzip"):
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				"Gzip compression enabled",
				"The server compresses responses with Gzip").
				WithRecommendation("Consider upgrading to Brotli for better compression ratios"),
		}
	default:
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityError,
				"Response compression disabled",
				"The server returned no Content-Encoding header").
				WithRecommendation("Enable Gzip or Brotli compression to cut transfer size by 60-80%"),
		}
	}
}

// checkHTTP2 looks for an Alt-Svc advertisement on the homepage. The
// crawler speaks HTTP/1.1, so this is a hint rather than proof.
func (a *PerformanceAnalyzer) checkHTTP2(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	altSvc := home.GetHeader("Alt-Svc")
	if strings.Contains(altSvc, "h2") || strings.Contains(altSvc, "h3") {
		if len(altSvc) > 100 {
			altSvc = altSvc[:100]
		}
		return []model.Finding{
			model.NewFinding(model.CategoryPerformance, model.SeverityGood,
				"HTTP/2 or HTTP/3 supported",
				fmt.Sprintf("Alt-Svc: %s", altSvc)),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategoryPerformance, model.SeverityInfo,
			"HTTP/2 support unconfirmed",
			"HTTP/2 support cannot be confirmed over an HTTP/1.1 request").
			WithRecommendation("Make sure the server or CDN supports HTTP/2 for faster parallel loading"),
	}
}
