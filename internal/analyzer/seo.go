package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"siteaudit/internal/model"
)

// SEOAnalyzer checks search engine optimization signals: titles, meta
// descriptions, heading structure, image alt coverage, canonical URLs,
// Open Graph tags, structured data, and robots/sitemap presence.
type SEOAnalyzer struct {
	client *http.Client
}

// NewSEOAnalyzer creates the SEO analyzer.
func NewSEOAnalyzer() *SEOAnalyzer { return &SEOAnalyzer{} }

// Name returns the analyzer's display name.
func (a *SEOAnalyzer) Name() string { return "seo" }

// Category returns the SEO dimension.
func (a *SEOAnalyzer) Category() model.Category { return model.CategorySEO }

// SetHTTPClient injects the client used for the robots.txt and
// sitemap.xml reachability checks.
func (a *SEOAnalyzer) SetHTTPClient(client *http.Client) { a.client = client }

// Analyze runs all SEO checks over the crawl result.
func (a *SEOAnalyzer) Analyze(ctx context.Context, input *Input) ([]model.Finding, error) {
	var findings []model.Finding
	findings = append(findings, a.checkTitles(input)...)
	findings = append(findings, a.checkMetaDescriptions(input)...)
	findings = append(findings, a.checkHeadings(input)...)
	findings = append(findings, a.checkImageAlt(input)...)
	findings = append(findings, a.checkCanonical(input)...)
	findings = append(findings, a.checkOGTags(input)...)
	findings = append(findings, a.checkJSONLD(input)...)
	findings = append(findings, a.checkRobotsAndSitemap(ctx, input)...)
	findings = append(findings, a.checkDuplicateTitles(input)...)
	return findings, nil
}

func (a *SEOAnalyzer) checkTitles(input *Input) []model.Finding {
	var findings []model.Finding
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		length := len([]rune(page.Title))
		switch {
		case page.Title == "":
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityError,
					"Missing title tag",
					"The page has no title tag").
					WithRecommendation("Give every page a unique, descriptive title of 10-60 characters").
					WithURL(page.URL))
		case length < 10:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Title too short",
					fmt.Sprintf("The title is only %d characters: %q", length, page.Title)).
					WithRecommendation("Aim for a title length of 10-60 characters").
					WithURL(page.URL))
		case length > 60:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Title too long",
					fmt.Sprintf("The title is %d characters and may be truncated in search results", length)).
					WithRecommendation("Aim for a title length of 10-60 characters").
					WithURL(page.URL))
		default:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityGood,
					"Title length is good",
					fmt.Sprintf("%q (%d characters)", page.Title, length)).
					WithURL(page.URL))
		}
	})
	return findings
}

func (a *SEOAnalyzer) checkMetaDescriptions(input *Input) []model.Finding {
	var findings []model.Finding
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		length := len([]rune(page.MetaDescription))
		switch {
		case page.MetaDescription == "":
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Missing meta description",
					"The page has no meta description").
					WithRecommendation("Add a 50-160 character description containing the page's keywords").
					WithURL(page.URL))
		case length < 50:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Meta description too short",
					fmt.Sprintf("Only %d characters", length)).
					WithRecommendation("Aim for 50-160 characters").
					WithURL(page.URL))
		case length > 160:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Meta description too long",
					fmt.Sprintf("%d characters; search results will truncate it", length)).
					WithRecommendation("Aim for 50-160 characters").
					WithURL(page.URL))
		}
	})
	return findings
}

func (a *SEOAnalyzer) checkHeadings(input *Input) []model.Finding {
	var findings []model.Finding
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		switch {
		case len(page.H1Tags) == 0:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityError,
					"Missing H1 tag",
					"The page has no H1 heading").
					WithRecommendation("Every page should have exactly one H1").
					WithURL(page.URL))
		case len(page.H1Tags) > 1:
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Multiple H1 tags",
					fmt.Sprintf("The page has %d H1 headings: %v", len(page.H1Tags), page.H1Tags)).
					WithRecommendation("Keep a single H1 per page").
					WithURL(page.URL))
		}
	})
	return findings
}

func (a *SEOAnalyzer) checkImageAlt(input *Input) []model.Finding {
	totalImages := 0
	missingAlt := 0
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		for _, img := range page.Images {
			totalImages++
			if strings.TrimSpace(img.Alt) == "" {
				missingAlt++
			}
		}
	})
	if totalImages == 0 {
		return nil
	}

	ratio := float64(totalImages-missingAlt) / float64(totalImages) * 100
	if missingAlt > 0 {
		severity := model.SeverityWarning
		if ratio < 50 {
			severity = model.SeverityError
		}
		return []model.Finding{
			model.NewFinding(model.CategorySEO, severity,
				"Images missing alt attributes",
				fmt.Sprintf("%d of %d images have no alt attribute (%.0f%% coverage)", missingAlt, totalImages, ratio)).
				WithRecommendation("Add descriptive alt text to every image"),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategorySEO, model.SeverityGood,
			"Image alt attributes complete",
			fmt.Sprintf("All %d images have alt attributes", totalImages)),
	}
}

func (a *SEOAnalyzer) checkCanonical(input *Input) []model.Finding {
	var findings []model.Finding
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() {
			return
		}
		if page.CanonicalURL == "" {
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityWarning,
					"Missing canonical URL",
					"The page does not declare a canonical URL").
					WithRecommendation("Set a canonical URL to avoid duplicate content issues").
					WithURL(page.URL))
		}
	})
	return findings
}

// checkOGTags only inspects the homepage; social shares almost always
// point there.
func (a *SEOAnalyzer) checkOGTags(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	required := []string{"og:title", "og:description", "og:image", "og:url"}
	var missing []string
	for _, tag := range required {
		if _, present := home.OGTags[tag]; !present {
			missing = append(missing, tag)
		}
	}

	if len(missing) > 0 {
		return []model.Finding{
			model.NewFinding(model.CategorySEO, model.SeverityWarning,
				"Open Graph tags incomplete",
				fmt.Sprintf("The homepage is missing: %s", strings.Join(missing, ", "))).
				WithRecommendation("Add the full OG tag set to improve social media sharing").
				WithURL(input.BaseURL),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategorySEO, model.SeverityGood,
			"Open Graph tags complete",
			"The homepage declares all required OG tags").
			WithURL(input.BaseURL),
	}
}

func (a *SEOAnalyzer) checkJSONLD(input *Input) []model.Finding {
	hasJSONLD := false
	input.Pages.InOrder(func(page *model.PageRecord) {
		if page.OK() && len(page.JSONLD) > 0 {
			hasJSONLD = true
		}
	})
	if hasJSONLD {
		return []model.Finding{
			model.NewFinding(model.CategorySEO, model.SeverityGood,
				"JSON-LD structured data in use",
				"The site includes JSON-LD structured data, which helps rich result display"),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategorySEO, model.SeverityWarning,
			"No JSON-LD structured data",
			"No JSON-LD data was found on any page").
			WithRecommendation("Add Article, Product, or Organization JSON-LD markup"),
	}
}

func (a *SEOAnalyzer) checkRobotsAndSitemap(ctx context.Context, input *Input) []model.Finding {
	var findings []model.Finding

	status, err := a.headStatus(ctx, input.BaseURL, "/robots.txt")
	switch {
	case err != nil:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityWarning,
				"robots.txt unreachable",
				"robots.txt could not be fetched"))
	case status == http.StatusOK:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityGood,
				"robots.txt present",
				"The site serves a robots.txt file"))
	default:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityWarning,
				"robots.txt missing",
				fmt.Sprintf("robots.txt returned status %d", status)).
				WithRecommendation("Create a robots.txt file to guide search engine crawling"))
	}

	status, err = a.headStatus(ctx, input.BaseURL, "/sitemap.xml")
	switch {
	case err != nil:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityError,
				"sitemap.xml unreachable",
				"sitemap.xml could not be fetched").
				WithRecommendation("Create and submit a sitemap.xml"))
	case status == http.StatusOK:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityGood,
				"sitemap.xml present",
				"The site serves a sitemap.xml"))
	default:
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityError,
				"sitemap.xml missing",
				fmt.Sprintf("sitemap.xml returned status %d", status)).
				WithRecommendation("Create a sitemap.xml so search engines can discover every page"))
	}

	return findings
}

// headStatus fetches base+path and returns the status code. The body is
// not needed, but GET is used because some servers reject HEAD.
func (a *SEOAnalyzer) headStatus(ctx context.Context, base, path string) (int, error) {
	client := a.client
	if client == nil {
		client = http.DefaultClient
	}
	target := strings.TrimSuffix(base, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (a *SEOAnalyzer) checkDuplicateTitles(input *Input) []model.Finding {
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

	var findings []model.Finding
	for _, title := range titles {
		urls := titlePages[title]
		if len(urls) > 1 {
			findings = append(findings,
				model.NewFinding(model.CategorySEO, model.SeverityError,
					"Duplicate title",
					fmt.Sprintf("%q is reused across %d pages", title, len(urls))).
					WithRecommendation("Use a unique title on every page"))
		}
	}
	return findings
}
