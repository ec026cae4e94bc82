package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"siteaudit/internal/model"
)

// DataForSEO API base URLs. The sandbox host serves canned responses
// without billing.
const (
	dataForSEOBaseURL    = "https://api.dataforseo.com/v3"
	dataForSEOSandboxURL = "https://sandbox.dataforseo.com/v3"
)

// taskStatusOK is the DataForSEO status code for a successful task.
const taskStatusOK = 20000

// DataForSEOClient calls the DataForSEO v3 API with HTTP basic auth.
type DataForSEOClient struct {
	baseURL  string
	login    string
	password string
	client   *http.Client
}

// NewDataForSEOClient creates a client. With sandbox set, requests go to
// the free sandbox host.
func NewDataForSEOClient(login, password string, sandbox bool) *DataForSEOClient {
	baseURL := dataForSEOBaseURL
	if sandbox {
		baseURL = dataForSEOSandboxURL
	}
	return &DataForSEOClient{
		baseURL:  baseURL,
		login:    login,
		password: password,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// envelope is the outer DataForSEO response shape. Tasks wrap results in
// a second status layer.
type envelope struct {
	StatusCode int `json:"status_code"`
	Tasks      []struct {
		StatusCode int               `json:"status_code"`
		Result     []json.RawMessage `json:"result"`
	} `json:"tasks"`
}

// OnPageData is the page-level slice of an instant_pages item.
type OnPageData struct {
	OnPageScore     float64         `json:"onpage_score"`
	Checks          map[string]bool `json:"checks"`
	ContentEncoding string          `json:"content_encoding"`
	TotalDOMSize    int             `json:"total_dom_size"`
	EncodedSize     int             `json:"encoded_size"`
	PageTiming      struct {
		TimeToInteractive float64 `json:"time_to_interactive"`
		DOMComplete       float64 `json:"dom_complete"`
	} `json:"page_timing"`
}

// BacklinksData summarizes a domain's backlink profile.
type BacklinksData struct {
	Backlinks        int `json:"backlinks"`
	ReferringDomains int `json:"referring_domains"`
	Rank             int `json:"rank"`
	BrokenBacklinks  int `json:"broken_backlinks"`
}

func (c *DataForSEOClient) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal([]any{payload})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.StatusCode != taskStatusOK || len(env.Tasks) == 0 {
		return fmt.Errorf("api status %d from %s", env.StatusCode, endpoint)
	}
	task := env.Tasks[0]
	if task.StatusCode != taskStatusOK || len(task.Result) == 0 {
		return fmt.Errorf("task status %d from %s", task.StatusCode, endpoint)
	}
	return json.Unmarshal(task.Result[0], out)
}

// InstantPages runs a live single-page analysis and returns the first
// item's page data.
func (c *DataForSEOClient) InstantPages(ctx context.Context, pageURL string) (*OnPageData, error) {
	payload := map[string]any{
		"url":                  pageURL,
		"enable_javascript":    true,
		"load_resources":       true,
		"check_spell":          true,
		"validate_micromarkup": true,
	}

	var result struct {
		Items []OnPageData `json:"items"`
	}
	if err := c.post(ctx, "/on_page/instant_pages", payload, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("instant_pages returned no items")
	}
	return &result.Items[0], nil
}

// BacklinksSummary fetches the backlink overview for a domain.
func (c *DataForSEOClient) BacklinksSummary(ctx context.Context, domain string) (*BacklinksData, error) {
	payload := map[string]any{
		"target":                     domain,
		"exclude_internal_backlinks": true,
	}

	var result BacklinksData
	if err := c.post(ctx, "/backlinks/summary/live", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// problemChecks maps instant_pages check names (true = problem present)
// to the finding they produce.
var problemChecks = map[string]struct {
	title    string
	severity model.Severity
	category model.Category
}{
	"no_title":                      {"Missing title tag", model.SeverityError, model.CategorySEO},
	"no_description":                {"Missing meta description", model.SeverityWarning, model.CategorySEO},
	"no_h1_tag":                     {"Missing H1 tag", model.SeverityError, model.CategorySEO},
	"has_meta_refresh_redirect":     {"Uses a meta refresh redirect", model.SeverityWarning, model.CategorySEO},
	"is_broken":                     {"Page is broken", model.SeverityError, model.CategoryContent},
	"no_image_alt":                  {"Images missing alt attributes", model.SeverityWarning, model.CategorySEO},
	"no_image_title":                {"Images missing title attributes", model.SeverityInfo, model.CategorySEO},
	"no_favicon":                    {"Missing favicon", model.SeverityWarning, model.CategorySEO},
	"no_content_encoding":           {"Content compression disabled", model.SeverityWarning, model.CategoryPerformance},
	"high_loading_time":             {"Page load time too high", model.SeverityError, model.CategoryPerformance},
	"is_http":                       {"Served over HTTP instead of HTTPS", model.SeverityError, model.CategorySecurity},
	"low_content_rate":              {"Low plain-text content rate", model.SeverityWarning, model.CategoryContent},
	"high_waiting_time":             {"High server waiting time", model.SeverityWarning, model.CategoryPerformance},
	"no_doctype":                    {"Missing DOCTYPE declaration", model.SeverityWarning, model.CategorySEO},
	"title_too_short":               {"Title tag too short", model.SeverityWarning, model.CategorySEO},
	"title_too_long":                {"Title tag too long", model.SeverityWarning, model.CategorySEO},
	"has_render_blocking_resources": {"Render-blocking resources present", model.SeverityWarning, model.CategoryPerformance},
	"https_to_http_links":           {"HTTPS page contains HTTP links", model.SeverityError, model.CategorySecurity},
	"size_greater_than_3mb":         {"Page larger than 3MB", model.SeverityError, model.CategoryPerformance},
	"duplicate_title_tag":           {"Duplicate title tags", model.SeverityWarning, model.CategorySEO},
	"duplicate_meta_tags":           {"Duplicate meta tags", model.SeverityWarning, model.CategorySEO},
	"deprecated_html_tags":          {"Deprecated HTML tags in use", model.SeverityWarning, model.CategorySEO},
}

// DataForSEOAnalyzer enriches an audit with DataForSEO's page-level and
// backlink data. API failures degrade to an Info finding so the audit
// never depends on the external service.
type DataForSEOAnalyzer struct {
	client *DataForSEOClient
}

// NewDataForSEOAnalyzer creates the enrichment analyzer.
func NewDataForSEOAnalyzer(client *DataForSEOClient) *DataForSEOAnalyzer {
	return &DataForSEOAnalyzer{client: client}
}

// Name returns the analyzer's display name.
func (a *DataForSEOAnalyzer) Name() string { return "dataforseo" }

// Category returns SEO; individual findings may target other dimensions.
func (a *DataForSEOAnalyzer) Category() model.Category { return model.CategorySEO }

// Analyze fetches page and backlink data and maps it onto findings.
func (a *DataForSEOAnalyzer) Analyze(ctx context.Context, input *Input) ([]model.Finding, error) {
	var findings []model.Finding

	page, err := a.client.InstantPages(ctx, input.BaseURL)
	if err != nil {
		findings = append(findings,
			model.NewFinding(model.CategorySEO, model.SeverityInfo,
				"DataForSEO page analysis unavailable",
				fmt.Sprintf("Page data could not be fetched from the DataForSEO API: %v", err)))
	} else {
		findings = append(findings, a.pageFindings(page, input.BaseURL)...)
	}

	domain := input.BaseURL
	if u, perr := url.Parse(input.BaseURL); perr == nil {
		domain = u.Host
	}
	backlinks, err := a.client.BacklinksSummary(ctx, domain)
	if err == nil {
		findings = append(findings, a.backlinkFindings(backlinks)...)
	}

	return findings, nil
}

func (a *DataForSEOAnalyzer) pageFindings(page *OnPageData, target string) []model.Finding {
	var findings []model.Finding

	score := page.OnPageScore
	severity := model.SeverityError
	switch {
	case score >= 80:
		severity = model.SeverityGood
	case score >= 60:
		severity = model.SeverityWarning
	}
	findings = append(findings,
		model.NewFinding(model.CategorySEO, severity,
			fmt.Sprintf("[DataForSEO] OnPage score: %.1f/100", score),
			"Page optimization score from DataForSEO's professional assessment").
			WithURL(target))

	for name, flagged := range page.Checks {
		check, known := problemChecks[name]
		if !flagged || !known {
			continue
		}
		findings = append(findings,
			model.NewFinding(check.category, check.severity,
				"[DataForSEO] "+check.title,
				fmt.Sprintf("DataForSEO flagged: %s", name)).
				WithURL(target))
	}

	if tti := page.PageTiming.TimeToInteractive; tti > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, timingSeverity(tti/1000),
				fmt.Sprintf("[DataForSEO] Time to Interactive: %.2fs", tti/1000),
				"Time until the page responds to input (<3s good, >5s needs work)").
				WithURL(target))
	}
	if dom := page.PageTiming.DOMComplete; dom > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, timingSeverity(dom/1000),
				fmt.Sprintf("[DataForSEO] DOM Complete: %.2fs", dom/1000),
				"Time until the DOM finished loading").
				WithURL(target))
	}
	if page.TotalDOMSize > 0 {
		encoding := page.ContentEncoding
		if encoding == "" {
			encoding = "none"
		}
		findings = append(findings,
			model.NewFinding(model.CategoryPerformance, model.SeverityInfo,
				fmt.Sprintf("[DataForSEO] Page size: %s (%s encoded)",
					model.FormatBytes(page.TotalDOMSize), model.FormatBytes(page.EncodedSize)),
				fmt.Sprintf("Content encoding: %s", encoding)).
				WithURL(target))
	}

	return findings
}

func timingSeverity(seconds float64) model.Severity {
	switch {
	case seconds > 5:
		return model.SeverityError
	case seconds > 3:
		return model.SeverityWarning
	default:
		return model.SeverityGood
	}
}

func (a *DataForSEOAnalyzer) backlinkFindings(data *BacklinksData) []model.Finding {
	var findings []model.Finding

	severity := model.SeverityError
	switch {
	case data.Backlinks > 100:
		severity = model.SeverityGood
	case data.Backlinks > 10:
		severity = model.SeverityWarning
	}
	f := model.NewFinding(model.CategorySEO, severity,
		fmt.Sprintf("[DataForSEO] Total backlinks: %d", data.Backlinks),
		fmt.Sprintf("Referring domains: %d, domain rank: %d", data.ReferringDomains, data.Rank))
	if data.Backlinks <= 100 {
		f = f.WithRecommendation("Build quality backlinks through content marketing and outreach")
	}
	findings = append(findings, f)

	if data.BrokenBacklinks > 0 {
		findings = append(findings,
			model.NewFinding(model.CategoryContent, model.SeverityWarning,
				fmt.Sprintf("[DataForSEO] %d broken backlinks found", data.BrokenBacklinks),
				"Some external links pointing at this site are dead").
				WithRecommendation("Ask the linking sites to update their URLs or add 301 redirects"))
	}

	return findings
}
