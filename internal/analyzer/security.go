package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"siteaudit/internal/model"
)

var (
	httpRefPattern      = regexp.MustCompile(`(?i)(?:src|href|action)\s*=\s*["']http://[^"']+["']`)
	versionPattern      = regexp.MustCompile(`\d+\.\d+`)
	debugModePattern    = regexp.MustCompile(`(?i)debug\s*[:=]\s*true`)
	laravelPattern      = regexp.MustCompile(`(?i)APP_DEBUG\s*[:=]\s*true`)
	debugCommentPattern = regexp.MustCompile(`(?i)<!-- (?:debug|todo|fixme|hack)`)
)

// securityHeaderChecks defines the response headers the homepage should
// carry, with the reason and the fix.
var securityHeaderChecks = []struct {
	header         string
	name           string
	description    string
	recommendation string
}{
	{
		"Strict-Transport-Security", "HSTS",
		"HSTS forces browsers to use HTTPS",
		"Add Strict-Transport-Security: max-age=31536000; includeSubDomains",
	},
	{
		"Content-Security-Policy", "CSP",
		"CSP protects against XSS and data injection attacks",
		"Configure a Content-Security-Policy header restricting resource origins",
	},
	{
		"X-Frame-Options", "X-Frame-Options",
		"Prevents the page being embedded in an iframe (clickjacking protection)",
		"Add X-Frame-Options: DENY or SAMEORIGIN",
	},
	{
		"X-Content-Type-Options", "X-Content-Type-Options",
		"Prevents browser MIME type sniffing",
		"Add X-Content-Type-Options: nosniff",
	},
	{
		"Referrer-Policy", "Referrer-Policy",
		"Controls how much referrer information leaks in requests",
		"Add Referrer-Policy: strict-origin-when-cross-origin",
	},
}

// SecurityAnalyzer checks transport security, response headers, mixed
// content, cookie flags, and information disclosure.
type SecurityAnalyzer struct{}

// NewSecurityAnalyzer creates the security analyzer.
func NewSecurityAnalyzer() *SecurityAnalyzer { return &SecurityAnalyzer{} }

// Name returns the analyzer's display name.
func (a *SecurityAnalyzer) Name() string { return "security" }

// Category returns the security dimension.
func (a *SecurityAnalyzer) Category() model.Category { return model.CategorySecurity }

// Analyze runs all security checks over the crawl result.
func (a *SecurityAnalyzer) Analyze(_ context.Context, input *Input) ([]model.Finding, error) {
	var findings []model.Finding
	findings = append(findings, a.checkHTTPS(input)...)
	findings = append(findings, a.checkSecurityHeaders(input)...)
	findings = append(findings, a.checkMixedContent(input)...)
	findings = append(findings, a.checkCookies(input)...)
	findings = append(findings, a.checkInfoLeaks(input)...)
	return findings, nil
}

func (a *SecurityAnalyzer) checkHTTPS(input *Input) []model.Finding {
	u, err := url.Parse(input.BaseURL)
	if err == nil && u.Scheme == "https" {
		return []model.Finding{
			model.NewFinding(model.CategorySecurity, model.SeverityGood,
				"HTTPS in use",
				"The site is served over an encrypted HTTPS connection"),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategorySecurity, model.SeverityError,
			"HTTPS not in use",
			"The site does not use HTTPS encryption").
			WithRecommendation("Migrate to HTTPS; Let's Encrypt issues free certificates"),
	}
}

// checkSecurityHeaders inspects only the homepage response.
func (a *SecurityAnalyzer) checkSecurityHeaders(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	var findings []model.Finding
	for _, check := range securityHeaderChecks {
		value := home.GetHeader(check.header)
		if value != "" {
			if len(value) > 100 {
				value = value[:100]
			}
			findings = append(findings,
				model.NewFinding(model.CategorySecurity, model.SeverityGood,
					fmt.Sprintf("%s is set", check.name),
					fmt.Sprintf("%s: %s", check.name, value)))
		} else {
			findings = append(findings,
				model.NewFinding(model.CategorySecurity, model.SeverityError,
					fmt.Sprintf("Missing %s", check.name),
					check.description).
					WithRecommendation(check.recommendation))
		}
	}
	return findings
}

func (a *SecurityAnalyzer) checkMixedContent(input *Input) []model.Finding {
	if !strings.HasPrefix(input.BaseURL, "https://") {
		return nil
	}

	var mixed []urlMetric
	input.Pages.InOrder(func(page *model.PageRecord) {
		if !page.OK() || page.RawHTML == "" {
			return
		}
		refs := httpRefPattern.FindAllString(page.RawHTML, -1)
		if len(refs) > 0 {
			mixed = append(mixed, urlMetric{page.URL, float64(len(refs))})
		}
	})

	if len(mixed) > 0 {
		var lines []string
		for i, m := range mixed {
			if i >= 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s (%d references)", m.url, int(m.value)))
		}
		return []model.Finding{
			model.NewFinding(model.CategorySecurity, model.SeverityError,
				fmt.Sprintf("%d pages contain mixed content", len(mixed)),
				"HTTPS pages load HTTP resources:\n"+strings.Join(lines, "\n")).
				WithRecommendation("Reference all resources over HTTPS or use protocol-relative URLs"),
		}
	}
	return []model.Finding{
		model.NewFinding(model.CategorySecurity, model.SeverityGood,
			"No mixed content",
			"No HTTPS page loads HTTP resources"),
	}
}

// checkCookies inspects the homepage's Set-Cookie header.
func (a *SecurityAnalyzer) checkCookies(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	var cookieValues []string
	if home.Headers != nil {
		cookieValues = home.Headers.Values("Set-Cookie")
	}
	if len(cookieValues) == 0 {
		return []model.Finding{
			model.NewFinding(model.CategorySecurity, model.SeverityInfo,
				"No cookies set on homepage",
				"The homepage response carries no Set-Cookie header"),
		}
	}

	cookies := strings.ToLower(strings.Join(cookieValues, "; "))
	var findings []model.Finding
	if !strings.Contains(cookies, "secure") {
		findings = append(findings,
			model.NewFinding(model.CategorySecurity, model.SeverityError,
				"Cookie missing Secure flag",
				"Cookies without the Secure flag can be sent over plain HTTP").
				WithRecommendation("Add the Secure attribute to every cookie"))
	}
	if !strings.Contains(cookies, "httponly") {
		findings = append(findings,
			model.NewFinding(model.CategorySecurity, model.SeverityWarning,
				"Cookie missing HttpOnly flag",
				"Cookies without HttpOnly are readable from JavaScript").
				WithRecommendation("Add the HttpOnly attribute to sensitive cookies"))
	}
	if !strings.Contains(cookies, "samesite") {
		findings = append(findings,
			model.NewFinding(model.CategorySecurity, model.SeverityWarning,
				"Cookie missing SameSite flag",
				"Cookies without SameSite may be exposed to CSRF").
				WithRecommendation("Add SameSite=Lax or SameSite=Strict"))
	}
	if len(findings) == 0 {
		findings = append(findings,
			model.NewFinding(model.CategorySecurity, model.SeverityGood,
				"Cookie security flags complete",
				"Cookies set Secure, HttpOnly, and SameSite"))
	}
	return findings
}

func (a *SecurityAnalyzer) checkInfoLeaks(input *Input) []model.Finding {
	home, found := input.Pages.Pages[input.BaseURL]
	if !found || !home.OK() {
		return nil
	}

	var findings []model.Finding

	if server := home.GetHeader("Server"); server != "" {
		if versionPattern.MatchString(server) {
			findings = append(findings,
				model.NewFinding(model.CategorySecurity, model.SeverityWarning,
					"Server header exposes version number",
					fmt.Sprintf("Server: %s", server)).
					WithRecommendation("Configure the server to hide its version"))
		} else {
			findings = append(findings,
				model.NewFinding(model.CategorySecurity, model.SeverityInfo,
					"Server header present",
					fmt.Sprintf("Server: %s (no version exposed)", server)))
		}
	}

	if poweredBy := home.GetHeader("X-Powered-By"); poweredBy != "" {
		findings = append(findings,
			model.NewFinding(model.CategorySecurity, model.SeverityWarning,
				"X-Powered-By header exposes the stack",
				fmt.Sprintf("X-Powered-By: %s", poweredBy)).
				WithRecommendation("Remove the X-Powered-By header to avoid exposing server technology"))
	}

	if home.RawHTML != "" {
		debugChecks := []struct {
			pattern     *regexp.Regexp
			description string
		}{
			{debugModePattern, "Debug mode may be enabled"},
			{laravelPattern, "Laravel APP_DEBUG is enabled"},
			{debugCommentPattern, "HTML comments contain debug markers"},
		}
		for _, check := range debugChecks {
			if check.pattern.MatchString(home.RawHTML) {
				findings = append(findings,
					model.NewFinding(model.CategorySecurity, model.SeverityError,
						"Debug information detected",
						check.description).
						WithRecommendation("Disable debug mode in production and strip debug comments"))
			}
		}
	}

	return findings
}
