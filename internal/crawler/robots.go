package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a URL may be fetched under the site's
// robots.txt rules.
//
// Design decision: The gate degrades to allow-all when robots.txt cannot
// be loaded or parsed because:
// 1. Most sites without a robots.txt intend everything to be crawlable
// 2. A transient robots fetch failure should not abort a whole audit
// 3. This matches how the robotstxt library treats 404 responses
type RobotsGate struct {
	group     *robotstxt.Group
	userAgent string
	logger    *slog.Logger
}

// NewRobotsGate fetches and parses {base}/robots.txt using the given
// client. The returned gate is usable even when loading fails; the
// degradation is logged at warn level.
func NewRobotsGate(ctx context.Context, client *http.Client, base, userAgent string, logger *slog.Logger) *RobotsGate {
	g := &RobotsGate{userAgent: userAgent, logger: logger}

	robotsURL, err := robotsLocation(base)
	if err != nil {
		logger.Warn("robots.txt location could not be derived, allowing all", "base", base, "error", err)
		return g
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		logger.Warn("robots.txt request could not be built, allowing all", "url", robotsURL, "error", err)
		return g
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("robots.txt fetch failed, allowing all", "url", robotsURL, "error", err)
		return g
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		logger.Warn("robots.txt read failed, allowing all", "url", robotsURL, "error", err)
		return g
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logger.Warn("robots.txt parse failed, allowing all", "url", robotsURL, "error", err)
		return g
	}

	g.group = robots.FindGroup(userAgent)
	return g
}

// CanFetch reports whether the gate's user agent may fetch the URL.
// When no rules are loaded every URL is allowed.
func (g *RobotsGate) CanFetch(rawURL string) bool {
	if g.group == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return g.group.Test(p)
}

func robotsLocation(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL %q has no scheme or host", base)
	}
	return fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host), nil
}
