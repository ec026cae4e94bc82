package crawler

import (
	"net/url"
	"path"
	"strings"
)

// skippedExtensions lists file extensions that never yield HTML worth
// crawling. Comparison is case-insensitive on the URL path.
var skippedExtensions = map[string]struct{}{
	".pdf": {}, ".zip": {}, ".rar": {}, ".gz": {}, ".tar": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {},
	".webp": {}, ".ico": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {},
	".css": {}, ".js": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
}

// NormalizeURL resolves href against base and canonicalizes the result so
// the same page always maps to the same key. The fragment is dropped and a
// single trailing slash is removed unless the path is the bare root.
// Returns empty string when href cannot be parsed.
func NormalizeURL(href, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	u := baseURL.ResolveReference(ref)
	u.Fragment = ""

	// An empty path and "/" are the same page; pick one canonical form.
	if u.Path == "" {
		u.Path = "/"
	}
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}

// IsSameSite reports whether rawURL points at the same host as base.
// Host comparison is exact: subdomains are different sites. Unparseable
// input is never the same site.
func IsSameSite(rawURL, base string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	b, err := url.Parse(base)
	if err != nil {
		return false
	}
	return u.Host != "" && u.Host == b.Host
}

// IsCrawlable reports whether the URL looks like an HTML page rather than
// a binary asset. The decision is by path extension only; query strings
// are ignored.
func IsCrawlable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return true
	}
	_, skip := skippedExtensions[ext]
	return !skip
}
