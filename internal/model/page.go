package model

import (
	"net/http"
	"strings"
	"time"
)

// PageRecord holds everything extracted from a single crawled URL.
// The crawler populates it in one shot (fetch + extract); afterwards it is
// treated as immutable and owned by the crawl result.
//
// Design decision: We keep both the raw HTML and the parsed fields because:
// 1. Analyzers like the mixed-content check need the raw markup
// 2. Parsed fields make the rule checks trivial predicate functions
// 3. Re-parsing per analyzer would repeat work for no benefit
type PageRecord struct {
	// URL is the absolute, normalized URL used as the record's identity key.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	// 0 means the request failed at the transport layer (see Error).
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Headers contains all HTTP response headers. http.Header canonicalizes
	// names, so Get is case-insensitive as HTTP requires.
	Headers http.Header `json:"headers"`

	// ResponseTime is how long the GET took, in seconds.
	ResponseTime float64 `json:"response_time"`

	// ContentLength is the decoded body size in bytes.
	ContentLength int `json:"content_length"`

	// RawHTML is the response body. Set only for HTML content types;
	// non-HTML responses are recorded for status and size but never parsed.
	RawHTML string `json:"-"` // Excluded from JSON to keep reports small

	// Title is the text of the first <title> element, trimmed.
	Title string `json:"title,omitempty"`

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string `json:"meta_description,omitempty"`

	// H1Tags, H2Tags, and H3Tags hold heading text in document order.
	H1Tags []string `json:"h1_tags,omitempty"`
	H2Tags []string `json:"h2_tags,omitempty"`
	H3Tags []string `json:"h3_tags,omitempty"`

	// Images holds every <img> on the page.
	Images []Image `json:"images,omitempty"`

	// InternalLinks and ExternalLinks are normalized anchor targets,
	// classified by host equality against the crawl's base URL.
	// Duplicates are preserved; deduplication happens in the scheduler.
	InternalLinks []string `json:"internal_links,omitempty"`
	ExternalLinks []string `json:"external_links,omitempty"`

	// Scripts holds the src of every <script src>.
	Scripts []string `json:"scripts,omitempty"`

	// Stylesheets holds the href of every <link rel="stylesheet">.
	Stylesheets []string `json:"stylesheets,omitempty"`

	// CanonicalURL is the href of the first <link rel="canonical">.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// OGTags maps Open Graph property names to content. Later duplicates
	// overwrite earlier ones.
	OGTags map[string]string `json:"og_tags,omitempty"`

	// JSONLD contains parsed <script type="application/ld+json"> objects.
	// Scripts with invalid JSON are skipped silently.
	JSONLD []map[string]any `json:"json_ld,omitempty"`

	// WordCount is the visible-text word count: CJK ideographs counted
	// per character plus whitespace-delimited Latin words.
	WordCount int `json:"word_count"`

	// CrawledAt is when the page was fetched.
	CrawledAt time.Time `json:"crawled_at"`

	// Error is the transport failure cause, non-empty only when
	// StatusCode is 0. HTTP error statuses are not errors here.
	Error string `json:"error,omitempty"`
}

// Image represents one <img> element.
type Image struct {
	// Src is the raw src attribute.
	Src string `json:"src"`

	// Alt is the alt attribute, empty string when absent.
	Alt string `json:"alt"`

	// HasWebPSource is true when the image sits inside a <picture> whose
	// <source> advertises a WebP variant.
	HasWebPSource bool `json:"has_webp_source"`
}

// NewPageRecord creates an empty record for the given URL.
func NewPageRecord(url string) *PageRecord {
	return &PageRecord{
		URL:       url,
		Headers:   make(http.Header),
		OGTags:    make(map[string]string),
		CrawledAt: time.Now(),
	}
}

// GetHeader returns the first value of the named header, case-insensitively.
// Returns empty string if the header is not present.
func (p *PageRecord) GetHeader(name string) string {
	if p.Headers == nil {
		return ""
	}
	return p.Headers.Get(name)
}

// IsHTML reports whether the content type indicates an HTML document.
func (p *PageRecord) IsHTML() bool {
	return strings.Contains(p.ContentType, "text/html") ||
		strings.Contains(p.ContentType, "application/xhtml+xml")
}

// OK reports whether the page was fetched with a 200 status.
// Most rule checks only apply to pages that actually rendered.
func (p *PageRecord) OK() bool {
	return p.StatusCode == http.StatusOK
}
