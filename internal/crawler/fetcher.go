package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"siteaudit/internal/model"
)

// Fetcher performs single GET requests and records the outcome as a
// PageRecord. It never returns an error to the caller: transport
// failures become records with StatusCode 0 so the crawl can continue
// and the failure still shows up in the report.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// NewFetcher creates a fetcher around the given client.
func NewFetcher(client *http.Client, userAgent string, maxBodySize int64) *Fetcher {
	return &Fetcher{
		client:      client,
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
	}
}

// Fetch GETs the URL and returns a record of what happened. Redirects are
// followed by the underlying client; the record keeps the requested URL as
// its identity. The body is read only for HTML content types and decoded
// to UTF-8 based on the declared charset.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *model.PageRecord {
	page := model.NewPageRecord(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		page.Error = err.Error()
		return page
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	page.ResponseTime = time.Since(start).Seconds()
	if err != nil {
		page.Error = err.Error()
		return page
	}
	defer resp.Body.Close()

	page.StatusCode = resp.StatusCode
	page.Headers = resp.Header.Clone()
	page.ContentType = resp.Header.Get("Content-Type")

	if !page.IsHTML() {
		// Non-HTML responses are recorded for status and size but the
		// body is discarded without parsing.
		n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodySize))
		page.ContentLength = int(n)
		return page
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), page.ContentType)
	if err != nil {
		reader = io.LimitReader(resp.Body, f.maxBodySize)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		// A body read that dies mid-stream is a transport failure even
		// though a status line arrived.
		page.StatusCode = 0
		page.Error = err.Error()
		return page
	}
	page.RawHTML = string(body)
	page.ContentLength = len(body)
	return page
}
