package crawler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("html body is read and recorded", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, "<html><title>hi</title></html>")
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), "SiteAudit/1.0", 5<<20)
		page := f.Fetch(context.Background(), srv.URL+"/")

		if page.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", page.StatusCode)
		}
		if page.Error != "" {
			t.Errorf("Error = %q, want empty", page.Error)
		}
		if !strings.Contains(page.RawHTML, "<title>hi</title>") {
			t.Errorf("RawHTML = %q, missing title", page.RawHTML)
		}
		if page.ContentLength != len(page.RawHTML) {
			t.Errorf("ContentLength = %d, want %d", page.ContentLength, len(page.RawHTML))
		}
		if page.ResponseTime <= 0 {
			t.Errorf("ResponseTime = %f, want > 0", page.ResponseTime)
		}
	})

	t.Run("non-html body is discarded but measured", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"ok": true}`)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), "SiteAudit/1.0", 5<<20)
		page := f.Fetch(context.Background(), srv.URL+"/data")

		if page.RawHTML != "" {
			t.Errorf("RawHTML = %q, want empty for non-HTML", page.RawHTML)
		}
		if page.ContentLength != len(`{"ok": true}`) {
			t.Errorf("ContentLength = %d, want %d", page.ContentLength, len(`{"ok": true}`))
		}
	})

	t.Run("transport failure yields status zero and error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		f := NewFetcher(http.DefaultClient, "SiteAudit/1.0", 5<<20)
		page := f.Fetch(context.Background(), srv.URL+"/")

		if page.StatusCode != 0 {
			t.Errorf("StatusCode = %d, want 0", page.StatusCode)
		}
		if page.Error == "" {
			t.Error("Error is empty, want transport failure message")
		}
	})

	t.Run("http error status is not a transport error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), "SiteAudit/1.0", 5<<20)
		page := f.Fetch(context.Background(), srv.URL+"/old")

		if page.StatusCode != http.StatusGone {
			t.Errorf("StatusCode = %d, want 410", page.StatusCode)
		}
		if page.Error != "" {
			t.Errorf("Error = %q, want empty for HTTP-level failure", page.Error)
		}
	})

	t.Run("body cap limits how much is read", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, strings.Repeat("x", 1000))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), "SiteAudit/1.0", 100)
		page := f.Fetch(context.Background(), srv.URL+"/")

		if page.ContentLength != 100 {
			t.Errorf("ContentLength = %d, want 100", page.ContentLength)
		}
	})

	t.Run("user agent header is sent", func(t *testing.T) {
		t.Parallel()
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.UserAgent()
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), "SiteAudit/1.0", 5<<20)
		f.Fetch(context.Background(), srv.URL+"/")

		if gotUA != "SiteAudit/1.0" {
			t.Errorf("User-Agent = %q, want SiteAudit/1.0", gotUA)
		}
	})
}
