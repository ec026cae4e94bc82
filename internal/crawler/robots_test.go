package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRobotsGate(t *testing.T) {
	t.Parallel()

	t.Run("disallowed path is blocked", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				io.WriteString(w, "User-agent: *\nDisallow: /private/\n")
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		gate := NewRobotsGate(context.Background(), srv.Client(), srv.URL, "SiteAudit/1.0", discardLogger())

		if gate.CanFetch(srv.URL + "/private/page") {
			t.Error("CanFetch(/private/page) = true, want false")
		}
		if !gate.CanFetch(srv.URL + "/public/page") {
			t.Error("CanFetch(/public/page) = false, want true")
		}
	})

	t.Run("missing robots.txt allows everything", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		gate := NewRobotsGate(context.Background(), srv.Client(), srv.URL, "SiteAudit/1.0", discardLogger())
		if !gate.CanFetch(srv.URL + "/anything") {
			t.Error("CanFetch() = false after 404 robots.txt, want true")
		}
	})

	t.Run("unreachable server allows everything", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // Connection refused from here on.

		gate := NewRobotsGate(context.Background(), http.DefaultClient, srv.URL, "SiteAudit/1.0", discardLogger())
		if !gate.CanFetch(srv.URL + "/anything") {
			t.Error("CanFetch() = false after failed robots fetch, want true")
		}
	})

	t.Run("specific user agent group wins", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				io.WriteString(w, "User-agent: SiteAudit\nDisallow: /\n\nUser-agent: *\nDisallow:\n")
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		gate := NewRobotsGate(context.Background(), srv.Client(), srv.URL, "SiteAudit/1.0", discardLogger())
		if gate.CanFetch(srv.URL + "/") {
			t.Error("CanFetch(/) = true, want false for matched agent group")
		}
	})
}
