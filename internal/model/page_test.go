package model

import (
	"net/http"
	"testing"
)

func TestPageRecordGetHeader(t *testing.T) {
	t.Parallel()

	p := NewPageRecord("https://example.com/")
	p.Headers.Set("Content-Security-Policy", "default-src 'self'")

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()
		if got := p.GetHeader("content-security-policy"); got != "default-src 'self'" {
			t.Errorf("GetHeader() = %q, want %q", got, "default-src 'self'")
		}
	})

	t.Run("missing header returns empty string", func(t *testing.T) {
		t.Parallel()
		if got := p.GetHeader("Strict-Transport-Security"); got != "" {
			t.Errorf("GetHeader() = %q, want empty", got)
		}
	})

	t.Run("nil headers map is safe", func(t *testing.T) {
		t.Parallel()
		q := &PageRecord{}
		if got := q.GetHeader("Server"); got != "" {
			t.Errorf("GetHeader() = %q, want empty", got)
		}
	})
}

func TestPageRecordIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		p := PageRecord{ContentType: tt.contentType}
		if got := p.IsHTML(); got != tt.want {
			t.Errorf("IsHTML() with %q = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestPageRecordOK(t *testing.T) {
	t.Parallel()

	if p := (PageRecord{StatusCode: http.StatusOK}); !p.OK() {
		t.Error("OK() = false for status 200, want true")
	}
	if p := (PageRecord{StatusCode: http.StatusNotFound}); p.OK() {
		t.Error("OK() = true for status 404, want false")
	}
	if p := (PageRecord{StatusCode: 0, Error: "connection refused"}); p.OK() {
		t.Error("OK() = true for transport failure, want false")
	}
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityGood, "GOOD"},
		{SeverityInfo, "INFO"},
		{SeverityWarning, "WARNING"},
		{SeverityError, "ERROR"},
		{Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}
