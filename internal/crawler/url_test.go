package crawler

import "testing"

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		base string
		want string
	}{
		{
			name: "relative path resolves against base",
			href: "/about",
			base: "https://example.com/",
			want: "https://example.com/about",
		},
		{
			name: "fragment is dropped",
			href: "https://example.com/page#section",
			base: "https://example.com/",
			want: "https://example.com/page",
		},
		{
			name: "trailing slash is removed",
			href: "https://example.com/page/",
			base: "https://example.com/",
			want: "https://example.com/page",
		},
		{
			name: "root path keeps its slash",
			href: "https://example.com/",
			base: "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "empty path becomes root",
			href: "https://example.com",
			base: "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "query string survives",
			href: "/search?q=go",
			base: "https://example.com/",
			want: "https://example.com/search?q=go",
		},
		{
			name: "sibling relative path",
			href: "contact",
			base: "https://example.com/pages/about",
			want: "https://example.com/pages/contact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeURL(tt.href, tt.base); got != tt.want {
				t.Errorf("NormalizeURL(%q, %q) = %q, want %q", tt.href, tt.base, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://example.com/page/#top",
		"https://example.com/a/b/",
		"https://example.com/",
		"https://example.com/search?q=x#y",
	}
	base := "https://example.com/"

	for _, in := range inputs {
		once := NormalizeURL(in, base)
		twice := NormalizeURL(once, base)
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestIsSameSite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawURL string
		base   string
		want   bool
	}{
		{"same host", "https://example.com/about", "https://example.com/", true},
		{"different host", "https://other.com/", "https://example.com/", false},
		{"subdomain is a different site", "https://blog.example.com/", "https://example.com/", false},
		{"different port is a different site", "https://example.com:8443/", "https://example.com/", false},
		{"unparseable URL fails closed", "https://exa mple.com/", "https://example.com/", false},
		{"empty host fails closed", "/relative", "https://example.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsSameSite(tt.rawURL, tt.base); got != tt.want {
				t.Errorf("IsSameSite(%q, %q) = %v, want %v", tt.rawURL, tt.base, got, tt.want)
			}
		})
	}
}

func TestIsCrawlable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rawURL string
		want   bool
	}{
		{"https://example.com/page", true},
		{"https://example.com/page.html", true},
		{"https://example.com/doc.pdf", false},
		{"https://example.com/image.PNG", false},
		{"https://example.com/archive.tar", false},
		{"https://example.com/app.js", false},
		{"https://example.com/style.css", false},
		{"https://example.com/font.woff2", false},
		{"https://example.com/report.docx", false},
		{"https://example.com/video.mp4", false},
		{"https://example.com/page?file=x.pdf", true},
	}

	for _, tt := range tests {
		if got := IsCrawlable(tt.rawURL); got != tt.want {
			t.Errorf("IsCrawlable(%q) = %v, want %v", tt.rawURL, got, tt.want)
		}
	}
}
