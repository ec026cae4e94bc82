package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"siteaudit/internal/config"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan <url>" {
			t.Errorf("expected use 'scan <url>', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for flag, shorthand := range map[string]string{
			"max-pages":           "p",
			"delay":               "d",
			"timeout":             "t",
			"config":              "c",
			"json":                "j",
			"markdown":            "m",
			"html":                "",
			"output":              "o",
			"no-save":             "",
			"user-agent":          "",
			"dataforseo-login":    "",
			"dataforseo-password": "",
			"dataforseo-sandbox":  "",
		} {
			f := cmd.Flags().Lookup(flag)
			if f == nil {
				t.Errorf("expected %q flag", flag)
				continue
			}
			if f.Shorthand != shorthand {
				t.Errorf("flag %q shorthand = %q, want %q", flag, f.Shorthand, shorthand)
			}
		}
	})
}

// TestNormalizeTarget tests https:// promotion of bare hostnames.
func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "bare hostname", target: "example.com", want: "https://example.com"},
		{name: "hostname with path", target: "example.com/about", want: "https://example.com/about"},
		{name: "https kept", target: "https://example.com", want: "https://example.com"},
		{name: "http kept", target: "http://example.com", want: "http://example.com"},
		{name: "empty", target: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeTarget(tt.target); got != tt.want {
				t.Errorf("normalizeTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Target != "https://example.com" {
			t.Errorf("Target = %q, want https://example.com", cfg.Target)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, config.DefaultMaxPages)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{
			"--max-pages", "10", "--delay", "100ms", "--json", "--no-save",
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.MaxPages != 10 {
			t.Errorf("MaxPages = %d, want 10", cfg.MaxPages)
		}
		if cfg.CrawlDelay != 100*time.Millisecond {
			t.Errorf("CrawlDelay = %v, want 100ms", cfg.CrawlDelay)
		}
		if !cfg.JSONReport || !cfg.NoSave {
			t.Errorf("JSONReport = %v, NoSave = %v, want both true", cfg.JSONReport, cfg.NoSave)
		}
	})

	t.Run("explicit missing config file fails", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{
			"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, []string{"example.com"}); err == nil {
			t.Error("buildConfig() accepted a missing explicit config file")
		}
	})

	t.Run("config file values apply", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("maxPages: 7\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.MaxPages != 7 {
			t.Errorf("MaxPages = %d, want 7 from config file", cfg.MaxPages)
		}
	})

	t.Run("credentials from environment", func(t *testing.T) {
		t.Setenv("DATAFORSEO_LOGIN", "env-user@example.com")
		t.Setenv("DATAFORSEO_PASSWORD", "env-secret")

		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if !cfg.DataForSEOEnabled() {
			t.Error("DataForSEOEnabled() = false with env credentials set")
		}
		if cfg.DataForSEOLogin != "env-user@example.com" {
			t.Errorf("DataForSEOLogin = %q", cfg.DataForSEOLogin)
		}
	})
}
