// Package config holds the runtime configuration for siteaudit.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These defaults match a polite single-threaded crawl of a typical
// small-to-medium website.
const (
	// DefaultMaxPages limits how many pages one audit fetches.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 50

	// DefaultCrawlDelay is the delay between requests during crawling.
	// This is a politeness setting to avoid overwhelming the target.
	// 1 second is conservative and respectful of server resources.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout is the per-request timeout. 15 seconds covers
	// slow shared hosting without letting one dead URL stall the crawl.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies siteaudit in HTTP requests.
	// A descriptive User-Agent lets operators identify audit traffic
	// in their logs.
	DefaultUserAgent = "SiteAudit/1.0"

	// AppName is the application name used for XDG directory paths.
	AppName = "siteaudit"
)

// Config holds all configuration options for siteaudit.
// This struct is designed to be populated from CLI flags and the config
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Target is the URL to audit. A bare hostname is promoted to
	// https:// before the crawl starts.
	Target string

	// MaxPages is the page budget per audit. A value of 0 means use
	// DefaultMaxPages.
	MaxPages int

	// CrawlDelay is the politeness delay between page fetches.
	CrawlDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxBodySize caps how many response bytes are read per page.
	MaxBodySize int64

	// UserAgent is sent on every request.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport switches output to JSON.
	// Mutually exclusive with MarkdownReport and HTMLReport.
	JSONReport bool

	// MarkdownReport switches output to GitHub Flavored Markdown.
	MarkdownReport bool

	// HTMLReport switches output to a single-file HTML report.
	HTMLReport bool

	// OutputPath writes the report to a file instead of stdout.
	OutputPath string

	// NoSave disables writing the audit to the history database.
	NoSave bool

	// ConfigFilePath is an explicit config file location. When empty,
	// the tool searches for .siteaudit in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// DataForSEOLogin and DataForSEOPassword enable the DataForSEO
	// enrichment analyzer when both are set.
	DataForSEOLogin    string
	DataForSEOPassword string

	// DataForSEOSandbox routes enrichment calls to the free sandbox.
	DataForSEOSandbox bool
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		CrawlDelay:  DefaultCrawlDelay,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate checks the configuration for contradictions and bad values.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if (c.DataForSEOLogin == "") != (c.DataForSEOPassword == "") {
		return ErrIncompleteDataForSEOCredentials
	}
	return nil
}

// DataForSEOEnabled reports whether enrichment credentials are present.
func (c *Config) DataForSEOEnabled() bool {
	return c.DataForSEOLogin != "" && c.DataForSEOPassword != ""
}

// DataDir returns the XDG data directory for siteaudit, used for the
// audit history database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for siteaudit.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
