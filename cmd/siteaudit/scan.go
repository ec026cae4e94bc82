package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"siteaudit/internal/analyzer"
	"siteaudit/internal/audit"
	"siteaudit/internal/config"
	"siteaudit/internal/crawler"
	"siteaudit/internal/database"
	"siteaudit/internal/log"
	"siteaudit/internal/model"
	"siteaudit/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Crawl a website and score its quality",
		Long: `Scan crawls the target website and analyzes every page for:
- SEO issues (titles, meta descriptions, headings, structured data)
- Performance issues (response times, page sizes, compression)
- Content issues (dead links, thin pages, orphan pages)
- Security issues (HTTPS, security headers, cookie flags, info leaks)

The crawl honors robots.txt, stays on the target host, and waits
between requests.

Examples:
  # Audit a site with default settings
  siteaudit scan example.com

  # Crawl more pages with a faster request rate
  siteaudit scan --max-pages 200 --delay 200ms https://example.com

  # Write a Markdown report to a file
  siteaudit scan --markdown -o report.md example.com

  # Enrich the audit with DataForSEO API data
  siteaudit scan --dataforseo-login user@example.com --dataforseo-password secret example.com

Configuration file (.siteaudit) example:
  maxPages: 100
  crawlDelay: 500ms
  dataforseo:
    login: user@example.com
    password: secret`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Delay between requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request HTTP timeout")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header to send")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().Bool("html", false,
		"Output HTML report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this audit in the history database")

	// DataForSEO enrichment flags
	cmd.Flags().String("dataforseo-login", "",
		"DataForSEO API login (or set DATAFORSEO_LOGIN)")
	cmd.Flags().String("dataforseo-password", "",
		"DataForSEO API password (or set DATAFORSEO_PASSWORD)")
	cmd.Flags().Bool("dataforseo-sandbox", false,
		"Use the DataForSEO sandbox endpoint")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// A cancelled crawl still reports the pages fetched so far.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags, the config
// file, and environment variables. Precedence: flags > config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Target = normalizeTarget(args[0])
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = cmd.Flags().GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.OutputPath, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.NoSave, err = cmd.Flags().GetBool("no-save"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.DataForSEOLogin, err = cmd.Flags().GetString("dataforseo-login"); err != nil {
		return nil, err
	}
	if cfg.DataForSEOPassword, err = cmd.Flags().GetString("dataforseo-password"); err != nil {
		return nil, err
	}
	if cfg.DataForSEOSandbox, err = cmd.Flags().GetBool("dataforseo-sandbox"); err != nil {
		return nil, err
	}

	// Environment variables fill credentials the flags left empty.
	if cfg.DataForSEOLogin == "" {
		cfg.DataForSEOLogin = os.Getenv("DATAFORSEO_LOGIN")
	}
	if cfg.DataForSEOPassword == "" {
		cfg.DataForSEOPassword = os.Getenv("DATAFORSEO_PASSWORD")
	}

	// Load overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// normalizeTarget promotes a bare hostname to an https:// URL.
func normalizeTarget(target string) string {
	if target == "" {
		return target
	}
	if !strings.Contains(target, "://") {
		return "https://" + target
	}
	return target
}

// runScan executes the audit.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting audit",
		"target", cfg.Target,
		"maxPages", cfg.MaxPages,
		"delay", cfg.CrawlDelay,
	)

	spider := crawler.NewSpider(
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithLogger(logger),
		crawler.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)

	registry := analyzer.NewRegistry(logger)
	if cfg.DataForSEOEnabled() {
		client := analyzer.NewDataForSEOClient(
			cfg.DataForSEOLogin, cfg.DataForSEOPassword, cfg.DataForSEOSandbox)
		registry.Register(analyzer.NewDataForSEOAnalyzer(client))
		logger.Info("DataForSEO enrichment enabled", "sandbox", cfg.DataForSEOSandbox)
	}

	runner := audit.NewRunner(spider, registry, logger)

	fmt.Printf("Auditing %s...\n", cfg.Target)
	auditReport, err := runner.Run(ctx, cfg.Target)
	if err != nil {
		return err
	}
	fmt.Printf("Crawled %d pages in %s\n\n",
		auditReport.TotalPages, auditReport.CrawlDuration.Round(10*time.Millisecond))

	if err := outputReport(cfg, auditReport); err != nil {
		return err
	}

	if !cfg.NoSave {
		// The audit may have finished via Ctrl-C; the save must not be
		// killed by the same cancellation.
		if err := saveReport(context.WithoutCancel(ctx), auditReport, logger); err != nil {
			// History is a convenience; a failed save must not fail the audit.
			logger.Error("failed to save audit to history", "error", err)
		}
	}
	return nil
}

// outputReport writes the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	var output *os.File
	if cfg.OutputPath != "" {
		dir := filepath.Dir(cfg.OutputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.HTMLReport:
		writer = report.NewHTMLWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(auditReport)
	return err
}

// saveReport records the audit in the history database.
func saveReport(ctx context.Context, auditReport *model.AuditReport, logger *slog.Logger) error {
	db, err := database.Open(config.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	id, err := db.Save(ctx, auditReport)
	if err != nil {
		return err
	}
	logger.Info("audit saved to history", "id", id, "path", db.Path())
	return nil
}
