package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"siteaudit/internal/config"
	"siteaudit/internal/crawler"
	"siteaudit/internal/database"
	"siteaudit/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show stored audit history",
		Long: `History lists audits recorded by previous scan runs.

Without arguments it lists every audited site with its latest score.
With a URL it lists all audits of that site, newest first.

Examples:
  # List all audited sites
  siteaudit history

  # Show audit history for one site
  siteaudit history https://example.com/

  # Re-render the latest stored report for a site
  siteaudit history --show https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("show", false,
		"Render the latest stored report for the given URL")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	show, err := cmd.Flags().GetBool("show")
	if err != nil {
		return err
	}

	db, err := database.Open(config.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		records, err := db.ListTargets(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No audits recorded yet. Run 'siteaudit scan <url>' first.")
			return nil
		}
		printRecords(out, records)
		return nil
	}

	target := canonicalTarget(args[0])

	if show {
		latest, err := db.Latest(ctx, target)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no audits recorded for %s", target)
			}
			return err
		}
		_, err = report.NewSimpleWriter(out).Write(latest)
		return err
	}

	records, err := db.History(ctx, target)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no audits recorded for %s", target)
	}
	printRecords(out, records)
	return nil
}

// canonicalTarget turns user input into the exact key audits are stored
// under: https:// promotion followed by the crawler's URL normalization,
// which is what the runner records as TargetURL.
func canonicalTarget(raw string) string {
	target := normalizeTarget(raw)
	if canonical := crawler.NormalizeURL(target, target); canonical != "" {
		return canonical
	}
	return target
}

// printRecords writes audit summaries as an aligned table.
func printRecords(out io.Writer, records []database.AuditRecord) {
	fmt.Fprintf(out, "%-19s  %-5s  %-5s  %-5s  %s\n",
		"DATE", "SCORE", "GRADE", "PAGES", "TARGET")
	for _, r := range records {
		fmt.Fprintf(out, "%-19s  %-5d  %-5s  %-5d  %s\n",
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			r.OverallScore, r.OverallGrade, r.TotalPages, r.TargetURL)
	}
}
