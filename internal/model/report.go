package model

import "time"

// CategoryReport is the scored result of one audit dimension.
type CategoryReport struct {
	// Category is the audit dimension.
	Category Category `json:"category"`

	// Score is the dimension score, 0-100.
	Score int `json:"score"`

	// Grade is the letter grade derived from Score.
	Grade string `json:"grade"`

	// Findings contains every finding the dimension's checks produced.
	Findings []Finding `json:"findings"`
}

// ErrorCount returns the number of error-severity findings.
func (c *CategoryReport) ErrorCount() int { return c.countBySeverity(SeverityError) }

// WarningCount returns the number of warning-severity findings.
func (c *CategoryReport) WarningCount() int { return c.countBySeverity(SeverityWarning) }

// GoodCount returns the number of passed checks.
func (c *CategoryReport) GoodCount() int { return c.countBySeverity(SeverityGood) }

func (c *CategoryReport) countBySeverity(sev Severity) int {
	n := 0
	for _, f := range c.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// FindingsBySeverity returns the findings matching the given severity.
func (c *CategoryReport) FindingsBySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range c.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// AuditReport is the complete result of one site audit.
//
// Design decision: We use a single struct holding both the scored
// categories and the raw page records because:
// 1. Report writers need both (the HTML report has a page appendix)
// 2. It serializes to one JSON document for database storage
// 3. It keeps the scan command free of assembly logic
type AuditReport struct {
	// TargetURL is the seed URL the audit started from.
	TargetURL string `json:"target_url"`

	// TotalPages is the number of pages recorded by the crawl.
	TotalPages int `json:"total_pages"`

	// CrawlDuration is how long the crawl phase took.
	CrawlDuration time.Duration `json:"crawl_duration"`

	// Categories holds the four scored dimensions in report order.
	Categories []CategoryReport `json:"categories"`

	// OverallScore is the integer mean of the category scores.
	OverallScore int `json:"overall_score"`

	// OverallGrade is the letter grade derived from OverallScore.
	OverallGrade string `json:"overall_grade"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Pages maps URL to its record, in discovery order via PageOrder.
	Pages map[string]*PageRecord `json:"-"` // Excluded from JSON due to size

	// PageOrder lists the keys of Pages in discovery order.
	PageOrder []string `json:"page_order,omitempty"`
}

// Score computes a dimension score from its findings: start at 100,
// subtract 15 per error and 5 per warning, floor at 0. Good and Info
// findings never change the score.
func Score(findings []Finding) int {
	score := 100
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			score -= 15
		case SeverityWarning:
			score -= 5
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// ScoreToGrade converts a 0-100 score to a letter grade.
func ScoreToGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// TotalFindings returns the number of findings across all categories.
func (r *AuditReport) TotalFindings() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Findings)
	}
	return n
}

// CountBySeverity returns the number of findings with the given severity
// across all categories.
func (r *AuditReport) CountBySeverity(sev Severity) int {
	n := 0
	for i := range r.Categories {
		n += r.Categories[i].countBySeverity(sev)
	}
	return n
}

// WorstSeverity returns the most severe level present in the report.
// Returns SeverityGood when the report has no findings at all.
func (r *AuditReport) WorstSeverity() Severity {
	worst := SeverityGood
	for _, c := range r.Categories {
		for _, f := range c.Findings {
			if f.Severity > worst {
				worst = f.Severity
			}
		}
	}
	return worst
}
