package model

// Severity represents the weight of a single finding.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityGood marks a check the site passes. Good findings appear in
	// reports as positive confirmation and never cost score points.
	SeverityGood Severity = iota

	// SeverityInfo marks neutral statistics and observations.
	SeverityInfo

	// SeverityWarning marks issues worth fixing that are not outright
	// defects. Each warning costs 5 score points.
	SeverityWarning

	// SeverityError marks defects that hurt the site today.
	// Each error costs 15 score points.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityGood:
		return "GOOD"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category is one of the four audit dimensions.
type Category string

const (
	// CategorySEO covers search engine optimization checks.
	CategorySEO Category = "SEO"

	// CategoryPerformance covers response time, page weight, and
	// resource loading checks.
	CategoryPerformance Category = "Performance"

	// CategoryContent covers content quality and link structure checks.
	CategoryContent Category = "Content"

	// CategorySecurity covers transport security and header checks.
	CategorySecurity Category = "Security"
)

// Categories lists all audit dimensions in report order.
var Categories = []Category{
	CategorySEO,
	CategoryPerformance,
	CategoryContent,
	CategorySecurity,
}

// Finding is a single observation produced by a rule check.
type Finding struct {
	// Category is the audit dimension the finding belongs to.
	Category Category `json:"category"`

	// Severity is the finding's weight.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity for serialized output.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides detail about what was observed.
	Description string `json:"description,omitempty"`

	// Recommendation provides guidance on how to address the finding.
	Recommendation string `json:"recommendation,omitempty"`

	// URL is the page the finding applies to; empty for site-wide findings.
	URL string `json:"url,omitempty"`
}

// NewFinding creates a finding with the severity text filled in.
func NewFinding(category Category, severity Severity, title, description string) Finding {
	return Finding{
		Category:     category,
		Severity:     severity,
		SeverityText: severity.String(),
		Title:        title,
		Description:  description,
	}
}

// WithRecommendation returns a copy of the finding with the recommendation set.
func (f Finding) WithRecommendation(rec string) Finding {
	f.Recommendation = rec
	return f
}

// WithURL returns a copy of the finding tied to a specific page.
func (f Finding) WithURL(url string) Finding {
	f.URL = url
	return f
}
