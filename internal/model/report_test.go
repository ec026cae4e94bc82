package model

import "testing"

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{
			name:     "no findings scores perfect",
			findings: nil,
			want:     100,
		},
		{
			name: "good and info findings do not change score",
			findings: []Finding{
				NewFinding(CategorySEO, SeverityGood, "ok", ""),
				NewFinding(CategorySEO, SeverityInfo, "stat", ""),
			},
			want: 100,
		},
		{
			name: "each error costs fifteen points",
			findings: []Finding{
				NewFinding(CategorySEO, SeverityError, "bad", ""),
				NewFinding(CategorySEO, SeverityError, "bad", ""),
			},
			want: 70,
		},
		{
			name: "each warning costs five points",
			findings: []Finding{
				NewFinding(CategorySEO, SeverityWarning, "meh", ""),
				NewFinding(CategorySEO, SeverityWarning, "meh", ""),
				NewFinding(CategorySEO, SeverityWarning, "meh", ""),
			},
			want: 85,
		},
		{
			name: "score floors at zero",
			findings: []Finding{
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityError, "bad", ""),
				NewFinding(CategorySecurity, SeverityWarning, "meh", ""),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.findings); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreToGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{100, "A"},
		{90, "A"},
		{89, "B"},
		{75, "B"},
		{74, "C"},
		{60, "C"},
		{59, "D"},
		{40, "D"},
		{39, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := ScoreToGrade(tt.score); got != tt.want {
			t.Errorf("ScoreToGrade(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCategoryReportCounts(t *testing.T) {
	t.Parallel()

	c := CategoryReport{
		Category: CategoryContent,
		Findings: []Finding{
			NewFinding(CategoryContent, SeverityGood, "a", ""),
			NewFinding(CategoryContent, SeverityGood, "b", ""),
			NewFinding(CategoryContent, SeverityWarning, "c", ""),
			NewFinding(CategoryContent, SeverityError, "d", ""),
			NewFinding(CategoryContent, SeverityInfo, "e", ""),
		},
	}

	if got := c.GoodCount(); got != 2 {
		t.Errorf("GoodCount() = %d, want 2", got)
	}
	if got := c.WarningCount(); got != 1 {
		t.Errorf("WarningCount() = %d, want 1", got)
	}
	if got := c.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() = %d, want 1", got)
	}
	if got := len(c.FindingsBySeverity(SeverityGood)); got != 2 {
		t.Errorf("FindingsBySeverity(good) returned %d findings, want 2", got)
	}
}

func TestAuditReportWorstSeverity(t *testing.T) {
	t.Parallel()

	t.Run("empty report is good", func(t *testing.T) {
		t.Parallel()
		r := AuditReport{}
		if got := r.WorstSeverity(); got != SeverityGood {
			t.Errorf("WorstSeverity() = %v, want %v", got, SeverityGood)
		}
	})

	t.Run("error dominates warning", func(t *testing.T) {
		t.Parallel()
		r := AuditReport{
			Categories: []CategoryReport{
				{Findings: []Finding{NewFinding(CategorySEO, SeverityWarning, "a", "")}},
				{Findings: []Finding{NewFinding(CategorySecurity, SeverityError, "b", "")}},
			},
		}
		if got := r.WorstSeverity(); got != SeverityError {
			t.Errorf("WorstSeverity() = %v, want %v", got, SeverityError)
		}
	})
}
