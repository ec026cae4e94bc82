package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"siteaudit/internal/model"
)

func openTestDB(t *testing.T) *AuditDB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testReport(target string, score int) *model.AuditReport {
	return &model.AuditReport{
		TargetURL:    target,
		TotalPages:   3,
		OverallScore: score,
		OverallGrade: model.ScoreToGrade(score),
		GeneratedAt:  time.Now().UTC(),
		Categories: []model.CategoryReport{
			{Category: model.CategorySEO, Score: score, Grade: model.ScoreToGrade(score)},
		},
	}
}

func TestAuditDBSaveAndHistory(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Save(ctx, testReport("https://example.com/", 85))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == 0 {
		t.Error("Save() returned id 0")
	}
	if _, err := db.Save(ctx, testReport("https://example.com/", 90)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := db.Save(ctx, testReport("https://other.com/", 50)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	history, err := db.History(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	for _, r := range history {
		if r.TargetURL != "https://example.com/" {
			t.Errorf("history contains foreign target %q", r.TargetURL)
		}
	}
}

func TestAuditDBLatest(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	older := testReport("https://example.com/", 60)
	older.GeneratedAt = time.Now().UTC().Add(-time.Hour)
	if _, err := db.Save(ctx, older); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := db.Save(ctx, testReport("https://example.com/", 92)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	latest, err := db.Latest(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.OverallScore != 92 {
		t.Errorf("OverallScore = %d, want 92", latest.OverallScore)
	}
	if len(latest.Categories) != 1 {
		t.Errorf("stored report lost its categories")
	}
}

func TestAuditDBLatestUnknownTarget(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if _, err := db.Latest(context.Background(), "https://nobody.example/"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Latest() error = %v, want sql.ErrNoRows", err)
	}
}

func TestAuditDBListTargets(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Save(ctx, testReport("https://a.example/", 70)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := db.Save(ctx, testReport("https://a.example/", 75)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := db.Save(ctx, testReport("https://b.example/", 40)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	targets, err := db.ListTargets(ctx)
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("len(targets) = %d, want 2", len(targets))
	}
	for _, r := range targets {
		if r.TargetURL == "https://a.example/" && r.OverallScore != 75 {
			t.Errorf("latest score for a.example = %d, want 75", r.OverallScore)
		}
	}
}
