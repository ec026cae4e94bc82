// Package database stores audit history in a local SQLite file.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"siteaudit/internal/model"
)

// AuditDB provides SQLite-based storage for audit reports.
//
// Design decision: We store the full report as a JSON column next to
// the queryable summary columns because:
// 1. History listings only need the summary columns
// 2. Re-rendering an old report needs the complete structure
// 3. The schema stays stable as analyzers gain new finding types
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// AuditRecord is one stored audit as returned by history queries.
type AuditRecord struct {
	ID           int64     `json:"id"`
	TargetURL    string    `json:"target_url"`
	OverallScore int       `json:"overall_score"`
	OverallGrade string    `json:"overall_grade"`
	TotalPages   int       `json:"total_pages"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Open opens or creates an AuditDB under the given directory.
// The directory is created when missing.
func Open(dbDir string) (*AuditDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "siteaudit.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// Path returns the location of the database file.
func (adb *AuditDB) Path() string {
	return adb.dbPath
}

func (adb *AuditDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target_url TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		overall_grade TEXT NOT NULL,
		total_pages INTEGER NOT NULL,
		generated_at DATETIME NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_target ON audits(target_url);
	CREATE INDEX IF NOT EXISTS idx_audits_generated ON audits(generated_at);
	`
	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores a completed audit and returns its row ID.
func (adb *AuditDB) Save(ctx context.Context, report *model.AuditReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("encode report: %w", err)
	}

	res, err := adb.db.ExecContext(ctx,
		`INSERT INTO audits (target_url, overall_score, overall_grade, total_pages, generated_at, report_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.TargetURL, report.OverallScore, report.OverallGrade,
		report.TotalPages, report.GeneratedAt.UTC(), string(reportJSON))
	if err != nil {
		return 0, fmt.Errorf("insert audit: %w", err)
	}
	return res.LastInsertId()
}

// History returns stored audits for the target, newest first.
func (adb *AuditDB) History(ctx context.Context, targetURL string) ([]AuditRecord, error) {
	rows, err := adb.db.QueryContext(ctx,
		`SELECT id, target_url, overall_score, overall_grade, total_pages, generated_at
		 FROM audits WHERE target_url = ? ORDER BY generated_at DESC`, targetURL)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Latest returns the most recent full report for the target, or
// sql.ErrNoRows when the target has never been audited.
func (adb *AuditDB) Latest(ctx context.Context, targetURL string) (*model.AuditReport, error) {
	var reportJSON string
	err := adb.db.QueryRowContext(ctx,
		`SELECT report_json FROM audits WHERE target_url = ?
		 ORDER BY generated_at DESC LIMIT 1`, targetURL).Scan(&reportJSON)
	if err != nil {
		return nil, err
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &report, nil
}

// ListTargets returns every distinct audited target with its latest
// summary, newest first.
func (adb *AuditDB) ListTargets(ctx context.Context) ([]AuditRecord, error) {
	rows, err := adb.db.QueryContext(ctx,
		`SELECT id, target_url, overall_score, overall_grade, total_pages, generated_at
		 FROM audits
		 WHERE id IN (SELECT MAX(id) FROM audits GROUP BY target_url)
		 ORDER BY generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]AuditRecord, error) {
	var records []AuditRecord
	for rows.Next() {
		var r AuditRecord
		if err := rows.Scan(&r.ID, &r.TargetURL, &r.OverallScore, &r.OverallGrade,
			&r.TotalPages, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
