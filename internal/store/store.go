// Package store persists score reports in SQLite and computes the recruiter
// reporting views over stored history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dmelnis/screengate/internal/scoring"
)

// ErrNotFound is returned when no stored report matches the query.
var ErrNotFound = errors.New("report not found")

// timeLayout keeps the fractional seconds fixed-width, unlike RFC3339Nano
// which trims trailing zeros. Latest and List order by the created_at string,
// so the stored form must sort lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the screening results SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scoring_results (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			primary_score REAL NOT NULL,
			secondary_score REAL NOT NULL,
			final_score REAL NOT NULL,
			decision TEXT NOT NULL,
			fail_reason TEXT,
			summary TEXT,
			rules_config TEXT,
			scoring_config TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scoring_breakdown (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id TEXT NOT NULL REFERENCES scoring_results(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			criterion_name TEXT NOT NULL,
			category TEXT NOT NULL,
			weight REAL NOT NULL,
			passed INTEGER NOT NULL,
			points_awarded REAL NOT NULL,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS scoring_judgments (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id TEXT NOT NULL REFERENCES scoring_results(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			category TEXT NOT NULL,
			rationale TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_breakdown_report ON scoring_breakdown(report_id)`,
		`CREATE INDEX IF NOT EXISTS idx_judgments_report ON scoring_judgments(report_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_subject ON scoring_results(subject)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// SavedReport is a stored report together with its identity and the
// configuration echo captured at scoring time.
type SavedReport struct {
	ID        string              `json:"id"`
	Subject   string              `json:"subject"`
	Report    scoring.ScoreReport `json:"report"`
	Rules     scoring.Rules       `json:"rules_config,omitempty"`
	Config    *scoring.Config     `json:"scoring_config,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Listing is one row of the stored report index.
type Listing struct {
	ID         string           `json:"id"`
	Subject    string           `json:"subject"`
	FinalScore float64          `json:"final_score"`
	Decision   scoring.Decision `json:"decision"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Save writes the report, its breakdown and its judgments in a single
// transaction and returns the new report id.
func (s *Store) Save(ctx context.Context, subject string, report *scoring.ScoreReport, rules scoring.Rules, cfg *scoring.Config) (string, error) {
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("marshal rules config: %w", err)
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal scoring config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(timeLayout)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scoring_results
			(id, subject, primary_score, secondary_score, final_score, decision, fail_reason, summary, rules_config, scoring_config, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, subject, report.PrimaryScore, report.SecondaryScore, report.FinalScore,
		string(report.Decision), report.FailReason, report.Summary,
		string(rulesJSON), string(cfgJSON), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}

	for i, result := range report.PrimaryBreakdown {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scoring_breakdown
				(report_id, position, criterion_name, category, weight, passed, points_awarded, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, result.Name, string(result.Category), result.Weight, result.Passed, result.PointsAwarded, result.Notes,
		)
		if err != nil {
			return "", fmt.Errorf("insert breakdown entry: %w", err)
		}
	}

	for i, judgment := range report.SecondaryJudgments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scoring_judgments (report_id, position, question_id, category, rationale)
			 VALUES (?, ?, ?, ?, ?)`,
			id, i, judgment.QuestionID, string(judgment.Category), judgment.Rationale,
		)
		if err != nil {
			return "", fmt.Errorf("insert judgment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

// Get loads one stored report with its full breakdown and judgments.
func (s *Store) Get(ctx context.Context, id string) (*SavedReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject, primary_score, secondary_score, final_score, decision, fail_reason, summary, rules_config, scoring_config, created_at
		 FROM scoring_results WHERE id = ?`, id)

	saved, err := scanReport(row)
	if err != nil {
		return nil, err
	}

	if saved.Report.PrimaryBreakdown, err = s.loadBreakdown(ctx, saved.ID); err != nil {
		return nil, err
	}
	if saved.Report.SecondaryJudgments, err = s.loadJudgments(ctx, saved.ID); err != nil {
		return nil, err
	}

	return saved, nil
}

// Latest loads the most recent stored report for a subject.
func (s *Store) Latest(ctx context.Context, subject string) (*SavedReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject, primary_score, secondary_score, final_score, decision, fail_reason, summary, rules_config, scoring_config, created_at
		 FROM scoring_results WHERE subject = ? ORDER BY created_at DESC LIMIT 1`, subject)

	saved, err := scanReport(row)
	if err != nil {
		return nil, err
	}

	if saved.Report.PrimaryBreakdown, err = s.loadBreakdown(ctx, saved.ID); err != nil {
		return nil, err
	}
	if saved.Report.SecondaryJudgments, err = s.loadJudgments(ctx, saved.ID); err != nil {
		return nil, err
	}

	return saved, nil
}

// List returns the most recent reports, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, final_score, decision, created_at
		 FROM scoring_results ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	listings := make([]Listing, 0, limit)
	for rows.Next() {
		var listing Listing
		var decision, createdAt string
		if err := rows.Scan(&listing.ID, &listing.Subject, &listing.FinalScore, &decision, &createdAt); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listing.Decision = scoring.Decision(decision)
		listing.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

func scanReport(row *sql.Row) (*SavedReport, error) {
	var saved SavedReport
	var decision, createdAt string
	var failReason, summary, rulesJSON, cfgJSON sql.NullString

	err := row.Scan(&saved.ID, &saved.Subject,
		&saved.Report.PrimaryScore, &saved.Report.SecondaryScore, &saved.Report.FinalScore,
		&decision, &failReason, &summary, &rulesJSON, &cfgJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}

	saved.Report.Decision = scoring.Decision(decision)
	saved.Report.FailReason = failReason.String
	saved.Report.Summary = summary.String
	saved.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	if rulesJSON.Valid && rulesJSON.String != "" {
		if err := json.Unmarshal([]byte(rulesJSON.String), &saved.Rules); err != nil {
			return nil, fmt.Errorf("unmarshal rules config: %w", err)
		}
	}
	if cfgJSON.Valid && cfgJSON.String != "" && cfgJSON.String != "null" {
		saved.Config = &scoring.Config{}
		if err := json.Unmarshal([]byte(cfgJSON.String), saved.Config); err != nil {
			return nil, fmt.Errorf("unmarshal scoring config: %w", err)
		}
	}

	return &saved, nil
}

func (s *Store) loadBreakdown(ctx context.Context, reportID string) ([]scoring.CriterionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT criterion_name, category, weight, passed, points_awarded, notes
		 FROM scoring_breakdown WHERE report_id = ? ORDER BY position`, reportID)
	if err != nil {
		return nil, fmt.Errorf("load breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []scoring.CriterionResult{}
	for rows.Next() {
		var result scoring.CriterionResult
		var category string
		var notes sql.NullString
		if err := rows.Scan(&result.Name, &category, &result.Weight, &result.Passed, &result.PointsAwarded, &notes); err != nil {
			return nil, fmt.Errorf("scan breakdown entry: %w", err)
		}
		result.Category = scoring.Category(category)
		result.Notes = notes.String
		breakdown = append(breakdown, result)
	}

	return breakdown, rows.Err()
}

func (s *Store) loadJudgments(ctx context.Context, reportID string) ([]scoring.AnswerJudgment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, category, rationale
		 FROM scoring_judgments WHERE report_id = ? ORDER BY position`, reportID)
	if err != nil {
		return nil, fmt.Errorf("load judgments: %w", err)
	}
	defer rows.Close()

	judgments := []scoring.AnswerJudgment{}
	for rows.Next() {
		var judgment scoring.AnswerJudgment
		var category string
		var rationale sql.NullString
		if err := rows.Scan(&judgment.QuestionID, &category, &rationale); err != nil {
			return nil, fmt.Errorf("scan judgment: %w", err)
		}
		judgment.Category = scoring.Category(category)
		judgment.Rationale = rationale.String
		judgments = append(judgments, judgment)
	}

	return judgments, rows.Err()
}
