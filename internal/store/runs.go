package store

import (
	"fmt"
	"time"
)

// Run describes one attribution run.
type Run struct {
	ID         string
	RepoPath   string
	CommitHash string
	Threshold  float64
	Since      string
	StartedAt  time.Time
}

// LineRecord is one persisted line verdict.
type LineRecord struct {
	FilePath   string
	LineNumber int
	Author     string
	CommitHash string
	FullCredit bool
	Skipped    bool
}

// AuthorTally counts a run's lines per author.
type AuthorTally struct {
	Author        string
	Lines         int
	FullCredit    int
	PartialCredit int
}

// InsertRun records the start of a run.
func (s *Store) InsertRun(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, repo_path, commit_hash, threshold, since, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.RepoPath, r.CommitHash, r.Threshold, r.Since, r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// InsertLines stores the line verdicts of one file in a single transaction.
func (s *Store) InsertLines(runID string, lines []LineRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert lines: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO line_attributions (run_id, file_path, line_number, author, commit_hash, full_credit, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert lines: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err := stmt.Exec(runID, l.FilePath, l.LineNumber, l.Author, l.CommitHash,
			boolToInt(l.FullCredit), boolToInt(l.Skipped)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert line %s:%d: %w", l.FilePath, l.LineNumber, err)
		}
	}
	return tx.Commit()
}

// QueryRun returns a run by id.
func (s *Store) QueryRun(id string) (*Run, error) {
	var r Run
	var started string
	err := s.db.QueryRow(
		`SELECT id, repo_path, commit_hash, threshold, since, started_at FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.RepoPath, &r.CommitHash, &r.Threshold, &r.Since, &started)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parse run start %q: %w", started, err)
	}
	r.StartedAt = t
	return &r, nil
}

// QueryAuthorTallies returns per-author line counts for a run, ordered by
// line count descending then author name.
func (s *Store) QueryAuthorTallies(runID string) ([]AuthorTally, error) {
	rows, err := s.db.Query(
		`SELECT author, COUNT(*), SUM(full_credit), SUM(1 - full_credit)
		 FROM line_attributions
		 WHERE run_id = ?
		 GROUP BY author
		 ORDER BY COUNT(*) DESC, author ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []AuthorTally
	for rows.Next() {
		var t AuthorTally
		if err := rows.Scan(&t.Author, &t.Lines, &t.FullCredit, &t.PartialCredit); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
