package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// Entry is the recorded outcome for one file.
type Entry struct {
	Path           string
	Outcome        string
	ChecksumBefore string
	ChecksumAfter  string
	At             time.Time
}

// RunRow is a row of the runs table.
type RunRow struct {
	ID         int64
	Root       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Updated    int
	Skipped    int
	Error      string
}

// Run is an open run that entries are recorded against.
type Run struct {
	db *DB
	id int64
}

// BeginRun inserts a new run for root and returns its handle.
func (db *DB) BeginRun(root string, dryRun bool) (*Run, error) {
	res, err := db.conn.Exec(
		`INSERT INTO runs (root, dry_run, started_at) VALUES (?, ?, ?)`,
		root, dryRun, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("journal: begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("journal: run id: %w", err)
	}
	return &Run{db: db, id: id}, nil
}

// ID returns the run's primary key.
func (r *Run) ID() int64 {
	return r.id
}

// Record appends e to the run.
func (r *Run) Record(e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.conn.Exec(`
		INSERT INTO entries (run_id, path, outcome, checksum_before, checksum_after, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.id, e.Path, e.Outcome, e.ChecksumBefore, e.ChecksumAfter, at.UTC())
	if err != nil {
		return fmt.Errorf("journal: record %s: %w", e.Path, err)
	}
	return nil
}

// Finish stamps the run with its totals and the error that ended it, if any.
func (r *Run) Finish(updated, skipped int, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := r.db.conn.Exec(`
		UPDATE runs SET finished_at = ?, updated = ?, skipped = ?, error = ?
		WHERE id = ?
	`, time.Now().UTC(), updated, skipped, msg, r.id)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, root, dry_run, started_at, finished_at, updated, skipped, error
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Root, &r.DryRun, &r.StartedAt, &finished, &r.Updated, &r.Skipped, &r.Error); err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Entries returns the entries recorded for runID in insertion order.
func (db *DB) Entries(runID int64) ([]Entry, error) {
	rows, err := db.conn.Query(`
		SELECT path, outcome, checksum_before, checksum_after, at
		FROM entries WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Outcome, &e.ChecksumBefore, &e.ChecksumAfter, &e.At); err != nil {
			return nil, fmt.Errorf("journal: scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
