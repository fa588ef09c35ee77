// Package store archives finished runs to a local SQLite database for
// debugging. The archive is append-only and never read back by the
// engine; a failed insert is logged and ignored.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/commentpilot/commentpilot/internal/job"
	"github.com/commentpilot/commentpilot/internal/types"
)

// Store wraps the archive database.
type Store struct {
	db *sql.DB
}

// Open creates the archive database at dbPath, migrating the schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		platform TEXT NOT NULL,
		keyword TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		total_comments INTEGER NOT NULL,
		total_replies INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		post_url TEXT NOT NULL,
		username TEXT NOT NULL,
		body TEXT NOT NULL,
		time_raw TEXT,
		hours_ago REAL
	);

	CREATE TABLE IF NOT EXISTS replies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		username TEXT NOT NULL,
		reply_text TEXT NOT NULL,
		success BOOLEAN NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_comments_run ON comments(run_id);
	CREATE INDEX IF NOT EXISTS idx_replies_run ON replies(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun archives one finished run in a single transaction.
func (s *Store) SaveRun(j job.Job, res types.RunResult, startedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, platform, keyword, success, total_comments, total_replies, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, string(j.Platform), j.Keyword, res.Success,
		res.TotalComments, res.TotalReplies, startedAt, time.Now(),
	)
	if err != nil {
		return err
	}

	for _, c := range res.Comments {
		var hours any
		if c.HoursAgo != nil {
			hours = *c.HoursAgo
		}
		if _, err := tx.Exec(
			`INSERT INTO comments (run_id, post_url, username, body, time_raw, hours_ago)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			j.ID, c.PostURL, c.Author, c.Body, c.TimeRaw, hours,
		); err != nil {
			return err
		}
	}

	for _, r := range res.Replies {
		if _, err := tx.Exec(
			`INSERT INTO replies (run_id, username, reply_text, success)
			 VALUES (?, ?, ?, ?)`,
			j.ID, r.Username, r.ReplyText, r.Success,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
