// Package store persists fetched mail in a local SQLite database so a new
// session starts warm instead of empty while the first fetch runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"mailpilot/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the mail cache backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS emails (
	id           TEXT PRIMARY KEY,
	thread_id    TEXT NOT NULL DEFAULT '',
	folder       TEXT NOT NULL,
	from_email   TEXT NOT NULL DEFAULT '',
	to_email     TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	snippet      TEXT NOT NULL DEFAULT '',
	date_rfc3339 TEXT NOT NULL DEFAULT '',
	unread       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_emails_folder ON emails(folder);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveEmails upserts a fetched folder snapshot. Emails that moved out of the
// folder on the server are not deleted here; the in-memory list is the live
// view and the cache only has to be good enough for a warm start.
func (s *SQLiteStore) SaveEmails(ctx context.Context, folder string, emails []model.Email) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO emails (id, thread_id, folder, from_email, to_email, subject, body, snippet, date_rfc3339, unread)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			thread_id    = excluded.thread_id,
			folder       = excluded.folder,
			from_email   = excluded.from_email,
			to_email     = excluded.to_email,
			subject      = excluded.subject,
			body         = excluded.body,
			snippet      = excluded.snippet,
			date_rfc3339 = excluded.date_rfc3339,
			unread       = excluded.unread
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range emails {
		_, err := stmt.ExecContext(ctx, e.ID, e.ThreadID, folder, e.From, e.To, e.Subject, e.Body, e.Snippet, e.Date, boolToInt(e.Unread))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadEmails returns the cached snapshot of one folder, newest first.
func (s *SQLiteStore) LoadEmails(ctx context.Context, folder string) ([]model.Email, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, from_email, to_email, subject, body, snippet, date_rfc3339, unread
		FROM emails WHERE folder = ? ORDER BY date_rfc3339 DESC
	`, folder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []model.Email
	for rows.Next() {
		var e model.Email
		var unread int
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.From, &e.To, &e.Subject, &e.Body, &e.Snippet, &e.Date, &unread); err != nil {
			return nil, err
		}
		e.Unread = unread != 0
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// MarkRead clears the unread flag on one cached email.
func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE emails SET unread = 0 WHERE id = ?", id)
	return err
}

// CountEmails reports how many emails are cached for a folder.
func (s *SQLiteStore) CountEmails(ctx context.Context, folder string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM emails WHERE folder = ?", folder).Scan(&count)
	return count, err
}

// GetMetadata reads one metadata value; missing keys return "".
func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetMetadata upserts one metadata value.
func (s *SQLiteStore) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
