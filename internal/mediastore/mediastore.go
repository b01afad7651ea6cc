// Package mediastore persists the large binary payloads (generated
// images and videos) referenced by history entries. Payloads live in
// their own SQLite database, keyed by history entry ID, so the metadata
// store's byte budget never has to account for them.
//
// All lookup methods use the (nil, nil) convention: a missing row is an
// expected outcome, not an error. Callers degrade to thumbnail-only
// display when a payload is gone.
package mediastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the persistence interface for generated media payloads.
// Save overwrites unconditionally. Delete and Clear are best-effort from
// the caller's point of view; they return errors so the caller can log
// them, but callers must never treat a failure as fatal.
type Store interface {
	// Save writes or replaces the payload for id.
	Save(ctx context.Context, id string, data []byte, mimeType string) error

	// Get retrieves the payload for id. Returns (nil, nil) if absent.
	Get(ctx context.Context, id string) (*Blob, error)

	// Delete removes the payload for id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes every payload.
	Clear(ctx context.Context) error

	// ListIDs returns the IDs of all stored payloads.
	ListIDs(ctx context.Context) ([]string, error)

	// Close releases the underlying database handle.
	Close() error
}

// Blob is one stored media payload.
type Blob struct {
	ID       string
	MIMEType string
	Data     []byte
	SavedAt  time.Time
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS media_blobs (
	id        TEXT PRIMARY KEY,
	mime_type TEXT NOT NULL,
	data      BLOB NOT NULL,
	saved_at  INTEGER NOT NULL
);
`

// Open opens (creating if needed) the media database at path.
// The parent directory is created with owner-only permissions.
func Open(path string) (*SQLiteStore, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("mediastore: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets the web handlers read while a generation is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// Single writer; the driver serializes access anyway and this keeps
	// lock contention out of the picture for a single-user tool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string, data []byte, mimeType string) error {
	if id == "" {
		return errors.New("mediastore: empty id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_blobs (id, mime_type, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET mime_type=excluded.mime_type, data=excluded.data, saved_at=excluded.saved_at`,
		id, mimeType, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save blob %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Blob, error) {
	var b Blob
	var savedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mime_type, data, saved_at FROM media_blobs WHERE id = ?`, id).
		Scan(&b.ID, &b.MIMEType, &b.Data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", id, err)
	}
	b.SavedAt = time.Unix(savedAt, 0)
	return &b, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media_blobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media_blobs`); err != nil {
		return fmt.Errorf("clear blobs: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM media_blobs ORDER BY saved_at`)
	if err != nil {
		return nil, fmt.Errorf("list blob ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blob id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
