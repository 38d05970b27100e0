package forge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots in a SQLite database, one row per profile.
// This matches the storage layout the host add-on historically used inside
// the profile folder.
type SQLiteStore struct {
	db *sql.DB
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	profile_id TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	payload    BLOB NOT NULL
);`

// OpenSQLiteStore opens (creating if necessary) the snapshot database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty db path", ErrBadInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single interactive writer; one connection avoids locking surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, profileID string) (*ProgressionSnapshot, error) {
	if profileID == "" {
		return nil, ErrBadInput
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE profile_id = ?", profileID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSnapshot(profileID), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(payload, profileID)
}

func (s *SQLiteStore) Save(ctx context.Context, snap *ProgressionSnapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (profile_id, version, payload) VALUES (?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET version = excluded.version, payload = excluded.payload`,
		snap.ProfileID, snap.Version, payload)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
