// Package history keeps every recorded version of a referee card in SQLite
// so rendered pages can list earlier states in their history panel.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/uww-referees/internal/referee"
)

// Version statuses
const (
	StatusAdded   = "added"
	StatusChanged = "changed"
	StatusRetired = "retired"
)

const schema = `
CREATE TABLE IF NOT EXISTS versions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	id_number      INTEGER NOT NULL,
	recorded_on    TEXT    NOT NULL,
	status         TEXT    NOT NULL,
	changed_fields TEXT    NOT NULL DEFAULT '',
	referee        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_versions_id_number ON versions(id_number);
`

// Version is one recorded state of a referee card
type Version struct {
	IDNumber      int
	RecordedOn    string // YYYY-MM-DD
	Status        string
	ChangedFields []string
	Referee       referee.Referee
}

// Store is a SQLite-backed version store
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenMemory opens a throwaway in-memory store
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a single version
func (s *Store) Record(ctx context.Context, v Version) error {
	return insert(ctx, s.db, v)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insert(ctx context.Context, db execer, v Version) error {
	data, err := json.Marshal(v.Referee)
	if err != nil {
		return fmt.Errorf("encoding referee %d: %w", v.IDNumber, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO versions (id_number, recorded_on, status, changed_fields, referee) VALUES (?, ?, ?, ?, ?)`,
		v.IDNumber, v.RecordedOn, v.Status, strings.Join(v.ChangedFields, ","), string(data))
	if err != nil {
		return fmt.Errorf("recording version of %d: %w", v.IDNumber, err)
	}
	return nil
}

// RecordDiff stores one version per changed, added and retired referee,
// all dated on.
func (s *Store) RecordDiff(ctx context.Context, diff *referee.DiffResult, on string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, v := range VersionsFromDiff(diff, on) {
		if err := insert(ctx, tx, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing versions: %w", err)
	}
	return nil
}

// VersionsFromDiff converts a diff into the versions it records
func VersionsFromDiff(diff *referee.DiffResult, on string) []Version {
	var out []Version
	for _, c := range diff.Changed {
		out = append(out, Version{
			IDNumber:      c.Current.IDNumber,
			RecordedOn:    on,
			Status:        StatusChanged,
			ChangedFields: c.FieldNames(),
			Referee:       *c.Current,
		})
	}
	for _, r := range diff.Added {
		out = append(out, Version{IDNumber: r.IDNumber, RecordedOn: on, Status: StatusAdded, Referee: *r})
	}
	for _, r := range diff.Removed {
		out = append(out, Version{IDNumber: r.IDNumber, RecordedOn: on, Status: StatusRetired, Referee: *r})
	}
	return out
}

// Versions returns every version of a referee, newest first
func (s *Store) Versions(ctx context.Context, idNumber int) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id_number, recorded_on, status, changed_fields, referee
		   FROM versions WHERE id_number = ?
		  ORDER BY recorded_on DESC, id DESC`, idNumber)
	if err != nil {
		return nil, fmt.Errorf("querying versions of %d: %w", idNumber, err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var (
			v       Version
			changed string
			data    string
		)
		if err := rows.Scan(&v.IDNumber, &v.RecordedOn, &v.Status, &changed, &data); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		if changed != "" {
			v.ChangedFields = strings.Split(changed, ",")
		}
		if err := json.Unmarshal([]byte(data), &v.Referee); err != nil {
			return nil, fmt.Errorf("decoding referee %d: %w", idNumber, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
