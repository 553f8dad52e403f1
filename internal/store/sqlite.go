package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// sqliteDriver is the database/sql driver name registered by modernc.org/sqlite.
const sqliteDriver = "sqlite"

// recordRow is one row of the records table.
type recordRow struct {
	Position int    `db:"position"`
	Kind     string `db:"kind"`
	Payload  string `db:"payload"`
}

// sqliteFile keeps records in a SQLite database file.
type sqliteFile struct {
	path string
}

// read returns the stored payloads in position order. A missing file reads
// as empty and is not created.
func (f sqliteFile) read() ([]json.RawMessage, int, error) {
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	db, err := openSQLite(f.path)
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()
	return readRecords(db)
}

// write replaces every record and logs the save in the saves table.
func (f sqliteFile) write(records []json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(f.path), err)
	}
	db, err := openSQLite(f.path)
	if err != nil {
		return err
	}
	defer db.Close()
	return writeRecords(db, records, time.Now())
}

// openSQLite opens path and ensures the schema exists.
func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing schema in %s: %w", path, err)
		}
	}
	return db, nil
}

// readRecords loads every payload. Rows whose payload is not valid JSON are
// skipped and counted.
func readRecords(db *sqlx.DB) ([]json.RawMessage, int, error) {
	var rows []recordRow
	if err := db.Select(&rows, selectRecords); err != nil {
		return nil, 0, fmt.Errorf("selecting records: %w", err)
	}
	records := make([]json.RawMessage, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if !json.Valid([]byte(r.Payload)) {
			skipped++
			continue
		}
		records = append(records, json.RawMessage(r.Payload))
	}
	return records, skipped, nil
}

// writeRecords replaces the records table inside one transaction.
func writeRecords(db *sqlx.DB, records []json.RawMessage, now time.Time) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteRecords); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	for i, rec := range records {
		if _, err := tx.Exec(insertRecord, i+1, recordKind(rec), string(rec)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}
	if _, err := tx.Exec(insertSave, newSaveID(), now.UTC().Format(time.RFC3339), len(records)); err != nil {
		return fmt.Errorf("recording save: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// recordKind extracts the kind tag of an encoded record.
func recordKind(rec json.RawMessage) string {
	var head struct {
		Kind string `json:"kind"`
	}
	_ = json.Unmarshal(rec, &head)
	return head.Kind
}

// newSaveID generates a UUID v7 for a save entry.
func newSaveID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
