// Package store persists the contact book and the note book between sessions.
//
// Each collection lives in its own store file. Records are JSON objects that
// pass through a legacy rename table on decode, so data written under an older
// naming scheme still loads. Two backends hold the records: JSONL files written
// atomically, and SQLite databases.
package store

import (
	"errors"
	"fmt"
)

// Supported backend names.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrPathEmpty      = errors.New("store path must not be empty")
)

// Config selects the backend and the two store locations. It is built once at
// startup and passed to New.
type Config struct {
	Backend      string `json:"backend" yaml:"backend"`
	ContactsPath string `json:"contacts_path" yaml:"contacts_path"`
	NotesPath    string `json:"notes_path" yaml:"notes_path"`
}

// knownBackends maps backend names to their store file extensions.
var knownBackends = map[string]string{
	BackendJSONL:  "jsonl",
	BackendSQLite: "db",
}

// Extension returns the file extension used by backend.
func Extension(backend string) (string, error) {
	if backend == "" {
		return "", ErrBackendEmpty
	}
	ext, ok := knownBackends[backend]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBackendUnknown, backend)
	}
	return ext, nil
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if _, err := Extension(c.Backend); err != nil {
		return err
	}
	if c.ContactsPath == "" || c.NotesPath == "" {
		return ErrPathEmpty
	}
	return nil
}
