package store

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/assistant/internal/logger"
	"github.com/mesh-intelligence/assistant/pkg/types"
)

// Store loads and saves the two collections. Load methods always return a
// usable collection; a non-nil error describes what could not be loaded.
type Store interface {
	LoadContacts() (*types.ContactBook, error)
	SaveContacts(*types.ContactBook) error
	LoadNotes() (*types.NoteBook, error)
	SaveNotes(*types.NoteBook) error
}

// LoadError reports a store that was read only partially, or not at all.
type LoadError struct {
	Path    string
	Skipped int   // Records and fields dropped as malformed, invalid, or colliding.
	Err     error // Set when the store could not be read; the collection is then empty.
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load %s: skipped %d unreadable records or fields", e.Path, e.Skipped)
}

func (e *LoadError) Unwrap() error { return e.Err }

// recordFile is a backend holding one store's records in order.
type recordFile interface {
	read() ([]json.RawMessage, int, error)
	write([]json.RawMessage) error
}

// fileStore implements Store over two record files.
type fileStore struct {
	contactsPath string
	notesPath    string
	contacts     recordFile
	notes        recordFile
}

var _ Store = (*fileStore)(nil)

// New returns the Store described by cfg.
func New(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &fileStore{contactsPath: cfg.ContactsPath, notesPath: cfg.NotesPath}
	switch cfg.Backend {
	case BackendJSONL:
		s.contacts = jsonlFile{path: cfg.ContactsPath}
		s.notes = jsonlFile{path: cfg.NotesPath}
	case BackendSQLite:
		s.contacts = sqliteFile{path: cfg.ContactsPath}
		s.notes = sqliteFile{path: cfg.NotesPath}
	}
	return s, nil
}

// LoadContacts reads the contacts store.
func (s *fileStore) LoadContacts() (*types.ContactBook, error) {
	records, malformed, err := s.contacts.read()
	if err != nil {
		return types.NewContactBook(), &LoadError{Path: s.contactsPath, Err: err}
	}
	book, invalid := decodeContacts(records)
	if n := malformed + invalid; n > 0 {
		return book, &LoadError{Path: s.contactsPath, Skipped: n}
	}
	return book, nil
}

// SaveContacts replaces the contacts store with book.
func (s *fileStore) SaveContacts(book *types.ContactBook) error {
	records, err := encodeContacts(book)
	if err != nil {
		return err
	}
	if err := s.contacts.write(records); err != nil {
		return fmt.Errorf("save %s: %w", s.contactsPath, err)
	}
	return nil
}

// LoadNotes reads the notes store.
func (s *fileStore) LoadNotes() (*types.NoteBook, error) {
	records, malformed, err := s.notes.read()
	if err != nil {
		return types.NewNoteBook(), &LoadError{Path: s.notesPath, Err: err}
	}
	book, invalid := decodeNotes(records)
	if n := malformed + invalid; n > 0 {
		return book, &LoadError{Path: s.notesPath, Skipped: n}
	}
	return book, nil
}

// SaveNotes replaces the notes store with book.
func (s *fileStore) SaveNotes(book *types.NoteBook) error {
	records, err := encodeNotes(book)
	if err != nil {
		return err
	}
	if err := s.notes.write(records); err != nil {
		return fmt.Errorf("save %s: %w", s.notesPath, err)
	}
	return nil
}

// LoadOrEmpty loads both collections. A store that cannot be read yields an
// empty collection; every problem is logged and returned so the caller can
// tell the user.
func LoadOrEmpty(st Store, log *logger.Logger) (*types.ContactBook, *types.NoteBook, []error) {
	var warnings []error

	contacts, err := st.LoadContacts()
	if err != nil {
		log.Warn("contacts store loaded with problems", "err", err)
		warnings = append(warnings, err)
	}
	if contacts == nil {
		contacts = types.NewContactBook()
	}

	notes, err := st.LoadNotes()
	if err != nil {
		log.Warn("notes store loaded with problems", "err", err)
		warnings = append(warnings, err)
	}
	if notes == nil {
		notes = types.NewNoteBook()
	}

	log.Debug("stores loaded", "contacts", contacts.Len(), "notes", notes.Len())
	return contacts, notes, warnings
}

// SaveAll writes both collections, returning the first error.
func SaveAll(st Store, contacts *types.ContactBook, notes *types.NoteBook) error {
	if err := st.SaveContacts(contacts); err != nil {
		return err
	}
	return st.SaveNotes(notes)
}
