package types

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// EmptyNoteBookMessage is the rendering of a book with no notes.
const EmptyNoteBookMessage = "No notes."

// KindNote names notes in DuplicateError and NotFoundError.
const KindNote = "note"

// NoteBook stores notes under integer ids allocated by the book. Ids start at 1
// and are never reused, even after the note holding the highest id is deleted.
type NoteBook struct {
	notes  map[int]*Note
	lastID int // Highest id ever issued or restored.
}

// NoteEntry pairs a note with its id.
type NoteEntry struct {
	ID   int
	Note *Note
}

// NewNoteBook returns an empty book.
func NewNoteBook() *NoteBook {
	return &NoteBook{notes: make(map[int]*Note)}
}

// Len returns the number of notes.
func (b *NoteBook) Len() int { return len(b.notes) }

// NextID returns the id the next AddNote will assign.
func (b *NoteBook) NextID() int { return b.lastID + 1 }

// AddNote stores n and returns its newly assigned id.
func (b *NoteBook) AddNote(n *Note) int {
	b.lastID++
	b.notes[b.lastID] = n
	return b.lastID
}

// Put stores n under an explicit id, as when restoring a saved book. It fails
// with a *ValidationError for ids below 1 and a *DuplicateError if id is taken.
func (b *NoteBook) Put(id int, n *Note) error {
	if id < 1 {
		return &ValidationError{Field: "id", Value: strconv.Itoa(id), Reason: "must be positive"}
	}
	if _, ok := b.notes[id]; ok {
		return &DuplicateError{Kind: KindNote, Value: strconv.Itoa(id)}
	}
	b.notes[id] = n
	b.lastID = max(b.lastID, id)
	return nil
}

// Get returns the note with the given id, or a *NotFoundError.
func (b *NoteBook) Get(id int) (*Note, error) {
	n, ok := b.notes[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindNote, Key: strconv.Itoa(id)}
	}
	return n, nil
}

// DeleteNote removes the note with the given id.
func (b *NoteBook) DeleteNote(id int) error {
	if _, err := b.Get(id); err != nil {
		return err
	}
	delete(b.notes, id)
	return nil
}

// EditNote replaces the text of the note with the given id.
func (b *NoteBook) EditNote(id int, text string) error {
	n, err := b.Get(id)
	if err != nil {
		return err
	}
	n.EditText(text)
	return nil
}

// AddTag adds tag to the note with the given id.
func (b *NoteBook) AddTag(id int, tag string) error {
	n, err := b.Get(id)
	if err != nil {
		return err
	}
	n.AddTag(tag)
	return nil
}

// RemoveTag removes tag from the note with the given id.
func (b *NoteBook) RemoveTag(id int, tag string) error {
	n, err := b.Get(id)
	if err != nil {
		return err
	}
	n.RemoveTag(tag)
	return nil
}

// Entries returns every note ordered by id.
func (b *NoteBook) Entries() []NoteEntry {
	return b.collect(func(*Note) bool { return true })
}

// Search returns notes whose text or any tag contains query, ignoring case.
func (b *NoteBook) Search(query string) []NoteEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	return b.collect(func(n *Note) bool { return n.matches(q) })
}

// FilterByTag returns notes carrying exactly tag.
func (b *NoteBook) FilterByTag(tag string) []NoteEntry {
	return b.collect(func(n *Note) bool { return n.HasTag(tag) })
}

func (b *NoteBook) collect(keep func(*Note) bool) []NoteEntry {
	var out []NoteEntry
	for _, id := range slices.Sorted(maps.Keys(b.notes)) {
		if n := b.notes[id]; keep(n) {
			out = append(out, NoteEntry{ID: id, Note: n})
		}
	}
	return out
}

// FormatEntries renders entries as "id. note" lines.
func FormatEntries(entries []NoteEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = strconv.Itoa(e.ID) + ". " + e.Note.String()
	}
	return strings.Join(lines, "\n")
}

// String lists every note ordered by id.
func (b *NoteBook) String() string {
	if len(b.notes) == 0 {
		return EmptyNoteBookMessage
	}
	return FormatEntries(b.Entries())
}
