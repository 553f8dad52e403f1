// Record structures that mirror the on-disk format, and their conversion to
// and from the domain types.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/assistant/pkg/types"
)

// contactRecord is one contact in a contacts store.
type contactRecord struct {
	Kind     string `json:"kind"`
	Name     text   `json:"name"`
	Phones   []text `json:"phones"`
	Address  text   `json:"address,omitempty"`
	Email    text   `json:"email,omitempty"`
	Birthday text   `json:"birthday,omitempty"`
}

// noteRecord is one note in a notes store.
type noteRecord struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
	Text text   `json:"text"`
	Tags []text `json:"tags"`
}

// decodeRecord unmarshals raw into v after applying legacy renames. A record
// without a kind is taken to be of the wanted kind.
func decodeRecord(raw json.RawMessage, want string, v any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	obj, err := legacyNames.apply(obj)
	if err != nil {
		return err
	}
	if k, ok := obj["kind"]; ok {
		var kind string
		if err := json.Unmarshal(k, &kind); err != nil {
			return err
		}
		if kind != want {
			return fmt.Errorf("record kind %q, want %q", kind, want)
		}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func encodeContact(c *types.Contact) (json.RawMessage, error) {
	rec := contactRecord{Kind: kindContact, Name: text(c.Name().String()), Phones: []text{}}
	for _, p := range c.Phones() {
		rec.Phones = append(rec.Phones, text(p.String()))
	}
	if a, ok := c.Address(); ok {
		rec.Address = text(a)
	}
	if e, ok := c.Email(); ok {
		rec.Email = text(e.String())
	}
	if b, ok := c.Birthday(); ok {
		rec.Birthday = text(b.String())
	}
	return json.Marshal(rec)
}

// contactFromRecord rebuilds a contact from rec. Only the name is required:
// a phone, e-mail or birthday that fails validation, or a phone already owned
// by a contact in book, is left out and counted in dropped.
func contactFromRecord(rec contactRecord, book *types.ContactBook) (c *types.Contact, dropped int, err error) {
	name, err := types.NewName(string(rec.Name))
	if err != nil {
		return nil, 0, err
	}
	c = types.NewContact(name)
	for _, raw := range rec.Phones {
		p, err := parseStoredPhone(string(raw))
		if err != nil || book.FindByPhone(p.String()) != nil {
			dropped++
			continue
		}
		if err := c.AddPhone(p); err != nil {
			dropped++
		}
	}
	c.SetAddress(string(rec.Address))
	if rec.Email != "" {
		if e, err := types.NewEmail(string(rec.Email)); err == nil {
			c.SetEmail(e)
		} else {
			dropped++
		}
	}
	if rec.Birthday != "" {
		if b, err := types.NewBirthday(string(rec.Birthday)); err == nil {
			c.SetBirthday(b)
		} else {
			dropped++
		}
	}
	return c, dropped, nil
}

func encodeNote(id int, n *types.Note) (json.RawMessage, error) {
	tags := []text{}
	for _, t := range n.Tags() {
		tags = append(tags, text(t))
	}
	return json.Marshal(noteRecord{Kind: kindNote, ID: id, Text: text(n.Text()), Tags: tags})
}

// decodeContacts builds a book from raw records. Records that fail to decode,
// have no valid name, or repeat an earlier name are skipped. Skipped records
// and fields dropped by contactFromRecord are both counted.
func decodeContacts(records []json.RawMessage) (*types.ContactBook, int) {
	book := types.NewContactBook()
	skipped := 0
	for _, raw := range records {
		var rec contactRecord
		if err := decodeRecord(raw, kindContact, &rec); err != nil {
			skipped++
			continue
		}
		c, dropped, err := contactFromRecord(rec, book)
		if err != nil {
			skipped++
			continue
		}
		skipped += dropped
		if err := book.AddRecord(c); err != nil {
			skipped++
		}
	}
	return book, skipped
}

// decodeNotes builds a note book from raw records, keeping stored ids.
// Records without a usable id are appended with fresh ids after the rest.
func decodeNotes(records []json.RawMessage) (*types.NoteBook, int) {
	book := types.NewNoteBook()
	skipped := 0
	var orphans []*types.Note
	for _, raw := range records {
		var rec noteRecord
		if err := decodeRecord(raw, kindNote, &rec); err != nil {
			skipped++
			continue
		}
		tags := make([]string, 0, len(rec.Tags))
		for _, t := range rec.Tags {
			tags = append(tags, string(t))
		}
		n := types.NewNote(string(rec.Text), tags...)
		if rec.ID < 1 {
			orphans = append(orphans, n)
			continue
		}
		if err := book.Put(rec.ID, n); err != nil {
			skipped++
		}
	}
	for _, n := range orphans {
		book.AddNote(n)
	}
	return book, skipped
}

func encodeContacts(book *types.ContactBook) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, book.Len())
	for _, c := range book.Contacts() {
		rec, err := encodeContact(c)
		if err != nil {
			return nil, fmt.Errorf("encoding contact %q: %w", c.Name(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func encodeNotes(book *types.NoteBook) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, book.Len())
	for _, e := range book.Entries() {
		rec, err := encodeNote(e.ID, e.Note)
		if err != nil {
			return nil, fmt.Errorf("encoding note %d: %w", e.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
