package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/assistant/internal/store"
	"github.com/mesh-intelligence/assistant/pkg/types"
)

var testNow = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

// memStore counts saves and can be told to fail.
type memStore struct {
	contactSaves int
	noteSaves    int
	failSave     error
}

func (m *memStore) LoadContacts() (*types.ContactBook, error) { return types.NewContactBook(), nil }
func (m *memStore) LoadNotes() (*types.NoteBook, error)       { return types.NewNoteBook(), nil }

func (m *memStore) SaveContacts(*types.ContactBook) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.contactSaves++
	return nil
}

func (m *memStore) SaveNotes(*types.NoteBook) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.noteSaves++
	return nil
}

func newTestSession(t *testing.T) (*Session, *memStore, *bytes.Buffer) {
	t.Helper()
	st := &memStore{}
	out := &bytes.Buffer{}
	s := NewSession(Options{
		Store: st,
		Out:   out,
		Now:   func() time.Time { return testNow },
	})
	return s, st, out
}

// run feeds lines to Handle and fails the test on any error.
func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		_, err := s.Handle(line)
		require.NoError(t, err, line)
	}
}

func TestSessionContactCommands(t *testing.T) {
	s, st, out := newTestSession(t)

	run(t, s,
		"add Ann +380671112233",
		"add-phone Ann +380501234567",
		`add-address Ann Kyiv, Khreshchatyk 1`,
		"email Ann ann@example.com",
		"add-birthday Ann 15.06.1990",
		"add Bob",
	)
	assert.Equal(t, 6, st.contactSaves, "every mutation is checkpointed")
	assert.Equal(t, 6, st.noteSaves)

	ann, err := s.Contacts().Get("Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann | phones: +380671112233, +380501234567 | email: ann@example.com | address: Kyiv, Khreshchatyk 1 | birthday: 15.06.1990", ann.String())

	out.Reset()
	run(t, s, "show")
	assert.Equal(t, ann.String()+"\nBob | phones: - | email: - | address: - | birthday: -\n", out.String())
	assert.Equal(t, 6, st.contactSaves, "queries do not save")

	run(t, s, "edit-phone Ann +380501234567 +380939998877", "remove-phone Ann +380671112233")
	ann, _ = s.Contacts().Get("Ann")
	assert.Equal(t, []types.Phone{mustPhone(t, "+380939998877")}, ann.Phones())

	out.Reset()
	run(t, s, "find KHRESH")
	assert.Contains(t, out.String(), "Ann | phones")
	assert.NotContains(t, out.String(), "Bob")

	out.Reset()
	run(t, s, "find nobody")
	assert.Equal(t, "No contacts found.\n", out.String())

	run(t, s, "delete Bob")
	assert.False(t, s.Contacts().Has("Bob"))
}

func mustPhone(t *testing.T, raw string) types.Phone {
	t.Helper()
	p, err := types.NewPhone(raw)
	require.NoError(t, err)
	return p
}

func TestSessionContactErrors(t *testing.T) {
	s, st, _ := newTestSession(t)
	run(t, s, "add Ann +380671112233", "add Bob +380501234567")
	saves := st.contactSaves

	tests := []struct {
		line   string
		target error
	}{
		{"add Ann", types.ErrDuplicate},
		{"add Cat +380671112233", types.ErrDuplicate},
		{"add Cat 12345", types.ErrValidation},
		{"add Cat +380931112233 +380931112233", types.ErrDuplicate},
		{"add-phone Bob +380671112233", types.ErrDuplicate},
		{"add-phone Zed +380931112233", types.ErrNotFound},
		{"email Ann not-an-email", types.ErrValidation},
		{"add-birthday Ann 31.02.1990", types.ErrValidation},
		{"add-birthday Ann 1990-06-15", types.ErrValidation},
		{"edit-phone Ann +380000000000 +380931112233", types.ErrNotFound},
		{"edit-phone Ann +380671112233 +380501234567", types.ErrDuplicate},
		{"edit-phone Ann +380671112233 bad", types.ErrValidation},
		{"delete Zed", types.ErrNotFound},
		{"show-contact Zed", types.ErrNotFound},
		{"add-phone Ann", ErrUsage},
		{"shw", ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := s.Handle(tt.line)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, IsUserError(err))
		})
	}
	assert.Equal(t, saves, st.contactSaves, "failed commands do not save")
	assert.Equal(t, 2, s.Contacts().Len())
}

func TestSessionUnknownCommandSuggests(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Handle("shw")
	assert.EqualError(t, err, `unknown command "shw", did you mean "show"?`)

	_, err = s.Handle("frobnicate")
	assert.EqualError(t, err, `unknown command "frobnicate", type "help" for the list of commands`)
}

func TestSessionBirthdays(t *testing.T) {
	s, _, out := newTestSession(t)
	run(t, s,
		"add Ann", "add-birthday Ann 10.06.1990",
		"add bob", "add-birthday bob 12.06.1985",
		"add Al", "add-birthday Al 12.06.2000",
		"add Eve", "add-birthday Eve 11.06.1999",
		"add Max", "add-birthday Max 20.06.1980",
	)

	out.Reset()
	run(t, s, "birthdays 2")
	assert.Equal(t, strings.Join([]string{
		"Ann: today (10.06)",
		"Eve: tomorrow (11.06)",
		"Al: in 2 days (12.06)",
		"bob: in 2 days (12.06)",
	}, "\n")+"\n", out.String())

	out.Reset()
	run(t, s, "birthdays -3")
	assert.Equal(t, "No birthdays in the next 0 days.\n", out.String())
}

func TestSessionNoteCommands(t *testing.T) {
	s, st, out := newTestSession(t)

	run(t, s, `add-note "buy milk" "home, shop"`)
	assert.Equal(t, "Note #1 saved.\n", out.String())
	run(t, s, `add-note "call Ann"`, `add-note "fix #3" work`)
	assert.Equal(t, 3, st.noteSaves)

	out.Reset()
	run(t, s, "show-notes")
	assert.Equal(t, "1. buy milk | tags: home, shop\n2. call Ann\n3. fix #3 | tags: work\n", out.String())

	run(t, s, "edit-note 2 call Ann tomorrow", "add-tag 2 phone", "remove-tag 1 shop", "delete-note 3")

	out.Reset()
	run(t, s, "show-notes")
	assert.Equal(t, "1. buy milk | tags: home\n2. call Ann tomorrow | tags: phone\n", out.String())

	out.Reset()
	run(t, s, `add-note "new one"`)
	assert.Equal(t, "Note #4 saved.\n", out.String(), "ids are not reused")

	out.Reset()
	run(t, s, "find-note PHONE")
	assert.Equal(t, "2. call Ann tomorrow | tags: phone\n", out.String())

	out.Reset()
	run(t, s, "show-notes-by-tag home")
	assert.Equal(t, "1. buy milk | tags: home\n", out.String())

	out.Reset()
	run(t, s, "show-notes-by-tag nothing", "find-note zzz")
	assert.Equal(t, "No notes tagged \"nothing\".\nNo notes found.\n", out.String())

	out.Reset()
	run(t, s, "add-note Don't forget")
	assert.Equal(t, "Note #5 saved.\n", out.String())
	out.Reset()
	run(t, s, "find-note DON'T")
	assert.Equal(t, "5. Don't | tags: forget\n", out.String())

	run(t, s, "add Мар'яна", "add-address Мар'яна O'Connell street 5")
	c, err := s.Contacts().Get("Мар'яна")
	require.NoError(t, err)
	addr, ok := c.Address()
	require.True(t, ok)
	assert.Equal(t, "O'Connell street 5", addr)
}

func TestSessionNoteErrors(t *testing.T) {
	s, _, _ := newTestSession(t)
	run(t, s, `add-note "one" a`)

	tests := []struct {
		line   string
		target error
	}{
		{"edit-note 9 text", types.ErrNotFound},
		{"delete-note 9", types.ErrNotFound},
		{"add-tag 9 x", types.ErrNotFound},
		{`add-tag 1 "  "`, types.ErrValidation},
		{"remove-tag 1 b", types.ErrNotFound},
		{"remove-tag 9 a", types.ErrNotFound},
		{"delete-note one", ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := s.Handle(tt.line)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestSessionHelpListsEveryCommand(t *testing.T) {
	s, st, out := newTestSession(t)
	quit, err := s.Handle("help")
	require.NoError(t, err)
	assert.False(t, quit)
	for _, kw := range Keywords() {
		assert.Contains(t, out.String(), kw)
	}
	assert.Equal(t, 0, st.contactSaves)
}

func TestSessionExit(t *testing.T) {
	for _, line := range []string{"exit", "close", "  EXIT  "} {
		s, _, _ := newTestSession(t)
		quit, err := s.Handle(line)
		require.NoError(t, err)
		assert.True(t, quit, line)
	}
}

func TestSessionSaveFailureIsSystemError(t *testing.T) {
	s, st, _ := newTestSession(t)
	st.failSave = errors.New("disk full")

	_, err := s.Handle("add Ann")
	require.Error(t, err)
	assert.False(t, IsUserError(err))
	assert.True(t, s.Contacts().Has("Ann"), "the change stays in memory")
}

func TestSessionRunSavesOnExit(t *testing.T) {
	dir := t.TempDir()
	cfg := store.Config{
		Backend:      store.BackendJSONL,
		ContactsPath: filepath.Join(dir, "contacts.jsonl"),
		NotesPath:    filepath.Join(dir, "notes.jsonl"),
	}
	st, err := store.New(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	s := NewSession(Options{
		Store:     st,
		Locations: Locations{Contacts: cfg.ContactsPath, Notes: cfg.NotesPath},
		Out:       out,
		Now:       func() time.Time { return testNow },
	})
	input := strings.Join([]string{
		"add Ann +380671112233",
		"",
		"oops",
		`add-note "remember this" x`,
		"exit",
		"add Bob",
	}, "\n")
	require.NoError(t, s.Run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, Greeting+"\n"+Prompt))
	assert.Contains(t, text, `error: unknown command "oops"`)
	assert.Contains(t, text, "contacts: "+cfg.ContactsPath)
	assert.True(t, strings.HasSuffix(text, "Goodbye!\n"))

	contacts, err := st.LoadContacts()
	require.NoError(t, err)
	assert.True(t, contacts.Has("Ann"))
	assert.False(t, contacts.Has("Bob"), "input after exit is ignored")

	notes, err := st.LoadNotes()
	require.NoError(t, err)
	assert.Equal(t, "1. remember this | tags: x", notes.String())
}

func TestSessionRunEndOfInput(t *testing.T) {
	s, st, out := newTestSession(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("add Ann")))
	assert.Equal(t, 2, st.contactSaves, "one checkpoint and one final save")
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

func TestSessionRunCancelled(t *testing.T) {
	s, st, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx, strings.NewReader("add Ann\n")))
	assert.False(t, s.Contacts().Has("Ann"))
	assert.Equal(t, 1, st.contactSaves)
}

func TestSessionHandleArgs(t *testing.T) {
	s, st, out := newTestSession(t)

	quit, err := s.HandleArgs([]string{"add", "Ann Lee", "+380671112233"})
	require.NoError(t, err)
	assert.False(t, quit)
	assert.True(t, s.Contacts().Has("Ann Lee"))
	assert.Equal(t, 1, st.contactSaves)

	out.Reset()
	_, err = s.HandleArgs([]string{"birthdays", "-1"})
	require.NoError(t, err)
	assert.Equal(t, "No birthdays in the next 0 days.\n", out.String())

	quit, err = s.HandleArgs(nil)
	assert.NoError(t, err)
	assert.False(t, quit)
}
