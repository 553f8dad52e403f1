package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/assistant/internal/logger"
	"github.com/mesh-intelligence/assistant/internal/store"
	"github.com/mesh-intelligence/assistant/pkg/types"
)

// Prompt precedes every interactive input line.
const Prompt = ">>> "

// ErrUnknownCommand marks input whose keyword is not a command.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError reports an unrecognized keyword.
type UnknownCommandError struct {
	Input      string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown command %q, did you mean %q?", e.Input, e.Suggestion)
	}
	return fmt.Sprintf("unknown command %q, type \"help\" for the list of commands", e.Input)
}

// Is reports whether target is ErrUnknownCommand.
func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

// IsUserError reports whether err was caused by the input rather than by the
// environment.
func IsUserError(err error) bool {
	return errors.Is(err, types.ErrValidation) ||
		errors.Is(err, types.ErrDuplicate) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnterminatedQuote)
}

// Locations names the files a session saves to, for the user's benefit.
type Locations struct {
	Contacts string
	Notes    string
}

// Options configures NewSession. Contacts and Notes default to empty books,
// Log to a no-op logger, Out to io.Discard, and Now to time.Now.
type Options struct {
	Contacts  *types.ContactBook
	Notes     *types.NoteBook
	Store     store.Store
	Locations Locations
	Log       *logger.Logger
	Out       io.Writer
	Now       func() time.Time
}

// Session holds the books for one run of the assistant and writes command
// output to Out. A Session is not safe for concurrent use.
type Session struct {
	contacts  *types.ContactBook
	notes     *types.NoteBook
	store     store.Store
	locations Locations
	log       *logger.Logger
	out       io.Writer
	now       func() time.Time
}

// NewSession returns a Session over opts.
func NewSession(opts Options) *Session {
	s := &Session{
		contacts:  opts.Contacts,
		notes:     opts.Notes,
		store:     opts.Store,
		locations: opts.Locations,
		log:       opts.Log,
		out:       opts.Out,
		now:       opts.Now,
	}
	if s.contacts == nil {
		s.contacts = types.NewContactBook()
	}
	if s.notes == nil {
		s.notes = types.NewNoteBook()
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With("session", newSessionID())
	return s
}

// Contacts returns the session's contact book.
func (s *Session) Contacts() *types.ContactBook { return s.contacts }

// Notes returns the session's note book.
func (s *Session) Notes() *types.NoteBook { return s.notes }

// Run reads commands from in until exit, end of input, or ctx is done, then
// saves. Command errors are printed and the loop continues.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, Greeting)
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		quit, err := s.Handle(scanner.Text())
		if err != nil {
			s.report(err)
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Error("reading input", "err", err)
	}
	if err := s.Save(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

// Handle parses and executes one line, saving both books if it changed them.
// It reports quit for exit and close.
func (s *Session) Handle(line string) (quit bool, err error) {
	cmd, err := Parse(line)
	if err != nil {
		return false, err
	}
	return s.dispatch(cmd)
}

// HandleArgs is Handle for a line already split into words.
func (s *Session) HandleArgs(args []string) (quit bool, err error) {
	cmd, err := ParseArgs(args)
	if err != nil {
		return false, err
	}
	return s.dispatch(cmd)
}

func (s *Session) dispatch(cmd Command) (quit bool, err error) {
	if cmd == nil {
		return false, nil
	}
	if _, ok := cmd.(Exit); ok {
		return true, nil
	}
	changed, err := s.Execute(cmd)
	if err != nil {
		return false, err
	}
	if changed {
		return false, s.Save()
	}
	return false, nil
}

// Save writes both books and prints where they were written.
func (s *Session) Save() error {
	if s.store == nil {
		return nil
	}
	if err := store.SaveAll(s.store, s.contacts, s.notes); err != nil {
		s.log.Error("saving stores", "err", err)
		return err
	}
	s.log.Debug("stores saved", "contacts", s.contacts.Len(), "notes", s.notes.Len())
	if s.locations != (Locations{}) {
		fmt.Fprintln(s.out, "Data saved:")
		fmt.Fprintf(s.out, "  contacts: %s\n", s.locations.Contacts)
		fmt.Fprintf(s.out, "  notes:    %s\n", s.locations.Notes)
	}
	return nil
}

func (s *Session) report(err error) {
	if IsUserError(err) {
		s.log.Debug("command rejected", "err", err)
	} else {
		s.log.Error("command failed", "err", err)
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func (s *Session) println(a ...any) { fmt.Fprintln(s.out, a...) }

// Execute runs cmd against the books and reports whether it changed them. It
// does not save.
func (s *Session) Execute(cmd Command) (changed bool, err error) {
	switch c := cmd.(type) {
	case AddContact:
		return s.addContact(c)
	case AddPhone:
		return s.mutate(s.contacts.AddPhone(c.Name, c.Phone), "Phone added.")
	case AddAddress:
		return s.mutate(s.contacts.SetAddress(c.Name, c.Address), "Address saved.")
	case SetEmail:
		return s.mutate(s.contacts.SetEmail(c.Name, c.Email), "E-mail saved.")
	case AddBirthday:
		return s.mutate(s.contacts.SetBirthday(c.Name, c.Birthday), "Birthday saved.")
	case EditPhone:
		return s.mutate(s.contacts.EditPhone(c.Name, c.Old, c.New), "Phone changed.")
	case RemovePhone:
		return s.mutate(s.contacts.RemovePhone(c.Name, c.Phone), "Phone removed.")
	case DeleteContact:
		return s.mutate(s.contacts.DeleteRecord(c.Name), "Contact deleted.")
	case ShowAll:
		s.println(s.contacts)
		return false, nil
	case ShowContact:
		contact, err := s.contacts.Get(c.Name)
		if err != nil {
			return false, err
		}
		s.println(contact)
		return false, nil
	case FindContacts:
		s.showContacts(s.contacts.Search(c.Query))
		return false, nil
	case Birthdays:
		s.showBirthdays(c.Days)
		return false, nil
	case AddNote:
		id := s.notes.AddNote(types.NewNote(c.Text, c.Tags...))
		s.println(fmt.Sprintf("Note #%d saved.", id))
		return true, nil
	case EditNote:
		return s.mutate(s.notes.EditNote(c.ID, c.Text), fmt.Sprintf("Note #%d updated.", c.ID))
	case DeleteNote:
		return s.mutate(s.notes.DeleteNote(c.ID), fmt.Sprintf("Note #%d deleted.", c.ID))
	case AddTag:
		if strings.TrimSpace(c.Tag) == "" {
			return false, &types.ValidationError{Field: types.FieldTag, Reason: "must not be empty"}
		}
		return s.mutate(s.notes.AddTag(c.ID, c.Tag), "Tag added.")
	case RemoveTag:
		return s.removeTag(c)
	case FindNotes:
		s.showNotes(s.notes.Search(c.Query), "No notes found.")
		return false, nil
	case ShowNotes:
		s.println(s.notes)
		return false, nil
	case ShowNotesByTag:
		s.showNotes(s.notes.FilterByTag(c.Tag), fmt.Sprintf("No notes tagged %q.", c.Tag))
		return false, nil
	case Help:
		return false, writeHelp(s.out)
	case Exit:
		return false, nil
	case Unknown:
		return false, &UnknownCommandError{Input: c.Input, Suggestion: c.Suggestion}
	default:
		return false, fmt.Errorf("unhandled command %T", cmd)
	}
}

// mutate prints ok when err is nil and reports the books as changed.
func (s *Session) mutate(err error, ok string) (bool, error) {
	if err != nil {
		return false, err
	}
	s.println(ok)
	return true, nil
}

func (s *Session) addContact(c AddContact) (bool, error) {
	name, err := types.NewName(c.Name)
	if err != nil {
		return false, err
	}
	contact := types.NewContact(name)
	for _, raw := range c.Phones {
		p, err := types.NewPhone(raw)
		if err != nil {
			return false, err
		}
		if err := contact.AddPhone(p); err != nil {
			return false, err
		}
	}
	return s.mutate(s.contacts.AddRecord(contact), "Contact added.")
}

func (s *Session) removeTag(c RemoveTag) (bool, error) {
	n, err := s.notes.Get(c.ID)
	if err != nil {
		return false, err
	}
	if !n.HasTag(c.Tag) {
		return false, &types.NotFoundError{Kind: types.FieldTag, Key: c.Tag}
	}
	return s.mutate(s.notes.RemoveTag(c.ID, c.Tag), "Tag removed.")
}

func (s *Session) showContacts(found []*types.Contact) {
	if len(found) == 0 {
		s.println("No contacts found.")
		return
	}
	for _, c := range found {
		s.println(c)
	}
}

func (s *Session) showBirthdays(days int) {
	upcoming := s.contacts.BirthdaysWithin(s.now(), days)
	if len(upcoming) == 0 {
		s.println(fmt.Sprintf("No birthdays in the next %d days.", max(days, 0)))
		return
	}
	for _, u := range upcoming {
		switch u.Days {
		case 0:
			s.println(fmt.Sprintf("%s: today (%s)", u.Contact.Name(), u.Date.Format("02.01")))
		case 1:
			s.println(fmt.Sprintf("%s: tomorrow (%s)", u.Contact.Name(), u.Date.Format("02.01")))
		default:
			s.println(fmt.Sprintf("%s: in %d days (%s)", u.Contact.Name(), u.Days, u.Date.Format("02.01")))
		}
	}
}

func (s *Session) showNotes(entries []types.NoteEntry, none string) {
	if len(entries) == 0 {
		s.println(none)
		return
	}
	s.println(types.FormatEntries(entries))
}

// newSessionID tags log entries from one run.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
