// Package repl implements the interactive command layer: it decodes input
// lines into typed commands and executes them against the contact and note
// books.
package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command is one decoded input line. The concrete types below are the only
// implementations.
type Command interface {
	isCommand()
}

// Command variants, one per keyword. Arguments are kept as typed by the user
// except where a number is expected.
type (
	AddContact struct {
		Name   string
		Phones []string
	}
	AddPhone struct {
		Name, Phone string
	}
	AddAddress struct {
		Name, Address string
	}
	SetEmail struct {
		Name, Email string
	}
	AddBirthday struct {
		Name, Birthday string
	}
	EditPhone struct {
		Name, Old, New string
	}
	RemovePhone struct {
		Name, Phone string
	}
	DeleteContact struct {
		Name string
	}
	ShowAll     struct{}
	ShowContact struct {
		Name string
	}
	FindContacts struct {
		Query string
	}
	Birthdays struct {
		Days int
	}
	AddNote struct {
		Text string
		Tags []string
	}
	EditNote struct {
		ID   int
		Text string
	}
	DeleteNote struct {
		ID int
	}
	AddTag struct {
		ID  int
		Tag string
	}
	RemoveTag struct {
		ID  int
		Tag string
	}
	FindNotes struct {
		Query string
	}
	ShowNotes      struct{}
	ShowNotesByTag struct {
		Tag string
	}
	Help struct{}
	Exit struct{}
	// Unknown is an unrecognized keyword, with the closest known one if any.
	Unknown struct {
		Input      string
		Suggestion string
	}
)

func (AddContact) isCommand()     {}
func (AddPhone) isCommand()       {}
func (AddAddress) isCommand()     {}
func (SetEmail) isCommand()       {}
func (AddBirthday) isCommand()    {}
func (EditPhone) isCommand()      {}
func (RemovePhone) isCommand()    {}
func (DeleteContact) isCommand()  {}
func (ShowAll) isCommand()        {}
func (ShowContact) isCommand()    {}
func (FindContacts) isCommand()   {}
func (Birthdays) isCommand()      {}
func (AddNote) isCommand()        {}
func (EditNote) isCommand()       {}
func (DeleteNote) isCommand()     {}
func (AddTag) isCommand()         {}
func (RemoveTag) isCommand()      {}
func (FindNotes) isCommand()      {}
func (ShowNotes) isCommand()      {}
func (ShowNotesByTag) isCommand() {}
func (Help) isCommand()           {}
func (Exit) isCommand()           {}
func (Unknown) isCommand()        {}

// ErrUsage marks input whose arguments do not fit the command.
var ErrUsage = errors.New("usage")

// UsageError reports bad arguments for a known command.
type UsageError struct {
	Keyword string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s\nusage: %s", e.Keyword, e.Reason, e.Usage)
	}
	return "usage: " + e.Usage
}

// Is reports whether target is ErrUsage.
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// entry describes one keyword: its argument shape and how to build the command.
type entry struct {
	keyword string
	args    string // Argument synopsis shown in help and usage errors.
	summary string
	minArgs int
	maxArgs int // -1 for no limit.
	build   func(args []string) (Command, error)
}

func (s entry) usage() string {
	if s.args == "" {
		return s.keyword
	}
	return s.keyword + " " + s.args
}

// entries lists every command in help order.
var entries = []entry{
	{"add", "<name> [phone...]", "Create a contact; the name must be unique.", 1, -1,
		func(a []string) (Command, error) { return AddContact{Name: a[0], Phones: a[1:]}, nil }},
	{"add-phone", "<name> <phone>", "Add a phone number to a contact.", 2, 2,
		func(a []string) (Command, error) { return AddPhone{Name: a[0], Phone: a[1]}, nil }},
	{"add-address", "<name> <address...>", "Add or replace a contact's address.", 2, -1,
		func(a []string) (Command, error) { return AddAddress{Name: a[0], Address: strings.Join(a[1:], " ")}, nil }},
	{"email", "<name> <email>", "Add or replace a contact's e-mail.", 2, 2,
		func(a []string) (Command, error) { return SetEmail{Name: a[0], Email: a[1]}, nil }},
	{"add-birthday", "<name> <DD.MM.YYYY>", "Add or replace a contact's birthday.", 2, 2,
		func(a []string) (Command, error) { return AddBirthday{Name: a[0], Birthday: a[1]}, nil }},
	{"edit-phone", "<name> <old> <new>", "Change a phone number; the new one must be unused.", 3, 3,
		func(a []string) (Command, error) { return EditPhone{Name: a[0], Old: a[1], New: a[2]}, nil }},
	{"remove-phone", "<name> <phone>", "Remove a phone number from a contact.", 2, 2,
		func(a []string) (Command, error) { return RemovePhone{Name: a[0], Phone: a[1]}, nil }},
	{"delete", "<name>", "Delete a contact.", 1, 1,
		func(a []string) (Command, error) { return DeleteContact{Name: a[0]}, nil }},
	{"show", "", "Show all contacts.", 0, 0,
		func([]string) (Command, error) { return ShowAll{}, nil }},
	{"show-contact", "<name>", "Show one contact.", 1, 1,
		func(a []string) (Command, error) { return ShowContact{Name: a[0]}, nil }},
	{"find", "<query...>", "Search contacts by name, phone, e-mail, or address.", 1, -1,
		func(a []string) (Command, error) { return FindContacts{Query: strings.Join(a, " ")}, nil }},
	{"birthdays", "<days>", "List birthdays in the next N days.", 1, 1, parseBirthdays},
	{"add-note", "<text> [tags]", "Add a note; tags are comma-separated.", 1, 2, parseAddNote},
	{"edit-note", "<id> <text...>", "Replace a note's text.", 2, -1,
		func(a []string) (Command, error) {
			id, err := parseID(a[0])
			return EditNote{ID: id, Text: strings.Join(a[1:], " ")}, err
		}},
	{"delete-note", "<id>", "Delete a note.", 1, 1,
		func(a []string) (Command, error) {
			id, err := parseID(a[0])
			return DeleteNote{ID: id}, err
		}},
	{"add-tag", "<id> <tag>", "Add a tag to a note.", 2, 2,
		func(a []string) (Command, error) {
			id, err := parseID(a[0])
			return AddTag{ID: id, Tag: a[1]}, err
		}},
	{"remove-tag", "<id> <tag>", "Remove a tag from a note.", 2, 2,
		func(a []string) (Command, error) {
			id, err := parseID(a[0])
			return RemoveTag{ID: id, Tag: a[1]}, err
		}},
	{"find-note", "<query...>", "Search notes by text or tag.", 1, -1,
		func(a []string) (Command, error) { return FindNotes{Query: strings.Join(a, " ")}, nil }},
	{"show-notes", "", "Show all notes.", 0, 0,
		func([]string) (Command, error) { return ShowNotes{}, nil }},
	{"show-notes-by-tag", "<tag>", "Show notes carrying a tag.", 1, 1,
		func(a []string) (Command, error) { return ShowNotesByTag{Tag: a[0]}, nil }},
	{"help", "", "Show this list.", 0, -1,
		func([]string) (Command, error) { return Help{}, nil }},
	{"exit", "", "Save and quit.", 0, -1,
		func([]string) (Command, error) { return Exit{}, nil }},
	{"close", "", "Save and quit.", 0, -1,
		func([]string) (Command, error) { return Exit{}, nil }},
}

var entriesByKeyword = func() map[string]entry {
	m := make(map[string]entry, len(entries))
	for _, s := range entries {
		m[s.keyword] = s
	}
	return m
}()

// Keywords returns every command keyword in help order.
func Keywords() []string {
	out := make([]string, len(entries))
	for i, s := range entries {
		out[i] = s.keyword
	}
	return out
}

// Parse tokenizes line and decodes it. A blank line yields a nil Command and a
// nil error.
func Parse(line string) (Command, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return ParseArgs(tokens)
}

// ParseArgs decodes an already split command line. The keyword is matched
// case-insensitively; arguments are passed through as given.
func ParseArgs(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	keyword := strings.ToLower(strings.TrimSpace(tokens[0]))
	s, ok := entriesByKeyword[keyword]
	if !ok {
		return Unknown{Input: tokens[0], Suggestion: Suggest(keyword)}, nil
	}
	args := tokens[1:]
	if len(args) < s.minArgs || (s.maxArgs >= 0 && len(args) > s.maxArgs) {
		return nil, &UsageError{Keyword: s.keyword, Usage: s.usage()}
	}
	cmd, err := s.build(args)
	if err != nil {
		return nil, &UsageError{Keyword: s.keyword, Usage: s.usage(), Reason: err.Error()}
	}
	return cmd, nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("note id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func parseBirthdays(a []string) (Command, error) {
	days, err := strconv.Atoi(strings.TrimSpace(a[0]))
	if err != nil {
		return nil, fmt.Errorf("days must be an integer, got %q", a[0])
	}
	return Birthdays{Days: days}, nil
}

func parseAddNote(a []string) (Command, error) {
	cmd := AddNote{Text: a[0]}
	if strings.TrimSpace(a[0]) == "" {
		return nil, errors.New("note text must not be empty")
	}
	if len(a) == 2 {
		for _, t := range strings.Split(a[1], ",") {
			if t = strings.TrimSpace(t); t != "" {
				cmd.Tags = append(cmd.Tags, t)
			}
		}
	}
	return cmd, nil
}
