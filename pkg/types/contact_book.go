package types

import (
	"slices"
	"strings"
	"time"
)

// EmptyContactBookMessage is the rendering of a book with no contacts.
const EmptyContactBookMessage = "Address book is empty."

// KindContact names contacts in DuplicateError and NotFoundError.
const KindContact = "contact"

// ContactBook stores contacts keyed by name. No phone number appears in more
// than one contact. Iteration follows insertion order.
type ContactBook struct {
	contacts map[string]*Contact
	order    []string
}

// UpcomingBirthday is one result of ContactBook.BirthdaysWithin.
type UpcomingBirthday struct {
	Contact *Contact
	Date    time.Time // Next occurrence, midnight UTC.
	Days    int       // Days from today until Date.
}

// NewContactBook returns an empty book.
func NewContactBook() *ContactBook {
	return &ContactBook{contacts: make(map[string]*Contact)}
}

// Len returns the number of contacts.
func (b *ContactBook) Len() int { return len(b.order) }

// Has reports whether a contact named name exists.
func (b *ContactBook) Has(name string) bool {
	_, ok := b.contacts[strings.TrimSpace(name)]
	return ok
}

// Get returns the contact named name, or a *NotFoundError.
func (b *ContactBook) Get(name string) (*Contact, error) {
	key := strings.TrimSpace(name)
	c, ok := b.contacts[key]
	if !ok {
		return nil, &NotFoundError{Kind: KindContact, Key: key}
	}
	return c, nil
}

// Contacts returns all contacts in insertion order.
func (b *ContactBook) Contacts() []*Contact {
	out := make([]*Contact, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.contacts[name])
	}
	return out
}

// AddRecord indexes c by name. It fails with a *DuplicateError if the name is
// taken or any of c's phones belongs to another contact. Nothing is registered
// on failure.
func (b *ContactBook) AddRecord(c *Contact) error {
	key := c.name.value
	if _, ok := b.contacts[key]; ok {
		return &DuplicateError{Kind: KindContact, Value: key}
	}
	for _, p := range c.phones {
		if owner := b.FindByPhone(p.value); owner != nil {
			return &DuplicateError{Kind: FieldPhone, Value: p.value, Owner: owner.name.value}
		}
	}
	b.contacts[key] = c
	b.order = append(b.order, key)
	return nil
}

// DeleteRecord removes the contact named name, or returns a *NotFoundError.
func (b *ContactBook) DeleteRecord(name string) error {
	key := strings.TrimSpace(name)
	if _, ok := b.contacts[key]; !ok {
		return &NotFoundError{Kind: KindContact, Key: key}
	}
	delete(b.contacts, key)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == key })
	return nil
}

// FindByPhone returns the first contact, in insertion order, holding a phone
// equal to value. It returns nil when no contact does.
func (b *ContactBook) FindByPhone(value string) *Contact {
	v := strings.TrimSpace(value)
	for _, name := range b.order {
		if c := b.contacts[name]; c.HasPhone(v) {
			return c
		}
	}
	return nil
}

// AddPhone validates raw and adds it to the named contact, keeping phones
// unique across the book.
func (b *ContactBook) AddPhone(name, raw string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	if owner := b.FindByPhone(p.value); owner != nil && owner != c {
		return &DuplicateError{Kind: FieldPhone, Value: p.value, Owner: owner.name.value}
	}
	return c.AddPhone(p)
}

// EditPhone replaces oldValue with newValue on the named contact. newValue must
// not belong to any other contact.
func (b *ContactBook) EditPhone(name, oldValue, newValue string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	if !c.HasPhone(strings.TrimSpace(oldValue)) {
		return &NotFoundError{Kind: FieldPhone, Key: strings.TrimSpace(oldValue)}
	}
	p, err := NewPhone(newValue)
	if err != nil {
		return err
	}
	if owner := b.FindByPhone(p.value); owner != nil && owner != c {
		return &DuplicateError{Kind: FieldPhone, Value: p.value, Owner: owner.name.value}
	}
	return c.EditPhone(oldValue, p.value)
}

// RemovePhone removes value from the named contact. Removing an absent phone
// is a no-op; an unknown contact is a *NotFoundError.
func (b *ContactBook) RemovePhone(name, value string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	c.RemovePhone(strings.TrimSpace(value))
	return nil
}

// SetAddress overwrites the named contact's address.
func (b *ContactBook) SetAddress(name, address string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	c.SetAddress(address)
	return nil
}

// SetEmail validates raw and overwrites the named contact's e-mail.
func (b *ContactBook) SetEmail(name, raw string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	e, err := NewEmail(raw)
	if err != nil {
		return err
	}
	c.SetEmail(e)
	return nil
}

// SetBirthday validates raw and overwrites the named contact's birthday.
func (b *ContactBook) SetBirthday(name, raw string) error {
	c, err := b.Get(name)
	if err != nil {
		return err
	}
	bd, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	c.SetBirthday(bd)
	return nil
}

// Search returns contacts whose name, address, e-mail, or any phone contains
// query, ignoring case. Results follow insertion order. An empty query matches
// every contact.
func (b *ContactBook) Search(query string) []*Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Contact
	for _, name := range b.order {
		if c := b.contacts[name]; c.matches(q) {
			out = append(out, c)
		}
	}
	return out
}

// BirthdaysWithin returns contacts whose next birthday, counted from today,
// falls within days days inclusive. Results are ordered by days remaining,
// then by name ignoring case. A negative days yields no results.
// Birthdays on 29 February fall on 1 March in non-leap years.
func (b *ContactBook) BirthdaysWithin(today time.Time, days int) []UpcomingBirthday {
	if days < 0 {
		return nil
	}
	t := dateOf(today)
	var out []UpcomingBirthday
	for _, name := range b.order {
		c := b.contacts[name]
		if c.birthday == nil {
			continue
		}
		next := nextOccurrence(c.birthday.date, t)
		left := int(next.Sub(t).Hours() / 24)
		if left <= days {
			out = append(out, UpcomingBirthday{Contact: c, Date: next, Days: left})
		}
	}
	slices.SortStableFunc(out, func(x, y UpcomingBirthday) int {
		if x.Days != y.Days {
			return x.Days - y.Days
		}
		return compareNames(x.Contact.name.value, y.Contact.name.value)
	})
	return out
}

// nextOccurrence returns the first anniversary of birth on or after today.
func nextOccurrence(birth, today time.Time) time.Time {
	next := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next
}

// compareNames orders names case-insensitively, falling back to byte order so
// the result is total.
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// String lists every contact sorted by name, ignoring case, one per line.
func (b *ContactBook) String() string {
	if len(b.order) == 0 {
		return EmptyContactBookMessage
	}
	names := slices.Clone(b.order)
	slices.SortFunc(names, compareNames)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = b.contacts[name].String()
	}
	return strings.Join(lines, "\n")
}
