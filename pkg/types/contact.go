package types

import (
	"slices"
	"strings"
)

// Placeholder is rendered in place of an absent optional field.
const Placeholder = "-"

// Contact holds one person's details. The name is fixed at creation; phones are
// kept in insertion order without duplicates.
type Contact struct {
	name     Name
	phones   []Phone
	address  string
	email    *Email
	birthday *Birthday
}

// NewContact returns a contact with only a name set.
func NewContact(name Name) *Contact {
	return &Contact{name: name}
}

// Name returns the contact's name.
func (c *Contact) Name() Name { return c.name }

// Phones returns a copy of the contact's phones in insertion order.
func (c *Contact) Phones() []Phone { return slices.Clone(c.phones) }

// Address returns the postal address and whether one is set.
func (c *Contact) Address() (string, bool) { return c.address, c.address != "" }

// Email returns the e-mail address and whether one is set.
func (c *Contact) Email() (Email, bool) {
	if c.email == nil {
		return Email{}, false
	}
	return *c.email, true
}

// Birthday returns the birthday and whether one is set.
func (c *Contact) Birthday() (Birthday, bool) {
	if c.birthday == nil {
		return Birthday{}, false
	}
	return *c.birthday, true
}

// HasPhone reports whether value is one of the contact's phones.
func (c *Contact) HasPhone(value string) bool {
	return c.phoneIndex(value) >= 0
}

func (c *Contact) phoneIndex(value string) int {
	return slices.IndexFunc(c.phones, func(p Phone) bool { return p.value == value })
}

// AddPhone appends p. Returns a *DuplicateError if the contact already has it.
func (c *Contact) AddPhone(p Phone) error {
	if c.HasPhone(p.value) {
		return &DuplicateError{Kind: FieldPhone, Value: p.value, Owner: c.name.value}
	}
	c.phones = append(c.phones, p)
	return nil
}

// RemovePhone removes every phone equal to value. Absent values are ignored.
func (c *Contact) RemovePhone(value string) {
	c.phones = slices.DeleteFunc(c.phones, func(p Phone) bool { return p.value == value })
}

// EditPhone replaces oldValue with a phone built from newValue, keeping its
// position. Returns a *NotFoundError if oldValue is absent, a *ValidationError
// if newValue is malformed, and a *DuplicateError if newValue is already held
// elsewhere in this contact. The phone list is unchanged on error.
func (c *Contact) EditPhone(oldValue, newValue string) error {
	i := c.phoneIndex(strings.TrimSpace(oldValue))
	if i < 0 {
		return &NotFoundError{Kind: FieldPhone, Key: strings.TrimSpace(oldValue)}
	}
	p, err := NewPhone(newValue)
	if err != nil {
		return err
	}
	if j := c.phoneIndex(p.value); j >= 0 && j != i {
		return &DuplicateError{Kind: FieldPhone, Value: p.value, Owner: c.name.value}
	}
	c.phones[i] = p
	return nil
}

// SetAddress overwrites the postal address. A blank address clears it.
func (c *Contact) SetAddress(address string) {
	c.address = strings.TrimSpace(address)
}

// SetEmail overwrites the e-mail address.
func (c *Contact) SetEmail(e Email) { c.email = &e }

// SetBirthday overwrites the birthday.
func (c *Contact) SetBirthday(b Birthday) { c.birthday = &b }

// matches reports whether the lowercased query occurs in the contact's name,
// address, e-mail, or any phone.
func (c *Contact) matches(q string) bool {
	if strings.Contains(strings.ToLower(c.name.value), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.address), q) {
		return true
	}
	if c.email != nil && strings.Contains(strings.ToLower(c.email.value), q) {
		return true
	}
	return slices.ContainsFunc(c.phones, func(p Phone) bool {
		return strings.Contains(p.value, q)
	})
}

// String renders the contact on one line. Absent fields show Placeholder.
func (c *Contact) String() string {
	phones := Placeholder
	if len(c.phones) > 0 {
		vals := make([]string, len(c.phones))
		for i, p := range c.phones {
			vals[i] = p.value
		}
		phones = strings.Join(vals, ", ")
	}
	email := Placeholder
	if c.email != nil {
		email = c.email.value
	}
	address := Placeholder
	if c.address != "" {
		address = c.address
	}
	birthday := Placeholder
	if c.birthday != nil {
		birthday = c.birthday.String()
	}
	return c.name.value + " | phones: " + phones + " | email: " + email +
		" | address: " + address + " | birthday: " + birthday
}
