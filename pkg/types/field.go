// Validated field values for contacts. Each constructor trims surrounding
// whitespace, checks the value's grammar, and returns a *ValidationError on
// failure. The resulting values are immutable and compare by value.
package types

import (
	"regexp"
	"strings"
	"time"
)

// Field kinds used in ValidationError.Field.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldBirthday = "birthday"
	FieldTag      = "tag"
)

// BirthdayLayout is the canonical textual form of a birthday.
const BirthdayLayout = "02.01.2006"

// birthdayParseLayout also accepts one-digit days and months.
const birthdayParseLayout = "2.1.2006"

var (
	// phoneRE is the single accepted phone grammar: international numbers with
	// a leading plus and 10 to 15 digits.
	phoneRE = regexp.MustCompile(`^\+[0-9]{10,15}$`)
	emailRE = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// Name is a contact's display name and its key within a ContactBook.
type Name struct {
	value string
}

// NewName returns a Name for raw, which must not be blank.
func NewName(raw string) (Name, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Name{}, &ValidationError{Field: FieldName, Reason: "must not be empty"}
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// Phone is a validated international phone number.
type Phone struct {
	value string
}

// NewPhone validates raw against the phone grammar.
func NewPhone(raw string) (Phone, error) {
	v := strings.TrimSpace(raw)
	if !phoneRE.MatchString(v) {
		return Phone{}, &ValidationError{
			Field:  FieldPhone,
			Value:  v,
			Reason: "expected + followed by 10 to 15 digits, e.g. +380671112233",
		}
	}
	return Phone{value: v}, nil
}

func (p Phone) String() string { return p.value }

// Email is a validated e-mail address.
type Email struct {
	value string
}

// NewEmail validates raw as local-part@domain.tld.
func NewEmail(raw string) (Email, error) {
	v := strings.TrimSpace(raw)
	if !emailRE.MatchString(v) {
		return Email{}, &ValidationError{Field: FieldEmail, Value: v, Reason: "expected name@domain.tld"}
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

// Birthday is a calendar date of birth.
type Birthday struct {
	date time.Time
}

// NewBirthday parses raw as day.month.year.
func NewBirthday(raw string) (Birthday, error) {
	v := strings.TrimSpace(raw)
	d, err := time.Parse(birthdayParseLayout, v)
	if err != nil {
		return Birthday{}, &ValidationError{Field: FieldBirthday, Value: v, Reason: "expected DD.MM.YYYY"}
	}
	return Birthday{date: d}, nil
}

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

func (b Birthday) String() string { return b.date.Format(BirthdayLayout) }

// dateOf truncates t to its calendar date at midnight UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
