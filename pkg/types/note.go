package types

import (
	"slices"
	"strings"
)

// Note is free text with an ordered set of unique, case-sensitive tags.
type Note struct {
	text string
	tags []string
}

// NewNote returns a note with trimmed text. Blank and repeated tags are dropped,
// keeping first occurrences in order.
func NewNote(text string, tags ...string) *Note {
	n := &Note{text: strings.TrimSpace(text)}
	for _, t := range tags {
		n.AddTag(t)
	}
	return n
}

// Text returns the note's content.
func (n *Note) Text() string { return n.text }

// Tags returns a copy of the note's tags in insertion order.
func (n *Note) Tags() []string { return slices.Clone(n.tags) }

// HasTag reports whether the note carries exactly tag.
func (n *Note) HasTag(tag string) bool { return slices.Contains(n.tags, tag) }

// AddTag appends tag after trimming. Blank or present tags are ignored.
func (n *Note) AddTag(tag string) {
	t := strings.TrimSpace(tag)
	if t == "" || n.HasTag(t) {
		return
	}
	n.tags = append(n.tags, t)
}

// RemoveTag removes tag if present.
func (n *Note) RemoveTag(tag string) {
	n.tags = slices.DeleteFunc(n.tags, func(t string) bool { return t == tag })
}

// EditText replaces the note's content with trimmed text.
func (n *Note) EditText(text string) { n.text = strings.TrimSpace(text) }

func (n *Note) matches(q string) bool {
	if strings.Contains(strings.ToLower(n.text), q) {
		return true
	}
	return slices.ContainsFunc(n.tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), q)
	})
}

// String renders the text, followed by the tags when there are any.
func (n *Note) String() string {
	if len(n.tags) == 0 {
		return n.text
	}
	return n.text + " | tags: " + strings.Join(n.tags, ", ")
}
