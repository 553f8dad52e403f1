package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoteDedupesTags(t *testing.T) {
	n := NewNote("  buy milk ", "home", " shop", "home", "", "Home")
	assert.Equal(t, "buy milk", n.Text())
	assert.Equal(t, []string{"home", "shop", "Home"}, n.Tags())
}

func TestNoteTags(t *testing.T) {
	n := NewNote("text")

	n.AddTag("work")
	n.AddTag("  ")
	n.AddTag("work")
	n.AddTag(" urgent ")
	assert.Equal(t, []string{"work", "urgent"}, n.Tags())

	n.RemoveTag("WORK")
	assert.Equal(t, []string{"work", "urgent"}, n.Tags(), "removal is case-sensitive")
	n.RemoveTag("work")
	n.RemoveTag("missing")
	assert.Equal(t, []string{"urgent"}, n.Tags())
}

func TestNoteEditTextAndString(t *testing.T) {
	n := NewNote("draft")
	assert.Equal(t, "draft", n.String())

	n.EditText("  final  ")
	n.AddTag("a")
	n.AddTag("b")
	assert.Equal(t, "final | tags: a, b", n.String())
}

func TestNoteBookIDsNeverReused(t *testing.T) {
	b := NewNoteBook()
	assert.Equal(t, 1, b.AddNote(NewNote("one")))
	assert.Equal(t, 2, b.AddNote(NewNote("two")))
	assert.Equal(t, 3, b.AddNote(NewNote("three")))

	require.NoError(t, b.DeleteNote(2))
	assert.Equal(t, 4, b.AddNote(NewNote("four")))

	require.NoError(t, b.DeleteNote(4))
	assert.Equal(t, 5, b.AddNote(NewNote("five")), "deleting the highest id does not free it")
}

func TestNoteBookPut(t *testing.T) {
	b := NewNoteBook()
	require.NoError(t, b.Put(7, NewNote("restored")))
	assert.ErrorIs(t, b.Put(7, NewNote("again")), ErrDuplicate)
	assert.ErrorIs(t, b.Put(0, NewNote("zero")), ErrValidation)
	assert.Equal(t, 8, b.AddNote(NewNote("next")))
}

func TestNoteBookNotFound(t *testing.T) {
	b := NewNoteBook()
	b.AddNote(NewNote("only"))

	assert.ErrorIs(t, b.DeleteNote(9), ErrNotFound)
	assert.ErrorIs(t, b.EditNote(9, "x"), ErrNotFound)
	assert.ErrorIs(t, b.AddTag(9, "x"), ErrNotFound)
	assert.ErrorIs(t, b.RemoveTag(9, "x"), ErrNotFound)
	_, err := b.Get(9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, b.Len())
}

func TestNoteBookMutations(t *testing.T) {
	b := NewNoteBook()
	id := b.AddNote(NewNote("first"))

	require.NoError(t, b.EditNote(id, " second "))
	require.NoError(t, b.AddTag(id, "x"))
	require.NoError(t, b.AddTag(id, "y"))
	require.NoError(t, b.RemoveTag(id, "x"))

	n, err := b.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "second", n.Text())
	assert.Equal(t, []string{"y"}, n.Tags())
}

func entryIDs(entries []NoteEntry) []int {
	out := []int{}
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestNoteBookSearchAndFilter(t *testing.T) {
	b := NewNoteBook()
	b.AddNote(NewNote("Call the Plumber", "home"))
	b.AddNote(NewNote("quarterly report", "Work", "urgent"))
	b.AddNote(NewNote("groceries", "home", "shopping"))

	tests := []struct {
		name string
		got  []NoteEntry
		want []int
	}{
		{name: "search text ignores case", got: b.Search("plumber"), want: []int{1}},
		{name: "search tag ignores case", got: b.Search("WORK"), want: []int{2}},
		{name: "search matches text and tags", got: b.Search("r"), want: []int{1, 2, 3}},
		{name: "search no match", got: b.Search("nothing"), want: []int{}},
		{name: "filter exact tag", got: b.FilterByTag("home"), want: []int{1, 3}},
		{name: "filter is case-sensitive", got: b.FilterByTag("work"), want: []int{}},
		{name: "filter matches case", got: b.FilterByTag("Work"), want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryIDs(tt.got))
		})
	}
}

func TestNoteBookString(t *testing.T) {
	b := NewNoteBook()
	assert.Equal(t, EmptyNoteBookMessage, b.String())

	require.NoError(t, b.Put(10, NewNote("ten")))
	require.NoError(t, b.Put(2, NewNote("two", "t")))
	assert.Equal(t, "2. two | tags: t\n10. ten", b.String())
}
