package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/assistant/pkg/types"
)

func TestRenameTableApply(t *testing.T) {
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(
		`{"type":"addressbook.Record","name":"Ann","phone_numbers":["+380671112233"]}`), &obj))

	out, err := legacyNames.apply(obj)
	require.NoError(t, err)

	assert.JSONEq(t, `"contact"`, string(out["kind"]))
	assert.JSONEq(t, `["+380671112233"]`, string(out["phones"]))
	assert.NotContains(t, out, "type")
	assert.NotContains(t, out, "phone_numbers")
}

func TestRenameTableCurrentKeyWins(t *testing.T) {
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(
		`{"kind":"note","id":3,"index":9,"text":"new","content":"old"}`), &obj))

	out, err := legacyNames.apply(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(out["id"]))
	assert.JSONEq(t, `"new"`, string(out["text"]))
}

func TestRenameTableUnknownKindUnchanged(t *testing.T) {
	assert.Equal(t, "widget", legacyNames.kind("widget"))
	assert.Equal(t, kindNote, legacyNames.kind("personal_assistant.notes.Note"))
}

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want text
	}{
		{in: `"Ann"`, want: "Ann"},
		{in: `{"value":"Ann"}`, want: "Ann"},
		{in: `{"value":{"value":"Ann"}}`, want: "Ann"},
		{in: `{"other":1}`, want: ""},
		{in: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got text
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad text
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestDecodeContactsSkipsInvalid(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"kind":"contact","name":"Ann","phones":["+380671112233"]}`),
		json.RawMessage(`{"kind":"contact","name":"Bob","phones":["12345"],"email":"bob@example.com"}`),
		json.RawMessage(`{"kind":"contact","name":"Cat","phones":["+380671112233","+380931112233"]}`),
		json.RawMessage(`{"kind":"note","id":1,"text":"wrong store"}`),
		json.RawMessage(`{"kind":"contact","name":"  ","phones":[]}`),
		json.RawMessage(`{"kind":"contact","name":"Ann","phones":[]}`),
		json.RawMessage(`{"kind":"contact","name":{"value":"Dan"},"phones":[{"value":"+380501234567"}],"email":{"value":"dan@example.com"},"birthday":{"value":"01.02.1990"},"address":null}`),
		json.RawMessage(`{"kind":"contact","name":"Eve","phones":["+380661112233"],"email":"not-an-email","birthday":"31.02.1990","address":"Lviv"}`),
	}

	book, skipped := decodeContacts(records)
	// Dropped fields: Bob's short phone, Cat's phone owned by Ann, Eve's
	// e-mail and birthday. Dropped records: the note, the blank name, the
	// second Ann.
	assert.Equal(t, 7, skipped)
	require.Equal(t, 5, book.Len())

	bob, err := book.Get("Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob | phones: - | email: bob@example.com | address: - | birthday: -", bob.String())

	cat, err := book.Get("Cat")
	require.NoError(t, err)
	assert.Equal(t, "Cat | phones: +380931112233 | email: - | address: - | birthday: -", cat.String())

	dan, err := book.Get("Dan")
	require.NoError(t, err)
	assert.Equal(t, "Dan | phones: +380501234567 | email: dan@example.com | address: - | birthday: 01.02.1990", dan.String())

	eve, err := book.Get("Eve")
	require.NoError(t, err)
	assert.Equal(t, "Eve | phones: +380661112233 | email: - | address: Lviv | birthday: -", eve.String())
}

func TestParseStoredPhone(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "+380671112233", want: "+380671112233"},
		{raw: "0671112233", want: "+380671112233"},
		{raw: " 0671112233 ", want: "+380671112233"},
		{raw: "380671112233", want: "+380671112233"},
		{raw: "4915112345678", want: "+4915112345678"},
		{raw: "1234567", wantErr: true},
		{raw: "12345", wantErr: true},
		{raw: "067-111-22-33", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := parseStoredPhone(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestDecodeNotesKeepsIDs(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"kind":"note","id":4,"text":"four","tags":["a","a","b"]}`),
		json.RawMessage(`{"type":"notes.Note","index":2,"content":"two","tags":[{"value":"old"},"x"]}`),
		json.RawMessage(`{"kind":"note","id":4,"text":"duplicate id"}`),
		json.RawMessage(`{"kind":"note","text":"no id"}`),
	}

	book, skipped := decodeNotes(records)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "2. two | tags: old, x\n4. four | tags: a, b\n5. no id", book.String())
	assert.Equal(t, 6, book.NextID())
}
