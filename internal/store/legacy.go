package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/assistant/pkg/types"
)

// Record kinds written by the current format.
const (
	kindContact = "contact"
	kindNote    = "note"
)

// renameTable maps names from earlier storage schemes to current ones. It is
// consulted on decode only and knows nothing about the backend.
type renameTable struct {
	kinds  map[string]string // Record kind tags.
	fields map[string]string // Top-level record keys.
}

// legacyNames covers records written before the package layout settled:
// kinds were qualified class names and a few keys had other spellings.
var legacyNames = renameTable{
	kinds: map[string]string{
		"Record":                                kindContact,
		"addressbook.Record":                    kindContact,
		"personal_assistant.addressbook.Record": kindContact,
		"Note":                                  kindNote,
		"notes.Note":                            kindNote,
		"personal_assistant.notes.Note":         kindNote,
	},
	fields: map[string]string{
		"type":          "kind",
		"__class__":     "kind",
		"phone_numbers": "phones",
		"index":         "id",
		"content":       "text",
	},
}

// kind returns the current name for a record kind.
func (r renameTable) kind(name string) string {
	if cur, ok := r.kinds[name]; ok {
		return cur
	}
	return name
}

// apply rewrites legacy keys and the kind tag of obj. A current key wins over
// a legacy key with the same meaning.
func (r renameTable) apply(obj map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		if _, legacy := r.fields[k]; !legacy {
			out[k] = v
		}
	}
	for k, v := range obj {
		cur, legacy := r.fields[k]
		if !legacy {
			continue
		}
		if _, taken := out[cur]; !taken {
			out[cur] = v
		}
	}

	if raw, ok := out["kind"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("kind: %w", err)
		}
		b, err := json.Marshal(r.kind(name))
		if err != nil {
			return nil, err
		}
		out["kind"] = b
	}
	return out, nil
}

// text is a string field that also accepts the legacy {"value": "..."}
// wrapper and null.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Value *text `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if wrapped.Value != nil {
			*t = *wrapped.Value
		} else {
			*t = ""
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = text(s)
	return nil
}

// Earlier stores kept phones as bare digits, 7 to 15 of them.
var legacyPhoneRE = regexp.MustCompile(`^[0-9]{7,15}$`)

// localPhonePrefix turns a ten-digit local number with its trunk 0 into the
// international form.
const localPhonePrefix = "+38"

// parseStoredPhone reads a stored phone. A bare-digit legacy phone is
// rewritten before validation: ten digits with a leading 0 get
// localPhonePrefix, any other run gets a '+'. Runs that are still too short
// fail validation.
func parseStoredPhone(raw string) (types.Phone, error) {
	v := strings.TrimSpace(raw)
	if legacyPhoneRE.MatchString(v) {
		if len(v) == 10 && v[0] == '0' {
			v = localPhonePrefix + v
		} else {
			v = "+" + v
		}
	}
	return types.NewPhone(v)
}
