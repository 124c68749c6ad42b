package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const tempPrefix = "temp-"

// ID identifies a todo. Ids assigned by the server are integers; ids minted
// on the client (optimistic creations, local items) are strings.
// IDs are comparable with ==.
type ID struct {
	num int
	key string
}

// PermanentID wraps a server-assigned id.
func PermanentID(n int) ID { return ID{num: n} }

// StringID wraps a client-side string id.
func StringID(key string) ID { return ID{key: key} }

// NewTempID returns a fresh "temp-" id for an optimistic creation. The token
// is a time-ordered UUID so ids minted in the same millisecond still differ.
func NewTempID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return ID{key: tempPrefix + u.String()}
}

// NewLocalID returns a random id for items that never reach the server.
func NewLocalID() ID { return ID{key: uuid.NewString()} }

// ParseID reads an id typed by a user: digits give a permanent id, anything
// else a string id.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return PermanentID(n)
	}
	return StringID(s)
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == ID{} }

// IsTemp reports whether id belongs to a creation still in flight.
func (id ID) IsTemp() bool { return strings.HasPrefix(id.key, tempPrefix) }

// IsPermanent reports whether id was assigned by the server.
func (id ID) IsPermanent() bool { return id.key == "" }

// Int returns the numeric value of a permanent id.
func (id ID) Int() (int, bool) {
	if !id.IsPermanent() {
		return 0, false
	}
	return id.num, true
}

func (id ID) String() string {
	if id.key != "" {
		return id.key
	}
	return strconv.Itoa(id.num)
}

// Equal lets go-cmp compare ids without reaching into unexported fields.
func (id ID) Equal(other ID) bool { return id == other }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.key != "" {
		return json.Marshal(id.key)
	}
	return []byte(strconv.Itoa(id.num)), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var key string
		if err := json.Unmarshal(data, &key); err != nil {
			return err
		}
		*id = StringID(key)
		return nil
	}
	if n, err := strconv.Atoi(string(data)); err == nil {
		*id = PermanentID(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("id: %v is not an integer", f)
	}
	*id = PermanentID(int(f))
	return nil
}
