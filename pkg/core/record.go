package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record maps column names to values.
type Record map[string]Value

// ID returns the record's ID, or 0 if it has none.
func (r Record) ID() int64 {
	id, _ := r[IDColumn].AsInt()
	return id
}

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// UnmarshalJSON decodes a JSON object, keeping integers as Int.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for k, x := range raw {
		v, err := FromAny(x)
		if err != nil {
			return fmt.Errorf("column %q: %w", k, err)
		}
		out[k] = v
	}
	*r = out
	return nil
}

// Predicate is an equality filter: column -> expected value.
// A nil Predicate means "no filter".
type Predicate map[string]Value

// Assignment is a single column = value pair from a SET clause.
type Assignment struct {
	Column string
	Value  Value
}

// Assignments is an ordered SET clause. Later assignments to the same
// column win.
type Assignments []Assignment
