// Package records implements typed insert, predicate filtering, update and
// delete over an in-memory table. Nothing here touches storage.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// Insert coerces values against schema, assigns the next ID and appends the
// new record. values are bound positionally to every column after ID. All
// columns are validated before anything is appended.
func Insert(schema core.TableSchema, existing []core.Record, values []core.Value) ([]core.Record, int64, error) {
	if len(schema) == 0 || schema[0].Name != core.IDColumn {
		return nil, 0, fmt.Errorf("schema must start with the %s column", core.IDColumn)
	}
	expected := len(schema) - 1
	if len(values) != expected {
		return nil, 0, &core.ArityError{Expected: expected, Got: len(values)}
	}

	id := NextID(existing)
	record := core.Record{core.IDColumn: core.Int(id)}
	for i, col := range schema[1:] {
		v, err := Coerce(col, values[i])
		if err != nil {
			return nil, 0, err
		}
		record[col.Name] = v
	}

	return append(existing, record), id, nil
}

// NextID returns max(ID)+1, or 1 for an empty table. Deleted IDs are never
// handed out again as long as a higher ID survives.
func NextID(existing []core.Record) int64 {
	var maxID int64
	for _, r := range existing {
		if id := r.ID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Coerce converts v to the declared type of col.
func Coerce(col core.ColumnDefinition, v core.Value) (core.Value, error) {
	mismatch := &core.TypeMismatchError{Column: col.Name, Expected: col.Type, Value: v}

	switch col.Type {
	case core.TypeInt:
		switch v.Kind() {
		case core.KindInt:
			return v, nil
		case core.KindStr:
			s, _ := v.AsStr()
			i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return core.Value{}, mismatch
			}
			return core.Int(i), nil
		case core.KindFloat:
			f, _ := v.AsFloat()
			// fractions truncate toward zero
			f = math.Trunc(f)
			if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return core.Value{}, mismatch
			}
			return core.Int(int64(f)), nil
		}
		return core.Value{}, mismatch

	case core.TypeBool:
		switch v.Kind() {
		case core.KindBool:
			return v, nil
		case core.KindStr:
			s, _ := v.AsStr()
			switch strings.ToLower(s) {
			case "true", "1", "yes":
				return core.Bool(true), nil
			case "false", "0", "no":
				return core.Bool(false), nil
			}
		}
		return core.Value{}, mismatch

	case core.TypeStr:
		if v.Kind() == core.KindStr {
			return v, nil
		}
		return core.Str(v.String()), nil
	}

	return core.Value{}, mismatch
}

// Matches reports whether every predicate entry is present in the record
// with a strictly equal value. A nil or empty predicate matches everything.
func Matches(record core.Record, pred core.Predicate) bool {
	for col, want := range pred {
		got, ok := record[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Select returns the records matching pred. A nil predicate returns records
// unchanged.
func Select(records []core.Record, pred core.Predicate) []core.Record {
	if pred == nil {
		return records
	}
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, pred) {
			out = append(out, r)
		}
	}
	return out
}

// Update applies set to every record matching where, in place. ID is never
// overwritten and columns the record does not have are ignored. Returns the
// full record slice and the number of matched records.
func Update(records []core.Record, set core.Assignments, where core.Predicate) ([]core.Record, int) {
	updated := 0
	for _, r := range records {
		if !Matches(r, where) {
			continue
		}
		for _, a := range set {
			if a.Column == core.IDColumn {
				continue
			}
			if _, ok := r[a.Column]; ok {
				r[a.Column] = a.Value
			}
		}
		updated++
	}
	return records, updated
}

// Delete removes every record matching where and returns the survivors and
// the number removed.
func Delete(records []core.Record, where core.Predicate) ([]core.Record, int) {
	kept := make([]core.Record, 0, len(records))
	for _, r := range records {
		if !Matches(r, where) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}
