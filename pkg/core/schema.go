package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// IDColumn is the implicit leading column of every table.
const IDColumn = "ID"

// =============================================================================
// ColumnType
// =============================================================================

// ColumnType is the declared type of a column.
type ColumnType string

// Supported column types.
const (
	TypeInt  ColumnType = "int"
	TypeStr  ColumnType = "str"
	TypeBool ColumnType = "bool"
)

// SupportedTypes lists the column types in display order.
var SupportedTypes = []ColumnType{TypeInt, TypeStr, TypeBool}

// ParseColumnType converts a case-insensitive type name to a ColumnType.
// Returns the type and true if valid.
func ParseColumnType(s string) (ColumnType, bool) {
	switch ColumnType(strings.ToLower(s)) {
	case TypeInt:
		return TypeInt, true
	case TypeStr:
		return TypeStr, true
	case TypeBool:
		return TypeBool, true
	default:
		return "", false
	}
}

// =============================================================================
// ColumnDefinition
// =============================================================================

// ColumnDefinition is a single named, typed column.
type ColumnDefinition struct {
	Name string
	Type ColumnType
}

// String renders the definition as "name:type".
func (c ColumnDefinition) String() string {
	return c.Name + ":" + string(c.Type)
}

// ParseColumnDefinition parses a persisted "name:type" pair.
func ParseColumnDefinition(spec string) (ColumnDefinition, error) {
	name, typ, ok := strings.Cut(spec, ":")
	if !ok || strings.Contains(typ, ":") || strings.TrimSpace(name) == "" {
		return ColumnDefinition{}, &InvalidColumnFormatError{Spec: spec}
	}
	ct, ok := ParseColumnType(strings.TrimSpace(typ))
	if !ok {
		return ColumnDefinition{}, &UnsupportedTypeError{Type: strings.ToLower(strings.TrimSpace(typ))}
	}
	return ColumnDefinition{Name: strings.TrimSpace(name), Type: ct}, nil
}

// MarshalJSON encodes the definition as "name:type".
func (c ColumnDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a "name:type" string.
func (c *ColumnDefinition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	def, err := ParseColumnDefinition(s)
	if err != nil {
		return err
	}
	*c = def
	return nil
}

// =============================================================================
// TableSchema
// =============================================================================

// TableSchema is the ordered column list of a table. The first column is
// always ID:int.
type TableSchema []ColumnDefinition

// Names returns the column names in declaration order.
func (s TableSchema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Types returns a name -> type mapping.
func (s TableSchema) Types() map[string]ColumnType {
	types := make(map[string]ColumnType, len(s))
	for _, c := range s {
		types[c.Name] = c.Type
	}
	return types
}

// Strings renders every column as "name:type".
func (s TableSchema) Strings() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.String()
	}
	return out
}

// =============================================================================
// Metadata
// =============================================================================

// Metadata maps table names to their schemas, preserving insertion order.
// The zero value is an empty catalog ready to use.
type Metadata struct {
	names   []string
	schemas map[string]TableSchema
}

// NewMetadata returns an empty catalog.
func NewMetadata() *Metadata {
	return &Metadata{schemas: make(map[string]TableSchema)}
}

// Len returns the number of tables.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Has reports whether a table exists.
func (m *Metadata) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.schemas[name]
	return ok
}

// Get returns a table schema.
func (m *Metadata) Get(name string) (TableSchema, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.schemas[name]
	return s, ok
}

// Names returns the table names in insertion order.
func (m *Metadata) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Set adds or replaces a table. New tables go to the end.
func (m *Metadata) Set(name string, schema TableSchema) {
	if m.schemas == nil {
		m.schemas = make(map[string]TableSchema)
	}
	if _, ok := m.schemas[name]; !ok {
		m.names = append(m.names, name)
	}
	m.schemas[name] = schema
}

// Delete removes a table, keeping the order of the rest.
func (m *Metadata) Delete(name string) {
	if _, ok := m.schemas[name]; !ok {
		return
	}
	delete(m.schemas, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	c := NewMetadata()
	if m == nil {
		return c
	}
	for _, name := range m.names {
		schema := make(TableSchema, len(m.schemas[name]))
		copy(schema, m.schemas[name])
		c.Set(name, schema)
	}
	return c
}

// Equal reports whether two catalogs hold the same tables in the same order.
func (m *Metadata) Equal(o *Metadata) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, name := range m.names {
		if o.names[i] != name {
			return false
		}
		a, b := m.schemas[name], o.schemas[name]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the catalog as {"table": ["ID:int", ...]} in table order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		cols, err := json.Marshal(m.schemas[name].Strings())
		if err != nil {
			return nil, err
		}
		buf.Write(cols)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a catalog, keeping the key order of the document.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata: expected object, got %v", tok)
	}

	out := NewMetadata()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata: expected table name, got %v", tok)
		}
		var schema TableSchema
		if err := dec.Decode(&schema); err != nil {
			return fmt.Errorf("metadata: table %q: %w", name, err)
		}
		out.Set(name, schema)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = *out
	return nil
}
