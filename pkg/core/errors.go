package core

import (
	"fmt"
	"strings"
)

// DuplicateTableError is returned when creating a table that already exists.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}

// UnknownTableError is returned when a table is not in the catalog.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table %q does not exist", e.Table)
}

// InvalidColumnFormatError is returned for a column spec that is not "name:type".
type InvalidColumnFormatError struct {
	Spec string
}

func (e *InvalidColumnFormatError) Error() string {
	return fmt.Sprintf("invalid column format %q, use \"name:type\"", e.Spec)
}

// UnsupportedTypeError is returned for a column type outside int, str, bool.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	names := make([]string, len(SupportedTypes))
	for i, t := range SupportedTypes {
		names[i] = string(t)
	}
	return fmt.Sprintf("unsupported column type %q, supported types: %s", e.Type, strings.Join(names, ", "))
}

// ArityError is returned when an insert supplies the wrong number of values.
type ArityError struct {
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected %d values, got %d", e.Expected, e.Got)
}

// TypeMismatchError is returned when a value cannot be coerced to its column type.
type TypeMismatchError struct {
	Column   string
	Expected ColumnType
	Value    Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q expects %s, got %s %s", e.Column, e.Expected, e.Value.Kind(), e.Value.Literal())
}

// FormatError is returned for malformed command, WHERE, SET or value-list syntax.
type FormatError struct {
	Message string
	Hint    string
}

func (e *FormatError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s (usage: %s)", e.Message, e.Hint)
	}
	return e.Message
}

// NewFormatError creates a format error with a formatted message.
func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Message: fmt.Sprintf(format, args...)}
}
