package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

const (
	whereUsage = "column = value"
	setUsage   = "column1 = value1, column2 = value2"
)

// ParseWhereClause parses "column = value" into a single-entry predicate.
// An empty clause yields a nil predicate (no filter).
func ParseWhereClause(raw string) (core.Predicate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	a, err := parseAssignment(raw, "WHERE condition", whereUsage)
	if err != nil {
		return nil, err
	}
	return core.Predicate{a.Column: a.Value}, nil
}

// ParseSetClause parses "col1 = v1, col2 = v2". Commas always separate
// assignments here, even inside quotes.
func ParseSetClause(raw string) (core.Assignments, error) {
	if strings.TrimSpace(raw) == "" {
		return core.Assignments{}, nil
	}

	parts := strings.Split(raw, ",")
	out := make(core.Assignments, 0, len(parts))
	for _, part := range parts {
		a, err := parseAssignment(part, "assignment", setUsage)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// parseAssignment splits at the first '=' and converts the right-hand side.
// Unlike insert values, one quote layer is stripped before conversion, so
// age = "30" compares and assigns as the int 30.
func parseAssignment(raw, what, usage string) (core.Assignment, error) {
	column, value, ok := strings.Cut(raw, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return core.Assignment{}, &core.FormatError{
			Message: fmt.Sprintf("invalid %s %q", what, strings.TrimSpace(raw)),
			Hint:    usage,
		}
	}
	value = strings.TrimSpace(value)
	if inner, ok := unquote(value); ok {
		value = inner
	}
	return core.Assignment{Column: column, Value: ConvertValue(value)}, nil
}
