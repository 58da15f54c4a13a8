// Package parser turns command-language text into typed values, clauses and
// statements.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// ConvertValue infers a typed value from a raw literal.
//
// Precedence: quoted string > bool > int > float > bare string. A quoted
// literal is returned verbatim without further inference, so '"5"' is the
// string "5".
func ConvertValue(raw string) core.Value {
	s := strings.TrimSpace(raw)
	if inner, ok := unquote(s); ok {
		return core.Str(inner)
	}

	switch strings.ToLower(s) {
	case "true":
		return core.Bool(true)
	case "false":
		return core.Bool(false)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return core.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return core.Float(f)
	}
	return core.Str(s)
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// SplitValueList splits a comma-separated literal list. Commas inside single
// or double quotes do not separate items, and a backslash copies the next
// character literally without affecting quote state. Quotes are kept in the
// items; a trailing empty item is dropped.
func SplitValueList(raw string) []string {
	var (
		result  []string
		current strings.Builder
		quote   rune
		escaped bool
	)

	for _, ch := range raw {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"' || ch == '\'':
			if quote == 0 {
				quote = ch
			} else if ch == quote {
				quote = 0
			}
			current.WriteRune(ch)
		case ch == ',' && quote == 0:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if last := strings.TrimSpace(current.String()); last != "" {
		result = append(result, last)
	}
	return result
}

// ParseValues parses a parenthesized literal list such as (1, "a,b", true).
func ParseValues(raw string) ([]core.Value, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || len(s) < 2 {
		return nil, &core.FormatError{
			Message: "values must be enclosed in parentheses",
			Hint:    "(value1, value2, ...)",
		}
	}

	content := strings.TrimSpace(s[1 : len(s)-1])
	if content == "" {
		return []core.Value{}, nil
	}

	items := SplitValueList(content)
	values := make([]core.Value, len(items))
	for i, item := range items {
		values[i] = ConvertValue(item)
	}
	return values, nil
}
