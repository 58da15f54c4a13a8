package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// =============================================================================
// Kind
// =============================================================================

// Kind tags the dynamic type carried by a Value.
type Kind int

// Value kinds. KindInvalid is the zero Value (e.g. a decoded JSON null).
const (
	KindInvalid Kind = iota
	KindInt
	KindBool
	KindStr
	KindFloat
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// =============================================================================
// Value
// =============================================================================

// Value is a tagged union of the scalar types a record can hold.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
	f    float64
}

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Str returns a string value.
func Str(v string) Value { return Value{kind: KindStr, s: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsInt returns the integer payload and whether v is an Int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsBool returns the boolean payload and whether v is a Bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsStr returns the string payload and whether v is a Str.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == KindStr }

// AsFloat returns the float payload and whether v is a Float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// Equal reports strict equality: both the kind and the payload must match,
// so Int(5) never equals Str("5"). Invalid values equal nothing.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindStr:
		return v.s == o.s
	case KindFloat:
		return v.f == o.f
	default:
		return false
	}
}

// String formats the payload without quoting. Bools render as true/false.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindStr:
		return v.s
	case KindFloat:
		return formatFloat(v.f)
	default:
		return ""
	}
}

// Literal formats v the way it would be typed in a command, quoting strings.
func (v Value) Literal() string {
	if v.kind == KindStr {
		return strconv.Quote(v.s)
	}
	return v.String()
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Literal())
}

// Any returns the payload as a plain Go value (int64, bool, string, float64 or nil).
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	case KindStr:
		return v.s
	case KindFloat:
		return v.f
	default:
		return nil
	}
}

// MarshalJSON encodes the payload as a bare JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindStr:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v.s); err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("cannot encode non-finite float %v", v.f)
		}
		return []byte(formatFloat(v.f)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Numbers that fit an int64 become Int,
// other numbers become Float.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// FromAny converts a decoded JSON scalar into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// formatFloat keeps a decimal point on integral values, so 3.0 stays "3.0"
// and decodes back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		s += ".0"
	}
	return s
}
