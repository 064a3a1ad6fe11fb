package label

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents the zero Value. It is treated like null.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindDate represents a calendar date (UTC, day precision).
	KindDate
	// KindArray represents an array value.
	KindArray
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// DateLayout is the textual form of date values.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrIncomparable is returned by Compare when two values have no common order.
var ErrIncomparable = errors.New("values are not comparable")

// Value is a small typed value used for label values and record payloads.
//
// Strings are interned. Dates are stored as days since the Unix epoch.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string]
	B    bool
	A    []Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Date returns a date Value for the given calendar day.
func Date(year int, month time.Month, day int) Value {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns a date Value for the calendar day of t (in t's location).
func DateOf(t time.Time) Value {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
	return Value{Kind: KindDate, I64: days}
}

// ParseDate parses a value in DateLayout form.
func ParseDate(s string) (Value, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Value{}, err
	}
	return DateOf(t), nil
}

// Array returns an array Value.
func Array(v ...Value) Value { return Value{Kind: KindArray, A: v} }

// IsNull reports whether the value is null or the zero Value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindInvalid
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the numeric value as float64 if Kind is KindInt or KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.F64, true
	case KindInt:
		return float64(v.I64), true
	default:
		return 0, false
	}
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsDate returns the date as a UTC midnight time if Kind is KindDate.
func (v Value) AsDate() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	return time.Unix(v.I64*secondsPerDay, 0).UTC(), true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// Key returns a stable string representation for use in maps.
//
// Two values have the same key iff they are the same kind and equal.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull, KindInvalid:
		return "null"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindDate:
		return "d:" + strconv.FormatInt(v.I64, 10)
	case KindArray:
		if len(v.A) == 0 {
			return "a:"
		}
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// Equal reports whether v and other are the same kind and equal.
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// String returns a human readable representation used in diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case KindNull, KindInvalid:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindDate:
		t, _ := v.AsDate()
		return t.Format(DateLayout)
	case KindArray:
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "invalid"
	}
}

// Interface converts the value to its natural Go representation.
// Dates become strings in DateLayout form.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindDate:
		return v.String()
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler using the natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Integral number literals decode as KindInt, other numbers as KindFloat.
// Strings stay strings; dates are recognized by the validator, not here.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Clone creates a deep copy of the value, including nested arrays.
func (v Value) Clone() Value {
	if v.Kind != KindArray || len(v.A) == 0 {
		return v
	}

	arrayCopy := make([]Value, len(v.A))
	for i := range v.A {
		arrayCopy[i] = v.A[i].Clone()
	}
	v.A = arrayCopy
	return v
}

// Compare orders a and b by their natural order.
//
// Numbers compare across int and float, strings lexically, false < true,
// dates chronologically and arrays lexicographically. Nulls are equal to each
// other. Any other pairing returns ErrIncomparable.
func Compare(a, b Value) (int, error) {
	if a.IsNull() && b.IsNull() {
		return 0, nil
	}

	if isNumber(a) && isNumber(b) {
		if a.Kind == KindInt && b.Kind == KindInt {
			return cmpOrdered(a.I64, b.I64), nil
		}
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		return cmpOrdered(af, bf), nil
	}

	if a.Kind != b.Kind {
		return 0, fmt.Errorf("%w: %s and %s", ErrIncomparable, a.Kind, b.Kind)
	}

	switch a.Kind {
	case KindString:
		return strings.Compare(a.s.Value(), b.s.Value()), nil
	case KindBool:
		switch {
		case a.B == b.B:
			return 0, nil
		case !a.B:
			return -1, nil
		default:
			return 1, nil
		}
	case KindDate:
		return cmpOrdered(a.I64, b.I64), nil
	case KindArray:
		n := min(len(a.A), len(b.A))
		for i := 0; i < n; i++ {
			c, err := Compare(a.A[i], b.A[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return cmpOrdered(len(a.A), len(b.A)), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrIncomparable, a.Kind)
	}
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}
