package label

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for decoded documents (JSON, YAML) and
// callers holding untyped data.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return fromNumber(string(x))
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case time.Time:
		return DateOf(x), nil
	case []Value:
		return Array(x...), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr...), nil
	case []string:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = String(x[i])
		}
		return Array(arr...), nil
	case []int:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(int64(x[i]))
		}
		return Array(arr...), nil
	case []int64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(x[i])
		}
		return Array(arr...), nil
	case []float64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Float(x[i])
		}
		return Array(arr...), nil
	case []bool:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Bool(x[i])
		}
		return Array(arr...), nil
	default:
		return Value{}, fmt.Errorf("unsupported label value type %T", v)
	}
}

// MustFromAny is like FromAny but panics on unsupported types.
// It is intended for tests and literals.
func MustFromAny(v any) Value {
	vv, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return vv
}

// ValuesFromAny converts each element with FromAny.
func ValuesFromAny(vs ...any) ([]Value, error) {
	out := make([]Value, len(vs))
	for i, v := range vs {
		vv, err := FromAny(v)
		if err != nil {
			return nil, err
		}
		out[i] = vv
	}
	return out, nil
}

func fromNumber(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

func fromUint(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		// Avoid silently wrapping large values.
		return Value{}, fmt.Errorf("label uint64 out of range: %d", x)
	}
	return Int(int64(x)), nil
}
