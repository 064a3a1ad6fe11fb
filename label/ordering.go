package label

import "fmt"

// Ordering maps a label value to the key it is ordered by.
//
// Keys are compared with Compare. A label whose values cannot be keyed, or
// whose keys cannot be compared with each other, is not orderable.
type Ordering interface {
	Key(v Value) (Value, error)
}

// Natural orders values by their natural order (see Compare).
type Natural struct{}

// Key returns v unchanged.
func (Natural) Key(v Value) (Value, error) {
	if v.Kind == KindInvalid {
		return Value{}, fmt.Errorf("%w: invalid value", ErrIncomparable)
	}
	return v, nil
}

// Ranked orders values of a fixed enumeration by their declared position.
type Ranked struct {
	ranks map[string]int64
}

// NewRanked creates an ordering ranking choices in the given order.
// Duplicate choices keep their first position.
func NewRanked(choices ...Value) *Ranked {
	r := &Ranked{ranks: make(map[string]int64, len(choices))}
	for i, c := range choices {
		k := c.Key()
		if _, ok := r.ranks[k]; !ok {
			r.ranks[k] = int64(i)
		}
	}
	return r
}

// Key returns the rank of v as an int Value.
func (r *Ranked) Key(v Value) (Value, error) {
	rank, ok := r.ranks[v.Key()]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s is not a declared choice", ErrIncomparable, v)
	}
	return Int(rank), nil
}

// OrderingFunc adapts a function to the Ordering interface.
type OrderingFunc func(v Value) (Value, error)

// Key calls f(v).
func (f OrderingFunc) Key(v Value) (Value, error) { return f(v) }
