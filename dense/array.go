// Package dense converts between sparse record sets and dense arrays.
//
// A record set converts to an array only when it is span-complete: it holds
// exactly one record for every combination of its labels' domain values.
package dense

import (
	"fmt"
	"slices"

	"github.com/hupe1980/paramgrid/label"
)

// ErrShapeMismatch indicates an array whose shape does not match its axes.
type ErrShapeMismatch struct {
	Expected []int
	Got      []int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("dense: array shape %v does not match expected shape %v", e.Got, e.Expected)
}

// Axis is one array dimension: a label and its ordered domain.
type Axis struct {
	Label  string
	Domain []label.Value
}

// Array is a dense row-major array of payloads.
type Array struct {
	Axes  []Axis
	Shape []int
	Data  []label.Value
}

// NewArray allocates an array over axes with every cell null.
func NewArray(axes []Axis) *Array {
	shape := make([]int, len(axes))
	size := 1
	for i, ax := range axes {
		shape[i] = len(ax.Domain)
		size *= shape[i]
	}
	data := make([]label.Value, size)
	for i := range data {
		data[i] = label.Null()
	}
	return &Array{Axes: axes, Shape: shape, Data: data}
}

// Labels returns the axis labels in order.
func (a *Array) Labels() []string {
	out := make([]string, len(a.Axes))
	for i, ax := range a.Axes {
		out[i] = ax.Label
	}
	return out
}

// Size returns the number of cells.
func (a *Array) Size() int { return product(a.Shape) }

// At returns the cell at coords.
func (a *Array) At(coords ...int) (label.Value, error) {
	off, err := a.offset(coords)
	if err != nil {
		return label.Value{}, err
	}
	return a.Data[off], nil
}

// Set stores v at coords.
func (a *Array) Set(v label.Value, coords ...int) error {
	off, err := a.offset(coords)
	if err != nil {
		return err
	}
	a.Data[off] = v
	return nil
}

func (a *Array) offset(coords []int) (int, error) {
	if len(coords) != len(a.Shape) {
		return 0, fmt.Errorf("dense: %d coordinates for %d dimensions", len(coords), len(a.Shape))
	}
	off := 0
	for i, c := range coords {
		if c < 0 || c >= a.Shape[i] {
			return 0, fmt.Errorf("dense: coordinate %d out of range [0, %d)", c, a.Shape[i])
		}
		off = off*a.Shape[i] + c
	}
	return off, nil
}

// coords converts a row-major offset back to coordinates.
func coords(shape []int, off int) []int {
	out := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		out[i] = off % shape[i]
		off /= shape[i]
	}
	return out
}

// Value returns the array as a nested array Value. A zero-dimensional array
// returns its single cell.
func (a *Array) Value() label.Value {
	if len(a.Shape) == 0 {
		return a.Data[0]
	}
	v, _ := nest(a.Shape, a.Data)
	return v
}

func nest(shape []int, data []label.Value) (label.Value, []label.Value) {
	if len(shape) == 0 {
		return data[0], data[1:]
	}
	out := make([]label.Value, shape[0])
	for i := range out {
		out[i], data = nest(shape[1:], data)
	}
	return label.Array(out...), data
}

// FromValue builds an array over axes from a nested array Value such as the
// payload produced by Value.
func FromValue(axes []Axis, v label.Value) (*Array, error) {
	arr := NewArray(axes)
	got := shapeOf(v, len(axes))
	if !slices.Equal(got, arr.Shape) {
		return nil, &ErrShapeMismatch{Expected: arr.Shape, Got: got}
	}
	arr.Data = flatten(v, len(axes), arr.Data[:0])
	return arr, nil
}

// shapeOf returns the shape of v down to depth dimensions. Ragged arrays
// report the first mismatching length as -1.
func shapeOf(v label.Value, depth int) []int {
	shape := make([]int, 0, depth)
	level := []label.Value{v}
	for d := 0; d < depth; d++ {
		n := -1
		next := make([]label.Value, 0)
		for _, x := range level {
			items, ok := x.AsArray()
			if !ok || (n >= 0 && len(items) != n) {
				return append(shape, -1)
			}
			n = len(items)
			next = append(next, items...)
		}
		if n < 0 {
			n = 0
		}
		shape = append(shape, n)
		level = next
	}
	return shape
}

func flatten(v label.Value, depth int, out []label.Value) []label.Value {
	if depth == 0 {
		return append(out, v.Clone())
	}
	items, _ := v.AsArray()
	for _, x := range items {
		out = flatten(x, depth-1, out)
	}
	return out
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
