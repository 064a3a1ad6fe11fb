package dense

import (
	"slices"
	"strings"

	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// ResolveOrder returns the axes of a record set: the grid's labels that the
// records use, in grid declaration order, each with its grid domain.
//
// Records must share one label set. A label declared without a domain takes
// the distinct values the records carry, ordered by the label's ordering.
func ResolveOrder(grid *label.Grid, records []label.Record) ([]Axis, error) {
	used, err := label.CheckConsistent(records)
	if err != nil {
		return nil, err
	}
	for _, name := range used {
		if !grid.Has(name) {
			return nil, &label.ErrUndeclaredLabel{Label: name, Record: records[0].Labels.Clone()}
		}
	}

	axes := make([]Axis, 0, len(used))
	for _, name := range grid.Names() {
		if !slices.Contains(used, name) {
			continue
		}
		domain := grid.Domain(name)
		if len(domain) == 0 {
			domain, err = observedDomain(name, grid.Ordering(name), records)
			if err != nil {
				return nil, err
			}
		}
		axes = append(axes, Axis{Label: name, Domain: domain})
	}
	return axes, nil
}

func observedDomain(name string, ord label.Ordering, records []label.Record) ([]label.Value, error) {
	type keyed struct {
		v, key label.Value
	}
	seen := make(map[string]struct{})
	var vals []keyed
	for _, r := range records {
		v := r.Labels[name]
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		k, err := ord.Key(v)
		if err != nil {
			return nil, label.NewErrNotOrderable(name, v, err)
		}
		vals = append(vals, keyed{v: v, key: k})
	}

	var cmpErr error
	slices.SortStableFunc(vals, func(a, b keyed) int {
		c, err := label.Compare(a.key, b.key)
		if err != nil && cmpErr == nil {
			cmpErr = label.NewErrNotOrderable(name, b.v, err)
		}
		return c
	})
	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]label.Value, len(vals))
	for i, kv := range vals {
		out[i] = kv.v
	}
	return out, nil
}

// ToArray densifies records over the axes resolved against grid.
//
// It fails with ErrSparseRecords unless every coordinate of the label space
// is covered exactly once. A set without labels converts to a
// zero-dimensional array holding its single record.
func ToArray(records []label.Record, grid *label.Grid) (*Array, error) {
	axes, err := ResolveOrder(grid, records)
	if err != nil {
		return nil, err
	}
	arr := NewArray(axes)

	ranks := make([]map[string]int, len(axes))
	for i, ax := range axes {
		ranks[i] = make(map[string]int, len(ax.Domain))
		for r, v := range ax.Domain {
			ranks[i][v.Key()] = r
		}
	}

	var (
		filled = rowset.New()
		counts = make(map[int]int)
		extra  [][]label.Value
	)
	for _, rec := range records {
		off, ok := 0, true
		for i, ax := range axes {
			r, found := ranks[i][rec.Labels[ax.Label].Key()]
			if !found {
				ok = false
				break
			}
			off = off*arr.Shape[i] + r
		}
		if !ok {
			extra = append(extra, coordValues(axes, rec.Labels))
			continue
		}
		counts[off]++
		if counts[off] == 1 {
			arr.Data[off] = rec.Value.Clone()
			filled.Add(off)
		}
	}

	missing := rowset.Range(arr.Size())
	missing.AndNot(filled)
	if len(records) == arr.Size() && missing.IsEmpty() && len(extra) == 0 {
		return arr, nil
	}

	serr := &label.ErrSparseRecords{
		Labels:   arr.Labels(),
		Expected: arr.Size(),
		Actual:   len(records),
		Extra:    extra,
	}
	for off := range missing.All() {
		serr.Missing = append(serr.Missing, axisValues(axes, coords(arr.Shape, off)))
	}
	dups := make([]int, 0)
	for off, n := range counts {
		if n > 1 {
			dups = append(dups, off)
		}
	}
	slices.Sort(dups)
	for _, off := range dups {
		serr.Duplicates = append(serr.Duplicates, label.Duplicate{
			Coords: axisValues(axes, coords(arr.Shape, off)),
			Count:  counts[off],
		})
	}
	slices.SortFunc(serr.Extra, func(a, b []label.Value) int {
		return strings.Compare(label.Array(a...).Key(), label.Array(b...).Key())
	})
	return nil, serr
}

// FromArray expands arr into one record per cell, enumerating the Cartesian
// product of the axis domains in row-major order.
func FromArray(arr *Array) ([]label.Record, error) {
	want := make([]int, len(arr.Axes))
	for i, ax := range arr.Axes {
		want[i] = len(ax.Domain)
	}
	if !slices.Equal(want, arr.Shape) {
		return nil, &ErrShapeMismatch{Expected: want, Got: arr.Shape}
	}
	if len(arr.Data) != product(want) {
		return nil, &ErrShapeMismatch{Expected: []int{product(want)}, Got: []int{len(arr.Data)}}
	}

	out := make([]label.Record, len(arr.Data))
	for off, v := range arr.Data {
		c := coords(arr.Shape, off)
		labels := make(label.Labels, len(arr.Axes))
		for i, ax := range arr.Axes {
			labels[ax.Label] = ax.Domain[c[i]]
		}
		out[off] = label.NewRecord(v.Clone(), labels)
	}
	return out, nil
}

// FromNested expands a nested array payload over the axes of grid for the
// given labels, in the order given.
func FromNested(grid *label.Grid, labels []string, v label.Value) ([]label.Record, error) {
	axes := make([]Axis, len(labels))
	for i, name := range labels {
		if !grid.Has(name) || name == label.AutoLabel {
			return nil, &label.ErrUnknownLabel{Label: name}
		}
		axes[i] = Axis{Label: name, Domain: grid.Domain(name)}
	}
	arr, err := FromValue(axes, v)
	if err != nil {
		return nil, err
	}
	return FromArray(arr)
}

func coordValues(axes []Axis, labels label.Labels) []label.Value {
	out := make([]label.Value, len(axes))
	for i, ax := range axes {
		out[i] = labels[ax.Label]
	}
	return out
}

func axisValues(axes []Axis, c []int) []label.Value {
	out := make([]label.Value, len(axes))
	for i, ax := range axes {
		out[i] = ax.Domain[c[i]]
	}
	return out
}
