package paramgrid

import (
	"slices"

	"github.com/hupe1980/paramgrid/label"
)

// SortRecords returns a copy of records sorted by the grid's labels in
// declaration order, the first label most significant. Values rank by their
// position in the label's domain, or by the label's ordering when the domain
// is open. Records lacking a label sort before those carrying it.
func SortRecords(grid *label.Grid, records []label.Record) []label.Record {
	out := slices.Clone(records)
	names := grid.Names()
	slices.SortStableFunc(out, func(a, b label.Record) int {
		for _, name := range names {
			if c := compareLabel(grid, name, a.Labels, b.Labels); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func compareLabel(grid *label.Grid, name string, a, b label.Labels) int {
	av, aok := a[name]
	bv, bok := b[name]
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	ar, aRanked := grid.Rank(name, av)
	br, bRanked := grid.Rank(name, bv)
	if aRanked && bRanked {
		return ar - br
	}

	ord := grid.Ordering(name)
	ak, aerr := ord.Key(av)
	bk, berr := ord.Key(bv)
	if aerr != nil || berr != nil {
		return 0
	}
	c, err := label.Compare(ak, bk)
	if err != nil {
		return 0
	}
	return c
}
