// Package paramgrid manages labeled parameter records.
//
// A parameter is a sparse set of records. Each record carries a payload and
// a set of labels (named dimensions such as year or filing status) drawn from
// a shared label grid. paramgrid queries, adjusts and densifies these sets.
//
// # Quick Start
//
//	grid := label.MustGrid(
//	    label.Dimension{Name: "year", Domain: []label.Value{label.Int(2024), label.Int(2025)}},
//	    label.Dimension{Name: "mars", Domain: []label.Value{label.String("single"), label.String("joint")}},
//	)
//	params := paramgrid.New(grid,
//	    paramgrid.WithValidator(paramgrid.KindValidator{Grid: grid}),
//	)
//	_ = params.Add(ctx, "rate", records)
//
// # Adjustments
//
// An adjustment is a sparse record set merged onto a parameter. Records match
// on every label they specify; omitted labels are wildcards:
//
//	stats, err := params.Adjust(ctx, map[string][]label.Record{
//	    "rate": {label.NewRecord(label.Float(0.3), label.Labels{"year": label.Int(2025)})},
//	})
//
// A null payload deletes the matched records. Unmatched records are appended.
// Adjusting is all-or-nothing across parameters.
//
// # Queries
//
// The store package exposes the query algebra:
//
//	st, _ := params.Sel("rate")
//	a, _ := st.Label("year").Gte(label.Int(2025))
//	b, _ := st.Label("mars").Eq(label.String("joint"))
//	for _, rec := range a.And(b).All() {
//	    fmt.Println(rec)
//	}
//
// # Dense Arrays
//
// A span-complete parameter converts to a dense array over its labels:
//
//	arr, err := params.ToArray(ctx, "rate")
//
// SetState narrows the grid; ToArray, FromArray and Active honor it.
package paramgrid
