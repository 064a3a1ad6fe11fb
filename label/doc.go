// Package label provides the typed value model for labeled parameter records.
//
// A record (value object) associates a payload with a set of named, typed
// dimensions called labels:
//
//	rec := label.NewRecord(label.Float(0.25), label.Labels{
//	    "year":   label.Int(2024),
//	    "status": label.String("single"),
//	})
//
// A Grid declares, for each label, its ordered domain of legal values and the
// Ordering used to compare values:
//
//	grid := label.MustGrid(
//	    label.Dimension{Name: "year", Domain: []label.Value{label.Int(2024), label.Int(2025)}},
//	    label.Dimension{Name: "status", Domain: statuses, Ordering: label.NewRanked(statuses...)},
//	)
//
// The package also defines the error taxonomy shared by the store, the
// label tree and the dense array bridge.
package label
