// Package testutil provides testing utilities for paramgrid.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for building deterministic label grids and
// span-complete or sparse record sets.
//
// # Grids
//
//	grid := testutil.Grid(3, 4)   // labels d0 (0..2) and d1 (0..3)
//
// # Records
//
//	rng := testutil.NewRNG(seed)
//	records := rng.Dense(grid)        // one record per coordinate
//	sparse := rng.Drop(records, 2)    // two random records removed
//	adj := rng.Adjustment(grid, 5)    // five random adjustment records
package testutil
