package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/paramgrid/label"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Grid returns a grid with one int-valued label per size: label "d<i>" with
// domain 0..sizes[i]-1.
func Grid(sizes ...int) *label.Grid {
	dims := make([]label.Dimension, len(sizes))
	for i, n := range sizes {
		domain := make([]label.Value, n)
		for v := range domain {
			domain[v] = label.Int(int64(v))
		}
		dims[i] = label.Dimension{Name: fmt.Sprintf("d%d", i), Domain: domain}
	}
	return label.MustGrid(dims...)
}

// Coordinates enumerates the Cartesian product of the grid's domains in
// row-major order.
func Coordinates(grid *label.Grid) []label.Labels {
	out := []label.Labels{{}}
	for _, name := range grid.Names() {
		domain := grid.Domain(name)
		next := make([]label.Labels, 0, len(out)*len(domain))
		for _, ls := range out {
			for _, v := range domain {
				c := ls.Clone()
				c[name] = v
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

// Dense returns one record per grid coordinate with random float payloads.
func (r *RNG) Dense(grid *label.Grid) []label.Record {
	coords := Coordinates(grid)
	out := make([]label.Record, len(coords))
	for i, c := range coords {
		out[i] = label.NewRecord(label.Float(r.Float64()), c)
	}
	return out
}

// Drop returns a copy of records with n randomly chosen records removed.
func (r *RNG) Drop(records []label.Record, n int) []label.Record {
	out := slices.Clone(records)
	for i := 0; i < n && len(out) > 0; i++ {
		j := r.Intn(len(out))
		out = slices.Delete(out, j, j+1)
	}
	return out
}

// Shuffle returns a shuffled copy of records.
func (r *RNG) Shuffle(records []label.Record) []label.Record {
	out := slices.Clone(records)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Adjustment returns n random adjustment records over the grid. Each label
// is omitted with probability 1/4 and each payload is null with probability
// 1/5.
func (r *RNG) Adjustment(grid *label.Grid, n int) []label.Record {
	out := make([]label.Record, n)
	for i := range out {
		ls := label.Labels{}
		for _, name := range grid.Names() {
			if r.Intn(4) == 0 {
				continue
			}
			domain := grid.Domain(name)
			ls[name] = domain[r.Intn(len(domain))]
		}
		v := label.Float(r.Float64())
		if r.Intn(5) == 0 {
			v = label.Null()
		}
		out[i] = label.NewRecord(v, ls)
	}
	return out
}
