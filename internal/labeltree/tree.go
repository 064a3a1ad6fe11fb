// Package labeltree implements the per-label equality index of a record
// store and the merge planning built on it.
package labeltree

import (
	"iter"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/paramgrid/internal/ordered"
	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// Source provides the records a tree indexes.
type Source interface {
	All() iter.Seq2[int, label.Record]
	Record(index int) (label.Record, bool)
}

// State is the build state of a tree.
type State uint8

const (
	Unbuilt State = iota
	Built
	Dirty
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Built:
		return "built"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}

type bucket struct {
	value label.Value
	set   *rowset.Set
}

// Tree maps label -> value -> set of record indices.
//
// The tree is built on first use. Extend folds appended records into a built
// tree; Invalidate marks it for a full rebuild on next use.
type Tree struct {
	src     Source
	onBuild func(entries int, elapsed time.Duration)

	state   State
	all     *rowset.Set
	labels  map[string]map[string]*bucket
	carried map[string]*rowset.Set
}

// New creates an unbuilt tree over src. onBuild, if non-nil, is called after
// every full build.
func New(src Source, onBuild func(entries int, elapsed time.Duration)) *Tree {
	return &Tree{src: src, onBuild: onBuild}
}

// State returns the current build state.
func (t *Tree) State() State { return t.state }

// Invalidate forces a full rebuild on next use.
func (t *Tree) Invalidate() {
	if t.state == Built {
		t.state = Dirty
	}
}

// Extend adds newly appended records to a built tree. Unbuilt and dirty
// trees pick them up on their next build.
func (t *Tree) Extend(indices ...int) {
	if t.state != Built {
		return
	}
	for _, i := range indices {
		if rec, ok := t.src.Record(i); ok {
			t.add(i, rec)
		}
	}
}

func (t *Tree) ensure() {
	if t.state == Built {
		return
	}
	start := time.Now()
	t.all = rowset.New()
	t.labels = make(map[string]map[string]*bucket)
	t.carried = make(map[string]*rowset.Set)
	n := 0
	for i, rec := range t.src.All() {
		t.add(i, rec)
		n++
	}
	t.state = Built
	if t.onBuild != nil {
		t.onBuild(n, time.Since(start))
	}
}

func (t *Tree) add(i int, rec label.Record) {
	t.all.Add(i)
	for name, v := range rec.Labels {
		values, ok := t.labels[name]
		if !ok {
			values = make(map[string]*bucket)
			t.labels[name] = values
			t.carried[name] = rowset.New()
		}
		k := matchKey(v)
		b, ok := values[k]
		if !ok {
			b = &bucket{value: v, set: rowset.New()}
			values[k] = b
		}
		b.set.Add(i)
		t.carried[name].Add(i)
	}
}

// All returns every indexed record index.
func (t *Tree) All() *rowset.Set {
	t.ensure()
	return t.all.Clone()
}

// Has reports whether any record carries the label.
func (t *Tree) Has(name string) bool {
	t.ensure()
	_, ok := t.labels[name]
	return ok
}

// Labels returns the labels carried by at least one record, sorted,
// excluding AutoLabel.
func (t *Tree) Labels() []string {
	t.ensure()
	names := make([]string, 0, len(t.labels))
	for name := range t.labels {
		if name == label.AutoLabel {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Values returns the distinct values recorded for a label.
func (t *Tree) Values(name string) []label.Value {
	t.ensure()
	values := t.labels[name]
	out := make([]label.Value, 0, len(values))
	for _, b := range values {
		out = append(out, b.value)
	}
	slices.SortFunc(out, func(a, b label.Value) int {
		if c, err := label.Compare(a, b); err == nil {
			return c
		}
		return strings.Compare(a.Key(), b.Key())
	})
	return out
}

// Lookup returns the records whose label equals v, or nil when no record
// carries that value.
func (t *Tree) Lookup(name string, v label.Value) *rowset.Set {
	t.ensure()
	b, ok := t.labels[name][matchKey(v)]
	if !ok {
		return nil
	}
	return b.set.Clone()
}

// Carrying returns the records carrying the label.
func (t *Tree) Carrying(name string) *rowset.Set {
	t.ensure()
	return t.carried[name].Clone()
}

// Missing returns the records lacking the label.
func (t *Tree) Missing(name string) *rowset.Set {
	t.ensure()
	out := t.all.Clone()
	out.AndNot(t.carried[name])
	return out
}

// Comparator reports whether a recorded value v is selected by candidates.
type Comparator func(v label.Value, candidates []label.Value) bool

// EqualAny selects values equal to any candidate.
func EqualAny(v label.Value, candidates []label.Value) bool {
	k := matchKey(v)
	for _, c := range candidates {
		if matchKey(c) == k {
			return true
		}
	}
	return false
}

// NotEqualAll selects values differing from every candidate.
func NotEqualAll(v label.Value, candidates []label.Value) bool {
	return !EqualAny(v, candidates)
}

// CompareAny returns a comparator selecting values for which op holds
// against any candidate under natural order. Incomparable pairs never match.
func CompareAny(op ordered.Op) Comparator {
	return func(v label.Value, candidates []label.Value) bool {
		for _, c := range candidates {
			cmp, err := label.Compare(v, c)
			if err != nil {
				continue
			}
			if holds(op, cmp) {
				return true
			}
		}
		return false
	}
}

func holds(op ordered.Op, cmp int) bool {
	switch op {
	case ordered.OpEq:
		return cmp == 0
	case ordered.OpNe:
		return cmp != 0
	case ordered.OpLt:
		return cmp < 0
	case ordered.OpLte:
		return cmp <= 0
	case ordered.OpGt:
		return cmp > 0
	case ordered.OpGte:
		return cmp >= 0
	default:
		return false
	}
}

// Select returns the records whose values satisfy cmp for every label in
// labels. Non-strict selection also admits records lacking a label. An empty
// selection matches everything.
func (t *Tree) Select(labels map[string][]label.Value, cmp Comparator, strict bool) *rowset.Set {
	t.ensure()
	out := t.all.Clone()
	for name, candidates := range labels {
		values, ok := t.labels[name]
		if !ok {
			if strict {
				return rowset.New()
			}
			continue
		}
		hits := rowset.New()
		for _, b := range values {
			if cmp(b.value, candidates) {
				hits.Or(b.set)
			}
		}
		if !strict {
			missing := t.all.Clone()
			missing.AndNot(t.carried[name])
			hits.Or(missing)
		}
		out.And(hits)
		if out.IsEmpty() {
			break
		}
	}
	return out
}

// matchKey returns the equality key of v. Integral floats share the key of
// the equal int so that 2021 and 2021.0 match.
func matchKey(v label.Value) string {
	if f, ok := v.AsFloat64(); ok && v.Kind == label.KindFloat {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return label.Int(int64(f)).Key()
		}
	}
	return v.Key()
}
