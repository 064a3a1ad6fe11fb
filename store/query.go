package store

import (
	"iter"

	"github.com/hupe1980/paramgrid/internal/labeltree"
	"github.com/hupe1980/paramgrid/internal/ordered"
	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// Comparator selects recorded label values against a candidate list.
type Comparator = labeltree.Comparator

// Comparators for Select.
var (
	EqualAny    Comparator = labeltree.EqualAny
	NotEqualAll Comparator = labeltree.NotEqualAll
)

// Op is a comparison operator.
type Op = ordered.Op

// Comparison operators.
const (
	OpEq  = ordered.OpEq
	OpNe  = ordered.OpNe
	OpLt  = ordered.OpLt
	OpLte = ordered.OpLte
	OpGt  = ordered.OpGt
	OpGte = ordered.OpGte
)

// CompareAny returns a comparator selecting values for which op holds
// against any candidate.
func CompareAny(op Op) Comparator { return labeltree.CompareAny(op) }

// Selector is the query accessor of one label.
type Selector struct {
	store *Store
	name  string
}

// Label returns the query accessor of a label.
func (s *Store) Label(name string) Selector {
	return Selector{store: s, name: name}
}

// Name returns the label name.
func (sel Selector) Name() string { return sel.name }

// Eq selects records whose label equals v.
func (sel Selector) Eq(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpEq, v, opts...)
}

// Ne selects records whose label differs from v.
func (sel Selector) Ne(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpNe, v, opts...)
}

// Lt selects records whose label is less than v.
func (sel Selector) Lt(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpLt, v, opts...)
}

// Lte selects records whose label is less than or equal to v.
func (sel Selector) Lte(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpLte, v, opts...)
}

// Gt selects records whose label is greater than v.
func (sel Selector) Gt(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpGt, v, opts...)
}

// Gte selects records whose label is greater than or equal to v.
func (sel Selector) Gte(v label.Value, opts ...QueryOption) (*Result, error) {
	return sel.Compare(OpGte, v, opts...)
}

// Isin selects records whose label equals any of values.
func (sel Selector) Isin(values []label.Value, opts ...QueryOption) (*Result, error) {
	o := applyQueryOptions(opts)
	s := sel.store
	if done, res, err := sel.undeclared(o); done {
		return res, err
	}
	ix, err := s.index(sel.name)
	if err != nil {
		return nil, err
	}
	set := rowset.New()
	for _, v := range values {
		hits, err := ix.Eq(v)
		if err != nil {
			return nil, err
		}
		set.Or(hits)
	}
	return sel.finish(set, o), nil
}

// Compare selects records for which "label op v" holds.
func (sel Selector) Compare(op Op, v label.Value, opts ...QueryOption) (*Result, error) {
	o := applyQueryOptions(opts)
	if done, res, err := sel.undeclared(o); done {
		return res, err
	}
	ix, err := sel.store.index(sel.name)
	if err != nil {
		return nil, err
	}
	set, err := ix.Query(op, v)
	if err != nil {
		return nil, err
	}
	return sel.finish(set, o), nil
}

// undeclared handles queries against labels missing from the grid.
func (sel Selector) undeclared(o queryOptions) (bool, *Result, error) {
	if sel.store.grid.Has(sel.name) {
		return false, nil, nil
	}
	if o.strict {
		return true, nil, &label.ErrUnknownLabel{Label: sel.name}
	}
	return true, sel.store.Everything(), nil
}

func (sel Selector) finish(set *rowset.Set, o queryOptions) *Result {
	if !o.strict {
		set.Or(sel.store.tree.Missing(sel.name))
	}
	return sel.store.result(set)
}

// Missing selects records lacking the label.
func (s *Store) Missing(name string) *Result {
	return s.result(s.tree.Missing(name))
}

// Everything selects every record.
func (s *Store) Everything() *Result {
	return s.result(s.ids.Clone())
}

// Select selects records whose label values satisfy cmp against the
// candidates given per label. Candidate lists combine as a union within a
// label; labels combine as an intersection.
func (s *Store) Select(labels map[string][]label.Value, cmp Comparator, opts ...QueryOption) (*Result, error) {
	o := applyQueryOptions(opts)
	for name := range labels {
		if !s.grid.Has(name) && o.strict {
			return nil, &label.ErrUnknownLabel{Label: name}
		}
	}
	if cmp == nil {
		cmp = EqualAny
	}
	return s.result(s.tree.Select(labels, cmp, o.strict)), nil
}

func (s *Store) result(set *rowset.Set) *Result {
	return &Result{store: s, set: set}
}

// Result is a set of record indices bound to the store it was computed
// against.
type Result struct {
	store *Store
	set   *rowset.Set
}

// Store returns the originating store.
func (r *Result) Store() *Store { return r.store }

// Len returns the number of matched records.
func (r *Result) Len() int { return r.set.Len() }

// IsEmpty reports whether nothing matched.
func (r *Result) IsEmpty() bool { return r.set.IsEmpty() }

// Contains reports whether the record at index matched.
func (r *Result) Contains(index int) bool { return r.set.Contains(index) }

// Indices returns the matched indices in ascending order.
func (r *Result) Indices() []int { return r.set.Slice() }

// And returns the intersection of r and other. It panics if the results
// belong to different stores.
func (r *Result) And(other *Result) *Result {
	r.mustShareStore(other)
	return r.store.result(rowset.Intersect(r.set, other.set))
}

// Or returns the union of r and other. It panics if the results belong to
// different stores.
func (r *Result) Or(other *Result) *Result {
	r.mustShareStore(other)
	return r.store.result(rowset.Union(r.set, other.set))
}

func (r *Result) mustShareStore(other *Result) {
	if r.store != other.store {
		panic(ErrStoreMismatch)
	}
}

// All iterates the matched records in index order. Records deleted from the
// store after the query are skipped.
func (r *Result) All() iter.Seq2[int, label.Record] {
	return func(yield func(int, label.Record) bool) {
		for i := range r.set.All() {
			rec, ok := r.store.records[i]
			if !ok {
				continue
			}
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Records returns copies of the matched records in index order.
func (r *Result) Records() []label.Record {
	out := make([]label.Record, 0, r.Len())
	for _, rec := range r.All() {
		out = append(out, rec.Clone())
	}
	return out
}

// AsStore materializes the matched records as a new store over the same
// grid, keeping their original indices.
func (r *Result) AsStore() *Store {
	out := newStore(r.store.grid, r.store.opts)
	for i, rec := range r.All() {
		out.records[i] = rec
		out.ids.Add(i)
		if i >= out.next {
			out.next = i + 1
		}
	}
	return out
}

// Intersection intersects results of one store.
func Intersection(results ...*Result) (*Result, error) {
	return combine(results, rowset.Intersect)
}

// Union unites results of one store.
func Union(results ...*Result) (*Result, error) {
	return combine(results, rowset.Union)
}

func combine(results []*Result, fn func(...*rowset.Set) *rowset.Set) (*Result, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	sets := make([]*rowset.Set, len(results))
	for i, r := range results {
		if r.store != results[0].store {
			return nil, ErrStoreMismatch
		}
		sets[i] = r.set
	}
	return results[0].store.result(fn(sets...)), nil
}
