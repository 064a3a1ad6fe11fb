// Package store provides the label-indexed record store.
//
// A Store owns an ordered collection of records, each identified by a stable
// integer index. Indexes are derived state, built lazily on first use:
//
//   - an ordered index per label serves range queries (Label, Missing)
//   - a label tree serves equality selection (Select) and merges (Apply)
//
// A Store is not safe for concurrent use.
package store

import (
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/paramgrid/internal/conv"
	"github.com/hupe1980/paramgrid/internal/labeltree"
	"github.com/hupe1980/paramgrid/internal/ordered"
	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// Store is a collection of labeled records over a grid.
type Store struct {
	grid    *label.Grid
	opts    options
	records map[int]label.Record
	ids     *rowset.Set
	next    int

	tree    *labeltree.Tree
	indexes map[string]*ordered.Index
}

// New creates an empty store over grid.
func New(grid *label.Grid, optFns ...Option) *Store {
	if grid == nil {
		grid = label.MustGrid()
	}
	opts := options{observer: NoopIndexObserver{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return newStore(grid, opts)
}

func newStore(grid *label.Grid, opts options) *Store {
	s := &Store{
		grid:    grid,
		opts:    opts,
		records: make(map[int]label.Record),
		ids:     rowset.New(),
		indexes: make(map[string]*ordered.Index),
	}
	s.tree = labeltree.New(s, func(entries int, elapsed time.Duration) {
		s.opts.observer.OnIndexBuild(elapsed, IndexTree, "", entries, nil)
	})
	return s
}

// FromRecords creates a store holding records under indices 0..n-1.
func FromRecords(grid *label.Grid, records []label.Record, optFns ...Option) (*Store, error) {
	s := New(grid, optFns...)
	for _, r := range records {
		if _, err := s.Insert(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Grid returns the store's grid.
func (s *Store) Grid() *label.Grid { return s.grid }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Indices returns the record indices in ascending order.
func (s *Store) Indices() []int { return s.ids.Slice() }

// Record returns a copy of the record at index.
func (s *Store) Record(index int) (label.Record, bool) {
	r, ok := s.records[index]
	if !ok {
		return label.Record{}, false
	}
	return r.Clone(), true
}

// All iterates the records in index order.
//
// The yielded records are owned by the store and must not be modified.
func (s *Store) All() iter.Seq2[int, label.Record] {
	return func(yield func(int, label.Record) bool) {
		for i := range s.ids.All() {
			if !yield(i, s.records[i]) {
				return
			}
		}
	}
}

// Records returns copies of the records in index order.
func (s *Store) Records() []label.Record {
	out := make([]label.Record, 0, len(s.records))
	for _, r := range s.All() {
		out = append(out, r.Clone())
	}
	return out
}

// Insert appends a record under a fresh index and returns it.
func (s *Store) Insert(r label.Record) (int, error) {
	idx := s.next
	if err := s.InsertAt(idx, r); err != nil {
		return 0, err
	}
	return idx, nil
}

// InsertAt inserts a record under a caller-supplied unused index.
func (s *Store) InsertAt(index int, r label.Record) error {
	if _, err := conv.IntToUint32(index); err != nil {
		return fmt.Errorf("store: index %d: %w", index, err)
	}
	if _, ok := s.records[index]; ok {
		return &ErrIndexExists{Index: index}
	}
	for name := range r.Labels {
		if !s.grid.Has(name) {
			return &label.ErrUndeclaredLabel{Label: name, Record: r.Labels.Clone()}
		}
	}

	r = r.Clone()
	if r.Labels == nil {
		r.Labels = label.Labels{}
	}
	s.records[index] = r
	s.ids.Add(index)
	if index >= s.next {
		s.next = index + 1
	}

	for name, ix := range s.indexes {
		v, ok := r.Labels[name]
		if !ok {
			continue
		}
		if err := ix.Add(v, index); err != nil {
			// Rebuilt and reported on next query.
			delete(s.indexes, name)
		}
	}
	s.tree.Extend(index)
	return nil
}

// Delete removes the records at indices and returns how many existed.
// Indices are not reused.
func (s *Store) Delete(indices ...int) int {
	n := 0
	for _, idx := range indices {
		if s.remove(idx) {
			n++
		}
	}
	if n > 0 {
		s.invalidate()
	}
	return n
}

func (s *Store) remove(index int) bool {
	if _, ok := s.records[index]; !ok {
		return false
	}
	delete(s.records, index)
	s.ids.Remove(index)
	return true
}

// invalidate drops every derived index.
func (s *Store) invalidate() {
	clear(s.indexes)
	s.tree.Invalidate()
}

// Reindex renumbers the records 0..n-1 keeping their order.
func (s *Store) Reindex() {
	records := make(map[int]label.Record, len(s.records))
	ids := rowset.New()
	i := 0
	for _, r := range s.All() {
		records[i] = r
		ids.Add(i)
		i++
	}
	s.records = records
	s.ids = ids
	s.next = i
	s.invalidate()
}

// Clone returns an independent copy of the store. Indexes are rebuilt
// lazily on the copy.
func (s *Store) Clone() *Store {
	c := newStore(s.grid, s.opts)
	for i, r := range s.records {
		c.records[i] = r
	}
	c.ids = s.ids.Clone()
	c.next = s.next
	return c
}

// ConsistentLabels returns the label set shared by every record, or an
// ErrInconsistentLabels.
func (s *Store) ConsistentLabels() ([]string, error) {
	recs := make([]label.Record, 0, len(s.records))
	for _, r := range s.All() {
		recs = append(recs, r)
	}
	return label.CheckConsistent(recs)
}

// index returns the ordered index of a label, building it if needed.
func (s *Store) index(name string) (*ordered.Index, error) {
	if ix, ok := s.indexes[name]; ok {
		return ix, nil
	}

	start := time.Now()
	ix := ordered.New(name, s.grid.Ordering(name))
	var err error
	for i, r := range s.All() {
		v, ok := r.Labels[name]
		if !ok {
			continue
		}
		if err = ix.Add(v, i); err != nil {
			break
		}
	}
	s.opts.observer.OnIndexBuild(time.Since(start), IndexOrdered, name, ix.Len(), err)
	if err != nil {
		return nil, err
	}
	s.indexes[name] = ix
	return ix, nil
}
