// Package rowset provides compressed sets of record indices.
//
// Every derived structure of a store (ordered indexes, label trees, query
// results) holds its postings as a Set backed by a 32-bit Roaring Bitmap.
package rowset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a set of record indices.
// It wraps the official roaring implementation.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *Set {
	return &Set{rb: roaring.New()}
}

// Of creates a set holding the given indices.
func Of(ids ...int) *Set {
	s := New()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Range creates a set holding [0, n).
func Range(n int) *Set {
	s := New()
	if n > 0 {
		s.rb.AddRange(0, uint64(n))
	}
	return s
}

// Add adds an index to the set.
func (s *Set) Add(id int) {
	s.rb.Add(uint32(id))
}

// AddMany adds several indices to the set.
func (s *Set) AddMany(ids []uint32) {
	s.rb.AddMany(ids)
}

// Remove removes an index from the set.
func (s *Set) Remove(id int) {
	s.rb.Remove(uint32(id))
}

// Contains checks if an index is in the set.
func (s *Set) Contains(id int) bool {
	if s == nil {
		return false
	}
	return s.rb.Contains(uint32(id))
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s == nil || s.rb.IsEmpty()
}

// Len returns the number of elements in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// Max returns the largest index, or -1 for an empty set.
func (s *Set) Max() int {
	if s.IsEmpty() {
		return -1
	}
	return int(s.rb.Maximum())
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	if s == nil {
		return New()
	}
	return &Set{rb: s.rb.Clone()}
}

// All returns an iterator over the indices in ascending order.
func (s *Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if s == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Slice returns the indices in ascending order.
func (s *Set) Slice() []int {
	if s == nil {
		return []int{}
	}
	out := make([]int, 0, s.Len())
	for id := range s.All() {
		out = append(out, id)
	}
	return out
}

// Descending returns the indices in descending order.
func (s *Set) Descending() []int {
	out := s.Slice()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// And computes the intersection in place.
func (s *Set) And(other *Set) {
	if other == nil {
		s.rb.Clear()
		return
	}
	s.rb.And(other.rb)
}

// Or computes the union in place.
func (s *Set) Or(other *Set) {
	if other == nil {
		return
	}
	s.rb.Or(other.rb)
}

// AndNot removes the elements of other in place.
func (s *Set) AndNot(other *Set) {
	if other == nil {
		return
	}
	s.rb.AndNot(other.rb)
}

// Equal reports whether both sets hold the same indices.
func (s *Set) Equal(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.rb.Equals(other.rb)
}

// Clear removes all elements from the set.
func (s *Set) Clear() {
	s.rb.Clear()
}

// Intersect returns a new set holding the intersection of the inputs.
// With no inputs it returns an empty set.
func Intersect(sets ...*Set) *Set {
	if len(sets) == 0 {
		return New()
	}
	out := sets[0].Clone()
	for _, s := range sets[1:] {
		out.And(s)
	}
	return out
}

// Union returns a new set holding the union of the inputs.
func Union(sets ...*Set) *Set {
	out := New()
	for _, s := range sets {
		out.Or(s)
	}
	return out
}
