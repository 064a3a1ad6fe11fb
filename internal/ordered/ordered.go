// Package ordered implements the per-label ordered index used for range
// queries over record labels.
package ordered

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/btree"
	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// degree of the underlying B-tree.
const degree = 32

// Op is a comparison operator supported by the index.
type Op uint8

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLte
	OpGt
	OpGte
)

// String returns the operator's short name.
func (op Op) String() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	default:
		return "unknown"
	}
}

// entry is one (key, index) pair. Entries are unique because the index
// breaks ties between equal keys.
type entry struct {
	key   label.Value
	index uint32
}

func less(a, b entry) bool {
	c, err := label.Compare(a.key, b.key)
	if err != nil {
		// Unreachable for keys admitted by Add; keep the order total anyway.
		c = int(a.key.Kind) - int(b.key.Kind)
	}
	if c != 0 {
		return c < 0
	}
	return a.index < b.index
}

// keyClass groups key kinds that compare with each other.
type keyClass uint8

const (
	classNone keyClass = iota
	classNull
	classNumber
	classString
	classBool
	classDate
	classArray
)

func classOf(v label.Value) keyClass {
	switch v.Kind {
	case label.KindNull, label.KindInvalid:
		return classNull
	case label.KindInt, label.KindFloat:
		return classNumber
	case label.KindString:
		return classString
	case label.KindBool:
		return classBool
	case label.KindDate:
		return classDate
	case label.KindArray:
		return classArray
	default:
		return classNone
	}
}

var errClassMismatch = errors.New("key kind differs from indexed keys")

// Index is an ordered index over one label's values.
//
// Architecture:
//   - B-tree of (ordering key, record index) entries
//   - rowset of every indexed record for complement queries
//
// Range queries cost O(log n + k), inserts O(log n).
type Index struct {
	label    string
	ordering label.Ordering
	tree     *btree.BTreeG[entry]
	indices  *rowset.Set
	class    keyClass
}

// New creates an empty index for a label. A nil ordering means natural order.
func New(name string, ordering label.Ordering) *Index {
	if ordering == nil {
		ordering = label.Natural{}
	}
	return &Index{
		label:    name,
		ordering: ordering,
		tree:     btree.NewG[entry](degree, less),
		indices:  rowset.New(),
	}
}

// Build creates an index from parallel slices of values and record indices.
func Build(name string, ordering label.Ordering, values []label.Value, indices []int) (*Index, error) {
	if len(values) != len(indices) {
		return nil, fmt.Errorf("ordered: %d values but %d indices", len(values), len(indices))
	}
	ix := New(name, ordering)
	for i := range values {
		if err := ix.Add(values[i], indices[i]); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Label returns the indexed label name.
func (ix *Index) Label() string { return ix.label }

// Len returns the number of indexed entries.
func (ix *Index) Len() int { return ix.tree.Len() }

// Indices returns every record index carrying the label.
func (ix *Index) Indices() *rowset.Set { return ix.indices.Clone() }

// Add inserts one (value, index) pair. Duplicate values are legal.
func (ix *Index) Add(v label.Value, index int) error {
	if index < 0 || index > math.MaxUint32 {
		return fmt.Errorf("ordered: index %d out of range", index)
	}
	key, err := ix.key(v)
	if err != nil {
		return err
	}
	if ix.class == classNone {
		ix.class = classOf(key)
	}
	ix.tree.ReplaceOrInsert(entry{key: key, index: uint32(index)})
	ix.indices.Add(index)
	return nil
}

// Remove deletes one (value, index) pair if present.
func (ix *Index) Remove(v label.Value, index int) error {
	key, err := ix.key(v)
	if err != nil {
		return err
	}
	if _, ok := ix.tree.Delete(entry{key: key, index: uint32(index)}); ok {
		ix.indices.Remove(index)
	}
	return nil
}

// key maps v through the ordering and checks it is comparable with the keys
// already in the index.
func (ix *Index) key(v label.Value) (label.Value, error) {
	key, err := ix.ordering.Key(v)
	if err != nil {
		return label.Value{}, label.NewErrNotOrderable(ix.label, v, err)
	}
	if ix.class != classNone && classOf(key) != ix.class {
		return label.Value{}, label.NewErrNotOrderable(ix.label, v, errClassMismatch)
	}
	if key.Kind == label.KindArray {
		if first, ok := ix.tree.Min(); ok {
			if _, err := label.Compare(key, first.key); err != nil {
				return label.Value{}, label.NewErrNotOrderable(ix.label, v, err)
			}
		}
	}
	return key, nil
}

// Query evaluates op against v.
func (ix *Index) Query(op Op, v label.Value) (*rowset.Set, error) {
	switch op {
	case OpEq:
		return ix.Eq(v)
	case OpNe:
		return ix.Ne(v)
	case OpLt:
		return ix.Lt(v)
	case OpLte:
		return ix.Lte(v)
	case OpGt:
		return ix.Gt(v)
	case OpGte:
		return ix.Gte(v)
	default:
		return nil, fmt.Errorf("ordered: unsupported operator %d", op)
	}
}

// Eq returns the indices whose key equals the key of v.
func (ix *Index) Eq(v label.Value) (*rowset.Set, error) {
	key, err := ix.key(v)
	if err != nil {
		return nil, err
	}
	out := rowset.New()
	ix.tree.AscendGreaterOrEqual(entry{key: key, index: 0}, func(e entry) bool {
		if c, _ := label.Compare(e.key, key); c != 0 {
			return false
		}
		out.Add(int(e.index))
		return true
	})
	return out, nil
}

// Ne returns the indices whose key differs from the key of v.
func (ix *Index) Ne(v label.Value) (*rowset.Set, error) {
	eq, err := ix.Eq(v)
	if err != nil {
		return nil, err
	}
	out := ix.indices.Clone()
	out.AndNot(eq)
	return out, nil
}

// Lt returns the indices whose key is less than the key of v.
func (ix *Index) Lt(v label.Value) (*rowset.Set, error) {
	key, err := ix.key(v)
	if err != nil {
		return nil, err
	}
	out := rowset.New()
	ix.tree.AscendLessThan(entry{key: key, index: 0}, func(e entry) bool {
		out.Add(int(e.index))
		return true
	})
	return out, nil
}

// Lte returns the indices whose key is less than or equal to the key of v.
func (ix *Index) Lte(v label.Value) (*rowset.Set, error) {
	key, err := ix.key(v)
	if err != nil {
		return nil, err
	}
	out := rowset.New()
	ix.tree.Ascend(func(e entry) bool {
		if c, _ := label.Compare(e.key, key); c > 0 {
			return false
		}
		out.Add(int(e.index))
		return true
	})
	return out, nil
}

// Gt returns the indices whose key is greater than the key of v.
func (ix *Index) Gt(v label.Value) (*rowset.Set, error) {
	key, err := ix.key(v)
	if err != nil {
		return nil, err
	}
	out := rowset.New()
	ix.tree.AscendGreaterOrEqual(entry{key: key, index: math.MaxUint32}, func(e entry) bool {
		if c, _ := label.Compare(e.key, key); c > 0 {
			out.Add(int(e.index))
		}
		return true
	})
	return out, nil
}

// Gte returns the indices whose key is greater than or equal to the key of v.
func (ix *Index) Gte(v label.Value) (*rowset.Set, error) {
	key, err := ix.key(v)
	if err != nil {
		return nil, err
	}
	out := rowset.New()
	ix.tree.AscendGreaterOrEqual(entry{key: key, index: 0}, func(e entry) bool {
		out.Add(int(e.index))
		return true
	})
	return out, nil
}
