package store

import (
	"testing"

	"github.com/hupe1980/paramgrid/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// partial has one record lacking d1 and one synthesized record.
func partial(t *testing.T) *Store {
	t.Helper()
	s, err := FromRecords(grid, []label.Record{
		rec(1, map[string]any{"d0": 1, "d1": "a"}),
		rec(2, map[string]any{"d0": 2, "d1": "b"}),
		rec(3, map[string]any{"d0": 3}),
		rec(4, map[string]any{"d0": 3, "d1": "a", label.AutoLabel: true}),
	})
	require.NoError(t, err)
	return s
}

func TestSelectorOperators(t *testing.T) {
	s := partial(t)

	tests := []struct {
		name string
		run  func() (*Result, error)
		want []int
	}{
		{"eq", func() (*Result, error) { return s.Label("d0").Eq(label.Int(3)) }, []int{2, 3}},
		{"ne", func() (*Result, error) { return s.Label("d0").Ne(label.Int(3)) }, []int{0, 1}},
		{"lt", func() (*Result, error) { return s.Label("d0").Lt(label.Int(2)) }, []int{0}},
		{"lte", func() (*Result, error) { return s.Label("d0").Lte(label.Int(2)) }, []int{0, 1}},
		{"gt", func() (*Result, error) { return s.Label("d0").Gt(label.Int(2)) }, []int{2, 3}},
		{"gte", func() (*Result, error) { return s.Label("d0").Gte(label.Int(2)) }, []int{1, 2, 3}},
		{"isin", func() (*Result, error) {
			return s.Label("d0").Isin([]label.Value{label.Int(1), label.Int(3)})
		}, []int{0, 2, 3}},
		{"isin empty", func() (*Result, error) { return s.Label("d0").Isin(nil) }, []int{}},
		{"strict excludes missing", func() (*Result, error) { return s.Label("d1").Eq(label.String("a")) }, []int{0, 3}},
		{"non-strict includes missing", func() (*Result, error) {
			return s.Label("d1").Eq(label.String("a"), Strict(false))
		}, []int{0, 2, 3}},
		{"non-strict isin", func() (*Result, error) {
			return s.Label("d1").Isin([]label.Value{label.String("b")}, Strict(false))
		}, []int{1, 2}},
		{"auto", func() (*Result, error) { return s.Label(label.AutoLabel).Eq(label.Bool(true)) }, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Indices())
		})
	}
}

func TestMissing(t *testing.T) {
	s := partial(t)
	assert.Equal(t, []int{2}, s.Missing("d1").Indices())
	assert.Equal(t, []int{0, 1, 2}, s.Missing(label.AutoLabel).Indices())
	assert.True(t, s.Missing("d0").IsEmpty())
}

func TestUnknownLabel(t *testing.T) {
	s := partial(t)

	_, err := s.Label("zz").Eq(label.Int(1))
	var unknown *label.ErrUnknownLabel
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "zz", unknown.Label)

	res, err := s.Label("zz").Eq(label.Int(1), Strict(false))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Indices())

	_, err = s.Select(map[string][]label.Value{"zz": {label.Int(1)}}, EqualAny)
	require.ErrorAs(t, err, &unknown)
}

func TestDeclaredButUnusedLabel(t *testing.T) {
	g := label.MustGrid(label.Dimension{Name: "d0"}, label.Dimension{Name: "unused"})
	s, err := FromRecords(g, []label.Record{rec(1, map[string]any{"d0": 1})})
	require.NoError(t, err)

	res, err := s.Label("unused").Eq(label.Int(1))
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())

	res, err = s.Label("unused").Eq(label.Int(1), Strict(false))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Indices())
}

func TestNotOrderableQuery(t *testing.T) {
	s := partial(t)
	_, err := s.Label("d0").Lt(label.String("x"))
	var notOrderable *label.ErrNotOrderable
	require.ErrorAs(t, err, &notOrderable)
	assert.Equal(t, "d0", notOrderable.Label)
}

func TestRankedLabelOrdering(t *testing.T) {
	statuses := []label.Value{label.String("single"), label.String("joint"), label.String("separate")}
	g := label.MustGrid(label.Dimension{Name: "mars", Domain: statuses, Ordering: label.NewRanked(statuses...)})
	s, err := FromRecords(g, []label.Record{
		rec(1, map[string]any{"mars": "separate"}),
		rec(2, map[string]any{"mars": "single"}),
		rec(3, map[string]any{"mars": "joint"}),
	})
	require.NoError(t, err)

	res, err := s.Label("mars").Lte(label.String("joint"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res.Indices())
}

func TestResultAlgebra(t *testing.T) {
	s := partial(t)
	a, err := s.Label("d0").Gte(label.Int(2))
	require.NoError(t, err)
	b, err := s.Label("d1").Eq(label.String("a"))
	require.NoError(t, err)
	c := s.Missing(label.AutoLabel)

	assert.Equal(t, []int{3}, a.And(b).Indices())
	assert.Equal(t, []int{0, 1, 2, 3}, a.Or(b).Indices())

	assert.Equal(t, a.And(b).Indices(), b.And(a).Indices(), "commutative")
	assert.Equal(t, a.Or(b).Indices(), b.Or(a).Indices(), "commutative")
	assert.Equal(t, a.And(b).And(c).Indices(), a.And(b.And(c)).Indices(), "associative")
	assert.Equal(t, a.Or(b).Or(c).Indices(), a.Or(b.Or(c)).Indices(), "associative")
	assert.Equal(t, a.And(b.Or(c)).Indices(), a.And(b).Or(a.And(c)).Indices(), "distributive")

	inter, err := Intersection(a, b, c)
	require.NoError(t, err)
	assert.Empty(t, inter.Indices())

	union, err := Union(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, union.Indices())

	_, err = Union()
	require.ErrorIs(t, err, ErrNoResults)
}

func TestResultStoreMismatch(t *testing.T) {
	a := partial(t).Everything()
	b := partial(t).Everything()

	assert.PanicsWithValue(t, ErrStoreMismatch, func() { a.And(b) })
	assert.PanicsWithValue(t, ErrStoreMismatch, func() { a.Or(b) })

	_, err := Intersection(a, b)
	require.ErrorIs(t, err, ErrStoreMismatch)
}

func TestResultIteration(t *testing.T) {
	s := partial(t)
	res, err := s.Label("d0").Eq(label.Int(3))
	require.NoError(t, err)

	var values []label.Value
	for _, r := range res.All() {
		values = append(values, r.Value)
	}
	assert.Equal(t, []label.Value{label.Int(3), label.Int(4)}, values)

	s.Delete(2)
	assert.Len(t, res.Records(), 1)
}

func TestAsStoreSliceAgain(t *testing.T) {
	s := partial(t)
	res, err := s.Label("d0").Gte(label.Int(2))
	require.NoError(t, err)

	sub := res.AsStore()
	assert.Equal(t, []int{1, 2, 3}, sub.Indices())
	assert.Equal(t, 4, s.Len())

	again, err := sub.Label("d1").Eq(label.String("a"))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, again.Indices())
	assert.Same(t, sub, again.Store())

	idx, err := sub.Insert(rec(9, map[string]any{"d0": 1, "d1": "b"}))
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
}

func TestSelect(t *testing.T) {
	s := partial(t)

	res, err := s.Select(map[string][]label.Value{
		"d0": {label.Int(1), label.Int(3)},
		"d1": {label.String("a")},
	}, EqualAny)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, res.Indices())

	res, err = s.Select(map[string][]label.Value{"d1": {label.String("a")}}, nil, Strict(false))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, res.Indices())

	res, err = s.Select(map[string][]label.Value{"d0": {label.Int(2)}}, CompareAny(OpGt))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, res.Indices())

	res, err = s.Select(nil, EqualAny)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Len())
}
