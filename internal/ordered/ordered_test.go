package ordered

import (
	"errors"
	"testing"

	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInts(t *testing.T, values ...int64) *Index {
	t.Helper()
	ix := New("year", nil)
	for i, v := range values {
		require.NoError(t, ix.Add(label.Int(v), i))
	}
	return ix
}

func TestIndexComparisons(t *testing.T) {
	// index:     0     1     2     3     4
	ix := buildInts(t, 2020, 2021, 2021, 2019, 2022)

	tests := []struct {
		op   Op
		v    label.Value
		want []int
	}{
		{OpEq, label.Int(2021), []int{1, 2}},
		{OpNe, label.Int(2021), []int{0, 3, 4}},
		{OpLt, label.Int(2021), []int{0, 3}},
		{OpLte, label.Int(2021), []int{0, 1, 2, 3}},
		{OpGt, label.Int(2021), []int{4}},
		{OpGte, label.Int(2021), []int{1, 2, 4}},
		{OpEq, label.Int(1999), []int{}},
		{OpLt, label.Int(1999), []int{}},
		{OpGt, label.Int(2030), []int{}},
		{OpEq, label.Float(2021.0), []int{1, 2}},
		{OpGt, label.Float(2020.5), []int{1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String()+"/"+tt.v.String(), func(t *testing.T) {
			got, err := ix.Query(tt.op, tt.v)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Slice())
		})
	}
}

func TestIndexPartition(t *testing.T) {
	ix := buildInts(t, 5, 1, 3, 3, 9, 7, 1)

	for _, pivot := range []int64{0, 1, 3, 4, 9, 10} {
		v := label.Int(pivot)
		lt, err := ix.Lt(v)
		require.NoError(t, err)
		eq, err := ix.Eq(v)
		require.NoError(t, err)
		gt, err := ix.Gt(v)
		require.NoError(t, err)

		assert.True(t, rowset.Union(lt, eq, gt).Equal(ix.Indices()), "pivot %d", pivot)
		assert.True(t, rowset.Intersect(lt, eq).IsEmpty())
		assert.True(t, rowset.Intersect(gt, eq).IsEmpty())

		lte, err := ix.Lte(v)
		require.NoError(t, err)
		assert.True(t, lte.Equal(rowset.Union(lt, eq)))

		gte, err := ix.Gte(v)
		require.NoError(t, err)
		assert.True(t, gte.Equal(rowset.Union(gt, eq)))
	}
}

func TestIndexRankedOrdering(t *testing.T) {
	ord := label.NewRanked(label.String("single"), label.String("joint"), label.String("separate"))
	ix, err := Build("mars", ord,
		[]label.Value{label.String("separate"), label.String("single"), label.String("joint")},
		[]int{0, 1, 2},
	)
	require.NoError(t, err)

	lt, err := ix.Lt(label.String("separate"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, lt.Slice())

	gt, err := ix.Gt(label.String("single"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, gt.Slice())

	_, err = ix.Eq(label.String("widow"))
	var notOrderable *label.ErrNotOrderable
	require.ErrorAs(t, err, &notOrderable)
	assert.Equal(t, "mars", notOrderable.Label)
	assert.True(t, errors.Is(err, label.ErrIncomparable))
}

func TestIndexNotOrderable(t *testing.T) {
	_, err := Build("d", nil,
		[]label.Value{label.Int(1), label.String("a")},
		[]int{0, 1},
	)
	var notOrderable *label.ErrNotOrderable
	require.ErrorAs(t, err, &notOrderable)
	assert.Equal(t, "d", notOrderable.Label)

	ix := buildInts(t, 1, 2)
	_, err = ix.Lt(label.String("x"))
	require.ErrorAs(t, err, &notOrderable)
}

func TestIndexArrays(t *testing.T) {
	ix := New("bracket", nil)
	require.NoError(t, ix.Add(label.Array(label.Int(1), label.Int(2)), 0))
	require.NoError(t, ix.Add(label.Array(label.Int(1), label.Int(3)), 1))

	err := ix.Add(label.Array(label.String("x")), 2)
	var notOrderable *label.ErrNotOrderable
	require.ErrorAs(t, err, &notOrderable)

	gt, err := ix.Gt(label.Array(label.Int(1), label.Int(2)))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, gt.Slice())
}

func TestIndexRemove(t *testing.T) {
	ix := buildInts(t, 1, 1, 2)
	require.NoError(t, ix.Remove(label.Int(1), 0))
	assert.Equal(t, 2, ix.Len())

	eq, err := ix.Eq(label.Int(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, eq.Slice())

	ne, err := ix.Ne(label.Int(1))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ne.Slice())
}

func TestIndexEmpty(t *testing.T) {
	ix := New("year", nil)
	got, err := ix.Eq(label.String("anything"))
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, 0, ix.Len())
}

func TestBuildLengthMismatch(t *testing.T) {
	_, err := Build("x", nil, []label.Value{label.Int(1)}, nil)
	require.Error(t, err)
}
